package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/vesseliq/backend/internal/config"
	"github.com/vesseliq/backend/internal/models"
	"github.com/vesseliq/backend/internal/services"
)

type PricingHandler struct {
	pricing *services.PricingService
	catalog *services.CatalogService
	config  *config.CreditsConfig
}

func NewPricingHandler(pricing *services.PricingService, catalog *services.CatalogService) *PricingHandler {
	return &PricingHandler{
		pricing: pricing,
		catalog: catalog,
		config:  config.LoadCreditsConfig(),
	}
}

// Quote prices a tracking request
// @Summary Price a tracking request
// @Description Compute the credit cost of tracking vessels with the selected criteria, with duration, bulk and package discounts applied
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body object{criteriaIds=[]string,durationDays=number,vesselCount=int,tier=string} true "Quote request"
// @Success 200 {object} models.PriceQuote
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /pricing/quote [post]
func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CriteriaIDs  []string `json:"criteriaIds"`
		DurationDays float64  `json:"durationDays"`
		VesselCount  int      `json:"vesselCount"`
		Tier         string   `json:"tier,omitempty"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		log.Printf("[PRICING] Quote - Decode error: %v", err)
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if len(req.CriteriaIDs) > h.config.MaxQuoteCriteria {
		services.SendErrorResponse(w, "Too many criteria in one quote", http.StatusBadRequest, nil)
		return
	}

	criteria, err := h.catalog.ResolveCriteria(r.Context(), req.CriteriaIDs)
	if err != nil {
		if errors.Is(err, models.ErrCriterionNotFound) {
			services.SendErrorResponse(w, err.Error(), http.StatusNotFound, nil)
			return
		}
		log.Printf("[PRICING] Quote - Catalog error: %v", err)
		services.SendErrorResponse(w, "Failed to resolve criteria", http.StatusInternalServerError, nil)
		return
	}

	quote := h.pricing.CalculateDurationPrice(services.QuoteRequest{
		Criteria:     criteria,
		DurationDays: req.DurationDays,
		VesselCount:  req.VesselCount,
		Tier:         req.Tier,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quote)
}

// ListCriteria lists the tracking-criteria catalog
// @Summary List tracking criteria
// @Description List billable tracking criteria, optionally filtered by category
// @Tags pricing
// @Produce json
// @Param category query string false "Criterion category"
// @Success 200 {array} models.TrackingCriterion
// @Failure 500 {object} services.ErrorResponse
// @Router /pricing/criteria [get]
func (h *PricingHandler) ListCriteria(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.catalog.ListCriteria(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		log.Printf("[PRICING] ListCriteria - Catalog error: %v", err)
		services.SendErrorResponse(w, "Failed to list criteria", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(criteria)
}

// ListPackages lists the pricing packages
// @Summary List pricing packages
// @Description List the selectable pricing packages and their discounts
// @Tags pricing
// @Produce json
// @Success 200 {array} models.PricingPackage
// @Router /pricing/packages [get]
func (h *PricingHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.catalog.Packages())
}
