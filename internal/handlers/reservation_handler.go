package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vesseliq/backend/internal/models"
	"github.com/vesseliq/backend/internal/services"
)

type ReservationHandler struct {
	reservations *services.ReservationService
	validator    *services.ValidationHelper
}

func NewReservationHandler(reservations *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservations: reservations,
		validator:    services.NewValidationHelper(),
	}
}

// Reserve creates a credit reservation
// @Summary Reserve credits
// @Description Hold credits at a quoted price for the duration of a checkout
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{accountId=string,amount=int64,purpose=string} true "Reservation request"
// @Success 200 {object} models.CreditReservation
// @Failure 400 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID string `json:"accountId" validate:"required"`
		Amount    int64  `json:"amount" validate:"required,gt=0"`
		Purpose   string `json:"purpose"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	reservation, err := h.reservations.Reserve(r.Context(), req.AccountID, req.Amount, req.Purpose)
	if err != nil {
		log.Printf("[RESERVATION] Reserve - Service error for %s: %v", req.AccountID, err)
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reservation)
}

// Confirm confirms a reservation and deducts the held credits
// @Summary Confirm reservation
// @Description Consume a reservation exactly once and deduct the held amount
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param reservationID path string true "Reservation ID"
// @Success 200 {object} models.DeductionResult
// @Failure 402 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 410 {object} services.ErrorResponse
// @Router /reservations/{reservationID}/confirm [post]
func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	reservationID := chi.URLParam(r, "reservationID")

	result, err := h.reservations.Confirm(r.Context(), reservationID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrReservationNotFound):
			services.SendErrorResponse(w, "Reservation not found", http.StatusNotFound, nil)
		case errors.Is(err, models.ErrReservationExpired):
			services.SendErrorResponse(w, "Reservation expired", http.StatusGone, nil)
		case errors.Is(err, models.ErrInsufficientCredits):
			services.SendErrorResponse(w, "Insufficient credits", http.StatusPaymentRequired, nil)
		default:
			log.Printf("[RESERVATION] Confirm - Service error for %s: %v", reservationID, err)
			services.SendErrorResponse(w, "Confirmation failed", http.StatusInternalServerError, nil)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Cancel releases a reservation
// @Summary Cancel reservation
// @Description Release a held reservation without deducting credits
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param reservationID path string true "Reservation ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} services.ErrorResponse
// @Router /reservations/{reservationID} [delete]
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	reservationID := chi.URLParam(r, "reservationID")

	if err := h.reservations.Cancel(r.Context(), reservationID); err != nil {
		if errors.Is(err, models.ErrReservationNotFound) {
			services.SendErrorResponse(w, "Reservation not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[RESERVATION] Cancel - Service error for %s: %v", reservationID, err)
		services.SendErrorResponse(w, "Cancellation failed", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Reservation cancelled"})
}
