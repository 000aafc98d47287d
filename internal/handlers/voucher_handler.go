package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/vesseliq/backend/internal/models"
	"github.com/vesseliq/backend/internal/services"
)

type VoucherHandler struct {
	vouchers  *services.VoucherService
	validator *services.ValidationHelper
}

func NewVoucherHandler(vouchers *services.VoucherService) *VoucherHandler {
	return &VoucherHandler{
		vouchers:  vouchers,
		validator: services.NewValidationHelper(),
	}
}

// Issue creates a credit voucher
// @Summary Issue voucher
// @Description Issue a single-use credit voucher code with a QR image
// @Tags vouchers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{credits=int64} true "Voucher request"
// @Success 200 {object} object{code=string,qrImage=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /vouchers [post]
func (h *VoucherHandler) Issue(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req struct {
		Credits int64 `json:"credits" validate:"required,gt=0"`
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

	code, qrImage, err := h.vouchers.IssueVoucher(r.Context(), userID, req.Credits)
	if err != nil {
		log.Printf("[VOUCHER] Issue - Service error for %s: %v", userID, err)
		services.SendErrorResponse(w, err.Error(), http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"qrImage": qrImage,
	})
}

// Redeem redeems a voucher code
// @Summary Redeem voucher
// @Description Redeem a single-use voucher code and credit the target account
// @Tags vouchers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{code=string,accountId=string} true "Redemption request"
// @Success 200 {object} models.DeductionResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 410 {object} services.ErrorResponse
// @Router /vouchers/redeem [post]
func (h *VoucherHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code      string `json:"code" validate:"required"`
		AccountID string `json:"accountId" validate:"required"`
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

	result, err := h.vouchers.Redeem(r.Context(), req.Code, req.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrVoucherInvalid):
			services.SendErrorResponse(w, "Invalid voucher code", http.StatusBadRequest, nil)
		case errors.Is(err, models.ErrVoucherExpired):
			services.SendErrorResponse(w, "Voucher expired", http.StatusGone, nil)
		default:
			log.Printf("[VOUCHER] Redeem - Service error: %v", err)
			services.SendErrorResponse(w, "Redemption failed", http.StatusInternalServerError, nil)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// ListMine lists the authenticated user's vouchers
// @Summary List vouchers
// @Description List the vouchers issued by the authenticated user
// @Tags vouchers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Voucher
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /vouchers [get]
func (h *VoucherHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	vouchers, err := h.vouchers.UserVouchers(r.Context(), userID)
	if err != nil {
		log.Printf("[VOUCHER] ListMine - Service error for %s: %v", userID, err)
		services.SendErrorResponse(w, err.Error(), http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vouchers)
}
