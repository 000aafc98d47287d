package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/vesseliq/backend/internal/models"
	"github.com/vesseliq/backend/internal/services"
)

const billingEventsQueue = "billing_events"

// CreditsHandler exposes balances, history, direct deductions and purchases.
// Responses are emitted in the canonical shape by default; ?format=shared
// returns the shared-components shape wrapped in its response envelope.
type CreditsHandler struct {
	ledger      *services.CreditLedgerService
	credits     *services.ReservationService
	settlement  *services.SettlementService
	redisClient *redis.Client
	validator   *services.ValidationHelper
}

func NewCreditsHandler(ledger *services.CreditLedgerService, credits *services.ReservationService,
	settlement *services.SettlementService, redisClient *redis.Client) *CreditsHandler {
	return &CreditsHandler{
		ledger:      ledger,
		credits:     credits,
		settlement:  settlement,
		redisClient: redisClient,
		validator:   services.NewValidationHelper(),
	}
}

// GetBalance returns an account's credit balance
// @Summary Get credit balance
// @Description Get the current, lifetime and expiring credits of an account
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Param accountID path string true "Credit account ID"
// @Param format query string false "Response format (shared)"
// @Success 200 {object} models.CreditBalance
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /credits/balance/{accountID} [get]
func (h *CreditsHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	balance, err := h.ledger.Balance(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			services.SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[CREDITS] GetBalance - Ledger error for %s: %v", accountID, err)
		services.SendErrorResponse(w, "Failed to fetch balance", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("format") == "shared" {
		json.NewEncoder(w).Encode(services.WrapResponse(services.ToSharedBalance(*balance), nil))
		return
	}
	json.NewEncoder(w).Encode(balance)
}

// GetTransactions returns an account's transaction history
// @Summary Get transaction history
// @Description List an account's credit transactions, newest first
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Param accountID path string true "Credit account ID"
// @Param limit query int false "Maximum rows to return"
// @Param format query string false "Response format (shared)"
// @Success 200 {array} models.CreditTransaction
// @Failure 500 {object} services.ErrorResponse
// @Router /credits/transactions/{accountID} [get]
func (h *CreditsHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	transactions, err := h.ledger.Transactions(r.Context(), accountID, limit)
	if err != nil {
		log.Printf("[CREDITS] GetTransactions - Ledger error for %s: %v", accountID, err)
		services.SendErrorResponse(w, "Failed to fetch transactions", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("format") == "shared" {
		json.NewEncoder(w).Encode(services.WrapResponse(services.ToSharedTransactions(transactions), nil))
		return
	}
	json.NewEncoder(w).Encode(transactions)
}

// Deduct performs a direct credit deduction
// @Summary Deduct credits
// @Description Deduct credits from an account for a consumed service
// @Tags credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{accountId=string,amount=int64,description=string} true "Deduction request"
// @Success 200 {object} models.DeductionResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 402 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /credits/deduct [post]
func (h *CreditsHandler) Deduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID   string `json:"accountId" validate:"required"`
		Amount      int64  `json:"amount" validate:"required,gt=0"`
		Description string `json:"description"`
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

	result, err := h.credits.Deduct(r.Context(), req.AccountID, req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientCredits) {
			services.SendErrorResponse(w, "Insufficient credits", http.StatusPaymentRequired, nil)
			return
		}
		log.Printf("[CREDITS] Deduct - Service error for %s: %v", req.AccountID, err)
		services.SendErrorResponse(w, "Deduction failed", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Purchase buys credits with a fiat payment
// @Summary Purchase credits
// @Description Credit an account and settle the fiat leg through the ISO 20022 pipeline
// @Tags credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{accountId=string,credits=int64,amount=number,currency=string,bankCode=string,fromAccount=string} true "Purchase request"
// @Success 200 {object} models.DeductionResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /credits/purchase [post]
func (h *CreditsHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID   string  `json:"accountId" validate:"required"`
		Credits     int64   `json:"credits" validate:"required,gt=0"`
		Amount      float64 `json:"amount" validate:"required,gt=0"`
		Currency    string  `json:"currency" validate:"required,len=3"`
		BankCode    string  `json:"bankCode"`
		FromAccount string  `json:"fromAccount" validate:"required,max=34"`
		OperationID string  `json:"operationId,omitempty"`
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

	operationID := req.OperationID
	if operationID == "" {
		operationID = uuid.NewString()
	}

	transfer := &models.SettlementTransfer{
		TransactionID: operationID,
		ReferenceID:   operationID,
		FromAccount:   req.FromAccount,
		ToAccount:     req.AccountID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		BankCode:      req.BankCode,
	}
	if _, err := h.settlement.SettlePurchase(transfer); err != nil {
		log.Printf("[CREDITS] Purchase - Settlement error for %s: %v", req.AccountID, err)
		services.SendErrorResponse(w, "Settlement failed", http.StatusBadRequest, nil)
		return
	}

	result, err := h.ledger.Credit(r.Context(), services.CreditRequest{
		AccountID:   req.AccountID,
		Amount:      req.Credits,
		Type:        models.TxPurchase,
		Description: "Credit purchase",
		OperationID: operationID,
	})
	if err != nil {
		log.Printf("[CREDITS] Purchase - Ledger error for %s: %v", req.AccountID, err)
		services.SendErrorResponse(w, "Purchase failed", http.StatusInternalServerError, nil)
		return
	}

	h.publishBillingEvent(r, "credits.purchased", req.AccountID, req.Credits, operationID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// publishBillingEvent pushes a billing event onto the Redis queue consumed by
// the invoicing workers. Failures are logged and dropped; billing reconciles
// from the ledger nightly.
func (h *CreditsHandler) publishBillingEvent(r *http.Request, event, accountID string, amount int64, operationID string) {
	if h.redisClient == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"event":       event,
		"accountId":   accountID,
		"amount":      amount,
		"operationId": operationID,
		"at":          time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	if err := h.redisClient.LPush(r.Context(), billingEventsQueue, payload).Err(); err != nil {
		log.Printf("[CREDITS] Failed to publish billing event: %v", err)
	}
}
