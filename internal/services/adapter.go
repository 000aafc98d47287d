package services

import (
	"errors"
	"time"

	"github.com/vesseliq/backend/internal/models"
)

// Format adapter between the canonical ("features") credit shapes and the
// legacy shared-components shapes. All conversions are pure; the only state
// here is the clock used for response timestamps.
//
// The shared balance shape keeps a single expiring bucket, so converting a
// balance with more than one bucket and back loses everything after the
// first. Callers that need fidelity stay in the features shape.

// APIError carries a message and a machine-readable code.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// APIResponse is the shared-components response envelope.
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp string    `json:"timestamp"`
}

const codeUnknownError = "UNKNOWN_ERROR"

// ToSharedBalance converts the canonical balance to the shared shape,
// keeping only the soonest-expiring bucket.
func ToSharedBalance(balance models.CreditBalance) models.SharedBalance {
	shared := models.SharedBalance{
		Available: balance.Current,
		Lifetime:  balance.Lifetime,
	}
	if len(balance.ExpiringCredits) > 0 {
		first := balance.ExpiringCredits[0]
		shared.Expiring = &models.SharedExpiring{Amount: first.Amount, Date: first.ExpiresAt}
	}
	return shared
}

// ToFeaturesBalance converts a shared balance back to the canonical shape.
func ToFeaturesBalance(shared models.SharedBalance) models.CreditBalance {
	balance := models.CreditBalance{
		Current:         shared.Available,
		Lifetime:        shared.Lifetime,
		ExpiringCredits: []models.ExpiringCredit{},
	}
	if shared.Expiring != nil {
		balance.ExpiringCredits = append(balance.ExpiringCredits, models.ExpiringCredit{
			Amount:    shared.Expiring.Amount,
			ExpiresAt: shared.Expiring.Date,
		})
	}
	return balance
}

// ToSharedTransaction converts a features transaction to the shared shape:
// usage becomes deduction with a negative amount, purchase becomes credit,
// anything else passes through unchanged.
func ToSharedTransaction(tx models.CreditTransaction) models.SharedTransaction {
	shared := models.SharedTransaction{
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Description: tx.Description,
		Timestamp:   tx.Timestamp,
	}
	switch tx.Type {
	case models.TxUsage:
		shared.Type = models.SharedDeduction
		shared.Amount = -tx.Amount
	case models.TxPurchase:
		shared.Type = models.SharedCredit
	}
	return shared
}

// ToFeaturesTransaction converts a shared transaction to the features shape,
// flipping the deduction sign back to a positive usage amount.
func ToFeaturesTransaction(shared models.SharedTransaction) models.CreditTransaction {
	tx := models.CreditTransaction{
		ID:          shared.ID,
		Type:        shared.Type,
		Amount:      shared.Amount,
		Description: shared.Description,
		Timestamp:   shared.Timestamp,
	}
	switch shared.Type {
	case models.SharedDeduction:
		tx.Type = models.TxUsage
		if tx.Amount < 0 {
			tx.Amount = -tx.Amount
		}
	case models.SharedCredit:
		tx.Type = models.TxPurchase
	}
	return tx
}

// ToSharedTransactions maps a transaction list into the shared shape.
func ToSharedTransactions(txs []models.CreditTransaction) []models.SharedTransaction {
	shared := make([]models.SharedTransaction, len(txs))
	for i, tx := range txs {
		shared[i] = ToSharedTransaction(tx)
	}
	return shared
}

// WrapResponse builds the shared response envelope around data or an error.
func WrapResponse(data any, err error) APIResponse {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	if err != nil {
		return APIResponse{
			Success:   false,
			Error:     &APIError{Message: err.Error(), Code: codeUnknownError},
			Timestamp: timestamp,
		}
	}
	return APIResponse{Success: true, Data: data, Timestamp: timestamp}
}

// UnwrapResponse extracts the data from an envelope or surfaces its error.
func UnwrapResponse(response APIResponse) (any, error) {
	if response.Success {
		return response.Data, nil
	}
	if response.Error != nil {
		return nil, errors.New(response.Error.Message)
	}
	return nil, errors.New("request failed")
}
