package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vesseliq/backend/internal/models"
)

func TestBalanceConversion(t *testing.T) {
	soon := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	later := time.Now().Add(72 * time.Hour).Truncate(time.Second)

	t.Run("single expiring bucket round-trips losslessly", func(t *testing.T) {
		balance := models.CreditBalance{
			Current:  1000,
			Lifetime: 5000,
			ExpiringCredits: []models.ExpiringCredit{
				{Amount: 100, ExpiresAt: soon},
			},
		}

		shared := ToSharedBalance(balance)
		assert.Equal(t, int64(1000), shared.Available)
		assert.Equal(t, int64(5000), shared.Lifetime)
		assert.NotNil(t, shared.Expiring)
		assert.Equal(t, int64(100), shared.Expiring.Amount)
		assert.Equal(t, soon, shared.Expiring.Date)

		assert.Equal(t, balance, ToFeaturesBalance(shared))
	})

	t.Run("extra buckets are dropped by the shared shape", func(t *testing.T) {
		balance := models.CreditBalance{
			Current:  1000,
			Lifetime: 5000,
			ExpiringCredits: []models.ExpiringCredit{
				{Amount: 100, ExpiresAt: soon},
				{Amount: 250, ExpiresAt: later},
			},
		}

		shared := ToSharedBalance(balance)
		assert.Equal(t, int64(100), shared.Expiring.Amount)

		roundTripped := ToFeaturesBalance(shared)
		assert.Len(t, roundTripped.ExpiringCredits, 1)
		assert.Equal(t, balance.ExpiringCredits[0], roundTripped.ExpiringCredits[0])
	})

	t.Run("no expiring credits maps to nil and back to an empty slice", func(t *testing.T) {
		shared := ToSharedBalance(models.CreditBalance{Current: 10})
		assert.Nil(t, shared.Expiring)

		balance := ToFeaturesBalance(shared)
		assert.NotNil(t, balance.ExpiringCredits)
		assert.Empty(t, balance.ExpiringCredits)
	})
}

func TestTransactionConversion(t *testing.T) {
	at := time.Now().Truncate(time.Second)

	t.Run("usage flips to a negative deduction and back", func(t *testing.T) {
		tx := models.CreditTransaction{
			ID:          "tx1",
			Type:        models.TxUsage,
			Amount:      300,
			Description: "area monitoring",
			Timestamp:   at,
		}

		shared := ToSharedTransaction(tx)
		assert.Equal(t, models.SharedDeduction, shared.Type)
		assert.Equal(t, int64(-300), shared.Amount)

		back := ToFeaturesTransaction(shared)
		assert.Equal(t, models.TxUsage, back.Type)
		assert.Equal(t, int64(300), back.Amount)
	})

	t.Run("purchase maps to credit with the amount unchanged", func(t *testing.T) {
		tx := models.CreditTransaction{ID: "tx2", Type: models.TxPurchase, Amount: 1000, Timestamp: at}

		shared := ToSharedTransaction(tx)
		assert.Equal(t, models.SharedCredit, shared.Type)
		assert.Equal(t, int64(1000), shared.Amount)

		back := ToFeaturesTransaction(shared)
		assert.Equal(t, models.TxPurchase, back.Type)
		assert.Equal(t, int64(1000), back.Amount)
	})

	t.Run("unrecognised types pass through untouched", func(t *testing.T) {
		tx := models.CreditTransaction{ID: "tx3", Type: models.TxRefund, Amount: 50, Timestamp: at}

		shared := ToSharedTransaction(tx)
		assert.Equal(t, models.TxRefund, shared.Type)
		assert.Equal(t, int64(50), shared.Amount)
	})

	t.Run("list conversion preserves order", func(t *testing.T) {
		txs := []models.CreditTransaction{
			{ID: "tx1", Type: models.TxUsage, Amount: 300, Timestamp: at},
			{ID: "tx2", Type: models.TxPurchase, Amount: 1000, Timestamp: at},
		}

		shared := ToSharedTransactions(txs)
		assert.Len(t, shared, 2)
		assert.Equal(t, "tx1", shared[0].ID)
		assert.Equal(t, models.SharedCredit, shared[1].Type)
	})
}

func TestResponseEnvelope(t *testing.T) {
	t.Run("wrap success", func(t *testing.T) {
		response := WrapResponse(map[string]int{"credits": 10}, nil)
		assert.True(t, response.Success)
		assert.Nil(t, response.Error)
		assert.NotEmpty(t, response.Timestamp)

		data, err := UnwrapResponse(response)
		assert.NoError(t, err)
		assert.Equal(t, map[string]int{"credits": 10}, data)
	})

	t.Run("wrap error uses the unknown error code", func(t *testing.T) {
		response := WrapResponse(nil, errors.New("ledger unavailable"))
		assert.False(t, response.Success)
		assert.Nil(t, response.Data)
		assert.Equal(t, "ledger unavailable", response.Error.Message)
		assert.Equal(t, "UNKNOWN_ERROR", response.Error.Code)

		_, err := UnwrapResponse(response)
		assert.EqualError(t, err, "ledger unavailable")
	})

	t.Run("unwrap of a malformed failure still errors", func(t *testing.T) {
		_, err := UnwrapResponse(APIResponse{Success: false})
		assert.Error(t, err)
	})
}
