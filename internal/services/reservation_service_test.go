package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vesseliq/backend/internal/models"
)

func TestReservationService_Reserve(t *testing.T) {
	ledger := new(MockLedger)
	service := NewReservationService(ledger, nil)
	ctx := context.Background()

	t.Run("creates an active hold without touching the ledger", func(t *testing.T) {
		reservation, err := service.Reserve(ctx, "account1", 500, "fleet tracking checkout")
		assert.NoError(t, err)
		assert.NotEmpty(t, reservation.ID)
		assert.Equal(t, models.ReservationActive, reservation.Status)
		assert.Equal(t, int64(500), reservation.Amount)
		assert.True(t, reservation.ExpiresAt.After(reservation.CreatedAt))
		assert.Equal(t, 1, service.ActiveCount())
		ledger.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := service.Reserve(ctx, "account1", 0, "")
		assert.Error(t, err)
	})
}

func TestReservationService_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm deducts with the reservation id as operation id", func(t *testing.T) {
		ledger := new(MockLedger)
		service := NewReservationService(ledger, nil)

		reservation, err := service.Reserve(ctx, "account1", 500, "fleet tracking checkout")
		assert.NoError(t, err)

		ledger.On("Deduct", mock.Anything, DeductionRequest{
			AccountID:   "account1",
			Amount:      500,
			Description: "fleet tracking checkout",
			OperationID: reservation.ID,
		}).Return(&models.DeductionResult{NewBalance: 500}, nil)

		result, err := service.Confirm(ctx, reservation.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(500), result.NewBalance)
		assert.Equal(t, 0, service.ActiveCount())
		ledger.AssertExpectations(t)

		// A second confirm finds nothing to consume
		_, err = service.Confirm(ctx, reservation.ID)
		assert.ErrorIs(t, err, models.ErrReservationNotFound)
	})

	t.Run("expired reservation fails once as expired, then as not found", func(t *testing.T) {
		ledger := new(MockLedger)
		service := NewReservationService(ledger, nil)

		reservation, err := service.Reserve(ctx, "account1", 500, "")
		assert.NoError(t, err)

		service.mu.Lock()
		service.reservations[reservation.ID].ExpiresAt = time.Now().Add(-time.Minute)
		service.mu.Unlock()

		_, err = service.Confirm(ctx, reservation.ID)
		assert.ErrorIs(t, err, models.ErrReservationExpired)

		_, err = service.Confirm(ctx, reservation.ID)
		assert.ErrorIs(t, err, models.ErrReservationNotFound)

		ledger.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything)
	})

	t.Run("failed deduction does not restore the reservation", func(t *testing.T) {
		ledger := new(MockLedger)
		service := NewReservationService(ledger, nil)

		reservation, err := service.Reserve(ctx, "account1", 500, "")
		assert.NoError(t, err)

		ledger.On("Deduct", mock.Anything, mock.Anything).
			Return(nil, models.ErrInsufficientCredits)

		_, err = service.Confirm(ctx, reservation.ID)
		assert.ErrorIs(t, err, models.ErrInsufficientCredits)

		// Caller must re-reserve; the consumed hold is gone
		_, err = service.Confirm(ctx, reservation.ID)
		assert.ErrorIs(t, err, models.ErrReservationNotFound)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		service := NewReservationService(new(MockLedger), nil)
		_, err := service.Confirm(ctx, "no-such-id")
		assert.ErrorIs(t, err, models.ErrReservationNotFound)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ledger := new(MockLedger)
	service := NewReservationService(ledger, nil)
	ctx := context.Background()

	reservation, err := service.Reserve(ctx, "account1", 500, "")
	assert.NoError(t, err)

	assert.NoError(t, service.Cancel(ctx, reservation.ID))
	assert.Equal(t, 0, service.ActiveCount())
	ledger.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything)

	assert.ErrorIs(t, service.Cancel(ctx, reservation.ID), models.ErrReservationNotFound)
}

func TestReservationService_Deduct(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient balance never reaches the ledger deduct", func(t *testing.T) {
		ledger := new(MockLedger)
		service := NewReservationService(ledger, nil)

		ledger.On("Balance", mock.Anything, "account1").
			Return(&models.CreditBalance{Current: 100}, nil)

		_, err := service.Deduct(ctx, "account1", 300, "dark activity report")
		assert.ErrorIs(t, err, models.ErrInsufficientCredits)
		ledger.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything)
	})

	t.Run("sufficient balance deducts with a fresh operation id", func(t *testing.T) {
		ledger := new(MockLedger)
		service := NewReservationService(ledger, nil)

		ledger.On("Balance", mock.Anything, "account1").
			Return(&models.CreditBalance{Current: 1000}, nil)
		ledger.On("Deduct", mock.Anything, mock.MatchedBy(func(req DeductionRequest) bool {
			return req.AccountID == "account1" && req.Amount == 300 && req.OperationID != ""
		})).Return(&models.DeductionResult{NewBalance: 700}, nil)

		result, err := service.Deduct(ctx, "account1", 300, "dark activity report")
		assert.NoError(t, err)
		assert.Equal(t, int64(700), result.NewBalance)
		ledger.AssertExpectations(t)
	})

	t.Run("cached balance short-circuits the ledger lookup", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		ledger := new(MockLedger)
		service := NewReservationService(ledger, redisClient)

		redisMock.ExpectGet("credits:balance:account1").SetVal("1000")
		redisMock.ExpectSet("credits:balance:account1", int64(700), service.config.BalanceCacheTTL).SetVal("OK")

		ledger.On("Deduct", mock.Anything, mock.Anything).
			Return(&models.DeductionResult{NewBalance: 700}, nil)

		result, err := service.Deduct(ctx, "account1", 300, "dark activity report")
		assert.NoError(t, err)
		assert.Equal(t, int64(700), result.NewBalance)
		ledger.AssertNotCalled(t, "Balance", mock.Anything, mock.Anything)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss falls back to the ledger balance", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		ledger := new(MockLedger)
		service := NewReservationService(ledger, redisClient)

		redisMock.ExpectGet("credits:balance:account1").RedisNil()
		redisMock.ExpectSet("credits:balance:account1", int64(1000), service.config.BalanceCacheTTL).SetVal("OK")
		redisMock.ExpectSet("credits:balance:account1", int64(700), service.config.BalanceCacheTTL).SetVal("OK")

		ledger.On("Balance", mock.Anything, "account1").
			Return(&models.CreditBalance{Current: 1000}, nil)
		ledger.On("Deduct", mock.Anything, mock.Anything).
			Return(&models.DeductionResult{NewBalance: 700}, nil)

		result, err := service.Deduct(ctx, "account1", 300, "dark activity report")
		assert.NoError(t, err)
		assert.Equal(t, int64(700), result.NewBalance)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("balance lookup failures propagate", func(t *testing.T) {
		ledger := new(MockLedger)
		service := NewReservationService(ledger, nil)

		ledger.On("Balance", mock.Anything, "account1").
			Return(nil, errors.New("ledger unavailable"))

		_, err := service.Deduct(ctx, "account1", 300, "")
		assert.Error(t, err)
	})
}

func TestReservationService_Sweep(t *testing.T) {
	ledger := new(MockLedger)
	service := NewReservationService(ledger, nil)
	ctx := context.Background()

	live, err := service.Reserve(ctx, "account1", 100, "")
	assert.NoError(t, err)
	stale1, err := service.Reserve(ctx, "account1", 200, "")
	assert.NoError(t, err)
	stale2, err := service.Reserve(ctx, "account2", 300, "")
	assert.NoError(t, err)

	service.mu.Lock()
	service.reservations[stale1.ID].ExpiresAt = time.Now().Add(-time.Minute)
	service.reservations[stale2.ID].ExpiresAt = time.Now().Add(-time.Hour)
	service.mu.Unlock()

	assert.Equal(t, 2, service.Sweep())
	assert.Equal(t, 1, service.ActiveCount())

	// Live hold survives and still confirms
	ledger.On("Deduct", mock.Anything, mock.Anything).
		Return(&models.DeductionResult{NewBalance: 0}, nil)
	_, err = service.Confirm(ctx, live.ID)
	assert.NoError(t, err)
}
