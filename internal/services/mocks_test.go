package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vesseliq/backend/internal/models"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Deduct(ctx context.Context, req DeductionRequest) (*models.DeductionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeductionResult), args.Error(1)
}

func (m *MockLedger) Balance(ctx context.Context, accountID string) (*models.CreditBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreditBalance), args.Error(1)
}

type MockCreditSink struct {
	mock.Mock
}

func (m *MockCreditSink) Credit(ctx context.Context, req CreditRequest) (*models.DeductionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeductionResult), args.Error(1)
}
