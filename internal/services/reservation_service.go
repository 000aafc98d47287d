package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/vesseliq/backend/internal/audit"
	"github.com/vesseliq/backend/internal/config"
	"github.com/vesseliq/backend/internal/models"
)

// Ledger is the collaborator that actually moves credits. Implemented by
// CreditLedgerService; mocked in tests.
type Ledger interface {
	Deduct(ctx context.Context, req DeductionRequest) (*models.DeductionResult, error)
	Balance(ctx context.Context, accountID string) (*models.CreditBalance, error)
}

// ReservationService holds time-boxed credit reservations for multi-step
// checkout flows. Reservations are process-local and deliberately ephemeral:
// they never touch the ledger until confirmed, and an unconfirmed hold is
// worthless after its TTL. Expiry is checked lazily on confirm and
// additionally by the scheduled Sweep.
type ReservationService struct {
	ledger Ledger
	redis  *redis.Client
	config *config.CreditsConfig
	audit  *audit.Logger

	mu           sync.Mutex
	reservations map[string]*models.CreditReservation
}

func NewReservationService(ledger Ledger, redisClient *redis.Client) *ReservationService {
	return &ReservationService{
		ledger:       ledger,
		redis:        redisClient,
		config:       config.LoadCreditsConfig(),
		audit:        audit.NewLogger(),
		reservations: make(map[string]*models.CreditReservation),
	}
}

// Reserve creates a hold on amount credits. The ledger balance is not
// touched; the hold only pins the price for the duration of the checkout.
func (s *ReservationService) Reserve(ctx context.Context, accountID string, amount int64, purpose string) (*models.CreditReservation, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("reservation amount must be positive")
	}

	now := time.Now()
	reservation := &models.CreditReservation{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Amount:    amount,
		Purpose:   purpose,
		Status:    models.ReservationActive,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.ReservationTTL),
	}

	s.mu.Lock()
	s.reservations[reservation.ID] = reservation
	s.mu.Unlock()

	s.audit.LogReservation(reservation.ID, accountID, amount, "RESERVED")
	return reservation, nil
}

// Confirm consumes a reservation exactly once and performs the deduction,
// passing the reservation id to the ledger as the idempotency operation id.
// An expired reservation is removed and the confirm fails; a later confirm
// with the same id then fails with not-found. The reservation is removed
// BEFORE the ledger call and is not restored if the deduction fails — the
// caller must re-reserve.
func (s *ReservationService) Confirm(ctx context.Context, reservationID string) (*models.DeductionResult, error) {
	s.mu.Lock()
	reservation, ok := s.reservations[reservationID]
	if !ok {
		s.mu.Unlock()
		return nil, models.ErrReservationNotFound
	}
	delete(s.reservations, reservationID)
	if reservation.Expired(time.Now()) {
		s.mu.Unlock()
		reservation.Status = models.ReservationExpired
		s.audit.LogReservation(reservationID, reservation.AccountID, reservation.Amount, "EXPIRED")
		return nil, models.ErrReservationExpired
	}
	s.mu.Unlock()

	result, err := s.ledger.Deduct(ctx, DeductionRequest{
		AccountID:   reservation.AccountID,
		Amount:      reservation.Amount,
		Description: reservation.Purpose,
		OperationID: reservation.ID,
	})
	if err != nil {
		s.audit.LogError(reservationID, reservation.AccountID, err)
		return nil, err
	}

	reservation.Status = models.ReservationConfirmed
	s.cacheBalance(ctx, reservation.AccountID, result.NewBalance)
	s.audit.LogReservation(reservationID, reservation.AccountID, reservation.Amount, "CONFIRMED")
	return result, nil
}

// Cancel releases a hold without touching the ledger.
func (s *ReservationService) Cancel(ctx context.Context, reservationID string) error {
	s.mu.Lock()
	reservation, ok := s.reservations[reservationID]
	if !ok {
		s.mu.Unlock()
		return models.ErrReservationNotFound
	}
	delete(s.reservations, reservationID)
	s.mu.Unlock()

	reservation.Status = models.ReservationCancelled
	s.audit.LogReservation(reservationID, reservation.AccountID, reservation.Amount, "CANCELLED")
	return nil
}

// Deduct performs a direct deduction outside any reservation flow. The
// cached balance is checked first so an obviously insufficient request never
// reaches the ledger.
func (s *ReservationService) Deduct(ctx context.Context, accountID string, amount int64, description string) (*models.DeductionResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("deduction amount must be positive")
	}

	balance, err := s.currentBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if amount > balance {
		return nil, models.ErrInsufficientCredits
	}

	result, err := s.ledger.Deduct(ctx, DeductionRequest{
		AccountID:   accountID,
		Amount:      amount,
		Description: description,
		OperationID: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	s.cacheBalance(ctx, accountID, result.NewBalance)
	return result, nil
}

// Sweep removes expired reservations and returns how many were dropped.
// Scheduled from main; keeps abandoned checkouts from pinning memory until
// process restart.
func (s *ReservationService) Sweep() int {
	now := time.Now()

	s.mu.Lock()
	removed := 0
	for id, reservation := range s.reservations {
		if reservation.Expired(now) {
			delete(s.reservations, id)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		log.Printf("[RESERVATION] Sweep removed %d expired reservations", removed)
	}
	return removed
}

// ActiveCount reports the number of live holds, for the health endpoint.
func (s *ReservationService) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

func (s *ReservationService) currentBalance(ctx context.Context, accountID string) (int64, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, balanceKey(accountID)).Int64(); err == nil {
			return cached, nil
		} else if err != redis.Nil {
			log.Printf("[CREDITS] Balance cache read failed for %s: %v", accountID, err)
		}
	}

	balance, err := s.ledger.Balance(ctx, accountID)
	if err != nil {
		return 0, err
	}
	s.cacheBalance(ctx, accountID, balance.Current)
	return balance.Current, nil
}

func (s *ReservationService) cacheBalance(ctx context.Context, accountID string, balance int64) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, balanceKey(accountID), balance, s.config.BalanceCacheTTL).Err(); err != nil {
		log.Printf("[CREDITS] Balance cache write failed for %s: %v", accountID, err)
	}
}

func balanceKey(accountID string) string {
	return fmt.Sprintf("credits:balance:%s", accountID)
}
