package models

import "time"

// ReservationStatus is the lifecycle state of a credit reservation.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

// CreditReservation is a time-boxed hold on a credit amount pending
// confirmation. It never touches the ledger balance by itself; the deduction
// happens on confirm, keyed by the reservation id for idempotency.
type CreditReservation struct {
	ID        string            `json:"reservationId"`
	AccountID string            `json:"accountId"`
	Amount    int64             `json:"amount"`
	Purpose   string            `json:"purpose"`
	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Expired reports whether the reservation has passed its expiry at the given
// instant.
func (r *CreditReservation) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
