package models

import "time"

// Transaction types in the features shape. Amounts are always positive; the
// type carries the direction.
const (
	TxUsage    = "usage"
	TxPurchase = "purchase"
	TxRefund   = "refund"
	TxBonus    = "bonus"
)

// Transaction types in the shared shape. Amounts are signed; a deduction is
// negative.
const (
	SharedDeduction = "deduction"
	SharedCredit    = "credit"
)

// ExpiringCredit is a bucket of credits with a hard expiry, ordered by
// expiry date in CreditBalance.ExpiringCredits.
type ExpiringCredit struct {
	Amount    int64     `json:"amount" db:"amount"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
}

// CreditBalance is the canonical ("features") balance shape. The shared
// shape below exists only at the HTTP boundary.
type CreditBalance struct {
	Current         int64            `json:"current"`
	Lifetime        int64            `json:"lifetime"`
	ExpiringCredits []ExpiringCredit `json:"expiringCredits"`
}

// SharedExpiring retains only the soonest-expiring bucket.
type SharedExpiring struct {
	Amount int64     `json:"amount"`
	Date   time.Time `json:"date"`
}

// SharedBalance is the legacy shared-components balance shape.
type SharedBalance struct {
	Available int64           `json:"available"`
	Lifetime  int64           `json:"lifetime"`
	Expiring  *SharedExpiring `json:"expiring"`
}

// CreditTransaction is the features-shape transaction record.
type CreditTransaction struct {
	ID          string    `json:"id" db:"transaction_id"`
	Type        string    `json:"type" db:"type"`
	Amount      int64     `json:"amount" db:"amount"`
	Description string    `json:"description" db:"description"`
	ServiceID   string    `json:"serviceId,omitempty" db:"service_id"`
	ServiceType string    `json:"serviceType,omitempty" db:"service_type"`
	Timestamp   time.Time `json:"timestamp" db:"created_at"`
}

// SharedTransaction is the shared-shape transaction record with signed
// amounts.
type SharedTransaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// DeductionResult is returned by the ledger after a successful deduction.
type DeductionResult struct {
	NewBalance  int64             `json:"newBalance"`
	Transaction CreditTransaction `json:"transaction"`
}
