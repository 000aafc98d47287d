package models

import "time"

type User struct {
	ID                  int    `json:"id" example:"1"`                    // User ID
	Email               string `json:"email" example:"ops@northsea.example"` // User email
	FirstName           string `json:"FirstName" example:"Astrid"`        // User first name
	LastName            string `json:"LastName" example:"Halvorsen"`      // User last name
	AccountId           string `json:"AccountId" example:"1234567890"`    // Credit account ID
	Company             string `json:"Company" example:"North Sea Shipping"` // Organisation name
	Tier                string `json:"Tier" example:"gold"`               // Pricing package tier
	EmailVerified       bool   `json:"emailVerified"`
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLogin           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Voucher struct {
	TransactionID string    `json:"transactionId" db:"transaction_id"`
	Credits       int64     `json:"credits" db:"credits"`
	UserID        string    `json:"userId" db:"user_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	ExpiresAt     time.Time `json:"expiresAt" db:"expires_at"`
	Redeemed      bool      `json:"redeemed" db:"redeemed"`
	Expired       bool      `json:"expired"`
}

// SettlementTransfer is the fiat leg of a credit purchase handed to the
// ISO 20022 settlement pipeline.
type SettlementTransfer struct {
	TransactionID string  `json:"transaction_id"`
	ReferenceID   string  `json:"reference_id"`
	FromAccount   string  `json:"from_account" validate:"required,max=34"`
	ToAccount     string  `json:"to_account"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"required,len=3"`
	BankCode      string  `json:"bank_code"`
	Status        string  `json:"status"`
}
