package models

import "errors"

// Sentinel errors surfaced by the credit core. Handlers map these to HTTP
// status codes; nothing below this layer retries them.
var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationExpired  = errors.New("reservation expired")
	ErrVoucherInvalid      = errors.New("invalid voucher code")
	ErrVoucherExpired      = errors.New("voucher expired")
	ErrCriterionNotFound   = errors.New("tracking criterion not found")
	ErrAccountNotFound     = errors.New("credit account not found")
)
