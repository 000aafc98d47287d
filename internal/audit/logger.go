package audit

import (
	"encoding/json"
	"log"
	"time"
)

type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	EventType     string    `json:"event_type"`
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	Details       any       `json:"details"`
}

// Logger emits structured billing audit events for reservations, deductions
// and purchases. Events go to the process log as single-line JSON.
type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

func (a *Logger) LogDeduction(transactionID, accountID string, amount int64, status string) {
	a.log(Event{
		Timestamp:     time.Now(),
		EventType:     "DEDUCTION",
		TransactionID: transactionID,
		AccountID:     accountID,
		Amount:        amount,
		Status:        status,
	})
}

func (a *Logger) LogReservation(reservationID, accountID string, amount int64, action string) {
	a.log(Event{
		Timestamp:     time.Now(),
		EventType:     "RESERVATION",
		TransactionID: reservationID,
		AccountID:     accountID,
		Amount:        amount,
		Status:        action,
	})
}

func (a *Logger) LogPurchase(transactionID, accountID string, credits int64, status string) {
	a.log(Event{
		Timestamp:     time.Now(),
		EventType:     "PURCHASE",
		TransactionID: transactionID,
		AccountID:     accountID,
		Amount:        credits,
		Status:        status,
	})
}

func (a *Logger) LogError(transactionID, accountID string, err error) {
	a.log(Event{
		Timestamp:     time.Now(),
		EventType:     "ERROR",
		TransactionID: transactionID,
		AccountID:     accountID,
		Status:        "FAILED",
		Details:       map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	log.Printf("AUDIT: %s", string(data))
}
