package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vesseliq/backend/internal/audit"
	"github.com/vesseliq/backend/internal/models"
)

// DeductionRequest describes a single debit against a credit account.
// OperationID is the dedupe key: replaying an operation id that already
// settled returns the recorded outcome instead of deducting twice. Confirm
// flows pass the reservation id here.
type DeductionRequest struct {
	AccountID   string
	Amount      int64
	Description string
	ServiceID   string
	ServiceType string
	OperationID string
}

// CreditRequest describes a single credit (purchase, voucher redemption,
// bonus) applied to an account.
type CreditRequest struct {
	AccountID   string
	Amount      int64
	Type        string
	Description string
	OperationID string
}

// CreditLedgerService is the system of record for credit balances. Every
// balance change writes a ledger entry and a transaction row inside one
// database transaction, guarded by a row lock and an optimistic version.
type CreditLedgerService struct {
	db    *sql.DB
	audit *audit.Logger
}

func NewCreditLedgerService(db *sql.DB) *CreditLedgerService {
	return &CreditLedgerService{
		db:    db,
		audit: audit.NewLogger(),
	}
}

// Deduct removes credits from an account. Fails with
// models.ErrInsufficientCredits when the locked balance cannot cover the
// amount; the balance invariant (never negative) is enforced here, under the
// row lock, regardless of what callers pre-checked.
func (s *CreditLedgerService) Deduct(ctx context.Context, req DeductionRequest) (*models.DeductionResult, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("deduction amount must be positive")
	}
	if req.OperationID == "" {
		return nil, fmt.Errorf("operation id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Replayed operation: return what was recorded the first time.
	if recorded, err := s.findRecorded(ctx, tx, req.OperationID); err == nil {
		return recorded, nil
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	account, err := s.lockAccount(ctx, tx, req.AccountID)
	if err != nil {
		return nil, err
	}

	if account.Balance < req.Amount {
		s.audit.LogError(req.OperationID, req.AccountID, models.ErrInsufficientCredits)
		return nil, models.ErrInsufficientCredits
	}

	newBalance := account.Balance - req.Amount
	now := time.Now()

	if err := s.createLedgerEntry(ctx, tx, req.OperationID, account.ID, -req.Amount, "DEBIT", newBalance, now); err != nil {
		return nil, err
	}

	record := models.CreditTransaction{
		ID:          req.OperationID,
		Type:        models.TxUsage,
		Amount:      req.Amount,
		Description: req.Description,
		ServiceID:   req.ServiceID,
		ServiceType: req.ServiceType,
		Timestamp:   now,
	}
	if err := s.storeTransaction(ctx, tx, account.ID, &record); err != nil {
		return nil, err
	}

	if err := s.updateAccountBalance(ctx, tx, account.ID, newBalance, account.Lifetime, account.Version); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.audit.LogDeduction(req.OperationID, req.AccountID, req.Amount, "SUCCESS")
	return &models.DeductionResult{NewBalance: newBalance, Transaction: record}, nil
}

// Credit adds credits to an account and bumps its lifetime total. Dedupes on
// OperationID like Deduct.
func (s *CreditLedgerService) Credit(ctx context.Context, req CreditRequest) (*models.DeductionResult, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive")
	}
	if req.OperationID == "" {
		return nil, fmt.Errorf("operation id is required")
	}
	txType := req.Type
	if txType == "" {
		txType = models.TxPurchase
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if recorded, err := s.findRecorded(ctx, tx, req.OperationID); err == nil {
		return recorded, nil
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	account, err := s.lockAccount(ctx, tx, req.AccountID)
	if err != nil {
		return nil, err
	}

	newBalance := account.Balance + req.Amount
	now := time.Now()

	if err := s.createLedgerEntry(ctx, tx, req.OperationID, account.ID, req.Amount, "CREDIT", newBalance, now); err != nil {
		return nil, err
	}

	record := models.CreditTransaction{
		ID:          req.OperationID,
		Type:        txType,
		Amount:      req.Amount,
		Description: req.Description,
		Timestamp:   now,
	}
	if err := s.storeTransaction(ctx, tx, account.ID, &record); err != nil {
		return nil, err
	}

	if err := s.updateAccountBalance(ctx, tx, account.ID, newBalance, account.Lifetime+req.Amount, account.Version); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.audit.LogPurchase(req.OperationID, req.AccountID, req.Amount, "SUCCESS")
	return &models.DeductionResult{NewBalance: newBalance, Transaction: record}, nil
}

// Balance returns the canonical balance shape, including expiring buckets
// ordered soonest first.
func (s *CreditLedgerService) Balance(ctx context.Context, accountID string) (*models.CreditBalance, error) {
	balance := &models.CreditBalance{ExpiringCredits: []models.ExpiringCredit{}}

	err := s.db.QueryRowContext(ctx, `
		SELECT balance, lifetime FROM credit_accounts WHERE id = $1
	`, accountID).Scan(&balance.Current, &balance.Lifetime)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT amount, expires_at FROM credit_buckets
		WHERE account_id = $1 AND expires_at > NOW()
		ORDER BY expires_at ASC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var bucket models.ExpiringCredit
		if err := rows.Scan(&bucket.Amount, &bucket.ExpiresAt); err != nil {
			return nil, err
		}
		balance.ExpiringCredits = append(balance.ExpiringCredits, bucket)
	}

	return balance, rows.Err()
}

// Transactions lists an account's transaction history, newest first.
func (s *CreditLedgerService) Transactions(ctx context.Context, accountID string, limit int) ([]models.CreditTransaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, type, amount, description,
		       COALESCE(service_id, '') AS service_id,
		       COALESCE(service_type, '') AS service_type, created_at
		FROM credit_transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.CreditTransaction{}
	for rows.Next() {
		var record models.CreditTransaction
		if err := rows.Scan(&record.ID, &record.Type, &record.Amount, &record.Description,
			&record.ServiceID, &record.ServiceType, &record.Timestamp); err != nil {
			return nil, err
		}
		transactions = append(transactions, record)
	}

	return transactions, rows.Err()
}

func (s *CreditLedgerService) findRecorded(ctx context.Context, tx *sql.Tx, operationID string) (*models.DeductionResult, error) {
	var result models.DeductionResult
	record := &result.Transaction
	err := tx.QueryRowContext(ctx, `
		SELECT t.transaction_id, t.type, t.amount, t.description,
		       COALESCE(t.service_id, ''), COALESCE(t.service_type, ''), t.created_at, e.balance
		FROM credit_transactions t
		JOIN ledger_entries e ON e.transaction_id = t.transaction_id AND e.account_id = t.account_id
		WHERE t.transaction_id = $1
	`, operationID).Scan(&record.ID, &record.Type, &record.Amount, &record.Description,
		&record.ServiceID, &record.ServiceType, &record.Timestamp, &result.NewBalance)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *CreditLedgerService) lockAccount(ctx context.Context, tx *sql.Tx, accountID string) (*models.CreditAccount, error) {
	var account models.CreditAccount
	err := tx.QueryRowContext(ctx, `
		SELECT id, balance, lifetime, version, updated_at
		FROM credit_accounts
		WHERE id = $1
		FOR UPDATE`, accountID).Scan(&account.ID, &account.Balance, &account.Lifetime, &account.Version, &account.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *CreditLedgerService) createLedgerEntry(ctx context.Context, tx *sql.Tx, transactionID, accountID string, amount int64, entryType string, balance int64, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (transaction_id, account_id, amount, entry_type, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		transactionID, accountID, amount, entryType, balance, at)
	return err
}

func (s *CreditLedgerService) storeTransaction(ctx context.Context, tx *sql.Tx, accountID string, record *models.CreditTransaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (transaction_id, account_id, type, amount, description, service_id, service_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, accountID, record.Type, record.Amount, record.Description,
		record.ServiceID, record.ServiceType, record.Timestamp)
	return err
}

func (s *CreditLedgerService) updateAccountBalance(ctx context.Context, tx *sql.Tx, accountID string, newBalance, lifetime int64, version int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE credit_accounts
		SET balance = $1, lifetime = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5`,
		newBalance, lifetime, time.Now(), accountID, version)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("optimistic lock failed for account %s", accountID)
	}

	return nil
}
