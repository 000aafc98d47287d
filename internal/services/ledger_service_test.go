package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/vesseliq/backend/internal/models"
)

const lockAccountQuery = "SELECT id, balance, lifetime, version, updated_at\\s+FROM credit_accounts\\s+WHERE id = \\$1\\s+FOR UPDATE"

func accountRows(accountID string, balance, lifetime int64, version int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "balance", "lifetime", "version", "updated_at"}).
		AddRow(accountID, balance, lifetime, version, time.Now())
}

func TestCreditLedgerService_Deduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCreditLedgerService(db)
	ctx := context.Background()

	t.Run("successful deduction", func(t *testing.T) {
		accountID := "account1"
		operationID := "op-123"
		amount := int64(300)

		mock.ExpectBegin()

		mock.ExpectQuery("SELECT t.transaction_id, t.type, t.amount").
			WithArgs(operationID).
			WillReturnError(sql.ErrNoRows)

		mock.ExpectQuery(lockAccountQuery).
			WithArgs(accountID).
			WillReturnRows(accountRows(accountID, 1000, 5000, 3))

		mock.ExpectExec("INSERT INTO ledger_entries").
			WithArgs(operationID, accountID, -amount, "DEBIT", int64(700), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectExec("INSERT INTO credit_transactions").
			WithArgs(operationID, accountID, models.TxUsage, amount, "area monitoring", "svc-9", "area-monitoring", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectExec("UPDATE credit_accounts").
			WithArgs(int64(700), int64(5000), sqlmock.AnyArg(), accountID, 3).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectCommit()

		result, err := service.Deduct(ctx, DeductionRequest{
			AccountID:   accountID,
			Amount:      amount,
			Description: "area monitoring",
			ServiceID:   "svc-9",
			ServiceType: "area-monitoring",
			OperationID: operationID,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(700), result.NewBalance)
		assert.Equal(t, models.TxUsage, result.Transaction.Type)
		assert.Equal(t, amount, result.Transaction.Amount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient credits", func(t *testing.T) {
		accountID := "account1"
		operationID := "op-456"

		mock.ExpectBegin()

		mock.ExpectQuery("SELECT t.transaction_id, t.type, t.amount").
			WithArgs(operationID).
			WillReturnError(sql.ErrNoRows)

		mock.ExpectQuery(lockAccountQuery).
			WithArgs(accountID).
			WillReturnRows(accountRows(accountID, 100, 5000, 3))

		mock.ExpectRollback()

		_, err := service.Deduct(ctx, DeductionRequest{
			AccountID:   accountID,
			Amount:      300,
			OperationID: operationID,
		})
		assert.ErrorIs(t, err, models.ErrInsufficientCredits)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replayed operation returns the recorded outcome", func(t *testing.T) {
		accountID := "account1"
		operationID := "op-replayed"

		mock.ExpectBegin()

		mock.ExpectQuery("SELECT t.transaction_id, t.type, t.amount").
			WithArgs(operationID).
			WillReturnRows(sqlmock.NewRows([]string{
				"transaction_id", "type", "amount", "description", "service_id", "service_type", "created_at", "balance",
			}).AddRow(operationID, models.TxUsage, 300, "area monitoring", "", "", time.Now(), 700))

		mock.ExpectRollback()

		result, err := service.Deduct(ctx, DeductionRequest{
			AccountID:   accountID,
			Amount:      300,
			OperationID: operationID,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(700), result.NewBalance)
		assert.Equal(t, operationID, result.Transaction.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account", func(t *testing.T) {
		operationID := "op-789"

		mock.ExpectBegin()

		mock.ExpectQuery("SELECT t.transaction_id, t.type, t.amount").
			WithArgs(operationID).
			WillReturnError(sql.ErrNoRows)

		mock.ExpectQuery(lockAccountQuery).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		mock.ExpectRollback()

		_, err := service.Deduct(ctx, DeductionRequest{
			AccountID:   "missing",
			Amount:      300,
			OperationID: operationID,
		})
		assert.ErrorIs(t, err, models.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive amounts and missing operation id", func(t *testing.T) {
		_, err := service.Deduct(ctx, DeductionRequest{AccountID: "a", Amount: 0, OperationID: "op"})
		assert.Error(t, err)

		_, err = service.Deduct(ctx, DeductionRequest{AccountID: "a", Amount: 10})
		assert.Error(t, err)
	})
}

func TestCreditLedgerService_Credit(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCreditLedgerService(db)
	ctx := context.Background()

	t.Run("successful purchase bumps balance and lifetime", func(t *testing.T) {
		accountID := "account1"
		operationID := "op-buy"
		amount := int64(500)

		mock.ExpectBegin()

		mock.ExpectQuery("SELECT t.transaction_id, t.type, t.amount").
			WithArgs(operationID).
			WillReturnError(sql.ErrNoRows)

		mock.ExpectQuery(lockAccountQuery).
			WithArgs(accountID).
			WillReturnRows(accountRows(accountID, 1000, 5000, 3))

		mock.ExpectExec("INSERT INTO ledger_entries").
			WithArgs(operationID, accountID, amount, "CREDIT", int64(1500), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectExec("INSERT INTO credit_transactions").
			WithArgs(operationID, accountID, models.TxPurchase, amount, "Credit purchase", "", "", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectExec("UPDATE credit_accounts").
			WithArgs(int64(1500), int64(5500), sqlmock.AnyArg(), accountID, 3).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectCommit()

		result, err := service.Credit(ctx, CreditRequest{
			AccountID:   accountID,
			Amount:      amount,
			Description: "Credit purchase",
			OperationID: operationID,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(1500), result.NewBalance)
		assert.Equal(t, models.TxPurchase, result.Transaction.Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("optimistic lock conflict surfaces an error", func(t *testing.T) {
		accountID := "account1"
		operationID := "op-conflict"

		mock.ExpectBegin()

		mock.ExpectQuery("SELECT t.transaction_id, t.type, t.amount").
			WithArgs(operationID).
			WillReturnError(sql.ErrNoRows)

		mock.ExpectQuery(lockAccountQuery).
			WithArgs(accountID).
			WillReturnRows(accountRows(accountID, 1000, 5000, 3))

		mock.ExpectExec("INSERT INTO ledger_entries").
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectExec("INSERT INTO credit_transactions").
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectExec("UPDATE credit_accounts").
			WillReturnResult(sqlmock.NewResult(1, 0)) // No rows affected

		mock.ExpectRollback()

		_, err := service.Credit(ctx, CreditRequest{
			AccountID:   accountID,
			Amount:      500,
			OperationID: operationID,
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "optimistic lock failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreditLedgerService_Balance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCreditLedgerService(db)
	ctx := context.Background()

	t.Run("balance includes expiring buckets soonest first", func(t *testing.T) {
		soon := time.Now().Add(24 * time.Hour)
		later := time.Now().Add(72 * time.Hour)

		mock.ExpectQuery("SELECT balance, lifetime FROM credit_accounts").
			WithArgs("account1").
			WillReturnRows(sqlmock.NewRows([]string{"balance", "lifetime"}).AddRow(1000, 5000))

		mock.ExpectQuery("SELECT amount, expires_at FROM credit_buckets").
			WithArgs("account1").
			WillReturnRows(sqlmock.NewRows([]string{"amount", "expires_at"}).
				AddRow(100, soon).
				AddRow(250, later))

		balance, err := service.Balance(ctx, "account1")
		assert.NoError(t, err)
		assert.Equal(t, int64(1000), balance.Current)
		assert.Equal(t, int64(5000), balance.Lifetime)
		assert.Len(t, balance.ExpiringCredits, 2)
		assert.Equal(t, int64(100), balance.ExpiringCredits[0].Amount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account", func(t *testing.T) {
		mock.ExpectQuery("SELECT balance, lifetime FROM credit_accounts").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := service.Balance(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreditLedgerService_Transactions(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCreditLedgerService(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT transaction_id, type, amount, description").
		WithArgs("account1", 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"transaction_id", "type", "amount", "description", "service_id", "service_type", "created_at",
		}).
			AddRow("tx2", models.TxUsage, 300, "area monitoring", "svc-9", "area-monitoring", time.Now()).
			AddRow("tx1", models.TxPurchase, 1000, "Credit purchase", "", "", time.Now().Add(-time.Hour)))

	transactions, err := service.Transactions(ctx, "account1", 0)
	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
	assert.Equal(t, "tx2", transactions[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
