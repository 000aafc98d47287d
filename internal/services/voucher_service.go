package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image/png"
	"log"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skip2/go-qrcode"
	"github.com/vesseliq/backend/internal/config"
	"github.com/vesseliq/backend/internal/models"
)

// CreditSink receives redeemed voucher credits. Implemented by
// CreditLedgerService; mocked in tests.
type CreditSink interface {
	Credit(ctx context.Context, req CreditRequest) (*models.DeductionResult, error)
}

// VoucherService issues and redeems single-use credit voucher codes. Codes
// are stored hashed; redemption consumes the row under a lock and credits
// the redeemer's ledger account with the voucher's transaction id as the
// dedupe key.
type VoucherService struct {
	db     *sql.DB
	redis  *redis.Client
	ledger CreditSink
	config *config.CreditsConfig
}

func NewVoucherService(db *sql.DB, redisClient *redis.Client, ledger CreditSink) *VoucherService {
	return &VoucherService{
		db:     db,
		redis:  redisClient,
		ledger: ledger,
		config: config.LoadCreditsConfig(),
	}
}

// IssueVoucher creates a voucher worth the given credits and returns the
// plaintext code plus a base64 PNG QR image of it. The plaintext is never
// stored.
func (s *VoucherService) IssueVoucher(ctx context.Context, userID string, credits int64) (string, string, error) {
	log.Printf("[VOUCHER] IssueVoucher - userID: %s, credits: %d", userID, credits)

	if credits <= 0 {
		return "", "", fmt.Errorf("voucher credits must be positive")
	}
	if err := s.checkRateLimit(ctx, userID); err != nil {
		log.Printf("[VOUCHER] IssueVoucher - Rate limit error: %v", err)
		return "", "", err
	}

	code := s.generateSecureCode()
	hashedCode := s.hashCode(code)
	transactionID := s.generateTransactionID()
	expiresAt := time.Now().Add(s.config.VoucherTTL)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vouchers (transaction_id, code_hash, user_id, credits, expires_at, redeemed)
		VALUES ($1, $2, $3, $4, $5, false)
	`, transactionID, hashedCode, userID, credits, expiresAt)

	if err != nil {
		log.Printf("[VOUCHER] IssueVoucher - DB insert error: %v", err)
		return "", "", fmt.Errorf("failed to store voucher: %w", err)
	}

	s.incrementRateLimit(ctx, userID)

	qrImage, err := s.renderQR(code)
	if err != nil {
		return "", "", err
	}

	log.Printf("[VOUCHER] IssueVoucher - Issued %s", transactionID)
	return code, qrImage, nil
}

// Redeem consumes a voucher code exactly once and credits accountID. The
// voucher's transaction id doubles as the ledger dedupe key, so a retried
// redemption after a crash cannot double-credit.
func (s *VoucherService) Redeem(ctx context.Context, code, accountID string) (*models.DeductionResult, error) {
	hashedCode := s.hashCode(code)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var voucher models.Voucher
	err = tx.QueryRowContext(ctx, `
		SELECT transaction_id, user_id, credits, expires_at, redeemed
		FROM vouchers
		WHERE code_hash = $1
		FOR UPDATE
	`, hashedCode).Scan(&voucher.TransactionID, &voucher.UserID, &voucher.Credits, &voucher.ExpiresAt, &voucher.Redeemed)

	if err == sql.ErrNoRows {
		return nil, models.ErrVoucherInvalid
	}
	if err != nil {
		return nil, err
	}

	if voucher.Redeemed {
		return nil, models.ErrVoucherInvalid
	}
	if time.Now().After(voucher.ExpiresAt) {
		return nil, models.ErrVoucherExpired
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE vouchers
		SET redeemed = true, redeemed_at = $1, redeemed_by = $2
		WHERE code_hash = $3
	`, time.Now(), accountID, hashedCode)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	result, err := s.ledger.Credit(ctx, CreditRequest{
		AccountID:   accountID,
		Amount:      voucher.Credits,
		Type:        models.TxBonus,
		Description: "Voucher redemption",
		OperationID: voucher.TransactionID,
	})
	if err != nil {
		// Voucher is marked redeemed; the dedupe key lets a retry of the
		// credit succeed without reissuing.
		log.Printf("[VOUCHER] Redeem - Credit failed for %s: %v", voucher.TransactionID, err)
		return nil, err
	}

	return result, nil
}

// UserVouchers lists a user's issued vouchers with codes masked.
func (s *VoucherService) UserVouchers(ctx context.Context, userID string) ([]models.Voucher, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, user_id, credits, created_at, expires_at, redeemed
		FROM vouchers
		WHERE user_id = $1
		ORDER BY expires_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []models.Voucher
	for rows.Next() {
		var voucher models.Voucher
		if err := rows.Scan(&voucher.TransactionID, &voucher.UserID, &voucher.Credits,
			&voucher.CreatedAt, &voucher.ExpiresAt, &voucher.Redeemed); err != nil {
			return nil, err
		}

		voucher.Expired = time.Now().After(voucher.ExpiresAt) || voucher.Redeemed
		vouchers = append(vouchers, voucher)
	}

	return vouchers, rows.Err()
}

// CleanupExpired drops expired and long-redeemed vouchers. Scheduled from
// main alongside the reservation sweep.
func (s *VoucherService) CleanupExpired(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM vouchers
		WHERE expires_at < $1 OR (redeemed = true AND redeemed_at < $2)
	`, time.Now(), time.Now().Add(-24*time.Hour))
	return err
}

func (s *VoucherService) generateSecureCode() string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	code := make([]byte, s.config.VoucherCodeLength)
	charsetLen := big.NewInt(int64(len(charset)))

	for i := range code {
		n, _ := rand.Int(rand.Reader, charsetLen)
		code[i] = charset[n.Int64()]
	}

	return string(code)
}

func (s *VoucherService) generateTransactionID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("VCH-%X-%d", b, time.Now().Unix())
}

func (s *VoucherService) hashCode(code string) string {
	hash := sha256.Sum256([]byte(code))
	for i := 1; i < s.config.VoucherHashIterations; i++ {
		hash = sha256.Sum256(hash[:])
	}
	return hex.EncodeToString(hash[:])
}

func (s *VoucherService) renderQR(code string) (string, error) {
	qr, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *VoucherService) checkRateLimit(ctx context.Context, userID string) error {
	if s.redis == nil {
		return nil
	}
	key := fmt.Sprintf("voucher:ratelimit:%s", userID)
	count, err := s.redis.Get(ctx, key).Int()
	if err != nil && err != redis.Nil {
		return err
	}

	if count >= s.config.MaxVouchersPerUser {
		return errors.New("rate limit exceeded")
	}

	return nil
}

func (s *VoucherService) incrementRateLimit(ctx context.Context, userID string) {
	if s.redis == nil {
		return
	}
	pipe := s.redis.Pipeline()
	key := fmt.Sprintf("voucher:ratelimit:%s", userID)
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.config.RateLimitWindow)
	pipe.Exec(ctx)
}
