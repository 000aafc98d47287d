package config

import (
	"os"
	"strconv"
	"time"
)

type CreditsConfig struct {
	ReservationTTL        time.Duration
	ReservationSweepSpec  string
	VoucherCodeLength     int
	VoucherTTL            time.Duration
	VoucherHashIterations int
	MaxVouchersPerUser    int
	RateLimitWindow       time.Duration
	BalanceCacheTTL       time.Duration
	MaxQuoteCriteria      int
}

func LoadCreditsConfig() *CreditsConfig {
	return &CreditsConfig{
		ReservationTTL:        getEnvAsDuration("CREDITS_RESERVATION_TTL", 15*time.Minute),
		ReservationSweepSpec:  getEnv("CREDITS_RESERVATION_SWEEP", "@every 5m"),
		VoucherCodeLength:     getEnvAsInt("CREDITS_VOUCHER_CODE_LENGTH", 12),
		VoucherTTL:            getEnvAsDuration("CREDITS_VOUCHER_TTL", 30*24*time.Hour),
		VoucherHashIterations: getEnvAsInt("CREDITS_VOUCHER_HASH_ITERATIONS", 10000),
		MaxVouchersPerUser:    getEnvAsInt("CREDITS_MAX_VOUCHERS_PER_USER", 10),
		RateLimitWindow:       getEnvAsDuration("CREDITS_RATE_LIMIT_WINDOW", 1*time.Hour),
		BalanceCacheTTL:       getEnvAsDuration("CREDITS_BALANCE_CACHE_TTL", 5*time.Minute),
		MaxQuoteCriteria:      getEnvAsInt("CREDITS_MAX_QUOTE_CRITERIA", 50),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}
