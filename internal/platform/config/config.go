// Package config provides runtime configuration for the shop simulator,
// collected from the environment with sensible defaults. The domain tables
// (catalog seed, coupons, shipping options) are in-code constants and are
// deliberately not configurable here.
package config

import (
	"os"
	"strconv"
	"strings"

	domain "github.com/bookfield/shop/internal/domain"
)

const (
	defaultLogLevel     = "info"
	defaultApprovalRate = 0.8
)

// Config captures the runtime knobs organised by concern.
type Config struct {
	LogLevel string
	Payment  PaymentConfig
	Shipping ShippingConfig
}

// PaymentConfig tunes the simulated gateway.
type PaymentConfig struct {
	// ApprovalRate is the probability a well-formed charge is accepted.
	ApprovalRate float64
	// Seed, when non-zero, seeds the gateway's randomness for reproducible runs.
	Seed int64
}

// ShippingConfig selects the fallback shipping option.
type ShippingConfig struct {
	DefaultKey string
}

// Load collects configuration from the environment with defaults.
func Load() Config {
	return Config{
		LogLevel: getenv("LOG_LEVEL", defaultLogLevel),
		Payment: PaymentConfig{
			ApprovalRate: floatenv("PAYMENT_APPROVAL_RATE", defaultApprovalRate),
			Seed:         int64env("PAYMENT_RNG_SEED", 0),
		},
		Shipping: ShippingConfig{
			DefaultKey: getenv("SHIPPING_DEFAULT", domain.DefaultShippingKey),
		},
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || f > 1 {
		return def
	}
	return f
}

func int64env(key string, def int64) int64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
