package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-takeout-api/internal/platform/database"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port         string
	Environment  string
	LogLevel     string
	OTLPEndpoint string
	OTLPInsecure bool

	DatabaseDriver string
	DatabaseDSN    string
	AutoMigrate    bool

	RedisURL        string
	CatalogCacheTTL time.Duration

	JWTSecret string
	JWTIssuer string

	UserRateLimit float64
	UserRateBurst int

	PaymentBaseURL string
	PaymentTimeout time.Duration

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", database.DriverPostgres)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("CATALOG_CACHE_TTL", "30m")
	v.SetDefault("JWT_ISSUER", "takeout")
	v.SetDefault("USER_RATE_LIMIT", 10)
	v.SetDefault("USER_RATE_BURST", 20)
	v.SetDefault("PAYMENT_TIMEOUT", "10s")
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	// POSTGRES_DSN is still honoured for older deployments.
	_ = v.BindEnv("DATABASE_DSN", "DATABASE_DSN", "POSTGRES_DSN")

	cfg := Config{
		Port:              strings.TrimSpace(v.GetString("PORT")),
		Environment:       v.GetString("APP_ENV"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		OTLPEndpoint:      strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:      v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		DatabaseDriver:    strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseDSN:       strings.TrimSpace(v.GetString("DATABASE_DSN")),
		AutoMigrate:       v.GetBool("DB_AUTO_MIGRATE"),
		RedisURL:          strings.TrimSpace(v.GetString("REDIS_URL")),
		CatalogCacheTTL:   v.GetDuration("CATALOG_CACHE_TTL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTIssuer:         strings.TrimSpace(v.GetString("JWT_ISSUER")),
		UserRateLimit:     v.GetFloat64("USER_RATE_LIMIT"),
		UserRateBurst:     v.GetInt("USER_RATE_BURST"),
		PaymentBaseURL:    strings.TrimSpace(v.GetString("PAYMENT_BASE_URL")),
		PaymentTimeout:    v.GetDuration("PAYMENT_TIMEOUT"),
		TemporalAddress:   v.GetString("TEMPORAL_ADDRESS"),
		TemporalNamespace: v.GetString("TEMPORAL_NAMESPACE"),
		TemporalDisabled:  v.GetBool("TEMPORAL_DISABLED"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.DatabaseDriver {
	case database.DriverPostgres, database.DriverMySQL, database.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of postgres, mysql, sqlite", c.DatabaseDriver))
	}
	if c.CatalogCacheTTL <= 0 {
		errs = append(errs, errors.New("CATALOG_CACHE_TTL must be a positive duration"))
	}
	if c.UserRateLimit < 0 || c.UserRateBurst < 0 {
		errs = append(errs, errors.New("USER_RATE_LIMIT and USER_RATE_BURST must not be negative"))
	}
	if c.PaymentTimeout <= 0 {
		errs = append(errs, errors.New("PAYMENT_TIMEOUT must be a positive duration"))
	}
	return errors.Join(errs...)
}
