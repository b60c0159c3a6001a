package worker

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the refund worker.
type Config struct {
	Environment  string
	LogLevel     string
	OTLPEndpoint string
	OTLPInsecure bool

	PaymentBaseURL string
	PaymentTimeout time.Duration

	TemporalAddress   string
	TemporalNamespace string
}

// LoadConfig reads environment variables and applies defaults.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PAYMENT_TIMEOUT", "10s")
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)

	cfg := Config{
		Environment:       v.GetString("APP_ENV"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		OTLPEndpoint:      strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:      v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		PaymentBaseURL:    strings.TrimSpace(v.GetString("PAYMENT_BASE_URL")),
		PaymentTimeout:    v.GetDuration("PAYMENT_TIMEOUT"),
		TemporalAddress:   v.GetString("TEMPORAL_ADDRESS"),
		TemporalNamespace: v.GetString("TEMPORAL_NAMESPACE"),
	}
	if cfg.PaymentTimeout <= 0 {
		return Config{}, errors.New("PAYMENT_TIMEOUT must be a positive duration")
	}
	return cfg, nil
}
