// Package temporal dials the Temporal cluster used for refund orchestration.
package temporal

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
)

// ErrDisabled is returned by Dial when Temporal is switched off by configuration.
var ErrDisabled = errors.New("temporal disabled by configuration")

// Settings locates the cluster.
type Settings struct {
	Address   string
	Namespace string
	Disabled  bool
}

// Dial connects a client that traces through tracer and logs through logger.
func Dial(settings Settings, tracer trace.Tracer, logger *slog.Logger) (client.Client, error) {
	if settings.Disabled {
		return nil, ErrDisabled
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: tracer})
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	options := client.Options{
		HostPort:  orDefault(settings.Address, client.DefaultHostPort),
		Namespace: orDefault(settings.Namespace, client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
