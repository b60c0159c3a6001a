// Package worker runs the Temporal worker that executes order refunds.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	paymentclient "github.com/Apurer/go-gin-takeout-api/internal/clients/http/payment"
	orderpayment "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/payment"
	orderports "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-gin-takeout-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-takeout-api/internal/platform/temporal"
	refundactivities "github.com/Apurer/go-gin-takeout-api/internal/platform/temporal/activities/refunds"
	refundworkflows "github.com/Apurer/go-gin-takeout-api/internal/platform/temporal/workflows/refunds"
)

const serviceName = "takeout-worker"

// Run polls the refund task queue until interrupt is closed.
func Run(ctx context.Context, cfg Config, interrupt <-chan interface{}) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	refunder, err := providerRefunder(cfg, logger)
	if err != nil {
		return err
	}
	activities := refundactivities.NewActivities(refunder)

	temporalClient, err := platformtemporal.Dial(platformtemporal.Settings{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	}, instruments.Tracer("temporal-worker"), logger)
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, refundworkflows.RefundTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(refundworkflows.RefundWorkflow, workflow.RegisterOptions{Name: refundworkflows.RefundWorkflowName})
	w.RegisterActivityWithOptions(activities.RefundOrder, activity.RegisterOptions{Name: refundactivities.RefundOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", refundworkflows.RefundTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(interrupt); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}

// providerRefunder is the refunder the activity calls. It talks to the payment
// provider directly, or only logs when no provider is configured.
func providerRefunder(cfg Config, logger *slog.Logger) (orderports.Refunder, error) {
	if cfg.PaymentBaseURL == "" {
		logger.Warn("PAYMENT_BASE_URL not set, refunds are only logged")
		return orderpayment.NewLogRefunder(logger), nil
	}
	payments, err := paymentclient.NewClient(cfg.PaymentBaseURL, &http.Client{Timeout: cfg.PaymentTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to configure payment client: %w", err)
	}
	return orderpayment.NewGatewayRefunder(payments), nil
}
