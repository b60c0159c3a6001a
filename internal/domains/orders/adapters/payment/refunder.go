// Package payment adapts refund requests to the payment side.
package payment

import (
	"context"
	"errors"
	"log/slog"

	paymentclient "github.com/Apurer/go-gin-takeout-api/internal/clients/http/payment"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
)

var (
	_ ports.Refunder = (*LogRefunder)(nil)
	_ ports.Refunder = (*GatewayRefunder)(nil)
)

// LogRefunder records refunds without contacting a provider. Used when no
// payment endpoint is configured.
type LogRefunder struct {
	logger *slog.Logger
}

func NewLogRefunder(logger *slog.Logger) *LogRefunder {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRefunder{logger: logger}
}

func (r *LogRefunder) Refund(ctx context.Context, req ports.RefundRequest) error {
	r.logger.LogAttrs(ctx, slog.LevelInfo, "refund acknowledged without provider",
		slog.Int64("order.id", req.OrderID),
		slog.String("order.number", req.OrderNumber),
		slog.String("refund.amount", req.Amount.StringFixed(2)),
		slog.String("refund.reason", req.Reason),
	)
	return nil
}

// GatewayRefunder sends refunds to the payment provider's HTTP API.
type GatewayRefunder struct {
	client *paymentclient.Client
}

func NewGatewayRefunder(client *paymentclient.Client) *GatewayRefunder {
	return &GatewayRefunder{client: client}
}

// Refund is idempotent per order number.
func (r *GatewayRefunder) Refund(ctx context.Context, req ports.RefundRequest) error {
	if r == nil || r.client == nil {
		return errors.New("payment gateway not configured")
	}
	return r.client.Refund(ctx, req.OrderNumber,
		paymentclient.RefundPayload{Amount: req.Amount, Reason: req.Reason},
		paymentclient.WithIdempotencyKey(IdempotencyKey(req.OrderNumber)),
	)
}

// IdempotencyKey derives the provider idempotency key of an order's refund.
func IdempotencyKey(orderNumber string) string {
	return "refund-" + orderNumber
}
