package refunds

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	orderports "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
)

// RefundOrderActivityName sends one order refund to the payment provider.
const RefundOrderActivityName = "orders.activities.RefundOrder"

// Activities groups the refund activities.
type Activities struct {
	refunder orderports.Refunder
}

// NewActivities wires the provider-facing refunder. It must not be the
// Temporal-backed refunder or refunds would loop.
func NewActivities(refunder orderports.Refunder) *Activities {
	return &Activities{refunder: refunder}
}

// RefundOrder calls the provider once per successful attempt.
func (a *Activities) RefundOrder(ctx context.Context, req orderports.RefundRequest) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.refunder == nil {
		logger.Error("refund activity not initialized", "orderNumber", req.OrderNumber)
		return errors.New("refund activity not initialized")
	}

	var hb refundHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Completed {
		logger.Info("RefundOrder already completed in prior attempt; skipping", "orderNumber", req.OrderNumber)
		return nil
	}

	logger.Info("RefundOrder activity started", "orderNumber", req.OrderNumber, "amount", req.Amount.String())
	if err := a.refunder.Refund(ctx, req); err != nil {
		logger.Error("RefundOrder activity failed", "orderNumber", req.OrderNumber, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, refundHeartbeat{Completed: true})
	logger.Info("RefundOrder activity completed", "orderNumber", req.OrderNumber)
	return nil
}

type refundHeartbeat struct {
	Completed bool
}
