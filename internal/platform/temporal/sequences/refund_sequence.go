package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderports "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	refundactivities "github.com/Apurer/go-gin-takeout-api/internal/platform/temporal/activities/refunds"
)

// RefundActivityOptions bounds each provider call and retries transient failures.
var RefundActivityOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 30 * time.Second,
	RetryPolicy: &temporal.RetryPolicy{
		InitialInterval:    2 * time.Second,
		BackoffCoefficient: 2.0,
		MaximumInterval:    time.Minute,
		MaximumAttempts:    10,
	},
}

// RunRefundSequence executes the provider refund for one order.
func RunRefundSequence(ctx workflow.Context, req orderports.RefundRequest) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("refund sequence started", "orderNumber", req.OrderNumber)
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, RefundActivityOptions), refundactivities.RefundOrderActivityName, req).Get(ctx, nil)
	if err != nil {
		logger.Error("refund sequence failed", "orderNumber", req.OrderNumber, "error", err)
		return err
	}
	logger.Info("refund sequence completed", "orderNumber", req.OrderNumber)
	return nil
}
