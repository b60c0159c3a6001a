package refunds

import (
	"go.temporal.io/sdk/workflow"

	orderports "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/platform/temporal/sequences"
)

const (
	// RefundWorkflowName is the public identifier for registering the workflow.
	RefundWorkflowName = "orders.workflows.Refund"
	// RefundTaskQueue is the queue consumed by the worker processing refunds.
	RefundTaskQueue = "ORDER_REFUNDS"
)

// RefundWorkflowInput carries the refund and the trace of the request that issued it.
type RefundWorkflowInput struct {
	Request orderports.RefundRequest
	TraceID string
}

// RefundWorkflow returns money for a cancelled or rejected order.
func RefundWorkflow(ctx workflow.Context, input RefundWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("RefundWorkflow started", withTraceID(input.TraceID, "orderNumber", input.Request.OrderNumber)...)
	if err := sequences.RunRefundSequence(ctx, input.Request); err != nil {
		logger.Error("RefundWorkflow failed", withTraceID(input.TraceID, "orderNumber", input.Request.OrderNumber, "error", err)...)
		return err
	}
	logger.Info("RefundWorkflow completed", withTraceID(input.TraceID, "orderNumber", input.Request.OrderNumber)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
