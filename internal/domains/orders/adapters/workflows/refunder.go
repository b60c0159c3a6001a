package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	refundworkflows "github.com/Apurer/go-gin-takeout-api/internal/platform/temporal/workflows/refunds"
)

var _ ports.Refunder = (*TemporalRefunder)(nil)

// TemporalRefunder hands refunds to a durable workflow. Refund returns once the
// workflow is accepted; provider retries happen in the worker.
type TemporalRefunder struct {
	client    client.Client
	taskQueue string
}

func NewTemporalRefunder(c client.Client) *TemporalRefunder {
	return &TemporalRefunder{client: c, taskQueue: refundworkflows.RefundTaskQueue}
}

func (r *TemporalRefunder) Refund(ctx context.Context, req ports.RefundRequest) error {
	if r == nil || r.client == nil {
		return errors.New("temporal refunder not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        RefundWorkflowID(req.OrderNumber),
		TaskQueue: r.taskQueue,
	}
	_, err := r.client.ExecuteWorkflow(ctx, options, refundworkflows.RefundWorkflow,
		refundworkflows.RefundWorkflowInput{Request: req, TraceID: workflowTraceID(ctx)})
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil
		}
		return fmt.Errorf("start refund workflow: %w", err)
	}
	return nil
}

// RefundWorkflowID is deterministic per order so a refund is started at most once.
func RefundWorkflowID(orderNumber string) string {
	sum := sha256.Sum256([]byte(orderNumber))
	return "order-refund-" + hex.EncodeToString(sum[:8])
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
