package refunds

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	orderports "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	refundactivities "github.com/Apurer/go-gin-takeout-api/internal/platform/temporal/activities/refunds"
)

type flakyRefunder struct {
	failures int
	calls    int
}

func (f *flakyRefunder) Refund(context.Context, orderports.RefundRequest) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("provider unavailable")
	}
	return nil
}

func TestRefundWorkflow_RetriesUntilProviderAccepts(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	refunder := &flakyRefunder{failures: 2}
	acts := refundactivities.NewActivities(refunder)
	env.RegisterActivityWithOptions(acts.RefundOrder, activity.RegisterOptions{Name: refundactivities.RefundOrderActivityName})

	env.ExecuteWorkflow(RefundWorkflow, RefundWorkflowInput{
		Request: orderports.RefundRequest{OrderID: 1, OrderNumber: "n-1", Amount: decimal.NewFromInt(20), Reason: "user cancelled"},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	require.Equal(t, 3, refunder.calls)
}

func TestRefundWorkflow_PassesRequestToActivity(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := refundactivities.NewActivities(nil)
	env.RegisterActivityWithOptions(acts.RefundOrder, activity.RegisterOptions{Name: refundactivities.RefundOrderActivityName})

	req := orderports.RefundRequest{OrderID: 7, OrderNumber: "n-7", Amount: decimal.RequireFromString("15.5"), Reason: "rejected"}
	env.OnActivity(refundactivities.RefundOrderActivityName, mock.Anything, mock.MatchedBy(func(got orderports.RefundRequest) bool {
		return got.OrderNumber == req.OrderNumber && got.Amount.Equal(req.Amount)
	})).Return(nil).Once()

	env.ExecuteWorkflow(RefundWorkflow, RefundWorkflowInput{Request: req, TraceID: "trace-1"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}
