package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func order(status Status, pay PayStatus) *Order {
	return &Order{ID: 1, Number: "n-1", Status: status, PayStatus: pay, Amount: decimal.NewFromInt(30)}
}

func TestCancelByUser(t *testing.T) {
	t.Run("pending payment cancels without refund", func(t *testing.T) {
		o := order(StatusPendingPayment, PayStatusUnpaid)
		refund, err := o.CancelByUser(now)
		require.NoError(t, err)
		assert.False(t, refund)
		assert.Equal(t, StatusCancelled, o.Status)
		assert.Equal(t, PayStatusUnpaid, o.PayStatus)
		assert.Equal(t, CancelReasonByUser, o.CancelReason)
		assert.Equal(t, now, *o.CancelTime)
	})

	t.Run("awaiting confirmation refunds", func(t *testing.T) {
		o := order(StatusToBeConfirmed, PayStatusPaid)
		refund, err := o.CancelByUser(now)
		require.NoError(t, err)
		assert.True(t, refund)
		assert.Equal(t, PayStatusRefund, o.PayStatus)
		assert.Equal(t, StatusCancelled, o.Status)
	})

	for _, status := range []Status{StatusConfirmed, StatusDeliveryInProgress, StatusCompleted, StatusCancelled} {
		t.Run("rejects "+status.String(), func(t *testing.T) {
			o := order(status, PayStatusPaid)
			before := *o
			_, err := o.CancelByUser(now)
			require.ErrorIs(t, err, ErrInvalidStatusForCancel)
			assert.Equal(t, before, *o)
		})
	}
}

func TestReject(t *testing.T) {
	o := order(StatusToBeConfirmed, PayStatusPaid)
	refund, err := o.Reject("out of stock", now)
	require.NoError(t, err)
	assert.True(t, refund)
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, PayStatusRefund, o.PayStatus)
	assert.Equal(t, "out of stock", o.RejectionReason)
	assert.NotNil(t, o.CancelTime)

	unpaid := order(StatusToBeConfirmed, PayStatusUnpaid)
	refund, err = unpaid.Reject("closed", now)
	require.NoError(t, err)
	assert.False(t, refund)

	for _, status := range []Status{StatusPendingPayment, StatusConfirmed, StatusCancelled} {
		_, err := order(status, PayStatusPaid).Reject("x", now)
		assert.ErrorIs(t, err, ErrInvalidStatusForReject)
	}
}

func TestCancelByAdmin_AnyStatus(t *testing.T) {
	o := order(StatusDeliveryInProgress, PayStatusPaid)
	assert.True(t, o.CancelByAdmin("rider lost", now))
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, PayStatusRefund, o.PayStatus)
	assert.Equal(t, "rider lost", o.CancelReason)

	unpaid := order(StatusPendingPayment, PayStatusUnpaid)
	assert.False(t, unpaid.CancelByAdmin("spam", now))
	assert.Equal(t, PayStatusUnpaid, unpaid.PayStatus)
}

func TestDeliver_OnlyFromConfirmed(t *testing.T) {
	o := order(StatusConfirmed, PayStatusPaid)
	assert.True(t, o.Deliver())
	assert.Equal(t, StatusDeliveryInProgress, o.Status)

	for _, status := range []Status{StatusPendingPayment, StatusToBeConfirmed, StatusDeliveryInProgress, StatusCompleted, StatusCancelled} {
		o := order(status, PayStatusPaid)
		assert.False(t, o.Deliver())
		assert.Equal(t, status, o.Status)
	}
}

// Confirm and Complete apply no precondition. These cases pin the current
// behaviour so that adding a guard is a deliberate change.
func TestConfirmAndComplete_Unguarded(t *testing.T) {
	cancelled := order(StatusCancelled, PayStatusRefund)
	cancelled.Confirm()
	assert.Equal(t, StatusConfirmed, cancelled.Status)

	pending := order(StatusPendingPayment, PayStatusUnpaid)
	pending.Complete(now)
	assert.Equal(t, StatusCompleted, pending.Status)
	assert.Equal(t, now, *pending.DeliveryTime)
}

func TestGuardedTransitionsNeverMoveBackwards(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPendingPayment:     {StatusToBeConfirmed, StatusCancelled},
		StatusToBeConfirmed:      {StatusConfirmed, StatusCancelled},
		StatusConfirmed:          {StatusDeliveryInProgress, StatusCancelled},
		StatusDeliveryInProgress: {StatusCompleted, StatusCancelled},
	}
	transitions := map[string]func(o *Order){
		"pay":          func(o *Order) { _ = o.MarkPaid(1, now) },
		"user cancel":  func(o *Order) { _, _ = o.CancelByUser(now) },
		"reject":       func(o *Order) { _, _ = o.Reject("r", now) },
		"deliver":      func(o *Order) { o.Deliver() },
		"admin cancel": func(o *Order) { o.CancelByAdmin("r", now) },
	}
	for from, targets := range allowed {
		for name, apply := range transitions {
			o := order(from, PayStatusPaid)
			apply(o)
			if o.Status == from {
				continue
			}
			assert.Contains(t, targets, o.Status, "%s from %s", name, from)
		}
	}
}

func TestMarkPaid(t *testing.T) {
	o := order(StatusPendingPayment, PayStatusUnpaid)
	require.NoError(t, o.MarkPaid(2, now))
	assert.Equal(t, StatusToBeConfirmed, o.Status)
	assert.Equal(t, PayStatusPaid, o.PayStatus)
	assert.Equal(t, 2, o.PayMethod)
	assert.Equal(t, now, *o.CheckoutTime)

	assert.ErrorIs(t, o.MarkPaid(1, now), ErrInvalidStatusForPayment)
}

func TestDishSummary(t *testing.T) {
	o := &Order{Details: []*Detail{{Name: "Kung Pao Chicken", Number: 2}, {Name: "Rice", Number: 1}}}
	assert.Equal(t, "Kung Pao Chicken*2;Rice*1;", o.DishSummary())
	assert.Equal(t, "", (&Order{}).DishSummary())
}

func TestClone_IsDeep(t *testing.T) {
	dish := int64(3)
	o := &Order{CancelTime: &now, Details: []*Detail{{Name: "Soup", DishID: &dish, Number: 1}}}
	c := o.Clone()
	*c.Details[0].DishID = 9
	c.Details[0].Number = 5
	later := now.Add(time.Hour)
	*c.CancelTime = later

	assert.Equal(t, int64(3), *o.Details[0].DishID)
	assert.Equal(t, int32(1), o.Details[0].Number)
	assert.Equal(t, now, *o.CancelTime)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Order{}).Validate(), ErrNoDetails)
	assert.ErrorIs(t, (&Order{Amount: decimal.NewFromInt(-1), Details: []*Detail{{}}}).Validate(), ErrInvalidAmount)
	assert.NoError(t, (&Order{Details: []*Detail{{}}}).Validate())
}
