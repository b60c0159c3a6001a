package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression. Values match the persisted column.
type Status int

const (
	StatusPendingPayment     Status = 1
	StatusToBeConfirmed      Status = 2
	StatusConfirmed          Status = 3
	StatusDeliveryInProgress Status = 4
	StatusCompleted          Status = 5
	StatusCancelled          Status = 6
)

func (s Status) Valid() bool {
	return s >= StatusPendingPayment && s <= StatusCancelled
}

func (s Status) String() string {
	switch s {
	case StatusPendingPayment:
		return "pending_payment"
	case StatusToBeConfirmed:
		return "to_be_confirmed"
	case StatusConfirmed:
		return "confirmed"
	case StatusDeliveryInProgress:
		return "delivery_in_progress"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// PayStatus tracks the money side of an order.
type PayStatus int

const (
	PayStatusUnpaid PayStatus = 0
	PayStatusPaid   PayStatus = 1
	PayStatusRefund PayStatus = 2
)

// CancelReasonByUser is recorded when the customer cancels.
const CancelReasonByUser = "user cancelled"

var (
	ErrNoDetails               = errors.New("order has no line items")
	ErrInvalidAmount           = errors.New("order amount must not be negative")
	ErrInvalidStatusForCancel  = errors.New("order status does not allow cancellation")
	ErrInvalidStatusForReject  = errors.New("order status does not allow rejection")
	ErrInvalidStatusForPayment = errors.New("order status does not allow payment")
)

// Detail is one line item copied from the cart at submission. It is never mutated.
type Detail struct {
	ID         int64
	OrderID    int64
	Name       string
	Image      string
	DishID     *int64
	SetmealID  *int64
	DishFlavor string
	Number     int32
	Amount     decimal.Decimal
}

// Order is the takeout order aggregate. Address, consignee and phone are
// snapshots of the address book entry at submission time.
type Order struct {
	ID                    int64
	Number                string
	Status                Status
	UserID                int64
	AddressBookID         int64
	OrderTime             time.Time
	CheckoutTime          *time.Time
	PayMethod             int
	PayStatus             PayStatus
	Amount                decimal.Decimal
	Remark                string
	Phone                 string
	Address               string
	Consignee             string
	CancelReason          string
	RejectionReason       string
	CancelTime            *time.Time
	EstimatedDeliveryTime *time.Time
	DeliveryStatus        int
	DeliveryTime          *time.Time
	PackAmount            int
	TablewareNumber       int
	TablewareStatus       int
	Details               []*Detail
}

// Validate enforces the invariants of a freshly submitted order.
func (o *Order) Validate() error {
	if len(o.Details) == 0 {
		return ErrNoDetails
	}
	if o.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// CancelByUser cancels an order that has not been confirmed yet. refund is
// true when the order was awaiting confirmation and money must be returned.
func (o *Order) CancelByUser(now time.Time) (refund bool, err error) {
	if o.Status > StatusToBeConfirmed {
		return false, ErrInvalidStatusForCancel
	}
	if o.Status == StatusToBeConfirmed {
		o.PayStatus = PayStatusRefund
		refund = true
	}
	o.cancel(now)
	o.CancelReason = CancelReasonByUser
	return refund, nil
}

// Reject declines an order awaiting confirmation. refund is true when it was paid.
func (o *Order) Reject(reason string, now time.Time) (refund bool, err error) {
	if o.Status != StatusToBeConfirmed {
		return false, ErrInvalidStatusForReject
	}
	refund = o.refundIfPaid()
	o.cancel(now)
	o.RejectionReason = reason
	return refund, nil
}

// CancelByAdmin cancels from any status. refund is true when it was paid.
func (o *Order) CancelByAdmin(reason string, now time.Time) (refund bool) {
	refund = o.refundIfPaid()
	o.cancel(now)
	o.CancelReason = reason
	return refund
}

// Confirm moves the order to confirmed without checking the current status.
func (o *Order) Confirm() {
	o.Status = StatusConfirmed
}

// Deliver starts delivery of a confirmed order and reports whether anything changed.
func (o *Order) Deliver() bool {
	if o.Status != StatusConfirmed {
		return false
	}
	o.Status = StatusDeliveryInProgress
	return true
}

// Complete moves the order to completed without checking the current status.
func (o *Order) Complete(now time.Time) {
	o.Status = StatusCompleted
	o.DeliveryTime = &now
}

// MarkPaid records a successful payment of a pending order.
func (o *Order) MarkPaid(payMethod int, now time.Time) error {
	if o.Status != StatusPendingPayment {
		return ErrInvalidStatusForPayment
	}
	o.Status = StatusToBeConfirmed
	o.PayStatus = PayStatusPaid
	o.PayMethod = payMethod
	o.CheckoutTime = &now
	return nil
}

// DishSummary renders the line items as "name*number;" in line order.
func (o *Order) DishSummary() string {
	var b strings.Builder
	for _, d := range o.Details {
		b.WriteString(d.Name)
		b.WriteByte('*')
		b.WriteString(strconv.Itoa(int(d.Number)))
		b.WriteByte(';')
	}
	return b.String()
}

// Clone deep-copies the order including its details.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.CheckoutTime = cloneTime(o.CheckoutTime)
	c.CancelTime = cloneTime(o.CancelTime)
	c.EstimatedDeliveryTime = cloneTime(o.EstimatedDeliveryTime)
	c.DeliveryTime = cloneTime(o.DeliveryTime)
	c.Details = make([]*Detail, 0, len(o.Details))
	for _, d := range o.Details {
		dc := *d
		dc.DishID = cloneID(d.DishID)
		dc.SetmealID = cloneID(d.SetmealID)
		c.Details = append(c.Details, &dc)
	}
	return &c
}

func (o *Order) refundIfPaid() bool {
	if o.PayStatus != PayStatusPaid {
		return false
	}
	o.PayStatus = PayStatusRefund
	return true
}

func (o *Order) cancel(now time.Time) {
	o.Status = StatusCancelled
	o.CancelTime = &now
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
