package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrAddressNotFound = errors.New("address book entry not found")

// Address is the snapshot copied onto an order at submission.
type Address struct {
	Consignee string
	Phone     string
	Address   string
}

// AddressBook resolves address book entries by id.
type AddressBook interface {
	Lookup(ctx context.Context, id int64) (Address, error)
}

// CartLine is one cart entry as seen by order submission and reorder.
type CartLine struct {
	Name       string
	Image      string
	DishID     *int64
	SetmealID  *int64
	DishFlavor string
	Number     int32
	Amount     decimal.Decimal
}

// Cart is the current user's shopping cart.
type Cart interface {
	Lines(ctx context.Context) ([]CartLine, error)
	Clear(ctx context.Context) error
	Restore(ctx context.Context, lines []CartLine) error
}

// RefundRequest identifies money owed back to the customer of an order.
type RefundRequest struct {
	OrderID     int64
	OrderNumber string
	Amount      decimal.Decimal
	Reason      string
}

// Refunder hands a refund to the payment side.
type Refunder interface {
	Refund(ctx context.Context, req RefundRequest) error
}
