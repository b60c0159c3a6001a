package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/projection"
)

// SubmitCommand carries the client-side totals of a checkout.
type SubmitCommand struct {
	AddressBookID         int64
	PayMethod             int
	Remark                string
	EstimatedDeliveryTime *time.Time
	DeliveryStatus        int
	PackAmount            int
	TablewareNumber       int
	TablewareStatus       int
	Amount                decimal.Decimal
}

// SubmitResult is returned to the customer after checkout.
type SubmitResult struct {
	ID        int64
	Number    string
	Amount    decimal.Decimal
	OrderTime time.Time
}

// HistoryQuery pages through the current user's orders.
type HistoryQuery struct {
	projection.PageRequest
	Status *domain.Status
}

// Summary is an admin listing row.
type Summary struct {
	Order  *domain.Order
	Dishes string
}

// Statistics counts orders the kitchen still has to act on.
type Statistics struct {
	ToBeConfirmed      int64
	Confirmed          int64
	DeliveryInProgress int64
}

// Service exposes the order lifecycle to adapters.
type Service interface {
	Submit(ctx context.Context, cmd SubmitCommand) (*SubmitResult, error)
	Pay(ctx context.Context, number string, payMethod int) (*domain.Order, error)
	History(ctx context.Context, query HistoryQuery) (projection.Page[*domain.Order], error)
	Detail(ctx context.Context, id int64) (*domain.Order, error)
	Cancel(ctx context.Context, id int64) error
	Reorder(ctx context.Context, id int64) error

	Search(ctx context.Context, query Query) (projection.Page[Summary], error)
	AdminDetail(ctx context.Context, id int64) (*domain.Order, error)
	Statistics(ctx context.Context) (Statistics, error)
	Confirm(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64, reason string) error
	AdminCancel(ctx context.Context, id int64, reason string) error
	Deliver(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) error
	DishSummary(ctx context.Context, id int64) (string, error)
}
