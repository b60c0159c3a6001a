package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/projection"
)

var ErrNotFound = errors.New("order not found")

// Query filters a page of orders. Zero values are not filtered on; Number and
// Phone match as substrings.
type Query struct {
	projection.PageRequest
	UserID int64
	Number string
	Phone  string
	Status *domain.Status
	Begin  *time.Time
	End    *time.Time
}

// Repository persists orders together with their line items.
type Repository interface {
	// Create inserts the order and its details, assigning ids to both.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByNumber(ctx context.Context, userID int64, number string) (*domain.Order, error)
	// Update writes the order's mutable columns. Details are left untouched.
	Update(ctx context.Context, order *domain.Order) error
	// Page returns orders newest first, each with its details.
	Page(ctx context.Context, query Query) (projection.Page[*domain.Order], error)
	CountByStatus(ctx context.Context, statuses ...domain.Status) (map[domain.Status]int64, error)
}
