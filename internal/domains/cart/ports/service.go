package ports

import (
	"context"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
)

// Service exposes the cart use cases for the current user to adapters.
type Service interface {
	Add(ctx context.Context, sel domain.Selection) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	Remove(ctx context.Context, sel domain.Selection) error
	Clear(ctx context.Context) error
	Restore(ctx context.Context, items []*domain.Item) error
}
