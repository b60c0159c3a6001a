package ports

import (
	"context"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/domain"
)

// Service exposes address book use cases.
type Service interface {
	Add(ctx context.Context, address *domain.Address) (*domain.Address, error)
	List(ctx context.Context) ([]*domain.Address, error)
	Get(ctx context.Context, id int64) (*domain.Address, error)
}
