package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/domain"
)

var ErrNotFound = errors.New("address not found")

// Repository persists address book entries.
type Repository interface {
	Save(ctx context.Context, address *domain.Address) (*domain.Address, error)
	Get(ctx context.Context, id int64) (*domain.Address, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Address, error)
}
