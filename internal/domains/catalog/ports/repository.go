package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("catalog entry not found")

// ListFilter narrows catalog listings. A nil status lists every status.
type ListFilter struct {
	CategoryID int64
	Status     *domain.Status
}

// Repository persists dishes and setmeals.
type Repository interface {
	SaveDish(ctx context.Context, dish *domain.Dish) (*domain.Dish, error)
	GetDish(ctx context.Context, id int64) (*domain.Dish, error)
	GetDishes(ctx context.Context, ids []int64) ([]*domain.Dish, error)
	ListDishes(ctx context.Context, filter ListFilter) ([]*domain.Dish, error)
	SetDishStatus(ctx context.Context, id int64, status domain.Status) error

	SaveSetmeal(ctx context.Context, setmeal *domain.Setmeal) (*domain.Setmeal, error)
	GetSetmeal(ctx context.Context, id int64) (*domain.Setmeal, error)
	ListSetmeals(ctx context.Context, filter ListFilter) ([]*domain.Setmeal, error)
	SetSetmealStatus(ctx context.Context, id int64, status domain.Status) error
}
