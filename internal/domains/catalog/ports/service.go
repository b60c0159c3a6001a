package ports

import (
	"context"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	CreateDish(ctx context.Context, dish *domain.Dish) (*domain.Dish, error)
	UpdateDish(ctx context.Context, dish *domain.Dish) (*domain.Dish, error)
	SetDishStatus(ctx context.Context, id int64, status domain.Status) error
	GetDish(ctx context.Context, id int64) (*domain.Dish, error)
	// ListDishes returns on-sale dishes of a category through the cache.
	ListDishes(ctx context.Context, categoryID int64) ([]*domain.Dish, error)

	CreateSetmeal(ctx context.Context, setmeal *domain.Setmeal) (*domain.Setmeal, error)
	UpdateSetmeal(ctx context.Context, setmeal *domain.Setmeal) (*domain.Setmeal, error)
	SetSetmealStatus(ctx context.Context, id int64, status domain.Status) error
	GetSetmeal(ctx context.Context, id int64) (*domain.Setmeal, error)
	// ListSetmeals returns on-sale setmeals of a category through the cache.
	ListSetmeals(ctx context.Context, categoryID int64) ([]*domain.Setmeal, error)
}
