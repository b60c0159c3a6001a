package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
)

var ErrNotFound = errors.New("cart item not found")

// Filter matches cart lines of one user. Nil ids and an empty flavor are not filtered on.
type Filter struct {
	UserID     int64
	DishID     *int64
	SetmealID  *int64
	DishFlavor string
}

// FilterFor builds the match used by add and remove.
func FilterFor(userID int64, sel domain.Selection) Filter {
	return Filter{UserID: userID, DishID: sel.DishID, SetmealID: sel.SetmealID, DishFlavor: sel.DishFlavor}
}

// Matches reports whether item satisfies f.
func (f Filter) Matches(item *domain.Item) bool {
	if item.UserID != f.UserID {
		return false
	}
	if f.DishID != nil && (item.DishID == nil || *item.DishID != *f.DishID) {
		return false
	}
	if f.SetmealID != nil && (item.SetmealID == nil || *item.SetmealID != *f.SetmealID) {
		return false
	}
	if f.DishFlavor != "" && item.DishFlavor != f.DishFlavor {
		return false
	}
	return true
}

// Repository persists cart lines.
type Repository interface {
	Find(ctx context.Context, filter Filter) ([]*domain.Item, error)
	Insert(ctx context.Context, item *domain.Item) (*domain.Item, error)
	InsertBatch(ctx context.Context, items []*domain.Item) error
	UpdateNumber(ctx context.Context, id int64, number int32) error
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}
