package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("catalog product not found")

// Product is the catalog view the cart snapshots into a new line.
type Product struct {
	Name  string
	Image string
	Price decimal.Decimal
}

// Catalog resolves dishes and setmeals by id.
type Catalog interface {
	Dish(ctx context.Context, id int64) (Product, error)
	Setmeal(ctx context.Context, id int64) (Product, error)
}
