// Package cart connects order submission and reorder to the cart bounded context.
package cart

import (
	"context"

	cartdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
	orderports "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
)

var _ orderports.Cart = (*Adapter)(nil)

// Adapter exposes the cart service as the orders Cart port.
type Adapter struct {
	cart cartports.Service
}

func New(cart cartports.Service) *Adapter {
	return &Adapter{cart: cart}
}

func (a *Adapter) Lines(ctx context.Context) ([]orderports.CartLine, error) {
	items, err := a.cart.List(ctx)
	if err != nil {
		return nil, err
	}
	lines := make([]orderports.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, orderports.CartLine{
			Name:       item.Name,
			Image:      item.Image,
			DishID:     item.DishID,
			SetmealID:  item.SetmealID,
			DishFlavor: item.DishFlavor,
			Number:     item.Number,
			Amount:     item.Amount,
		})
	}
	return lines, nil
}

func (a *Adapter) Clear(ctx context.Context) error {
	return a.cart.Clear(ctx)
}

func (a *Adapter) Restore(ctx context.Context, lines []orderports.CartLine) error {
	items := make([]*cartdomain.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, &cartdomain.Item{
			Name:       line.Name,
			Image:      line.Image,
			DishID:     line.DishID,
			SetmealID:  line.SetmealID,
			DishFlavor: line.DishFlavor,
			Number:     line.Number,
			Amount:     line.Amount,
		})
	}
	return a.cart.Restore(ctx, items)
}
