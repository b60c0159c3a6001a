// Package catalogreader resolves cart selections against the catalog bounded context.
package catalogreader

import (
	"context"
	"errors"

	cartports "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
	catalogapp "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/ports"
)

var _ cartports.Catalog = (*Reader)(nil)

// Reader adapts the catalog service to the cart's Catalog port.
type Reader struct {
	catalog catalogports.Service
}

func New(catalog catalogports.Service) *Reader {
	return &Reader{catalog: catalog}
}

func (r *Reader) Dish(ctx context.Context, id int64) (cartports.Product, error) {
	dish, err := r.catalog.GetDish(ctx, id)
	if err != nil {
		return cartports.Product{}, translate(err)
	}
	return cartports.Product{Name: dish.Name, Image: dish.Image, Price: dish.Price}, nil
}

func (r *Reader) Setmeal(ctx context.Context, id int64) (cartports.Product, error) {
	setmeal, err := r.catalog.GetSetmeal(ctx, id)
	if err != nil {
		return cartports.Product{}, translate(err)
	}
	return cartports.Product{Name: setmeal.Name, Image: setmeal.Image, Price: setmeal.Price}, nil
}

func translate(err error) error {
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogports.ErrNotFound) {
		return cartports.ErrProductNotFound
	}
	return err
}
