// Package addressbook resolves order delivery addresses from the address book context.
package addressbook

import (
	"context"
	"errors"

	addressapp "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/application"
	addressports "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/ports"
	orderports "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
)

var _ orderports.AddressBook = (*Adapter)(nil)

type Adapter struct {
	addresses addressports.Service
}

func New(addresses addressports.Service) *Adapter {
	return &Adapter{addresses: addresses}
}

// Lookup snapshots consignee, phone and the composed address string.
func (a *Adapter) Lookup(ctx context.Context, id int64) (orderports.Address, error) {
	entry, err := a.addresses.Get(ctx, id)
	if err != nil {
		if errors.Is(err, addressapp.ErrNotFound) || errors.Is(err, addressports.ErrNotFound) {
			return orderports.Address{}, orderports.ErrAddressNotFound
		}
		return orderports.Address{}, err
	}
	return orderports.Address{
		Consignee: entry.Consignee,
		Phone:     entry.Phone,
		Address:   entry.FullAddress(),
	}, nil
}
