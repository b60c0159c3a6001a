package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
)

var (
	ErrAddressNotFound         = errors.New("address book entry not found")
	ErrEmptyCart               = errors.New("shopping cart is empty")
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatusForCancel  = errors.New("order cannot be cancelled in its current status")
	ErrInvalidStatusForReject  = errors.New("order cannot be rejected in its current status")
	ErrInvalidStatusForPayment = errors.New("order cannot be paid in its current status")
	ErrInvalidInput            = errors.New("invalid order input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	case errors.Is(err, ports.ErrAddressNotFound):
		return fmt.Errorf("%w: %w", ErrAddressNotFound, err)
	case errors.Is(err, domain.ErrInvalidStatusForCancel):
		return fmt.Errorf("%w: %w", ErrInvalidStatusForCancel, err)
	case errors.Is(err, domain.ErrInvalidStatusForReject):
		return fmt.Errorf("%w: %w", ErrInvalidStatusForReject, err)
	case errors.Is(err, domain.ErrInvalidStatusForPayment):
		return fmt.Errorf("%w: %w", ErrInvalidStatusForPayment, err)
	case errors.Is(err, domain.ErrInvalidAmount):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
