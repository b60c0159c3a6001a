package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
)

var (
	// ErrInvalidSelection signals a selection with both or neither of dish and setmeal ids.
	ErrInvalidSelection = errors.New("invalid cart selection")
	// ErrItemNotFound signals the selected dish or setmeal does not exist.
	ErrItemNotFound = errors.New("cart item not found in catalog")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrAmbiguousSelection) || errors.Is(err, domain.ErrInvalidNumber) {
		return fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	if errors.Is(err, ports.ErrProductNotFound) {
		return fmt.Errorf("%w: %w", ErrItemNotFound, err)
	}
	return err
}
