package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/ports"
)

var (
	// ErrInvalidInput signals the request violated a catalog invariant.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrNotFound signals the dish or setmeal does not exist.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrSetmealEnableFailed signals a setmeal cannot go on sale while one of its dishes is stopped.
	ErrSetmealEnableFailed = errors.New("setmeal contains dishes that are not on sale")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidCategory) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
