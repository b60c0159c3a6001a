package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/ports"
)

var (
	ErrInvalidInput = errors.New("invalid address")
	ErrNotFound     = errors.New("address not found")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, domain.ErrMissingConsignee) || errors.Is(err, domain.ErrMissingPhone) || errors.Is(err, domain.ErrMissingDetail) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
