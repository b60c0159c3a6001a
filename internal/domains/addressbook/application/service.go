package application

import (
	"context"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/identity"
)

// Service manages the current user's delivery addresses.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Add stores a new address for the current user.
func (s *Service) Add(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	userID, err := identity.UserID(ctx)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, mapError(domain.ErrMissingConsignee)
	}
	if err := address.Validate(); err != nil {
		return nil, mapError(err)
	}
	entry := address.Clone()
	entry.ID = 0
	entry.UserID = userID
	saved, err := s.repo.Save(ctx, entry)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Address, error) {
	userID, err := identity.UserID(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}
	return list, nil
}

// Get looks an address up by id. Ownership is not checked; order submission relies on this.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Address, error) {
	address, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return address, nil
}

var _ ports.Service = (*Service)(nil)
