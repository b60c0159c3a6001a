package application

import (
	"context"
	"time"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/identity"
)

// Service orchestrates the cart use cases of the requesting user.
type Service struct {
	repo    ports.Repository
	catalog ports.Catalog
	now     func() time.Time
}

// Option customizes the service.
type Option func(*Service)

// WithClock overrides the time source used for create times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{repo: repo, catalog: catalog, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Add increments the matching line or snapshots a new one from the catalog.
// Merge-or-insert is not guarded against concurrent adds of the same selection.
func (s *Service) Add(ctx context.Context, sel domain.Selection) (*domain.Item, error) {
	userID, err := identity.UserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := sel.Validate(); err != nil {
		return nil, mapError(err)
	}
	existing, err := s.repo.Find(ctx, ports.FilterFor(userID, sel))
	if err != nil {
		return nil, mapError(err)
	}
	if len(existing) > 0 {
		item := existing[0]
		item.Increment()
		if err := s.repo.UpdateNumber(ctx, item.ID, item.Number); err != nil {
			return nil, mapError(err)
		}
		return item, nil
	}
	product, err := s.lookup(ctx, sel)
	if err != nil {
		return nil, mapError(err)
	}
	item, err := domain.NewItem(userID, sel, product.Name, product.Image, product.Price, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Insert(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// List returns the current user's cart lines.
func (s *Service) List(ctx context.Context) ([]*domain.Item, error) {
	userID, err := identity.UserID(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Find(ctx, ports.Filter{UserID: userID})
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// Remove decrements the matching line, deleting it at quantity one. A missing line is a no-op.
func (s *Service) Remove(ctx context.Context, sel domain.Selection) error {
	userID, err := identity.UserID(ctx)
	if err != nil {
		return err
	}
	if err := sel.Validate(); err != nil {
		return mapError(err)
	}
	existing, err := s.repo.Find(ctx, ports.FilterFor(userID, sel))
	if err != nil {
		return mapError(err)
	}
	if len(existing) == 0 {
		return nil
	}
	item := existing[0]
	if item.Decrement() {
		return mapError(s.repo.Delete(ctx, item.ID))
	}
	return mapError(s.repo.UpdateNumber(ctx, item.ID, item.Number))
}

// Clear empties the current user's cart.
func (s *Service) Clear(ctx context.Context) error {
	userID, err := identity.UserID(ctx)
	if err != nil {
		return err
	}
	return mapError(s.repo.DeleteByUser(ctx, userID))
}

// Restore inserts copies of items into the current user's cart with fresh ids and create times.
func (s *Service) Restore(ctx context.Context, items []*domain.Item) error {
	userID, err := identity.UserID(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	now := s.now()
	copies := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if item.Number <= 0 {
			return mapError(domain.ErrInvalidNumber)
		}
		c := item.Clone()
		c.ID = 0
		c.UserID = userID
		c.CreateTime = now
		copies = append(copies, c)
	}
	return mapError(s.repo.InsertBatch(ctx, copies))
}

func (s *Service) lookup(ctx context.Context, sel domain.Selection) (ports.Product, error) {
	if sel.DishID != nil {
		return s.catalog.Dish(ctx, *sel.DishID)
	}
	return s.catalog.Setmeal(ctx, *sel.SetmealID)
}

var _ ports.Service = (*Service)(nil)
