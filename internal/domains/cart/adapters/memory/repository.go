package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory cart persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	items  map[int64]*domain.Item
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{items: map[int64]*domain.Item{}}
}

// Find returns matching lines in insertion order.
func (r *Repository) Find(_ context.Context, filter ports.Filter) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Item, 0)
	for _, item := range r.items {
		if filter.Matches(item) {
			list = append(list, item.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) Insert(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, errors.New("cart item is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(item), nil
}

func (r *Repository) InsertBatch(_ context.Context, items []*domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		if item != nil {
			r.insertLocked(item)
		}
	}
	return nil
}

func (r *Repository) UpdateNumber(_ context.Context, id int64, number int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return ports.ErrNotFound
	}
	item.Number = number
	return nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) DeleteByUser(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.items {
		if item.UserID == userID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *Repository) insertLocked(item *domain.Item) *domain.Item {
	clone := item.Clone()
	r.nextID++
	clone.ID = r.nextID
	r.items[clone.ID] = clone
	return clone.Clone()
}
