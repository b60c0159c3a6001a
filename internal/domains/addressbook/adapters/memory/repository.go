package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory address book adapter.
type Repository struct {
	mu        sync.RWMutex
	addresses map[int64]*domain.Address
	nextID    int64
}

func NewRepository() *Repository {
	return &Repository{addresses: map[int64]*domain.Address{}}
}

func (r *Repository) Save(_ context.Context, address *domain.Address) (*domain.Address, error) {
	if address == nil {
		return nil, errors.New("address is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := address.Clone()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.addresses[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) Get(_ context.Context, id int64) (*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	address, ok := r.addresses[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return address.Clone(), nil
}

func (r *Repository) ListByUser(_ context.Context, userID int64) ([]*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Address, 0)
	for _, address := range r.addresses {
		if address.UserID == userID {
			list = append(list, address.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
