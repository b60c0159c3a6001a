package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/projection"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/tx"
)

var (
	_ ports.Repository = (*Repository)(nil)
	_ tx.Runner        = (*Repository)(nil)
)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu           sync.RWMutex
	orders       map[int64]*domain.Order
	nextID       int64
	nextDetailID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := order.Clone()
	r.nextID++
	clone.ID = r.nextID
	for _, d := range clone.Details {
		r.nextDetailID++
		d.ID = r.nextDetailID
		d.OrderID = clone.ID
	}
	r.orders[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) GetByNumber(_ context.Context, userID int64, number string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.UserID == userID && order.Number == number {
			return order.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

// Update replaces everything but the stored details.
func (r *Repository) Update(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.orders[order.ID]
	if !ok {
		return ports.ErrNotFound
	}
	clone := order.Clone()
	clone.Details = existing.Details
	r.orders[order.ID] = clone
	return nil
}

// InTx restores the orders held before fn when fn fails. Writes made by
// concurrent callers while fn runs are discarded with it.
func (r *Repository) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.RLock()
	snapshot := make(map[int64]*domain.Order, len(r.orders))
	for id, order := range r.orders {
		snapshot[id] = order.Clone()
	}
	r.mu.RUnlock()

	if err := fn(ctx); err != nil {
		r.mu.Lock()
		r.orders = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *Repository) Page(_ context.Context, query ports.Query) (projection.Page[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*domain.Order, 0)
	for _, order := range r.orders {
		if matches(query, order) {
			matched = append(matched, order)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].OrderTime.Equal(matched[j].OrderTime) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].OrderTime.After(matched[j].OrderTime)
	})
	start, end := query.PageRequest.Window(len(matched))
	records := make([]*domain.Order, 0, end-start)
	for _, order := range matched[start:end] {
		records = append(records, order.Clone())
	}
	return projection.Page[*domain.Order]{Total: int64(len(matched)), Records: records}, nil
}

func (r *Repository) CountByStatus(_ context.Context, statuses ...domain.Status) (map[domain.Status]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[domain.Status]int64, len(statuses))
	for _, status := range statuses {
		counts[status] = 0
	}
	for _, order := range r.orders {
		if _, ok := counts[order.Status]; ok {
			counts[order.Status]++
		}
	}
	return counts, nil
}

func matches(q ports.Query, o *domain.Order) bool {
	if q.UserID != 0 && o.UserID != q.UserID {
		return false
	}
	if q.Number != "" && !strings.Contains(o.Number, q.Number) {
		return false
	}
	if q.Phone != "" && !strings.Contains(o.Phone, q.Phone) {
		return false
	}
	if q.Status != nil && o.Status != *q.Status {
		return false
	}
	if q.Begin != nil && o.OrderTime.Before(*q.Begin) {
		return false
	}
	if q.End != nil && o.OrderTime.After(*q.End) {
		return false
	}
	return true
}
