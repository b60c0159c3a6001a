package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog persistence adapter.
type Repository struct {
	mu            sync.RWMutex
	dishes        map[int64]*domain.Dish
	setmeals      map[int64]*domain.Setmeal
	nextDishID    int64
	nextSetmealID int64
}

func NewRepository() *Repository {
	return &Repository{dishes: map[int64]*domain.Dish{}, setmeals: map[int64]*domain.Setmeal{}}
}

func (r *Repository) SaveDish(_ context.Context, dish *domain.Dish) (*domain.Dish, error) {
	if dish == nil {
		return nil, errors.New("dish is nil")
	}
	clone := cloneDish(dish)
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextDishID++
		clone.ID = r.nextDishID
	} else if clone.ID > r.nextDishID {
		r.nextDishID = clone.ID
	}
	r.dishes[clone.ID] = clone
	return cloneDish(clone), nil
}

func (r *Repository) GetDish(_ context.Context, id int64) (*domain.Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dish, ok := r.dishes[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneDish(dish), nil
}

func (r *Repository) GetDishes(_ context.Context, ids []int64) ([]*domain.Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[int64]bool{}
	list := make([]*domain.Dish, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if dish, ok := r.dishes[id]; ok {
			list = append(list, cloneDish(dish))
		}
	}
	return list, nil
}

func (r *Repository) ListDishes(_ context.Context, filter ports.ListFilter) ([]*domain.Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Dish, 0)
	for _, dish := range r.dishes {
		if filter.CategoryID != 0 && dish.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Status != nil && dish.Status != *filter.Status {
			continue
		}
		list = append(list, cloneDish(dish))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) SetDishStatus(_ context.Context, id int64, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dish, ok := r.dishes[id]
	if !ok {
		return ports.ErrNotFound
	}
	dish.Status = status
	return nil
}

func (r *Repository) SaveSetmeal(_ context.Context, setmeal *domain.Setmeal) (*domain.Setmeal, error) {
	if setmeal == nil {
		return nil, errors.New("setmeal is nil")
	}
	clone := cloneSetmeal(setmeal)
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextSetmealID++
		clone.ID = r.nextSetmealID
	} else if clone.ID > r.nextSetmealID {
		r.nextSetmealID = clone.ID
	}
	r.setmeals[clone.ID] = clone
	return cloneSetmeal(clone), nil
}

func (r *Repository) GetSetmeal(_ context.Context, id int64) (*domain.Setmeal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	setmeal, ok := r.setmeals[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneSetmeal(setmeal), nil
}

func (r *Repository) ListSetmeals(_ context.Context, filter ports.ListFilter) ([]*domain.Setmeal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Setmeal, 0)
	for _, setmeal := range r.setmeals {
		if filter.CategoryID != 0 && setmeal.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Status != nil && setmeal.Status != *filter.Status {
			continue
		}
		list = append(list, cloneSetmeal(setmeal))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) SetSetmealStatus(_ context.Context, id int64, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	setmeal, ok := r.setmeals[id]
	if !ok {
		return ports.ErrNotFound
	}
	setmeal.Status = status
	return nil
}

func cloneDish(d *domain.Dish) *domain.Dish {
	c := *d
	c.Flavors = append([]domain.Flavor(nil), d.Flavors...)
	return &c
}

func cloneSetmeal(s *domain.Setmeal) *domain.Setmeal {
	c := *s
	c.DishIDs = append([]int64(nil), s.DishIDs...)
	return &c
}
