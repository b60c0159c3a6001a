package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/ports"
)

const (
	dishKeyPrefix    = "dish_"
	setmealKeyPrefix = "setmeal_"
	defaultCacheTTL  = 30 * time.Minute
)

// DishCacheKey is the cache key of the on-sale dish listing of a category.
func DishCacheKey(categoryID int64) string { return fmt.Sprintf("%s%d", dishKeyPrefix, categoryID) }

// SetmealCacheKey is the cache key of the on-sale setmeal listing of a category.
func SetmealCacheKey(categoryID int64) string {
	return fmt.Sprintf("%s%d", setmealKeyPrefix, categoryID)
}

// Eviction patterns for catalog writes.
const (
	DishCachePattern    = dishKeyPrefix + "*"
	SetmealCachePattern = setmealKeyPrefix + "*"
)

// Service orchestrates catalog use cases and keeps the listing cache coherent on writes.
type Service struct {
	repo   ports.Repository
	cache  ports.Cache
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*Service)

// WithCache enables read-through caching of category listings.
func WithCache(cache ports.Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger used to report cache failures, which never fail a request.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, ttl: defaultCacheTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) CreateDish(ctx context.Context, dish *domain.Dish) (*domain.Dish, error) {
	if dish == nil {
		return nil, errors.New("dish is nil")
	}
	dish.ID = 0
	if err := dish.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveDish(ctx, dish)
	if err != nil {
		return nil, mapError(err)
	}
	s.evict(ctx, DishCachePattern)
	return saved, nil
}

func (s *Service) UpdateDish(ctx context.Context, dish *domain.Dish) (*domain.Dish, error) {
	if dish == nil {
		return nil, errors.New("dish is nil")
	}
	if _, err := s.repo.GetDish(ctx, dish.ID); err != nil {
		return nil, mapError(err)
	}
	if err := dish.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveDish(ctx, dish)
	if err != nil {
		return nil, mapError(err)
	}
	s.evict(ctx, DishCachePattern)
	return saved, nil
}

func (s *Service) SetDishStatus(ctx context.Context, id int64, status domain.Status) error {
	if !status.Valid() {
		return mapError(domain.ErrInvalidStatus)
	}
	if err := s.repo.SetDishStatus(ctx, id, status); err != nil {
		return mapError(err)
	}
	s.evict(ctx, DishCachePattern)
	return nil
}

func (s *Service) GetDish(ctx context.Context, id int64) (*domain.Dish, error) {
	dish, err := s.repo.GetDish(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return dish, nil
}

func (s *Service) ListDishes(ctx context.Context, categoryID int64) ([]*domain.Dish, error) {
	key := DishCacheKey(categoryID)
	var cached []*domain.Dish
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}
	enabled := domain.StatusEnabled
	dishes, err := s.repo.ListDishes(ctx, ports.ListFilter{CategoryID: categoryID, Status: &enabled})
	if err != nil {
		return nil, mapError(err)
	}
	s.store(ctx, key, dishes)
	return dishes, nil
}

func (s *Service) CreateSetmeal(ctx context.Context, setmeal *domain.Setmeal) (*domain.Setmeal, error) {
	if setmeal == nil {
		return nil, errors.New("setmeal is nil")
	}
	setmeal.ID = 0
	if err := setmeal.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveSetmeal(ctx, setmeal)
	if err != nil {
		return nil, mapError(err)
	}
	s.evict(ctx, SetmealCachePattern)
	return saved, nil
}

func (s *Service) UpdateSetmeal(ctx context.Context, setmeal *domain.Setmeal) (*domain.Setmeal, error) {
	if setmeal == nil {
		return nil, errors.New("setmeal is nil")
	}
	if _, err := s.repo.GetSetmeal(ctx, setmeal.ID); err != nil {
		return nil, mapError(err)
	}
	if err := setmeal.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveSetmeal(ctx, setmeal)
	if err != nil {
		return nil, mapError(err)
	}
	s.evict(ctx, SetmealCachePattern)
	return saved, nil
}

// SetSetmealStatus refuses to enable a setmeal while any bundled dish is stopped or missing.
func (s *Service) SetSetmealStatus(ctx context.Context, id int64, status domain.Status) error {
	if !status.Valid() {
		return mapError(domain.ErrInvalidStatus)
	}
	if status == domain.StatusEnabled {
		setmeal, err := s.repo.GetSetmeal(ctx, id)
		if err != nil {
			return mapError(err)
		}
		dishes, err := s.repo.GetDishes(ctx, setmeal.DishIDs)
		if err != nil {
			return mapError(err)
		}
		if len(dishes) != len(uniqueIDs(setmeal.DishIDs)) {
			return ErrSetmealEnableFailed
		}
		for _, dish := range dishes {
			if dish.Status != domain.StatusEnabled {
				return fmt.Errorf("%w: dish %d", ErrSetmealEnableFailed, dish.ID)
			}
		}
	}
	if err := s.repo.SetSetmealStatus(ctx, id, status); err != nil {
		return mapError(err)
	}
	s.evict(ctx, SetmealCachePattern)
	return nil
}

func (s *Service) GetSetmeal(ctx context.Context, id int64) (*domain.Setmeal, error) {
	setmeal, err := s.repo.GetSetmeal(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return setmeal, nil
}

func (s *Service) ListSetmeals(ctx context.Context, categoryID int64) ([]*domain.Setmeal, error) {
	key := SetmealCacheKey(categoryID)
	var cached []*domain.Setmeal
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}
	enabled := domain.StatusEnabled
	setmeals, err := s.repo.ListSetmeals(ctx, ports.ListFilter{CategoryID: categoryID, Status: &enabled})
	if err != nil {
		return nil, mapError(err)
	}
	s.store(ctx, key, setmeals)
	return setmeals, nil
}

func (s *Service) lookup(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.warn(ctx, "catalog cache read failed", key, err)
		return false
	}
	return ok
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.warn(ctx, "catalog cache write failed", key, err)
	}
}

func (s *Service) evict(ctx context.Context, pattern string) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.warn(ctx, "catalog cache eviction failed", pattern, err)
	}
}

func (s *Service) warn(ctx context.Context, msg, key string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, slog.String("cache.key", key), slog.String("error", err.Error()))
}

func uniqueIDs(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

var _ ports.Service = (*Service)(nil)
