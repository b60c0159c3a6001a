package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/adapters/memory"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/identity"
)

type fakeCatalog struct {
	dishes   map[int64]ports.Product
	setmeals map[int64]ports.Product
	lookups  int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		dishes: map[int64]ports.Product{
			1: {Name: "Kung Pao Chicken", Image: "kp.png", Price: decimal.RequireFromString("28.00")},
			2: {Name: "Mapo Tofu", Image: "mapo.png", Price: decimal.RequireFromString("18.50")},
		},
		setmeals: map[int64]ports.Product{
			10: {Name: "Lunch Combo", Image: "combo.png", Price: decimal.RequireFromString("45.00")},
		},
	}
}

func (f *fakeCatalog) Dish(_ context.Context, id int64) (ports.Product, error) {
	f.lookups++
	p, ok := f.dishes[id]
	if !ok {
		return ports.Product{}, ports.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeCatalog) Setmeal(_ context.Context, id int64) (ports.Product, error) {
	f.lookups++
	p, ok := f.setmeals[id]
	if !ok {
		return ports.Product{}, ports.ErrProductNotFound
	}
	return p, nil
}

func ptr(v int64) *int64 { return &v }

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *cartmemory.Repository, *fakeCatalog) {
	repo := cartmemory.NewRepository()
	catalog := newFakeCatalog()
	svc := NewService(repo, catalog, WithClock(func() time.Time { return fixedNow }))
	return svc, repo, catalog
}

func userCtx(id int64) context.Context {
	return identity.WithUserID(context.Background(), id)
}

func TestAdd_SameDishAndFlavorTwiceMerges(t *testing.T) {
	svc, _, catalog := newTestService()
	ctx := userCtx(7)
	sel := domain.Selection{DishID: ptr(1), DishFlavor: "extra spicy"}

	_, err := svc.Add(ctx, sel)
	require.NoError(t, err)
	_, err = svc.Add(ctx, sel)
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int32(2), items[0].Number)
	require.Equal(t, "Kung Pao Chicken", items[0].Name)
	require.True(t, items[0].Amount.Equal(decimal.RequireFromString("28.00")))
	require.Equal(t, fixedNow, items[0].CreateTime)
	require.Equal(t, 1, catalog.lookups)
}

func TestAdd_DifferentFlavorCreatesNewLine(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := userCtx(7)

	_, err := svc.Add(ctx, domain.Selection{DishID: ptr(1), DishFlavor: "mild"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, domain.Selection{DishID: ptr(1), DishFlavor: "hot"})
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestAdd_CartsAreScopedPerUser(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Add(userCtx(1), domain.Selection{SetmealID: ptr(10)})
	require.NoError(t, err)
	_, err = svc.Add(userCtx(2), domain.Selection{SetmealID: ptr(10)})
	require.NoError(t, err)

	items, err := svc.List(userCtx(1))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int32(1), items[0].Number)
}

func TestAdd_InvalidSelection(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Add(userCtx(1), domain.Selection{})
	require.ErrorIs(t, err, ErrInvalidSelection)

	_, err = svc.Add(userCtx(1), domain.Selection{DishID: ptr(1), SetmealID: ptr(10)})
	require.ErrorIs(t, err, ErrInvalidSelection)
}

func TestAdd_UnknownDish(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Add(userCtx(1), domain.Selection{DishID: ptr(404)})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestAdd_RequiresIdentity(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Add(context.Background(), domain.Selection{DishID: ptr(1)})
	require.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestRemove_DecrementsThenDeletes(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := userCtx(3)
	sel := domain.Selection{DishID: ptr(2)}

	for i := 0; i < 3; i++ {
		_, err := svc.Add(ctx, sel)
		require.NoError(t, err)
	}

	require.NoError(t, svc.Remove(ctx, sel))
	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int32(2), items[0].Number)

	require.NoError(t, svc.Remove(ctx, sel))
	require.NoError(t, svc.Remove(ctx, sel))
	items, err = svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestRemove_MissingIsNoop(t *testing.T) {
	svc, _, _ := newTestService()
	require.NoError(t, svc.Remove(userCtx(3), domain.Selection{DishID: ptr(2)}))
}

func TestClear_OnlyTouchesCurrentUser(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Add(userCtx(1), domain.Selection{DishID: ptr(1)})
	require.NoError(t, err)
	_, err = svc.Add(userCtx(2), domain.Selection{DishID: ptr(1)})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(userCtx(1)))

	mine, err := svc.List(userCtx(1))
	require.NoError(t, err)
	require.Empty(t, mine)
	theirs, err := svc.List(userCtx(2))
	require.NoError(t, err)
	require.Len(t, theirs, 1)
}

func TestRestore_AssignsFreshIdentity(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := userCtx(5)
	source := []*domain.Item{
		{ID: 900, UserID: 1, Name: "Kung Pao Chicken", DishID: ptr(1), Number: 2, Amount: decimal.NewFromInt(28), CreateTime: fixedNow.Add(-48 * time.Hour)},
		{ID: 901, UserID: 1, Name: "Lunch Combo", SetmealID: ptr(10), Number: 1, Amount: decimal.NewFromInt(45)},
	}

	require.NoError(t, svc.Restore(ctx, source))

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		require.Equal(t, int64(5), item.UserID)
		require.Equal(t, fixedNow, item.CreateTime)
		require.NotEqual(t, int64(900), item.ID)
		require.NotEqual(t, int64(901), item.ID)
	}
	require.Equal(t, int32(2), items[0].Number)
	require.Equal(t, int32(1), items[1].Number)
	require.Equal(t, int64(1), source[0].UserID)
}
