package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
)

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, AutoMigrate(db))
	return db
}

func ptr(v int64) *int64 { return &v }

func TestRepository_FindAppliesOnlySuppliedFields(t *testing.T) {
	repo := NewRepository(setupSQLite(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	_, err := repo.Insert(ctx, &domain.Item{UserID: 1, Name: "Tofu", DishID: ptr(2), DishFlavor: "mild", Number: 1, Amount: decimal.RequireFromString("18.50"), CreateTime: now})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, &domain.Item{UserID: 1, Name: "Tofu", DishID: ptr(2), DishFlavor: "hot", Number: 1, Amount: decimal.RequireFromString("18.50"), CreateTime: now})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, &domain.Item{UserID: 1, Name: "Combo", SetmealID: ptr(10), Number: 1, Amount: decimal.NewFromInt(45), CreateTime: now})
	require.NoError(t, err)

	byFlavor, err := repo.Find(ctx, ports.Filter{UserID: 1, DishID: ptr(2), DishFlavor: "hot"})
	require.NoError(t, err)
	require.Len(t, byFlavor, 1)
	assert.Equal(t, "hot", byFlavor[0].DishFlavor)
	assert.True(t, byFlavor[0].Amount.Equal(decimal.RequireFromString("18.50")))

	byDish, err := repo.Find(ctx, ports.Filter{UserID: 1, DishID: ptr(2)})
	require.NoError(t, err)
	require.Len(t, byDish, 2)

	all, err := repo.Find(ctx, ports.Filter{UserID: 1})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Nil(t, all[2].DishID)
	assert.Equal(t, int64(10), *all[2].SetmealID)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	repo := NewRepository(setupSQLite(t))
	ctx := context.Background()

	saved, err := repo.Insert(ctx, &domain.Item{UserID: 4, Name: "Rice", DishID: ptr(3), Number: 1, Amount: decimal.NewFromInt(2)})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateNumber(ctx, saved.ID, 3))
	items, err := repo.Find(ctx, ports.Filter{UserID: 4})
	require.NoError(t, err)
	require.Equal(t, int32(3), items[0].Number)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	assert.ErrorIs(t, repo.Delete(ctx, saved.ID), ports.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateNumber(ctx, saved.ID, 1), ports.ErrNotFound)
}

func TestRepository_InsertBatchAndDeleteByUser(t *testing.T) {
	repo := NewRepository(setupSQLite(t))
	ctx := context.Background()

	require.NoError(t, repo.InsertBatch(ctx, []*domain.Item{
		{ID: 77, UserID: 8, Name: "A", DishID: ptr(1), Number: 2, Amount: decimal.NewFromInt(1)},
		{ID: 78, UserID: 8, Name: "B", DishID: ptr(2), Number: 1, Amount: decimal.NewFromInt(1)},
		{UserID: 9, Name: "C", DishID: ptr(1), Number: 1, Amount: decimal.NewFromInt(1)},
	}))

	items, err := repo.Find(ctx, ports.Filter{UserID: 8})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.NotEqual(t, int64(77), items[0].ID)

	require.NoError(t, repo.DeleteByUser(ctx, 8))
	items, err = repo.Find(ctx, ports.Filter{UserID: 8})
	require.NoError(t, err)
	assert.Empty(t, items)

	others, err := repo.Find(ctx, ports.Filter{UserID: 9})
	require.NoError(t, err)
	assert.Len(t, others, 1)
}
