package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/ports"
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

func TestRepository_SaveGetList(t *testing.T) {
	repo := NewRepository(setupSQLite(t))
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Address{UserID: 7, Consignee: "Wang", Phone: "13800000000", CityName: "Beijing", Detail: "Room 5", IsDefault: true})
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "BeijingRoom 5", got.FullAddress())
	assert.True(t, got.IsDefault)

	list, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
