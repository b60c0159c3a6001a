package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type counterRecord struct {
	ID    int64 `gorm:"primaryKey"`
	Value int
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&counterRecord{}))
	return db
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	db := openSQLite(t)
	runner := NewTxRunner(db)
	boom := errors.New("boom")

	err := runner.InTx(context.Background(), func(ctx context.Context) error {
		require.NoError(t, Conn(ctx, db).Create(&counterRecord{Value: 1}).Error)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&counterRecord{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestTxRunner_CommitsAndJoinsNested(t *testing.T) {
	db := openSQLite(t)
	runner := NewTxRunner(db)

	err := runner.InTx(context.Background(), func(ctx context.Context) error {
		if err := Conn(ctx, db).Create(&counterRecord{Value: 1}).Error; err != nil {
			return err
		}
		return runner.InTx(ctx, func(inner context.Context) error {
			return Conn(inner, db).Create(&counterRecord{Value: 2}).Error
		})
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&counterRecord{}).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestConnect_RejectsUnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), "oracle", "dsn")
	require.Error(t, err)
}
