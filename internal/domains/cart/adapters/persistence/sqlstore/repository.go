package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/platform/database"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists cart lines in the relational store using GORM.
// Calls join the transaction carried by the context, if any.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate creates or updates the shopping_cart table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&itemRecord{})
}

// itemRecord maps a cart line to the shopping_cart table.
type itemRecord struct {
	ID         int64           `gorm:"primaryKey;column:id"`
	UserID     int64           `gorm:"column:user_id;index:idx_shopping_cart_user"`
	Name       string          `gorm:"column:name;size:64"`
	Image      string          `gorm:"column:image;size:255"`
	DishID     *int64          `gorm:"column:dish_id"`
	SetmealID  *int64          `gorm:"column:setmeal_id"`
	DishFlavor string          `gorm:"column:dish_flavor;size:64"`
	Number     int32           `gorm:"column:number"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(10,2)"`
	CreateTime time.Time       `gorm:"column:create_time"`
}

func (itemRecord) TableName() string { return "shopping_cart" }

// Find applies only the filter fields that are set, ordered by id.
func (r *Repository) Find(ctx context.Context, filter ports.Filter) ([]*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := database.Conn(ctx, r.db).Where("user_id = ?", filter.UserID)
	if filter.DishID != nil {
		query = query.Where("dish_id = ?", *filter.DishID)
	}
	if filter.SetmealID != nil {
		query = query.Where("setmeal_id = ?", *filter.SetmealID)
	}
	if filter.DishFlavor != "" {
		query = query.Where("dish_flavor = ?", filter.DishFlavor)
	}
	var records []itemRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.Item, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func (r *Repository) Insert(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("cart item is nil")
	}
	record := toRecord(item)
	record.ID = 0
	if err := database.Conn(ctx, r.db).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) InsertBatch(ctx context.Context, items []*domain.Item) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	records := make([]itemRecord, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		rec := toRecord(item)
		rec.ID = 0
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Create(&records).Error
}

func (r *Repository) UpdateNumber(ctx context.Context, id int64, number int32) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := database.Conn(ctx, r.db).Model(&itemRecord{}).Where("id = ?", id).Update("number", number)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := database.Conn(ctx, r.db).Delete(&itemRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteByUser(ctx context.Context, userID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return database.Conn(ctx, r.db).Where("user_id = ?", userID).Delete(&itemRecord{}).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("cart repository not configured")
	}
	return nil
}

func toRecord(item *domain.Item) itemRecord {
	return itemRecord{
		ID:         item.ID,
		UserID:     item.UserID,
		Name:       item.Name,
		Image:      item.Image,
		DishID:     item.DishID,
		SetmealID:  item.SetmealID,
		DishFlavor: item.DishFlavor,
		Number:     item.Number,
		Amount:     item.Amount,
		CreateTime: item.CreateTime,
	}
}

func (r itemRecord) toDomain() *domain.Item {
	return &domain.Item{
		ID:         r.ID,
		UserID:     r.UserID,
		Name:       r.Name,
		Image:      r.Image,
		DishID:     r.DishID,
		SetmealID:  r.SetmealID,
		DishFlavor: r.DishFlavor,
		Number:     r.Number,
		Amount:     r.Amount,
		CreateTime: r.CreateTime,
	}
}
