package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/platform/database"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists dishes and setmeals using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate creates or updates the dish and setmeal tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&dishRecord{}, &setmealRecord{})
}

type dishRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	CategoryID  int64           `gorm:"column:category_id;index:idx_dish_category_status"`
	Name        string          `gorm:"column:name;size:64;uniqueIndex"`
	Image       string          `gorm:"column:image;size:255"`
	Description string          `gorm:"column:description;size:255"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2)"`
	Status      int8            `gorm:"column:status;index:idx_dish_category_status"`
	Flavors     []domain.Flavor `gorm:"column:flavors;serializer:json"`
	CreateTime  time.Time       `gorm:"column:create_time;autoCreateTime"`
	UpdateTime  time.Time       `gorm:"column:update_time;autoUpdateTime"`
}

func (dishRecord) TableName() string { return "dish" }

// setmealRecord keeps the bundled dish ids as a Postgres array literal in a text
// column, which reads back the same on every supported dialect.
type setmealRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	CategoryID  int64           `gorm:"column:category_id;index:idx_setmeal_category_status"`
	Name        string          `gorm:"column:name;size:64;uniqueIndex"`
	Image       string          `gorm:"column:image;size:255"`
	Description string          `gorm:"column:description;size:255"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2)"`
	Status      int8            `gorm:"column:status;index:idx_setmeal_category_status"`
	DishIDs     pq.Int64Array   `gorm:"column:dish_ids;type:text"`
	CreateTime  time.Time       `gorm:"column:create_time;autoCreateTime"`
	UpdateTime  time.Time       `gorm:"column:update_time;autoUpdateTime"`
}

func (setmealRecord) TableName() string { return "setmeal" }

// SaveDish inserts a new dish or updates an existing one.
func (r *Repository) SaveDish(ctx context.Context, dish *domain.Dish) (*domain.Dish, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, errors.New("dish is nil")
	}
	record := toDishRecord(dish)
	if err := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"category_id", "name", "image", "description", "price", "status", "flavors", "update_time"}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetDish(ctx, record.ID)
}

func (r *Repository) GetDish(ctx context.Context, id int64) (*domain.Dish, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record dishRecord
	if err := database.Conn(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetDishes(ctx context.Context, ids []int64) ([]*domain.Dish, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.Dish{}, nil
	}
	var records []dishRecord
	if err := database.Conn(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	dishes := make([]*domain.Dish, 0, len(records))
	for i := range records {
		dishes = append(dishes, records[i].toDomain())
	}
	return dishes, nil
}

func (r *Repository) ListDishes(ctx context.Context, filter ports.ListFilter) ([]*domain.Dish, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := database.Conn(ctx, r.db)
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", int8(*filter.Status))
	}
	var records []dishRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	dishes := make([]*domain.Dish, 0, len(records))
	for i := range records {
		dishes = append(dishes, records[i].toDomain())
	}
	return dishes, nil
}

func (r *Repository) SetDishStatus(ctx context.Context, id int64, status domain.Status) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := database.Conn(ctx, r.db).Model(&dishRecord{}).Where("id = ?", id).Update("status", int8(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// SaveSetmeal inserts a new setmeal or updates an existing one.
func (r *Repository) SaveSetmeal(ctx context.Context, setmeal *domain.Setmeal) (*domain.Setmeal, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if setmeal == nil {
		return nil, errors.New("setmeal is nil")
	}
	record := toSetmealRecord(setmeal)
	if err := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"category_id", "name", "image", "description", "price", "status", "dish_ids", "update_time"}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetSetmeal(ctx, record.ID)
}

func (r *Repository) GetSetmeal(ctx context.Context, id int64) (*domain.Setmeal, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record setmealRecord
	if err := database.Conn(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListSetmeals(ctx context.Context, filter ports.ListFilter) ([]*domain.Setmeal, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := database.Conn(ctx, r.db)
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", int8(*filter.Status))
	}
	var records []setmealRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	setmeals := make([]*domain.Setmeal, 0, len(records))
	for i := range records {
		setmeals = append(setmeals, records[i].toDomain())
	}
	return setmeals, nil
}

func (r *Repository) SetSetmealStatus(ctx context.Context, id int64, status domain.Status) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := database.Conn(ctx, r.db).Model(&setmealRecord{}).Where("id = ?", id).Update("status", int8(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("catalog repository not configured")
	}
	return nil
}

func toDishRecord(d *domain.Dish) dishRecord {
	return dishRecord{
		ID:          d.ID,
		CategoryID:  d.CategoryID,
		Name:        d.Name,
		Image:       d.Image,
		Description: d.Description,
		Price:       d.Price,
		Status:      int8(d.Status),
		Flavors:     append([]domain.Flavor(nil), d.Flavors...),
	}
}

func (r dishRecord) toDomain() *domain.Dish {
	return &domain.Dish{
		ID:          r.ID,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Image:       r.Image,
		Description: r.Description,
		Price:       r.Price,
		Status:      domain.Status(r.Status),
		Flavors:     r.Flavors,
	}
}

func toSetmealRecord(s *domain.Setmeal) setmealRecord {
	return setmealRecord{
		ID:          s.ID,
		CategoryID:  s.CategoryID,
		Name:        s.Name,
		Image:       s.Image,
		Description: s.Description,
		Price:       s.Price,
		Status:      int8(s.Status),
		DishIDs:     pq.Int64Array(append([]int64(nil), s.DishIDs...)),
	}
}

func (r setmealRecord) toDomain() *domain.Setmeal {
	return &domain.Setmeal{
		ID:          r.ID,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Image:       r.Image,
		Description: r.Description,
		Price:       r.Price,
		Status:      domain.Status(r.Status),
		DishIDs:     []int64(r.DishIDs),
	}
}
