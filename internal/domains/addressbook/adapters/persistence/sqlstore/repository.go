package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/platform/database"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists addresses using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate creates or updates the address_book table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&addressRecord{})
}

type addressRecord struct {
	ID           int64  `gorm:"primaryKey;column:id"`
	UserID       int64  `gorm:"column:user_id;index:idx_address_book_user"`
	Consignee    string `gorm:"column:consignee;size:50"`
	Sex          string `gorm:"column:sex;size:2"`
	Phone        string `gorm:"column:phone;size:11"`
	ProvinceName string `gorm:"column:province_name;size:32"`
	CityName     string `gorm:"column:city_name;size:32"`
	DistrictName string `gorm:"column:district_name;size:32"`
	Detail       string `gorm:"column:detail;size:200"`
	Label        string `gorm:"column:label;size:100"`
	IsDefault    bool   `gorm:"column:is_default"`
}

func (addressRecord) TableName() string { return "address_book" }

func (r *Repository) Save(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if address == nil {
		return nil, errors.New("address is nil")
	}
	record := toRecord(address)
	if err := database.Conn(ctx, r.db).Save(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Address, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record addressRecord
	if err := database.Conn(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Address, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []addressRecord
	if err := database.Conn(ctx, r.db).Where("user_id = ?", userID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Address, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("address book repository not configured")
	}
	return nil
}

func toRecord(a *domain.Address) addressRecord {
	return addressRecord{
		ID:           a.ID,
		UserID:       a.UserID,
		Consignee:    a.Consignee,
		Sex:          a.Sex,
		Phone:        a.Phone,
		ProvinceName: a.ProvinceName,
		CityName:     a.CityName,
		DistrictName: a.DistrictName,
		Detail:       a.Detail,
		Label:        a.Label,
		IsDefault:    a.IsDefault,
	}
}

func (r addressRecord) toDomain() *domain.Address {
	return &domain.Address{
		ID:           r.ID,
		UserID:       r.UserID,
		Consignee:    r.Consignee,
		Sex:          r.Sex,
		Phone:        r.Phone,
		ProvinceName: r.ProvinceName,
		CityName:     r.CityName,
		DistrictName: r.DistrictName,
		Detail:       r.Detail,
		Label:        r.Label,
		IsDefault:    r.IsDefault,
	}
}
