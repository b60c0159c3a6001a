package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/platform/database"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their details using GORM. Calls join the
// transaction carried by the context, if any.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate creates or updates the orders and order_detail tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderRecord{}, &detailRecord{})
}

type orderRecord struct {
	ID                    int64           `gorm:"primaryKey;column:id"`
	Number                string          `gorm:"column:number;size:50;uniqueIndex"`
	Status                int             `gorm:"column:status;index:idx_orders_status"`
	UserID                int64           `gorm:"column:user_id;index:idx_orders_user"`
	AddressBookID         int64           `gorm:"column:address_book_id"`
	OrderTime             time.Time       `gorm:"column:order_time;index:idx_orders_order_time"`
	CheckoutTime          *time.Time      `gorm:"column:checkout_time"`
	PayMethod             int             `gorm:"column:pay_method"`
	PayStatus             int             `gorm:"column:pay_status"`
	Amount                decimal.Decimal `gorm:"column:amount;type:decimal(10,2)"`
	Remark                string          `gorm:"column:remark;size:100"`
	Phone                 string          `gorm:"column:phone;size:11"`
	Address               string          `gorm:"column:address;size:255"`
	Consignee             string          `gorm:"column:consignee;size:32"`
	CancelReason          string          `gorm:"column:cancel_reason;size:255"`
	RejectionReason       string          `gorm:"column:rejection_reason;size:255"`
	CancelTime            *time.Time      `gorm:"column:cancel_time"`
	EstimatedDeliveryTime *time.Time      `gorm:"column:estimated_delivery_time"`
	DeliveryStatus        int             `gorm:"column:delivery_status"`
	DeliveryTime          *time.Time      `gorm:"column:delivery_time"`
	PackAmount            int             `gorm:"column:pack_amount"`
	TablewareNumber       int             `gorm:"column:tableware_number"`
	TablewareStatus       int             `gorm:"column:tableware_status"`
}

func (orderRecord) TableName() string { return "orders" }

type detailRecord struct {
	ID         int64           `gorm:"primaryKey;column:id"`
	OrderID    int64           `gorm:"column:order_id;index:idx_order_detail_order"`
	Name       string          `gorm:"column:name;size:32"`
	Image      string          `gorm:"column:image;size:255"`
	DishID     *int64          `gorm:"column:dish_id"`
	SetmealID  *int64          `gorm:"column:setmeal_id"`
	DishFlavor string          `gorm:"column:dish_flavor;size:50"`
	Number     int32           `gorm:"column:number"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(10,2)"`
}

func (detailRecord) TableName() string { return "order_detail" }

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	conn := database.Conn(ctx, r.db)
	record := toRecord(order)
	record.ID = 0
	if err := conn.Create(&record).Error; err != nil {
		return nil, err
	}
	details := make([]detailRecord, 0, len(order.Details))
	for _, d := range order.Details {
		dr := toDetailRecord(d)
		dr.ID = 0
		dr.OrderID = record.ID
		details = append(details, dr)
	}
	if len(details) > 0 {
		if err := conn.Create(&details).Error; err != nil {
			return nil, err
		}
	}
	return record.toDomain(details), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByNumber(ctx context.Context, userID int64, number string) (*domain.Order, error) {
	return r.first(ctx, "user_id = ? AND number = ?", userID, number)
}

func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if order == nil {
		return errors.New("order is nil")
	}
	conn := database.Conn(ctx, r.db)
	result := conn.Model(&orderRecord{}).Where("id = ?", order.ID).Updates(map[string]any{
		"status":           int(order.Status),
		"pay_status":       int(order.PayStatus),
		"pay_method":       order.PayMethod,
		"checkout_time":    order.CheckoutTime,
		"cancel_reason":    order.CancelReason,
		"rejection_reason": order.RejectionReason,
		"cancel_time":      order.CancelTime,
		"delivery_time":    order.DeliveryTime,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	// MySQL reports zero affected rows when nothing changed.
	var n int64
	if err := conn.Model(&orderRecord{}).Where("id = ?", order.ID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) Page(ctx context.Context, query ports.Query) (projection.Page[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return projection.Page[*domain.Order]{}, err
	}
	conn := database.Conn(ctx, r.db)
	filtered := func() *gorm.DB {
		q := conn.Model(&orderRecord{})
		if query.UserID != 0 {
			q = q.Where("user_id = ?", query.UserID)
		}
		if query.Number != "" {
			q = q.Where("number LIKE ?", "%"+query.Number+"%")
		}
		if query.Phone != "" {
			q = q.Where("phone LIKE ?", "%"+query.Phone+"%")
		}
		if query.Status != nil {
			q = q.Where("status = ?", int(*query.Status))
		}
		if query.Begin != nil {
			q = q.Where("order_time >= ?", *query.Begin)
		}
		if query.End != nil {
			q = q.Where("order_time <= ?", *query.End)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return projection.Page[*domain.Order]{}, err
	}
	page := query.PageRequest.Normalize()
	var records []orderRecord
	err := filtered().Order("order_time DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&records).Error
	if err != nil {
		return projection.Page[*domain.Order]{}, err
	}
	details, err := r.detailsFor(ctx, records)
	if err != nil {
		return projection.Page[*domain.Order]{}, err
	}
	out := make([]*domain.Order, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain(details[records[i].ID]))
	}
	return projection.Page[*domain.Order]{Total: total, Records: out}, nil
}

func (r *Repository) CountByStatus(ctx context.Context, statuses ...domain.Status) (map[domain.Status]int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	counts := make(map[domain.Status]int64, len(statuses))
	if len(statuses) == 0 {
		return counts, nil
	}
	values := make([]int, 0, len(statuses))
	for _, status := range statuses {
		counts[status] = 0
		values = append(values, int(status))
	}
	var rows []struct {
		Status int
		Total  int64
	}
	err := database.Conn(ctx, r.db).Model(&orderRecord{}).
		Select("status, COUNT(*) AS total").
		Where("status IN ?", values).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[domain.Status(row.Status)] = row.Total
	}
	return counts, nil
}

func (r *Repository) first(ctx context.Context, where string, args ...any) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := database.Conn(ctx, r.db).Where(where, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	details, err := r.detailsFor(ctx, []orderRecord{record})
	if err != nil {
		return nil, err
	}
	return record.toDomain(details[record.ID]), nil
}

// detailsFor loads the details of all given orders in one query, keyed by order id.
func (r *Repository) detailsFor(ctx context.Context, orders []orderRecord) (map[int64][]detailRecord, error) {
	grouped := make(map[int64][]detailRecord, len(orders))
	if len(orders) == 0 {
		return grouped, nil
	}
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	var details []detailRecord
	if err := database.Conn(ctx, r.db).Where("order_id IN ?", ids).Order("id").Find(&details).Error; err != nil {
		return nil, err
	}
	for _, d := range details {
		grouped[d.OrderID] = append(grouped[d.OrderID], d)
	}
	return grouped, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("order repository not configured")
	}
	return nil
}

func toRecord(o *domain.Order) orderRecord {
	return orderRecord{
		ID:                    o.ID,
		Number:                o.Number,
		Status:                int(o.Status),
		UserID:                o.UserID,
		AddressBookID:         o.AddressBookID,
		OrderTime:             o.OrderTime,
		CheckoutTime:          o.CheckoutTime,
		PayMethod:             o.PayMethod,
		PayStatus:             int(o.PayStatus),
		Amount:                o.Amount,
		Remark:                o.Remark,
		Phone:                 o.Phone,
		Address:               o.Address,
		Consignee:             o.Consignee,
		CancelReason:          o.CancelReason,
		RejectionReason:       o.RejectionReason,
		CancelTime:            o.CancelTime,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		DeliveryStatus:        o.DeliveryStatus,
		DeliveryTime:          o.DeliveryTime,
		PackAmount:            o.PackAmount,
		TablewareNumber:       o.TablewareNumber,
		TablewareStatus:       o.TablewareStatus,
	}
}

func (r orderRecord) toDomain(details []detailRecord) *domain.Order {
	order := &domain.Order{
		ID:                    r.ID,
		Number:                r.Number,
		Status:                domain.Status(r.Status),
		UserID:                r.UserID,
		AddressBookID:         r.AddressBookID,
		OrderTime:             r.OrderTime,
		CheckoutTime:          r.CheckoutTime,
		PayMethod:             r.PayMethod,
		PayStatus:             domain.PayStatus(r.PayStatus),
		Amount:                r.Amount,
		Remark:                r.Remark,
		Phone:                 r.Phone,
		Address:               r.Address,
		Consignee:             r.Consignee,
		CancelReason:          r.CancelReason,
		RejectionReason:       r.RejectionReason,
		CancelTime:            r.CancelTime,
		EstimatedDeliveryTime: r.EstimatedDeliveryTime,
		DeliveryStatus:        r.DeliveryStatus,
		DeliveryTime:          r.DeliveryTime,
		PackAmount:            r.PackAmount,
		TablewareNumber:       r.TablewareNumber,
		TablewareStatus:       r.TablewareStatus,
		Details:               make([]*domain.Detail, 0, len(details)),
	}
	for _, d := range details {
		order.Details = append(order.Details, d.toDomain())
	}
	return order
}

func toDetailRecord(d *domain.Detail) detailRecord {
	return detailRecord{
		ID:         d.ID,
		OrderID:    d.OrderID,
		Name:       d.Name,
		Image:      d.Image,
		DishID:     d.DishID,
		SetmealID:  d.SetmealID,
		DishFlavor: d.DishFlavor,
		Number:     d.Number,
		Amount:     d.Amount,
	}
}

func (r detailRecord) toDomain() *domain.Detail {
	return &domain.Detail{
		ID:         r.ID,
		OrderID:    r.OrderID,
		Name:       r.Name,
		Image:      r.Image,
		DishID:     r.DishID,
		SetmealID:  r.SetmealID,
		DishFlavor: r.DishFlavor,
		Number:     r.Number,
		Amount:     r.Amount,
	}
}
