package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	addressmemory "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/adapters/memory"
	addressapp "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/application"
	addressdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/domain"
	cartsql "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/adapters/persistence/sqlstore"
	cartapp "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
	orderaddress "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/addressbook"
	ordercart "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/cart"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/application"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/platform/database"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/identity"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/projection"
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
	require.NoError(t, cartsql.AutoMigrate(db))
	return db
}

func newOrder(userID int64, number string, status domain.Status, at time.Time) *domain.Order {
	dish := int64(11)
	return &domain.Order{
		Number:    number,
		Status:    status,
		UserID:    userID,
		OrderTime: at,
		Amount:    decimal.RequireFromString("42.50"),
		Phone:     "13811112222",
		Consignee: "Chen",
		Details: []*domain.Detail{
			{Name: "Mapo Tofu", DishID: &dish, DishFlavor: "mild", Number: 2, Amount: decimal.RequireFromString("18.00")},
			{Name: "Rice", Number: 1, Amount: decimal.RequireFromString("2.00")},
		},
	}
}

func TestRepository_CreateAndLoad(t *testing.T) {
	repo := NewRepository(setupSQLite(t))
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, newOrder(5, "A-1", domain.StatusPendingPayment, at))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Len(t, created.Details, 2)
	for _, d := range created.Details {
		assert.NotZero(t, d.ID)
		assert.Equal(t, created.ID, d.OrderID)
	}

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mapo Tofu*2;Rice*1;", byID.DishSummary())
	assert.True(t, byID.Amount.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, int64(11), *byID.Details[0].DishID)
	assert.Nil(t, byID.Details[1].DishID)

	byNumber, err := repo.GetByNumber(ctx, 5, "A-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)

	_, err = repo.GetByNumber(ctx, 6, "A-1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateLeavesDetails(t *testing.T) {
	repo := NewRepository(setupSQLite(t))
	ctx := context.Background()
	created, err := repo.Create(ctx, newOrder(5, "A-1", domain.StatusToBeConfirmed, time.Now()))
	require.NoError(t, err)

	created.PayStatus = domain.PayStatusPaid
	_, err = created.Reject("sold out", time.Now())
	require.NoError(t, err)
	created.Details = nil
	require.NoError(t, repo.Update(ctx, created))
	require.NoError(t, repo.Update(ctx, created))

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, fetched.Status)
	assert.Equal(t, domain.PayStatusRefund, fetched.PayStatus)
	assert.Equal(t, "sold out", fetched.RejectionReason)
	assert.NotNil(t, fetched.CancelTime)
	assert.Len(t, fetched.Details, 2)

	missing := created.Clone()
	missing.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, missing), ports.ErrNotFound)
}

func TestRepository_PageAndCount(t *testing.T) {
	repo := NewRepository(setupSQLite(t))
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, status := range []domain.Status{domain.StatusToBeConfirmed, domain.StatusConfirmed, domain.StatusToBeConfirmed, domain.StatusCompleted} {
		user := int64(1)
		if i == 3 {
			user = 2
		}
		_, err := repo.Create(ctx, newOrder(user, "N-"+string(rune('a'+i)), status, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	page, err := repo.Page(ctx, ports.Query{PageRequest: projection.PageRequest{Page: 1, PageSize: 2}, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "N-c", page.Records[0].Number)
	assert.Equal(t, "N-b", page.Records[1].Number)
	assert.Len(t, page.Records[0].Details, 2)

	begin := base.Add(30 * time.Minute)
	end := base.Add(150 * time.Minute)
	windowed, err := repo.Page(ctx, ports.Query{Begin: &begin, End: &end, Number: "N-"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), windowed.Total)

	counts, err := repo.CountByStatus(ctx, domain.StatusToBeConfirmed, domain.StatusConfirmed, domain.StatusDeliveryInProgress)
	require.NoError(t, err)
	assert.Equal(t, map[domain.Status]int64{
		domain.StatusToBeConfirmed:      2,
		domain.StatusConfirmed:          1,
		domain.StatusDeliveryInProgress: 0,
	}, counts)
}

type staticCatalog struct{}

func (staticCatalog) Dish(context.Context, int64) (cartports.Product, error) {
	return cartports.Product{Name: "Dumplings", Price: decimal.RequireFromString("12.00")}, nil
}

func (staticCatalog) Setmeal(context.Context, int64) (cartports.Product, error) {
	return cartports.Product{}, cartports.ErrProductNotFound
}

type failingClear struct {
	ports.Cart
}

func (failingClear) Clear(context.Context) error { return errors.New("cart store unavailable") }

func submitFixture(t *testing.T, wrap func(ports.Cart) ports.Cart) (*application.Service, *gorm.DB, context.Context, int64) {
	t.Helper()
	db := setupSQLite(t)
	ctx := identity.WithUserID(context.Background(), 3)

	addresses := addressapp.NewService(addressmemory.NewRepository())
	entry, err := addresses.Add(ctx, &addressdomain.Address{Consignee: "Liu", Phone: "1", Detail: "9 Bridge St"})
	require.NoError(t, err)

	cart := cartapp.NewService(cartsql.NewRepository(db), staticCatalog{})
	one, two := int64(1), int64(2)
	for _, id := range []*int64{&one, &one, &two} {
		_, err := cart.Add(ctx, cartdomain.Selection{DishID: id})
		require.NoError(t, err)
	}

	svc := application.NewService(NewRepository(db), orderaddress.New(addresses), wrap(ordercart.New(cart)), nil,
		application.WithTxRunner(database.NewTxRunner(db)))
	return svc, db, ctx, entry.ID
}

func TestSubmit_CommitsOrderDetailsAndCartClear(t *testing.T) {
	svc, db, ctx, addressID := submitFixture(t, func(c ports.Cart) ports.Cart { return c })

	res, err := svc.Submit(ctx, ports.SubmitCommand{AddressBookID: addressID, Amount: decimal.NewFromInt(36)})
	require.NoError(t, err)

	var details, cartRows int64
	require.NoError(t, db.Table("order_detail").Where("order_id = ?", res.ID).Count(&details).Error)
	require.NoError(t, db.Table("shopping_cart").Count(&cartRows).Error)
	assert.Equal(t, int64(2), details)
	assert.Zero(t, cartRows)
}

func TestSubmit_RollsBackWhenCartClearFails(t *testing.T) {
	svc, db, ctx, addressID := submitFixture(t, func(c ports.Cart) ports.Cart { return failingClear{Cart: c} })

	_, err := svc.Submit(ctx, ports.SubmitCommand{AddressBookID: addressID, Amount: decimal.NewFromInt(36)})
	require.Error(t, err)

	var orders, details, cartRows int64
	require.NoError(t, db.Table("orders").Count(&orders).Error)
	require.NoError(t, db.Table("order_detail").Count(&details).Error)
	require.NoError(t, db.Table("shopping_cart").Count(&cartRows).Error)
	assert.Zero(t, orders)
	assert.Zero(t, details)
	assert.Equal(t, int64(2), cartRows)
}
