package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	addressmemory "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/adapters/memory"
	addressapp "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/application"
	addressdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/domain"
	cartmemory "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
	orderaddress "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/addressbook"
	ordercart "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/cart"
	ordermemory "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/identity"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/projection"
)

var fixedNow = time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)

type fakeCatalog struct{}

func (fakeCatalog) Dish(_ context.Context, id int64) (cartports.Product, error) {
	switch id {
	case 1:
		return cartports.Product{Name: "Kung Pao Chicken", Image: "kp.png", Price: decimal.RequireFromString("38.00")}, nil
	case 2:
		return cartports.Product{Name: "Rice", Image: "rice.png", Price: decimal.RequireFromString("2.00")}, nil
	}
	return cartports.Product{}, cartports.ErrProductNotFound
}

func (fakeCatalog) Setmeal(context.Context, int64) (cartports.Product, error) {
	return cartports.Product{}, cartports.ErrProductNotFound
}

type recordingRefunder struct {
	requests []ports.RefundRequest
	err      error
}

func (r *recordingRefunder) Refund(_ context.Context, req ports.RefundRequest) error {
	if r.err != nil {
		return r.err
	}
	r.requests = append(r.requests, req)
	return nil
}

// failingUpdates lets a test break order writes after setup.
type failingUpdates struct {
	*ordermemory.Repository
	err error
}

func (r *failingUpdates) Update(ctx context.Context, order *domain.Order) error {
	if r.err != nil {
		return r.err
	}
	return r.Repository.Update(ctx, order)
}

type fixture struct {
	svc       *Service
	repo      *ordermemory.Repository
	writes    *failingUpdates
	cart      *cartapp.Service
	refunder  *recordingRefunder
	addressID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	addresses := addressapp.NewService(addressmemory.NewRepository())
	entry, err := addresses.Add(userCtx(1), &addressdomain.Address{
		Consignee: "Zhang", Phone: "13900000000", CityName: "Shanghai", DistrictName: "Pudong", Detail: "88 Century Ave",
	})
	require.NoError(t, err)

	cart := cartapp.NewService(cartmemory.NewRepository(), fakeCatalog{}, cartapp.WithClock(func() time.Time { return fixedNow }))
	repo := ordermemory.NewRepository()
	writes := &failingUpdates{Repository: repo}
	refunder := &recordingRefunder{}
	n := 0
	svc := NewService(writes, orderaddress.New(addresses), ordercart.New(cart), refunder,
		WithTxRunner(repo),
		WithClock(func() time.Time { return fixedNow }),
		WithNumberGenerator(func() string {
			n++
			return "NO-" + string(rune('0'+n))
		}),
	)
	return &fixture{svc: svc, repo: repo, writes: writes, cart: cart, refunder: refunder, addressID: entry.ID}
}

func userCtx(id int64) context.Context {
	return identity.WithUserID(context.Background(), id)
}

func dish(id int64, flavor string) cartdomain.Selection {
	return cartdomain.Selection{DishID: &id, DishFlavor: flavor}
}

func (f *fixture) fillCart(t *testing.T, ctx context.Context) {
	t.Helper()
	for _, sel := range []cartdomain.Selection{dish(1, "hot"), dish(1, "hot"), dish(2, "")} {
		_, err := f.cart.Add(ctx, sel)
		require.NoError(t, err)
	}
}

func (f *fixture) submit(t *testing.T, ctx context.Context) *ports.SubmitResult {
	t.Helper()
	f.fillCart(t, ctx)
	res, err := f.svc.Submit(ctx, ports.SubmitCommand{AddressBookID: f.addressID, Amount: decimal.RequireFromString("78.00"), PayMethod: 1})
	require.NoError(t, err)
	return res
}

func (f *fixture) setStatus(t *testing.T, id int64, status domain.Status, pay domain.PayStatus) {
	t.Helper()
	order, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	order.Status = status
	order.PayStatus = pay
	require.NoError(t, f.repo.Update(context.Background(), order))
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	page, err := f.repo.Page(context.Background(), ports.Query{})
	require.NoError(t, err)
	return page.Total
}

func TestSubmit_CopiesCartAndClearsIt(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	f.fillCart(t, ctx)
	before, err := f.cart.List(ctx)
	require.NoError(t, err)

	res, err := f.svc.Submit(ctx, ports.SubmitCommand{AddressBookID: f.addressID, Amount: decimal.RequireFromString("78.00"), Remark: "no onions"})
	require.NoError(t, err)
	assert.Equal(t, "NO-1", res.Number)
	assert.Equal(t, fixedNow, res.OrderTime)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(78)))

	after, err := f.cart.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, after)

	order, err := f.svc.Detail(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingPayment, order.Status)
	assert.Equal(t, domain.PayStatusUnpaid, order.PayStatus)
	assert.Equal(t, "Zhang", order.Consignee)
	assert.Equal(t, "13900000000", order.Phone)
	assert.Equal(t, "ShanghaiPudong88 Century Ave", order.Address)
	assert.Equal(t, "no onions", order.Remark)
	require.Len(t, order.Details, len(before))
	for i, item := range before {
		assert.Equal(t, item.Name, order.Details[i].Name)
		assert.Equal(t, item.Number, order.Details[i].Number)
		assert.True(t, item.Amount.Equal(order.Details[i].Amount))
		assert.Equal(t, item.DishFlavor, order.Details[i].DishFlavor)
	}
	assert.Equal(t, "Kung Pao Chicken*2;Rice*1;", order.DishSummary())
}

func TestSubmit_EmptyCartWritesNothing(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Submit(userCtx(1), ports.SubmitCommand{AddressBookID: f.addressID})
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, f.count(t))
}

func TestSubmit_UnknownAddressWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	f.fillCart(t, ctx)

	_, err := f.svc.Submit(ctx, ports.SubmitCommand{AddressBookID: 999})
	require.ErrorIs(t, err, ErrAddressNotFound)
	assert.Zero(t, f.count(t))

	items, err := f.cart.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestSubmit_RequiresIdentity(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Submit(context.Background(), ports.SubmitCommand{AddressBookID: f.addressID})
	require.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestCancel_PendingPaymentNeverRefunds(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	res := f.submit(t, ctx)

	require.NoError(t, f.svc.Cancel(ctx, res.ID))
	order, err := f.repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, order.Status)
	assert.Equal(t, domain.PayStatusUnpaid, order.PayStatus)
	assert.Equal(t, domain.CancelReasonByUser, order.CancelReason)
	assert.Equal(t, fixedNow, *order.CancelTime)
	assert.Empty(t, f.refunder.requests)
}

func TestCancel_AwaitingConfirmationRefunds(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	res := f.submit(t, ctx)
	_, err := f.svc.Pay(ctx, res.Number, 1)
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, res.ID))
	order, err := f.repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PayStatusRefund, order.PayStatus)
	require.Len(t, f.refunder.requests, 1)
	assert.Equal(t, res.Number, f.refunder.requests[0].OrderNumber)
	assert.True(t, f.refunder.requests[0].Amount.Equal(decimal.NewFromInt(78)))
}

func TestCancel_ConfirmedOrLaterLeavesOrderUntouched(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusConfirmed, domain.StatusDeliveryInProgress, domain.StatusCompleted} {
		t.Run(status.String(), func(t *testing.T) {
			f := newFixture(t)
			ctx := userCtx(1)
			res := f.submit(t, ctx)
			f.setStatus(t, res.ID, status, domain.PayStatusPaid)
			before, err := f.repo.GetByID(ctx, res.ID)
			require.NoError(t, err)

			err = f.svc.Cancel(ctx, res.ID)
			require.ErrorIs(t, err, ErrInvalidStatusForCancel)

			after, err := f.repo.GetByID(ctx, res.ID)
			require.NoError(t, err)
			assert.Equal(t, before, after)
			assert.Empty(t, f.refunder.requests)
		})
	}
}

func TestCancel_RefundFailureKeepsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	res := f.submit(t, ctx)
	f.setStatus(t, res.ID, domain.StatusToBeConfirmed, domain.PayStatusPaid)
	f.refunder.err = errors.New("gateway down")

	require.Error(t, f.svc.Cancel(ctx, res.ID))
	order, err := f.repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusToBeConfirmed, order.Status)
	assert.Equal(t, domain.PayStatusPaid, order.PayStatus)
}

func TestCancellations_FailedWriteNeverRefunds(t *testing.T) {
	cases := map[string]func(f *fixture, ctx context.Context, id int64) error{
		"user cancel": func(f *fixture, ctx context.Context, id int64) error {
			return f.svc.Cancel(ctx, id)
		},
		"reject": func(f *fixture, ctx context.Context, id int64) error {
			return f.svc.Reject(ctx, id, "kitchen closed")
		},
		"admin cancel": func(f *fixture, ctx context.Context, id int64) error {
			return f.svc.AdminCancel(ctx, id, "address unreachable")
		},
	}
	for name, cancel := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			ctx := userCtx(1)
			res := f.submit(t, ctx)
			f.setStatus(t, res.ID, domain.StatusToBeConfirmed, domain.PayStatusPaid)
			f.writes.err = errors.New("disk full")

			require.Error(t, cancel(f, ctx, res.ID))
			assert.Empty(t, f.refunder.requests)
			order, err := f.repo.GetByID(ctx, res.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusToBeConfirmed, order.Status)
			assert.Equal(t, domain.PayStatusPaid, order.PayStatus)
		})
	}
}

func TestUserOperations_HideOtherUsersOrders(t *testing.T) {
	f := newFixture(t)
	res := f.submit(t, userCtx(1))
	stranger := userCtx(2)

	_, err := f.svc.Detail(stranger, res.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)
	require.ErrorIs(t, f.svc.Cancel(stranger, res.ID), ErrOrderNotFound)
	require.ErrorIs(t, f.svc.Reorder(stranger, res.ID), ErrOrderNotFound)
	_, err = f.svc.Pay(stranger, res.Number, 1)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestReorder_RestoresLinesWithFreshTimestamps(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	res := f.submit(t, ctx)
	source, err := f.repo.GetByID(ctx, res.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Reorder(ctx, res.ID))
	items, err := f.cart.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int32(2), items[0].Number)
	assert.Equal(t, int32(1), items[1].Number)
	for _, item := range items {
		assert.Equal(t, int64(1), item.UserID)
		assert.Equal(t, fixedNow, item.CreateTime)
		for _, d := range source.Details {
			assert.NotEqual(t, d.ID, item.ID)
		}
	}

	after, err := f.repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, source, after)
}

func TestPay_OnlyPendingOrders(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	res := f.submit(t, ctx)

	paid, err := f.svc.Pay(ctx, res.Number, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusToBeConfirmed, paid.Status)
	assert.Equal(t, domain.PayStatusPaid, paid.PayStatus)

	_, err = f.svc.Pay(ctx, res.Number, 2)
	require.ErrorIs(t, err, ErrInvalidStatusForPayment)
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	res := f.submit(t, ctx)

	require.ErrorIs(t, f.svc.Reject(ctx, res.ID, "busy"), ErrInvalidStatusForReject)
	require.ErrorIs(t, f.svc.Reject(ctx, 404, "busy"), ErrInvalidStatusForReject)

	f.setStatus(t, res.ID, domain.StatusToBeConfirmed, domain.PayStatusPaid)
	require.NoError(t, f.svc.Reject(ctx, res.ID, "kitchen closed"))
	order, err := f.svc.AdminDetail(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, order.Status)
	assert.Equal(t, domain.PayStatusRefund, order.PayStatus)
	assert.Equal(t, "kitchen closed", order.RejectionReason)
	assert.Len(t, f.refunder.requests, 1)
}

func TestAdminCancel(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	require.ErrorIs(t, f.svc.AdminCancel(ctx, 404, "x"), ErrOrderNotFound)

	res := f.submit(t, ctx)
	f.setStatus(t, res.ID, domain.StatusDeliveryInProgress, domain.PayStatusPaid)
	require.NoError(t, f.svc.AdminCancel(ctx, res.ID, "address unreachable"))
	order, err := f.svc.AdminDetail(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, order.Status)
	assert.Equal(t, domain.PayStatusRefund, order.PayStatus)
	assert.Equal(t, "address unreachable", order.CancelReason)
	assert.Len(t, f.refunder.requests, 1)
}

func TestDeliver(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	res := f.submit(t, ctx)

	require.NoError(t, f.svc.Deliver(ctx, res.ID))
	order, err := f.svc.AdminDetail(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingPayment, order.Status)

	require.NoError(t, f.svc.Confirm(ctx, res.ID))
	require.NoError(t, f.svc.Deliver(ctx, res.ID))
	order, err = f.svc.AdminDetail(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeliveryInProgress, order.Status)

	require.ErrorIs(t, f.svc.Deliver(ctx, 404), ErrOrderNotFound)
}

// Confirm and Complete accept any starting status; see the domain tests.
func TestConfirmAndComplete_NoPrecondition(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	res := f.submit(t, ctx)
	f.setStatus(t, res.ID, domain.StatusCancelled, domain.PayStatusRefund)

	require.NoError(t, f.svc.Confirm(ctx, res.ID))
	order, err := f.svc.AdminDetail(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, order.Status)

	f.setStatus(t, res.ID, domain.StatusPendingPayment, domain.PayStatusUnpaid)
	require.NoError(t, f.svc.Complete(ctx, res.ID))
	order, err = f.svc.AdminDetail(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, order.Status)
	assert.Equal(t, fixedNow, *order.DeliveryTime)
}

func TestStatisticsAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx(1)
	first := f.submit(t, ctx)
	second := f.submit(t, ctx)
	third := f.submit(t, ctx)
	f.setStatus(t, first.ID, domain.StatusToBeConfirmed, domain.PayStatusPaid)
	f.setStatus(t, second.ID, domain.StatusToBeConfirmed, domain.PayStatusPaid)
	f.setStatus(t, third.ID, domain.StatusDeliveryInProgress, domain.PayStatusPaid)

	stats, err := f.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.Statistics{ToBeConfirmed: 2, Confirmed: 0, DeliveryInProgress: 1}, stats)

	status := domain.StatusToBeConfirmed
	page, err := f.svc.Search(ctx, ports.Query{PageRequest: projection.PageRequest{Page: 1, PageSize: 1}, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Records, 1)
	assert.Equal(t, second.ID, page.Records[0].Order.ID)
	assert.Equal(t, "Kung Pao Chicken*2;Rice*1;", page.Records[0].Dishes)

	summary, err := f.svc.DishSummary(ctx, third.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kung Pao Chicken*2;Rice*1;", summary)
}

func TestHistory_ScopedToCurrentUser(t *testing.T) {
	f := newFixture(t)
	f.submit(t, userCtx(1))

	mine, err := f.svc.History(userCtx(1), ports.HistoryQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Total)
	require.Len(t, mine.Records[0].Details, 2)

	theirs, err := f.svc.History(userCtx(2), ports.HistoryQuery{})
	require.NoError(t, err)
	assert.Zero(t, theirs.Total)
}
