package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/identity"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/projection"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/tx"
)

// Service orchestrates the order lifecycle. Every multi-row mutation runs
// inside a single tx.Runner unit of work.
type Service struct {
	repo      ports.Repository
	addresses ports.AddressBook
	cart      ports.Cart
	refunder  ports.Refunder
	tx        tx.Runner
	now       func() time.Time
	newNumber func() string
}

// Option customizes the service.
type Option func(*Service)

// WithTxRunner sets the unit of work. Defaults to tx.Noop.
func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) {
		if r != nil {
			s.tx = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNumberGenerator overrides how order numbers are minted.
func WithNumberGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newNumber = gen
		}
	}
}

func NewService(repo ports.Repository, addresses ports.AddressBook, cart ports.Cart, refunder ports.Refunder, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		addresses: addresses,
		cart:      cart,
		refunder:  refunder,
		tx:        tx.Noop{},
		now:       time.Now,
		newNumber: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit turns the current user's cart into a pending order and empties the cart.
func (s *Service) Submit(ctx context.Context, cmd ports.SubmitCommand) (*ports.SubmitResult, error) {
	userID, err := identity.UserID(ctx)
	if err != nil {
		return nil, err
	}
	address, err := s.addresses.Lookup(ctx, cmd.AddressBookID)
	if err != nil {
		return nil, mapError(err)
	}

	var created *domain.Order
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		lines, err := s.cart.Lines(ctx)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		order := &domain.Order{
			Number:                s.newNumber(),
			Status:                domain.StatusPendingPayment,
			UserID:                userID,
			AddressBookID:         cmd.AddressBookID,
			OrderTime:             s.now(),
			PayMethod:             cmd.PayMethod,
			PayStatus:             domain.PayStatusUnpaid,
			Amount:                cmd.Amount,
			Remark:                cmd.Remark,
			Phone:                 address.Phone,
			Address:               address.Address,
			Consignee:             address.Consignee,
			EstimatedDeliveryTime: cmd.EstimatedDeliveryTime,
			DeliveryStatus:        cmd.DeliveryStatus,
			PackAmount:            cmd.PackAmount,
			TablewareNumber:       cmd.TablewareNumber,
			TablewareStatus:       cmd.TablewareStatus,
			Details:               detailsFromLines(lines),
		}
		if err := order.Validate(); err != nil {
			return err
		}
		created, err = s.repo.Create(ctx, order)
		if err != nil {
			return err
		}
		return s.cart.Clear(ctx)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &ports.SubmitResult{
		ID:        created.ID,
		Number:    created.Number,
		Amount:    created.Amount,
		OrderTime: created.OrderTime,
	}, nil
}

// Pay records a stubbed payment success for one of the current user's orders.
func (s *Service) Pay(ctx context.Context, number string, payMethod int) (*domain.Order, error) {
	userID, err := identity.UserID(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.GetByNumber(ctx, userID, number)
	if err != nil {
		return nil, mapError(err)
	}
	if err := order.MarkPaid(payMethod, s.now()); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// History pages through the current user's orders, newest first.
func (s *Service) History(ctx context.Context, query ports.HistoryQuery) (projection.Page[*domain.Order], error) {
	userID, err := identity.UserID(ctx)
	if err != nil {
		return projection.Page[*domain.Order]{}, err
	}
	page, err := s.repo.Page(ctx, ports.Query{PageRequest: query.PageRequest, UserID: userID, Status: query.Status})
	if err != nil {
		return projection.Page[*domain.Order]{}, mapError(err)
	}
	return page, nil
}

// Detail returns one of the current user's orders with its line items.
func (s *Service) Detail(ctx context.Context, id int64) (*domain.Order, error) {
	return s.owned(ctx, id)
}

// Cancel cancels one of the current user's orders that is not yet confirmed.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		order, err := s.owned(ctx, id)
		if err != nil {
			return err
		}
		refund, err := order.CancelByUser(s.now())
		if err != nil {
			return mapError(err)
		}
		return s.settle(ctx, order, refund, domain.CancelReasonByUser)
	})
}

// Reorder copies the line items of a past order into the current user's cart.
func (s *Service) Reorder(ctx context.Context, id int64) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		order, err := s.owned(ctx, id)
		if err != nil {
			return err
		}
		return mapError(s.cart.Restore(ctx, linesFromDetails(order.Details)))
	})
}

// Search pages through all orders for the admin console.
func (s *Service) Search(ctx context.Context, query ports.Query) (projection.Page[ports.Summary], error) {
	page, err := s.repo.Page(ctx, query)
	if err != nil {
		return projection.Page[ports.Summary]{}, mapError(err)
	}
	out := projection.Page[ports.Summary]{Total: page.Total, Records: make([]ports.Summary, 0, len(page.Records))}
	for _, order := range page.Records {
		out.Records = append(out.Records, ports.Summary{Order: order, Dishes: order.DishSummary()})
	}
	return out, nil
}

func (s *Service) AdminDetail(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (s *Service) Statistics(ctx context.Context) (ports.Statistics, error) {
	counts, err := s.repo.CountByStatus(ctx, domain.StatusToBeConfirmed, domain.StatusConfirmed, domain.StatusDeliveryInProgress)
	if err != nil {
		return ports.Statistics{}, mapError(err)
	}
	return ports.Statistics{
		ToBeConfirmed:      counts[domain.StatusToBeConfirmed],
		Confirmed:          counts[domain.StatusConfirmed],
		DeliveryInProgress: counts[domain.StatusDeliveryInProgress],
	}, nil
}

// Confirm accepts an order. No status precondition is applied.
func (s *Service) Confirm(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(order *domain.Order) (bool, error) {
		order.Confirm()
		return true, nil
	})
}

// Reject declines an order awaiting confirmation, refunding it when paid.
// A missing order is reported as an invalid status.
func (s *Service) Reject(ctx context.Context, id int64, reason string) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, ports.ErrNotFound) {
			return ErrInvalidStatusForReject
		}
		if err != nil {
			return mapError(err)
		}
		refund, err := order.Reject(reason, s.now())
		if err != nil {
			return mapError(err)
		}
		return s.settle(ctx, order, refund, reason)
	})
}

// AdminCancel cancels an order in any status, refunding it when paid.
func (s *Service) AdminCancel(ctx context.Context, id int64, reason string) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return mapError(err)
		}
		refund := order.CancelByAdmin(reason, s.now())
		return s.settle(ctx, order, refund, reason)
	})
}

// Deliver starts delivery of a confirmed order; any other status is left alone.
func (s *Service) Deliver(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(order *domain.Order) (bool, error) {
		return order.Deliver(), nil
	})
}

// Complete finishes an order. No status precondition is applied.
func (s *Service) Complete(ctx context.Context, id int64) error {
	return s.mutate(ctx, id, func(order *domain.Order) (bool, error) {
		order.Complete(s.now())
		return true, nil
	})
}

func (s *Service) DishSummary(ctx context.Context, id int64) (string, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", mapError(err)
	}
	return order.DishSummary(), nil
}

// owned loads an order of the current user. Orders of other users are reported as missing.
func (s *Service) owned(ctx context.Context, id int64) (*domain.Order, error) {
	userID, err := identity.UserID(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if order.UserID != userID {
		return nil, mapError(ports.ErrNotFound)
	}
	return order, nil
}

// settle persists the cancelled order and then issues the refund when owed.
// A refund failure aborts the surrounding unit of work; a failed write never
// reaches the refunder.
func (s *Service) settle(ctx context.Context, order *domain.Order, refund bool, reason string) error {
	if err := s.repo.Update(ctx, order); err != nil {
		return mapError(err)
	}
	if !refund {
		return nil
	}
	return s.refunder.Refund(ctx, ports.RefundRequest{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Amount:      order.Amount,
		Reason:      reason,
	})
}

func (s *Service) mutate(ctx context.Context, id int64, apply func(*domain.Order) (bool, error)) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	changed, err := apply(order)
	if err != nil {
		return mapError(err)
	}
	if !changed {
		return nil
	}
	return mapError(s.repo.Update(ctx, order))
}

func detailsFromLines(lines []ports.CartLine) []*domain.Detail {
	details := make([]*domain.Detail, 0, len(lines))
	for _, line := range lines {
		details = append(details, &domain.Detail{
			Name:       line.Name,
			Image:      line.Image,
			DishID:     line.DishID,
			SetmealID:  line.SetmealID,
			DishFlavor: line.DishFlavor,
			Number:     line.Number,
			Amount:     line.Amount,
		})
	}
	return details
}

func linesFromDetails(details []*domain.Detail) []ports.CartLine {
	lines := make([]ports.CartLine, 0, len(details))
	for _, d := range details {
		lines = append(lines, ports.CartLine{
			Name:       d.Name,
			Image:      d.Image,
			DishID:     d.DishID,
			SetmealID:  d.SetmealID,
			DishFlavor: d.DishFlavor,
			Number:     d.Number,
			Amount:     d.Amount,
		})
	}
	return lines
}

var _ ports.Service = (*Service)(nil)
