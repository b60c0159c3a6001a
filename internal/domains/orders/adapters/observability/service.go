package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/identity"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/projection"
)

const tracerName = "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Submit(ctx context.Context, cmd orderports.SubmitCommand) (*orderports.SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Submit", trace.WithAttributes(
		attribute.Int64("order.address_book_id", cmd.AddressBookID),
		attribute.String("order.amount", cmd.Amount.String()),
	))
	defer span.End()

	s.logInfo(ctx, "submitting order", userAttr(ctx), slog.Int64("order.address_book_id", cmd.AddressBookID))
	res, err := s.inner.Submit(ctx, cmd)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to submit order", userAttr(ctx))
	}
	span.SetAttributes(attribute.Int64("order.id", res.ID), attribute.String("order.number", res.Number))
	s.metrics.recordSubmitted(ctx)
	s.logInfo(ctx, "order submitted", userAttr(ctx), slog.Int64("order.id", res.ID), slog.String("order.number", res.Number))
	return res, nil
}

func (s *Service) Pay(ctx context.Context, number string, payMethod int) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Pay", trace.WithAttributes(attribute.String("order.number", number)))
	defer span.End()

	order, err := s.inner.Pay(ctx, number, payMethod)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to record payment", slog.String("order.number", number))
	}
	s.metrics.recordTransition(ctx, order.Status)
	s.logInfo(ctx, "order paid", slog.String("order.number", number), slog.Int("order.pay_method", payMethod))
	return order, nil
}

func (s *Service) History(ctx context.Context, query orderports.HistoryQuery) (projection.Page[*orderdomain.Order], error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.History", trace.WithAttributes(attribute.Int("page", query.Page)))
	defer span.End()

	page, err := s.inner.History(ctx, query)
	if err != nil {
		return page, s.handleError(ctx, span, err, "failed to list order history", userAttr(ctx))
	}
	span.SetAttributes(attribute.Int64("order.total", page.Total))
	return page, nil
}

func (s *Service) Detail(ctx context.Context, id int64) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Detail", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.inner.Detail(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return order, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.Cancel", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", userAttr(ctx), slog.Int64("order.id", id))
	if err := s.inner.Cancel(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", id))
	}
	s.metrics.recordTransition(ctx, orderdomain.StatusCancelled)
	return nil
}

func (s *Service) Reorder(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.Reorder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := s.inner.Reorder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to reorder", slog.Int64("order.id", id))
	}
	s.logInfo(ctx, "order copied into cart", userAttr(ctx), slog.Int64("order.id", id))
	return nil
}

func (s *Service) Search(ctx context.Context, query orderports.Query) (projection.Page[orderports.Summary], error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Search", trace.WithAttributes(attribute.Int("page", query.Page)))
	defer span.End()

	page, err := s.inner.Search(ctx, query)
	if err != nil {
		return page, s.handleError(ctx, span, err, "failed to search orders")
	}
	span.SetAttributes(attribute.Int64("order.total", page.Total))
	return page, nil
}

func (s *Service) AdminDetail(ctx context.Context, id int64) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.AdminDetail", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.inner.AdminDetail(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return order, nil
}

func (s *Service) Statistics(ctx context.Context) (orderports.Statistics, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Statistics")
	defer span.End()

	stats, err := s.inner.Statistics(ctx)
	if err != nil {
		return stats, s.handleError(ctx, span, err, "failed to compute order statistics")
	}
	return stats, nil
}

func (s *Service) Confirm(ctx context.Context, id int64) error {
	return s.transition(ctx, "OrderService.Confirm", id, orderdomain.StatusConfirmed, func(ctx context.Context) error {
		return s.inner.Confirm(ctx, id)
	})
}

func (s *Service) Reject(ctx context.Context, id int64, reason string) error {
	return s.transition(ctx, "OrderService.Reject", id, orderdomain.StatusCancelled, func(ctx context.Context) error {
		return s.inner.Reject(ctx, id, reason)
	}, slog.String("order.rejection_reason", reason))
}

func (s *Service) AdminCancel(ctx context.Context, id int64, reason string) error {
	return s.transition(ctx, "OrderService.AdminCancel", id, orderdomain.StatusCancelled, func(ctx context.Context) error {
		return s.inner.AdminCancel(ctx, id, reason)
	}, slog.String("order.cancel_reason", reason))
}

func (s *Service) Deliver(ctx context.Context, id int64) error {
	return s.transition(ctx, "OrderService.Deliver", id, orderdomain.StatusDeliveryInProgress, func(ctx context.Context) error {
		return s.inner.Deliver(ctx, id)
	})
}

func (s *Service) Complete(ctx context.Context, id int64) error {
	return s.transition(ctx, "OrderService.Complete", id, orderdomain.StatusCompleted, func(ctx context.Context) error {
		return s.inner.Complete(ctx, id)
	})
}

func (s *Service) DishSummary(ctx context.Context, id int64) (string, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.DishSummary", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	summary, err := s.inner.DishSummary(ctx, id)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to render dish summary", slog.Int64("order.id", id))
	}
	return summary, nil
}

// transition wraps the admin status changes. Deliver on a non-confirmed order
// is still counted since the service does not report the no-op.
func (s *Service) transition(ctx context.Context, name string, id int64, target orderdomain.Status, call func(context.Context) error, attrs ...slog.Attr) error {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.target_status", target.String()),
	))
	defer span.End()

	attrs = append(attrs, slog.Int64("order.id", id), slog.String("order.target_status", target.String()))
	s.logInfo(ctx, "changing order status", attrs...)
	if err := call(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to change order status", attrs...)
	}
	s.metrics.recordTransition(ctx, target)
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func userAttr(ctx context.Context) slog.Attr {
	if p, ok := identity.FromContext(ctx); ok {
		return slog.Int64("user.id", p.UserID)
	}
	return slog.Attr{}
}

type serviceMetrics struct {
	submitted   metric.Int64Counter
	transitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	submitted, _ := m.Int64Counter("orders.service.submitted", metric.WithDescription("Number of orders submitted"))
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of order status changes by target status"))
	return serviceMetrics{submitted: submitted, transitions: transitions}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context) {
	if m.submitted != nil {
		m.submitted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status orderdomain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", status.String())))
	}
}

var _ orderports.Service = (*Service)(nil)
