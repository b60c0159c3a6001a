package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/identity"
)

const tracerName = "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
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

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
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

func (s *Service) Add(ctx context.Context, sel cartdomain.Selection) (*cartdomain.Item, error) {
	attrs := selectionAttrs(ctx, sel)
	ctx, span := s.tracer.Start(ctx, "CartService.Add", trace.WithAttributes(toAttributes(attrs)...))
	defer span.End()

	s.logInfo(ctx, "adding cart item", attrs...)
	item, err := s.inner.Add(ctx, sel)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add cart item", attrs...)
	}
	s.metrics.recordAdded(ctx, sel)
	s.logInfo(ctx, "cart item added", slog.Int64("cart.item_id", item.ID), slog.Int("cart.number", int(item.Number)))
	return item, nil
}

func (s *Service) List(ctx context.Context) ([]*cartdomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.List")
	defer span.End()

	items, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list cart", userAttr(ctx))
	}
	span.SetAttributes(attribute.Int("cart.lines", len(items)))
	return items, nil
}

func (s *Service) Remove(ctx context.Context, sel cartdomain.Selection) error {
	attrs := selectionAttrs(ctx, sel)
	ctx, span := s.tracer.Start(ctx, "CartService.Remove", trace.WithAttributes(toAttributes(attrs)...))
	defer span.End()

	s.logInfo(ctx, "removing cart item", attrs...)
	if err := s.inner.Remove(ctx, sel); err != nil {
		return s.handleError(ctx, span, err, "failed to remove cart item", attrs...)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "CartService.Clear")
	defer span.End()

	s.logInfo(ctx, "clearing cart", userAttr(ctx))
	if err := s.inner.Clear(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to clear cart", userAttr(ctx))
	}
	s.metrics.recordCleared(ctx)
	return nil
}

func (s *Service) Restore(ctx context.Context, items []*cartdomain.Item) error {
	ctx, span := s.tracer.Start(ctx, "CartService.Restore", trace.WithAttributes(attribute.Int("cart.lines", len(items))))
	defer span.End()

	s.logInfo(ctx, "restoring cart lines", userAttr(ctx), slog.Int("cart.lines", len(items)))
	if err := s.inner.Restore(ctx, items); err != nil {
		return s.handleError(ctx, span, err, "failed to restore cart lines", userAttr(ctx))
	}
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
	userID, _ := identity.UserID(ctx)
	return slog.Int64("user.id", userID)
}

func selectionAttrs(ctx context.Context, sel cartdomain.Selection) []slog.Attr {
	attrs := []slog.Attr{userAttr(ctx)}
	if sel.DishID != nil {
		attrs = append(attrs, slog.Int64("cart.dish_id", *sel.DishID))
	}
	if sel.SetmealID != nil {
		attrs = append(attrs, slog.Int64("cart.setmeal_id", *sel.SetmealID))
	}
	if sel.DishFlavor != "" {
		attrs = append(attrs, slog.String("cart.dish_flavor", sel.DishFlavor))
	}
	return attrs
}

func toAttributes(attrs []slog.Attr) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch a.Value.Kind() {
		case slog.KindInt64:
			kvs = append(kvs, attribute.Int64(a.Key, a.Value.Int64()))
		default:
			kvs = append(kvs, attribute.String(a.Key, a.Value.String()))
		}
	}
	return kvs
}

type serviceMetrics struct {
	itemsAdded   metric.Int64Counter
	cartsCleared metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemsAdded, _ := m.Int64Counter("cart.service.items_added", metric.WithDescription("Number of cart add operations"))
	cartsCleared, _ := m.Int64Counter("cart.service.carts_cleared", metric.WithDescription("Number of carts explicitly cleared"))
	return serviceMetrics{itemsAdded: itemsAdded, cartsCleared: cartsCleared}
}

func (m serviceMetrics) recordAdded(ctx context.Context, sel cartdomain.Selection) {
	if m.itemsAdded == nil {
		return
	}
	kind := "dish"
	if sel.SetmealID != nil {
		kind = "setmeal"
	}
	m.itemsAdded.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.kind", kind)))
}

func (m serviceMetrics) recordCleared(ctx context.Context) {
	if m.cartsCleared != nil {
		m.cartsCleared.Add(ctx, 1)
	}
}

var _ cartports.Service = (*Service)(nil)
