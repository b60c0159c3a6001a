package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) CreateDish(ctx context.Context, dish *catalogdomain.Dish) (*catalogdomain.Dish, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateDish", trace.WithAttributes(attribute.Int64("dish.category_id", dish.CategoryID)))
	defer span.End()

	s.logInfo(ctx, "creating dish", slog.String("dish.name", dish.Name))
	saved, err := s.inner.CreateDish(ctx, dish)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create dish", slog.String("dish.name", dish.Name))
	}
	s.metrics.recordWrite(ctx, "dish")
	s.logInfo(ctx, "dish created", slog.Int64("dish.id", saved.ID))
	return saved, nil
}

func (s *Service) UpdateDish(ctx context.Context, dish *catalogdomain.Dish) (*catalogdomain.Dish, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateDish", trace.WithAttributes(attribute.Int64("dish.id", dish.ID)))
	defer span.End()

	s.logInfo(ctx, "updating dish", slog.Int64("dish.id", dish.ID))
	saved, err := s.inner.UpdateDish(ctx, dish)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update dish", slog.Int64("dish.id", dish.ID))
	}
	s.metrics.recordWrite(ctx, "dish")
	return saved, nil
}

func (s *Service) SetDishStatus(ctx context.Context, id int64, status catalogdomain.Status) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SetDishStatus",
		trace.WithAttributes(attribute.Int64("dish.id", id), attribute.Int("dish.status", int(status))))
	defer span.End()

	s.logInfo(ctx, "changing dish status", slog.Int64("dish.id", id), slog.Int("dish.status", int(status)))
	if err := s.inner.SetDishStatus(ctx, id, status); err != nil {
		return s.handleError(ctx, span, err, "failed to change dish status", slog.Int64("dish.id", id))
	}
	s.metrics.recordWrite(ctx, "dish")
	return nil
}

func (s *Service) GetDish(ctx context.Context, id int64) (*catalogdomain.Dish, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetDish", trace.WithAttributes(attribute.Int64("dish.id", id)))
	defer span.End()

	dish, err := s.inner.GetDish(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load dish", slog.Int64("dish.id", id))
	}
	return dish, nil
}

func (s *Service) ListDishes(ctx context.Context, categoryID int64) ([]*catalogdomain.Dish, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListDishes", trace.WithAttributes(attribute.Int64("category.id", categoryID)))
	defer span.End()

	dishes, err := s.inner.ListDishes(ctx, categoryID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list dishes", slog.Int64("category.id", categoryID))
	}
	span.SetAttributes(attribute.Int("dish.count", len(dishes)))
	return dishes, nil
}

func (s *Service) CreateSetmeal(ctx context.Context, setmeal *catalogdomain.Setmeal) (*catalogdomain.Setmeal, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateSetmeal", trace.WithAttributes(attribute.Int64("setmeal.category_id", setmeal.CategoryID)))
	defer span.End()

	s.logInfo(ctx, "creating setmeal", slog.String("setmeal.name", setmeal.Name))
	saved, err := s.inner.CreateSetmeal(ctx, setmeal)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create setmeal", slog.String("setmeal.name", setmeal.Name))
	}
	s.metrics.recordWrite(ctx, "setmeal")
	s.logInfo(ctx, "setmeal created", slog.Int64("setmeal.id", saved.ID))
	return saved, nil
}

func (s *Service) UpdateSetmeal(ctx context.Context, setmeal *catalogdomain.Setmeal) (*catalogdomain.Setmeal, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateSetmeal", trace.WithAttributes(attribute.Int64("setmeal.id", setmeal.ID)))
	defer span.End()

	s.logInfo(ctx, "updating setmeal", slog.Int64("setmeal.id", setmeal.ID))
	saved, err := s.inner.UpdateSetmeal(ctx, setmeal)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update setmeal", slog.Int64("setmeal.id", setmeal.ID))
	}
	s.metrics.recordWrite(ctx, "setmeal")
	return saved, nil
}

func (s *Service) SetSetmealStatus(ctx context.Context, id int64, status catalogdomain.Status) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SetSetmealStatus",
		trace.WithAttributes(attribute.Int64("setmeal.id", id), attribute.Int("setmeal.status", int(status))))
	defer span.End()

	s.logInfo(ctx, "changing setmeal status", slog.Int64("setmeal.id", id), slog.Int("setmeal.status", int(status)))
	if err := s.inner.SetSetmealStatus(ctx, id, status); err != nil {
		return s.handleError(ctx, span, err, "failed to change setmeal status", slog.Int64("setmeal.id", id))
	}
	s.metrics.recordWrite(ctx, "setmeal")
	return nil
}

func (s *Service) GetSetmeal(ctx context.Context, id int64) (*catalogdomain.Setmeal, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetSetmeal", trace.WithAttributes(attribute.Int64("setmeal.id", id)))
	defer span.End()

	setmeal, err := s.inner.GetSetmeal(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load setmeal", slog.Int64("setmeal.id", id))
	}
	return setmeal, nil
}

func (s *Service) ListSetmeals(ctx context.Context, categoryID int64) ([]*catalogdomain.Setmeal, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListSetmeals", trace.WithAttributes(attribute.Int64("category.id", categoryID)))
	defer span.End()

	setmeals, err := s.inner.ListSetmeals(ctx, categoryID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list setmeals", slog.Int64("category.id", categoryID))
	}
	span.SetAttributes(attribute.Int("setmeal.count", len(setmeals)))
	return setmeals, nil
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

type serviceMetrics struct {
	writes metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	writes, _ := m.Int64Counter("catalog.service.writes", metric.WithDescription("Number of catalog writes, each followed by cache eviction"))
	return serviceMetrics{writes: writes}
}

func (m serviceMetrics) recordWrite(ctx context.Context, kind string) {
	if m.writes != nil {
		m.writes.Add(ctx, 1, metric.WithAttributes(attribute.String("catalog.kind", kind)))
	}
}

var _ catalogports.Service = (*Service)(nil)
