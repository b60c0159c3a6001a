package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	takeoutserver "github.com/Apurer/go-gin-takeout-api/go"

	paymentclient "github.com/Apurer/go-gin-takeout-api/internal/clients/http/payment"
	addressmemory "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/adapters/memory"
	addresssql "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/adapters/persistence/sqlstore"
	addressapp "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/application"
	addressports "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/domains/cart/adapters/catalogreader"
	cartmemory "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/adapters/memory"
	cartobs "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/adapters/observability"
	cartsql "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/adapters/persistence/sqlstore"
	cartapp "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/application"
	cartports "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
	cachememory "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/adapters/cache/memory"
	cacheredis "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/adapters/cache/redis"
	catalogmemory "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/adapters/observability"
	catalogsql "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/adapters/persistence/sqlstore"
	catalogapp "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/ports"
	orderaddress "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/addressbook"
	ordercart "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/cart"
	ordermemory "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/observability"
	orderpayment "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/payment"
	ordersql "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/persistence/sqlstore"
	orderworkflows "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/platform/database"
	"github.com/Apurer/go-gin-takeout-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-takeout-api/internal/platform/observability"
	platformredis "github.com/Apurer/go-gin-takeout-api/internal/platform/redis"
	platformtemporal "github.com/Apurer/go-gin-takeout-api/internal/platform/temporal"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/identity"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/tx"
)

const serviceName = "takeout-api"

// Run boots the takeout HTTP API with observability, repositories, and workflows
// wired, and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, closeDB := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN, logger)
	defer closeDB()
	if db != nil && cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	repos := buildRepositories(db)

	rdb, closeRedis := platformredis.Open(ctx, cfg.RedisURL, logger)
	defer closeRedis()

	catalogService := catalogobs.New(
		catalogapp.NewService(repos.catalog,
			catalogapp.WithCache(buildCatalogCache(rdb)),
			catalogapp.WithCacheTTL(cfg.CatalogCacheTTL),
			catalogapp.WithLogger(logger),
		),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	addressService := addressapp.NewService(repos.addresses)
	cartService := cartobs.New(
		cartapp.NewService(repos.cart, catalogreader.New(catalogService)),
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)

	refunder, closeRefunder := buildRefunder(cfg, instruments, logger)
	defer closeRefunder()
	orderService := ordersobs.New(
		ordersapp.NewService(repos.orders,
			orderaddress.New(addressService),
			ordercart.New(cartService),
			refunder,
			ordersapp.WithTxRunner(repos.tx),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	tokens, err := identity.NewTokens(cfg.JWTSecret, identity.WithIssuer(cfg.JWTIssuer))
	if err != nil {
		return fmt.Errorf("failed to configure bearer tokens: %w", err)
	}
	handlers := takeoutserver.ApiHandleFunctions{
		AddressBookAPI:  takeoutserver.NewAddressBookAPI(addressService),
		CatalogAPI:      takeoutserver.NewCatalogAPI(catalogService),
		ShoppingCartAPI: takeoutserver.NewShoppingCartAPI(cartService),
		OrderAPI:        takeoutserver.NewOrderAPI(orderService),
		AdminOrderAPI:   takeoutserver.NewAdminOrderAPI(orderService),
	}
	router := takeoutserver.NewRouter(handlers, tokens,
		takeoutserver.WithServiceName(serviceName),
		takeoutserver.WithAccessLog(logger),
		takeoutserver.WithUserRateLimit(rate.Limit(cfg.UserRateLimit), cfg.UserRateBurst),
	)

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("takeout API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("takeout API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		logger.Info("shutting down takeout API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

type repositories struct {
	catalog   catalogports.Repository
	addresses addressports.Repository
	cart      cartports.Repository
	orders    orderports.Repository
	tx        tx.Runner
}

// buildRepositories picks gorm adapters when a database is available and the
// in-memory ones otherwise.
func buildRepositories(db *gorm.DB) repositories {
	if db == nil {
		orders := ordermemory.NewRepository()
		return repositories{
			catalog:   catalogmemory.NewRepository(),
			addresses: addressmemory.NewRepository(),
			cart:      cartmemory.NewRepository(),
			orders:    orders,
			tx:        orders,
		}
	}
	return repositories{
		catalog:   catalogsql.NewRepository(db),
		addresses: addresssql.NewRepository(db),
		cart:      cartsql.NewRepository(db),
		orders:    ordersql.NewRepository(db),
		tx:        database.NewTxRunner(db),
	}
}

func buildCatalogCache(rdb *goredis.Client) catalogports.Cache {
	if rdb == nil {
		return cachememory.NewCache()
	}
	return cacheredis.NewCache(rdb)
}

// buildRefunder prefers the durable Temporal workflow, then a direct call to the
// payment provider, and finally a refunder that only logs.
func buildRefunder(cfg Config, instruments *platformobservability.Instruments, logger *slog.Logger) (orderports.Refunder, func()) {
	temporalClient, err := platformtemporal.Dial(platformtemporal.Settings{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, instruments.Tracer("temporal-client"), logger)
	if err == nil {
		logger.Info("Temporal refunds enabled", slog.String("namespace", cfg.TemporalNamespace))
		return orderworkflows.NewTemporalRefunder(temporalClient), temporalClient.Close
	}
	logger.Warn("Temporal refunds unavailable", slog.String("error", err.Error()))

	if cfg.PaymentBaseURL != "" {
		payments, err := paymentclient.NewClient(cfg.PaymentBaseURL, &http.Client{Timeout: cfg.PaymentTimeout})
		if err == nil {
			logger.Info("refunds sent directly to payment provider", slog.String("url", cfg.PaymentBaseURL))
			return orderpayment.NewGatewayRefunder(payments), func() {}
		}
		logger.Warn("invalid payment provider URL", slog.String("error", err.Error()))
	}
	logger.Warn("no refund channel configured, refunds are only logged")
	return orderpayment.NewLogRefunder(logger), func() {}
}
