// Package takeoutserver is the gin transport of the takeout API.
package takeoutserver

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/Apurer/go-gin-takeout-api/internal/shared/identity"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API surface.
type ApiHandleFunctions struct {
	AddressBookAPI  AddressBookAPI
	CatalogAPI      CatalogAPI
	ShoppingCartAPI ShoppingCartAPI
	OrderAPI        OrderAPI
	AdminOrderAPI   AdminOrderAPI
}

// TokenVerifier turns a bearer token into the caller's principal.
type TokenVerifier interface {
	Verify(raw string) (identity.Principal, error)
}

var errForbidden = errors.New("admin role required")

type routerOptions struct {
	serviceName string
	logger      *slog.Logger
	limit       rate.Limit
	burst       int
}

// RouterOption customizes NewRouter.
type RouterOption func(*routerOptions)

// WithServiceName names the otelgin server spans.
func WithServiceName(name string) RouterOption {
	return func(o *routerOptions) {
		if name != "" {
			o.serviceName = name
		}
	}
}

// WithAccessLog logs one line per request.
func WithAccessLog(logger *slog.Logger) RouterOption {
	return func(o *routerOptions) {
		o.logger = logger
	}
}

// WithUserRateLimit caps customer requests per user. A zero limit disables it.
func WithUserRateLimit(limit rate.Limit, burst int) RouterOption {
	return func(o *routerOptions) {
		o.limit = limit
		o.burst = burst
	}
}

// NewRouter returns a new router. Customer routes live under /user and
// require a bearer token; console routes live under /admin and require
// an admin token.
func NewRouter(handleFunctions ApiHandleFunctions, verifier TokenVerifier, opts ...RouterOption) *gin.Engine {
	options := routerOptions{serviceName: "takeout-api"}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(options.serviceName))
	if options.logger != nil {
		router.Use(accessLog(options.logger))
	}
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	user := router.Group("/user", authenticate(verifier, identity.RoleUser))
	if options.limit > 0 {
		user.Use(limitPerUser(newUserLimiter(options.limit, options.burst)))
	}
	for _, route := range userRoutes(&handleFunctions) {
		user.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}

	admin := router.Group("/admin", authenticate(verifier, identity.RoleAdmin))
	for _, route := range adminRoutes(&handleFunctions) {
		admin.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

func userRoutes(h *ApiHandleFunctions) []Route {
	return []Route{
		{"AddAddress", http.MethodPost, "/addressBook", h.AddressBookAPI.Add},
		{"ListAddresses", http.MethodGet, "/addressBook/list", h.AddressBookAPI.List},
		{"GetAddress", http.MethodGet, "/addressBook/:id", h.AddressBookAPI.Get},
		{"ListDishes", http.MethodGet, "/dish/list", h.CatalogAPI.ListDishes},
		{"ListSetmeals", http.MethodGet, "/setmeal/list", h.CatalogAPI.ListSetmeals},
		{"AddToCart", http.MethodPost, "/shoppingCart/add", h.ShoppingCartAPI.Add},
		{"ListCart", http.MethodGet, "/shoppingCart/list", h.ShoppingCartAPI.List},
		{"SubFromCart", http.MethodPost, "/shoppingCart/sub", h.ShoppingCartAPI.Sub},
		{"CleanCart", http.MethodDelete, "/shoppingCart/clean", h.ShoppingCartAPI.Clean},
		{"SubmitOrder", http.MethodPost, "/order/submit", h.OrderAPI.Submit},
		{"PayOrder", http.MethodPut, "/order/payment", h.OrderAPI.Payment},
		{"HistoryOrders", http.MethodGet, "/order/historyOrders", h.OrderAPI.HistoryOrders},
		{"OrderDetail", http.MethodGet, "/order/orderDetail/:id", h.OrderAPI.OrderDetail},
		{"CancelOrder", http.MethodPut, "/order/cancel/:id", h.OrderAPI.Cancel},
		{"RepeatOrder", http.MethodPost, "/order/repetition/:id", h.OrderAPI.Repetition},
	}
}

func adminRoutes(h *ApiHandleFunctions) []Route {
	return []Route{
		{"SearchOrders", http.MethodGet, "/order/conditionSearch", h.AdminOrderAPI.ConditionSearch},
		{"OrderStatistics", http.MethodGet, "/order/statistics", h.AdminOrderAPI.Statistics},
		{"AdminOrderDetail", http.MethodGet, "/order/details/:id", h.AdminOrderAPI.Details},
		{"ConfirmOrder", http.MethodPut, "/order/confirm", h.AdminOrderAPI.Confirm},
		{"RejectOrder", http.MethodPut, "/order/rejection", h.AdminOrderAPI.Rejection},
		{"AdminCancelOrder", http.MethodPut, "/order/cancel", h.AdminOrderAPI.Cancel},
		{"DeliverOrder", http.MethodPut, "/order/delivery/:id", h.AdminOrderAPI.Delivery},
		{"CompleteOrder", http.MethodPut, "/order/complete/:id", h.AdminOrderAPI.Complete},
		{"CreateDish", http.MethodPost, "/dish", h.CatalogAPI.CreateDish},
		{"UpdateDish", http.MethodPut, "/dish", h.CatalogAPI.UpdateDish},
		{"DishStatus", http.MethodPost, "/dish/status/:status", h.CatalogAPI.DishStatus},
		{"CreateSetmeal", http.MethodPost, "/setmeal", h.CatalogAPI.CreateSetmeal},
		{"UpdateSetmeal", http.MethodPut, "/setmeal", h.CatalogAPI.UpdateSetmeal},
		{"SetmealStatus", http.MethodPost, "/setmeal/status/:status", h.CatalogAPI.SetmealStatus},
	}
}

// authenticate verifies the bearer token and stores the principal in the
// request context. Admin tokens are accepted on customer routes too.
func authenticate(verifier TokenVerifier, required identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			respondServiceError(c, identity.ErrUnauthenticated)
			return
		}
		principal, err := verifier.Verify(c.GetHeader("Authorization"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if required == identity.RoleAdmin && principal.Role != identity.RoleAdmin {
			respondError(c, http.StatusForbidden, errForbidden)
			return
		}
		c.Request = c.Request.WithContext(identity.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

var errRateLimited = errors.New("too many requests, slow down")

type userLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[int64]*rate.Limiter
}

func newUserLimiter(limit rate.Limit, burst int) *userLimiter {
	if burst < 1 {
		burst = 1
	}
	return &userLimiter{limit: limit, burst: burst, limiters: make(map[int64]*rate.Limiter)}
}

func (l *userLimiter) allow(userID int64) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

func limitPerUser(limiter *userLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := identity.UserID(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if !limiter.allow(userID) {
			respondError(c, http.StatusTooManyRequests, errRateLimited)
			return
		}
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "http request",
			slog.String("http.method", c.Request.Method),
			slog.String("http.route", c.FullPath()),
			slog.Int("http.status", c.Writer.Status()),
			slog.Duration("http.duration", time.Since(start)),
		)
	}
}
