package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/cakeorder/bakery-storefront/internal/api/handler"
	"github.com/cakeorder/bakery-storefront/internal/api/metrics"
	"github.com/cakeorder/bakery-storefront/internal/api/middleware"
	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
	"github.com/cakeorder/bakery-storefront/internal/infrastructure/http/handlers"
)

// Dependencies are the services and probes the router wires into handlers.
// Redis may be nil when the checkout lock is disabled.
type Dependencies struct {
	Auth     ports.AuthService
	Accounts ports.AccountService
	Orders   ports.OrderService
	Catalog  ports.CatalogService
	Carts    ports.CartService

	Mongo handlers.MongoPinger
	Redis handlers.RedisPinger

	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(metrics.Middleware())

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Accounts)
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	cartHandler := handler.NewCartHandler(deps.Carts)
	orderHandler := handler.NewOrderHandler(deps.Orders)
	adminHandler := handler.NewAdminHandler(deps.Accounts, deps.Orders, deps.Catalog)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// --- Public shop ---
	v1 := e.Group("/v1")
	v1.GET("/shop", catalogHandler.ListPage)
	v1.GET("/shop/:id", catalogHandler.Get)
	v1.GET("/shop/:id/images", catalogHandler.ListImages)
	v1.GET("/images/:id", catalogHandler.Image)

	// --- Signed-in account ---
	user := v1.Group("", authMiddleware, middleware.RBAC(domain.RoleUser, domain.RoleAdmin))
	user.GET("/cart", cartHandler.List)
	user.GET("/cart/summary", cartHandler.Summary)
	user.POST("/cart", cartHandler.Add)
	user.PUT("/cart/:item_id", cartHandler.SetQuantity)
	user.DELETE("/cart/:item_id", cartHandler.Remove)

	user.POST("/orders", orderHandler.Checkout)
	user.GET("/orders", orderHandler.List)

	user.GET("/account", accountHandler.Get)
	user.PUT("/account", accountHandler.Update)
	user.PUT("/account/password", accountHandler.ChangePassword)
	user.DELETE("/account", accountHandler.Delete)

	// --- Back office ---
	admin := v1.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/accounts", adminHandler.ListAccounts)
	admin.GET("/accounts/:id", adminHandler.GetAccount)
	admin.PUT("/accounts/:id/role", adminHandler.SetRole)
	admin.DELETE("/accounts/:id", adminHandler.DeleteAccount)
	admin.GET("/accounts/:id/orders", adminHandler.AccountOrders)
	admin.POST("/accounts/:id/orders/confirm", adminHandler.ConfirmAccountOrder)
	admin.POST("/accounts/:id/orders/unconfirm", adminHandler.UnconfirmAccountOrder)

	admin.GET("/orders", adminHandler.ListOrders)
	admin.GET("/orders/:id", adminHandler.GetOrder)
	admin.POST("/orders/:id/confirm", adminHandler.ConfirmOrder)
	admin.POST("/orders/:id/unconfirm", adminHandler.UnconfirmOrder)

	admin.GET("/items", adminHandler.ListItems)
	admin.POST("/items", adminHandler.CreateItem)
	admin.PUT("/items/:id", adminHandler.UpdateItem)
	admin.DELETE("/items/:id", adminHandler.DeleteItem)
	admin.POST("/items/:id/images", adminHandler.AddImage)
	admin.DELETE("/images/:id", adminHandler.DeleteImage)

	// --- Operations ---
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
