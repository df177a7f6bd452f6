package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/99minutos/auth-system/internal/api/handler"
	"github.com/99minutos/auth-system/internal/api/middleware"
	"github.com/99minutos/auth-system/internal/core/ports"
	"github.com/99minutos/auth-system/internal/infrastructure/http/handlers"
)

// Common carries what both services configure the same way.
type Common struct {
	Log         zerolog.Logger
	CORSOrigins []string
	// Readiness checks run by GET /health/ready, keyed by dependency name.
	Readiness map[string]handlers.Check
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

type AuthRouterConfig struct {
	Common
	Service ports.AuthService
	// LoginRateLimit is requests per second per client IP on /login.
	// Zero disables the limiter.
	LoginRateLimit float64
	LoginRateBurst int
}

type ProductRouterConfig struct {
	Common
	Service   ports.ProductService
	Validator middleware.TokenValidator
}

// NewAuthRouter builds the auth-service Echo instance.
func NewAuthRouter(cfg AuthRouterConfig) *echo.Echo {
	e := newEcho(cfg.Common, "auth_service", "auth")

	authHandler := handler.NewAuthHandler(cfg.Service)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login, loginLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)...)
	e.GET("/validate", authHandler.Validate)
	e.POST("/logout", authHandler.Logout)

	registerHealth(e, "auth", cfg.Readiness, cfg.Log)
	return e
}

// NewProductRouter builds the product-service Echo instance. Every product
// route is gated by RequireAuth.
func NewProductRouter(cfg ProductRouterConfig) *echo.Echo {
	e := newEcho(cfg.Common, "product_service", "products")

	productHandler := handler.NewProductHandler(cfg.Service)

	// --- Product routes (auth required) ---
	g := e.Group("/products", middleware.RequireAuth(cfg.Validator))
	g.GET("", handler.WithUser(productHandler.List))
	g.POST("", handler.WithUser(productHandler.Create))
	g.GET("/:id", handler.WithUser(productHandler.Get))

	registerHealth(e, "products", cfg.Readiness, cfg.Log)
	return e
}

func newEcho(cfg Common, subsystem, swaggerInstance string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler()

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	// The request logger is the single place 5xx responses are logged; it
	// sits outside Recover so recovered panics get their line too.
	e.Use(middleware.RequestLogger(cfg.Log))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  subsystem,
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(swaggerInstance)))

	return e
}

func registerHealth(e *echo.Echo, service string, checks map[string]handlers.Check, log zerolog.Logger) {
	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler(service)
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks, log)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
}

func loginLimiter(perSecond float64, burst int) []echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return []echo.MiddlewareFunc{
		echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
			Store: store,
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
		}),
	}
}
