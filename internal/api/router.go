package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studorg/counter-system/internal/api/handler"
	"github.com/studorg/counter-system/internal/api/middleware"
	"github.com/studorg/counter-system/internal/core/domain"
	"github.com/studorg/counter-system/internal/core/ports"
	"github.com/studorg/counter-system/internal/core/session"
	"github.com/studorg/counter-system/internal/infrastructure/http/handlers"
)

// Dependencies bundles everything the router needs. Services are constructed
// in main; the router only wires them to routes.
type Dependencies struct {
	Mongo      *mongo.Database
	Redis      *redis.Client
	JWTSecret  string
	Log        zerolog.Logger
	Auth       ports.AuthService
	Ledger     ports.LedgerService
	Catalog    ports.CatalogService
	Registry   *session.Registry
	Attendance ports.AttendanceRepository
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("counter"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	customerHandler := handler.NewCustomerHandler(deps.Ledger)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	sessionHandler := handler.NewSessionHandler(deps.Registry, deps.Catalog, deps.Attendance)
	ledgerHandler := handler.NewLedgerHandler(deps.Ledger)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health checks and operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated API ---
	auth := middleware.Auth(deps.JWTSecret)
	anyOperator := middleware.RBAC(domain.RoleAdmin, domain.RoleBarman)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group("/v1", auth)

	// Catalog management is admin territory; reading it is not.
	v1.POST("/products", catalogHandler.CreateProduct, adminOnly)
	v1.GET("/products", catalogHandler.ListProducts, anyOperator)
	v1.DELETE("/products/:id", catalogHandler.ArchiveProduct, adminOnly)
	v1.POST("/product-types", catalogHandler.CreateProductType, adminOnly)
	v1.GET("/product-types", catalogHandler.ListProductTypes, anyOperator)
	v1.POST("/counters", catalogHandler.CreateCounter, adminOnly)
	v1.GET("/counters", catalogHandler.ListCounters, anyOperator)

	// Accounts
	v1.POST("/customers", customerHandler.Create, adminOnly)
	v1.GET("/customers/:account_id", customerHandler.Statement, anyOperator)
	v1.GET("/customers/:account_id/transactions", customerHandler.Transactions, anyOperator)

	// Counter sessions and attendance
	v1.POST("/counters/:id/session", sessionHandler.Login, anyOperator)
	v1.DELETE("/counters/:id/session", sessionHandler.Logout, anyOperator)
	v1.DELETE("/counters/:id/session/:operator_id", sessionHandler.LogoutOperator, adminOnly)
	v1.GET("/counters/:id/session", sessionHandler.List, anyOperator)
	v1.GET("/counters/:id/permanencies", sessionHandler.Permanencies, anyOperator)

	// Transactions
	v1.POST("/counters/:id/sales", ledgerHandler.CreateSale, anyOperator)
	v1.POST("/counters/:id/refills", ledgerHandler.CreateRefill, anyOperator)

	return e
}
