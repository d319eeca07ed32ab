package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propertydesk/crm-api/internal/api/handler"
	"github.com/propertydesk/crm-api/internal/api/middleware"
	"github.com/propertydesk/crm-api/internal/core/domain"
	"github.com/propertydesk/crm-api/internal/core/service"
	"github.com/propertydesk/crm-api/internal/infrastructure/config"
	mongostore "github.com/propertydesk/crm-api/internal/infrastructure/db/mongo"
	redisstore "github.com/propertydesk/crm-api/internal/infrastructure/db/redis"
)

// loginRateLimit bounds credential attempts per client IP; generous enough
// for a fat-fingered password, tight enough to frustrate stuffing.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// NewRouter builds and returns the Echo instance with all routes
// registered. The lead dispatcher is constructed by the caller so its
// worker lifecycle stays under main's control.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, leads handler.LeadDispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("crm"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Repositories ---
	accountRepo := mongostore.NewAccountRepository(db)
	customerRepo := mongostore.NewCustomerRepository(db)
	propertyRepo := mongostore.NewPropertyRepository(db)
	dealRepo := mongostore.NewDealRepository(db)

	// --- Services ---
	authService := service.NewAuthService(accountRepo, log)
	sessionService := service.NewSessionService(
		cfg.Session.Secret,
		cfg.Session.TTL,
		cfg.Session.RefreshAfter,
		cfg.BaseURL,
		redisstore.NewRevocationStore(rdb),
		log,
	)
	customerService := service.NewCustomerService(customerRepo, log)
	propertyService := service.NewPropertyService(propertyRepo, log)
	dealService := service.NewDealService(dealRepo, propertyRepo, log)
	dashboardService := service.NewDashboardService(customerRepo, propertyRepo, dealRepo)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, sessionService)
	customerHandler := handler.NewCustomerHandler(customerService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	dealHandler := handler.NewDealHandler(dealService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	leadHandler := handler.NewLeadHandler(leads)
	adminHandler := handler.NewAdminHandler(accountRepo)
	pageHandler := handler.NewPageHandler()

	// Page routes run through the route guard; API routes authenticate with
	// the bearer/cookie session middleware instead.
	guard := middleware.NewGuard(sessionService)
	e.Use(guard.Middleware())

	// --- Auth handshake (rate limited on the credential endpoints) ---
	authLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register, authLimiter.Middleware())
	auth.POST("/login", authHandler.Login, authLimiter.Middleware())
	auth.GET("/session", authHandler.Session)
	auth.POST("/session", authHandler.UpdateSession)
	auth.POST("/logout", authHandler.Logout)

	// --- CRM API (session required, clients excluded) ---
	sessionMW := middleware.Session(sessionService)
	staffOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleAgent)

	crm := e.Group("/api", sessionMW, staffOnly)
	crm.POST("/customers", customerHandler.Create)
	crm.GET("/customers", customerHandler.List)
	crm.POST("/properties", propertyHandler.Create)
	crm.GET("/properties", propertyHandler.List)
	crm.PATCH("/properties/:code/status", propertyHandler.ChangeStatus)
	crm.POST("/deals", dealHandler.Create)
	crm.GET("/deals", dealHandler.List)
	crm.PATCH("/deals/:id/stage", dealHandler.AdvanceStage)
	crm.GET("/dashboard", dashboardHandler.Overview)

	// --- Admin API ---
	admin := e.Group("/api/admin", sessionMW, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/accounts", adminHandler.ListAccounts)

	// --- Public lead intake (no session; the marketing site posts here) ---
	e.POST("/api/leads", leadHandler.Receive)
	e.POST("/api/leads/batch", leadHandler.ReceiveBatch)

	// --- Pages ---
	e.GET("/", pageHandler.Home)
	e.GET("/auth/signin", pageHandler.SignIn)
	e.GET("/auth/signup", pageHandler.SignUp)
	e.GET("/auth/error", pageHandler.AuthError)
	e.GET("/about", pageHandler.Static("about", "About PropertyDesk"))
	e.GET("/contact", pageHandler.Static("contact", "Contact us"))
	e.GET("/privacy", pageHandler.Static("privacy", "Privacy policy"))
	e.GET("/terms", pageHandler.Static("terms", "Terms of service"))
	e.GET("/profile", pageHandler.Profile)
	e.GET("/dashboard", pageHandler.Static("dashboard", "Dashboard"))
	e.GET("/customers", pageHandler.Static("customers", "Customers"))
	e.GET("/properties", pageHandler.Static("properties", "Properties"))
	e.GET("/deals", pageHandler.Static("deals", "Deals"))
	e.GET("/admin", pageHandler.Static("admin", "Administration"))
	e.GET("/users", pageHandler.Static("users", "User management"))
	e.GET("/settings/users", pageHandler.Static("settings_users", "User settings"))

	// --- Ops endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
