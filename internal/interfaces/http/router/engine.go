package router

import (
	"time"

	"github.com/erp/ticketing/internal/infrastructure/auth"
	"github.com/erp/ticketing/internal/infrastructure/config"
	"github.com/erp/ticketing/internal/infrastructure/logger"
	"github.com/erp/ticketing/internal/interfaces/http/handler"
	"github.com/erp/ticketing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// Dependencies are the services and settings the HTTP layer is built from
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger
	// Meter records HTTP metrics; nil disables them
	Meter metric.Meter

	JWT       *auth.JWTService
	Blacklist auth.TokenBlacklist

	Tickets    handler.TicketService
	Printer    handler.TicketPrinter
	Quotations handler.QuotationLookup
	Portal     handler.PortalService

	// DB is pinged by /health; nil reports the database as not configured
	DB      handler.Pinger
	Version string
}

// NewEngine builds the gin engine with the global middleware chain and every route
func NewEngine(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	meter := deps.Meter
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("ticketing")
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// order: request id before logging, tracing before anything that reads the span
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(meter, log))

	systemHandler := handler.NewSystemHandler(deps.Version, deps.DB)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerGuard(cfg.Swagger.Enabled, cfg.Swagger.AllowedIPs),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	defaultTenant, err := uuid.Parse(cfg.App.DefaultTenant)
	if err != nil {
		defaultTenant = uuid.MustParse(config.DefaultTenantID)
	}
	tenant := middleware.Tenant(middleware.TenantConfig{Default: defaultTenant, Logger: log})
	requireAuth := middleware.JWTAuth(middleware.JWTConfig{
		JWTService: deps.JWT,
		Blacklist:  deps.Blacklist,
		Logger:     log,
	})

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(authRoutes(deps, cfg, tenant, requireAuth))

	protected := []gin.HandlerFunc{tenant, middleware.SpanEnricher(), middleware.Profiling(cfg.Telemetry.ProfilingEnabled)}
	if cfg.JWT.Enabled {
		protected = append([]gin.HandlerFunc{requireAuth}, protected...)
	} else {
		log.Warn("JWT authentication is disabled; ticket routes are open")
	}

	ticketHandler := handler.NewTicketAutomationHandler(deps.Tickets, deps.Printer)
	tickets := NewDomainGroup("ticket-automations", "/ticket-automations").Use(protected...)
	tickets.POST("", ticketHandler.Create)
	tickets.GET("", ticketHandler.List)
	tickets.GET("/by-name/:name", ticketHandler.GetByName)
	tickets.GET("/:id", ticketHandler.GetByID)
	tickets.PUT("/:id", ticketHandler.Update)
	tickets.DELETE("/:id", ticketHandler.Delete)
	tickets.POST("/:id/refresh-quotations", ticketHandler.RefreshQuotations)
	tickets.POST("/:id/submit", ticketHandler.Submit)
	tickets.GET("/:id/print", ticketHandler.Print)
	tickets.POST("/:id/archive", ticketHandler.Archive)

	quotationHandler := handler.NewQuotationHandler(deps.Quotations)
	quotations := NewDomainGroup("quotations", "/quotations").Use(protected...)
	quotations.GET("", quotationHandler.ListDrafts)

	r.Register(tickets).Register(quotations)
	r.Setup()

	return engine
}

// authRoutes are the public portal endpoints; logout alone needs a token
func authRoutes(deps Dependencies, cfg *config.Config, tenant, requireAuth gin.HandlerFunc) *DomainGroup {
	portalHandler := handler.NewPortalAuthHandler(deps.Portal)

	group := NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimit > 0 {
		window := cfg.HTTP.AuthRateWindow
		if window <= 0 {
			window = time.Minute
		}
		group.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, window)))
	}
	group.Use(tenant)

	group.POST("/register", portalHandler.Register)
	group.POST("/login", portalHandler.Login)
	group.POST("/refresh", portalHandler.Refresh)
	group.POST("/logout", requireAuth, portalHandler.Logout)
	return group
}
