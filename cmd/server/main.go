package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/erp/ticketing/docs"
	"github.com/erp/ticketing/internal/application/portal"
	ticketapp "github.com/erp/ticketing/internal/application/ticket"
	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/infrastructure/auth"
	"github.com/erp/ticketing/internal/infrastructure/cache"
	"github.com/erp/ticketing/internal/infrastructure/config"
	"github.com/erp/ticketing/internal/infrastructure/event"
	"github.com/erp/ticketing/internal/infrastructure/frappe"
	"github.com/erp/ticketing/internal/infrastructure/logger"
	"github.com/erp/ticketing/internal/infrastructure/migration"
	"github.com/erp/ticketing/internal/infrastructure/persistence"
	"github.com/erp/ticketing/internal/infrastructure/printing"
	"github.com/erp/ticketing/internal/infrastructure/storage"
	"github.com/erp/ticketing/internal/infrastructure/telemetry"
	"github.com/erp/ticketing/internal/interfaces/http/handler"
	"github.com/erp/ticketing/internal/interfaces/http/router"
	"github.com/erp/ticketing/migrations"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//	@title			Ticketing API
//	@version		1.0
//	@description	Ticket automation on top of an ERP: quotations, sales orders, invoices and payments in one submit.

//	@contact.name	API Support
//	@contact.url	https://github.com/erp/ticketing

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

// idempotencyTTL bounds how long a handled event ID is remembered
const idempotencyTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// The OTLP log bridge needs a logger of its own before the bridged one exists
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: logProvider,
			Level:          logger.ParseLevel(cfg.Log.Level),
		})
		if log, err = logger.New(logCfg, otelCore); err != nil {
			panic("Failed to initialize bridged logger: " + err.Error())
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ticketing service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("gateway", cfg.Gateway.Backend),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.PyroscopeAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileCPU:        true,
		ProfileAllocSpace: true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Telemetry.ProfilingEnabled && cfg.Telemetry.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := plugin.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	if err := runMigrations(cfg.Database.DSN(), log); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}

	// Sales gateway
	var gateway sales.Gateway
	switch cfg.Gateway.Backend {
	case config.BackendFrappe:
		siteCfg := frappe.NewConfig(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.APISecret)
		if cfg.Gateway.Timeout > 0 {
			siteCfg.Timeout = cfg.Gateway.Timeout
		}
		frappeGateway, err := frappe.NewGateway(siteCfg)
		if err != nil {
			log.Fatal("Failed to create Frappe gateway", zap.Error(err))
		}
		gateway = frappeGateway
	default:
		gateway = persistence.NewGormLedgerGateway(db.DB)
	}

	// Redis-backed stores fall back to memory when Redis is down
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, token revocation is process-local", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() {
			_ = redisBlacklist.Close()
		}()
		blacklist = redisBlacklist
	}

	ticketMetrics, err := telemetry.NewTicketMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create ticket metrics", zap.Error(err))
	}

	// Ticket services
	ticketRepo := persistence.NewGormTicketAutomationRepository(db.DB)
	cycle := ticketapp.NewSalesCycle(gateway, log,
		ticketapp.WithSubmitGuard(idempotencyStore, cfg.Ticket.SubmitLockTTL),
		ticketapp.WithCycleMetrics(ticketMetrics, cfg.Gateway.Backend),
	)
	ticketService := ticketapp.NewTicketService(ticketRepo, gateway, cycle, log)
	ticketService.SetMetrics(ticketMetrics)
	ticketService.SetDefaults(ticketapp.Defaults{
		Company:       cfg.Ticket.DefaultCompany,
		ModeOfPayment: cfg.Ticket.DefaultModeOfPayment,
	})

	var archive ticketapp.DocumentArchive
	if cfg.Storage.Bucket != "" {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare archive bucket", zap.Error(err))
		}
		archive = s3
	} else {
		log.Warn("No storage bucket configured, printed tickets are not archived")
	}

	renderer := printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.Print, log))
	defer func() {
		_ = renderer.Close()
	}()

	var printer handler.TicketPrinter
	ticketPrinter, err := printing.NewTicketPrinter(printing.NewTemplateEngine(cfg.Print.Locale), renderer)
	if err != nil {
		log.Error("Ticket printing disabled", zap.Error(err))
	} else {
		printService := ticketapp.NewPrintService(ticketRepo, ticketPrinter, archive, log)
		printService.SetLinkExpiry(cfg.Storage.PresignExpiry)
		printer = printService
	}

	// Event bus
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	eventBus := event.NewInMemoryEventBus(log)
	if printService, ok := printer.(*ticketapp.PrintService); ok && archive != nil {
		archiveHandler := ticketapp.NewSalesCycleCompletedHandler(printService, log)
		eventBus.Subscribe(event.NewIdempotentHandler(archiveHandler, idempotencyStore, idempotencyTTL, log), archiveHandler.EventTypes()...)
	}
	if cfg.NATS.URL != "" {
		conn, err := event.Connect(cfg.NATS.URL, cfg.App.Name, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer conn.Close()
		eventBus.Subscribe(event.NewNATSForwarder(conn, eventSerializer, cfg.NATS.SubjectPrefix, log))
	}
	ticketService.SetEventPublisher(eventBus)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Portal
	jwtService := auth.NewJWTService(cfg.JWT)
	portalService := portal.NewPortalService(
		persistence.NewGormUserRepository(db.DB),
		persistence.NewGormRegistrationStore(db.DB),
		jwtService,
		log,
	)
	portalService.SetTokenBlacklist(blacklist)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(router.Dependencies{
		Config:     cfg,
		Logger:     log,
		Meter:      meter,
		JWT:        jwtService,
		Blacklist:  blacklist,
		Tickets:    ticketService,
		Printer:    printer,
		Quotations: ticketService,
		Portal:     portalService,
		DB:         sqlDB,
		Version:    version,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing traces", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing logs", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runMigrations brings the schema to the newest embedded version on a dedicated connection
func runMigrations(dsn string, log *zap.Logger) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	m, err := migration.New(conn, migrations.FS, log)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer m.Close()
	return m.Up()
}
