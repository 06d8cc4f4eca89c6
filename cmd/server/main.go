package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	checkoutapp "github.com/partsshop/storefront/internal/application/checkout"
	reportapp "github.com/partsshop/storefront/internal/application/report"
	shippingapp "github.com/partsshop/storefront/internal/application/shipping"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/partsshop/storefront/internal/infrastructure/auth"
	"github.com/partsshop/storefront/internal/infrastructure/cache"
	"github.com/partsshop/storefront/internal/infrastructure/config"
	"github.com/partsshop/storefront/internal/infrastructure/event"
	"github.com/partsshop/storefront/internal/infrastructure/logger"
	"github.com/partsshop/storefront/internal/infrastructure/migration"
	"github.com/partsshop/storefront/internal/infrastructure/persistence"
	"github.com/partsshop/storefront/internal/infrastructure/storage"
	"github.com/partsshop/storefront/internal/infrastructure/telemetry"
	"github.com/partsshop/storefront/internal/interfaces/http/handler"
	"github.com/partsshop/storefront/internal/interfaces/http/middleware"
	"github.com/partsshop/storefront/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/partsshop/storefront/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const version = "1.0.0"

//	@title			Parts Storefront API
//	@version		1.0
//	@description	Shipping rate calculation and guided checkout for the parts storefront.

//	@contact.name	Storefront Support
//	@contact.email	support@partsshop.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin bearer token. Format: "Bearer {token}"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		os.Exit(hashPassword(os.Args[2:]))
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server terminated", zap.Error(err))
	}
}

// hashPassword prints the bcrypt hash for auth.admin_password_hash
func hashPassword(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: server hash-password <password>")
		return 2
	}
	hash, err := auth.HashPassword(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(hash)
	return 0
}

func run(cfg *config.Config, baseLog *zap.Logger) error {
	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		return err
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		return err
	}
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             cfg.Telemetry.LogsLevel,
	}, baseLog)
	if err != nil {
		return err
	}
	log := lp.Bridge(baseLog)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
		ProfileTypes:    cfg.Telemetry.ProfileTypes,
	}, log)
	if err != nil {
		return err
	}
	if profiler.IsEnabled() {
		tp.EnableSpanProfiles()
	}

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	if err := migrate(cfg, db, log); err != nil {
		return err
	}
	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log).Register(db.DB); err != nil {
		return err
	}

	// Checkout sessions and placement keys
	stores, err := cache.NewStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Failed to close checkout stores", zap.Error(err))
		}
	}()

	// Shipping tables
	source, err := storage.NewTablesSource(ctx, cfg.Shipping.TablesSource, &cfg.Storage)
	if err != nil {
		return err
	}
	tables, err := storage.LoadTables(ctx, source, log)
	if err != nil {
		return err
	}
	resolver := shipping.NewResolver(tables)

	metrics, err := telemetry.NewStoreMetrics(mp.Meter("storefront"), log)
	if err != nil {
		return err
	}

	// Application services
	shippingService := shippingapp.NewService(resolver, log)
	shippingService.SetMetrics(metrics)

	bus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch())
	reportHandler := event.NewIdempotentHandler(
		reportapp.NewShippingReportHandler(metrics, log),
		stores.Idempotency,
		shared.DefaultIdempotencyConfig(),
		log,
	)
	bus.Subscribe(reportHandler, reportHandler.EventTypes()...)

	orders := persistence.NewGormOrderRepository(db.DB)
	checkoutService := checkoutapp.NewService(stores.Sessions, orders, resolver, stores.Idempotency, log)
	checkoutService.SetEventPublisher(bus)
	checkoutService.SetPlacementTTL(cfg.Checkout.PlacementTTL)

	reportService := reportapp.NewShippingReportService(orders)

	// Admin auth
	var revoked auth.TokenRevocationList = auth.NewInMemoryRevocationList()
	if stores.Redis != nil {
		revoked = auth.NewRedisRevocationList(stores.Redis)
	}
	authenticator := auth.NewAdminAuthenticator(
		cfg.Auth.AdminUsername,
		cfg.Auth.AdminPasswordHash,
		auth.NewJWTService(cfg.JWT),
		revoked,
	)

	// HTTP
	engine, err := router.NewEngine(cfg, log)
	if err != nil {
		return err
	}

	healthChecks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if stores.Redis != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return stores.Redis.Ping(ctx).Err() }
	}
	health := handler.NewHealthHandler(version, healthChecks)
	engine.GET("/health", health.Health)
	engine.GET("/health/live", health.Live)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger.Enabled, nil),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	guards := router.Guards{AdminAuth: middleware.AdminAuth(authenticator, log)}
	if cfg.HTTP.CalculateRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.CalculateRateLimit, time.Minute)
		defer limiter.Stop()
		guards.CalculateLimit = middleware.RateLimit(limiter)
	}
	if cfg.HTTP.LoginRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, time.Minute)
		defer limiter.Stop()
		guards.LoginLimit = middleware.RateLimit(limiter)
	}

	r := router.NewRouter(engine)
	r.Register(router.StorefrontGroups(router.Handlers{
		Shipping: handler.NewShippingHandler(shippingService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Orders:   handler.NewOrderHandler(checkoutService),
		Admin:    handler.NewAdminHandler(shippingService, reportService, authenticator),
	}, guards)...)
	r.Setup()
	for _, route := range r.Routes() {
		log.Debug("Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Failed to stop profiler", zap.Error(err))
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tp.Shutdown,
		"meter":  mp.Shutdown,
		"logs":   lp.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.String("provider", name), zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
	return nil
}

// migrate brings the schema up to date. PostgreSQL uses the SQL migrations;
// SQLite, or an explicit auto_migrate, uses the GORM models.
func migrate(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.Driver == "sqlite" || cfg.Database.AutoMigrate {
		log.Info("Auto-migrating order tables", zap.String("driver", cfg.Database.Driver))
		return db.AutoMigrate()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	m, err := migration.New(sqlDB, log)
	if err != nil {
		return err
	}
	return m.Up()
}
