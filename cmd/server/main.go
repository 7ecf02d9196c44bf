package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	catalogapp "github.com/realmfikri/pos-shoestore/internal/application/catalog"
	ledgerapp "github.com/realmfikri/pos-shoestore/internal/application/ledger"
	partnerapp "github.com/realmfikri/pos-shoestore/internal/application/partner"
	purchasingapp "github.com/realmfikri/pos-shoestore/internal/application/purchasing"
	salesapp "github.com/realmfikri/pos-shoestore/internal/application/sales"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/auth"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/cache"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/config"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/event"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/logger"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/migration"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/persistence"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/telemetry"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/handler"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/middleware"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/router"
	"github.com/realmfikri/pos-shoestore/migrations"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	migrateOnStart := flag.Bool("migrate", false, "apply pending migrations before serving")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()
	telCfg := telemetry.ConfigFrom(cfg.Telemetry, version)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize log provider", zap.Error(err))
	}
	log = logProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting POS server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register request validators", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracing(telemetry.DBTracingConfig{
			Enabled:         cfg.Telemetry.Enabled,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBName:          cfg.Database.DBName,
		}, log)
		if err := dbTracing.Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	if *migrateOnStart {
		if err := applyMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	entryRepo := persistence.NewGormEntryRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	receiptRepo := persistence.NewGormGoodsReceiptRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB, cfg.Database.LockTimeout)

	// Services
	catalogService := catalogapp.NewProductService(productRepo, variantRepo, entryRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	ledgerService := ledgerapp.NewService(scope, entryRepo, variantRepo, log)
	saleService := salesapp.NewService(scope, saleRepo, variantRepo, log)
	purchasingService := purchasingapp.NewService(scope, orderRepo, receiptRepo, supplierRepo, variantRepo, log)

	// Domain events
	posMetrics, err := telemetry.NewPOSMetricsFromProvider(meterProvider, log)
	if err != nil {
		log.Fatal("Failed to create POS metrics", zap.Error(err))
	}
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(posMetrics)
	eventBus.Subscribe(ledgerapp.NewLowStockHandler(ledgerService, cfg.Inventory.LowStockThreshold, log))

	if cfg.Kafka.Enabled {
		forwarder := event.NewKafkaForwarder(event.NewKafkaWriter(cfg.Kafka, log), event.NewDomainSerializer(), log)
		eventBus.Subscribe(forwarder)
		defer func() {
			if err := forwarder.Close(); err != nil {
				log.Error("Error closing Kafka forwarder", zap.Error(err))
			}
		}()
		log.Info("Kafka event forwarding enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	ledgerService.SetEventPublisher(eventBus)
	ledgerService.SetIntegrityReporter(posMetrics)
	saleService.SetEventPublisher(eventBus)
	purchasingService.SetEventPublisher(eventBus)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	saleService.SetIdempotencyStore(idempotencyStore, cfg.HTTP.IdempotencyTTL)

	// HTTP
	engine := router.NewEngine(router.EngineConfig{
		Logger:      log,
		HTTP:        cfg.HTTP,
		AuthEnabled: cfg.Auth.Enabled,
		JWTService:  auth.NewJWTService(cfg.JWT),
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     cfg.Telemetry.Enabled,
		Rejections:  posMetrics,
	})
	handler.NewHealthHandler(db, version).RegisterRoutes(engine)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewCatalogHandler(catalogService)).
		Register(handler.NewSupplierHandler(supplierService)).
		Register(handler.NewLedgerHandler(ledgerService)).
		Register(handler.NewSaleHandler(saleService)).
		Register(handler.NewPurchaseOrderHandler(purchasingService)).
		Setup()

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

	// Flush telemetry last so shutdown logs and spans are exported
	for _, shutdown := range []func(context.Context) error{
		tracerProvider.Shutdown,
		meterProvider.Shutdown,
		logProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

func applyMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	return m.Up()
}
