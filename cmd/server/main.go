package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/tradelink/backend/internal/application/catalog"
	ediapp "github.com/tradelink/backend/internal/application/edi"
	partnerapp "github.com/tradelink/backend/internal/application/partner"
	tradeapp "github.com/tradelink/backend/internal/application/trade"
	domainedi "github.com/tradelink/backend/internal/domain/edi"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/infrastructure/cache"
	"github.com/tradelink/backend/internal/infrastructure/config"
	"github.com/tradelink/backend/internal/infrastructure/event"
	"github.com/tradelink/backend/internal/infrastructure/logger"
	"github.com/tradelink/backend/internal/infrastructure/persistence"
	"github.com/tradelink/backend/internal/infrastructure/scheduler"
	"github.com/tradelink/backend/internal/infrastructure/storage"
	"github.com/tradelink/backend/internal/infrastructure/telemetry"
	"github.com/tradelink/backend/internal/infrastructure/transport"
	"github.com/tradelink/backend/internal/interfaces/http/handler"
	"github.com/tradelink/backend/internal/interfaces/http/middleware"
	"github.com/tradelink/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting TradeLink Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Initialize OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize OpenTelemetry metrics
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Initialize OpenTelemetry log export and bridge zap into it
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore)
		log.Info("Logs bridged to OpenTelemetry collector")
	}

	// Continuous profiling (optional)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Profiling.Enabled,
		ServerAddress:   cfg.Profiling.ServerAddress,
		ApplicationName: cfg.App.Name,
		Environment:     cfg.App.Env,
		ProfileTypes:    []string{"cpu", "alloc_objects", "alloc_space"},
	}, log)
	if err != nil {
		log.Warn("Failed to start profiler, continuing without it", zap.Error(err))
	} else if profiler.IsEnabled() {
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", zap.Error(err))
			}
		}()
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database observability plugins
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	if cfg.Telemetry.Enabled {
		dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DBMetricsConfig{
			Enabled:            true,
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		} else if dbMetrics != nil {
			defer dbMetrics.Stop()
		}
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	partnerRepo := persistence.NewGormTradingPartnerRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	interchangeRepo := persistence.NewGormInterchangeRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Idempotency store for inbound message de-duplication
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Audit trail for interchange lifecycle events. Wrapped so a
	// redelivered event is logged once, not twice.
	auditHandler := event.NewIdempotentHandler(
		ediapp.NewInterchangeAuditHandler(log),
		idempotencyStore,
		log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			Enabled: true,
			TTL:     cfg.EDI.DedupTTL,
		}),
	)
	eventBus.Subscribe(auditHandler)

	// Interchange archive: S3-compatible object storage, or an in-memory
	// stub outside production
	var archive domainedi.InterchangeArchive
	if cfg.Archive.Enabled {
		s3Archive, err := storage.NewS3InterchangeArchive(&cfg.Archive)
		if err != nil {
			log.Fatal("Failed to initialize S3 archive", zap.Error(err))
		}
		archive = s3Archive
		log.Info("Interchange archive enabled",
			zap.String("bucket", cfg.Archive.Bucket),
			zap.String("region", cfg.Archive.Region))
	} else {
		archive = storage.NewInMemoryInterchangeArchive()
		log.Warn("Archive disabled, interchange payloads are held in memory only")
	}

	// Interchange transport: NATS Streaming, or a no-op publisher that
	// keeps outbound interchanges queued for the dispatcher
	var publisher domainedi.InterchangePublisher
	var stanTransport *transport.StanTransport
	if cfg.Transport.Enabled {
		stanTransport, err = transport.Connect(&cfg.Transport, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS Streaming", zap.Error(err))
		}
		defer func() {
			if err := stanTransport.Close(); err != nil {
				log.Error("Error closing streaming transport", zap.Error(err))
			}
		}()
		publisher = stanTransport
		log.Info("Streaming transport connected",
			zap.String("url", cfg.Transport.URL),
			zap.String("cluster", cfg.Transport.ClusterID))
	} else {
		publisher = transport.NewNoopPublisher(log)
		log.Warn("Transport disabled, outbound interchanges stay queued")
	}

	// Business metrics over the meter provider
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Telemetry.Enabled {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:           meterProvider.Meter("tradelink.business"),
			Logger:          log,
			BacklogProvider: telemetry.NewGormBacklogProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to create business metrics", zap.Error(err))
			businessMetrics = nil
		} else {
			businessMetrics.StartPeriodicCollection(ctx, time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo)
	partnerService := partnerapp.NewTradingPartnerService(partnerRepo)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, productRepo)
	purchaseOrderService.SetEventPublisher(eventBus)

	exchangeService := ediapp.NewExchangeService(ediapp.ExchangeServiceConfig{
		OrderRepo:       purchaseOrderRepo,
		PartnerRepo:     partnerRepo,
		ProductRepo:     productRepo,
		InterchangeRepo: interchangeRepo,
		Publisher:       publisher,
		Archive:         archive,
		Idempotency:     idempotencyStore,
		EventPublisher:  eventBus,
		BusinessMetrics: businessMetrics,
		Logger:          log,
		DedupTTL:        cfg.EDI.DedupTTL,
		DispatchWorkers: cfg.EDI.DispatchWorkers,
		MaxMessageSize:  cfg.EDI.MaxMessageSize,
	})

	// Subscribe for inbound interchanges from the transport. A duplicate
	// message reference is acked, not redelivered.
	if stanTransport != nil {
		err := stanTransport.SubscribeInbound(ctx, func(msgCtx context.Context, raw []byte) error {
			_, err := exchangeService.ProcessInbound(msgCtx, string(raw))
			if err != nil {
				var rejection *ediapp.RejectionError
				switch {
				case errors.As(err, &rejection):
					// Recorded as a rejected interchange; ack so it does
					// not redeliver.
					return nil
				case errors.Is(err, shared.ErrDuplicateMessage):
					return nil
				}
				return err
			}
			return nil
		})
		if err != nil {
			log.Fatal("Failed to subscribe for inbound interchanges", zap.Error(err))
		}
	}

	// Background re-dispatch of pending outbound interchanges
	dispatchScheduler, err := scheduler.NewDispatchScheduler(exchangeService, log, scheduler.DispatchSchedulerConfig{
		Enabled:   cfg.EDI.DispatchEnabled,
		Interval:  cfg.EDI.DispatchInterval,
		BatchSize: cfg.EDI.DispatchBatchSize,
	})
	if err != nil {
		log.Fatal("Failed to create dispatch scheduler", zap.Error(err))
	}
	if cfg.EDI.DispatchEnabled {
		if err := dispatchScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start dispatch scheduler", zap.Error(err))
		}
		defer func() {
			if err := dispatchScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping dispatch scheduler", zap.Error(err))
			}
		}()
		log.Info("Dispatch scheduler started",
			zap.Duration("interval", cfg.EDI.DispatchInterval),
			zap.Int("batch_size", cfg.EDI.DispatchBatchSize))
	}

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	partnerHandler := handler.NewTradingPartnerHandler(partnerService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	ediHandler := handler.NewEDIHandler(exchangeService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - OpenTelemetry spans per request
	// 4. Logger - Log requests
	// 5. Metrics - HTTP request metrics
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("tradelink.http"), cfg.Telemetry.Enabled))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Catalog domain (products)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/stats/summary", productHandler.GetStatusSummary)
	catalogRoutes.GET("/products/sku/:sku", productHandler.GetBySKU)
	catalogRoutes.GET("/products/gtin/:gtin", productHandler.GetByGTIN)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/:id/compliance", productHandler.GetCompliance)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.PUT("/products/:id/sku", productHandler.UpdateSKU)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)
	catalogRoutes.POST("/products/:id/activate", productHandler.Activate)
	catalogRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)
	catalogRoutes.POST("/products/:id/discontinue", productHandler.Discontinue)

	// Partner domain (trading partners)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/partners", partnerHandler.Create)
	partnerRoutes.GET("/partners", partnerHandler.List)
	partnerRoutes.GET("/partners/stats/summary", partnerHandler.GetStatusSummary)
	partnerRoutes.GET("/partners/code/:code", partnerHandler.GetByCode)
	partnerRoutes.GET("/partners/party/:partyId", partnerHandler.GetByPartyID)
	partnerRoutes.GET("/partners/:id", partnerHandler.GetByID)
	partnerRoutes.PUT("/partners/:id", partnerHandler.Update)
	partnerRoutes.DELETE("/partners/:id", partnerHandler.Delete)
	partnerRoutes.POST("/partners/:id/activate", partnerHandler.Activate)
	partnerRoutes.POST("/partners/:id/deactivate", partnerHandler.Deactivate)
	partnerRoutes.POST("/partners/:id/suspend", partnerHandler.Suspend)

	// Trade domain (purchase orders)
	tradeRoutes := router.NewDomainGroup("trade", "/trade")
	tradeRoutes.POST("/purchase-orders", purchaseOrderHandler.Create)
	tradeRoutes.GET("/purchase-orders", purchaseOrderHandler.List)
	tradeRoutes.GET("/purchase-orders/stats/summary", purchaseOrderHandler.GetStatusSummary)
	tradeRoutes.GET("/purchase-orders/number/:order_number", purchaseOrderHandler.GetByOrderNumber)
	tradeRoutes.GET("/purchase-orders/partner/:partner_id", purchaseOrderHandler.ListByPartner)
	tradeRoutes.GET("/purchase-orders/:id", purchaseOrderHandler.GetByID)
	tradeRoutes.PUT("/purchase-orders/:id", purchaseOrderHandler.Update)
	tradeRoutes.DELETE("/purchase-orders/:id", purchaseOrderHandler.Delete)
	tradeRoutes.POST("/purchase-orders/:id/items", purchaseOrderHandler.AddItem)
	tradeRoutes.PUT("/purchase-orders/:id/items/:item_id", purchaseOrderHandler.UpdateItem)
	tradeRoutes.DELETE("/purchase-orders/:id/items/:item_id", purchaseOrderHandler.RemoveItem)
	tradeRoutes.POST("/purchase-orders/:id/confirm", purchaseOrderHandler.Confirm)
	tradeRoutes.POST("/purchase-orders/:id/acknowledge", purchaseOrderHandler.Acknowledge)
	tradeRoutes.POST("/purchase-orders/:id/cancel", purchaseOrderHandler.Cancel)

	// EDI domain (message exchange, interchange audit trail)
	ediRoutes := router.NewDomainGroup("edi", "/edi")
	ediRoutes.POST("/orders/:id/encode", ediHandler.EncodeOrder)
	ediRoutes.POST("/inbound", ediHandler.ProcessInbound)
	ediRoutes.POST("/validate", ediHandler.ValidateMessage)
	ediRoutes.POST("/dispatch", ediHandler.DispatchPending)
	ediRoutes.GET("/interchanges", ediHandler.ListInterchanges)
	ediRoutes.GET("/interchanges/ref/:ref", ediHandler.GetInterchangeByRef)
	ediRoutes.GET("/interchanges/:id", ediHandler.GetInterchange)
	ediRoutes.GET("/interchanges/:id/payload", ediHandler.GetInterchangePayload)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(catalogRoutes).
		Register(partnerRoutes).
		Register(tradeRoutes).
		Register(ediRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
