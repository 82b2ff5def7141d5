package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	customerapp "github.com/erp/custadmin/internal/application/customer"
	"github.com/erp/custadmin/internal/domain/customer"
	"github.com/erp/custadmin/internal/infrastructure/auth"
	"github.com/erp/custadmin/internal/infrastructure/config"
	"github.com/erp/custadmin/internal/infrastructure/logger"
	"github.com/erp/custadmin/internal/infrastructure/persistence"
	"github.com/erp/custadmin/internal/infrastructure/telemetry"
	"github.com/erp/custadmin/internal/interfaces/http/middleware"
	"github.com/erp/custadmin/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
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

	log.Info("Starting customer admin API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)
	if cfg.JWT.UsingDefaultSecret {
		log.Warn("jwt.secret is not set, using the built-in development secret; tokens are forgeable")
	}

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := meterProvider.Meter(telemetry.MeterName)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL && !cfg.App.IsProduction(),
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	poolMetrics, err := telemetry.RegisterPoolMetrics(meter, func() (telemetry.PoolStats, error) {
		stats, err := db.Stats()
		if err != nil {
			return telemetry.PoolStats{}, err
		}
		return telemetry.PoolStats{
			MaxOpen: stats.MaxOpenConnections,
			InUse:   stats.InUse,
			Idle:    stats.Idle,
		}, nil
	})
	if err != nil {
		log.Fatal("Failed to register pool metrics", zap.Error(err))
	}
	defer func() {
		_ = poolMetrics.Unregister()
	}()

	customerMetrics, err := telemetry.NewCustomerMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create customer metrics", zap.Error(err))
	}

	customerService := customerapp.NewCustomerService(
		persistence.NewGormCustomerRepository(db.DB),
		customer.NewIDGeneratorForMode(customer.SystemClock{}, cfg.Customer.IDSuffix),
		customer.NewPlanner(customer.DefaultRecognizedColumns(), cfg.Customer.PageSize),
	)
	customerService.SetMetrics(customerMetrics)

	jwtService := auth.NewJWTService(cfg.JWT)
	gateOpts := []auth.GateOption{auth.WithGateLogger(log)}
	if cfg.Redis.Enabled {
		revocations, err := auth.NewRedisRevocationList(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = revocations.Close()
		}()
		gateOpts = append(gateOpts, auth.WithRevocationList(revocations))
		log.Info("Token revocation list enabled", zap.String("addr", cfg.Redis.Addr()))
	}
	gate := auth.NewGate(jwtService, gateOpts...)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	httpMeter := meter
	if !meterProvider.IsEnabled() {
		httpMeter = nil
	}
	engine, err := router.NewEngine(router.Deps{
		Logger:    log,
		Customers: customerService,
		Gate:      gate,
		DB:        db,
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		MaxBodySize: cfg.HTTP.MaxBodySize,
		Meter:       httpMeter,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

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
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
