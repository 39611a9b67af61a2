package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"github.com/fixora/accounts/application/event"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/application/usecase/auditlog"
	"github.com/fixora/accounts/application/usecase/user"
	"github.com/fixora/accounts/infrastructure/adapter/postgres"
	"github.com/fixora/accounts/infrastructure/config"
	httpRouter "github.com/fixora/accounts/infrastructure/http"
	"github.com/fixora/accounts/infrastructure/http/handler"
	"github.com/fixora/accounts/infrastructure/http/middleware"
	"github.com/fixora/accounts/infrastructure/service/jwt"
	"github.com/fixora/accounts/infrastructure/service/logger"
	"github.com/fixora/accounts/infrastructure/service/metrics"
	"github.com/fixora/accounts/infrastructure/service/password"
	"github.com/fixora/accounts/infrastructure/service/ratelimit"
	"github.com/fixora/accounts/infrastructure/service/revocation"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "accounts",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to open database", err, nil)
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	if cfg.AutoMigrate {
		if err := postgres.Migrate(db, "up"); err != nil {
			structuredLogger.Error(ctx, "Failed to migrate database", err, nil)
			log.Fatalf("Failed to migrate database: %v", err)
		}
		structuredLogger.Info(ctx, "Database schema up to date", nil)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			structuredLogger.Error(ctx, "Failed to ping redis", err, nil)
			log.Fatalf("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()
		structuredLogger.Info(ctx, "Redis connection established", nil)
	}

	var revocations outbound.TokenRevocationStore
	var rateLimitService ratelimit.RateLimitService
	if redisClient != nil {
		revocations = revocation.NewRedisStore(redisClient)
		rateLimitService = ratelimit.NewRedisRateLimitService(redisClient)
	} else {
		structuredLogger.Warn(ctx, "REDIS_URL not set, token revocation and rate limits are process-local", nil)
		revocations = revocation.NewMemoryStore()
		rateLimitService = ratelimit.NewMemoryRateLimitService()
	}
	if !cfg.RateLimitEnabled {
		rateLimitService = ratelimit.NewNoopRateLimitService()
	}

	tokenService, err := jwt.NewJWTService(cfg)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize JWT service", err, nil)
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(cfg.BcryptCost)
	appMetrics := metrics.New()

	userRepo := postgres.NewUserRepositoryAdapter(db)
	auditRepo := postgres.NewAuditLogRepositoryAdapter(db)

	bus := event.NewBus()
	bus.Subscribe(auditlog.NewAuditLogger(auditRepo, appMetrics, structuredLogger))

	userUseCase := user.NewUserUseCase(user.Dependencies{
		UserRepo:        userRepo,
		PasswordService: passwordService,
		TokenService:    tokenService,
		Revocations:     revocations,
		Transactor:      postgres.NewTransactor(db),
		Publisher:       bus,
		Logger:          structuredLogger,
	})
	auditLogUseCase := auditlog.NewViewLogUseCase(auditRepo, userRepo)

	router := httpRouter.NewRouter(httpRouter.RouterConfig{
		UserHandler:     handler.NewUserHandler(userUseCase),
		AuditLogHandler: handler.NewAuditLogHandler(auditLogUseCase),
		HealthHandler:   handler.NewHealthHandler(db),
		Auth:            middleware.NewAuthMiddleware(tokenService, revocations, userRepo, structuredLogger),
		RateLimit: middleware.NewRateLimitMiddleware(rateLimitService, ratelimit.RateLimitConfig{
			Enabled:  cfg.RateLimitEnabled,
			Attempts: cfg.RateLimitAttempts,
			Window:   cfg.RateLimitWindow,
		}, structuredLogger),
		Observer:       appMetrics,
		MetricsHandler: appMetrics.Handler(),
		Logger:         structuredLogger,

		CorrelationIDHeader:  cfg.LogCorrelationIDHeader,
		LogRequests:          cfg.LogEnableRequestLog,
		CORSEnabled:          cfg.CORSEnabled,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		CORSAllowCredentials: cfg.CORSAllowCredentials,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		structuredLogger.Info(ctx, "Starting server", map[string]interface{}{
			"addr": server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			structuredLogger.Error(ctx, "Server failed", err, map[string]interface{}{
				"addr": server.Addr,
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLogger.Info(ctx, "Shutting down server...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}
