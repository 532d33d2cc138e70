package main

import (
	"context"   // Context for startup checks and shutdown
	"errors"    // Server closed detection
	"net/http"  // HTTP server
	"os/signal" // Shutdown on SIGINT/SIGTERM
	"syscall"   // Signal numbers
	"time"      // Shutdown timeout

	"consciousbet/internal/api"        // Custom package for API handlers
	"consciousbet/internal/auth"       // JWT issuing and checking
	"consciousbet/internal/cache"      // Redis read-model cache
	"consciousbet/internal/config"     // Custom package for configuration
	"consciousbet/internal/db"         // Database connection and schema
	"consciousbet/internal/events"     // Bet lifecycle events
	"consciousbet/internal/metrics"    // Prometheus collectors
	"consciousbet/internal/repository" // GORM backed store
	"consciousbet/internal/service"    // Business operations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	setupLogger(cfg)

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database and bring the schema up to date
	gdb, err := db.Open(cfg.DSN(), cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		logrus.Fatalf("failed to access DB pool: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	redisCache := cache.New(redisClient, cfg.CacheTTL)

	// Test Redis connection
	if err := redisCache.Ping(context.Background()); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Kafka publisher, only when brokers are configured
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(events.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		logrus.WithFields(logrus.Fields{"brokers": cfg.KafkaBrokers, "topic": cfg.KafkaTopic}).Info("Publishing bet events")
	}
	defer publisher.Close()

	metrics.Init() // Register Prometheus collectors

	// Wire services
	store := repository.NewStore(gdb)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(store, tokens)

	// Seed the admin login
	if created, err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logrus.Fatalf("failed to seed admin: %v", err)
	} else if !created {
		logrus.WithField("email", cfg.AdminEmail).Debug("Admin already present")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		Auth:        authService,
		Users:       service.NewUserService(store, redisCache),
		Bets:        service.NewBetService(store, redisCache, publisher),
		Risk:        service.NewRiskService(store, redisCache),
		Tokens:      tokens,
		Credentials: store.Credentials(),
		Health: func(ctx context.Context) error {
			if err := sqlDB.PingContext(ctx); err != nil {
				return err // Database unreachable
			}
			return redisCache.Ping(ctx) // Redis unreachable
		},
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort, // Listen address
		Handler:           r,                 // Gin router
		ReadHeaderTimeout: 10 * time.Second,  // Header read deadline
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done() // Wait for a shutdown signal
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
	_ = redisClient.Close()
	_ = sqlDB.Close()
}

// setupLogger configures the global logrus logger
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine readable logs in production
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel // Unknown level names fall back to info
	}
	logrus.SetLevel(level)
}
