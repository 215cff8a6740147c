package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/internal/clients"
	"storefront/internal/delivery"
	grpcHandler "storefront/internal/delivery/grpc"
	"storefront/internal/delivery/middleware"
	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	gin.SetMode(cfg.GinMode)
	logger.Info("Starting Storefront Service...")
	logger.Infof("Log level set to: %s", logLevel.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	if cfg.MigrationsAuto {
		if err := db.Migrate(ctx, database, logger); err != nil {
			logger.Fatalf("Failed to apply migrations: %v", err)
		}
		logger.Info("Migrations applied.")
	}

	redisClient := connectRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	sessionRepo, closeSessions := buildSessionRepository(ctx, cfg, redisClient, logger)
	defer closeSessions()

	// --- Dependency Injection ---
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	productRepo := repository.NewPostgresProductRepository(database, logger)
	resellerRepo := repository.NewPostgresResellerRepository(database, logger)
	shippingSource := buildShippingSource(cfg, database, logger)
	var productCache domain.ProductCache
	if redisClient != nil {
		productCache = repository.NewRedisProductCache(redisClient, cfg.ProductCacheTTL, logger)
	}
	logger.Info("Repositories initialized.")

	addressClient := clients.NewAddressHTTPClient(cfg.AddressLookupURL, cfg.AddressLookupTimeout, logger)
	paymentClient := clients.NewPaymentHTTPClient(
		cfg.PaymentProviderURL,
		cfg.PaymentProviderToken,
		cfg.PaymentNotificationURL,
		cfg.PaymentRedirectURL,
		cfg.PaymentProviderTimeout,
		logger,
	)
	logger.Infof("Clients initialized for address lookup %s and payments %s", cfg.AddressLookupURL, cfg.PaymentProviderURL)

	sessionManager := usecase.NewSessionManager(sessionRepo, logger)
	catalogUseCase := usecase.NewCatalogUseCase(productRepo, resellerRepo, shippingSource, productCache, logger)
	cartUseCase := usecase.NewCartUseCase(sessionManager, catalogUseCase, logger)
	addressUseCase := usecase.NewAddressUseCase(sessionManager, addressClient, logger)
	shippingUseCase := usecase.NewShippingUseCase(sessionManager, shippingSource, cfg.ServiceableCity, cfg.ShippingOfflineContact, logger)
	checkoutUseCase := usecase.NewCheckoutUseCase(sessionManager, orderRepo, paymentClient, cfg.MotoboyMethodID, logger)
	paymentUseCase := usecase.NewPaymentUseCase(orderRepo, logger)
	dashboardUseCase := usecase.NewDashboardUseCase(orderRepo, cfg.MotoboyMethodID, logger)
	logger.Info("Use cases initialized.")

	handlers := delivery.Handlers{
		Health:    delivery.NewHealthHandler(database),
		Catalog:   delivery.NewCatalogHandler(catalogUseCase, logger),
		Cart:      delivery.NewCartHandler(cartUseCase, logger),
		Address:   delivery.NewAddressHandler(addressUseCase, shippingUseCase, logger),
		Checkout:  delivery.NewCheckoutHandler(checkoutUseCase, logger),
		Webhook:   delivery.NewWebhookHandler(paymentUseCase, cfg.WebhookSecret, logger),
		Dashboard: delivery.NewDashboardHandler(dashboardUseCase, logger),
	}
	logger.Info("Handlers initialized.")

	cookieStore := middleware.NewCookieStore(sessionKey(cfg, logger), middleware.SessionCookieOptions{
		Secure: cfg.CookieSecure,
		Domain: cfg.CookieDomain,
		MaxAge: cfg.SessionTTL,
	})
	router := delivery.NewRouter(delivery.RouterConfig{
		AllowedOrigins:    cfg.AllowedOrigins,
		OperatorTokenHash: cfg.OperatorTokenHash,
		SessionStore:      cookieStore,
		NewSessionID:      sessionManager.NewID,
	}, handlers, logger)
	logger.Info("Routes registered.")

	// --- gRPC health ---
	healthReporter := grpcHandler.NewHealthReporter(database, 15*time.Second, logger)
	grpcServer := grpc.NewServer()
	healthReporter.Register(grpcServer)
	reflection.Register(grpcServer)
	go healthReporter.Run(ctx)

	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalf("Failed to listen on port %s: %v", cfg.GrpcPort, err)
	}
	go func() {
		logger.Infof("gRPC health server listening on %s", cfg.GrpcPort)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Errorf("Failed to serve gRPC: %v", err)
		}
	}()

	// --- Start Server ---
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Failed to start server on port %s: %v", cfg.Port, err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Warn("Shutdown signal received...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown failed: %v", err)
	}
	healthReporter.Shutdown()
	grpcServer.GracefulStop()
	logger.Info("Storefront Service shut down gracefully.")
}

// connectRedis returns nil when Redis is not needed or cannot be reached and
// the session store does not depend on it.
func connectRedis(ctx context.Context, cfg *config.Config, logger *logrus.Logger) *redis.Client {
	if cfg.RedisAddress == "" {
		if cfg.SessionStore == "redis" {
			logger.Fatal("FATAL: SESSION_STORE=redis but REDIS_ADDRESS is empty.")
		}
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if cfg.SessionStore == "redis" {
			logger.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddress, err)
		}
		logger.Warnf("Redis at %s unavailable, product cache disabled: %v", cfg.RedisAddress, err)
		_ = client.Close()
		return nil
	}
	logger.Infof("Redis connection established at %s", cfg.RedisAddress)
	return client
}

func buildSessionRepository(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *logrus.Logger) (domain.SessionRepository, func()) {
	switch cfg.SessionStore {
	case "redis":
		logger.Info("Sessions stored in Redis.")
		return repository.NewRedisSessionRepository(redisClient, cfg.SessionTTL, logger), func() {}
	case "sqlite", "":
		sqliteDB, err := db.OpenSQLite(ctx, cfg.SessionDBPath)
		if err != nil {
			logger.Fatalf("Failed to open session database: %v", err)
		}
		repo := repository.NewSQLiteSessionRepository(sqliteDB, cfg.SessionTTL, logger)
		go purgeSessions(ctx, repo, logger)
		logger.Infof("Sessions stored in SQLite at %s.", cfg.SessionDBPath)
		return repo, func() { _ = sqliteDB.Close() }
	default:
		logger.Fatalf("FATAL: unknown SESSION_STORE %q (expected sqlite or redis)", cfg.SessionStore)
		return nil, nil
	}
}

func purgeSessions(ctx context.Context, repo *repository.SQLiteSessionRepository, logger *logrus.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				logger.Warnf("Session purge failed: %v", err)
				continue
			}
			if n > 0 {
				logger.Infof("Purged %d expired sessions", n)
			}
		}
	}
}

func buildShippingSource(cfg *config.Config, database *sql.DB, logger *logrus.Logger) domain.ShippingMethodSource {
	if cfg.ShippingMethodsFile == "" {
		return repository.NewPostgresShippingRepository(database, logger)
	}
	source, err := repository.NewFileShippingSource(cfg.ShippingMethodsFile, logger)
	if err != nil {
		logger.Fatalf("Failed to load shipping methods: %v", err)
	}
	return source
}

func sessionKey(cfg *config.Config, logger *logrus.Logger) []byte {
	if cfg.SessionKey != "" {
		return []byte(cfg.SessionKey)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		logger.Fatalf("Failed to generate session key: %v", err)
	}
	return key
}
