package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prephub/internal/api"
	"prephub/internal/app/service"
	"prephub/internal/common"
	"prephub/internal/common/security"
	"prephub/internal/domain/repository"
	"prephub/internal/platform/config"
	"prephub/internal/platform/database"
	"prephub/internal/platform/storage"
	"prephub/internal/ratelimit"

	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	initLogger(cfg)
	common.SetProductionMode(cfg.IsProduction())
	slog.Info("configuration loaded", "env", cfg.AppEnv)

	// 2. Initialize JWT
	security.InitJWT(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenExp, cfg.RefreshTokenExp)

	// 3. Initialize the document store client
	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Could not initialize DynamoDB client: %v", err)
	}
	slog.Info("document store client ready", "region", cfg.AWSRegion)

	// 4. Initialize object storage for product images
	var objectStore storage.ObjectStore
	minioStore, err := storage.NewMinioStore(
		cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
		cfg.MinioBucket, cfg.MediaBaseURL, cfg.MinioUseSSL,
	)
	if err != nil {
		// Product image upload degrades to metadata-only until storage is back.
		slog.Warn("object storage unavailable, image uploads disabled", "error", err)
	} else {
		objectStore = minioStore
		slog.Info("object storage ready", "bucket", cfg.MinioBucket)
	}

	// 5. Initialize the auth rate limiter
	var limiter *ratelimit.FixedWindowLimiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, auth rate limiting disabled", "error", err)
	} else {
		limiter, err = ratelimit.NewFixedWindowLimiter(redisClient, "prephub:ratelimit", cfg.AuthRateLimit, cfg.AuthRateWindow)
		if err != nil {
			log.Fatalf("Could not initialize rate limiter: %v", err)
		}
		slog.Info("auth rate limiter ready", "limit", cfg.AuthRateLimit, "window", cfg.AuthRateWindow)
	}
	defer redisClient.Close()

	// 6. Initialize Repositories
	userRepo := repository.NewDynamoUserRepository(db, cfg.UsersTable)
	problemRepo := repository.NewDynamoProblemRepository(db, cfg.ProblemsTable)
	progressRepo := repository.NewDynamoProgressRepository(db, cfg.ProgressTable)
	productRepo := repository.NewDynamoProductRepository(db, cfg.TechProductsTable)

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo)
	problemService := service.NewProblemService(problemRepo)
	progressService := service.NewProgressService(progressRepo)
	productService := service.NewProductService(productRepo, objectStore)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, problemService, progressService, productService, limiter)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}

func initLogger(cfg *config.Config) {
	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
