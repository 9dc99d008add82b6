package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	_ "github.com/redmonkez12/sentiment-api/docs" // Swagger docs (generated)
	"github.com/redmonkez12/sentiment-api/internal/analysis"
	"github.com/redmonkez12/sentiment-api/internal/auth"
	"github.com/redmonkez12/sentiment-api/internal/config"
	"github.com/redmonkez12/sentiment-api/internal/database"
	httpServer "github.com/redmonkez12/sentiment-api/internal/http"
	"github.com/redmonkez12/sentiment-api/internal/logging"
	"github.com/redmonkez12/sentiment-api/internal/metrics"
	"github.com/redmonkez12/sentiment-api/internal/ratelimit"
	"github.com/redmonkez12/sentiment-api/internal/review"
	"github.com/redmonkez12/sentiment-api/internal/scorer"
	"github.com/redmonkez12/sentiment-api/internal/user"
)

// @title           Sentiment API
// @version         1.0
// @description     Movie review sentiment analysis with per-user history.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

const startupTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_format", cfg.Auth.TokenFormat,
		"scorer_mode", cfg.Scorer.Mode,
	)

	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Initialize database connection
	db, err := initDB(startupCtx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize Redis connection
	redisClient, err := initRedis(startupCtx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	userRepo := user.NewRepository(db)
	reviewRepo := review.NewRepository(db)

	// Initialize rate limiter
	rateLimiter := ratelimit.NewLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	// Initialize token and password services
	tokenService, err := auth.NewTokenService(cfg.Auth.TokenFormat, cfg.Auth.JWTSecret, cfg.Auth.PasetoKey, cfg.Auth.TokenDuration)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.Hasher, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	authService, err := auth.NewService(userRepo, hasher, tokenService, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}

	// Initialize analysis pipeline
	appMetrics := metrics.New()
	analysisService := analysis.NewService(newScorer(cfg.Scorer), reviewRepo, appMetrics)

	// Initialize router
	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:           auth.NewHandler(authService, rateLimiter),
		AuthMiddleware: auth.NewMiddleware(tokenService),
		Analysis:       analysis.NewHandler(analysisService),
		Health: httpServer.NewHealthHandler(map[string]httpServer.Check{
			"postgres": db.PingContext,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		}),
		Metrics: appMetrics,
	}, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB opens the bounded pool and applies migrations when enabled
func initDB(ctx context.Context, cfg config.DatabaseConfig, logger *logging.Logger) (*bun.DB, error) {
	db, err := database.Open(ctx, cfg.ConnectionString(), database.PoolOptions{
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db.DB); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	return db, nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

func newScorer(cfg config.ScorerConfig) scorer.Scorer {
	if cfg.Mode == config.ScorerModeLexicon {
		return scorer.NewLexiconScorer()
	}
	return scorer.NewProcessScorer(cfg.Command, cfg.Args, cfg.Timeout)
}
