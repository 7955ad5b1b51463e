package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/WillyisSus/course-final-project-sub000/internal/adapters/cache"
	infradb "github.com/WillyisSus/course-final-project-sub000/internal/adapters/database"
	"github.com/WillyisSus/course-final-project-sub000/internal/domain/auctions"
	"github.com/WillyisSus/course-final-project-sub000/internal/domain/users"
	pkgdb "github.com/WillyisSus/course-final-project-sub000/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load environment variables (local overrides .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutting down sweeper...")
		cancel()
	}()

	// 1. Initialize Postgres Connection Pool
	dbURL := os.Getenv("AUCTION_DB_URL")
	if dbURL == "" {
		logger.Error("AUCTION_DB_URL is not set")
		os.Exit(1)
	}
	dbConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		logger.Error("Unable to parse database config", "error", err)
		os.Exit(1)
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		logger.Error("Unable to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if pingErr := pool.Ping(ctx); pingErr != nil {
		logger.Error("Unable to ping database", "error", pingErr)
		os.Exit(1)
	}
	logger.Info("Postgres Connected")

	// 2. Connect to Redis (session invalidation)
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		logger.Error("REDIS_URL is not set")
		os.Exit(1)
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisURL})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Redis failed", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	logger.Info("Redis Connected")

	// 3. Initialize repositories
	// Lock timeout keeps a contended sweep from stalling; skipped rows
	// come back on the next tick.
	txManager := pkgdb.NewPostgresTransactionManager(pool, 3*time.Second)
	auctionRepo := infradb.NewPostgresAuctionRepository(pool)
	receiptRepo := infradb.NewPostgresReceiptRepository(pool)
	bidRepo := infradb.NewPostgresBidRepository(pool)
	outboxRepo := infradb.NewPostgresOutboxRepository(pool)
	userRepo := infradb.NewPostgresUserRepository(pool)
	sessions := cache.NewRedisSessionStore(rdb)

	// 4. Initialize the two independent sweeps
	closer := auctions.NewCloser(auctionRepo, receiptRepo, bidRepo, outboxRepo, txManager, 50, 10*time.Second, logger)
	downgrader := users.NewSweeper(userRepo, sessions, txManager, 50, time.Minute, logger)

	logger.Info("Starting sweeps...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return closer.Run(gctx) })
	g.Go(func() error { return downgrader.Run(gctx) })

	if runErr := g.Wait(); runErr != nil {
		logger.Error("Sweeper failed", "error", runErr)
		os.Exit(1)
	}

	logger.Info("Sweeper stopped")
}
