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
	amqp "github.com/rabbitmq/amqp091-go"

	infradb "github.com/WillyisSus/course-final-project-sub000/internal/adapters/database"
	infraevents "github.com/WillyisSus/course-final-project-sub000/internal/adapters/events"
	pkgdb "github.com/WillyisSus/course-final-project-sub000/pkg/database"
	"github.com/WillyisSus/course-final-project-sub000/pkg/events"
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
		logger.Info("Shutting down relay...")
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

	// 2. Connect to RabbitMQ
	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		logger.Error("RABBITMQ_URL is not set")
		os.Exit(1)
	}
	amqpConn, err := amqp.Dial(rabbitURL)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()
	logger.Info("RabbitMQ Connected")

	// 3. Initialize publisher and relay
	publisher, err := infraevents.NewRabbitMQPublisher(amqpConn)
	if err != nil {
		logger.Error("Failed to create publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	txManager := pkgdb.NewPostgresTransactionManager(pool, 3*time.Second)
	outboxRepo := infradb.NewPostgresOutboxRepository(pool)

	relay := events.NewOutboxRelay(
		outboxRepo,
		publisher,
		txManager,
		10,                   // Batch size
		500*time.Millisecond, // Polling interval
		infraevents.Exchange,
		logger,
	)

	logger.Info("Starting outbox relay...")
	if runErr := relay.Run(ctx); runErr != nil {
		logger.Error("Relay failed", "error", runErr)
		if ctx.Err() == nil {
			os.Exit(1)
		}
	}

	logger.Info("Relay stopped")
}
