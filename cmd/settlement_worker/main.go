package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ewallet-settlement/internal/config"
	"github.com/ewallet-settlement/internal/data/mongo"
	"github.com/ewallet-settlement/internal/data/postgres"
	"github.com/ewallet-settlement/internal/logger"
	"github.com/ewallet-settlement/internal/platform/messaging/producers"
	"github.com/ewallet-settlement/internal/platform/persistence"
	"github.com/ewallet-settlement/internal/settlement"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("settlement_worker")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Settlement Worker",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka dead-letter producer
	deadLetterProducer, err := producers.NewDeadLetterProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize dead-letter Kafka producer", "error", err)
		os.Exit(1)
	}
	// deadLetterProducer is nil when no topic is configured. The worker takes
	// an interface, so wrap only a non-nil producer to keep the nil check
	// meaningful.
	var deadLetter settlement.DeadLetterPublisher
	if deadLetterProducer != nil {
		deadLetter = deadLetterProducer
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	txnRepo := postgres.NewTransactionRepository(log, postgresDB)
	queueRepo := postgres.NewQueueRepository(log, postgresDB)
	journal := mongo.NewJournalRepository(log, mongoDB.Database())

	// Initialize settlement components
	settler := settlement.NewCreditSettler(accountRepo, txnRepo, queueRepo, log)
	worker, err := settlement.NewWorker(
		&cfg.Settlement,
		cfg.Postgres.LockTimeout,
		postgresDB,
		queueRepo,
		settler,
		journal,
		deadLetter,
		log,
	)
	if err != nil {
		log.Error("Failed to initialize settlement worker", "error", err)
		os.Exit(1)
	}

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start settlement worker in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting settlement polling loop",
			"interval", cfg.Settlement.PollingInterval.String(),
			"batch_size", cfg.Settlement.BatchSize,
		)
		worker.Start(appCtx)
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal
	<-quit
	log.Info("Shutdown signal received")

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for the polling loop to finish its current cycle
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("Settlement worker stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Release the side-effect pool after the last cycle finished
	worker.Shutdown()

	// Close dead-letter Kafka producer
	if deadLetterProducer != nil {
		if err = deadLetterProducer.Close(); err != nil {
			log.Error("Error closing dead-letter Kafka producer", "error", err)
		}
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Close MongoDB connection
	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	log.Info("Settlement Worker shutdown completed")
}
