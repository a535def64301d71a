package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"notoc/bot"
	"notoc/config"
	"notoc/database"
	"notoc/events"
	"notoc/ratelimit"
	"notoc/repository"
	"notoc/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting notoc bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()
	subscribeAuditLog(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	userService := service.NewUserService(uowFactory)
	resolverService := service.NewResolverService(uowFactory, service.NewFuzzScorer(), service.ResolverConfig{
		HighThreshold:     cfg.ResolveHighThreshold,
		DisambigThreshold: cfg.ResolveDisambigThreshold,
		MaxCandidates:     cfg.MaxCandidates,
	})
	ledgerService := service.NewLedgerService(uowFactory)
	deadlineService := service.NewDeadlineService(uowFactory)
	pendingStore := service.NewPendingStore()
	limiter := ratelimit.New(cfg.RateLimitMaxTokens, cfg.RateLimitRefillSeconds)
	log.Println("Services initialized successfully")

	// Initialize Telegram bot
	log.Println("Initializing Telegram bot...")
	botConfig := bot.Config{
		Token:        cfg.TelegramToken,
		HistoryLimit: cfg.HistoryLimit,
	}
	telegramBot, err := bot.New(botConfig, userService, resolverService, ledgerService, deadlineService, pendingStore, limiter, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Println("Telegram bot initialized successfully")

	go telegramBot.Start(ctx)

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	telegramBot.Close()

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
