package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"reverb/bot"
	"reverb/config"
	"reverb/database"
	"reverb/events"
	"reverb/repository"
	"reverb/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting reverb bot...")

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

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	ledgerService := service.NewLedgerService(uowFactory)
	gamblingService := service.NewGamblingService(uowFactory)
	payoutService := service.NewPayoutService(uowFactory)
	lotteryService := service.NewLotteryService(uowFactory, service.LotteryConfig{
		TicketPrice:     cfg.LotteryTicketPrice,
		GuildCutPercent: cfg.LotteryGuildCutPct,
		Duration:        cfg.LotteryDuration,
		MaxTickets:      cfg.LotteryMaxTickets,
	})
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:                cfg.DiscordToken,
		GuildID:              cfg.DiscordGuildID,
		LotteryChannelName:   cfg.LotteryChannelName,
		PayoutChannelName:    cfg.PayoutChannelName,
		ModLogChannelName:    cfg.ModLogChannelName,
		LotteryMaxTickets:    cfg.LotteryMaxTickets,
		LotteryCheckInterval: cfg.LotteryCheckInterval,
	}
	discordBot, err := bot.New(botConfig, ledgerService, gamblingService, payoutService, lotteryService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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
