package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Channel names used by the economy features
	LotteryChannelName string
	PayoutChannelName  string
	ModLogChannelName  string

	// Lottery configuration
	LotteryTicketPrice   int64
	LotteryGuildCutPct   int64
	LotteryDuration      time.Duration
	LotteryMaxTickets    int64 // per user, per lottery
	LotteryCheckInterval time.Duration

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Channel defaults matching the guild layout
		LotteryChannelName: "lottery",
		PayoutChannelName:  "gamba-payouts",
		ModLogChannelName:  "mod-logs",

		// Lottery defaults
		LotteryTicketPrice:   5000,
		LotteryGuildCutPct:   20,
		LotteryDuration:      14 * 24 * time.Hour,
		LotteryMaxTickets:    20,
		LotteryCheckInterval: time.Minute,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if price := os.Getenv("LOTTERY_TICKET_PRICE"); price != "" {
		if parsedPrice, err := strconv.ParseInt(price, 10, 64); err == nil && parsedPrice > 0 {
			config.LotteryTicketPrice = parsedPrice
		}
	}
	if cut := os.Getenv("LOTTERY_GUILD_CUT_PERCENT"); cut != "" {
		if parsedCut, err := strconv.ParseInt(cut, 10, 64); err == nil && parsedCut >= 0 && parsedCut <= 100 {
			config.LotteryGuildCutPct = parsedCut
		}
	}
	if hours := os.Getenv("LOTTERY_DURATION_HOURS"); hours != "" {
		if parsedHours, err := strconv.Atoi(hours); err == nil && parsedHours > 0 {
			config.LotteryDuration = time.Duration(parsedHours) * time.Hour
		}
	}
	if channel := os.Getenv("LOTTERY_CHANNEL_NAME"); channel != "" {
		config.LotteryChannelName = channel
	}
	if channel := os.Getenv("PAYOUT_CHANNEL_NAME"); channel != "" {
		config.PayoutChannelName = channel
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
