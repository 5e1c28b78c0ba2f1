package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fermingonzalezs/scrapper-bot/config"
	"github.com/fermingonzalezs/scrapper-bot/internal/filter"
	"github.com/fermingonzalezs/scrapper-bot/internal/scraper"
	"github.com/fermingonzalezs/scrapper-bot/logger"
	"github.com/fermingonzalezs/scrapper-bot/pkg/metrics"
	"github.com/fermingonzalezs/scrapper-bot/services/cache"
	"github.com/fermingonzalezs/scrapper-bot/services/store"
	"github.com/fermingonzalezs/scrapper-bot/services/telegram"
	"github.com/fermingonzalezs/scrapper-bot/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("query", cfg.SearchQuery).
		Dur("watch_interval", cfg.WatchInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	notifiedStore := store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.NotifiedTTL)
	defer notifiedStore.Close()
	logger.Info("Connected to Redis at %s (DB: %d)", cfg.RedisAddr, cfg.RedisDB)

	telegramClient := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramChatID)

	// Build the pipeline
	searchScraper := scraper.NewSearchScraper(scraper.SearchConfig{
		SearchURL:  cfg.SearchURL,
		CategoryID: cfg.CategoryID,
		CacheKey:   "ebay_rate_limited",
		BlockTime:  cfg.RateLimitBlock,
	}, cacheService)

	interestFilter := filter.New(filter.Policy{
		MinPrice:              cfg.MinPrice,
		MaxPrice:              cfg.MaxPrice,
		PremiumBrands:         cfg.PremiumBrands,
		MaxTimeRemainingHours: cfg.MaxTimeRemainingHours,
		MinBids:               cfg.MinBids,
		ExcludeKeywords:       cfg.ExcludeKeywords,
		MinDiscountPercent:    cfg.MinDiscountPercent,
		AltValueBrands:        cfg.AltValueBrands,
	})

	// Expose metrics
	metrics.Init()
	go func() {
		if err := metrics.Serve(cfg.MetricsAddr); err != nil {
			log.Warn().Err(err).Msg("Metrics server stopped")
		}
	}()

	// Create and start the watch worker
	w := worker.NewWorker(ctx, searchScraper, interestFilter, notifiedStore, telegramClient, worker.Config{
		Query:        cfg.SearchQuery,
		Interval:     cfg.WatchInterval,
		FetchDetails: cfg.FetchDetails,
		DetailLimit:  cfg.DetailLimit,
	})

	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting watch worker")
		workerDone <- w.Start()
	}()

	// Start the interactive bot
	bot := telegram.NewBot(telegramClient, searchScraper)
	botDone := make(chan error, 1)
	go func() {
		botDone <- bot.Run(ctx)
	}()

	// Wait for shutdown signal or component exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Worker exited with error")
		}
	case err := <-botDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Bot exited with error")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}
