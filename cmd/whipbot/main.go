package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"whipbot/internal/amqp"
	"whipbot/internal/bot"
	"whipbot/internal/config"
	"whipbot/internal/gateway/telegram"
	"whipbot/internal/log"
	"whipbot/internal/policy"
	"whipbot/internal/services"
	"whipbot/internal/store"
	"whipbot/internal/store/jsonfile"
	"whipbot/internal/store/memory"
	"whipbot/internal/store/sqlite"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     slog.LevelInfo,
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	logger.Info("Starting whipbot")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.BotToken == "" {
		logger.Error("No bot token provided, set BOT_TOKEN or TOKEN")
		os.Exit(1)
	}
	if len(cfg.AdminIDs) == 0 {
		logger.Warn("No admin ids configured, admin commands are disabled")
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize store", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer closeStore()
	logger.Info("Store initialized", log.FieldBackend, cfg.DataBackend)

	// AMQP is optional: without it entries are recorded but never exported.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	gw, err := telegram.New(cfg.BotToken, logger)
	if err != nil {
		logger.Error("Failed to initialize Telegram gateway", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Telegram gateway initialized", "handle", gw.Handle())

	pol := policy.New(cfg.AdminIDs, gw.Handle())
	events := services.NewEventService(st)
	entries := services.NewEntryService(st, publisher)
	notifier := bot.NewNotifier(gw, cfg.AdminIDs, logger)
	dispatcher := bot.NewDispatcher(pol, bot.NewFlow(), events, entries, gw, notifier, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	if err := gw.Run(ctx, dispatcher.Dispatch); err != nil && err != context.Canceled {
		logger.Error("Update loop failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Bot stopped gracefully")
}

func openStore(cfg *config.Config) (store.Store, func() error, error) {
	switch cfg.DataBackend {
	case "sqlite":
		st, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case "memory":
		return memory.New(), noopClose, nil
	default:
		return jsonfile.New(cfg.DataFile), noopClose, nil
	}
}

func noopClose() error { return nil }
