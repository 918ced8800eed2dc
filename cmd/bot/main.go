package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bankaimise/internal/auth"
	"bankaimise/internal/catalog"
	"bankaimise/internal/config"
	"bankaimise/internal/llm"
	"bankaimise/internal/logging"
	"bankaimise/internal/scheduler"
	"bankaimise/internal/storage"
	"bankaimise/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	logCloser, err := logging.Setup(cfg.LogFilePath, os.Stderr)
	if err != nil {
		log.Printf("file logging disabled: %v", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(cfg)
	defer closeStore()

	var rec storage.Recorder
	if cfg.EventLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.EventLogPath)
		if err != nil {
			log.Printf("failed to init event recorder: %v", err)
		} else {
			rec = fr
		}
	}

	var shopperRepo auth.Repository
	if cfg.ShoppersFilePath != "" {
		repo, err := auth.NewFileRepository(cfg.ShoppersFilePath)
		if err != nil {
			log.Printf("failed to init shopper registry: %v", err)
		} else {
			shopperRepo = repo
		}
	}
	authSvc, err := auth.NewWithRepo(shopperRepo)
	if err != nil {
		log.Fatalf("failed to init auth: %v", err)
	}

	llmClient, err := llm.NewFactory(cfg).CreateClient(ctx, string(cfg.LLMProvider))
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	bot, err := telegram.New(cfg.TelegramBotToken, telegram.Options{
		Catalog:      catalog.Default(),
		Store:        store,
		Recorder:     rec,
		Auth:         authSvc,
		LLM:          llmClient,
		SystemPrompt: readSystemPrompt(cfg.SystemPromptPath),
		ChatTimeout:  cfg.ChatTimeout,
		AdminUserID:  cfg.AdminUserID,
	})
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	if cfg.AdminUserID != 0 && rec != nil && cfg.ReportCron != "" {
		sched := scheduler.New(cfg.ReportCron)
		sched.SetReportFunction(bot.SendDailyReport)
		if err := sched.Start(); err != nil {
			log.Printf("failed to start report scheduler: %v", err)
		}
		if sched.IsRunning() {
			defer sched.Stop()
		}
	}

	bot.Start(ctx)
}

// openStore falls back to an in-memory store when the configured backend is
// unavailable; carts then last until restart.
func openStore(cfg *config.Config) (storage.Store, func()) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		s, err := storage.NewSQLiteStore(cfg.StoragePath)
		if err == nil {
			return s, func() {
				if err := s.Close(); err != nil {
					log.Printf("failed to close store: %v", err)
				}
			}
		}
		log.Printf("failed to open sqlite store %s: %v", cfg.StoragePath, err)
	case config.DriverFile, "":
		s, err := storage.NewFileStore(cfg.StoragePath)
		if err == nil {
			return s, func() {}
		}
		log.Printf("failed to open file store %s: %v", cfg.StoragePath, err)
	default:
		log.Printf("unknown storage driver %q", cfg.StorageDriver)
	}
	log.Printf("carts will be kept in memory only")
	return storage.NewMemoryStore(), func() {}
}

func readSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("system prompt file not found or unreadable at %s: %v", path, err)
		return ""
	}
	return string(data)
}
