// Command shop is a terminal storefront for a single shopper.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"bankaimise/internal/cart"
	"bankaimise/internal/catalog"
	"bankaimise/internal/chat"
	"bankaimise/internal/config"
	"bankaimise/internal/llm"
	"bankaimise/internal/logging"
	"bankaimise/internal/shop"
	"bankaimise/internal/storage"
)

func main() {
	storePath := flag.String("store", "", "override STORAGE_PATH")
	flag.Parse()

	_ = godotenv.Load(".env")
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
		os.Exit(1)
	}
	if *storePath != "" {
		cfg.StoragePath = *storePath
	}

	// The terminal belongs to the shopper; logs go to the file only.
	logCloser, err := logging.Setup(cfg.LogFilePath, io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		log.Printf("falling back to memory store: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: cart will not be saved: %v\n", err)
		store = storage.NewMemoryStore()
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	var rec storage.Recorder
	if cfg.EventLogPath != "" {
		if fr, err := storage.NewFileRecorder(cfg.EventLogPath); err == nil {
			rec = fr
		} else {
			log.Printf("failed to init event recorder: %v", err)
		}
	}

	client, err := llm.NewFactory(cfg).CreateClient(ctx, string(cfg.LLMProvider))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create llm client: %v\n", err)
		os.Exit(1)
	}

	app := shop.New(shop.Config{
		Catalog:  catalog.Default(),
		Store:    store,
		CartKey:  cart.StorageKey,
		Chat:     chat.NewPanel(client, chat.WithTimeout(cfg.ChatTimeout), chat.WithSystemInstruction(readSystemPrompt(cfg.SystemPromptPath))),
		Recorder: rec,
	})

	if err := newREPL(app, os.Stdin, os.Stdout).Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return storage.NewSQLiteStore(cfg.StoragePath)
	case config.DriverFile, "":
		return storage.NewFileStore(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
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
