package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type StorageDriver string

const (
	DriverFile   StorageDriver = "file"
	DriverSQLite StorageDriver = "sqlite"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	AdminUserID      int64  `env:"ADMIN_USER"`

	// LLM settings
	LLMProvider      LLMProvider   `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey     string        `env:"API_KEY"`
	GeminiModel      string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"`
	OpenAIModel      string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string        `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string        `env:"YANDEX_FOLDER_ID"`
	ChatTimeout      time.Duration `env:"CHAT_TIMEOUT"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH"`

	// Storage
	StorageDriver    StorageDriver `env:"STORAGE_DRIVER" envDefault:"file"`
	StoragePath      string        `env:"STORAGE_PATH" envDefault:"data/local_storage.json"`
	EventLogPath     string        `env:"EVENT_LOG_PATH" envDefault:"data/events.jsonl"`
	ShoppersFilePath string        `env:"SHOPPERS_FILE_PATH" envDefault:"data/shoppers.json"`

	// Logging
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/bankaimise.log"`

	// Daily activity report for the admin, cron syntax, UTC
	ReportCron string `env:"REPORT_CRON" envDefault:"0 21 * * *"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// Parse is New without the fatal exit, for callers that report errors themselves.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
