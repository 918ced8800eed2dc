package config

import (
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	for _, k := range []string{"LLM_PROVIDER", "GEMINI_MODEL", "STORAGE_DRIVER", "STORAGE_PATH", "REPORT_CRON", "CHAT_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.LLMProvider != ProviderGemini || cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected llm defaults: %s %s", cfg.LLMProvider, cfg.GeminiModel)
	}
	if cfg.StorageDriver != DriverFile || cfg.StoragePath != "data/local_storage.json" {
		t.Fatalf("unexpected storage defaults: %s %s", cfg.StorageDriver, cfg.StoragePath)
	}
	if cfg.ChatTimeout != 0 {
		t.Fatalf("chat timeout should default to none, got %s", cfg.ChatTimeout)
	}
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("CHAT_TIMEOUT", "30s")
	t.Setenv("ADMIN_USER", "12345")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.LLMProvider != ProviderOpenAI || cfg.StorageDriver != DriverSQLite {
		t.Fatalf("overrides ignored: %+v", cfg)
	}
	if cfg.ChatTimeout != 30*time.Second || cfg.AdminUserID != 12345 {
		t.Fatalf("unexpected values: %s %d", cfg.ChatTimeout, cfg.AdminUserID)
	}
}

func TestParse_BadDuration(t *testing.T) {
	t.Setenv("CHAT_TIMEOUT", "soon")
	if _, err := Parse(); err == nil {
		t.Fatalf("expected error for bad duration")
	}
}
