package llm

import (
	"context"
	"fmt"
	"strings"

	"bankaimise/internal/config"
)

// Factory creates LLM clients with consistent logic
type Factory struct {
	GeminiAPIKey     string
	GeminiModel      string
	OpenaiAPIKey     string
	OpenaiBaseURL    string
	OpenaiModel      string
	YandexOAuthToken string
	YandexFolderID   string
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		GeminiAPIKey:     cfg.GeminiAPIKey,
		GeminiModel:      cfg.GeminiModel,
		OpenaiAPIKey:     cfg.OpenAIAPIKey,
		OpenaiBaseURL:    cfg.OpenAIBaseURL,
		OpenaiModel:      cfg.OpenAIModel,
		YandexOAuthToken: cfg.YandexOAuthToken,
		YandexFolderID:   cfg.YandexFolderID,
	}
}

// CreateClient returns a client for provider. A provider without credentials
// yields a client whose every call fails with ErrMissingCredential.
func (f *Factory) CreateClient(ctx context.Context, provider string) (Client, error) {
	switch p := strings.ToLower(provider); p {
	case string(config.ProviderGemini):
		if f.GeminiAPIKey == "" {
			return unconfigured{provider: p}, nil
		}
		return NewGemini(ctx, f.GeminiAPIKey, f.GeminiModel)
	case string(config.ProviderOpenAI):
		if f.OpenaiAPIKey == "" {
			return unconfigured{provider: p}, nil
		}
		return NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, f.OpenaiModel, "", "BankaiMise"), nil
	case string(config.ProviderYandex):
		if f.YandexOAuthToken == "" || f.YandexFolderID == "" {
			return unconfigured{provider: p}, nil
		}
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
