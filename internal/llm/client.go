package llm

import (
	"context"
	"errors"
	"fmt"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrMissingCredential is returned by Generate when the provider has no API key configured.
var ErrMissingCredential = errors.New("llm: missing API credential")

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}

// unconfigured stands in for a provider whose credential is absent.
type unconfigured struct {
	provider string
}

func (u unconfigured) Generate(ctx context.Context, messages []Message) (Response, error) {
	return Response{}, fmt.Errorf("%s: %w", u.provider, ErrMissingCredential)
}
