// Package chat implements the storefront assistant panel: an append-only
// conversation with at most one outstanding request to the language model.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"bankaimise/internal/llm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	Greeting = "Konnichiwa! I am your Anime Assistant. Ask me anything about your favorite series, or let me help you pick out some awesome gear from the shop!"

	MissingKeyReply = "Error: API Key is missing. Please check your environment configuration."
	APIErrorReply   = "My systems are currently updating (API Error). Please try again later."
	EmptyReply      = "I'm having trouble connecting to the Anime network right now."
)

const SystemInstruction = `You are the intelligent AI Assistant for BankaiMise, a premier Anime Merchandise Shop.
Your tone should be helpful, enthusiastic, and knowledgeable about all things anime (Naruto, One Piece, Demon Slayer, Jujutsu Kaisen, Dragon Ball, etc.).

Capabilities:
1. Answer questions about popular anime series, characters, and lore.
2. Recommend products from our shop (Figures, Katanas, Apparel, Mystery Boxes).
3. Help users find gifts for anime fans based on their favorite shows.

If asked about products, mention we have a high-quality selection in the 'Shop' tab, including rare figures and imported goods.
Keep responses concise (under 150 words) unless asked for a detailed guide.`

var (
	ErrEmptyMessage = errors.New("chat: empty message")
	ErrBusy         = errors.New("chat: a request is already pending")
)

type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Panel is safe for concurrent use. History only grows.
type Panel struct {
	client      llm.Client
	instruction string
	timeout     time.Duration
	now         func() time.Time
	onTurn      func(user, assistant Message)

	mu      sync.Mutex
	history []Message
	pending bool
}

type Option func(*Panel)

// WithSystemInstruction replaces the built-in shop assistant instruction.
func WithSystemInstruction(s string) Option {
	return func(p *Panel) {
		if strings.TrimSpace(s) != "" {
			p.instruction = s
		}
	}
}

// WithTimeout bounds each model call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Panel) { p.timeout = d }
}

// WithTurnHook is called after every completed turn, outside the panel lock.
func WithTurnHook(f func(user, assistant Message)) Option {
	return func(p *Panel) { p.onTurn = f }
}

func withClock(now func() time.Time) Option {
	return func(p *Panel) { p.now = now }
}

func NewPanel(client llm.Client, opts ...Option) *Panel {
	p := &Panel{
		client:      client,
		instruction: SystemInstruction,
		now:         time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	p.history = []Message{{Role: RoleAssistant, Text: Greeting, Timestamp: p.now()}}
	return p
}

// History returns a copy of the conversation so far.
func (p *Panel) History() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.history...)
}

func (p *Panel) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Submit appends text as a user turn, asks the model and appends its reply.
// Every failure of the model call is turned into a visible assistant reply,
// so the returned error is only ErrEmptyMessage or ErrBusy, in which case
// nothing was appended.
func (p *Panel) Submit(ctx context.Context, text string) (Message, error) {
	user, prior, err := p.begin(text)
	if err != nil {
		return Message{}, err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	reply := p.generate(ctx, prior, user.Text)
	assistant := p.finish(reply)

	if p.onTurn != nil {
		p.onTurn(user, assistant)
	}
	return assistant, nil
}

func (p *Panel) begin(text string) (Message, []Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, nil, ErrEmptyMessage
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending {
		return Message{}, nil, ErrBusy
	}
	prior := append([]Message(nil), p.history...)
	user := Message{Role: RoleUser, Text: text, Timestamp: p.now()}
	p.history = append(p.history, user)
	p.pending = true
	return user, prior, nil
}

func (p *Panel) finish(reply string) Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	msg := Message{Role: RoleAssistant, Text: reply, Timestamp: p.now()}
	p.history = append(p.history, msg)
	p.pending = false
	return msg
}

func (p *Panel) generate(ctx context.Context, prior []Message, text string) string {
	msgs := make([]llm.Message, 0, len(prior)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: p.instruction})
	for _, m := range prior {
		msgs = append(msgs, llm.Message{Role: string(m.Role), Content: m.Text})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: text})

	resp, err := p.client.Generate(ctx, msgs)
	switch {
	case errors.Is(err, llm.ErrMissingCredential):
		log.Printf("chat: %v", err)
		return MissingKeyReply
	case err != nil:
		log.Printf("chat: model call failed: %v", err)
		return APIErrorReply
	case strings.TrimSpace(resp.Content) == "":
		log.Printf("chat: empty reply from model %s", resp.Model)
		return EmptyReply
	}
	log.Printf("chat: reply [model=%s, tokens: prompt=%d, completion=%d, total=%d]",
		resp.Model, resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens)
	return resp.Content
}
