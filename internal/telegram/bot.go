package telegram

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bankaimise/internal/analytics"
	"bankaimise/internal/auth"
	"bankaimise/internal/catalog"
	"bankaimise/internal/chat"
	"bankaimise/internal/llm"
	"bankaimise/internal/shop"
	"bankaimise/internal/storage"
)

type Options struct {
	Catalog      *catalog.Catalog
	Store        storage.Store
	Recorder     storage.Recorder
	Auth         *auth.Service
	LLM          llm.Client
	SystemPrompt string
	ChatTimeout  time.Duration
	AdminUserID  int64
}

type Bot struct {
	api          *tgbotapi.BotAPI
	s            sender
	catalog      *catalog.Catalog
	store        storage.Store
	recorder     storage.Recorder
	authSvc      *auth.Service
	llmClient    llm.Client
	systemPrompt string
	chatTimeout  time.Duration
	adminUserID  int64
	sessions     *sessions

	// spawn runs chat turns off the update loop; tests replace it to run inline.
	spawn func(f func())
	wg    sync.WaitGroup
}

func New(botToken string, opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	log.Printf("authorized on account @%s", api.Self.UserName)
	b := newBot(botAPISender{api: api}, opts)
	b.api = api
	return b, nil
}

func newBot(s sender, opts Options) *Bot {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	b := &Bot{
		s:            s,
		catalog:      opts.Catalog,
		store:        opts.Store,
		recorder:     opts.Recorder,
		authSvc:      opts.Auth,
		llmClient:    opts.LLM,
		systemPrompt: opts.SystemPrompt,
		chatTimeout:  opts.ChatTimeout,
		adminUserID:  opts.AdminUserID,
	}
	b.spawn = func(f func()) {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			f()
		}()
	}
	b.sessions = newSessions(b.newApp)
	return b
}

func (b *Bot) newApp(chatID int64) *shop.App {
	var panel *chat.Panel
	if b.llmClient != nil {
		panel = chat.NewPanel(b.llmClient,
			chat.WithSystemInstruction(b.systemPrompt),
			chat.WithTimeout(b.chatTimeout),
			chat.WithTurnHook(func(user, assistant chat.Message) {
				b.recordChat(chatID, user, assistant)
			}),
		)
	}
	return shop.New(shop.Config{
		Catalog:   b.catalog,
		Store:     b.store,
		CartKey:   cartKey(chatID),
		Chat:      panel,
		Recorder:  b.recorder,
		ShopperID: chatID,
	})
}

// Start polls for updates until ctx is cancelled, then waits for chat turns in flight.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		b.handleIncomingMessage(ctx, update.Message)
		return
	}
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

// SendDailyReport sends today's activity summary to the admin.
func (b *Bot) SendDailyReport(ctx context.Context) error {
	if b.adminUserID == 0 {
		return fmt.Errorf("no admin configured")
	}
	stats, err := b.dailyStats()
	if err != nil {
		return err
	}
	b.sendMessage(b.adminUserID, stats.Summary(b.catalog))
	return nil
}

func (b *Bot) dailyStats() (*analytics.DailyStats, error) {
	if b.recorder == nil {
		return nil, fmt.Errorf("no event log configured")
	}
	events, err := b.recorder.LoadEvents()
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return analytics.AnalyzeDay(events, time.Now().UTC()), nil
}

// forgetShopper removes a shopper from the registry, drops their session and
// deletes their saved cart.
func (b *Bot) forgetShopper(id int64) error {
	if b.authSvc != nil {
		if err := b.authSvc.Forget(id); err != nil {
			return fmt.Errorf("forget shopper: %w", err)
		}
	}
	b.sessions.drop(id)
	if err := b.store.Delete(cartKey(id)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (b *Bot) recordChat(chatID int64, user, assistant chat.Message) {
	if b.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:         assistant.Timestamp.UTC(),
		ShopperID:         chatID,
		Kind:              storage.EventChat,
		UserMessage:       user.Text,
		AssistantResponse: assistant.Text,
	}
	if err := b.recorder.AppendEvent(ev); err != nil {
		log.Printf("failed to record chat turn for %d: %v", chatID, err)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) sendScreen(chatID int64, sc screen) {
	msg := tgbotapi.NewMessage(chatID, sc.text)
	msg.ReplyMarkup = sc.keyboard
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send screen: %v", err)
	}
}
