package telegram

import (
	"fmt"
	"sync"

	"bankaimise/internal/cart"
	"bankaimise/internal/shop"
)

// sessions holds one storefront state per Telegram chat.
type sessions struct {
	mu     sync.Mutex
	byChat map[int64]*shop.App
	create func(chatID int64) *shop.App
}

func newSessions(create func(chatID int64) *shop.App) *sessions {
	return &sessions{byChat: make(map[int64]*shop.App), create: create}
}

func (s *sessions) get(chatID int64) *shop.App {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.byChat[chatID]
	if !ok {
		app = s.create(chatID)
		s.byChat[chatID] = app
	}
	return app
}

// drop forgets the state of chatID; the next get starts fresh from the store.
func (s *sessions) drop(chatID int64) {
	s.mu.Lock()
	delete(s.byChat, chatID)
	s.mu.Unlock()
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byChat)
}

// cartKey namespaces the cart storage key by chat so shoppers never share a cart.
func cartKey(chatID int64) string {
	return fmt.Sprintf("%d/%s", chatID, cart.StorageKey)
}
