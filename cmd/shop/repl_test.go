package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"bankaimise/internal/cart"
	"bankaimise/internal/chat"
	"bankaimise/internal/llm"
	"bankaimise/internal/shop"
	"bankaimise/internal/storage"
)

type echoLLM struct{}

func (echoLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	return llm.Response{Content: "echo: " + msgs[len(msgs)-1].Content}, nil
}

func runScript(t *testing.T, store storage.Store, lines ...string) (string, *shop.App) {
	t.Helper()
	app := shop.New(shop.Config{Store: store, CartKey: cart.StorageKey, Chat: chat.NewPanel(echoLLM{})})
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	if err := newREPL(app, in, &out).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String(), app
}

func TestREPL_AddRequiresLogin(t *testing.T) {
	out, app := runScript(t, storage.NewMemoryStore(), "add 1", "quit")
	if !strings.Contains(out, "Please log in to add items to your cart.") {
		t.Fatalf("missing notice:\n%s", out)
	}
	if app.View() != shop.ViewLogin || !app.Cart().IsEmpty() {
		t.Fatalf("unexpected state after rejected add")
	}
}

func TestREPL_ShoppingSessionPersists(t *testing.T) {
	store := storage.NewMemoryStore()
	out, _ := runScript(t, store, "login", "me@example.com secret", "add 2 2", "add 2", "quit")
	if !strings.Contains(out, "Total $149.97") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	// A new session over the same store starts with the saved cart.
	app := shop.New(shop.Config{Store: store})
	if app.Cart().Quantity(2) != 3 {
		t.Fatalf("cart not restored: %d", app.Cart().Quantity(2))
	}
}

func TestREPL_SearchAndChat(t *testing.T) {
	out, app := runScript(t, storage.NewMemoryStore(), "shop", "katana", "chat", "who is zoro?")
	if !strings.Contains(out, "#4 Zoro's Enma Katana Replica") {
		t.Fatalf("search result missing:\n%s", out)
	}
	if !strings.Contains(out, "Assistant: echo: who is zoro?") {
		t.Fatalf("chat reply missing:\n%s", out)
	}
	if n := len(app.Chat().History()); n != 3 {
		t.Fatalf("history length = %d", n)
	}
}
