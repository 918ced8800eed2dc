package telegram

import (
	"strings"
	"testing"

	"bankaimise/internal/catalog"
	"bankaimise/internal/chat"
	"bankaimise/internal/shop"
)

func buttonData(sc screen) []string {
	var out []string
	for _, row := range sc.keyboard.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				out = append(out, *btn.CallbackData)
			}
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestRenderHome_FeaturedProducts(t *testing.T) {
	app := shop.New(shop.Config{})
	sc := render(app)
	for _, p := range catalog.Default().Featured(shop.FeaturedCount) {
		if !strings.Contains(sc.text, p.Name) {
			t.Fatalf("home lacks featured %q", p.Name)
		}
	}
	if strings.Contains(sc.text, "Akatsuki Cloud Ring") {
		t.Fatalf("home shows more than the featured products")
	}
	data := buttonData(sc)
	if !contains(data, "cart") || !contains(data, "view:login") {
		t.Fatalf("nav row missing: %v", data)
	}
}

func TestRenderNav_LogoutWhenAuthenticated(t *testing.T) {
	app := shop.New(shop.Config{})
	app.Login()
	data := buttonData(render(app))
	if !contains(data, "logout") || contains(data, "view:login") {
		t.Fatalf("unexpected nav: %v", data)
	}
}

func TestRenderProduct_RelatedExcludesSelected(t *testing.T) {
	app := shop.New(shop.Config{})
	if err := app.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	sc := render(app)
	data := buttonData(sc)
	if !contains(data, "add:1") || !contains(data, "back") {
		t.Fatalf("missing product actions: %v", data)
	}
	if contains(data, "product:1") {
		t.Fatalf("selected product listed as related")
	}
	if !contains(data, "product:5") || contains(data, "product:6") {
		t.Fatalf("unexpected related set: %v", data)
	}
}

func TestRenderCart(t *testing.T) {
	app := shop.New(shop.Config{})
	if got := renderCart(app.Snapshot()).text; !strings.Contains(got, "Your cart is empty.") {
		t.Fatalf("unexpected empty cart: %q", got)
	}

	app.Login()
	_ = app.AddToCartByID(1, 2)
	_ = app.AddToCartByID(8, 1)
	sc := renderCart(app.Snapshot())
	if !strings.Contains(sc.text, "Total $69.97") {
		t.Fatalf("unexpected total in %q", sc.text)
	}
	data := buttonData(sc)
	if !contains(data, "remove:1") || !contains(data, "remove:8") || !contains(data, "checkout") {
		t.Fatalf("missing cart actions: %v", data)
	}
	if !contains(data, "cart") {
		t.Fatalf("nav row missing")
	}
}

func TestRenderChat_PendingAndTail(t *testing.T) {
	history := []chat.Message{{Role: chat.RoleAssistant, Text: "hello"}}
	for i := 0; i < chatHistoryShown+2; i++ {
		history = append(history, chat.Message{Role: chat.RoleUser, Text: "q"})
	}
	sc := renderChat(shop.State{}, history, true)
	if strings.Contains(sc.text, "hello") {
		t.Fatalf("history not trimmed to the tail")
	}
	if !strings.Contains(sc.text, "Thinking...") {
		t.Fatalf("pending indicator missing")
	}
	if strings.Count(sc.text, "You: q") != chatHistoryShown {
		t.Fatalf("expected %d turns shown", chatHistoryShown)
	}
}

func TestRenderShop_NoResults(t *testing.T) {
	sc := renderShop(shop.State{Query: "pokemon"}, nil)
	if !strings.Contains(sc.text, `No products found`) || !strings.Contains(sc.text, `"pokemon"`) {
		t.Fatalf("unexpected text: %q", sc.text)
	}
	if !contains(buttonData(sc), "clear_search") {
		t.Fatalf("clear search missing")
	}
}
