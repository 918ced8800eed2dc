package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bankaimise/internal/catalog"
	"bankaimise/internal/chat"
	"bankaimise/internal/shop"
)

// Callback data understood by handleCallback.
const (
	cbView       = "view:"
	cbProduct    = "product:"
	cbAdd        = "add:"
	cbRemove     = "remove:"
	cbBack       = "back"
	cbCart       = "cart"
	cbCloseCart  = "cart_close"
	cbGoShopping = "go_shopping"
	cbCheckout   = "checkout"
	cbLogin      = "login"
	cbLogout     = "logout"
	cbClearQuery = "clear_search"
)

const chatHistoryShown = 10

type screen struct {
	text     string
	keyboard tgbotapi.InlineKeyboardMarkup
}

func price(v float64) string { return fmt.Sprintf("$%.2f", v) }

func productLine(p catalog.Product) string {
	return fmt.Sprintf("%s: %s ★%.1f", p.Name, price(p.Price), p.Rating)
}

func productRows(ps []catalog.Product) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(ps))
	for _, p := range ps {
		id := strconv.Itoa(p.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Name, cbProduct+id),
			tgbotapi.NewInlineKeyboardButtonData("🛒 Add", cbAdd+id),
		))
	}
	return rows
}

func navRow(st shop.State) []tgbotapi.InlineKeyboardButton {
	session := tgbotapi.NewInlineKeyboardButtonData("Login", cbView+string(shop.ViewLogin))
	if st.Authenticated {
		session = tgbotapi.NewInlineKeyboardButtonData("Logout", cbLogout)
	}
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Home", cbView+string(shop.ViewHome)),
		tgbotapi.NewInlineKeyboardButtonData("Shop", cbView+string(shop.ViewShop)),
		tgbotapi.NewInlineKeyboardButtonData("Assistant", cbView+string(shop.ViewChat)),
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Cart (%d)", st.Cart.Count()), cbCart),
		session,
	)
}

func withNav(st shop.State, rows ...[]tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(append(rows, navRow(st))...)
}

// render draws the current screen of app.
func render(app *shop.App) screen {
	st := app.Snapshot()
	switch st.Screen {
	case shop.ScreenProduct:
		return renderProduct(st, *st.Selected, app.Related(st.Selected.ID))
	case shop.ScreenShop:
		return renderShop(st, app.Products())
	case shop.ScreenChat:
		var history []chat.Message
		pending := false
		if p := app.Chat(); p != nil {
			history, pending = p.History(), p.Pending()
		}
		return renderChat(st, history, pending)
	case shop.ScreenLogin:
		return renderLogin(st)
	default:
		return renderHome(st, app.Featured())
	}
}

func renderHome(st shop.State, featured []catalog.Product) screen {
	var b strings.Builder
	b.WriteString("BankaiMise\nUnleash Your Inner Otaku.\n\n")
	b.WriteString("From high-quality figures to authentic cosplay gear. Explore the best merchandise from Naruto, One Piece, Demon Slayer, and more.\n\n")
	b.WriteString("Why shop with us?\n⭐ Authentic Merch: 100% Licensed Products\n📦 Secure Packaging: Safe delivery guaranteed\n⚡ Fast Shipping: Tracked global shipping\n\n")
	b.WriteString("Trending Accessories:\n")
	for _, p := range featured {
		b.WriteString("• " + productLine(p) + "\n")
	}

	rows := [][]tgbotapi.InlineKeyboardButton{tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Shop Now →", cbView+string(shop.ViewShop)),
		tgbotapi.NewInlineKeyboardButtonData("Ask AI Assistant", cbView+string(shop.ViewChat)),
	)}
	rows = append(rows, productRows(featured)...)
	return screen{text: b.String(), keyboard: withNav(st, rows...)}
}

func renderShop(st shop.State, products []catalog.Product) screen {
	var b strings.Builder
	b.WriteString("Anime Collection\nBrowse the finest collection of items from the anime universe.\n")
	if st.Query != "" {
		fmt.Fprintf(&b, "Search: %q\n", st.Query)
	} else {
		b.WriteString("Send any text to search figures, apparel...\n")
	}
	b.WriteString("\n")

	if len(products) == 0 {
		fmt.Fprintf(&b, "No products found\nWe couldn't find any items matching %q. Try searching for something else like \"Naruto\" or \"Figure\".", st.Query)
		return screen{text: b.String(), keyboard: withNav(st, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Clear Search", cbClearQuery),
		))}
	}

	for _, p := range products {
		fmt.Fprintf(&b, "#%d %s [%s]\n", p.ID, productLine(p), p.Category)
	}
	rows := productRows(products)
	if st.Query != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Clear Search", cbClearQuery)))
	}
	return screen{text: b.String(), keyboard: withNav(st, rows...)}
}

func renderProduct(st shop.State, p catalog.Product, related []catalog.Product) screen {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", p.Name, p.Category)
	fmt.Fprintf(&b, "Price: %s\nRating: ★%.1f\n%s\n", price(p.Price), p.Rating, p.Image)
	if q := st.Cart.Quantity(p.ID); q > 0 {
		fmt.Fprintf(&b, "In your cart: %d\n", q)
	}
	if len(related) > 0 {
		b.WriteString("\nYou may also like:\n")
		for _, r := range related {
			b.WriteString("• " + productLine(r) + "\n")
		}
	}

	rows := [][]tgbotapi.InlineKeyboardButton{tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🛒 Add to Cart", cbAdd+strconv.Itoa(p.ID)),
		tgbotapi.NewInlineKeyboardButtonData("← Back", cbBack),
	)}
	for _, r := range related {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(r.Name, cbProduct+strconv.Itoa(r.ID)),
		))
	}
	return screen{text: b.String(), keyboard: withNav(st, rows...)}
}

func renderLogin(st shop.State) screen {
	text := "Please Login\n\nSend your email and password in one message, for example:\nnaruto@konoha.jp rasengan\n\nOr tap Continue with Google."
	if st.Authenticated {
		text = "You are already logged in."
	}
	return screen{text: text, keyboard: withNav(st, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Continue with Google", cbLogin),
	))}
}

func renderChat(st shop.State, history []chat.Message, pending bool) screen {
	var b strings.Builder
	b.WriteString("Anime Assistant AI\n\n")
	shown := history
	if len(shown) > chatHistoryShown {
		shown = shown[len(shown)-chatHistoryShown:]
	}
	for _, m := range shown {
		b.WriteString(formatChatMessage(m))
		b.WriteString("\n\n")
	}
	if pending {
		b.WriteString("Thinking...\n\n")
	}
	b.WriteString("Ask about anime or products...")
	return screen{text: b.String(), keyboard: withNav(st)}
}

func formatChatMessage(m chat.Message) string {
	who := "Assistant"
	if m.Role == chat.RoleUser {
		who = "You"
	}
	return who + ": " + m.Text
}

func renderCart(st shop.State) screen {
	var b strings.Builder
	b.WriteString("🛍 Your Cart\n\n")
	if st.Cart.IsEmpty() {
		b.WriteString("Your cart is empty.")
		return screen{text: b.String(), keyboard: withNav(st, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Go Shopping", cbGoShopping),
		))}
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range st.Cart.Items() {
		fmt.Fprintf(&b, "%s\n%s  Qty: %d\n\n", it.Name, price(it.Price), it.Quantity)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+it.Name, cbRemove+strconv.Itoa(it.ID)),
		))
	}
	fmt.Fprintf(&b, "Total %s", price(st.Cart.Total()))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Checkout", cbCheckout),
		tgbotapi.NewInlineKeyboardButtonData("Close", cbCloseCart),
	))
	return screen{text: b.String(), keyboard: withNav(st, rows...)}
}
