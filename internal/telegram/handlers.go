package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bankaimise/internal/auth"
	"bankaimise/internal/chat"
	"bankaimise/internal/shop"
)

const helpText = `BankaiMise commands:
/start, /home - home page
/shop [query] - browse the collection
/search <query> - search products by name
/product <id> - product details
/back - back to the list
/add <id> [qty] - add to cart
/remove <id> - remove from cart
/cart - show your cart
/chat - talk to the Anime Assistant
/login, /logout
/help - this message`

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	app := b.sessions.get(msg.Chat.ID)

	if msg.IsCommand() {
		b.handleCommand(ctx, app, msg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch app.View() {
	case shop.ViewLogin:
		b.submitLogin(app, msg.Chat.ID, msg.From, text)
	case shop.ViewChat:
		b.submitChat(ctx, app, msg.Chat.ID, msg.Text)
	case shop.ViewShop:
		app.ClearSelection()
		app.SetQuery(text)
		b.sendScreen(msg.Chat.ID, render(app))
	default:
		b.sendMessage(msg.Chat.ID, "Open the shop to search, or the assistant to ask a question. /help lists everything.")
	}
}

func (b *Bot) handleCommand(ctx context.Context, app *shop.App, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "home":
		app.SetView(shop.ViewHome)
	case "shop", "search":
		app.SetView(shop.ViewShop)
		app.SetQuery(args)
	case "product":
		id, err := strconv.Atoi(args)
		if err != nil {
			b.sendMessage(chatID, "usage: /product <id>")
			return
		}
		if err := app.Select(id); err != nil {
			b.sendMessage(chatID, fmt.Sprintf("Product %d not found.", id))
			return
		}
	case "back":
		app.ClearSelection()
	case "add":
		id, qty, err := parseAddArgs(args)
		if err != nil {
			b.sendMessage(chatID, "usage: /add <id> [qty]")
			return
		}
		b.addToCart(app, chatID, id, qty)
		return
	case "remove":
		id, err := strconv.Atoi(args)
		if err != nil {
			b.sendMessage(chatID, "usage: /remove <id>")
			return
		}
		app.RemoveFromCart(id)
		b.sendScreen(chatID, renderCart(app.Snapshot()))
		return
	case "cart":
		app.OpenCart()
		b.sendScreen(chatID, renderCart(app.Snapshot()))
		return
	case "chat":
		app.SetView(shop.ViewChat)
	case "login":
		app.SetView(shop.ViewLogin)
	case "logout":
		app.Logout()
	case "shoppers":
		b.handleShoppers(msg)
		return
	case "report":
		if msg.From.ID != b.adminUserID {
			return
		}
		b.handleReport(ctx, chatID, args)
		return
	case "forget":
		if msg.From.ID != b.adminUserID {
			return
		}
		b.handleForget(chatID, args)
		return
	case "help":
		b.sendMessage(chatID, helpText)
		return
	default:
		b.sendMessage(chatID, "Unknown command. /help lists everything.")
		return
	}
	b.sendScreen(chatID, render(app))
}

func parseAddArgs(args string) (int, int, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, errors.New("want <id> [qty]")
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	qty := 1
	if len(fields) == 2 {
		if qty, err = strconv.Atoi(fields[1]); err != nil {
			return 0, 0, err
		}
	}
	return id, qty, nil
}

func (b *Bot) addToCart(app *shop.App, chatID int64, id, qty int) {
	err := app.AddToCartByID(id, qty)
	switch {
	case errors.Is(err, shop.ErrLoginRequired):
		b.sendMessage(chatID, "Please log in to add items to your cart.")
		b.sendScreen(chatID, render(app))
	case errors.Is(err, shop.ErrUnknownProduct):
		b.sendMessage(chatID, fmt.Sprintf("Product %d not found.", id))
	case err != nil:
		b.sendMessage(chatID, err.Error())
	default:
		b.sendScreen(chatID, renderCart(app.Snapshot()))
	}
}

// submitLogin treats any text as the login form. Nothing is verified.
func (b *Bot) submitLogin(app *shop.App, chatID int64, from *tgbotapi.User, text string) {
	var creds auth.Credentials
	if fields := strings.Fields(text); len(fields) > 0 {
		creds.Email = fields[0]
		if len(fields) > 1 {
			creds.Password = fields[1]
		}
	}
	b.login(app, chatID, from, creds)
}

func (b *Bot) login(app *shop.App, chatID int64, from *tgbotapi.User, creds auth.Credentials) {
	if b.authSvc != nil && from != nil {
		if _, err := b.authSvc.Login(chatID, from.UserName, creds); err != nil {
			log.Printf("failed to record shopper %d: %v", chatID, err)
		}
	}
	app.Login()
	b.sendScreen(chatID, render(app))
}

func (b *Bot) submitChat(ctx context.Context, app *shop.App, chatID int64, text string) {
	panel := app.Chat()
	if panel == nil {
		b.sendMessage(chatID, chat.MissingKeyReply)
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	if panel.Pending() {
		b.sendMessage(chatID, "Still thinking about your last question...")
		return
	}
	b.sendChatAction(chatID)
	b.spawn(func() {
		reply, err := panel.Submit(ctx, text)
		switch {
		case errors.Is(err, chat.ErrBusy):
			b.sendMessage(chatID, "Still thinking about your last question...")
		case errors.Is(err, chat.ErrEmptyMessage):
		case err != nil:
			log.Printf("chat %d: %v", chatID, err)
		default:
			b.sendMessage(chatID, formatChatMessage(reply))
		}
	})
}

func (b *Bot) sendChatAction(chatID int64) {
	if _, err := b.s.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("failed to send typing action: %v", err)
	}
}

func (b *Bot) handleShoppers(msg *tgbotapi.Message) {
	if msg.From.ID != b.adminUserID || b.authSvc == nil {
		return
	}
	list := b.authSvc.List()
	if len(list) == 0 {
		b.sendMessage(msg.Chat.ID, "No shoppers yet.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Shoppers:\n")
	for _, s := range list {
		name := s.Username
		if name == "" {
			name = strconv.FormatInt(s.ID, 10)
		}
		fmt.Fprintf(&sb, "- @%s %s (last login %s)\n", name, s.Email, s.LastLogin.Format("2006-01-02 15:04"))
	}
	b.sendMessage(msg.Chat.ID, sb.String())
}

// handleReport sends today's summary, or the raw stats for "/report json".
func (b *Bot) handleReport(ctx context.Context, chatID int64, args string) {
	if args != "json" {
		if err := b.SendDailyReport(ctx); err != nil {
			b.sendMessage(chatID, "report failed: "+err.Error())
		}
		return
	}
	stats, err := b.dailyStats()
	if err != nil {
		b.sendMessage(chatID, "report failed: "+err.Error())
		return
	}
	out, err := stats.ToJSON()
	if err != nil {
		b.sendMessage(chatID, "report failed: "+err.Error())
		return
	}
	b.sendMessage(chatID, out)
}

func (b *Bot) handleForget(chatID int64, args string) {
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		b.sendMessage(chatID, "usage: /forget <shopper id>")
		return
	}
	if b.authSvc == nil || !b.authSvc.Known(id) {
		b.sendMessage(chatID, fmt.Sprintf("Unknown shopper %d.", id))
		return
	}
	if err := b.forgetShopper(id); err != nil {
		log.Printf("failed to forget shopper %d: %v", id, err)
		b.sendMessage(chatID, "forget failed: "+err.Error())
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("Forgot shopper %d and their cart.", id))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
	chatID := cb.Message.Chat.ID
	app := b.sessions.get(chatID)
	data := cb.Data

	switch {
	case strings.HasPrefix(data, cbView):
		v, err := shop.ParseView(strings.TrimPrefix(data, cbView))
		if err != nil {
			return
		}
		app.SetView(v)
	case strings.HasPrefix(data, cbProduct):
		id, err := strconv.Atoi(strings.TrimPrefix(data, cbProduct))
		if err != nil || app.Select(id) != nil {
			return
		}
	case strings.HasPrefix(data, cbAdd):
		id, err := strconv.Atoi(strings.TrimPrefix(data, cbAdd))
		if err != nil {
			return
		}
		b.addToCart(app, chatID, id, 1)
		return
	case strings.HasPrefix(data, cbRemove):
		id, err := strconv.Atoi(strings.TrimPrefix(data, cbRemove))
		if err != nil {
			return
		}
		app.RemoveFromCart(id)
		b.sendScreen(chatID, renderCart(app.Snapshot()))
		return
	case data == cbBack:
		app.ClearSelection()
	case data == cbCart:
		app.OpenCart()
		b.sendScreen(chatID, renderCart(app.Snapshot()))
		return
	case data == cbCloseCart:
		app.CloseCart()
	case data == cbGoShopping:
		app.CloseCart()
		app.SetView(shop.ViewShop)
	case data == cbCheckout:
		b.sendMessage(chatID, "Checkout is not available yet. Your cart is saved.")
		return
	case data == cbLogin:
		b.login(app, chatID, cb.From, auth.Credentials{})
		return
	case data == cbLogout:
		app.Logout()
	case data == cbClearQuery:
		app.SetQuery("")
	default:
		return
	}
	b.sendScreen(chatID, render(app))
}
