package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bankaimise/internal/catalog"
	"bankaimise/internal/chat"
	"bankaimise/internal/shop"
)

const replHelp = `Commands:
  home | shop [query] | chat | login | logout
  product <id> | back
  add <id> [qty] | remove <id> | cart
  help | quit
In the chat view any other line is sent to the assistant.
In the shop view any other line is a search.`

type repl struct {
	app *shop.App
	in  *bufio.Scanner
	out io.Writer
}

func newREPL(app *shop.App, in io.Reader, out io.Writer) *repl {
	return &repl{app: app, in: bufio.NewScanner(in), out: out}
}

func (r *repl) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "=== BankaiMise ===")
	fmt.Fprintln(r.out, "Type help for commands, quit to exit")
	r.show()

	for {
		fmt.Fprintf(r.out, "[%s] > ", r.app.Screen())
		if !r.in.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		if quit := r.handle(ctx, line); quit {
			break
		}
	}
	fmt.Fprintln(r.out, "Sayonara!")
	return r.in.Err()
}

func (r *repl) handle(ctx context.Context, line string) bool {
	cmd, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(r.out, replHelp)
		return false
	case "home":
		r.app.SetView(shop.ViewHome)
	case "shop":
		r.app.SetView(shop.ViewShop)
		r.app.SetQuery(args)
	case "chat":
		r.app.SetView(shop.ViewChat)
	case "login":
		r.app.SetView(shop.ViewLogin)
		fmt.Fprintln(r.out, "Email and password (anything works):")
		if r.in.Scan() {
			r.app.Login()
		}
	case "logout":
		r.app.Logout()
	case "product":
		id, err := strconv.Atoi(args)
		if err != nil || r.app.Select(id) != nil {
			fmt.Fprintf(r.out, "No product %q\n", args)
			return false
		}
	case "back":
		r.app.ClearSelection()
	case "add":
		r.add(args)
		return false
	case "remove":
		id, err := strconv.Atoi(args)
		if err != nil {
			fmt.Fprintln(r.out, "usage: remove <id>")
			return false
		}
		r.app.RemoveFromCart(id)
		r.showCart()
		return false
	case "cart":
		r.showCart()
		return false
	default:
		r.text(ctx, line)
		return false
	}
	r.show()
	return false
}

func (r *repl) add(args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		fmt.Fprintln(r.out, "usage: add <id> [qty]")
		return
	}
	id, err := strconv.Atoi(fields[0])
	qty := 1
	if err == nil && len(fields) > 1 {
		qty, err = strconv.Atoi(fields[1])
	}
	if err != nil {
		fmt.Fprintln(r.out, "usage: add <id> [qty]")
		return
	}

	switch err := r.app.AddToCartByID(id, qty); {
	case errors.Is(err, shop.ErrLoginRequired):
		fmt.Fprintln(r.out, "Please log in to add items to your cart.")
		r.show()
	case err != nil:
		fmt.Fprintf(r.out, "Error: %v\n", err)
	default:
		r.showCart()
	}
}

func (r *repl) text(ctx context.Context, line string) {
	switch r.app.View() {
	case shop.ViewChat:
		panel := r.app.Chat()
		if panel == nil {
			fmt.Fprintln(r.out, chat.MissingKeyReply)
			return
		}
		fmt.Fprintln(r.out, "Thinking...")
		reply, err := panel.Submit(ctx, line)
		if err != nil {
			return
		}
		fmt.Fprintf(r.out, "Assistant: %s\n", reply.Text)
	case shop.ViewShop:
		r.app.ClearSelection()
		r.app.SetQuery(line)
		r.show()
	default:
		fmt.Fprintf(r.out, "Unknown command %q. Type help.\n", line)
	}
}

func (r *repl) show() {
	st := r.app.Snapshot()
	switch st.Screen {
	case shop.ScreenProduct:
		p := *st.Selected
		fmt.Fprintf(r.out, "%s [%s]\n%s  ★%.1f\n", p.Name, p.Category, price(p.Price), p.Rating)
		fmt.Fprintln(r.out, "You may also like:")
		r.list(r.app.Related(p.ID))
	case shop.ScreenShop:
		products := r.app.Products()
		if len(products) == 0 {
			fmt.Fprintf(r.out, "No products found matching %q\n", st.Query)
			return
		}
		r.list(products)
	case shop.ScreenChat:
		if r.app.Chat() == nil {
			fmt.Fprintln(r.out, chat.MissingKeyReply)
			break
		}
		for _, m := range r.app.Chat().History() {
			who := "Assistant"
			if m.Role == chat.RoleUser {
				who = "You"
			}
			fmt.Fprintf(r.out, "%s: %s\n", who, m.Text)
		}
	case shop.ScreenLogin:
		fmt.Fprintln(r.out, "Please Login")
	default:
		fmt.Fprintln(r.out, "BankaiMise: Unleash Your Inner Otaku.")
		fmt.Fprintln(r.out, "Trending:")
		r.list(r.app.Featured())
	}
	fmt.Fprintf(r.out, "Cart: %d item(s)\n", st.Cart.Count())
}

func (r *repl) showCart() {
	c := r.app.Cart()
	if c.IsEmpty() {
		fmt.Fprintln(r.out, "Your cart is empty.")
		return
	}
	for _, it := range c.Items() {
		fmt.Fprintf(r.out, "#%d %s x%d %s\n", it.ID, it.Name, it.Quantity, price(it.Price*float64(it.Quantity)))
	}
	fmt.Fprintf(r.out, "Total %s\n", price(c.Total()))
}

func (r *repl) list(ps []catalog.Product) {
	for _, p := range ps {
		fmt.Fprintf(r.out, "#%d %s %s\n", p.ID, p.Name, price(p.Price))
	}
}

func price(v float64) string { return fmt.Sprintf("$%.2f", v) }
