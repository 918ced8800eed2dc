// Package shop is the per-shopper application state: which screen is shown,
// whether the shopper is logged in, what is in the cart and which product is
// open. Every change goes through a named method on App.
package shop

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"bankaimise/internal/cart"
	"bankaimise/internal/catalog"
	"bankaimise/internal/chat"
	"bankaimise/internal/storage"
)

type View string

const (
	ViewHome  View = "home"
	ViewShop  View = "shop"
	ViewChat  View = "chat"
	ViewLogin View = "login"
)

func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewHome, ViewShop, ViewChat, ViewLogin:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Screen is what a front end should draw: one of the views, or the product
// detail overlay.
type Screen string

const (
	ScreenHome    Screen = "home"
	ScreenShop    Screen = "shop"
	ScreenChat    Screen = "chat"
	ScreenLogin   Screen = "login"
	ScreenProduct Screen = "product"
)

const (
	FeaturedCount = 4
	RelatedCount  = 4
)

var (
	ErrLoginRequired   = errors.New("please log in to add items to your cart")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrUnknownProduct  = errors.New("unknown product")
)

type Config struct {
	Catalog *catalog.Catalog
	Store   storage.Store
	// CartKey defaults to cart.StorageKey.
	CartKey string
	// Chat is created lazily by the front end when nil.
	Chat      *chat.Panel
	Recorder  storage.Recorder
	ShopperID int64
}

// App is safe for concurrent use; all methods take the same lock.
type App struct {
	catalog   *catalog.Catalog
	store     storage.Store
	cartKey   string
	recorder  storage.Recorder
	shopperID int64
	chat      *chat.Panel
	now       func() time.Time

	mu            sync.Mutex
	view          View
	authenticated bool
	cart          cart.Cart
	selected      int
	cartOpen      bool
	query         string
}

// New loads the persisted cart once and starts on the home view, logged out.
func New(cfg Config) *App {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Store == nil {
		cfg.Store = storage.NewMemoryStore()
	}
	if cfg.CartKey == "" {
		cfg.CartKey = cart.StorageKey
	}
	return &App{
		catalog:   cfg.Catalog,
		store:     cfg.Store,
		cartKey:   cfg.CartKey,
		recorder:  cfg.Recorder,
		shopperID: cfg.ShopperID,
		chat:      cfg.Chat,
		now:       time.Now,
		view:      ViewHome,
		cart:      cart.Load(cfg.Store, cfg.CartKey),
	}
}

func (a *App) Catalog() *catalog.Catalog { return a.catalog }

func (a *App) Chat() *chat.Panel { return a.chat }

func (a *App) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// SetView switches the primary view and always drops the product selection.
func (a *App) SetView(v View) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setViewLocked(v)
}

func (a *App) setViewLocked(v View) {
	a.selected = 0
	a.view = v
}

// Select opens the detail screen for product id.
func (a *App) Select(id int) error {
	if _, ok := a.catalog.Lookup(id); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProduct, id)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = id
	return nil
}

func (a *App) ClearSelection() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = 0
}

// Selected resolves the selection against the catalog.
func (a *App) Selected() (catalog.Product, bool) {
	a.mu.Lock()
	id := a.selected
	a.mu.Unlock()
	if id == 0 {
		return catalog.Product{}, false
	}
	return a.catalog.Lookup(id)
}

// Screen reports what should be rendered. The product detail takes priority
// over every view except login.
func (a *App) Screen() Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screenLocked()
}

func (a *App) screenLocked() Screen {
	if a.selected != 0 && a.view != ViewLogin {
		return ScreenProduct
	}
	return Screen(a.view)
}

func (a *App) Authenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authenticated
}

// Login marks the session authenticated and always lands on the shop listing.
func (a *App) Login() {
	a.mu.Lock()
	a.authenticated = true
	a.view = ViewShop
	a.mu.Unlock()
	a.record(storage.Event{Kind: storage.EventLogin})
}

// Logout ends the session, empties the cart and returns home.
func (a *App) Logout() {
	a.mu.Lock()
	a.authenticated = false
	a.replaceCartLocked(cart.Cart{})
	a.setViewLocked(ViewHome)
	a.mu.Unlock()
	a.record(storage.Event{Kind: storage.EventLogout})
}

// AddToCart merges quantity of p into the cart and opens the cart panel.
// When logged out it changes nothing but the view, which moves to login,
// and returns ErrLoginRequired.
func (a *App) AddToCart(p catalog.Product, quantity int) error {
	a.mu.Lock()
	if !a.authenticated {
		a.setViewLocked(ViewLogin)
		a.mu.Unlock()
		return ErrLoginRequired
	}
	if quantity < 1 {
		a.mu.Unlock()
		return ErrInvalidQuantity
	}
	product, ok := a.catalog.Lookup(p.ID)
	if !ok {
		a.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownProduct, p.ID)
	}
	a.replaceCartLocked(a.cart.Add(product, quantity))
	a.cartOpen = true
	a.mu.Unlock()

	a.record(storage.Event{Kind: storage.EventCartAdd, ProductID: product.ID, Quantity: quantity})
	return nil
}

// AddToCartByID is AddToCart for front ends that only know the product id.
func (a *App) AddToCartByID(id, quantity int) error {
	p, ok := a.catalog.Lookup(id)
	if !ok {
		p = catalog.Product{ID: id}
	}
	return a.AddToCart(p, quantity)
}

// RemoveFromCart drops the entry for id; absent ids are ignored.
func (a *App) RemoveFromCart(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cart.Quantity(id) == 0 {
		return
	}
	a.replaceCartLocked(a.cart.Remove(id))
}

func (a *App) Cart() cart.Cart {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cart
}

func (a *App) CartTotal() float64 { return a.Cart().Total() }

func (a *App) CartCount() int { return a.Cart().Count() }

func (a *App) CartOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cartOpen
}

func (a *App) OpenCart() {
	a.mu.Lock()
	a.cartOpen = true
	a.mu.Unlock()
}

func (a *App) CloseCart() {
	a.mu.Lock()
	a.cartOpen = false
	a.mu.Unlock()
}

func (a *App) SetQuery(q string) {
	a.mu.Lock()
	a.query = q
	a.mu.Unlock()
}

func (a *App) Query() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.query
}

// Products is the shop listing for the current search query.
func (a *App) Products() []catalog.Product {
	return a.catalog.Filter(a.Query())
}

func (a *App) Featured() []catalog.Product { return a.catalog.Featured(FeaturedCount) }

func (a *App) Related(id int) []catalog.Product { return a.catalog.Related(id, RelatedCount) }

// replaceCartLocked swaps in the new cart value and persists it.
// A failed write is logged; the in-memory cart stays authoritative.
func (a *App) replaceCartLocked(next cart.Cart) {
	a.cart = next
	if err := cart.Save(a.store, a.cartKey, next); err != nil {
		log.Printf("shopper %d: failed to persist cart: %v", a.shopperID, err)
	}
}

func (a *App) record(ev storage.Event) {
	if a.recorder == nil {
		return
	}
	ev.Timestamp = a.now().UTC()
	ev.ShopperID = a.shopperID
	if err := a.recorder.AppendEvent(ev); err != nil {
		log.Printf("shopper %d: failed to record %s event: %v", a.shopperID, ev.Kind, err)
	}
}
