package shop

import (
	"bankaimise/internal/cart"
	"bankaimise/internal/catalog"
)

// State is a consistent copy of an App, taken under one lock, for rendering.
type State struct {
	View          View
	Screen        Screen
	Authenticated bool
	Cart          cart.Cart
	CartOpen      bool
	Query         string
	Selected      *catalog.Product
}

func (a *App) Snapshot() State {
	a.mu.Lock()
	s := State{
		View:          a.view,
		Screen:        a.screenLocked(),
		Authenticated: a.authenticated,
		Cart:          a.cart,
		CartOpen:      a.cartOpen,
		Query:         a.query,
	}
	id := a.selected
	a.mu.Unlock()

	if id != 0 {
		if p, ok := a.catalog.Lookup(id); ok {
			s.Selected = &p
		}
	}
	return s
}
