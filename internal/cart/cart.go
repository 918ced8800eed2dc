// Package cart holds the shopping cart value type and its local-storage codec.
//
// A Cart is an immutable value: every mutating method returns a new Cart and
// leaves the receiver untouched.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"bankaimise/internal/catalog"
	"bankaimise/internal/storage"
)

// StorageKey is the local-storage key the cart is persisted under.
const StorageKey = "bankaimise_cart"

// Item is a product with a quantity. Product fields are flattened in JSON.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Cart is an ordered list of items, at most one per product id.
type Cart struct {
	items []Item
}

func New(items ...Item) Cart {
	var c Cart
	for _, it := range items {
		c = c.Add(it.Product, it.Quantity)
	}
	return c
}

// Items returns a copy of the items in insertion order.
func (c Cart) Items() []Item {
	return append([]Item(nil), c.items...)
}

func (c Cart) Len() int { return len(c.items) }

func (c Cart) IsEmpty() bool { return len(c.items) == 0 }

func (c Cart) Quantity(id int) int {
	for _, it := range c.items {
		if it.ID == id {
			return it.Quantity
		}
	}
	return 0
}

// Add merges quantity into the entry for p, appending a new entry when p is not in the cart.
func (c Cart) Add(p catalog.Product, quantity int) Cart {
	next := make([]Item, 0, len(c.items)+1)
	merged := false
	for _, it := range c.items {
		if it.ID == p.ID {
			it.Quantity += quantity
			merged = true
		}
		next = append(next, it)
	}
	if !merged {
		next = append(next, Item{Product: p, Quantity: quantity})
	}
	return Cart{items: next}
}

// Remove drops the entry with the given product id. Unknown ids are ignored.
func (c Cart) Remove(id int) Cart {
	next := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	return Cart{items: next}
}

func (c Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func (c Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c Cart) MarshalJSON() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(items)
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return fmt.Errorf("item %d: non-positive quantity %d", it.ID, it.Quantity)
		}
		if seen[it.ID] {
			return fmt.Errorf("item %d: duplicate entry", it.ID)
		}
		seen[it.ID] = true
	}
	c.items = items
	return nil
}

// Load reads the cart stored under key. A missing key yields an empty cart;
// unreadable or malformed data is logged and also yields an empty cart.
func Load(s storage.Store, key string) Cart {
	data, err := s.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return Cart{}
	}
	if err != nil {
		log.Printf("failed to load cart %q from local storage: %v", key, err)
		return Cart{}
	}
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		log.Printf("failed to load cart %q from local storage: %v", key, err)
		return Cart{}
	}
	return c
}

// Save writes the full cart under key.
func Save(s storage.Store, key string, c Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.Set(key, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
