// Package catalog is the storefront's fixed product list and its lookups.
package catalog

import "strings"

type Category string

const (
	CategoryFigures     Category = "Figures"
	CategoryApparel     Category = "Apparel"
	CategoryAccessories Category = "Accessories"
	CategoryMysteryBox  Category = "Mystery Box"
	CategoryCosplay     Category = "Cosplay"
)

// Product is a catalog record. Products are never mutated after the catalog is built.
type Product struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Category Category `json:"category"`
	Image    string   `json:"image"`
	Rating   float64  `json:"rating"`
}

// Catalog is a read-only, ordered product list.
type Catalog struct {
	products []Product
	byID     map[int]int
}

func New(products []Product) *Catalog {
	c := &Catalog{
		products: append([]Product(nil), products...),
		byID:     make(map[int]int, len(products)),
	}
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// Default returns the storefront's built-in catalog.
func Default() *Catalog { return New(defaultProducts) }

var defaultProducts = []Product{
	{ID: 1, Name: "Naruto Rasengan Figure | 19 CM", Price: 29.99, Category: CategoryFigures, Rating: 4.9, Image: "https://picsum.photos/400/400?random=101"},
	{ID: 2, Name: "Demon Slayer Mystery Box", Price: 49.99, Category: CategoryMysteryBox, Rating: 4.8, Image: "https://picsum.photos/400/400?random=102"},
	{ID: 3, Name: "Luffy Gear 5 T-Shirt", Price: 24.99, Category: CategoryApparel, Rating: 4.7, Image: "https://picsum.photos/400/400?random=103"},
	{ID: 4, Name: "Zoro's Enma Katana Replica", Price: 89.99, Category: CategoryAccessories, Rating: 4.9, Image: "https://picsum.photos/400/400?random=104"},
	{ID: 5, Name: "Gojo Satoru Blindfold", Price: 14.99, Category: CategoryCosplay, Rating: 4.6, Image: "https://picsum.photos/400/400?random=105"},
	{ID: 6, Name: "Attack on Titan Scout Cloak", Price: 34.99, Category: CategoryApparel, Rating: 4.8, Image: "https://picsum.photos/400/400?random=106"},
	{ID: 7, Name: "Any Anime Mini Figure Set", Price: 19.99, Category: CategoryFigures, Rating: 4.5, Image: "https://picsum.photos/400/400?random=107"},
	{ID: 8, Name: "Akatsuki Cloud Ring", Price: 9.99, Category: CategoryAccessories, Rating: 4.4, Image: "https://picsum.photos/400/400?random=108"},
}

// All returns a copy of every product in catalog order.
func (c *Catalog) All() []Product {
	return append([]Product(nil), c.products...)
}

func (c *Catalog) Len() int { return len(c.products) }

func (c *Catalog) Lookup(id int) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Filter matches query against product names, ignoring case.
// An empty query returns the whole catalog.
func (c *Catalog) Filter(query string) []Product {
	if query == "" {
		return c.All()
	}
	q := strings.ToLower(query)
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns the first n products.
func (c *Catalog) Featured(n int) []Product {
	if n > len(c.products) {
		n = len(c.products)
	}
	if n < 0 {
		n = 0
	}
	return append([]Product(nil), c.products[:n]...)
}

// Related returns up to n products other than id, in catalog order.
func (c *Catalog) Related(id, n int) []Product {
	if n < 0 {
		n = 0
	}
	out := make([]Product, 0, n)
	for _, p := range c.products {
		if len(out) >= n {
			break
		}
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
