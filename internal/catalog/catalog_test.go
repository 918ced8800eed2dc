package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(ps []Product) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	c := Default()
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{name: "empty query returns all", query: "", want: []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{name: "case insensitive", query: "naruto", want: []int{1}},
		{name: "upper case", query: "FIGURE", want: []int{1, 7}},
		{name: "keeps catalog order", query: "a", want: []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{name: "no match", query: "pokemon", want: []int{}},
		{name: "name only, not category", query: "cosplay", want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(c.Filter(tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Filter(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestFilter_ReturnsCopy(t *testing.T) {
	c := Default()
	got := c.Filter("")
	got[0].Name = "mutated"
	p, _ := c.Lookup(1)
	if p.Name == "mutated" {
		t.Fatalf("catalog mutated through returned slice")
	}
}

func TestLookup(t *testing.T) {
	c := Default()
	p, ok := c.Lookup(4)
	if !ok || p.Name != "Zoro's Enma Katana Replica" || p.Category != CategoryAccessories {
		t.Fatalf("unexpected lookup: %+v %v", p, ok)
	}
	if _, ok := c.Lookup(99); ok {
		t.Fatalf("lookup of unknown id succeeded")
	}
}

func TestRelatedAndFeatured(t *testing.T) {
	c := Default()
	if diff := cmp.Diff([]int{2, 3, 4, 5}, ids(c.Related(1, 4))); diff != "" {
		t.Fatalf("Related(1) mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 4, 5}, ids(c.Related(3, 4))); diff != "" {
		t.Fatalf("Related(3) mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, ids(c.Featured(4))); diff != "" {
		t.Fatalf("Featured mismatch:\n%s", diff)
	}
	if got := len(c.Featured(100)); got != c.Len() {
		t.Fatalf("Featured should clamp, got %d", got)
	}
	if got := len(c.Related(1, -1)); got != 0 {
		t.Fatalf("Related with negative n = %d products", got)
	}
	if got := len(c.Featured(-1)); got != 0 {
		t.Fatalf("Featured with negative n = %d products", got)
	}
}
