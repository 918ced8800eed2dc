package cart

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bankaimise/internal/catalog"
	"bankaimise/internal/storage"
)

var (
	naruto = catalog.Product{ID: 1, Name: "Naruto Rasengan Figure | 19 CM", Price: 29.99, Category: catalog.CategoryFigures, Rating: 4.9}
	ring   = catalog.Product{ID: 8, Name: "Akatsuki Cloud Ring", Price: 9.99, Category: catalog.CategoryAccessories, Rating: 4.4}
)

func TestAdd_MergesAdditively(t *testing.T) {
	var c Cart
	for _, q := range []int{1, 3, 2} {
		c = c.Add(naruto, q)
	}
	if c.Len() != 1 {
		t.Fatalf("want exactly one entry, got %d", c.Len())
	}
	if got := c.Quantity(naruto.ID); got != 6 {
		t.Fatalf("want quantity 6, got %d", got)
	}
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	c := Cart{}.Add(ring, 1).Add(naruto, 1).Add(ring, 1)
	items := c.Items()
	if len(items) != 2 || items[0].ID != ring.ID || items[1].ID != naruto.ID {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestAdd_DoesNotMutateReceiver(t *testing.T) {
	before := Cart{}.Add(naruto, 1)
	after := before.Add(naruto, 4).Add(ring, 1)
	if before.Quantity(naruto.ID) != 1 || before.Len() != 1 {
		t.Fatalf("receiver mutated: %+v", before.Items())
	}
	if after.Quantity(naruto.ID) != 5 || after.Len() != 2 {
		t.Fatalf("unexpected result: %+v", after.Items())
	}
}

func TestRemove(t *testing.T) {
	c := Cart{}.Add(naruto, 2).Add(ring, 1)
	c = c.Remove(naruto.ID)
	if c.Len() != 1 || c.Quantity(naruto.ID) != 0 {
		t.Fatalf("remove failed: %+v", c.Items())
	}
	same := c.Remove(12345)
	if diff := cmp.Diff(c.Items(), same.Items()); diff != "" {
		t.Fatalf("removing an absent id changed the cart:\n%s", diff)
	}
}

func TestTotalAndCount(t *testing.T) {
	c := Cart{}.Add(naruto, 2).Add(ring, 3)
	wantTotal := 29.99*2 + 9.99*3
	if math.Abs(c.Total()-wantTotal) > 1e-9 {
		t.Fatalf("total: want %v, got %v", wantTotal, c.Total())
	}
	if c.Count() != 5 {
		t.Fatalf("count: want 5, got %d", c.Count())
	}
	total, count := c.Total(), c.Count()
	if total != c.Total() || count != c.Count() {
		t.Fatalf("total/count not stable")
	}
	if (Cart{}).Total() != 0 || (Cart{}).Count() != 0 {
		t.Fatalf("empty cart should total zero")
	}
}

func TestJSONShape(t *testing.T) {
	c := Cart{}.Add(ring, 2)
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("not an array: %s", data)
	}
	if len(raw) != 1 || raw[0]["id"] != float64(8) || raw[0]["quantity"] != float64(2) || raw[0]["name"] != ring.Name {
		t.Fatalf("unexpected shape: %s", data)
	}
	empty, _ := json.Marshal(Cart{})
	if string(empty) != "[]" {
		t.Fatalf("empty cart should encode as [], got %s", empty)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := storage.NewMemoryStore()
	c := Cart{}.Add(naruto, 2).Add(ring, 1)
	if err := Save(s, StorageKey, c); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := Load(s, StorageKey)
	if diff := cmp.Diff(c.Items(), got.Items()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed json", data: "{not json"},
		{name: "wrong shape", data: `{"id":1}`},
		{name: "zero quantity", data: `[{"id":1,"name":"x","price":1,"quantity":0}]`},
		{name: "duplicate ids", data: `[{"id":1,"quantity":1},{"id":1,"quantity":2}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storage.NewMemoryStore()
			_ = s.Set(StorageKey, []byte(tt.data))
			if got := Load(s, StorageKey); !got.IsEmpty() {
				t.Fatalf("want empty cart, got %+v", got.Items())
			}
		})
	}
	if got := Load(storage.NewMemoryStore(), StorageKey); !got.IsEmpty() {
		t.Fatalf("missing key should load empty")
	}
}
