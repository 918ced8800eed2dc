package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"bankaimise/internal/catalog"
)

func resultText(t *testing.T, res *mcp.CallToolResultFor[any]) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return tc.Text
}

func TestSearchProducts(t *testing.T) {
	s := NewCatalogServer(catalog.Default())
	res, err := s.SearchProducts(context.Background(), nil, &mcp.CallToolParamsFor[SearchProductsParams]{
		Arguments: SearchProductsParams{Query: "FIGURE"},
	})
	if err != nil || res.IsError {
		t.Fatalf("unexpected failure: %v %+v", err, res)
	}
	var got []catalog.Product
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	ids := []int{}
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]int{1, 7}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchProducts_LimitAndEmpty(t *testing.T) {
	s := NewCatalogServer(catalog.Default())
	res, _ := s.SearchProducts(context.Background(), nil, &mcp.CallToolParamsFor[SearchProductsParams]{
		Arguments: SearchProductsParams{Limit: 3},
	})
	var got []catalog.Product
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil || len(got) != 3 {
		t.Fatalf("expected 3 products, got %d (%v)", len(got), err)
	}

	res, _ = s.SearchProducts(context.Background(), nil, &mcp.CallToolParamsFor[SearchProductsParams]{
		Arguments: SearchProductsParams{Query: "pokemon"},
	})
	if res.IsError || resultText(t, res) != `No products found matching "pokemon"` {
		t.Fatalf("unexpected empty result: %+v", res)
	}
}

func TestGetProduct(t *testing.T) {
	s := NewCatalogServer(catalog.Default())
	res, err := s.GetProduct(context.Background(), nil, &mcp.CallToolParamsFor[GetProductParams]{
		Arguments: GetProductParams{ID: 4},
	})
	if err != nil || res.IsError {
		t.Fatalf("unexpected failure: %v %+v", err, res)
	}
	var got productDetail
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Product.Name != "Zoro's Enma Katana Replica" || len(got.Related) != 4 {
		t.Fatalf("unexpected detail: %+v", got)
	}
	for _, r := range got.Related {
		if r.ID == 4 {
			t.Fatalf("product listed as related to itself")
		}
	}

	res, _ = s.GetProduct(context.Background(), nil, &mcp.CallToolParamsFor[GetProductParams]{
		Arguments: GetProductParams{ID: 42},
	})
	if !res.IsError {
		t.Fatalf("expected error result for unknown id")
	}
}
