package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"bankaimise/internal/catalog"
	"bankaimise/internal/shop"
)

type SearchProductsParams struct {
	Query string `json:"query" mcp:"text to find in product names; empty lists all products"`
	Limit int    `json:"limit,omitempty" mcp:"maximum number of results (default: all)"`
}

type GetProductParams struct {
	ID int `json:"id" mcp:"product id"`
}

type productDetail struct {
	Product catalog.Product   `json:"product"`
	Related []catalog.Product `json:"related"`
}

type CatalogServer struct {
	catalog *catalog.Catalog
}

func NewCatalogServer(c *catalog.Catalog) *CatalogServer {
	return &CatalogServer{catalog: c}
}

func (s *CatalogServer) SearchProducts(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SearchProductsParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	log.Printf("search_products query=%q limit=%d", args.Query, args.Limit)

	products := s.catalog.Filter(args.Query)
	if args.Limit > 0 && len(products) > args.Limit {
		products = products[:args.Limit]
	}
	if len(products) == 0 {
		return textResult(fmt.Sprintf("No products found matching %q", args.Query), map[string]any{"count": 0}), nil
	}

	body, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode products: %v", err)), nil
	}
	return textResult(string(body), map[string]any{"count": len(products)}), nil
}

func (s *CatalogServer) GetProduct(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[GetProductParams]) (*mcp.CallToolResultFor[any], error) {
	id := params.Arguments.ID
	log.Printf("get_product id=%d", id)

	p, ok := s.catalog.Lookup(id)
	if !ok {
		return errorResult(fmt.Sprintf("product %d not found", id)), nil
	}
	body, err := json.MarshalIndent(productDetail{Product: p, Related: s.catalog.Related(id, shop.RelatedCount)}, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode product: %v", err)), nil
	}
	return textResult(string(body), map[string]any{"id": p.ID, "name": p.Name}), nil
}

func textResult(text string, meta map[string]any) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		Meta:    meta,
	}
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
