// Command catalog-mcp-server exposes the storefront catalog over MCP on stdio.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"bankaimise/internal/catalog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "bankaimise-catalog-mcp",
		Version: "1.0.0",
	}, nil)

	catalogServer := NewCatalogServer(catalog.Default())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_products",
		Description: "Searches the BankaiMise catalog by product name, case-insensitive. An empty query lists every product.",
	}, catalogServer.SearchProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Returns one product by id, with up to four related products",
	}, catalogServer.GetProduct)

	log.Printf("registered tools: search_products, get_product")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
