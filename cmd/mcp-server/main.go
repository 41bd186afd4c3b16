package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/eshaffer321/bigcapital-go/pkg/bigcapital"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	ctx := context.Background()

	// Session is restored from the file store when present; otherwise log in
	// with BIGCAPITAL_EMAIL and BIGCAPITAL_PASSWORD
	sessionPath := os.Getenv("BIGCAPITAL_STORE_PATH")
	if sessionPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("failed to resolve home directory: %v", err)
		}
		sessionPath = filepath.Join(home, ".bigcapital", "mcp-session.json")
	}

	credentials := bigcapital.NewFileStore(sessionPath, nil)
	if err := credentials.Open(ctx); err != nil {
		log.Fatalf("failed to open credential store: %v", err)
	}

	client, err := bigcapital.Connect(ctx, &bigcapital.ClientOptions{
		BaseURL:        os.Getenv("BIGCAPITAL_API_URL"),
		Token:          os.Getenv("BIGCAPITAL_TOKEN"),
		OrganizationID: os.Getenv("BIGCAPITAL_ORGANIZATION_ID"),
		Email:          os.Getenv("BIGCAPITAL_EMAIL"),
		Password:       os.Getenv("BIGCAPITAL_PASSWORD"),
		Store:          credentials,
		SentryDSN:      os.Getenv("SENTRY_DSN"),
	}, true)
	if err != nil {
		log.Fatalf("failed to connect to Bigcapital: %v", err)
	}
	defer client.Close()

	server := newServer(client)

	// Run server over stdio transport (for Claude Desktop)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newServer(client *bigcapital.Client) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "bigcapital",
		Version: "1.0.0",
	}, nil)
	registerTools(server, client)
	return server
}

func registerTools(server *mcp.Server, client *bigcapital.Client) {
	tools := &bigcapitalTools{client: client}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_expenses",
		Description: "List expenses one page at a time, optionally filtered by a search keyword. Returns payment date, reference, total amount, payment account and publish state.",
	}, tools.ListExpenses)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_expense",
		Description: "Get a single expense by ID including its category lines.",
	}, tools.GetExpense)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_vendors",
		Description: "List vendors with their contact details and outstanding balance.",
	}, tools.ListVendors)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_accounts",
		Description: "Get the chart of accounts with account types, codes and balances.",
	}, tools.ListAccounts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_invoices",
		Description: "List sales invoices one page at a time. Returns customer, dates, amounts due and delivery state.",
	}, tools.ListInvoices)
}
