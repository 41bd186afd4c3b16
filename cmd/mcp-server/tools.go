package main

import (
	"context"
	"fmt"

	"github.com/eshaffer321/bigcapital-go/pkg/bigcapital"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultPageSize = 25

// bigcapitalTools holds the Bigcapital client and implements all tool handlers
type bigcapitalTools struct {
	client *bigcapital.Client
}

// PageInfo mirrors the pagination block of a list response
type PageInfo struct {
	Page     int `json:"page" jsonschema:"Page that was returned"`
	PageSize int `json:"pageSize" jsonschema:"Number of rows per page"`
	Total    int `json:"total" jsonschema:"Total rows across all pages"`
}

func pageInfo(p *bigcapital.Pagination) PageInfo {
	if p == nil {
		return PageInfo{}
	}
	return PageInfo{Page: p.Page, PageSize: p.PageSize, Total: p.Total}
}

// ListExpenses tool - one page of expenses
type ListExpensesInput struct {
	Page     int    `json:"page,omitempty" jsonschema:"Page number starting at 1 (default: 1)"`
	PageSize int    `json:"pageSize,omitempty" jsonschema:"Rows per page (default: 25)"`
	Search   string `json:"search,omitempty" jsonschema:"Search keyword matched against reference and description (optional)"`
}

type ExpenseEntry struct {
	ID             int64   `json:"id" jsonschema:"Expense ID"`
	PaymentDate    string  `json:"paymentDate" jsonschema:"Payment date (YYYY-MM-DD)"`
	ReferenceNo    string  `json:"referenceNo,omitempty" jsonschema:"Reference number"`
	Description    string  `json:"description,omitempty" jsonschema:"Expense description"`
	TotalAmount    float64 `json:"totalAmount" jsonschema:"Total expense amount"`
	CurrencyCode   string  `json:"currencyCode,omitempty" jsonschema:"Currency code"`
	PaymentAccount string  `json:"paymentAccount,omitempty" jsonschema:"Name of the account the expense was paid from"`
	Published      bool    `json:"published" jsonschema:"Whether the expense is published"`
}

type ExpenseLine struct {
	AccountID   int64   `json:"accountId" jsonschema:"Expense account ID"`
	Account     string  `json:"account,omitempty" jsonschema:"Expense account name"`
	Amount      float64 `json:"amount" jsonschema:"Amount allocated to the account"`
	Description string  `json:"description,omitempty" jsonschema:"Line description"`
}

type ListExpensesOutput struct {
	Expenses []ExpenseEntry `json:"expenses" jsonschema:"Expenses on this page"`
	Page     PageInfo       `json:"page" jsonschema:"Pagination of the result"`
	HasMore  bool           `json:"hasMore" jsonschema:"Whether another page exists"`
}

func toExpenseEntry(e *bigcapital.Expense) ExpenseEntry {
	entry := ExpenseEntry{
		ID:           e.ID,
		PaymentDate:  e.PaymentDate.String(),
		ReferenceNo:  e.ReferenceNo,
		Description:  e.Description,
		TotalAmount:  e.TotalAmount,
		CurrencyCode: e.CurrencyCode,
		Published:    e.IsPublished,
	}
	if e.PaymentAccount != nil {
		entry.PaymentAccount = e.PaymentAccount.Name
	}
	return entry
}

func (t *bigcapitalTools) ListExpenses(ctx context.Context, req *mcp.CallToolRequest, input ListExpensesInput) (*mcp.CallToolResult, ListExpensesOutput, error) {
	page := input.Page
	if page <= 0 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	query := t.client.Expenses.Query().Page(page).PageSize(pageSize)
	if input.Search != "" {
		query = query.Search(input.Search)
	}

	result, err := query.Execute(ctx)
	if err != nil {
		return nil, ListExpensesOutput{}, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	entries := make([]ExpenseEntry, 0, len(result.Expenses))
	for _, e := range result.Expenses {
		entries = append(entries, toExpenseEntry(e))
	}

	return nil, ListExpensesOutput{
		Expenses: entries,
		Page:     pageInfo(result.Pagination),
		HasMore:  result.HasMore,
	}, nil
}

// GetExpense tool - a single expense with its category lines
type GetExpenseInput struct {
	ID int64 `json:"id" jsonschema:"Expense ID"`
}

type GetExpenseOutput struct {
	Expense ExpenseEntry  `json:"expense" jsonschema:"The expense"`
	Lines   []ExpenseLine `json:"lines" jsonschema:"How the expense is split across expense accounts"`
}

func (t *bigcapitalTools) GetExpense(ctx context.Context, req *mcp.CallToolRequest, input GetExpenseInput) (*mcp.CallToolResult, GetExpenseOutput, error) {
	if input.ID <= 0 {
		return nil, GetExpenseOutput{}, fmt.Errorf("invalid expense id %d", input.ID)
	}

	expense, err := t.client.Expenses.Get(ctx, input.ID)
	if err != nil {
		return nil, GetExpenseOutput{}, fmt.Errorf("failed to fetch expense %d: %w", input.ID, err)
	}

	lines := make([]ExpenseLine, 0, len(expense.Categories))
	for _, c := range expense.Categories {
		line := ExpenseLine{
			AccountID:   c.ExpenseAccountID,
			Amount:      c.Amount,
			Description: c.Description,
		}
		if c.ExpenseAccount != nil {
			line.Account = c.ExpenseAccount.Name
		}
		lines = append(lines, line)
	}

	return nil, GetExpenseOutput{
		Expense: toExpenseEntry(expense),
		Lines:   lines,
	}, nil
}

// ListVendors tool
type ListVendorsInput struct {
	Page     int `json:"page,omitempty" jsonschema:"Page number starting at 1 (default: 1)"`
	PageSize int `json:"pageSize,omitempty" jsonschema:"Rows per page (default: 25)"`
}

type VendorEntry struct {
	ID          int64   `json:"id" jsonschema:"Vendor ID"`
	DisplayName string  `json:"displayName" jsonschema:"Vendor display name"`
	CompanyName string  `json:"companyName,omitempty" jsonschema:"Company name"`
	Email       string  `json:"email,omitempty" jsonschema:"Email address"`
	Phone       string  `json:"phone,omitempty" jsonschema:"Work phone"`
	Balance     float64 `json:"balance" jsonschema:"Outstanding balance"`
	Currency    string  `json:"currency,omitempty" jsonschema:"Currency code"`
	Active      bool    `json:"active" jsonschema:"Whether the vendor is active"`
}

type ListVendorsOutput struct {
	Vendors []VendorEntry `json:"vendors" jsonschema:"Vendors on this page"`
	Page    PageInfo      `json:"page" jsonschema:"Pagination of the result"`
}

func (t *bigcapitalTools) ListVendors(ctx context.Context, req *mcp.CallToolRequest, input ListVendorsInput) (*mcp.CallToolResult, ListVendorsOutput, error) {
	result, err := t.client.Vendors.List(ctx, &bigcapital.ListOptions{
		Page:     input.Page,
		PageSize: orDefault(input.PageSize, defaultPageSize),
	})
	if err != nil {
		return nil, ListVendorsOutput{}, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	entries := make([]VendorEntry, 0, len(result.Contacts))
	for _, v := range result.Contacts {
		entries = append(entries, VendorEntry{
			ID:          v.ID,
			DisplayName: v.DisplayName,
			CompanyName: v.CompanyName,
			Email:       v.Email,
			Phone:       v.WorkPhone,
			Balance:     v.Balance,
			Currency:    v.CurrencyCode,
			Active:      v.Active,
		})
	}

	return nil, ListVendorsOutput{
		Vendors: entries,
		Page:    pageInfo(result.Pagination),
	}, nil
}

// ListAccounts tool - the chart of accounts
type ListAccountsInput struct {
	// No input parameters needed
}

type AccountEntry struct {
	ID       int64   `json:"id" jsonschema:"Account ID"`
	Name     string  `json:"name" jsonschema:"Account name"`
	Code     string  `json:"code,omitempty" jsonschema:"Account code"`
	Type     string  `json:"type" jsonschema:"Account type (e.g. cash, bank, expense)"`
	RootType string  `json:"rootType,omitempty" jsonschema:"Root type (asset, liability, equity, income, expense)"`
	Amount   float64 `json:"amount" jsonschema:"Current balance"`
	Currency string  `json:"currency,omitempty" jsonschema:"Currency code"`
	Active   bool    `json:"active" jsonschema:"Whether the account is active"`
}

type ListAccountsOutput struct {
	Accounts []AccountEntry `json:"accounts" jsonschema:"List of accounts"`
	Count    int            `json:"count" jsonschema:"Number of accounts"`
}

func (t *bigcapitalTools) ListAccounts(ctx context.Context, req *mcp.CallToolRequest, input ListAccountsInput) (*mcp.CallToolResult, ListAccountsOutput, error) {
	accounts, err := t.client.Accounts.List(ctx)
	if err != nil {
		return nil, ListAccountsOutput{}, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	entries := make([]AccountEntry, 0, len(accounts))
	for _, a := range accounts {
		entries = append(entries, AccountEntry{
			ID:       a.ID,
			Name:     a.Name,
			Code:     a.Code,
			Type:     a.AccountType,
			RootType: a.AccountRootType,
			Amount:   a.Amount,
			Currency: a.CurrencyCode,
			Active:   a.Active != 0,
		})
	}

	return nil, ListAccountsOutput{
		Accounts: entries,
		Count:    len(entries),
	}, nil
}

// ListInvoices tool
type ListInvoicesInput struct {
	Page     int `json:"page,omitempty" jsonschema:"Page number starting at 1 (default: 1)"`
	PageSize int `json:"pageSize,omitempty" jsonschema:"Rows per page (default: 25)"`
}

type InvoiceEntry struct {
	ID          int64   `json:"id" jsonschema:"Invoice ID"`
	InvoiceNo   string  `json:"invoiceNo,omitempty" jsonschema:"Invoice number"`
	CustomerID  int64   `json:"customerId" jsonschema:"Customer ID"`
	InvoiceDate string  `json:"invoiceDate" jsonschema:"Invoice date (YYYY-MM-DD)"`
	DueDate     string  `json:"dueDate" jsonschema:"Due date (YYYY-MM-DD)"`
	Amount      float64 `json:"amount" jsonschema:"Invoice total"`
	DueAmount   float64 `json:"dueAmount" jsonschema:"Amount still owed"`
	OverdueDays int     `json:"overdueDays,omitempty" jsonschema:"Days past the due date"`
	Delivered   bool    `json:"delivered" jsonschema:"Whether the invoice was delivered"`
}

type ListInvoicesOutput struct {
	Invoices []InvoiceEntry `json:"invoices" jsonschema:"Invoices on this page"`
	Page     PageInfo       `json:"page" jsonschema:"Pagination of the result"`
}

func (t *bigcapitalTools) ListInvoices(ctx context.Context, req *mcp.CallToolRequest, input ListInvoicesInput) (*mcp.CallToolResult, ListInvoicesOutput, error) {
	result, err := t.client.Invoices.List(ctx, &bigcapital.ListOptions{
		Page:     input.Page,
		PageSize: orDefault(input.PageSize, defaultPageSize),
	})
	if err != nil {
		return nil, ListInvoicesOutput{}, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	entries := make([]InvoiceEntry, 0, len(result.Invoices))
	for _, inv := range result.Invoices {
		entries = append(entries, InvoiceEntry{
			ID:          inv.ID,
			InvoiceNo:   inv.InvoiceNo,
			CustomerID:  inv.CustomerID,
			InvoiceDate: inv.InvoiceDate.String(),
			DueDate:     inv.DueDate.String(),
			Amount:      inv.Amount,
			DueAmount:   inv.DueAmount,
			OverdueDays: inv.OverdueDays,
			Delivered:   inv.IsDelivered || inv.Delivered,
		})
	}

	return nil, ListInvoicesOutput{
		Invoices: entries,
		Page:     pageInfo(result.Pagination),
	}, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
