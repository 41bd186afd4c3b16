package bigcapital

import (
	"context"
	"encoding/json"
	"io"
)

// ExpenseService handles expense operations
type ExpenseService interface {
	// Query returns an expense query builder
	Query() ExpenseQueryBuilder

	// List retrieves one page of expenses
	List(ctx context.Context, opts *ListOptions) (*ExpenseList, error)

	// Get retrieves a single expense by ID
	Get(ctx context.Context, expenseID int64) (*Expense, error)

	// Create records a new expense
	Create(ctx context.Context, expense *Expense) (*MutationResult, error)

	// Update replaces an existing expense
	Update(ctx context.Context, expenseID int64, expense *Expense) (*MutationResult, error)

	// Delete deletes an expense
	Delete(ctx context.Context, expenseID int64) error

	// Publish publishes a draft expense
	Publish(ctx context.Context, expenseID int64) (*MutationResult, error)
}

// ExpenseQueryBuilder builds expense list queries
type ExpenseQueryBuilder interface {
	// Filter methods
	Search(keyword string) ExpenseQueryBuilder
	View(slug string) ExpenseQueryBuilder
	SortBy(column, order string) ExpenseQueryBuilder
	Page(page int) ExpenseQueryBuilder
	PageSize(size int) ExpenseQueryBuilder

	// Execute runs the query
	Execute(ctx context.Context) (*ExpenseList, error)

	// Stream returns results as a channel, fetching pages until exhausted
	Stream(ctx context.Context) (<-chan *Expense, <-chan error)
}

// ContactService handles customers or vendors
type ContactService interface {
	// List retrieves one page of contacts
	List(ctx context.Context, opts *ListOptions) (*ContactList, error)

	// Get retrieves a single contact
	Get(ctx context.Context, contactID int64) (*Contact, error)

	// Create creates a new contact
	Create(ctx context.Context, contact *Contact) (*MutationResult, error)

	// Update updates an existing contact
	Update(ctx context.Context, contactID int64, contact *Contact) (*MutationResult, error)

	// Delete deletes a contact
	Delete(ctx context.Context, contactID int64) error
}

// ContactStatusService toggles contacts of either kind
type ContactStatusService interface {
	// Activate marks a contact active
	Activate(ctx context.Context, contactID int64) error

	// Inactivate marks a contact inactive
	Inactivate(ctx context.Context, contactID int64) error
}

// ItemService handles products and services
type ItemService interface {
	List(ctx context.Context, opts *ListOptions) (*ItemList, error)
	Get(ctx context.Context, itemID int64) (*Item, error)
	Create(ctx context.Context, item *Item) (*MutationResult, error)
	Update(ctx context.Context, itemID int64, item *Item) (*MutationResult, error)
	Delete(ctx context.Context, itemID int64) error
	Activate(ctx context.Context, itemID int64) error
	Inactivate(ctx context.Context, itemID int64) error
}

// InvoiceService handles sales invoices
type InvoiceService interface {
	// List retrieves one page of invoices
	List(ctx context.Context, opts *ListOptions) (*InvoiceList, error)

	// Get retrieves a single invoice
	Get(ctx context.Context, invoiceID int64) (*Invoice, error)

	// Create creates a new invoice
	Create(ctx context.Context, invoice *Invoice) (*MutationResult, error)

	// Update updates an existing invoice
	Update(ctx context.Context, invoiceID int64, invoice *Invoice) (*MutationResult, error)

	// Delete deletes an invoice
	Delete(ctx context.Context, invoiceID int64) error

	// Deliver marks an invoice as delivered
	Deliver(ctx context.Context, invoiceID int64) (*MutationResult, error)

	// PDF downloads the rendered invoice
	PDF(ctx context.Context, invoiceID int64) ([]byte, error)

	// Mail emails the invoice
	Mail(ctx context.Context, invoiceID int64, mail *InvoiceMail) error

	// MailReminder emails a payment reminder
	MailReminder(ctx context.Context, invoiceID int64, mail *InvoiceMail) error

	// NotifyBySMS sends an SMS notification using a configured template key
	NotifyBySMS(ctx context.Context, invoiceID int64, notificationKey string) error

	// WriteOff writes off the unpaid balance
	WriteOff(ctx context.Context, invoiceID int64, writeOff *InvoiceWriteOff) (*MutationResult, error)

	// CancelWriteOff reverses a write-off
	CancelWriteOff(ctx context.Context, invoiceID int64) (*MutationResult, error)

	// Payable lists invoices with an outstanding balance, optionally for one customer
	Payable(ctx context.Context, customerID int64) ([]*Invoice, error)

	// PaymentTransactions returns the payments applied to an invoice
	PaymentTransactions(ctx context.Context, invoiceID int64) (json.RawMessage, error)
}

// AccountService handles the chart of accounts
type AccountService interface {
	// List retrieves all accounts
	List(ctx context.Context) ([]*Account, error)

	// Get retrieves a single account
	Get(ctx context.Context, accountID int64) (*Account, error)

	// TaxRates retrieves configured tax rates
	TaxRates(ctx context.Context) ([]*TaxRate, error)
}

// OrganizationService handles the organization profile
type OrganizationService interface {
	// Get retrieves the current organization
	Get(ctx context.Context) (*Organization, error)

	// Update changes organization settings
	Update(ctx context.Context, params *OrganizationMetadata) error
}

// AttachmentService handles uploaded documents
type AttachmentService interface {
	// Upload stores a file and returns its key
	Upload(ctx context.Context, filename string, r io.Reader) (*Attachment, error)

	// Download fetches a stored file
	Download(ctx context.Context, key string) (*AttachmentFile, error)

	// Delete removes a stored file
	Delete(ctx context.Context, key string) error

	// Link attaches a stored file to a document
	Link(ctx context.Context, key, modelRef string, modelID int64) error

	// Unlink detaches a stored file from a document
	Unlink(ctx context.Context, key, modelRef string, modelID int64) error

	// PresignedURL returns a temporary download URL
	PresignedURL(ctx context.Context, key string) (string, error)
}

// AuthService handles authentication
type AuthService interface {
	// Login authenticates and installs the session on the client.
	// When persist is set the session is written to the credential store.
	Login(ctx context.Context, email, password string, persist bool) error

	// Restore installs a previously persisted session. It reports whether one was found.
	Restore(ctx context.Context) (bool, error)

	// Logout drops the session and clears the credential store
	Logout(ctx context.Context) error

	// GetSession returns the current session
	GetSession() (*Session, error)
}
