package bigcapital

import (
	"time"
)

// Session represents an authenticated session. Passwords are never exposed.
type Session struct {
	Token          string    `json:"token"`
	TenantID       string    `json:"tenantId,omitempty"`
	OrganizationID string    `json:"organizationId,omitempty"`
	Email          string    `json:"email,omitempty"`
	ExpiresAt      time.Time `json:"expiresAt,omitempty"`
}

// Pagination describes one page of a list response
type Pagination struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// FilterMeta echoes the sort applied by the server
type FilterMeta struct {
	SortOrder string `json:"sort_order,omitempty"`
	SortBy    string `json:"sort_by,omitempty"`
}

// MutationResult is returned by create, update and state-changing endpoints
type MutationResult struct {
	ID      int64  `json:"id"`
	Message string `json:"message,omitempty"`
}

// ListOptions selects a page of a list endpoint. Zero values use server defaults.
type ListOptions struct {
	Page     int
	PageSize int
}

// Contact is a customer or a vendor
type Contact struct {
	ID             int64   `json:"id,omitempty"`
	DisplayName    string  `json:"display_name,omitempty"`
	ContactService string  `json:"contact_service,omitempty"`
	ContactType    string  `json:"contact_type,omitempty"`
	CurrencyCode   string  `json:"currency_code,omitempty"`
	Email          string  `json:"email,omitempty"`
	WorkPhone      string  `json:"work_phone,omitempty"`
	PersonalPhone  string  `json:"personal_phone,omitempty"`
	CompanyName    string  `json:"company_name,omitempty"`
	FirstName      string  `json:"first_name,omitempty"`
	LastName       string  `json:"last_name,omitempty"`
	Website        string  `json:"website,omitempty"`
	Note           string  `json:"note,omitempty"`
	Active         bool    `json:"active,omitempty"`
	Balance        float64 `json:"balance,omitempty"`
	OpeningBalance float64 `json:"opening_balance,omitempty"`

	OpeningBalanceAt *Date `json:"opening_balance_at,omitempty"`

	BillingAddress1       string `json:"billing_address_1,omitempty"`
	BillingAddress2       string `json:"billing_address_2,omitempty"`
	BillingAddressCity    string `json:"billing_address_city,omitempty"`
	BillingAddressCountry string `json:"billing_address_country,omitempty"`
	BillingAddressState   string `json:"billing_address_state,omitempty"`
	BillingAddressZipcode string `json:"billing_address_zipcode,omitempty"`
	BillingAddressPhone   string `json:"billing_address_phone,omitempty"`

	ShippingAddress1       string `json:"shipping_address_1,omitempty"`
	ShippingAddress2       string `json:"shipping_address_2,omitempty"`
	ShippingAddressCity    string `json:"shipping_address_city,omitempty"`
	ShippingAddressCountry string `json:"shipping_address_country,omitempty"`
	ShippingAddressState   string `json:"shipping_address_state,omitempty"`
	ShippingAddressZipcode string `json:"shipping_address_zipcode,omitempty"`
	ShippingAddressPhone   string `json:"shipping_address_phone,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ContactList is a page of contacts
type ContactList struct {
	Contacts   []*Contact  `json:"contacts"`
	Pagination *Pagination `json:"pagination,omitempty"`
	FilterMeta *FilterMeta `json:"filter_meta,omitempty"`
}

// Item is a product or service
type Item struct {
	ID                  int64   `json:"id,omitempty"`
	Name                string  `json:"name,omitempty"`
	Type                string  `json:"type,omitempty"` // service, non-inventory or inventory
	Code                string  `json:"code,omitempty"`
	Sellable            bool    `json:"sellable,omitempty"`
	Purchasable         bool    `json:"purchasable,omitempty"`
	SellPrice           float64 `json:"sell_price,omitempty"`
	CostPrice           float64 `json:"cost_price,omitempty"`
	SellAccountID       int64   `json:"sell_account_id,omitempty"`
	CostAccountID       int64   `json:"cost_account_id,omitempty"`
	InventoryAccountID  int64   `json:"inventory_account_id,omitempty"`
	SellDescription     string  `json:"sell_description,omitempty"`
	PurchaseDescription string  `json:"purchase_description,omitempty"`
	QuantityOnHand      float64 `json:"quantity_on_hand,omitempty"`
	CategoryID          int64   `json:"category_id,omitempty"`
	Active              bool    `json:"active,omitempty"`
	CreatedAt           string  `json:"created_at,omitempty"`
	UpdatedAt           string  `json:"updated_at,omitempty"`
}

// ItemList is a page of items
type ItemList struct {
	Items      []*Item     `json:"items"`
	Pagination *Pagination `json:"pagination,omitempty"`
	FilterMeta *FilterMeta `json:"filter_meta,omitempty"`
}

// InvoiceEntry is one line of an invoice
type InvoiceEntry struct {
	Index        int     `json:"index,omitempty"`
	ItemID       int64   `json:"item_id,omitempty"`
	Description  string  `json:"description,omitempty"`
	Quantity     float64 `json:"quantity"`
	Rate         float64 `json:"rate"`
	Discount     float64 `json:"discount,omitempty"`
	DiscountType string  `json:"discount_type,omitempty"` // amount or percentage
	TaxRateID    int64   `json:"tax_rate_id,omitempty"`
	WarehouseID  int64   `json:"warehouse_id,omitempty"`
	ProjectID    int64   `json:"project_id,omitempty"`
}

// Invoice is a sales invoice
type Invoice struct {
	ID              int64            `json:"id,omitempty"`
	CustomerID      int64            `json:"customer_id"`
	InvoiceDate     Date             `json:"invoice_date"`
	DueDate         Date             `json:"due_date"`
	InvoiceNo       string           `json:"invoice_no,omitempty"`
	ReferenceNo     string           `json:"reference_no,omitempty"`
	InvoiceMessage  string           `json:"invoice_message,omitempty"`
	TermsConditions string           `json:"terms_conditions,omitempty"`
	Entries         []*InvoiceEntry  `json:"entries"`
	Attachments     []*AttachmentRef `json:"attachments,omitempty"`
	Delivered       bool             `json:"delivered,omitempty"`
	IsInclusiveTax  bool             `json:"is_inclusive_tax,omitempty"`
	CurrencyCode    string           `json:"currency_code,omitempty"`
	ExchangeRate    float64          `json:"exchange_rate,omitempty"`
	WarehouseID     int64            `json:"warehouse_id,omitempty"`
	BranchID        int64            `json:"branch_id,omitempty"`
	ProjectID       int64            `json:"project_id,omitempty"`

	// Computed by the server
	Amount        float64 `json:"amount,omitempty"`
	PaymentAmount float64 `json:"payment_amount,omitempty"`
	DueAmount     float64 `json:"due_amount,omitempty"`
	OverdueDays   int     `json:"overdue_days,omitempty"`
	IsDelivered   bool    `json:"is_delivered,omitempty"`
	DeliveredAt   string  `json:"delivered_at,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

// InvoiceList is a page of invoices
type InvoiceList struct {
	Invoices   []*Invoice  `json:"invoices"`
	Pagination *Pagination `json:"pagination,omitempty"`
	FilterMeta *FilterMeta `json:"filter_meta,omitempty"`
}

// InvoiceMail addresses an invoice email or reminder
type InvoiceMail struct {
	To      []string `json:"to"`
	Subject string   `json:"subject,omitempty"`
	Message string   `json:"message,omitempty"`
}

// InvoiceWriteOff writes off the remaining balance against an expense account
type InvoiceWriteOff struct {
	ExpenseAccountID int64  `json:"expense_account_id"`
	Date             Date   `json:"date"`
	Reason           string `json:"reason,omitempty"`
}

// Account is a chart-of-accounts entry
type Account struct {
	ID                    int64    `json:"id"`
	Name                  string   `json:"name"`
	Slug                  string   `json:"slug"`
	AccountType           string   `json:"account_type"`
	ParentAccountID       *int64   `json:"parent_account_id,omitempty"`
	Code                  string   `json:"code"`
	Description           string   `json:"description,omitempty"`
	Active                int      `json:"active"`
	Index                 *int     `json:"index,omitempty"`
	Predefined            int      `json:"predefined"`
	Amount                float64  `json:"amount,omitempty"`
	CurrencyCode          string   `json:"currency_code"`
	BankBalance           *float64 `json:"bank_balance,omitempty"`
	AccountMask           *string  `json:"account_mask,omitempty"`
	IsSystemAccount       int      `json:"is_system_account,omitempty"`
	AccountTypeLabel      string   `json:"account_type_label,omitempty"`
	AccountParentType     string   `json:"account_parent_type,omitempty"`
	AccountRootType       string   `json:"account_root_type,omitempty"`
	AccountNormal         string   `json:"account_normal,omitempty"`
	IsBalanceSheetAccount bool     `json:"is_balance_sheet_account,omitempty"`
	IsPLSheet             bool     `json:"is_pl_sheet,omitempty"`
	CreatedAt             *string  `json:"created_at,omitempty"`
	UpdatedAt             *string  `json:"updated_at,omitempty"`
}

// ExpenseCategory allocates part of an expense to an account
type ExpenseCategory struct {
	ID               int64    `json:"id,omitempty"`
	Index            int      `json:"index,omitempty"`
	ExpenseID        int64    `json:"expense_id,omitempty"`
	ExpenseAccountID int64    `json:"expense_account_id"`
	Amount           float64  `json:"amount"`
	AmountFormatted  string   `json:"amount_formatted,omitempty"`
	Description      string   `json:"description,omitempty"`
	LandedCost       bool     `json:"landed_cost,omitempty"`
	ProjectID        int64    `json:"project_id,omitempty"`
	ExpenseAccount   *Account `json:"expense_account,omitempty"`
}

// Expense is a recorded payment split across expense accounts
type Expense struct {
	ID               int64              `json:"id,omitempty"`
	ReferenceNo      string             `json:"reference_no,omitempty"`
	PaymentDate      Date               `json:"payment_date"`
	PaymentAccountID int64              `json:"payment_account_id"`
	PayeeID          int64              `json:"payee_id,omitempty"`
	Description      string             `json:"description,omitempty"`
	CurrencyCode     string             `json:"currency_code,omitempty"`
	ExchangeRate     float64            `json:"exchange_rate,omitempty"`
	BranchID         int64              `json:"branch_id,omitempty"`
	ProjectID        int64              `json:"project_id,omitempty"`
	Categories       []*ExpenseCategory `json:"categories"`
	Attachments      []*AttachmentRef   `json:"attachments,omitempty"`

	// Publish marks the expense as published on create or update
	Publish bool `json:"publish,omitempty"`

	// Computed by the server
	TotalAmount          float64  `json:"total_amount,omitempty"`
	FormattedAmount      string   `json:"formatted_amount,omitempty"`
	LocalAmount          float64  `json:"local_amount,omitempty"`
	FormattedDate        string   `json:"formatted_date,omitempty"`
	IsPublished          bool     `json:"is_published,omitempty"`
	PublishedAt          string   `json:"published_at,omitempty"`
	FormattedPublishedAt string   `json:"formatted_published_at,omitempty"`
	UserID               int64    `json:"user_id,omitempty"`
	PaymentAccount       *Account `json:"payment_account,omitempty"`
	CreatedAt            string   `json:"created_at,omitempty"`
	UpdatedAt            string   `json:"updated_at,omitempty"`
}

// ExpenseList is a page of expenses
type ExpenseList struct {
	Expenses   []*Expense  `json:"expenses"`
	Pagination *Pagination `json:"pagination,omitempty"`
	FilterMeta *FilterMeta `json:"filter_meta,omitempty"`

	// HasMore and NextPage are derived from Pagination
	HasMore  bool `json:"-"`
	NextPage int  `json:"-"`
}

// Attachment is an uploaded file
type Attachment struct {
	ID         int64  `json:"id,omitempty"`
	Key        string `json:"key"`
	MimeType   string `json:"mimeType,omitempty"`
	Size       int64  `json:"size,omitempty"`
	OriginName string `json:"originName,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// AttachmentRef references an uploaded file from a document
type AttachmentRef struct {
	Key string `json:"key"`
}

// AttachmentFile is a downloaded file
type AttachmentFile struct {
	Key         string
	ContentType string
	Data        []byte
}

// Model references accepted by attachment link and unlink
const (
	ModelSaleInvoice    = "SaleInvoice"
	ModelSaleEstimate   = "SaleEstimate"
	ModelSaleReceipt    = "SaleReceipt"
	ModelPaymentReceive = "PaymentReceive"
	ModelCreditNote     = "CreditNote"
	ModelBill           = "Bill"
	ModelPaymentMade    = "PaymentMade"
	ModelVendorCredit   = "VendorCredit"
	ModelExpense        = "Expense"
	ModelManualJournal  = "ManualJournal"
)

// Organization is the tenant's organization profile
type Organization struct {
	ID             int64                 `json:"id,omitempty"`
	OrganizationID string                `json:"organization_id,omitempty"`
	IsReady        bool                  `json:"is_ready,omitempty"`
	Metadata       *OrganizationMetadata `json:"metadata,omitempty"`
}

// OrganizationMetadata holds the editable organization settings
type OrganizationMetadata struct {
	Name         string `json:"name,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Location     string `json:"location,omitempty"`
	BaseCurrency string `json:"base_currency,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
	FiscalYear   string `json:"fiscal_year,omitempty"`
	Language     string `json:"language,omitempty"`
	DateFormat   string `json:"date_format,omitempty"`
	TaxNumber    string `json:"tax_number,omitempty"`
}

// TaxRate is a configured tax rate
type TaxRate struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Code             string  `json:"code"`
	Rate             float64 `json:"rate"`
	Description      string  `json:"description,omitempty"`
	IsNonRecoverable bool    `json:"is_non_recoverable,omitempty"`
	IsCompound       bool    `json:"is_compound,omitempty"`
	Active           bool    `json:"active,omitempty"`
}
