package bigcapital

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/eshaffer321/bigcapital-go/internal/transport"
	"github.com/pkg/errors"
)

const invoicesPath = "/api/sales/invoices"

// invoiceService implements InvoiceService
type invoiceService struct {
	client *Client
}

// List retrieves one page of invoices
func (s *invoiceService) List(ctx context.Context, opts *ListOptions) (*InvoiceList, error) {
	path := invoicesPath
	if opts != nil {
		path = withQuery(path, pageQuery(opts.Page, opts.PageSize))
	}

	var invoices []*Invoice
	meta, err := s.client.getList(ctx, path, "invoices", &invoices)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list invoices")
	}

	return &InvoiceList{
		Invoices:   invoices,
		Pagination: meta.Pagination,
		FilterMeta: meta.FilterMeta,
	}, nil
}

// Get retrieves a single invoice
func (s *invoiceService) Get(ctx context.Context, invoiceID int64) (*Invoice, error) {
	var invoice Invoice
	if err := s.client.getEnveloped(ctx, resourcePath(invoicesPath, invoiceID), "invoice", &invoice); err != nil {
		return nil, errors.Wrap(err, "failed to get invoice")
	}
	return &invoice, nil
}

// Create creates a new invoice
func (s *invoiceService) Create(ctx context.Context, invoice *Invoice) (*MutationResult, error) {
	var result MutationResult
	if _, err := s.client.post(ctx, invoicesPath, invoice, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create invoice")
	}
	return &result, nil
}

// Update updates an existing invoice
func (s *invoiceService) Update(ctx context.Context, invoiceID int64, invoice *Invoice) (*MutationResult, error) {
	var result MutationResult
	if _, err := s.client.post(ctx, resourcePath(invoicesPath, invoiceID), invoice, &result); err != nil {
		return nil, errors.Wrap(err, "failed to update invoice")
	}
	return &result, nil
}

// Delete deletes an invoice
func (s *invoiceService) Delete(ctx context.Context, invoiceID int64) error {
	if err := s.client.delete(ctx, resourcePath(invoicesPath, invoiceID)); err != nil {
		return errors.Wrap(err, "failed to delete invoice")
	}
	return nil
}

// Deliver marks an invoice as delivered
func (s *invoiceService) Deliver(ctx context.Context, invoiceID int64) (*MutationResult, error) {
	return s.action(ctx, invoiceID, "deliver", nil, "failed to deliver invoice")
}

// PDF downloads the rendered invoice. The API serves it from the same path as
// the JSON document, selected by the Accept header.
func (s *invoiceService) PDF(ctx context.Context, invoiceID int64) ([]byte, error) {
	resp, err := s.client.execute(ctx, &transport.Request{
		Method:  http.MethodGet,
		Path:    resourcePath(invoicesPath, invoiceID),
		Headers: map[string]string{"Accept": "application/pdf"},
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download invoice pdf")
	}
	return resp.Body, nil
}

// Mail emails the invoice
func (s *invoiceService) Mail(ctx context.Context, invoiceID int64, mail *InvoiceMail) error {
	_, err := s.action(ctx, invoiceID, "mail", mail, "failed to mail invoice")
	return err
}

// MailReminder emails a payment reminder
func (s *invoiceService) MailReminder(ctx context.Context, invoiceID int64, mail *InvoiceMail) error {
	_, err := s.action(ctx, invoiceID, "mail-reminder", mail, "failed to mail invoice reminder")
	return err
}

// NotifyBySMS sends an SMS notification
func (s *invoiceService) NotifyBySMS(ctx context.Context, invoiceID int64, notificationKey string) error {
	body := map[string]string{"notification_key": notificationKey}
	_, err := s.action(ctx, invoiceID, "notify-by-sms", body, "failed to notify by sms")
	return err
}

// WriteOff writes off the unpaid balance
func (s *invoiceService) WriteOff(ctx context.Context, invoiceID int64, writeOff *InvoiceWriteOff) (*MutationResult, error) {
	return s.action(ctx, invoiceID, "writeoff", writeOff, "failed to write off invoice")
}

// CancelWriteOff reverses a write-off
func (s *invoiceService) CancelWriteOff(ctx context.Context, invoiceID int64) (*MutationResult, error) {
	return s.action(ctx, invoiceID, "writeoff/cancel", nil, "failed to cancel invoice write-off")
}

// Payable lists invoices with an outstanding balance. customerID 0 means all customers.
func (s *invoiceService) Payable(ctx context.Context, customerID int64) ([]*Invoice, error) {
	q := url.Values{}
	if customerID > 0 {
		q.Set("customer_id", strconv.FormatInt(customerID, 10))
	}

	var raw json.RawMessage
	if _, err := s.client.get(ctx, withQuery(invoicesPath+"/payable", q), &raw); err != nil {
		return nil, errors.Wrap(err, "failed to get payable invoices")
	}

	// the endpoint has answered with both a bare array and an envelope
	var invoices []*Invoice
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &invoices); err != nil {
			return nil, errors.Wrap(err, "failed to decode payable invoices")
		}
		return invoices, nil
	}
	if _, err := decodeList(raw, "invoices", &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// PaymentTransactions returns the payments applied to an invoice
func (s *invoiceService) PaymentTransactions(ctx context.Context, invoiceID int64) (json.RawMessage, error) {
	var raw json.RawMessage
	if _, err := s.client.get(ctx, resourcePath(invoicesPath, invoiceID, "payment-transactions"), &raw); err != nil {
		return nil, errors.Wrap(err, "failed to get invoice payment transactions")
	}
	return raw, nil
}

func (s *invoiceService) action(ctx context.Context, invoiceID int64, suffix string, body interface{}, failure string) (*MutationResult, error) {
	var result MutationResult
	if _, err := s.client.post(ctx, resourcePath(invoicesPath, invoiceID, suffix), body, &result); err != nil {
		return nil, errors.Wrap(err, failure)
	}
	return &result, nil
}
