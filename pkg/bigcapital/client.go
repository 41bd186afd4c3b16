package bigcapital

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/eshaffer321/bigcapital-go/internal/auth"
	"github.com/eshaffer321/bigcapital-go/internal/transport"
	internalTypes "github.com/eshaffer321/bigcapital-go/internal/types"
	"github.com/getsentry/sentry-go"
)

const (
	// DefaultBaseURL is the default Bigcapital API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent

	// MaxReauthAttempts bounds re-authentication after a rejected token
	MaxReauthAttempts = internalTypes.MaxRetries

	// DefaultRetryWait and DefaultRetryMaxWait are suggested RetryConfig waits
	DefaultRetryWait    = 1 * time.Second
	DefaultRetryMaxWait = 30 * time.Second
)

// Client is the main Bigcapital API client
type Client struct {
	// Service interfaces
	Expenses     ExpenseService
	Vendors      ContactService
	Customers    ContactService
	Contacts     ContactStatusService
	Items        ItemService
	Invoices     InvoiceService
	Accounts     AccountService
	Organization OrganizationService
	Attachments  AttachmentService
	Auth         AuthService

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	options    *ClientOptions
	auth       *auth.Service
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// RequestTimeout bounds each API call, re-authentication included
	RequestTimeout time.Duration

	// Token provides direct authentication token
	Token string

	// OrganizationID is sent as the organization-id header in place of the
	// organization of the session, including sessions obtained by re-authentication
	OrganizationID string

	// Email and Password are used to log in again when the token is rejected
	// and the session carries no credentials of its own
	Email    string
	Password string

	// Store persists the session so later clients can restore it
	Store CredentialStore

	// MaxReauthAttempts overrides the re-authentication budget
	MaxReauthAttempts int

	// Logger for debug logging
	Logger Logger

	// RetryConfig configures transport-level retries
	RetryConfig *RetryConfig

	// Hooks for observability
	Hooks *Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger = internalTypes.Logger

// RetryConfig configures retries of connection errors, 429 and 5xx responses
type RetryConfig = internalTypes.RetryConfig

// Hooks provides lifecycle hooks for requests
type Hooks = internalTypes.Hooks

// Transport handles authenticated HTTP communication
type Transport interface {
	Execute(ctx context.Context, req *transport.Request, result interface{}) (*transport.Response, error)
	SetAuth(token string)
	SetSession(session *internalTypes.Session)
	SetOrganizationID(id string)
	Session() *internalTypes.Session
}

// NewClient creates a new Bigcapital client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	authService := auth.NewService(opts.BaseURL, opts.HTTPClient, opts.Store, opts.Logger)

	trans := transport.NewRESTTransport(&transport.Options{
		BaseURL:         opts.BaseURL,
		HTTPClient:      opts.HTTPClient,
		RetryConfig:     opts.RetryConfig,
		Logger:          opts.Logger,
		Hooks:           opts.Hooks,
		Authenticator:   authService,
		DefaultEmail:    opts.Email,
		DefaultPassword: opts.Password,
		MaxRetries:      opts.MaxReauthAttempts,
		RequestTimeout:  opts.RequestTimeout,
	})

	if opts.OrganizationID != "" {
		trans.SetOrganizationID(opts.OrganizationID)
	}

	if opts.Token != "" {
		trans.SetSession(&internalTypes.Session{
			Token:    opts.Token,
			Email:    opts.Email,
			Password: opts.Password,
		})
	}

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		transport:  trans,
		options:    opts,
		auth:       authService,
	}

	c.initServices()

	return c, nil
}

// NewClientWithToken creates a client with an auth token
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{
		Token: token,
	})
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Expenses = &expenseService{client: c}
	c.Vendors = &contactService{client: c, basePath: "/api/vendors", listKey: "vendors", itemKey: "vendor"}
	c.Customers = &contactService{client: c, basePath: "/api/customers", listKey: "customers", itemKey: "customer"}
	c.Contacts = &contactStatusService{client: c}
	c.Items = &itemService{client: c}
	c.Invoices = &invoiceService{client: c}
	c.Accounts = &accountService{client: c}
	c.Organization = &organizationService{client: c}
	c.Attachments = &attachmentService{client: c}
	c.Auth = newAuthService(c)
}

// SetToken sets the authentication token
func (c *Client) SetToken(token string) {
	c.transport.SetAuth(token)
}

// SetOrganizationID overrides the organization sent with every request
func (c *Client) SetOrganizationID(id string) {
	c.transport.SetOrganizationID(id)
}

// GetSession returns the current session, or nil when not authenticated
func (c *Client) GetSession() *Session {
	return convertSession(c.transport.Session())
}

// execute sends an API request and reports failures to Sentry
func (c *Client) execute(ctx context.Context, req *transport.Request, result interface{}) (*transport.Response, error) {
	start := time.Now()
	resp, err := c.transport.Execute(ctx, req, result)
	duration := time.Since(start)

	if err != nil {
		capture := func(hub *sentry.Hub) {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("http.method", req.Method)
				scope.SetTag("http.path", req.Path)
				scope.SetContext("bigcapital", map[string]interface{}{
					"method":   req.Method,
					"path":     req.Path,
					"duration": duration.String(),
				})
				hub.CaptureException(err)
			})
		}

		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			capture(hub)
		} else {
			capture(sentry.CurrentHub())
		}
	}

	return resp, err
}

func (c *Client) get(ctx context.Context, path string, result interface{}) (*transport.Response, error) {
	return c.execute(ctx, &transport.Request{Method: http.MethodGet, Path: path}, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) (*transport.Response, error) {
	return c.execute(ctx, &transport.Request{Method: http.MethodPost, Path: path, Body: body}, result)
}

func (c *Client) put(ctx context.Context, path string, body, result interface{}) (*transport.Response, error) {
	return c.execute(ctx, &transport.Request{Method: http.MethodPut, Path: path, Body: body}, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.execute(ctx, &transport.Request{Method: http.MethodDelete, Path: path}, nil)
	return err
}

// Close flushes any pending Sentry events and closes the credential store
func (c *Client) Close() {
	// Flush Sentry events with a 2 second timeout
	sentry.Flush(2 * time.Second)

	if c.options != nil && c.options.Store != nil {
		if err := c.options.Store.Close(); err != nil && c.options.Logger != nil {
			c.options.Logger.Warn("Failed to close credential store", "error", err)
		}
	}
}

// resourcePath joins a collection path and an id
func resourcePath(base string, id int64, suffix ...string) string {
	p := base + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

// pageQuery renders page and page_size query parameters
func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	return q
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
