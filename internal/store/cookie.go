package store

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/eshaffer321/bigcapital-go/internal/types"
)

var _ CredentialStore = (*CookieStore)(nil)

// CookieOptions configures the auth cookie
type CookieOptions struct {
	Name   string
	Path   string
	Domain string
	MaxAge int // seconds; defaults to types.RecordMaxAge
	Secure bool
	Logger types.Logger
}

// CookieStore reads the record from the incoming request and writes it to the response.
// It is bound to a single HTTP request. Without a response writer it is read-only.
type CookieStore struct {
	req  *http.Request
	w    http.ResponseWriter
	opts CookieOptions

	// pending reflects writes made during this request
	mu      sync.Mutex
	written bool
	pending []byte
}

// NewCookieStore binds a store to one request. Pass a nil writer for read-only contexts.
func NewCookieStore(req *http.Request, w http.ResponseWriter, opts CookieOptions) *CookieStore {
	if opts.Name == "" {
		opts.Name = types.AuthCookieName
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.MaxAge == 0 {
		opts.MaxAge = int(types.RecordMaxAge.Seconds())
	}
	return &CookieStore{req: req, w: w, opts: opts}
}

// Open is a no-op; the cookie is read lazily
func (c *CookieStore) Open(ctx context.Context) error {
	return nil
}

// Load returns the record from this request's writes or its cookie header
func (c *CookieStore) Load(ctx context.Context) (*Record, error) {
	c.mu.Lock()
	if c.written {
		data := c.pending
		c.mu.Unlock()
		return decodeOrAbsent(data, c.opts.Logger, "cookie"), nil
	}
	c.mu.Unlock()

	if c.req == nil {
		return nil, nil
	}

	cookie, err := c.req.Cookie(c.opts.Name)
	if err != nil {
		return nil, nil
	}

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		if c.opts.Logger != nil {
			c.opts.Logger.Warn("Ignoring undecodable auth cookie", "error", err)
		}
		return nil, nil
	}
	return decodeOrAbsent([]byte(raw), c.opts.Logger, "cookie"), nil
}

// Save sets the auth cookie on the response
func (c *CookieStore) Save(ctx context.Context, record *Record) error {
	if c.w == nil {
		return ErrReadOnly
	}

	data, _, err := Encode(record)
	if err != nil {
		return err
	}

	http.SetCookie(c.w, c.cookie(url.QueryEscape(string(data)), c.opts.MaxAge))

	c.mu.Lock()
	c.written = true
	c.pending = data
	c.mu.Unlock()
	return nil
}

// Clear expires the auth cookie
func (c *CookieStore) Clear(ctx context.Context) error {
	if c.w == nil {
		return ErrReadOnly
	}

	http.SetCookie(c.w, c.cookie("", -1))

	c.mu.Lock()
	c.written = true
	c.pending = nil
	c.mu.Unlock()
	return nil
}

// Close is a no-op
func (c *CookieStore) Close() error {
	return nil
}

func (c *CookieStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.opts.Name,
		Value:    value,
		Path:     c.opts.Path,
		Domain:   c.opts.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
