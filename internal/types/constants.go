package types

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the default Bigcapital API base URL
	DefaultBaseURL = "https://app.bigcapital.app"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "bigcapital-go/1.0.0"

	// MaxRetries bounds re-authentication attempts after a 401
	MaxRetries = 3

	// AuthCookieName is the name of the persisted credential record
	AuthCookieName = "bigcapital_auth"

	// RecordMaxAge is how long storage backends keep a credential record
	RecordMaxAge = 30 * 24 * time.Hour
)

// Common errors
var (
	// ErrNotAuthenticated is returned when a request is made without a session
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrMissingCredentials is returned when no email/password is available for login
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrUnauthorized matches API errors with status 401 or 403
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound matches API errors with status 404
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited matches API errors with status 429
	ErrRateLimited = errors.New("rate limited")

	// ErrServerError matches API errors with status >= 500
	ErrServerError = errors.New("server error")
)
