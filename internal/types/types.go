package types

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Session represents an authenticated Bigcapital session.
//
// Password is only ever held in memory so the session can re-authenticate on its own;
// it is never written to a credential store.
type Session struct {
	Token          string    `json:"token"`
	TenantID       ID        `json:"tenantId,omitempty"`
	OrganizationID string    `json:"organizationId,omitempty"`
	Email          string    `json:"email,omitempty"`
	Password       string    `json:"-"`
	ExpiresAt      time.Time `json:"expiresAt,omitempty"`

	// RetryCount is the number of re-authentication attempts made since the last
	// successful request. Guarded by the transport that owns the session.
	RetryCount int `json:"-"`
}

// HasCredentials reports whether the session can log in again on its own
func (s *Session) HasCredentials() bool {
	return s != nil && s.Email != "" && s.Password != ""
}

// Refresh copies the identity of a freshly issued session into s
func (s *Session) Refresh(from *Session) {
	s.Token = from.Token
	s.TenantID = from.TenantID
	s.OrganizationID = from.OrganizationID
	s.ExpiresAt = from.ExpiresAt
}

// ID is an identifier the API returns either as a JSON number or a JSON string
type ID string

// UnmarshalJSON accepts numbers, strings and null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as a string
func (id ID) String() string {
	return string(id)
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RetryConfig configures transport-level retries (connection errors, 429, 5xx)
type RetryConfig struct {
	MaxRetries int           `json:"maxRetries"`
	RetryWait  time.Duration `json:"retryWait"`
	MaxWait    time.Duration `json:"maxWait"`
}

// Hooks provides lifecycle hooks for requests
type Hooks struct {
	OnRequest  func(ctx context.Context, req *http.Request)
	OnResponse func(ctx context.Context, resp *http.Response, duration time.Duration)
	OnError    func(ctx context.Context, err error)

	// OnReauthenticate is called after every re-authentication attempt; err is nil on success
	OnReauthenticate func(ctx context.Context, attempt int, err error)
}
