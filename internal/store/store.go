// Package store persists the credential record that lets a Bigcapital session be
// restored without logging in again.
//
// A CredentialStore holds at most one record. Stores follow an
// Open -> Load/Save/Clear* -> Close lifecycle and are passed explicitly to the
// components that need them.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/eshaffer321/bigcapital-go/internal/types"
)

// ErrReadOnly is returned by Save and Clear when the surrounding environment does not
// allow writes (for example a cookie store bound to a request with no response writer).
// Callers treat it as a soft failure.
var ErrReadOnly = errors.New("credential store is read-only")

// CredentialStore persists a single credential record
type CredentialStore interface {
	// Open prepares the backend for use
	Open(ctx context.Context) error

	// Load returns the stored record, or nil when no valid record exists.
	// Missing and malformed records are not errors.
	Load(ctx context.Context) (*Record, error)

	// Save stamps the record with the current time and overwrites any prior record
	Save(ctx context.Context, record *Record) error

	// Clear deletes the record
	Clear(ctx context.Context) error

	// Close releases backend resources
	Close() error
}

// Record is the persisted counterpart of a session. Passwords are never stored.
type Record struct {
	Token          string   `json:"token"`
	TenantID       types.ID `json:"tenantId,omitempty"`
	OrganizationID string   `json:"organizationId,omitempty"`
	Email          string   `json:"email,omitempty"`

	// Timestamp is the write time in unix milliseconds. Informational only.
	Timestamp int64 `json:"timestamp"`
}

// now is replaced in tests
var now = time.Now

// RecordFromSession builds the persistable part of a session
func RecordFromSession(s *types.Session) *Record {
	return &Record{
		Token:          s.Token,
		TenantID:       s.TenantID,
		OrganizationID: s.OrganizationID,
		Email:          s.Email,
	}
}

// Session converts the record back into a session without cached password
func (r *Record) Session() *types.Session {
	return &types.Session{
		Token:          r.Token,
		TenantID:       r.TenantID,
		OrganizationID: r.OrganizationID,
		Email:          r.Email,
	}
}

// Valid reports whether the record can back a session
func (r *Record) Valid() bool {
	return r != nil && r.Token != ""
}

// WrittenAt returns the write time
func (r *Record) WrittenAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Encode stamps a copy of the record and serializes it as JSON text
func Encode(record *Record) ([]byte, *Record, error) {
	if !record.Valid() {
		return nil, nil, &types.Error{Code: types.CodeMalformedRecord, Message: "refusing to store record without token"}
	}

	stamped := *record
	stamped.Timestamp = now().UnixMilli()

	data, err := json.Marshal(&stamped)
	if err != nil {
		return nil, nil, err
	}
	return data, &stamped, nil
}

// Decode parses a stored record. Invalid JSON or a record without a token yields
// an error matching types.ErrMalformedRecord.
func Decode(data []byte) (*Record, error) {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &types.Error{Code: types.CodeMalformedRecord, Message: "malformed credential record", Err: err}
	}
	if !record.Valid() {
		return nil, &types.Error{Code: types.CodeMalformedRecord, Message: "credential record has no token"}
	}
	return &record, nil
}

// decodeOrAbsent decodes data and maps a malformed record to absent
func decodeOrAbsent(data []byte, logger types.Logger, backend string) *Record {
	if len(data) == 0 {
		return nil
	}
	record, err := Decode(data)
	if err != nil {
		if logger != nil {
			logger.Warn("Ignoring malformed credential record", "store", backend, "error", err)
		}
		return nil
	}
	return record
}
