package bigcapital

import (
	"net/http"

	"github.com/eshaffer321/bigcapital-go/internal/store"
	"github.com/pkg/errors"
	redislib "github.com/redis/go-redis/v9"
)

// CredentialStore persists the session between processes. Call Open before
// passing a store to the client; Client.Close closes it.
type CredentialStore = store.CredentialStore

// CredentialRecord is the persisted form of a session. It never contains a password.
type CredentialRecord = store.Record

// CookieOptions configures the auth cookie written by a cookie store
type CookieOptions = store.CookieOptions

// ErrStoreReadOnly is returned by stores that cannot be written in their context
var ErrStoreReadOnly = store.ErrReadOnly

// NewMemoryStore returns a process-local store
func NewMemoryStore(logger Logger) CredentialStore {
	return store.NewMemoryStore(logger)
}

// NewFileStore returns a store that keeps the record as JSON at path
func NewFileStore(path string, logger Logger) CredentialStore {
	return store.NewFileStore(path, logger)
}

// NewBoltStore returns a store backed by a bbolt database at path.
// scope selects the key, so several accounts can share one file.
func NewBoltStore(path, scope string, logger Logger) CredentialStore {
	return store.NewBoltStore(path, scope, logger)
}

// NewRedisStore returns a store that keeps the record in Redis under a scoped key
func NewRedisStore(redisURL, scope string, logger Logger) (CredentialStore, error) {
	opts, err := redislib.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis url")
	}
	return store.NewRedisStore(redislib.NewClient(opts), scope, 0, logger), nil
}

// NewCookieStore returns a store bound to one HTTP exchange. Pass a nil writer
// when the response cannot carry cookies; the store is then read-only.
func NewCookieStore(req *http.Request, w http.ResponseWriter, opts CookieOptions) CredentialStore {
	return store.NewCookieStore(req, w, opts)
}
