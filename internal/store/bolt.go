package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/eshaffer321/bigcapital-go/internal/types"
)

var _ CredentialStore = (*BoltStore)(nil)

var credentialsBucket = []byte("credentials")

// BoltStore keeps the record in a BoltDB file, keyed by scope
type BoltStore struct {
	path   string
	key    []byte
	db     *bolt.DB
	logger types.Logger
}

// NewBoltStore creates a store for the database at path. Call Open before use.
func NewBoltStore(path, scope string, logger types.Logger) *BoltStore {
	if scope == "" {
		scope = "default"
	}
	return &BoltStore{
		path:   path,
		key:    []byte(scope),
		logger: logger,
	}
}

// Open opens the database file and ensures the bucket exists
func (b *BoltStore) Open(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return err
	}
	db, err := bolt.Open(b.path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(credentialsBucket)
		return err
	}); err != nil {
		db.Close()
		return err
	}

	b.db = db
	return nil
}

// Load reads the record
func (b *BoltStore) Load(ctx context.Context) (*Record, error) {
	if b.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(credentialsBucket).Get(b.key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decodeOrAbsent(data, b.logger, "bolt"), nil
}

// Save writes the record
func (b *BoltStore) Save(ctx context.Context, record *Record) error {
	if b.db == nil {
		return bolt.ErrDatabaseNotOpen
	}

	data, _, err := Encode(record)
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(credentialsBucket).Put(b.key, data)
	})
}

// Clear deletes the record
func (b *BoltStore) Clear(ctx context.Context) error {
	if b.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(credentialsBucket).Delete(b.key)
	})
}

// Close closes the database
func (b *BoltStore) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

