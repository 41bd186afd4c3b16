package store

import (
	"context"
	"sync"

	"github.com/eshaffer321/bigcapital-go/internal/types"
)

var _ CredentialStore = (*MemoryStore)(nil)

// MemoryStore keeps the record in process memory
type MemoryStore struct {
	data     []byte
	readOnly bool
	logger   types.Logger
	lock     sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(logger types.Logger) *MemoryStore {
	return &MemoryStore{logger: logger}
}

// Open is a no-op
func (m *MemoryStore) Open(ctx context.Context) error {
	return nil
}

// Load returns the stored record
func (m *MemoryStore) Load(ctx context.Context) (*Record, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return decodeOrAbsent(m.data, m.logger, "memory"), nil
}

// Save stores the record
func (m *MemoryStore) Save(ctx context.Context, record *Record) error {
	data, _, err := Encode(record)
	if err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if m.readOnly {
		return ErrReadOnly
	}
	m.data = data
	return nil
}

// Clear removes the record
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.readOnly {
		return ErrReadOnly
	}
	m.data = nil
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

// SetReadOnly toggles write rejection
func (m *MemoryStore) SetReadOnly(readOnly bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.readOnly = readOnly
}

// SetRaw replaces the stored bytes without validation
func (m *MemoryStore) SetRaw(data []byte) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.data = append([]byte(nil), data...)
}

// Raw returns a copy of the stored bytes
func (m *MemoryStore) Raw() []byte {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return append([]byte(nil), m.data...)
}
