package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/eshaffer321/bigcapital-go/internal/types"
	"github.com/pkg/errors"
)

var _ CredentialStore = (*FileStore)(nil)

// FileStore keeps the record in a JSON file readable only by the owner
type FileStore struct {
	path   string
	logger types.Logger
	mu     sync.Mutex
}

// NewFileStore creates a file-backed store at path
func NewFileStore(path string, logger types.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// Open creates the parent directory
func (f *FileStore) Open(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return errors.Wrap(err, "failed to create session directory")
	}
	return nil
}

// Load reads the record from disk
func (f *FileStore) Load(ctx context.Context) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read session file")
	}

	record := decodeOrAbsent(data, f.logger, "file")
	if record != nil && f.logger != nil {
		f.logger.Debug("Session loaded", "path", f.path, "email", record.Email)
	}
	return record, nil
}

// Save writes the record with restrictive permissions
func (f *FileStore) Save(ctx context.Context, record *Record) error {
	data, _, err := Encode(record)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.Wrap(err, "failed to replace session file")
	}

	if f.logger != nil {
		f.logger.Info("Session saved", "path", f.path)
	}
	return nil
}

// Clear removes the file
func (f *FileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove session file")
	}
	return nil
}

// Close is a no-op
func (f *FileStore) Close() error {
	return nil
}
