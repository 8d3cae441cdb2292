package consent

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nodebridge-labs/nodebridge/internal/platform"
)

// Store persists a single answer token.
type Store interface {
	// Get returns the stored token and whether one exists.
	Get() (string, bool, error)
	// Set replaces the stored token.
	Set(token string) error
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// FileStore keeps the token as the whole content of a plain-text file.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Get reads the token. A missing file reports ok=false with no error.
func (s *FileStore) Get() (string, bool, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading remembered choice: %w", err)
	}
	return string(data), true, nil
}

// Set writes the token, readable only by the current user.
func (s *FileStore) Set(token string) error {
	if err := platform.WriteFilePrivate(s.Path, []byte(token)); err != nil {
		return fmt.Errorf("saving remembered choice: %w", err)
	}
	return nil
}

// Clear deletes the file if present.
func (s *FileStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing remembered choice: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	token string
	set   bool
}

// Get returns the token held in memory.
func (s *MemoryStore) Get() (string, bool, error) {
	return s.token, s.set, nil
}

// Set replaces the token.
func (s *MemoryStore) Set(token string) error {
	s.token, s.set = token, true
	return nil
}

// Clear forgets the token.
func (s *MemoryStore) Clear() error {
	s.token, s.set = "", false
	return nil
}
