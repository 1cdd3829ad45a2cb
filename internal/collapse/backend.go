package collapse

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Backend persists the collapsed key set as a flat array of strings.
// Load errors are treated as "nothing collapsed" by the store.
type Backend interface {
	Load() ([]string, error)
	Save(keys []string) error
}

// MemoryBackend keeps the set in memory. Used in tests and as the
// fallback when no state directory is available.
type MemoryBackend struct {
	keys []string
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load returns the last saved set.
func (m *MemoryBackend) Load() ([]string, error) {
	return m.keys, nil
}

// Save replaces the stored set.
func (m *MemoryBackend) Save(keys []string) error {
	m.keys = append([]string(nil), keys...)
	return nil
}

// lockTimeout bounds how long a save waits on a concurrent writer.
const lockTimeout = 2 * time.Second

// FileBackend stores the set as a JSON string array on disk. Writes
// go through a temp file and rename, guarded by a flock against other
// processes sharing the state file.
type FileBackend struct {
	path string
}

// NewFileBackend creates the parent directory if needed and returns a
// backend writing to path.
func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

// Load reads the persisted set. A missing file, unreadable file, or
// malformed JSON all surface as errors; the store maps every Load
// error to an empty set.
func (f *FileBackend) Load() ([]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to parse collapse state: %w", err)
	}
	return keys, nil
}

// Save writes the set atomically: marshal, write a temp file, rename
// over the target while holding the lock file.
func (f *FileBackend) Save(keys []string) error {
	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to marshal collapse state: %w", err)
	}

	lock := flock.New(f.path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to lock state file: %w", err)
	}
	if !locked {
		return fmt.Errorf("state file %s is locked by another process", f.path)
	}
	defer lock.Unlock()

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
