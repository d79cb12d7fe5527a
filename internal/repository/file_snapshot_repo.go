package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"restopos/internal/model"
)

type fileSnapshotRepo struct {
	path string
	mu   sync.Mutex
}

// NewFileSnapshotRepository keeps the snapshot in a JSON file. Writes go to a
// temp file in the same directory which is synced and then renamed over path.
func NewFileSnapshotRepository(path string) SnapshotRepository {
	return &fileSnapshotRepo{path: path}
}

func (r *fileSnapshotRepo) Load(_ context.Context) (*model.Estado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e model.Estado
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("snapshot %s: decode: %w", r.path, err)
	}
	return &e, nil
}

func (r *fileSnapshotRepo) Save(_ context.Context, e *model.Estado) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: temp file: %w", err)
	}
	tmpName := tmp.Name()
	// Cleanup is a no-op once the rename succeeded.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	return nil
}
