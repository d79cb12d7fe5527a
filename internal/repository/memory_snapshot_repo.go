package repository

import (
	"context"
	"encoding/json"
	"sync"

	"restopos/internal/model"
)

// MemorySnapshotRepository keeps the encoded snapshot in memory. Used by the
// "memory" store driver and by tests; Saves counts successful writes.
type MemorySnapshotRepository struct {
	mu    sync.Mutex
	data  []byte
	Saves int
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{}
}

func (r *MemorySnapshotRepository) Load(_ context.Context) (*model.Estado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data == nil {
		return nil, nil
	}
	var e model.Estado
	if err := json.Unmarshal(r.data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *MemorySnapshotRepository) Save(_ context.Context, e *model.Estado) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = data
	r.Saves++
	return nil
}

var _ SnapshotRepository = (*MemorySnapshotRepository)(nil)
