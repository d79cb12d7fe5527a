package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"restopos/internal/model"
	"restopos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// errSinCambios lets a transaction finish successfully without persisting.
var errSinCambios = errors.New("sin cambios")

// Libro owns the ledger state. Every mutation runs through Tx, serialized by
// mu: the current snapshot is cloned, fn mutates the clone, the clone is
// persisted and only then swapped in. Any error leaves the previous snapshot
// in place, so a failed charge or cancel never leaves partial writes behind.
//
// Snapshots handed out by Leer are never mutated afterwards and may be read
// without holding the lock.
type Libro struct {
	mu     sync.Mutex
	repo   repository.SnapshotRepository
	estado *model.Estado

	now   func() time.Time
	newID func() string
}

// NuevoLibro loads the persisted snapshot, or starts an empty one with the
// given settings when the store has none yet.
func NuevoLibro(ctx context.Context, repo repository.SnapshotRepository, ajustes model.Ajustes) (*Libro, error) {
	e, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargando snapshot: %w", err)
	}
	if e == nil {
		e = model.NuevoEstado(ajustes)
		log.Info().Msg("libro: no snapshot found, starting empty ledger")
	}
	e.Normalizar()
	return &Libro{
		repo:   repo,
		estado: e,
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

// SetClock replaces the time source. Used by tests.
func (l *Libro) SetClock(now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

// SetIDs replaces the id generator. Used by tests.
func (l *Libro) SetIDs(newID func() string) {
	l.mu.Lock()
	l.newID = newID
	l.mu.Unlock()
}

// Leer returns the current snapshot. Callers must treat it as read-only.
func (l *Libro) Leer() *model.Estado {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.estado
}

// Tx runs fn against a private copy of the state and commits it atomically.
func (l *Libro) Tx(ctx context.Context, fn func(e *model.Estado) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	next := l.estado.Clone()
	if err := fn(next); err != nil {
		if errors.Is(err, errSinCambios) {
			return nil
		}
		return err
	}
	if err := l.repo.Save(ctx, next); err != nil {
		log.Error().Err(err).Msg("libro: snapshot write failed, transaction discarded")
		return fmt.Errorf("guardando snapshot: %w", err)
	}
	l.estado = next
	return nil
}

// ahora and nuevoID read fields guarded by mu; call them only inside a Tx callback.
func (l *Libro) ahora() time.Time { return l.now() }

func (l *Libro) nuevoID() string { return l.newID() }

func hoy(t time.Time) string { return t.Format("2006-01-02") }
