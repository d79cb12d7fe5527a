package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restopos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository is the durable store behind the ledger. It reads and
// writes the whole state at once; a Save either lands completely or not at all,
// so a crash mid-write never leaves a partial snapshot behind.
type SnapshotRepository interface {
	// Load returns the last saved snapshot, or (nil, nil) if none was ever saved.
	Load(ctx context.Context) (*model.Estado, error)
	Save(ctx context.Context, e *model.Estado) error
}

// snapshotRow is the single row holding the serialized ledger.
type snapshotRow struct {
	ID        int    `gorm:"primaryKey"`
	Datos     string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (snapshotRow) TableName() string { return "ledger_snapshots" }

const snapshotRowID = 1

type gormSnapshotRepo struct{ db *gorm.DB }

// NewGormSnapshotRepository stores the snapshot as one jsonb row in Postgres.
func NewGormSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &gormSnapshotRepo{db: db}
}

func (r *gormSnapshotRepo) Load(ctx context.Context) (*model.Estado, error) {
	var row snapshotRow
	err := r.db.WithContext(ctx).First(&row, snapshotRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e model.Estado
	if err := json.Unmarshal([]byte(row.Datos), &e); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return &e, nil
}

// Save upserts the row in a single statement.
func (r *gormSnapshotRepo) Save(ctx context.Context, e *model.Estado) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	row := snapshotRow{ID: snapshotRowID, Datos: string(data), UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"datos", "updated_at"}),
	}).Create(&row).Error
}
