package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/renato0307/prcache/internal/domain"
)

// syncMetadataRepository implements ports.SyncMetadataRepository
type syncMetadataRepository struct {
	conn conn
}

func (r *syncMetadataRepository) Get(ctx context.Context, scope string) (*domain.SyncMetadata, error) {
	var model SyncMetadataModel
	err := r.conn.read(ctx, "SyncMetadataRepo.get", func(db *gorm.DB) error {
		err := db.Where("scope = ?", scope).Take(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	m := syncMetadataModelToDomain(model)
	return &m, nil
}

// RecordSync stores the sync point for scope. A timestamp earlier than the stored
// one fails with domain.ErrStaleSync and leaves the row unchanged.
func (r *syncMetadataRepository) RecordSync(ctx context.Context, scope string, at time.Time, cursor string) error {
	return r.conn.write(ctx, "SyncMetadataRepo.recordSync", func(tx *gorm.DB) error {
		at = at.UTC()

		var existing SyncMetadataModel
		err := tx.Where("scope = ?", scope).Take(&existing).Error
		switch {
		case err == nil:
			if at.Before(existing.LastSyncedAt) {
				return fmt.Errorf("%w: scope %s has %s, got %s", domain.ErrStaleSync,
					scope, existing.LastSyncedAt.UTC().Format(time.RFC3339Nano), at.Format(time.RFC3339Nano))
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		model := SyncMetadataModel{
			Cursor:       cursor,
			LastSyncedAt: at,
			Scope:        scope,
			UpdatedAt:    time.Now().UTC(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}},
			DoUpdates: clause.AssignmentColumns([]string{"cursor", "last_synced_at", "updated_at"}),
		}).Create(&model).Error
	})
}

// Reset forgets the sync point of scope so the next sync starts from scratch
func (r *syncMetadataRepository) Reset(ctx context.Context, scope string) error {
	return r.conn.write(ctx, "SyncMetadataRepo.reset", func(tx *gorm.DB) error {
		return tx.Where("scope = ?", scope).Delete(&SyncMetadataModel{}).Error
	})
}

func (r *syncMetadataRepository) List(ctx context.Context) ([]domain.SyncMetadata, error) {
	var models []SyncMetadataModel
	err := r.conn.read(ctx, "SyncMetadataRepo.list", func(db *gorm.DB) error {
		return db.Order("scope ASC").Find(&models).Error
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.SyncMetadata, 0, len(models))
	for _, m := range models {
		out = append(out, syncMetadataModelToDomain(m))
	}
	return out, nil
}
