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

// notificationRepository implements ports.NotificationRepository
type notificationRepository struct {
	conn conn
}

func (r *notificationRepository) Get(ctx context.Context, id string) (*domain.Notification, error) {
	var model NotificationModel
	err := r.conn.read(ctx, "NotificationRepo.get", func(db *gorm.DB) error {
		err := db.Where("id = ?", id).Take(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	n := notificationModelToDomain(model)
	return &n, nil
}

func (r *notificationRepository) Upsert(ctx context.Context, n domain.Notification) error {
	return r.conn.write(ctx, "NotificationRepo.upsert", func(tx *gorm.DB) error {
		if !n.Kind.Valid() {
			return fmt.Errorf("invalid notification kind %q", n.Kind)
		}
		model := domainToNotificationModel(n)
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"account", "created_at", "entity_id", "entity_kind", "is_read",
				"kind", "pull_request_id", "read_at", "summary",
			}),
		}).Create(&model).Error
	})
}

// ListPaginated returns notifications newest first
func (r *notificationRepository) ListPaginated(ctx context.Context, filter domain.NotificationFilter, page domain.PageRequest) (domain.PaginatedNotifications, error) {
	limit := page.EffectiveLimit()
	result := domain.PaginatedNotifications{Items: []domain.Notification{}}
	var models []NotificationModel

	err := r.conn.read(ctx, "NotificationRepo.listPaginated", func(db *gorm.DB) error {
		q := db.Model(&NotificationModel{})
		if filter.Account != "" {
			q = q.Where("account = ?", filter.Account)
		}
		if filter.UnreadOnly {
			q = q.Where("is_read = ?", false)
		}
		if page.Cursor != "" {
			c, err := decodeCursor(page.Cursor)
			if err != nil {
				return err
			}
			q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", c.T, c.T, c.ID)
		}
		return q.Order("created_at DESC").Order("id DESC").Limit(limit + 1).Find(&models).Error
	})
	if err != nil {
		return result, err
	}

	if len(models) > limit {
		models = models[:limit]
		last := models[limit-1]
		result.NextCursor = encodeCursor(last.CreatedAt, last.ID)
	}
	for _, m := range models {
		result.Items = append(result.Items, notificationModelToDomain(m))
	}
	return result, nil
}

// MarkRead flags the given notifications as read and returns how many changed
func (r *notificationRepository) MarkRead(ctx context.Context, ids ...string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var updated int64
	err := r.conn.write(ctx, "NotificationRepo.markRead", func(tx *gorm.DB) error {
		result := tx.Model(&NotificationModel{}).
			Where("id IN ? AND is_read = ?", ids, false).
			Updates(map[string]any{"is_read": true, "read_at": time.Now().UTC()})
		updated = result.RowsAffected
		return result.Error
	})
	return updated, err
}

// MarkAllRead flags every unread notification of the account as read
func (r *notificationRepository) MarkAllRead(ctx context.Context, account string) (int64, error) {
	var updated int64
	err := r.conn.write(ctx, "NotificationRepo.markAllRead", func(tx *gorm.DB) error {
		result := tx.Model(&NotificationModel{}).
			Where("account = ? AND is_read = ?", account, false).
			Updates(map[string]any{"is_read": true, "read_at": time.Now().UTC()})
		updated = result.RowsAffected
		return result.Error
	})
	return updated, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, account string) (int64, error) {
	var count int64
	err := r.conn.read(ctx, "NotificationRepo.countUnread", func(db *gorm.DB) error {
		return db.Model(&NotificationModel{}).
			Where("account = ? AND is_read = ?", account, false).
			Count(&count).Error
	})
	return count, err
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	return r.conn.write(ctx, "NotificationRepo.delete", func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&NotificationModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// DeleteOlderThan prunes notifications created before cutoff
func (r *notificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.conn.write(ctx, "NotificationRepo.deleteOlderThan", func(tx *gorm.DB) error {
		result := tx.Where("created_at < ?", cutoff.UTC()).Delete(&NotificationModel{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}
