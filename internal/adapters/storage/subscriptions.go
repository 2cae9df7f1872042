package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/renato0307/prcache/internal/domain"
)

// subscriptionRepository implements ports.SubscriptionRepository
type subscriptionRepository struct {
	conn conn
}

func (r *subscriptionRepository) Get(ctx context.Context, account, pullRequestID string) (*domain.Subscription, error) {
	var model SubscriptionModel
	err := r.conn.read(ctx, "SubscriptionRepo.get", func(db *gorm.DB) error {
		err := db.Where("account = ? AND pull_request_id = ?", account, pullRequestID).Take(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s := subscriptionModelToDomain(model)
	return &s, nil
}

func (r *subscriptionRepository) Upsert(ctx context.Context, s domain.Subscription) error {
	return r.conn.write(ctx, "SubscriptionRepo.upsert", func(tx *gorm.DB) error {
		model := SubscriptionModel{
			Account:       s.Account,
			CreatedAt:     s.CreatedAt.UTC(),
			PullRequestID: s.PullRequestID,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account"}, {Name: "pull_request_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"created_at"}),
		}).Create(&model).Error
	})
}

func (r *subscriptionRepository) Delete(ctx context.Context, account, pullRequestID string) error {
	return r.conn.write(ctx, "SubscriptionRepo.delete", func(tx *gorm.DB) error {
		result := tx.Where("account = ? AND pull_request_id = ?", account, pullRequestID).Delete(&SubscriptionModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// List orders by creation time descending, then pull request id
func (r *subscriptionRepository) List(ctx context.Context, account string, page domain.PageRequest) ([]domain.Subscription, string, error) {
	limit := page.EffectiveLimit()
	var models []SubscriptionModel

	err := r.conn.read(ctx, "SubscriptionRepo.list", func(db *gorm.DB) error {
		q := db.Model(&SubscriptionModel{}).Where("account = ?", account)
		if page.Cursor != "" {
			c, err := decodeCursor(page.Cursor)
			if err != nil {
				return err
			}
			q = q.Where("(created_at < ? OR (created_at = ? AND pull_request_id > ?))", c.T, c.T, c.ID)
		}
		return q.Order("created_at DESC").Order("pull_request_id ASC").Limit(limit + 1).Find(&models).Error
	})
	if err != nil {
		return nil, "", err
	}

	var next string
	if len(models) > limit {
		models = models[:limit]
		last := models[limit-1]
		next = encodeCursor(last.CreatedAt, last.PullRequestID)
	}

	subs := make([]domain.Subscription, 0, len(models))
	for _, m := range models {
		subs = append(subs, subscriptionModelToDomain(m))
	}
	return subs, next, nil
}

// ListAll returns every subscription of the account ordered by pull request id
func (r *subscriptionRepository) ListAll(ctx context.Context, account string) ([]domain.Subscription, error) {
	var models []SubscriptionModel
	err := r.conn.read(ctx, "SubscriptionRepo.listAll", func(db *gorm.DB) error {
		return db.Where("account = ?", account).Order("pull_request_id ASC").Find(&models).Error
	})
	if err != nil {
		return nil, err
	}

	subs := make([]domain.Subscription, 0, len(models))
	for _, m := range models {
		subs = append(subs, subscriptionModelToDomain(m))
	}
	return subs, nil
}
