package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/renato0307/prcache/internal/domain"
)

// commentRepository implements ports.CommentRepository
type commentRepository struct {
	conn conn
}

func (r *commentRepository) Get(ctx context.Context, account, id string) (*domain.Comment, error) {
	var model CommentModel
	err := r.conn.read(ctx, "CommentRepo.get", func(db *gorm.DB) error {
		err := db.Where("account = ? AND id = ?", account, id).Take(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	c := commentModelToDomain(model)
	return &c, nil
}

// Upsert stores the comment, computing its content hash when absent.
// The parent pull request must already be cached.
func (r *commentRepository) Upsert(ctx context.Context, comment domain.Comment) error {
	return r.conn.write(ctx, "CommentRepo.upsert", func(tx *gorm.DB) error {
		model := domainToCommentModel(comment)
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"author", "body", "content_hash", "line", "path",
				"pull_request_id", "remote_created_at", "remote_updated_at",
			}),
		}).Create(&model).Error
	})
}

// ListForPullRequest returns every comment of a pull request, oldest first
func (r *commentRepository) ListForPullRequest(ctx context.Context, account, pullRequestID string) ([]domain.Comment, error) {
	var models []CommentModel
	err := r.conn.read(ctx, "CommentRepo.listForPullRequest", func(db *gorm.DB) error {
		return db.Where("account = ? AND pull_request_id = ?", account, pullRequestID).
			Order("remote_created_at ASC").Order("id ASC").
			Find(&models).Error
	})
	if err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(models))
	for _, m := range models {
		comments = append(comments, commentModelToDomain(m))
	}
	return comments, nil
}

// List orders by remote creation time descending, then id
func (r *commentRepository) List(ctx context.Context, filter domain.CommentFilter, page domain.PageRequest) ([]domain.Comment, string, error) {
	limit := page.EffectiveLimit()
	var models []CommentModel

	err := r.conn.read(ctx, "CommentRepo.list", func(db *gorm.DB) error {
		q := db.Model(&CommentModel{})
		if filter.Account != "" {
			q = q.Where("account = ?", filter.Account)
		}
		if filter.PullRequestID != "" {
			q = q.Where("pull_request_id = ?", filter.PullRequestID)
		}
		if filter.Author != "" {
			q = q.Where("author = ?", filter.Author)
		}
		if page.Cursor != "" {
			c, err := decodeCursor(page.Cursor)
			if err != nil {
				return err
			}
			q = q.Where("(remote_created_at < ? OR (remote_created_at = ? AND id > ?))", c.T, c.T, c.ID)
		}
		return q.Order("remote_created_at DESC").Order("id ASC").Limit(limit + 1).Find(&models).Error
	})
	if err != nil {
		return nil, "", err
	}

	var next string
	if len(models) > limit {
		models = models[:limit]
		last := models[limit-1]
		next = encodeCursor(last.RemoteCreatedAt, last.ID)
	}

	comments := make([]domain.Comment, 0, len(models))
	for _, m := range models {
		comments = append(comments, commentModelToDomain(m))
	}
	return comments, next, nil
}

func (r *commentRepository) Delete(ctx context.Context, account, id string) error {
	return r.conn.write(ctx, "CommentRepo.delete", func(tx *gorm.DB) error {
		result := tx.Where("account = ? AND id = ?", account, id).Delete(&CommentModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// DeleteForPullRequest removes every comment of one pull request
func (r *commentRepository) DeleteForPullRequest(ctx context.Context, account, pullRequestID string) (int64, error) {
	var deleted int64
	err := r.conn.write(ctx, "CommentRepo.deleteForPullRequest", func(tx *gorm.DB) error {
		result := tx.Where("account = ? AND pull_request_id = ?", account, pullRequestID).Delete(&CommentModel{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

// DeleteOrphans removes comments whose parent pull request is no longer cached
func (r *commentRepository) DeleteOrphans(ctx context.Context, account string) (int64, error) {
	var deleted int64
	err := r.conn.write(ctx, "CommentRepo.deleteOrphans", func(tx *gorm.DB) error {
		result := deleteOrphanComments(tx, account)
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

func deleteOrphanComments(tx *gorm.DB, account string) *gorm.DB {
	return tx.Exec(`DELETE FROM comments
		WHERE account = ?
		AND NOT EXISTS (
			SELECT 1 FROM pull_requests p
			WHERE p.account = comments.account AND p.id = comments.pull_request_id
		)`, account)
}
