package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/renato0307/prcache/internal/domain"
)

// pullRequestRepository implements ports.PullRequestRepository
type pullRequestRepository struct {
	conn conn
}

// Get returns domain.ErrNotFound when no row exists for (account, id)
func (r *pullRequestRepository) Get(ctx context.Context, account, id string) (*domain.CachedPullRequest, error) {
	var model PullRequestModel
	err := r.conn.read(ctx, "PullRequestRepo.get", func(db *gorm.DB) error {
		err := db.Where("account = ? AND id = ?", account, id).Take(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	pr := pullRequestModelToDomain(model)
	return &pr, nil
}

// Upsert inserts or replaces the row keyed by (account, id)
func (r *pullRequestRepository) Upsert(ctx context.Context, pr domain.CachedPullRequest) error {
	return r.conn.write(ctx, "PullRequestRepo.upsert", func(tx *gorm.DB) error {
		if !pr.Status.Valid() {
			return fmt.Errorf("invalid status %q", pr.Status)
		}
		model := domainToPullRequestModel(pr)
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"author", "description", "last_synced_at", "number", "remote_updated_at",
				"revision", "source_ref", "status", "target_ref", "title",
			}),
		}).Create(&model).Error
	})
}

// List orders by remote_updated_at descending, then id. A resync that finds no
// remote change leaves the sort key untouched, so cursors stay valid.
func (r *pullRequestRepository) List(ctx context.Context, filter domain.PullRequestFilter, page domain.PageRequest) ([]domain.CachedPullRequest, string, error) {
	limit := page.EffectiveLimit()
	var models []PullRequestModel

	err := r.conn.read(ctx, "PullRequestRepo.list", func(db *gorm.DB) error {
		q := db.Model(&PullRequestModel{})
		if filter.Account != "" {
			q = q.Where("account = ?", filter.Account)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", string(filter.Status))
		}
		if filter.Author != "" {
			q = q.Where("author = ?", filter.Author)
		}
		if page.Cursor != "" {
			c, err := decodeCursor(page.Cursor)
			if err != nil {
				return err
			}
			q = q.Where("(remote_updated_at < ? OR (remote_updated_at = ? AND id > ?))", c.T, c.T, c.ID)
		}
		return q.Order("remote_updated_at DESC").Order("id ASC").Limit(limit + 1).Find(&models).Error
	})
	if err != nil {
		return nil, "", err
	}

	var next string
	if len(models) > limit {
		models = models[:limit]
		last := models[limit-1]
		next = encodeCursor(last.RemoteUpdatedAt, last.ID)
	}

	prs := make([]domain.CachedPullRequest, 0, len(models))
	for _, m := range models {
		prs = append(prs, pullRequestModelToDomain(m))
	}
	return prs, next, nil
}

// Delete removes the pull request together with its comments
func (r *pullRequestRepository) Delete(ctx context.Context, account, id string) error {
	return r.conn.write(ctx, "PullRequestRepo.delete", func(tx *gorm.DB) error {
		if err := tx.Where("account = ? AND pull_request_id = ?", account, id).Delete(&CommentModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}

		result := tx.Where("account = ? AND id = ?", account, id).Delete(&PullRequestModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		return deleteOrphanComments(tx, account).Error
	})
}

// Search ranks cached pull requests matching every query term.
// Title matches rank first, then author, description, status, then matches spread
// across fields. Ties go to the most recently synced, then to the smaller id.
// SQLite LIKE folds case for ASCII only, so terms with other letters skip the
// SQL prefilter and are matched in Go.
func (r *pullRequestRepository) Search(ctx context.Context, account, query string, limit int) (domain.SearchResult, error) {
	result := domain.SearchResult{Query: query, Hits: []domain.SearchHit{}}
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return result, nil
	}
	limit = domain.PageRequest{Limit: limit}.EffectiveLimit()

	var models []PullRequestModel
	err := r.conn.read(ctx, "PullRequestRepo.search", func(db *gorm.DB) error {
		q := db.Model(&PullRequestModel{})
		if account != "" {
			q = q.Where("account = ?", account)
		}
		for _, term := range terms {
			if !isASCII(term) {
				continue
			}
			pattern := "%" + escapeLike(term) + "%"
			q = q.Where(`(title LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR status LIKE ? ESCAPE '\')`,
				pattern, pattern, pattern, pattern)
		}
		return q.Find(&models).Error
	})
	if err != nil {
		return result, err
	}

	phrase := strings.Join(terms, " ")
	for _, m := range models {
		pr := pullRequestModelToDomain(m)
		field, ok := rankMatch(pr, phrase, terms)
		if !ok {
			continue
		}
		result.Hits = append(result.Hits, domain.SearchHit{Field: field, PullRequest: pr})
	}

	sort.SliceStable(result.Hits, func(i, j int) bool {
		a, b := result.Hits[i], result.Hits[j]
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		if !a.PullRequest.LastSyncedAt.Equal(b.PullRequest.LastSyncedAt) {
			return a.PullRequest.LastSyncedAt.After(b.PullRequest.LastSyncedAt)
		}
		return a.PullRequest.ID < b.PullRequest.ID
	})

	if len(result.Hits) > limit {
		result.Hits = result.Hits[:limit]
	}
	return result, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// rankMatch returns the best single field holding the phrase or all terms.
// MatchMixed means the terms only match across several fields.
func rankMatch(pr domain.CachedPullRequest, phrase string, terms []string) (domain.SearchField, bool) {
	fields := []struct {
		field domain.SearchField
		value string
	}{
		{domain.MatchTitle, pr.Title},
		{domain.MatchAuthor, pr.Author},
		{domain.MatchDescription, pr.Description},
		{domain.MatchStatus, string(pr.Status)},
	}

	for _, f := range fields {
		value := strings.ToLower(f.value)
		if strings.Contains(value, phrase) || containsAll(value, terms) {
			return f.field, true
		}
	}

	for _, term := range terms {
		found := false
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f.value), term) {
				found = true
				break
			}
		}
		if !found {
			return domain.MatchMixed, false
		}
	}
	return domain.MatchMixed, true
}

func containsAll(value string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(value, term) {
			return false
		}
	}
	return true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
