package storage

import (
	"time"

	"github.com/renato0307/prcache/internal/domain"
)

// pullRequestModelToDomain converts a PullRequestModel (GORM) to domain.CachedPullRequest
func pullRequestModelToDomain(m PullRequestModel) domain.CachedPullRequest {
	return domain.CachedPullRequest{
		Account:         m.Account,
		Author:          m.Author,
		Description:     m.Description,
		ID:              m.ID,
		LastSyncedAt:    m.LastSyncedAt.UTC(),
		Number:          m.Number,
		RemoteUpdatedAt: m.RemoteUpdatedAt.UTC(),
		Revision:        m.Revision,
		SourceRef:       m.SourceRef,
		Status:          domain.PRStatus(m.Status),
		TargetRef:       m.TargetRef,
		Title:           m.Title,
	}
}

// domainToPullRequestModel converts domain.CachedPullRequest to PullRequestModel (GORM)
func domainToPullRequestModel(pr domain.CachedPullRequest) PullRequestModel {
	return PullRequestModel{
		Account:         pr.Account,
		Author:          pr.Author,
		Description:     pr.Description,
		ID:              pr.ID,
		LastSyncedAt:    pr.LastSyncedAt.UTC(),
		Number:          pr.Number,
		RemoteUpdatedAt: pr.RemoteUpdatedAt.UTC(),
		Revision:        pr.Revision,
		SourceRef:       pr.SourceRef,
		Status:          string(pr.Status),
		TargetRef:       pr.TargetRef,
		Title:           pr.Title,
	}
}

// commentModelToDomain converts a CommentModel (GORM) to domain.Comment
func commentModelToDomain(m CommentModel) domain.Comment {
	c := domain.Comment{
		Account:       m.Account,
		Author:        m.Author,
		Body:          m.Body,
		ContentHash:   m.ContentHash,
		CreatedAt:     m.RemoteCreatedAt.UTC(),
		ID:            m.ID,
		PullRequestID: m.PullRequestID,
		UpdatedAt:     m.RemoteUpdatedAt.UTC(),
	}
	if m.Path != nil {
		c.Position = &domain.CommentPosition{Path: *m.Path}
		if m.Line != nil {
			c.Position.Line = *m.Line
		}
	}
	return c
}

// domainToCommentModel converts domain.Comment to CommentModel (GORM), filling the content hash
func domainToCommentModel(c domain.Comment) CommentModel {
	m := CommentModel{
		Account:         c.Account,
		Author:          c.Author,
		Body:            c.Body,
		ContentHash:     c.Hash(),
		ID:              c.ID,
		PullRequestID:   c.PullRequestID,
		RemoteCreatedAt: c.CreatedAt.UTC(),
		RemoteUpdatedAt: c.UpdatedAt.UTC(),
	}
	if c.Position != nil {
		path := c.Position.Path
		line := c.Position.Line
		m.Path = &path
		m.Line = &line
	}
	return m
}

// notificationModelToDomain converts a NotificationModel (GORM) to domain.Notification
func notificationModelToDomain(m NotificationModel) domain.Notification {
	return domain.Notification{
		Account:   m.Account,
		CreatedAt: m.CreatedAt.UTC(),
		ID:        m.ID,
		Kind:      domain.NotificationKind(m.Kind),
		Read:      m.IsRead,
		ReadAt:    utcPtr(m.ReadAt),
		Ref: domain.EntityRef{
			Account:       m.Account,
			ID:            m.EntityID,
			Kind:          domain.EntityKind(m.EntityKind),
			PullRequestID: m.PullRequestID,
		},
		Summary: m.Summary,
	}
}

// domainToNotificationModel converts domain.Notification to NotificationModel (GORM)
func domainToNotificationModel(n domain.Notification) NotificationModel {
	return NotificationModel{
		Account:       n.Account,
		CreatedAt:     n.CreatedAt.UTC(),
		EntityID:      n.Ref.ID,
		EntityKind:    string(n.Ref.Kind),
		ID:            n.ID,
		IsRead:        n.Read,
		Kind:          string(n.Kind),
		PullRequestID: n.Ref.PullRequestID,
		ReadAt:        utcPtr(n.ReadAt),
		Summary:       n.Summary,
	}
}

// subscriptionModelToDomain converts a SubscriptionModel (GORM) to domain.Subscription
func subscriptionModelToDomain(m SubscriptionModel) domain.Subscription {
	return domain.Subscription{
		Account:       m.Account,
		CreatedAt:     m.CreatedAt.UTC(),
		PullRequestID: m.PullRequestID,
	}
}

// syncMetadataModelToDomain converts a SyncMetadataModel (GORM) to domain.SyncMetadata
func syncMetadataModelToDomain(m SyncMetadataModel) domain.SyncMetadata {
	return domain.SyncMetadata{
		Cursor:       m.Cursor,
		LastSyncedAt: m.LastSyncedAt.UTC(),
		Scope:        m.Scope,
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
