package storage

import "time"

// PullRequestModel is the GORM model for the pull_requests table
type PullRequestModel struct {
	Account         string    `gorm:"primaryKey"`
	Author          string    `gorm:"not null"`
	Description     string    `gorm:"not null"`
	ID              string    `gorm:"primaryKey"`
	LastSyncedAt    time.Time `gorm:"not null;index:idx_pull_requests_synced"`
	Number          int       `gorm:"not null"`
	RemoteUpdatedAt time.Time `gorm:"not null"`
	Revision        string    `gorm:"not null"`
	SourceRef       string    `gorm:"not null"`
	Status          string    `gorm:"not null;check:status IN ('open','closed','merged','draft')"`
	TargetRef       string    `gorm:"not null"`
	Title           string    `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (PullRequestModel) TableName() string { return "pull_requests" }

// CommentModel is the GORM model for the comments table
type CommentModel struct {
	Account         string `gorm:"primaryKey"`
	Author          string `gorm:"not null"`
	Body            string `gorm:"not null"`
	ContentHash     string `gorm:"not null"`
	ID              string `gorm:"primaryKey"`
	Line            *int
	Path            *string
	PullRequestID   string    `gorm:"not null;index:idx_comments_pull_request"`
	RemoteCreatedAt time.Time `gorm:"not null"`
	RemoteUpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (CommentModel) TableName() string { return "comments" }

// NotificationModel is the GORM model for the notifications table
type NotificationModel struct {
	Account       string    `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime:false"`
	EntityID      string    `gorm:"not null"`
	EntityKind    string    `gorm:"not null"`
	ID            string    `gorm:"primaryKey"`
	IsRead        bool      `gorm:"not null"`
	Kind          string    `gorm:"not null;check:kind IN ('new-comment','status-change','mention')"`
	PullRequestID string    `gorm:"not null"`
	ReadAt        *time.Time
	Summary       string `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (NotificationModel) TableName() string { return "notifications" }

// SubscriptionModel is the GORM model for the subscriptions table
type SubscriptionModel struct {
	Account       string    `gorm:"primaryKey"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime:false"`
	PullRequestID string    `gorm:"primaryKey"`
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string { return "subscriptions" }

// SyncMetadataModel is the GORM model for the sync_metadata table
type SyncMetadataModel struct {
	Cursor       string    `gorm:"not null"`
	LastSyncedAt time.Time `gorm:"not null"`
	Scope        string    `gorm:"primaryKey"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the table name for GORM
func (SyncMetadataModel) TableName() string { return "sync_metadata" }

// SchemaMigrationModel records one applied migration
type SchemaMigrationModel struct {
	AppliedAt time.Time `gorm:"not null"`
	Name      string    `gorm:"not null"`
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
}

// TableName specifies the table name for GORM
func (SchemaMigrationModel) TableName() string { return "schema_migrations" }
