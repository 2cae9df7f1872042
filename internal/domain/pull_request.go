package domain

import "time"

// PRStatus is the lifecycle state of a pull request
type PRStatus string

const (
	StatusClosed PRStatus = "closed"
	StatusDraft  PRStatus = "draft"
	StatusMerged PRStatus = "merged"
	StatusOpen   PRStatus = "open"
)

// Valid reports whether s is a known status
func (s PRStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusDraft, StatusClosed, StatusMerged:
		return true
	}
	return false
}

// Terminal reports whether no further review activity is expected
func (s PRStatus) Terminal() bool {
	return s == StatusClosed || s == StatusMerged
}

// CachedPullRequest mirrors one remote pull request for an account
type CachedPullRequest struct {
	Account         string    `json:"account"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	ID              string    `json:"id"`
	LastSyncedAt    time.Time `json:"last_synced_at"`
	Number          int       `json:"number,omitempty"`
	RemoteUpdatedAt time.Time `json:"remote_updated_at"`
	Revision        string    `json:"revision"`
	SourceRef       string    `json:"source_ref"`
	Status          PRStatus  `json:"status"`
	TargetRef       string    `json:"target_ref"`
	Title           string    `json:"title"`
}

// PullRequestFilter narrows a pull request listing
type PullRequestFilter struct {
	Account string
	Author  string
	Status  PRStatus
}
