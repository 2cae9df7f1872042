package domain

// ChangeKind classifies a RepoChange
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)

// EntityKind names the cached entity a change refers to
type EntityKind string

const (
	EntityComment      EntityKind = "comment"
	EntityNotification EntityKind = "notification"
	EntityPullRequest  EntityKind = "pull_request"
	EntitySubscription EntityKind = "subscription"
)

// EntityRef points at a cached entity
type EntityRef struct {
	Account       string     `json:"account"`
	ID            string     `json:"id"`
	Kind          EntityKind `json:"kind"`
	PullRequestID string     `json:"pull_request_id,omitempty"`
}

// RepoChange is an ephemeral event describing one diff result. It is never persisted.
type RepoChange struct {
	Fields  []string   `json:"fields,omitempty"`
	Kind    ChangeKind `json:"kind"`
	Ref     EntityRef  `json:"ref"`
	Summary string     `json:"summary"`
}
