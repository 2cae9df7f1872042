package domain

import "time"

// NotificationKind is the reason a notification was raised
type NotificationKind string

const (
	NotificationMention      NotificationKind = "mention"
	NotificationNewComment   NotificationKind = "new-comment"
	NotificationStatusChange NotificationKind = "status-change"
)

// Valid reports whether k is a known kind
func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationMention, NotificationNewComment, NotificationStatusChange:
		return true
	}
	return false
}

// Notification is a user-facing record derived from a detected change
type Notification struct {
	Account   string           `json:"account"`
	CreatedAt time.Time        `json:"created_at"`
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Read      bool             `json:"read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	Ref       EntityRef        `json:"ref"`
	Summary   string           `json:"summary"`
}

// NotificationFilter narrows a notification listing
type NotificationFilter struct {
	Account    string
	UnreadOnly bool
}

// PaginatedNotifications is one page of notifications plus the cursor for the next one
type PaginatedNotifications struct {
	Items      []Notification `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
