package domain

import "time"

// SyncMetadata is the bookkeeping row for one sync scope
type SyncMetadata struct {
	Cursor       string    `json:"cursor"`
	LastSyncedAt time.Time `json:"last_synced_at"`
	Scope        string    `json:"scope"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccountScope returns the sync scope used for a whole account
func AccountScope(account string) string {
	return "account:" + account
}
