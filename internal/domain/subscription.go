package domain

import "time"

// Subscription records that an account follows a pull request
type Subscription struct {
	Account       string    `json:"account"`
	CreatedAt     time.Time `json:"created_at"`
	PullRequestID string    `json:"pull_request_id"`
}
