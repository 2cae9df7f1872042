package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

const commentHashDomain = "prcache/comment/v1"

// CommentPosition anchors a review comment to a file line
type CommentPosition struct {
	Line int    `json:"line"`
	Path string `json:"path"`
}

// Comment belongs to exactly one pull request
type Comment struct {
	Account       string           `json:"account"`
	Author        string           `json:"author"`
	Body          string           `json:"body"`
	ContentHash   string           `json:"content_hash"`
	CreatedAt     time.Time        `json:"created_at"`
	ID            string           `json:"id"`
	Position      *CommentPosition `json:"position,omitempty"`
	PullRequestID string           `json:"pull_request_id"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Hash returns the stored content hash, computing it when absent
func (c Comment) Hash() string {
	if c.ContentHash != "" {
		return c.ContentHash
	}
	return ComputeContentHash(c.Body, c.Position)
}

// ComputeContentHash hashes the comment body and anchor.
// Format: SHA256(domain 0x00 body 0x00 path 0x00 line)
func ComputeContentHash(body string, pos *CommentPosition) string {
	h := sha256.New()
	h.Write([]byte(commentHashDomain))
	h.Write([]byte{0x00})
	h.Write([]byte(body))
	h.Write([]byte{0x00})
	if pos != nil {
		h.Write([]byte(pos.Path))
		h.Write([]byte{0x00})
		h.Write([]byte(strconv.Itoa(pos.Line)))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CommentFilter narrows a comment listing
type CommentFilter struct {
	Account       string
	Author        string
	PullRequestID string
}
