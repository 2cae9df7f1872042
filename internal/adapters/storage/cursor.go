package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/renato0307/prcache/internal/domain"
)

// pageCursor is the last row of a page: its sort key and tie-breaking id
type pageCursor struct {
	ID string    `json:"id"`
	T  time.Time `json:"t"`
}

func encodeCursor(t time.Time, id string) string {
	data, _ := json.Marshal(pageCursor{ID: id, T: t.UTC()})
	return base64.RawURLEncoding.EncodeToString(data)
}

func decodeCursor(s string) (pageCursor, error) {
	var c pageCursor
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("%w: %v", domain.ErrInvalidCursor, err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("%w: %v", domain.ErrInvalidCursor, err)
	}
	if c.ID == "" {
		return c, fmt.Errorf("%w: missing id", domain.ErrInvalidCursor)
	}
	c.T = c.T.UTC()
	return c, nil
}
