package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

const maxRetries = 3

// withRetry retries fn while SQLite reports the database busy or locked
func withRetry(ctx context.Context, fn func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond * time.Duration(50*(i+1))):
		}
	}
	return err
}

func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}
