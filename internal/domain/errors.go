package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidCursor  = errors.New("invalid cursor")
	ErrNotFound       = errors.New("not found")
	ErrRemoteNotFound = errors.New("remote entity not found")
	ErrStaleSync      = errors.New("sync timestamp is earlier than the recorded one")
)

// ErrorKind classifies cache failures
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnection
	KindMigration
	KindCache
	KindNotFound
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindMigration:
		return "migration"
	case KindCache:
		return "cache"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ConnectionError means the store file could not be opened or is not a database
type ConnectionError struct {
	Err  error
	Path string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot open cache at %s: %v", e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// CacheError is returned by every store and repository operation that fails
type CacheError struct {
	Err error
	Op  string
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// Timeout reports whether the operation ran out of time
func (e *CacheError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// MigrationError names the schema version that failed to apply.
// It also matches errors.As with a **CacheError target.
type MigrationError struct {
	Err     error
	Name    string
	Version int
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %d (%s) failed: %v", e.Version, e.Name, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

func (e *MigrationError) As(target any) bool {
	if t, ok := target.(**CacheError); ok {
		*t = &CacheError{Op: fmt.Sprintf("Store.migrate(v%d)", e.Version), Err: e.Err}
		return true
	}
	return false
}

// NewCacheError wraps err for op. Nil, not-found and already-typed errors pass through.
func NewCacheError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var cacheErr *CacheError
	if errors.As(err, &cacheErr) {
		return err
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return err
	}
	return &CacheError{Op: op, Err: err}
}

// KindOf returns the taxonomy bucket for err
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var migErr *MigrationError
	var connErr *ConnectionError
	var cacheErr *CacheError

	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.As(err, &migErr):
		return KindMigration
	case errors.As(err, &connErr):
		return KindConnection
	case errors.As(err, &cacheErr):
		return KindCache
	default:
		return KindUnknown
	}
}
