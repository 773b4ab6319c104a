package types

import (
	"encoding/json"
	"errors"
	"time"
)

// CachedResponse is a JSON response body stored under the URL it was
// fetched from.
type CachedResponse struct {
	ResponseID string          `json:"response_id"` // UUID v7, generated on first save.
	URL        string          `json:"url"`
	Body       json.RawMessage `json:"body"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

// Expired reports whether the response is older than ttl at now. A
// non-positive ttl never expires.
func (r *CachedResponse) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(r.FetchedAt) > ttl
}

// ResponseStore persists fetched JSON responses keyed by URL. Callers attach
// to a backend, load and save responses, and detach when done.
type ResponseStore interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, other operations return ErrStoreDetached.
	Detach() error

	// Load returns the response stored for url.
	// Returns ErrNotFound if nothing is stored for url.
	Load(url string) (*CachedResponse, error)

	// Save stores body for url, replacing any previous response and
	// stamping FetchedAt with the current time.
	Save(url string, body []byte) (*CachedResponse, error)

	// Delete removes the response stored for url.
	// Returns ErrNotFound if nothing is stored for url.
	Delete(url string) error

	// List returns every stored response ordered by URL.
	List() ([]*CachedResponse, error)

	// Clear removes every stored response and returns how many were removed.
	Clear() (int, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Store operation errors.
var (
	ErrNotFound    = errors.New("response not found")
	ErrInvalidURL  = errors.New("invalid response URL")
	ErrInvalidBody = errors.New("response body is not valid JSON")
)
