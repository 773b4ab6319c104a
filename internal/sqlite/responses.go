package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/orgscout/pkg/types"
)

// Load returns the response stored for url.
func (b *Backend) Load(url string) (*types.CachedResponse, error) {
	if url == "" {
		return nil, types.ErrInvalidURL
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	row := b.db.QueryRow(
		"SELECT response_id, url, body, fetched_at FROM responses WHERE url = ?",
		url,
	)
	resp, err := hydrateResponse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting response for %s: %w", url, err)
	}
	return resp, nil
}

// Save stores body for url. The first save of a url generates a UUID v7
// response ID; later saves keep it and replace body and fetch time.
func (b *Backend) Save(url string, body []byte) (*types.CachedResponse, error) {
	if url == "" {
		return nil, types.ErrInvalidURL
	}
	if !json.Valid(body) {
		return nil, types.ErrInvalidBody
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	newID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating UUID v7: %w", err)
	}
	fetchedAt := b.now().UTC().Format(time.RFC3339Nano)

	_, err = b.db.Exec(`INSERT INTO responses (response_id, url, body, fetched_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		newID.String(), url, string(body), fetchedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("persisting response: %w", err)
	}

	if err := persistResponsesJSONL(b.db, b.dataDir); err != nil {
		return nil, fmt.Errorf("persisting %s: %w", responsesFile, err)
	}

	row := b.db.QueryRow(
		"SELECT response_id, url, body, fetched_at FROM responses WHERE url = ?",
		url,
	)
	return hydrateResponse(row)
}

// Delete removes the response stored for url.
func (b *Backend) Delete(url string) error {
	if url == "" {
		return types.ErrInvalidURL
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	res, err := b.db.Exec("DELETE FROM responses WHERE url = ?", url)
	if err != nil {
		return fmt.Errorf("deleting response: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if err := persistResponsesJSONL(b.db, b.dataDir); err != nil {
		return fmt.Errorf("persisting %s: %w", responsesFile, err)
	}
	return nil
}

// List returns every stored response ordered by URL.
func (b *Backend) List() ([]*types.CachedResponse, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query("SELECT response_id, url, body, fetched_at FROM responses ORDER BY url")
	if err != nil {
		return nil, fmt.Errorf("querying responses: %w", err)
	}
	defer rows.Close()

	results := make([]*types.CachedResponse, 0)
	for rows.Next() {
		resp, err := hydrateResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating response: %w", err)
		}
		results = append(results, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating responses: %w", err)
	}
	return results, nil
}

// Clear removes every stored response and returns how many were removed.
func (b *Backend) Clear() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, types.ErrStoreDetached
	}

	res, err := b.db.Exec("DELETE FROM responses")
	if err != nil {
		return 0, fmt.Errorf("clearing responses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking clear result: %w", err)
	}

	if err := persistResponsesJSONL(b.db, b.dataDir); err != nil {
		return 0, fmt.Errorf("persisting %s: %w", responsesFile, err)
	}
	return int(n), nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateResponse converts a responses row into a *types.CachedResponse.
func hydrateResponse(row rowScanner) (*types.CachedResponse, error) {
	var (
		resp      types.CachedResponse
		body      string
		fetchedAt string
	)
	if err := row.Scan(&resp.ResponseID, &resp.URL, &body, &fetchedAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing fetched_at %q: %w", fetchedAt, err)
	}
	resp.Body = json.RawMessage(body)
	resp.FetchedAt = t
	return &resp, nil
}
