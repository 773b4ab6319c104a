package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"
)

// loadResponsesJSONL reads responses.jsonl from dataDir and inserts every
// record into the responses table. Loading is transactional: all succeed or
// the table stays empty. Malformed lines, records missing a URL or body, and
// records with an unparseable fetched_at are skipped. When the file holds
// the same URL twice the later line wins.
func loadResponsesJSONL(db *sql.DB, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, responsesFile))
	if err != nil {
		return fmt.Errorf("reading %s: %w", responsesFile, err)
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO responses (response_id, url, body, fetched_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET response_id = excluded.response_id, body = excluded.body, fetched_at = excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, raw := range records {
		var rec responseJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		if rec.ResponseID == "" || rec.URL == "" || len(rec.Body) == 0 {
			continue
		}
		if _, err := time.Parse(time.RFC3339Nano, rec.FetchedAt); err != nil {
			continue
		}
		if _, err := stmt.Exec(rec.ResponseID, rec.URL, string(rec.Body), rec.FetchedAt); err != nil {
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
