package sqlite

import "encoding/json"

// responseJSON is one line of responses.jsonl. Body is embedded as raw JSON
// rather than an escaped string so the file stays readable.
type responseJSON struct {
	ResponseID string          `json:"response_id"`
	URL        string          `json:"url"`
	Body       json.RawMessage `json:"body"`
	FetchedAt  string          `json:"fetched_at"`
}
