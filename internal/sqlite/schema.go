package sqlite

// Schema DDL for the response store.
const (
	createResponses = `CREATE TABLE responses (
    response_id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    body TEXT NOT NULL,
    fetched_at TEXT NOT NULL
);`
)

// Index DDL.
const (
	idxResponsesURL       = `CREATE UNIQUE INDEX idx_responses_url ON responses(url);`
	idxResponsesFetchedAt = `CREATE INDEX idx_responses_fetched_at ON responses(fetched_at);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createResponses,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxResponsesURL,
	idxResponsesFetchedAt,
}
