// Package store persists test summary snapshots to SQLite so authors can
// see how a document's battery trended across editing sessions. Summaries
// are immutable once written; each run appends a new row.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"dosedoc/internal/logging"
	"dosedoc/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS summaries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	document TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	total_sections INTEGER NOT NULL,
	sections_with_tests INTEGER NOT NULL,
	total_tests INTEGER NOT NULL,
	passed_tests INTEGER NOT NULL,
	failed_tests INTEGER NOT NULL,
	detail TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_summaries_document ON summaries(document, created_at);
`

// SummaryStore is a summary history handle. Safe for concurrent use.
type SummaryStore struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*SummaryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open summary store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init summary store schema: %w", err)
	}
	logging.Get(logging.CategoryStore).Debug("summary store opened")
	return &SummaryStore{db: db}, nil
}

// SaveSummary appends one snapshot for the named document. Per-section
// results travel as a JSON blob; the headline counters get columns so
// history queries never need to decode the detail.
func (s *SummaryStore) SaveSummary(document string, sum *types.TestSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	detail, err := json.Marshal(sum.SectionResults)
	if err != nil {
		return fmt.Errorf("encode section results: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO summaries
		(document, created_at, total_sections, sections_with_tests, total_tests, passed_tests, failed_tests, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		document, sum.Timestamp, sum.TotalSections, sum.SectionsWithTests,
		sum.TotalTests, sum.PassedTests, sum.FailedTests, string(detail))
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

// ListSummaries returns up to limit snapshots for a document, newest first.
func (s *SummaryStore) ListSummaries(document string, limit int) ([]*types.TestSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT created_at, total_sections, sections_with_tests, total_tests, passed_tests, failed_tests, detail
		FROM summaries WHERE document = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		document, limit)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var out []*types.TestSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// LatestSummary returns the newest snapshot for a document, or nil when the
// document has never been run.
func (s *SummaryStore) LatestSummary(document string) (*types.TestSummary, error) {
	sums, err := s.ListSummaries(document, 1)
	if err != nil || len(sums) == 0 {
		return nil, err
	}
	return sums[0], nil
}

// Close releases the database handle.
func (s *SummaryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func scanSummary(rows *sql.Rows) (*types.TestSummary, error) {
	var (
		sum    types.TestSummary
		ts     time.Time
		detail string
	)
	err := rows.Scan(&ts, &sum.TotalSections, &sum.SectionsWithTests,
		&sum.TotalTests, &sum.PassedTests, &sum.FailedTests, &detail)
	if err != nil {
		return nil, fmt.Errorf("scan summary: %w", err)
	}
	sum.Timestamp = ts
	if err := json.Unmarshal([]byte(detail), &sum.SectionResults); err != nil {
		return nil, fmt.Errorf("decode section results: %w", err)
	}
	return &sum, nil
}
