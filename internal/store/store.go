// Package store provides SQLite-backed persistence for documentation gap
// reports and scan run history.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/julianshen/helpgen/internal/knowledge"
)

// ScanRecord is one completed scan run.
type ScanRecord struct {
	ID        string
	Framework string
	FileCount int
	Features  int
	RanAt     time.Time
}

// Store wraps a SQLite database for gap intake and scan history.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) a SQLite database at dbPath and ensures
// all required tables exist. Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS gaps (
			id            TEXT PRIMARY KEY,
			question      TEXT NOT NULL UNIQUE,
			frequency     INTEGER NOT NULL DEFAULT 1,
			created_at    DATETIME NOT NULL,
			last_asked_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scan_history (
			id         TEXT PRIMARY KEY,
			framework  TEXT NOT NULL,
			file_count INTEGER NOT NULL,
			features   INTEGER NOT NULL,
			ran_at     DATETIME NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// RecordGap records a user question with no covering topic. An exact-match
// duplicate bumps the frequency and last-asked timestamp instead of
// inserting a new row.
func (s *Store) RecordGap(question string, askedAt time.Time) (knowledge.Gap, error) {
	var gap knowledge.Gap
	err := s.db.QueryRow(
		`SELECT id, question, frequency, created_at, last_asked_at FROM gaps WHERE question = ?`,
		question,
	).Scan(&gap.ID, &gap.Question, &gap.Frequency, &gap.CreatedAt, &gap.LastAskedAt)
	switch {
	case err == sql.ErrNoRows:
		gap = knowledge.Gap{
			ID:          uuid.NewString(),
			Question:    question,
			Frequency:   1,
			CreatedAt:   askedAt,
			LastAskedAt: askedAt,
		}
		_, err = s.db.Exec(
			`INSERT INTO gaps (id, question, frequency, created_at, last_asked_at) VALUES (?, ?, ?, ?, ?)`,
			gap.ID, gap.Question, gap.Frequency, gap.CreatedAt, gap.LastAskedAt,
		)
		if err != nil {
			return knowledge.Gap{}, fmt.Errorf("insert gap: %w", err)
		}
		return gap, nil
	case err != nil:
		return knowledge.Gap{}, fmt.Errorf("query gap: %w", err)
	}

	gap.Frequency++
	gap.LastAskedAt = askedAt
	_, err = s.db.Exec(
		`UPDATE gaps SET frequency = ?, last_asked_at = ? WHERE id = ?`,
		gap.Frequency, gap.LastAskedAt, gap.ID,
	)
	if err != nil {
		return knowledge.Gap{}, fmt.Errorf("update gap: %w", err)
	}
	return gap, nil
}

// ListGaps returns all gaps ordered by frequency descending, then most
// recently asked first.
func (s *Store) ListGaps() ([]knowledge.Gap, error) {
	rows, err := s.db.Query(
		`SELECT id, question, frequency, created_at, last_asked_at
		 FROM gaps ORDER BY frequency DESC, last_asked_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query gaps: %w", err)
	}
	defer rows.Close()

	var gaps []knowledge.Gap
	for rows.Next() {
		var g knowledge.Gap
		if err := rows.Scan(&g.ID, &g.Question, &g.Frequency, &g.CreatedAt, &g.LastAskedAt); err != nil {
			return nil, fmt.Errorf("scan gap: %w", err)
		}
		gaps = append(gaps, g)
	}
	return gaps, rows.Err()
}

// ResolveGap deletes a gap once its question is covered by documentation.
func (s *Store) ResolveGap(id string) error {
	res, err := s.db.Exec(`DELETE FROM gaps WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete gap: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete gap: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("gap %s not found", id)
	}
	return nil
}

// RecordScan appends a scan run to the history.
func (s *Store) RecordScan(rec ScanRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO scan_history (id, framework, file_count, features, ran_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Framework, rec.FileCount, rec.Features, rec.RanAt,
	)
	if err != nil {
		return fmt.Errorf("record scan: %w", err)
	}
	return nil
}

// RecentScans returns up to limit scan records, newest first.
func (s *Store) RecentScans(limit int) ([]ScanRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, framework, file_count, features, ran_at
		 FROM scan_history ORDER BY ran_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query scan history: %w", err)
	}
	defer rows.Close()

	var recs []ScanRecord
	for rows.Next() {
		var r ScanRecord
		if err := rows.Scan(&r.ID, &r.Framework, &r.FileCount, &r.Features, &r.RanAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
