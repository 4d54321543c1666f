// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store records pipeline runs in a SQLite database. The database is
// an export target; the pipeline never reads queries back from it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-papers/pkg/types"
)

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS queries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			term TEXT NOT NULL,
			max_results INTEGER NOT NULL,
			run_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			query_id INTEGER NOT NULL REFERENCES queries(id),
			position INTEGER NOT NULL,
			pmid TEXT NOT NULL,
			title TEXT NOT NULL,
			pub_date TEXT NOT NULL,
			author TEXT NOT NULL,
			email TEXT NOT NULL,
			affiliations TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_query_id ON papers(query_id)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_pmid ON papers(pmid)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one run and its papers in a single transaction and returns
// the new query id.
func (s *Store) Record(ctx context.Context, term string, maxResults int, runAt time.Time, papers []types.Paper) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO queries (term, max_results, run_at) VALUES (?, ?, ?)`,
		term, maxResults, runAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting query: %w", err)
	}
	queryID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading query id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (query_id, position, pmid, title, pub_date, author, email, affiliations)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing paper insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		if _, err := stmt.ExecContext(ctx, queryID, i,
			p.PubmedID, p.Title, p.PublicationDate, p.NonAcademicAuthor, p.CorrespondingEmail, p.Affiliations,
		); err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", p.PubmedID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return queryID, nil
}

// Papers returns the rows recorded for queryID in their original order.
func (s *Store) Papers(ctx context.Context, queryID int64) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pmid, title, pub_date, author, email, affiliations
		 FROM papers WHERE query_id = ? ORDER BY position`, queryID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	papers := []types.Paper{}
	for rows.Next() {
		var p types.Paper
		if err := rows.Scan(&p.PubmedID, &p.Title, &p.PublicationDate,
			&p.NonAcademicAuthor, &p.CorrespondingEmail, &p.Affiliations); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// QueryCount returns the number of recorded runs.
func (s *Store) QueryCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM queries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting queries: %w", err)
	}
	return n, nil
}
