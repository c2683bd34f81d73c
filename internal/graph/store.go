// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citegraph/pkg/types"
)

// Store persists a citation graph in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the SQLite database at path and creates the
// schema if it does not exist.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
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
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			abstract TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			citing_id TEXT NOT NULL REFERENCES papers(id),
			cited_id TEXT NOT NULL REFERENCES papers(id),
			PRIMARY KEY (citing_id, cited_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_cited ON citations(cited_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save replaces the stored graph with corpus in one transaction. Papers and
// citations missing from corpus are removed. All papers are written before
// any citation so that the foreign keys hold.
func (s *Store) Save(ctx context.Context, corpus types.Corpus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM citations`); err != nil {
		return fmt.Errorf("clearing citations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM papers`); err != nil {
		return fmt.Errorf("clearing papers: %w", err)
	}

	paperStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, abstract) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing paper insert: %w", err)
	}
	defer paperStmt.Close()

	ids := corpus.IDs()
	for _, id := range ids {
		rec := corpus[id]
		if _, err := paperStmt.ExecContext(ctx, id, rec.Title, rec.Abstract); err != nil {
			return fmt.Errorf("inserting paper %s: %w", id, err)
		}
	}

	citeStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO citations (citing_id, cited_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing citation insert: %w", err)
	}
	defer citeStmt.Close()

	for _, id := range ids {
		for _, ref := range corpus[id].SortedReferences() {
			if _, err := citeStmt.ExecContext(ctx, id, ref); err != nil {
				return fmt.Errorf("inserting citation %s -> %s: %w", id, ref, err)
			}
		}
	}

	return tx.Commit()
}

// Load reads the whole graph back into a corpus.
func (s *Store) Load(ctx context.Context) (types.Corpus, error) {
	corpus := make(types.Corpus)

	rows, err := s.db.QueryContext(ctx, `SELECT id, title, abstract FROM papers`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	for rows.Next() {
		var id, title, abstract string
		if err := rows.Scan(&id, &title, &abstract); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		corpus[id] = types.NewPaperRecord(id, title, abstract)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating papers: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT citing_id, cited_id FROM citations`)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var citing, cited string
		if err := rows.Scan(&citing, &cited); err != nil {
			return nil, fmt.Errorf("scanning citation: %w", err)
		}
		if rec := corpus[citing]; rec != nil {
			rec.AddReference(cited)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating citations: %w", err)
	}
	return corpus, nil
}

// References returns the ids cited by id, sorted.
func (s *Store) References(ctx context.Context, id types.PaperID) ([]types.PaperID, error) {
	return s.queryIDs(ctx,
		`SELECT cited_id FROM citations WHERE citing_id = ? ORDER BY cited_id`, id)
}

// CitedBy returns the ids of papers citing id, sorted.
func (s *Store) CitedBy(ctx context.Context, id types.PaperID) ([]types.PaperID, error) {
	return s.queryIDs(ctx,
		`SELECT citing_id FROM citations WHERE cited_id = ? ORDER BY citing_id`, id)
}

// Counts returns the number of stored papers and citations.
func (s *Store) Counts(ctx context.Context) (papers, citations int, err error) {
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&papers); err != nil {
		return 0, 0, fmt.Errorf("counting papers: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM citations`).Scan(&citations); err != nil {
		return 0, 0, fmt.Errorf("counting citations: %w", err)
	}
	return papers, citations, nil
}

func (s *Store) queryIDs(ctx context.Context, query string, arg any) ([]types.PaperID, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	var ids []types.PaperID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
