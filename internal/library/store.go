// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists extraction results and builds a full-text
// retrieval index over highlight text.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/highlight-extractor/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "library.db"
)

// Store manages the highlight library SQLite database.
type Store struct {
	db         *sql.DB
	libraryDir string
	maxResults int
}

// NewStore opens or creates the library database at
// libraryDir/index/library.db, creating the schema if needed.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.LibraryDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		libraryDir: cfg.LibraryDir,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source_file TEXT,
			source_path TEXT,
			extraction_date TEXT,
			total_pages INTEGER,
			total_highlights INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS highlights (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			document_id TEXT NOT NULL REFERENCES documents(id),
			page INTEGER,
			text TEXT NOT NULL,
			color TEXT,
			color_name TEXT,
			rect TEXT,
			author TEXT,
			created TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_highlights_document_id ON highlights(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_highlights_color_name ON highlights(color_name)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			document_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='highlights_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE highlights_fts USING fts5(text, content=highlights, content_rowid=rowid)`,
			`CREATE TRIGGER highlights_ai AFTER INSERT ON highlights BEGIN
				INSERT INTO highlights_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
			`CREATE TRIGGER highlights_ad AFTER DELETE ON highlights BEGIN
				INSERT INTO highlights_fts(highlights_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			END`,
			`CREATE TRIGGER highlights_au AFTER UPDATE ON highlights BEGIN
				INSERT INTO highlights_fts(highlights_fts, rowid, text) VALUES('delete', old.rowid, old.text);
				INSERT INTO highlights_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a library indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of result files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads extraction-result JSON files and populates the database.
// Unchanged files are skipped based on modification time; changed files
// replace their previous highlights. On success it refreshes export.yaml.
func (s *Store) Ingest(ctx context.Context, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		docID := documentID(path)

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE document_id = ?`, docID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", docID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		var result types.ExtractionResult
		if err := json.Unmarshal(data, &result); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", docID, err)
			summary.Failed++
			continue
		}

		if err := s.ingestResult(ctx, docID, &result, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d highlights)\n", docID, len(result.Highlights))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d highlights)\n", docID, len(result.Highlights))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestResult(ctx context.Context, docID string, result *types.ExtractionResult, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Remove old highlights if updating.
	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM highlights WHERE document_id = ?`, docID); err != nil {
			return fmt.Errorf("deleting old highlights: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, source_file, source_path, extraction_date, total_pages, total_highlights)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source_file=excluded.source_file, source_path=excluded.source_path,
			extraction_date=excluded.extraction_date, total_pages=excluded.total_pages,
			total_highlights=excluded.total_highlights`,
		docID, result.SourceFile, result.SourcePath, result.ExtractionDate,
		result.TotalPages, result.TotalHighlights,
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO highlights (id, document_id, page, text, color, color_name, rect, author, created)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, hl := range result.Highlights {
		colorJSON, _ := json.Marshal(hl.Color)
		rectJSON, _ := json.Marshal(hl.Rect)
		id := fmt.Sprintf("%s-%04d", docID, i)
		_, err := stmt.ExecContext(ctx,
			id, docID, hl.Page, hl.Text,
			string(colorJSON), hl.ColorName, string(rectJSON),
			hl.Author, hl.Created,
		)
		if err != nil {
			return fmt.Errorf("inserting highlight %s: %w", id, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (document_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(document_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		docID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// documentID derives the library key for a result file from its base
// name without the extension.
func documentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
