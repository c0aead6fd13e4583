// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for library queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over highlight text.
	Query string

	// ColorName filters by classified color name.
	ColorName string

	// Page filters by page number. Zero means no filter.
	Page int

	// Document filters by document id.
	Document string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.ColorName == "" && q.Page == 0 && q.Document == ""
}

// QueryResult is one stored highlight with its document context.
type QueryResult struct {
	ID         string    `json:"id" yaml:"id"`
	DocumentID string    `json:"document_id" yaml:"document_id"`
	SourceFile string    `json:"source_file" yaml:"source_file"`
	Page       int       `json:"page" yaml:"page"`
	Text       string    `json:"text" yaml:"text"`
	Color      []float64 `json:"color" yaml:"color"`
	ColorName  string    `json:"color_name" yaml:"color_name"`
	Author     *string   `json:"author" yaml:"author"`
	Created    *string   `json:"created" yaml:"created"`
}

// Retrieve queries the library with optional full-text search and
// structured filters. Results are ranked by relevance for full-text
// queries or sorted by document, page for structured-only queries.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT h.id, h.document_id, h.page, h.text, h.color, h.color_name,
				h.author, h.created, d.source_file, highlights_fts.rank
			FROM highlights_fts
			JOIN highlights h ON h.rowid = highlights_fts.rowid
			LEFT JOIN documents d ON h.document_id = d.id
			WHERE highlights_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT h.id, h.document_id, h.page, h.text, h.color, h.color_name,
				h.author, h.created, d.source_file, 0 AS rank
			FROM highlights h
			LEFT JOIN documents d ON h.document_id = d.id
			WHERE 1=1`)
	}

	if opts.ColorName != "" {
		qb.WriteString(` AND h.color_name = ? COLLATE NOCASE`)
		args = append(args, opts.ColorName)
	}

	if opts.Page != 0 {
		qb.WriteString(` AND h.page = ?`)
		args = append(args, opts.Page)
	}

	if opts.Document != "" {
		qb.WriteString(` AND h.document_id = ?`)
		args = append(args, opts.Document)
	}

	if useFTS {
		qb.WriteString(` ORDER BY highlights_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY h.document_id, h.page, h.rowid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr         QueryResult
			colorJSON  sql.NullString
			author     sql.NullString
			created    sql.NullString
			sourceFile sql.NullString
			rank       float64
		)

		if err := rows.Scan(
			&qr.ID, &qr.DocumentID, &qr.Page, &qr.Text, &colorJSON, &qr.ColorName,
			&author, &created, &sourceFile, &rank,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if colorJSON.Valid {
			json.Unmarshal([]byte(colorJSON.String), &qr.Color)
		}
		if author.Valid {
			qr.Author = &author.String
		}
		if created.Valid {
			qr.Created = &created.String
		}
		if sourceFile.Valid {
			qr.SourceFile = sourceFile.String
		}

		results = append(results, qr)
	}

	return results, rows.Err()
}
