package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"batepapo/internal/store"
)

// DocStore implements store.Store over a single SQLite table of JSON bodies.
// Insertion order is preserved through the AUTOINCREMENT seq column.
type DocStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	collection TEXT NOT NULL,
	body       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, seq);
`

// New creates a document store backed by the SQLite file at dbPath.
// Use ":memory:" for an ephemeral store in tests.
func New(dbPath string) (*DocStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &DocStore{db: db}, nil
}

// Close closes the database connection.
func (s *DocStore) Close() error {
	return s.db.Close()
}

// Insert stores doc in the named collection and returns the assigned id.
func (s *DocStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	id := uuid.NewString()
	query := `INSERT INTO documents (id, collection, body) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, id, collection, string(body)); err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}

	return id, nil
}

// FindAll returns every document matching filter, in insertion order.
func (s *DocStore) FindAll(ctx context.Context, collection string, filter store.Filter) ([]store.Document, error) {
	where, args := buildWhere(collection, filter)
	query := `SELECT id, body FROM documents WHERE ` + where + ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []store.Document
	for rows.Next() {
		var doc store.Document
		var body string
		if err := rows.Scan(&doc.ID, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.Body = []byte(body)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// FindOne returns the oldest document matching filter.
func (s *DocStore) FindOne(ctx context.Context, collection string, filter store.Filter) (*store.Document, error) {
	where, args := buildWhere(collection, filter)
	query := `SELECT id, body FROM documents WHERE ` + where + ` ORDER BY seq ASC LIMIT 1`

	var doc store.Document
	var body string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&doc.ID, &body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoDocument
		}
		return nil, fmt.Errorf("query document: %w", err)
	}
	doc.Body = []byte(body)

	return &doc, nil
}

// UpdateOne applies patch to the oldest document matching filter. The body
// is merged at the top level: patched fields overwrite, others survive.
func (s *DocStore) UpdateOne(ctx context.Context, collection string, filter store.Filter, patch store.Patch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	where, args := buildWhere(collection, filter)
	query := `SELECT seq, body FROM documents WHERE ` + where + ` ORDER BY seq ASC LIMIT 1`

	var seq int64
	var body string
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&seq, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNoDocument
		}
		return fmt.Errorf("query document: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	for k, v := range patch {
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE documents SET body = ? WHERE seq = ?`, string(merged), seq); err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

// DeleteOne removes the oldest document matching filter.
func (s *DocStore) DeleteOne(ctx context.Context, collection string, filter store.Filter) error {
	where, args := buildWhere(collection, filter)
	query := `
		DELETE FROM documents WHERE seq IN (
			SELECT seq FROM documents WHERE ` + where + ` ORDER BY seq ASC LIMIT 1
		)`

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNoDocument
	}
	return nil
}

// buildWhere renders a filter as a WHERE clause with placeholder args.
// Keys are sorted so generated SQL is deterministic.
func buildWhere(collection string, filter store.Filter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("collection = ?")
	args := []any{collection}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == "id" {
			sb.WriteString(" AND id = ?")
			args = append(args, filter[k])
			continue
		}
		sb.WriteString(" AND json_extract(body, ?) = ?")
		args = append(args, "$."+k, filter[k])
	}

	return sb.String(), args
}
