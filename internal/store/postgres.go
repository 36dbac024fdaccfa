package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // postgres driver
)

// PostgresStore is a DocumentStore backed by a single JSONB table. Filters
// compile to parameterized JSONB expressions; field names are passed as
// bind parameters, never interpolated.
type PostgresStore struct {
	db *sql.DB
}

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS glow_documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	doc        JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
)`

// NewPostgresStore opens the database and ensures the documents table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createDocumentsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreWithDB wraps an existing connection. Used in tests.
func NewPostgresStoreWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert stores the document, assigning an id when missing.
func (s *PostgresStore) Insert(ctx context.Context, collection string, doc interface{}) (string, error) {
	m, err := toMap(doc)
	if err != nil {
		return "", err
	}
	id := documentID(m)
	if id == "" {
		id = uuid.New().String()
		m["id"] = id
	}

	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshaling document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO glow_documents (collection, id, doc)
		VALUES ($1, $2, $3)
	`, collection, id, data)
	if err != nil {
		return "", fmt.Errorf("inserting document: %w", err)
	}
	return id, nil
}

// Find returns all documents matching every filter, oldest first.
func (s *PostgresStore) Find(ctx context.Context, collection string, filters ...Filter) ([]json.RawMessage, error) {
	where, args, err := buildWhere(collection, filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT doc FROM glow_documents
		WHERE `+where+`
		ORDER BY created_at ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	results := []json.RawMessage{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		results = append(results, json.RawMessage(data))
	}
	return results, rows.Err()
}

// FindOne returns the first matching document or ErrNotFound.
func (s *PostgresStore) FindOne(ctx context.Context, collection string, filters ...Filter) (json.RawMessage, error) {
	where, args, err := buildWhere(collection, filters)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = s.db.QueryRowContext(ctx, `
		SELECT doc FROM glow_documents
		WHERE `+where+`
		ORDER BY created_at ASC
		LIMIT 1
	`, args...).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}
	return json.RawMessage(data), nil
}

// Update replaces matching documents wholesale, preserving each row's id.
func (s *PostgresStore) Update(ctx context.Context, collection string, doc interface{}, filters ...Filter) (int, error) {
	m, err := toMap(doc)
	if err != nil {
		return 0, err
	}
	delete(m, "id") // the row keeps its stable id

	data, err := json.Marshal(m)
	if err != nil {
		return 0, fmt.Errorf("marshaling document: %w", err)
	}

	where, args, err := buildWhere(collection, filters)
	if err != nil {
		return 0, err
	}
	args = append(args, data)

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE glow_documents
		SET doc = $%d::jsonb || jsonb_build_object('id', id), updated_at = NOW()
		WHERE `, len(args))+where, args...)
	if err != nil {
		return 0, fmt.Errorf("updating documents: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Delete removes matching documents.
func (s *PostgresStore) Delete(ctx context.Context, collection string, filters ...Filter) (int, error) {
	where, args, err := buildWhere(collection, filters)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM glow_documents
		WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting documents: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error { return s.db.Close() }

// buildWhere compiles filters into a WHERE clause. Every value, including
// the JSONB field name, is a bind parameter.
func buildWhere(collection string, filters []Filter) (string, []interface{}, error) {
	clauses := []string{"collection = $1"}
	args := []interface{}{collection}

	for _, f := range filters {
		fieldArg := len(args) + 1
		valueArg := len(args) + 2

		switch f.Op {
		case OpEq, OpNe:
			op := "="
			if f.Op == OpNe {
				op = "<>"
			}
			switch f.Value.(type) {
			case bool:
				clauses = append(clauses, fmt.Sprintf("(doc->>$%d)::boolean %s $%d", fieldArg, op, valueArg))
			case float64, float32, int, int32, int64:
				clauses = append(clauses, fmt.Sprintf("(doc->>$%d)::numeric %s $%d", fieldArg, op, valueArg))
			default:
				clauses = append(clauses, fmt.Sprintf("doc->>$%d %s $%d", fieldArg, op, valueArg))
			}
		case OpContains:
			clauses = append(clauses, fmt.Sprintf("doc->>$%d ILIKE '%%' || $%d || '%%'", fieldArg, valueArg))
		case OpLt, OpLte, OpGt, OpGte:
			op := map[Op]string{OpLt: "<", OpLte: "<=", OpGt: ">", OpGte: ">="}[f.Op]
			clauses = append(clauses, fmt.Sprintf("(doc->>$%d)::numeric %s $%d", fieldArg, op, valueArg))
		default:
			return "", nil, fmt.Errorf("unsupported filter op %q", f.Op)
		}
		args = append(args, f.Field, f.Value)
	}

	return strings.Join(clauses, " AND "), args, nil
}
