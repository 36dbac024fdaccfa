// Package store provides the document store the platform persists through.
//
// The core treats persistence as an opaque key-value/document collaborator:
// five operations (insert, find, find-one, update, delete) keyed by a
// collection name, over documents with a stable "id" field. Queries use
// typed filter descriptors rather than dynamic filter objects. Backends:
// in-memory (dev/tests), Postgres JSONB, and DynamoDB.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by FindOne when no document matches.
var ErrNotFound = errors.New("store: document not found")

// Known collection names.
const (
	CollectionPreferences   = "preferences"
	CollectionAnalyses      = "analyses"
	CollectionNotifications = "notifications"
)

// Op enumerates the supported filter operators.
type Op string

const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpContains Op = "contains" // case-insensitive substring on string fields
)

// Filter is a typed query descriptor: field, operator, value.
type Filter struct {
	Field string
	Op    Op
	Value interface{}
}

// Eq is shorthand for an equality filter.
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// DocumentStore is the persistence collaborator contract. Documents are
// marshaled to JSON; each must carry (or be assigned) a stable "id" field.
// No durability guarantee is assumed by callers: writes are best-effort
// from the core's perspective.
type DocumentStore interface {
	// Insert stores the document and returns its id. A document without an
	// "id" field is assigned one.
	Insert(ctx context.Context, collection string, doc interface{}) (string, error)

	// Find returns all documents matching every filter.
	Find(ctx context.Context, collection string, filters ...Filter) ([]json.RawMessage, error)

	// FindOne returns the first matching document or ErrNotFound.
	FindOne(ctx context.Context, collection string, filters ...Filter) (json.RawMessage, error)

	// Update replaces every matching document wholesale and returns the
	// number of documents replaced.
	Update(ctx context.Context, collection string, doc interface{}, filters ...Filter) (int, error)

	// Delete removes matching documents and returns the number removed.
	Delete(ctx context.Context, collection string, filters ...Filter) (int, error)

	// Close releases backend resources.
	Close() error
}

// toMap marshals a document into the generic form filters evaluate against.
func toMap(doc interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("document is not a JSON object: %w", err)
	}
	return m, nil
}

// documentID extracts the "id" field as a string, or "" when absent.
func documentID(m map[string]interface{}) string {
	if v, ok := m["id"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
