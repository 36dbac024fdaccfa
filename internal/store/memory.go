package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory DocumentStore used in development and tests.
// Documents survive only for the life of the process.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]map[string]interface{}
}

// NewMemoryStore creates an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]map[string]interface{}),
	}
}

// Insert stores the document, assigning an id when missing.
func (s *MemoryStore) Insert(ctx context.Context, collection string, doc interface{}) (string, error) {
	m, err := toMap(doc)
	if err != nil {
		return "", err
	}

	id := documentID(m)
	if id == "" {
		id = uuid.New().String()
		m["id"] = id
	}

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], m)
	s.mu.Unlock()
	return id, nil
}

// Find returns all documents matching every filter, in insertion order.
func (s *MemoryStore) Find(ctx context.Context, collection string, filters ...Filter) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []json.RawMessage{}
	for _, doc := range s.collections[collection] {
		if matches(doc, filters) {
			data, err := json.Marshal(doc)
			if err != nil {
				return nil, err
			}
			results = append(results, data)
		}
	}
	return results, nil
}

// FindOne returns the first matching document or ErrNotFound.
func (s *MemoryStore) FindOne(ctx context.Context, collection string, filters ...Filter) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.collections[collection] {
		if matches(doc, filters) {
			return json.Marshal(doc)
		}
	}
	return nil, ErrNotFound
}

// Update replaces every matching document wholesale.
func (s *MemoryStore) Update(ctx context.Context, collection string, doc interface{}, filters ...Filter) (int, error) {
	replacement, err := toMap(doc)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	docs := s.collections[collection]
	for i, existing := range docs {
		if matches(existing, filters) {
			clone := make(map[string]interface{}, len(replacement)+1)
			for k, v := range replacement {
				clone[k] = v
			}
			// Keep the stable id when the replacement doesn't carry one.
			if documentID(clone) == "" {
				clone["id"] = existing["id"]
			}
			docs[i] = clone
			count++
		}
	}
	return count, nil
}

// Delete removes matching documents.
func (s *MemoryStore) Delete(ctx context.Context, collection string, filters ...Filter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	kept := docs[:0]
	count := 0
	for _, doc := range docs {
		if matches(doc, filters) {
			count++
			continue
		}
		kept = append(kept, doc)
	}
	s.collections[collection] = kept
	return count, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
