package knowledge

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Document is an arbitrary JSON object identified by its "id" field.
type Document map[string]any

// Store is an in-memory knowledge base with simple keyword matching.
// Ingesting a document with an existing ID replaces it.
type Store struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewStore() *Store {
	return &Store{docs: make(map[string]Document)}
}

// Ingest stores a document and returns all known IDs. The document must
// carry a non-empty string "id".
func (s *Store) Ingest(doc Document) ([]string, error) {
	id, ok := doc["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("knowledge data must have an 'id' field")
	}

	s.mu.Lock()
	s.docs[id] = doc
	ids := make([]string, 0, len(s.docs))
	for k := range s.docs {
		ids = append(ids, k)
	}
	s.mu.Unlock()

	sort.Strings(ids)
	return ids, nil
}

// Query returns every document whose JSON form contains the query text,
// case-insensitively.
func (s *Store) Query(query string) []Document {
	needle := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Document
	for _, doc := range s.docs {
		data, err := json.Marshal(doc)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(data)), needle) {
			results = append(results, doc)
		}
	}
	return results
}
