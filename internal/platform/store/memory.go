package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carehub/carehub/internal/shared"
)

// MemoryStore is an in-process DocumentStore used in development mode and in
// tests. A single mutex around every operation gives it the same
// per-document atomicity as the Postgres implementation.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]*Document
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]*Document)}
}

func (s *MemoryStore) coll(name string) map[string]*Document {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]*Document)
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) GetDocument(_ context.Context, collection, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.coll(collection)[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &Document{ID: doc.ID, Fields: clone(doc.Fields), CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt}, nil
}

func (s *MemoryStore) SetDocument(_ context.Context, collection, id string, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	c := s.coll(collection)
	if existing, ok := c[id]; ok {
		existing.Fields = clone(fields)
		existing.UpdatedAt = now
		return nil
	}
	c[id] = &Document{ID: id, Fields: clone(fields), CreatedAt: now, UpdatedAt: now}
	return nil
}

func (s *MemoryStore) UpdateDocument(_ context.Context, collection, id string, partial Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.coll(collection)[id]
	if !ok {
		return shared.ErrNotFound
	}
	for k, v := range partial {
		doc.Fields[k] = v
	}
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) AddDocument(_ context.Context, collection string, fields Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	id := uuid.NewString()
	s.coll(collection)[id] = &Document{ID: id, Fields: clone(fields), CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (s *MemoryStore) QueryDocuments(_ context.Context, collection string, filter Fields, limit, offset int) ([]*Document, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*Document
	for _, doc := range s.coll(collection) {
		if matches(doc.Fields, filter) {
			matched = append(matched, doc)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]*Document, 0, len(matched))
	for _, doc := range matched {
		out = append(out, &Document{ID: doc.ID, Fields: clone(doc.Fields), CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt})
	}
	return out, total, nil
}

func matches(fields, filter Fields) bool {
	for k, want := range filter {
		if fields[k] != want {
			return false
		}
	}
	return true
}
