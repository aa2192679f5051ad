package database

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore. Values are deep copied on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]any)}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.collections[collection][id]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	return Document{ID: id, Data: copyMap(data)}, nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := s.collections[collection]
	ids := slices.Sorted(maps.Keys(docs))

	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		if matches(docs[id], filters) {
			out = append(out, Document{ID: id, Data: copyMap(docs[id])})
		}
	}
	return out, nil
}

func (s *MemoryStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:20]

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = applyFields(nil, data)
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = applyFields(nil, data)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.Batch(ctx, []Write{{Collection: collection, ID: id, Fields: fields}})
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) Modify(ctx context.Context, collection, id string, fn func(Document) (map[string]any, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrDocumentNotFound)
	}
	fields, err := fn(Document{ID: id, Data: copyMap(data)})
	if err != nil {
		return err
	}
	s.collections[collection][id] = applyFields(data, fields)
	return nil
}

func (s *MemoryStore) Batch(ctx context.Context, writes []Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range writes {
		if _, ok := s.collections[w.Collection][w.ID]; !ok {
			return fmt.Errorf("%s/%s: %w", w.Collection, w.ID, ErrDocumentNotFound)
		}
	}
	for _, w := range writes {
		docs := s.collections[w.Collection]
		docs[w.ID] = applyFields(docs[w.ID], w.Fields)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// collection must be called with the write lock held.
func (s *MemoryStore) collection(name string) map[string]map[string]any {
	docs, ok := s.collections[name]
	if !ok {
		docs = make(map[string]map[string]any)
		s.collections[name] = docs
	}
	return docs
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok || !reflect.DeepEqual(v, f.Value) {
			return false
		}
	}
	return true
}

// applyFields returns a copy of base with fields merged in.
func applyFields(base, fields map[string]any) map[string]any {
	out := copyMap(base)
	if out == nil {
		out = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		if v == DeleteField {
			delete(out, k)
			continue
		}
		out[k] = copyValue(v)
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyMap(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	default:
		return v
	}
}
