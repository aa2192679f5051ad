package database

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// recordingFiles records deletions and can be told to fail every one.
type recordingFiles struct {
	mu      sync.Mutex
	deleted []string
	fail    bool
}

func (f *recordingFiles) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.fail {
		return errors.New("bucket unavailable")
	}
	return nil
}

func (f *recordingFiles) KeyFromURL(url string) (string, error) {
	i := strings.Index(url, "uploads/")
	if i < 0 {
		return "", errors.New("not an upload")
	}
	return url[i:], nil
}

func (f *recordingFiles) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// failingBatchStore fails every Batch, Update and Modify while fail is set.
type failingBatchStore struct {
	*MemoryStore
	fail bool
}

func (s *failingBatchStore) Batch(ctx context.Context, writes []Write) error {
	if s.fail {
		return errors.New("deadline exceeded")
	}
	return s.MemoryStore.Batch(ctx, writes)
}

func (s *failingBatchStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if s.fail {
		return errors.New("deadline exceeded")
	}
	return s.MemoryStore.Update(ctx, collection, id, fields)
}

// clock returns increasing timestamps, one second apart.
func clock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func (s *failingBatchStore) Modify(ctx context.Context, collection, id string, fn func(Document) (map[string]any, error)) error {
	if s.fail {
		return errors.New("deadline exceeded")
	}
	return s.MemoryStore.Modify(ctx, collection, id, fn)
}
