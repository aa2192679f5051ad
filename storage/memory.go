package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Object is a stored blob.
type Object struct {
	ContentType string
	Data        []byte
}

// MemoryStore keeps objects in process. It backs local runs without a bucket
// and doubles as a file server for the URLs it hands out.
type MemoryStore struct {
	mu        sync.RWMutex
	objects   map[string]Object
	publicURL string
}

func NewMemoryStore(publicURL string) *MemoryStore {
	return &MemoryStore{
		objects:   make(map[string]Object),
		publicURL: publicURL,
	}
}

func (s *MemoryStore) Put(ctx context.Context, key, contentType string, body io.Reader, _ int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{ContentType: contentType, Data: data}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) PresignPut(_ context.Context, key, _ string, expires time.Duration) (string, error) {
	return fmt.Sprintf("%s?expires=%d", s.PublicURL(key), int(expires.Seconds())), nil
}

func (s *MemoryStore) PublicURL(key string) string {
	return joinPublicURL(s.publicURL, key)
}

func (s *MemoryStore) KeyFromURL(url string) (string, error) {
	return keyFromURL(s.publicURL, url)
}

// Get returns a copy of the object stored under key.
func (s *MemoryStore) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return Object{}, false
	}
	obj.Data = bytes.Clone(obj.Data)
	return obj, true
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// ServeHTTP serves stored objects. The request path, minus any leading
// slash, is the key.
func (s *MemoryStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")
	obj, ok := s.Get(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	http.ServeContent(w, r, key, time.Time{}, bytes.NewReader(obj.Data))
}
