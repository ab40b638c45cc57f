package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tendant/media-catalog/pkg/mediacatalog"
)

// Backend is an in-memory implementation of the mediacatalog.ObjectStore
// interface, intended for tests and local development.
type Backend struct {
	mu          sync.RWMutex
	objects     map[string][]byte
	contentType map[string]string
	urlPrefix   string
}

// Option configures the in-memory backend.
type Option func(*Backend)

// WithURLPrefix overrides the prefix of returned object URLs.
func WithURLPrefix(prefix string) Option {
	return func(b *Backend) {
		b.urlPrefix = strings.TrimRight(prefix, "/")
	}
}

// New creates a new in-memory storage backend
func New(opts ...Option) *Backend {
	b := &Backend{
		objects:     make(map[string][]byte),
		contentType: make(map[string]string),
		urlPrefix:   "memory://objects",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Put stores the payload in memory and returns a synthetic URL.
func (b *Backend) Put(ctx context.Context, objectKey, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &mediacatalog.StorageError{Backend: "memory", Key: objectKey, Op: "put", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[objectKey] = data
	b.contentType[objectKey] = contentType

	return fmt.Sprintf("%s/%s", b.urlPrefix, objectKey), nil
}

// Delete removes the object from memory.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return &mediacatalog.StorageError{Backend: "memory", Key: objectKey, Op: "delete", Err: errors.New("object not found")}
	}
	delete(b.objects, objectKey)
	delete(b.contentType, objectKey)
	return nil
}

// Get returns a stored payload and its content type (test helper).
func (b *Backend) Get(objectKey string) ([]byte, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, "", false
	}
	return append([]byte(nil), data...), b.contentType[objectKey], true
}

// Len returns the number of stored objects (test helper).
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
