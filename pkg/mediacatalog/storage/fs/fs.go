package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/media-catalog/pkg/mediacatalog"
)

// Backend is a filesystem implementation of the mediacatalog.ObjectStore
// interface. Objects live under BaseDir and resolve at URLPrefix, which the
// serving process is expected to mount as a static directory.
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // URL prefix under which BaseDir is served (default "/uploads")
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, &mediacatalog.ConfigurationError{Component: "fs storage", Setting: "base_dir"}
	}
	if config.URLPrefix == "" {
		config.URLPrefix = "/uploads"
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: strings.TrimRight(config.URLPrefix, "/"),
	}, nil
}

// BaseDir returns the directory objects are written under, for static mounting.
func (b *Backend) BaseDir() string { return b.baseDir }

// URLPrefix returns the prefix object URLs are built from.
func (b *Backend) URLPrefix() string { return b.urlPrefix }

// Put writes the payload under objectKey and returns its serving URL.
func (b *Backend) Put(ctx context.Context, objectKey, contentType string, r io.Reader) (string, error) {
	filePath, err := b.resolve(objectKey)
	if err != nil {
		return "", &mediacatalog.StorageError{Backend: "fs", Key: objectKey, Op: "put", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", &mediacatalog.StorageError{Backend: "fs", Key: objectKey, Op: "put", Err: err}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", &mediacatalog.StorageError{Backend: "fs", Key: objectKey, Op: "put", Err: err}
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return "", &mediacatalog.StorageError{Backend: "fs", Key: objectKey, Op: "put", Err: err}
	}

	return fmt.Sprintf("%s/%s", b.urlPrefix, objectKey), nil
}

// Delete removes the object file and cleans up emptied directories.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath, err := b.resolve(objectKey)
	if err != nil {
		return &mediacatalog.StorageError{Backend: "fs", Key: objectKey, Op: "delete", Err: err}
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return &mediacatalog.StorageError{Backend: "fs", Key: objectKey, Op: "delete", Err: errors.New("object not found")}
	}

	if err := os.Remove(filePath); err != nil {
		return &mediacatalog.StorageError{Backend: "fs", Key: objectKey, Op: "delete", Err: err}
	}

	b.cleanupEmptyDirectories(filepath.Dir(filePath))

	return nil
}

// resolve joins the key onto baseDir and rejects keys that escape it.
func (b *Backend) resolve(objectKey string) (string, error) {
	filePath := filepath.Join(b.baseDir, filepath.FromSlash(objectKey))
	rel, err := filepath.Rel(b.baseDir, filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key: %s", objectKey)
	}
	return filePath, nil
}

// cleanupEmptyDirectories recursively removes empty directories up to baseDir
func (b *Backend) cleanupEmptyDirectories(dir string) {
	if dir == b.baseDir {
		return
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}
