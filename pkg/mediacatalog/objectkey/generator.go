package objectkey

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Generator defines the interface for storage key derivation strategies.
type Generator interface {
	// GenerateKey derives the storage key for an upload. folder partitions
	// storage by asset class; originalFilename only contributes its extension.
	GenerateKey(folder, originalFilename string) string
}

// UUIDGenerator mints a fresh random UUID per call, so concurrent uploads of
// identically named files never collide. Keys look like
// "certificates/5f3c…d2.pdf".
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) GenerateKey(folder, originalFilename string) string {
	return fmt.Sprintf("%s/%s%s", folder, uuid.New(), sanitizeExt(originalFilename))
}

// CustomFuncGenerator allows users to provide their own key derivation function.
type CustomFuncGenerator struct {
	GenerateFunc func(folder, originalFilename string) string
}

func NewCustomFuncGenerator(fn func(folder, originalFilename string) string) *CustomFuncGenerator {
	return &CustomFuncGenerator{GenerateFunc: fn}
}

func (g *CustomFuncGenerator) GenerateKey(folder, originalFilename string) string {
	return g.GenerateFunc(folder, originalFilename)
}

// sanitizeExt extracts a lowercased extension safe to embed in a key. Anything
// beyond letters and digits is dropped.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || ext == "." {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
