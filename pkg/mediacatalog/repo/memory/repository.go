package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tendant/media-catalog/pkg/mediacatalog"
)

// Repository implements mediacatalog.Repository using in-memory storage
type Repository struct {
	mu      sync.RWMutex
	records map[mediacatalog.AssetClass]map[uuid.UUID]*mediacatalog.CatalogRecord
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		records: map[mediacatalog.AssetClass]map[uuid.UUID]*mediacatalog.CatalogRecord{
			mediacatalog.ClassCertificate: {},
			mediacatalog.ClassGallery:     {},
		},
	}
}

func (r *Repository) CreateRecord(ctx context.Context, record *mediacatalog.CatalogRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	class, exists := r.records[record.Class]
	if !exists {
		return &mediacatalog.PersistenceError{Store: "memory", Op: "create", Err: mediacatalog.ErrUnknownAssetClass}
	}

	// Store a copy to avoid external modifications
	recordCopy := *record
	class[record.ID] = &recordCopy

	return nil
}

func (r *Repository) ListRecords(ctx context.Context, class mediacatalog.AssetClass) ([]*mediacatalog.CatalogRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byClass, exists := r.records[class]
	if !exists {
		return nil, &mediacatalog.PersistenceError{Store: "memory", Op: "list", Err: mediacatalog.ErrUnknownAssetClass}
	}

	result := make([]*mediacatalog.CatalogRecord, 0, len(byClass))
	for _, record := range byClass {
		recordCopy := *record
		result = append(result, &recordCopy)
	}

	// Sort by occurred_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].OccurredAt.After(result[j].OccurredAt)
	})

	return result, nil
}

func (r *Repository) DeleteRecord(ctx context.Context, class mediacatalog.AssetClass, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byClass, exists := r.records[class]
	if !exists {
		return &mediacatalog.PersistenceError{Store: "memory", Op: "delete", Err: mediacatalog.ErrUnknownAssetClass}
	}

	// Deleting a missing id is not an error
	delete(byClass, id)
	return nil
}
