package mediacatalog

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// ObjectStore writes uploaded binaries to durable storage and hands back a
// stable, publicly resolvable URL. Implementations must be safe for
// concurrent use.
type ObjectStore interface {
	// Put writes the payload under objectKey and returns the retrieval URL.
	Put(ctx context.Context, objectKey, contentType string, r io.Reader) (string, error)

	// Delete removes the object. Record deletion never calls this; it exists
	// so operators can reclaim orphaned objects.
	Delete(ctx context.Context, objectKey string) error
}

// Repository persists catalog records. Implementations must be safe for
// concurrent use.
type Repository interface {
	// CreateRecord stores a new record.
	CreateRecord(ctx context.Context, record *CatalogRecord) error

	// ListRecords returns every record for the class, ordered by occurred_at
	// descending.
	ListRecords(ctx context.Context, class AssetClass) ([]*CatalogRecord, error)

	// DeleteRecord removes the record. Deleting an id that does not exist is
	// not an error.
	DeleteRecord(ctx context.Context, class AssetClass, id uuid.UUID) error
}
