package mediacatalog

import (
	"context"

	"github.com/google/uuid"
)

// Service is the catalog service: it classifies provenance, validates and
// stores uploads, and keeps the catalog consistent with stored objects.
type Service interface {
	// CreateRecord runs the full ingestion flow and returns the committed
	// record with server-assigned id and timestamps.
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*CatalogRecord, error)

	// ListRecords returns every record for the class, newest occurred_at first.
	ListRecords(ctx context.Context, class AssetClass) ([]*CatalogRecord, error)

	// DeleteRecord removes the catalog record. The backing object, if any, is
	// left in place.
	DeleteRecord(ctx context.Context, class AssetClass, id uuid.UUID) error
}
