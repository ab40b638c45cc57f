package mediacatalog

import (
	"time"

	"github.com/google/uuid"
)

// AssetClass identifies which catalog a record belongs to.
type AssetClass string

// Asset class constants (typed).
const (
	ClassCertificate AssetClass = "certificate"
	ClassGallery     AssetClass = "gallery"
)

// IsValid reports whether the asset class is one of the known classes.
func (c AssetClass) IsValid() bool {
	switch c {
	case ClassCertificate, ClassGallery:
		return true
	}
	return false
}

// Provenance records where a catalog record's media came from: an uploaded
// binary stored by this service, or an externally hosted link.
type Provenance string

// Provenance constants (typed).
const (
	ProvenanceFile Provenance = "file"
	ProvenanceURL  Provenance = "url"
)

// IsValid reports whether the provenance is one of the known modes.
func (p Provenance) IsValid() bool {
	switch p {
	case ProvenanceFile, ProvenanceURL:
		return true
	}
	return false
}

// MediaType discriminates gallery records. Certificates carry no media type;
// their content type string is enough.
type MediaType string

// Media type constants (typed).
const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// IsValid reports whether the media type is one of the known types.
func (m MediaType) IsValid() bool {
	switch m {
	case MediaTypeImage, MediaTypeVideo:
		return true
	}
	return false
}

// CatalogRecord is the persisted metadata row for one certificate or gallery
// item. One schema covers both provenance modes: LocationURL holds either the
// object-store URL (file provenance, ObjectKey set) or the caller-supplied
// external URL (url provenance, ObjectKey empty).
type CatalogRecord struct {
	ID          uuid.UUID  `json:"id"`
	Class       AssetClass `json:"class"`
	MediaType   MediaType  `json:"media_type,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Provenance  Provenance `json:"provenance"`
	ContentType string     `json:"content_type,omitempty"`
	LocationURL string     `json:"location_url"`
	ObjectKey   string     `json:"object_key,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
