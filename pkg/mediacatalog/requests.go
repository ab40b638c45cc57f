package mediacatalog

import (
	"io"
	"time"
)

// UploadSource is the file-provenance side of a create request: a binary
// payload to validate, store, and catalog.
type UploadSource struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// LinkSource is the url-provenance side of a create request: an externally
// hosted URL taken on trust, never fetched or verified.
type LinkSource struct {
	URL         string
	ContentType string
}

// CreateRecordRequest contains parameters for creating a catalog record.
// Exactly one of Upload or Link must be set, matching Provenance.
type CreateRecordRequest struct {
	Class       AssetClass
	MediaType   MediaType // gallery only
	Title       string
	Description string
	Provenance  Provenance
	OccurredAt  time.Time // zero value defaults to server time
	Upload      *UploadSource
	Link        *LinkSource
}
