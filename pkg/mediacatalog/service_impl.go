package mediacatalog

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/media-catalog/pkg/mediacatalog/objectkey"
)

// service implements the Service interface
type service struct {
	repository  Repository
	objectStore ObjectStore
	keys        objectkey.Generator
	now         func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the catalog repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithObjectStore sets the object storage backend for the service
func WithObjectStore(store ObjectStore) Option {
	return func(s *service) {
		s.objectStore = store
	}
}

// WithKeyGenerator overrides the default storage key derivation strategy
func WithKeyGenerator(gen objectkey.Generator) Option {
	return func(s *service) {
		s.keys = gen
	}
}

// WithClock overrides the timestamp source (test seam)
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new catalog service with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		keys: objectkey.NewUUIDGenerator(),
		now:  time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.objectStore == nil {
		return nil, fmt.Errorf("object store is required")
	}

	return s, nil
}

func (s *service) CreateRecord(ctx context.Context, req CreateRecordRequest) (*CatalogRecord, error) {
	if !req.Class.IsValid() {
		return nil, &ValidationError{Reason: ReasonMissingField, Field: "class", Detail: string(req.Class)}
	}
	if !req.Provenance.IsValid() {
		return nil, &ValidationError{Reason: ReasonMissingField, Field: "provenance", Detail: string(req.Provenance)}
	}
	if req.Class == ClassGallery && !req.MediaType.IsValid() {
		return nil, &ValidationError{Reason: ReasonMissingField, Field: "media_type", Detail: string(req.MediaType)}
	}

	var (
		locationURL string
		contentType string
		objectKey   string
	)

	switch req.Provenance {
	case ProvenanceFile:
		if req.Upload == nil || req.Upload.Reader == nil {
			return nil, &ValidationError{Reason: ReasonMissingField, Field: "file"}
		}

		policy, err := PolicyFor(req.Class, req.MediaType)
		if err != nil {
			return nil, &ValidationError{Reason: ReasonMissingField, Field: "media_type", Detail: err.Error()}
		}
		if err := policy.Validate(req.Upload.ContentType, req.Upload.Size); err != nil {
			return nil, err
		}

		// Object write strictly precedes the catalog write. A storage failure
		// here means no catalog row is ever attempted.
		objectKey = s.keys.GenerateKey(policy.Folder, req.Upload.Filename)
		locationURL, err = s.objectStore.Put(ctx, objectKey, req.Upload.ContentType, req.Upload.Reader)
		if err != nil {
			return nil, err
		}
		contentType = req.Upload.ContentType

	case ProvenanceURL:
		if req.Link == nil || req.Link.URL == "" {
			return nil, &ValidationError{Reason: ReasonMissingField, Field: "url"}
		}
		if err := checkExternalURL(req.Link.URL); err != nil {
			return nil, err
		}
		// The remote resource is taken on trust: no fetch, no verification.
		locationURL = req.Link.URL
		contentType = req.Link.ContentType
	}

	now := s.now().UTC()
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	record := &CatalogRecord{
		ID:          uuid.New(),
		Class:       req.Class,
		Title:       req.Title,
		Description: req.Description,
		Provenance:  req.Provenance,
		ContentType: contentType,
		LocationURL: locationURL,
		ObjectKey:   objectKey,
		OccurredAt:  occurredAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Class == ClassGallery {
		record.MediaType = req.MediaType
	}

	// A failure past this point leaves the stored object orphaned. That is the
	// accepted failure mode; no compensating delete is issued.
	if err := s.repository.CreateRecord(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *service) ListRecords(ctx context.Context, class AssetClass) ([]*CatalogRecord, error) {
	if !class.IsValid() {
		return nil, &ValidationError{Reason: ReasonMissingField, Field: "class", Detail: string(class)}
	}
	return s.repository.ListRecords(ctx, class)
}

func (s *service) DeleteRecord(ctx context.Context, class AssetClass, id uuid.UUID) error {
	if !class.IsValid() {
		return &ValidationError{Reason: ReasonMissingField, Field: "class", Detail: string(class)}
	}
	return s.repository.DeleteRecord(ctx, class, id)
}

// checkExternalURL requires an absolute http(s) URL for url-provenance records.
func checkExternalURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{Reason: ReasonMalformedURL, Field: "url", Detail: raw}
	}
	return nil
}
