package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/media-catalog/pkg/mediacatalog"
	"github.com/tendant/media-catalog/pkg/mediacatalog/repo/memory"
)

func newRecord(class mediacatalog.AssetClass, occurredAt time.Time) *mediacatalog.CatalogRecord {
	return &mediacatalog.CatalogRecord{
		ID:          uuid.New(),
		Class:       class,
		Title:       "Test",
		Provenance:  mediacatalog.ProvenanceURL,
		LocationURL: "https://example.com/a",
		OccurredAt:  occurredAt,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestCreateAndListRecords(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	older := newRecord(mediacatalog.ClassCertificate, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
	newer := newRecord(mediacatalog.ClassCertificate, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	gallery := newRecord(mediacatalog.ClassGallery, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, repo.CreateRecord(ctx, older))
	require.NoError(t, repo.CreateRecord(ctx, newer))
	require.NoError(t, repo.CreateRecord(ctx, gallery))

	records, err := repo.ListRecords(ctx, mediacatalog.ClassCertificate)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest occurred_at first.
	assert.Equal(t, newer.ID, records[0].ID)
	assert.Equal(t, older.ID, records[1].ID)

	galleryRecords, err := repo.ListRecords(ctx, mediacatalog.ClassGallery)
	require.NoError(t, err)
	require.Len(t, galleryRecords, 1)
	assert.Equal(t, gallery.ID, galleryRecords[0].ID)
}

func TestUnknownClassIsRejected(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	err := repo.CreateRecord(ctx, newRecord("poster", time.Now()))
	var perr *mediacatalog.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, mediacatalog.ErrUnknownAssetClass)

	_, err = repo.ListRecords(ctx, "poster")
	assert.ErrorIs(t, err, mediacatalog.ErrUnknownAssetClass)

	err = repo.DeleteRecord(ctx, "poster", uuid.New())
	assert.ErrorIs(t, err, mediacatalog.ErrUnknownAssetClass)
}

func TestDeleteRecordIdempotent(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	record := newRecord(mediacatalog.ClassGallery, time.Now().UTC())
	require.NoError(t, repo.CreateRecord(ctx, record))

	require.NoError(t, repo.DeleteRecord(ctx, mediacatalog.ClassGallery, record.ID))
	require.NoError(t, repo.DeleteRecord(ctx, mediacatalog.ClassGallery, record.ID))
	require.NoError(t, repo.DeleteRecord(ctx, mediacatalog.ClassGallery, uuid.New()))

	records, err := repo.ListRecords(ctx, mediacatalog.ClassGallery)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStoredRecordsAreIsolated(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	record := newRecord(mediacatalog.ClassCertificate, time.Now().UTC())
	require.NoError(t, repo.CreateRecord(ctx, record))

	// Mutating the caller's copy must not leak into the store.
	record.Title = "changed"

	records, err := repo.ListRecords(ctx, mediacatalog.ClassCertificate)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Test", records[0].Title)
}
