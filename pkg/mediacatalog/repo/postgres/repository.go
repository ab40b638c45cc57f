package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/media-catalog/pkg/mediacatalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements mediacatalog.Repository using PostgreSQL. Certificates
// and gallery items live in separate tables with one shared column layout;
// media_type is NULL for certificates.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Schema holds the DDL for the catalog tables, applied by deploy tooling or
// test setup.
const Schema = `
CREATE TABLE IF NOT EXISTS certificates (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    provenance TEXT NOT NULL,
    media_type TEXT,
    content_type TEXT NOT NULL DEFAULT '',
    location_url TEXT NOT NULL,
    object_key TEXT NOT NULL DEFAULT '',
    occurred_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS gallery_items (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    provenance TEXT NOT NULL,
    media_type TEXT,
    content_type TEXT NOT NULL DEFAULT '',
    location_url TEXT NOT NULL,
    object_key TEXT NOT NULL DEFAULT '',
    occurred_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_certificates_occurred_at ON certificates (occurred_at DESC);
CREATE INDEX IF NOT EXISTS idx_gallery_items_occurred_at ON gallery_items (occurred_at DESC);
`

func tableFor(class mediacatalog.AssetClass) (string, error) {
	switch class {
	case mediacatalog.ClassCertificate:
		return "certificates", nil
	case mediacatalog.ClassGallery:
		return "gallery_items", nil
	default:
		return "", mediacatalog.ErrUnknownAssetClass
	}
}

// EnsureSchema applies the catalog DDL, tolerating already-existing tables.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return &mediacatalog.PersistenceError{Store: "postgres", Op: "ensure_schema", Err: err}
	}
	return nil
}

func (r *Repository) CreateRecord(ctx context.Context, record *mediacatalog.CatalogRecord) error {
	table, err := tableFor(record.Class)
	if err != nil {
		return &mediacatalog.PersistenceError{Store: "postgres", Op: "create", Err: err}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, title, description, provenance, media_type, content_type,
			location_url, object_key, occurred_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, table)

	var mediaType *string
	if record.MediaType != "" {
		mt := string(record.MediaType)
		mediaType = &mt
	}

	_, err = r.db.Exec(ctx, query,
		record.ID, record.Title, record.Description, string(record.Provenance),
		mediaType, record.ContentType, record.LocationURL, record.ObjectKey,
		record.OccurredAt, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return &mediacatalog.PersistenceError{Store: "postgres", Op: "create", Err: translateError(err)}
	}

	return nil
}

func (r *Repository) ListRecords(ctx context.Context, class mediacatalog.AssetClass) ([]*mediacatalog.CatalogRecord, error) {
	table, err := tableFor(class)
	if err != nil {
		return nil, &mediacatalog.PersistenceError{Store: "postgres", Op: "list", Err: err}
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, provenance, media_type, content_type,
		       location_url, object_key, occurred_at, created_at, updated_at
		FROM %s
		ORDER BY occurred_at DESC`, table)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, &mediacatalog.PersistenceError{Store: "postgres", Op: "list", Err: translateError(err)}
	}
	defer rows.Close()

	var records []*mediacatalog.CatalogRecord
	for rows.Next() {
		var (
			record     mediacatalog.CatalogRecord
			provenance string
			mediaType  *string
		)
		if err := rows.Scan(
			&record.ID, &record.Title, &record.Description, &provenance,
			&mediaType, &record.ContentType, &record.LocationURL, &record.ObjectKey,
			&record.OccurredAt, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, &mediacatalog.PersistenceError{Store: "postgres", Op: "list", Err: err}
		}
		record.Class = class
		record.Provenance = mediacatalog.Provenance(provenance)
		if mediaType != nil {
			record.MediaType = mediacatalog.MediaType(*mediaType)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, &mediacatalog.PersistenceError{Store: "postgres", Op: "list", Err: err}
	}

	return records, nil
}

func (r *Repository) DeleteRecord(ctx context.Context, class mediacatalog.AssetClass, id uuid.UUID) error {
	table, err := tableFor(class)
	if err != nil {
		return &mediacatalog.PersistenceError{Store: "postgres", Op: "delete", Err: err}
	}

	// Zero rows affected is fine: delete is idempotent.
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return &mediacatalog.PersistenceError{Store: "postgres", Op: "delete", Err: translateError(err)}
	}

	return nil
}

// translateError maps common Postgres error codes onto readable messages.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("record already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - schema bootstrap required")
		}
	}
	return err
}
