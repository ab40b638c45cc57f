package dynamo

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/tendant/media-catalog/pkg/mediacatalog"
)

// Client is the subset of the DynamoDB API the repository uses.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Config options for the DynamoDB repository
type Config struct {
	CertificatesTable string // default "Certificates"
	GalleryTable      string // default "Gallery"
}

// Repository implements mediacatalog.Repository using DynamoDB: one table per
// asset class, partition key "id" (uuid string).
type Repository struct {
	client Client
	tables map[mediacatalog.AssetClass]string
}

// New creates a new DynamoDB repository
func New(client Client, config Config) *Repository {
	if config.CertificatesTable == "" {
		config.CertificatesTable = "Certificates"
	}
	if config.GalleryTable == "" {
		config.GalleryTable = "Gallery"
	}
	return &Repository{
		client: client,
		tables: map[mediacatalog.AssetClass]string{
			mediacatalog.ClassCertificate: config.CertificatesTable,
			mediacatalog.ClassGallery:     config.GalleryTable,
		},
	}
}

// item is the DynamoDB shape of a catalog record.
type item struct {
	ID          string    `dynamodbav:"id"`
	Title       string    `dynamodbav:"title"`
	Description string    `dynamodbav:"description"`
	Provenance  string    `dynamodbav:"provenance"`
	MediaType   string    `dynamodbav:"media_type,omitempty"`
	ContentType string    `dynamodbav:"content_type,omitempty"`
	LocationURL string    `dynamodbav:"location_url"`
	ObjectKey   string    `dynamodbav:"object_key,omitempty"`
	OccurredAt  time.Time `dynamodbav:"occurred_at"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
	UpdatedAt   time.Time `dynamodbav:"updated_at"`
}

func (r *Repository) tableFor(class mediacatalog.AssetClass) (string, error) {
	table, exists := r.tables[class]
	if !exists {
		return "", mediacatalog.ErrUnknownAssetClass
	}
	return table, nil
}

// EnsureTables creates the per-class tables if they do not exist yet.
func (r *Repository) EnsureTables(ctx context.Context) error {
	for _, table := range r.tables {
		_, err := r.client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(table),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			ProvisionedThroughput: &types.ProvisionedThroughput{
				ReadCapacityUnits:  aws.Int64(5),
				WriteCapacityUnits: aws.Int64(5),
			},
		})
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				continue
			}
			return &mediacatalog.PersistenceError{Store: "dynamo", Op: "ensure_tables", Err: err}
		}
	}
	return nil
}

func (r *Repository) CreateRecord(ctx context.Context, record *mediacatalog.CatalogRecord) error {
	table, err := r.tableFor(record.Class)
	if err != nil {
		return &mediacatalog.PersistenceError{Store: "dynamo", Op: "create", Err: err}
	}

	av, err := attributevalue.MarshalMap(item{
		ID:          record.ID.String(),
		Title:       record.Title,
		Description: record.Description,
		Provenance:  string(record.Provenance),
		MediaType:   string(record.MediaType),
		ContentType: record.ContentType,
		LocationURL: record.LocationURL,
		ObjectKey:   record.ObjectKey,
		OccurredAt:  record.OccurredAt,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	})
	if err != nil {
		return &mediacatalog.PersistenceError{Store: "dynamo", Op: "create", Err: err}
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		return &mediacatalog.PersistenceError{Store: "dynamo", Op: "create", Err: err}
	}

	return nil
}

func (r *Repository) ListRecords(ctx context.Context, class mediacatalog.AssetClass) ([]*mediacatalog.CatalogRecord, error) {
	table, err := r.tableFor(class)
	if err != nil {
		return nil, &mediacatalog.PersistenceError{Store: "dynamo", Op: "list", Err: err}
	}

	var records []*mediacatalog.CatalogRecord
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, &mediacatalog.PersistenceError{Store: "dynamo", Op: "list", Err: err}
		}

		var items []item
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, &mediacatalog.PersistenceError{Store: "dynamo", Op: "list", Err: err}
		}

		for _, it := range items {
			record, err := it.toRecord(class)
			if err != nil {
				return nil, &mediacatalog.PersistenceError{Store: "dynamo", Op: "list", Err: err}
			}
			records = append(records, record)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	// Scans come back unordered; sort by occurred_at descending.
	sort.Slice(records, func(i, j int) bool {
		return records[i].OccurredAt.After(records[j].OccurredAt)
	})

	return records, nil
}

func (r *Repository) DeleteRecord(ctx context.Context, class mediacatalog.AssetClass, id uuid.UUID) error {
	table, err := r.tableFor(class)
	if err != nil {
		return &mediacatalog.PersistenceError{Store: "dynamo", Op: "delete", Err: err}
	}

	// DeleteItem on a missing key succeeds, which matches the idempotent
	// delete contract.
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id.String()},
		},
	})
	if err != nil {
		return &mediacatalog.PersistenceError{Store: "dynamo", Op: "delete", Err: err}
	}

	return nil
}

func (it item) toRecord(class mediacatalog.AssetClass) (*mediacatalog.CatalogRecord, error) {
	id, err := uuid.Parse(it.ID)
	if err != nil {
		return nil, err
	}
	return &mediacatalog.CatalogRecord{
		ID:          id,
		Class:       class,
		MediaType:   mediacatalog.MediaType(it.MediaType),
		Title:       it.Title,
		Description: it.Description,
		Provenance:  mediacatalog.Provenance(it.Provenance),
		ContentType: it.ContentType,
		LocationURL: it.LocationURL,
		ObjectKey:   it.ObjectKey,
		OccurredAt:  it.OccurredAt,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}, nil
}
