package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/media-catalog/pkg/mediacatalog"
	dynamorepo "github.com/tendant/media-catalog/pkg/mediacatalog/repo/dynamo"
	memoryrepo "github.com/tendant/media-catalog/pkg/mediacatalog/repo/memory"
	postgresrepo "github.com/tendant/media-catalog/pkg/mediacatalog/repo/postgres"
	fsstorage "github.com/tendant/media-catalog/pkg/mediacatalog/storage/fs"
	memorystorage "github.com/tendant/media-catalog/pkg/mediacatalog/storage/memory"
	s3storage "github.com/tendant/media-catalog/pkg/mediacatalog/storage/s3"
)

// ServerConfig is the explicit configuration for the catalog server. It is
// constructed once at process start and passed down; nothing reads the
// environment after Load.
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	Database DatabaseConfig
	Storage  StorageConfig
}

// DatabaseConfig selects and configures the catalog repository backend.
type DatabaseConfig struct {
	Type      string // "memory", "postgres", "dynamo"
	URL       string // postgres connection string
	Bootstrap bool   // create tables/schema at startup

	Dynamo DynamoConfig
}

// DynamoConfig configures the DynamoDB repository.
type DynamoConfig struct {
	Region            string
	Endpoint          string // optional, for dynamodb-local
	AccessKeyID       string
	SecretAccessKey   string
	CertificatesTable string
	GalleryTable      string
}

// StorageConfig selects and configures the object storage backend.
type StorageConfig struct {
	Type string // "memory", "fs", "s3"

	FS FSConfig
	S3 S3Config
}

// FSConfig configures the local filesystem backend.
type FSConfig struct {
	BaseDir   string
	URLPrefix string
}

// S3Config configures the S3 backend.
type S3Config struct {
	Region                 string
	Bucket                 string
	AccessKeyID            string
	SecretAccessKey        string
	Endpoint               string
	UsePathStyle           bool
	PublicBaseURL          string
	CreateBucketIfNotExist bool
}

// Runtime holds the wired components built from a ServerConfig. The process
// entry point owns its lifecycle.
type Runtime struct {
	Service     mediacatalog.Service
	Repository  mediacatalog.Repository
	ObjectStore mediacatalog.ObjectStore

	// StaticDir/StaticPrefix are set when the fs backend is active, so the
	// server can mount the upload directory at the URLs the store issues.
	StaticDir    string
	StaticPrefix string

	pool *pgxpool.Pool
}

// Close releases resources held by the runtime.
func (rt *Runtime) Close() {
	if rt.pool != nil {
		rt.pool.Close()
	}
}

// Build constructs the repository, object store, and service from the
// configuration. Missing required settings fail here, loudly, not at first
// use.
func (c *ServerConfig) Build(ctx context.Context) (*Runtime, error) {
	rt := &Runtime{}

	if err := c.buildRepository(ctx, rt); err != nil {
		return nil, err
	}
	if err := c.buildObjectStore(rt); err != nil {
		rt.Close()
		return nil, err
	}

	svc, err := mediacatalog.New(
		mediacatalog.WithRepository(rt.Repository),
		mediacatalog.WithObjectStore(rt.ObjectStore),
	)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build service: %w", err)
	}
	rt.Service = svc

	return rt, nil
}

func (c *ServerConfig) buildRepository(ctx context.Context, rt *Runtime) error {
	switch c.Database.Type {
	case "memory", "":
		rt.Repository = memoryrepo.New()
		return nil

	case "postgres":
		if c.Database.URL == "" {
			return &mediacatalog.ConfigurationError{Component: "database", Setting: "DATABASE_URL"}
		}
		pool, err := pgxpool.New(ctx, c.Database.URL)
		if err != nil {
			return &mediacatalog.ConfigurationError{Component: "database", Setting: "DATABASE_URL", Err: err}
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return &mediacatalog.ConfigurationError{Component: "database", Setting: "DATABASE_URL", Err: err}
		}
		repo := postgresrepo.NewWithPool(pool)
		if c.Database.Bootstrap {
			if err := repo.EnsureSchema(ctx); err != nil {
				pool.Close()
				return err
			}
		}
		rt.pool = pool
		rt.Repository = repo
		return nil

	case "dynamo":
		client, err := buildDynamoClient(ctx, c.Database.Dynamo)
		if err != nil {
			return err
		}
		repo := dynamorepo.New(client, dynamorepo.Config{
			CertificatesTable: c.Database.Dynamo.CertificatesTable,
			GalleryTable:      c.Database.Dynamo.GalleryTable,
		})
		if c.Database.Bootstrap {
			if err := repo.EnsureTables(ctx); err != nil {
				return err
			}
		}
		rt.Repository = repo
		return nil

	default:
		return &mediacatalog.ConfigurationError{
			Component: "database",
			Setting:   "DATABASE_TYPE",
			Err:       fmt.Errorf("unsupported database type: %s", c.Database.Type),
		}
	}
}

func (c *ServerConfig) buildObjectStore(rt *Runtime) error {
	switch c.Storage.Type {
	case "memory":
		rt.ObjectStore = memorystorage.New()
		return nil

	case "fs", "":
		baseDir := c.Storage.FS.BaseDir
		if baseDir == "" {
			baseDir = "./uploads"
		}
		backend, err := fsstorage.New(fsstorage.Config{
			BaseDir:   baseDir,
			URLPrefix: c.Storage.FS.URLPrefix,
		})
		if err != nil {
			return err
		}
		rt.ObjectStore = backend
		rt.StaticDir = backend.BaseDir()
		rt.StaticPrefix = backend.URLPrefix()
		return nil

	case "s3":
		backend, err := s3storage.New(s3storage.Config{
			Region:                 c.Storage.S3.Region,
			Bucket:                 c.Storage.S3.Bucket,
			AccessKeyID:            c.Storage.S3.AccessKeyID,
			SecretAccessKey:        c.Storage.S3.SecretAccessKey,
			Endpoint:               c.Storage.S3.Endpoint,
			UsePathStyle:           c.Storage.S3.UsePathStyle,
			PublicBaseURL:          c.Storage.S3.PublicBaseURL,
			CreateBucketIfNotExist: c.Storage.S3.CreateBucketIfNotExist,
		})
		if err != nil {
			return err
		}
		rt.ObjectStore = backend
		return nil

	default:
		return &mediacatalog.ConfigurationError{
			Component: "storage",
			Setting:   "STORAGE_TYPE",
			Err:       fmt.Errorf("unsupported storage type: %s", c.Storage.Type),
		}
	}
}

func buildDynamoClient(ctx context.Context, cfg DynamoConfig) (*dynamodb.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID, cfg.SecretAccessKey, "",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	}
	if err != nil {
		return nil, &mediacatalog.ConfigurationError{Component: "database", Setting: "AWS credentials", Err: err}
	}

	var opts []func(*dynamodb.Options)
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return dynamodb.NewFromConfig(awsCfg, opts...), nil
}
