package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfig is the environment surface of the server, read once at startup.
type EnvConfig struct {
	Port        string `env:"PORT" env-default:"5000"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	Database DatabaseEnv
	Storage  StorageEnv
}

// DatabaseEnv selects the catalog repository backend.
type DatabaseEnv struct {
	Type              string `env:"DATABASE_TYPE" env-default:"memory"`
	URL               string `env:"DATABASE_URL" env-default:""`
	Bootstrap         bool   `env:"DATABASE_BOOTSTRAP" env-default:"false"`
	Region            string `env:"AWS_REGION" env-default:"us-east-1"`
	DynamoEndpoint    string `env:"DYNAMO_ENDPOINT" env-default:""`
	CertificatesTable string `env:"DYNAMO_CERTIFICATES_TABLE" env-default:"Certificates"`
	GalleryTable      string `env:"DYNAMO_GALLERY_TABLE" env-default:"Gallery"`
}

// StorageEnv selects the object storage backend.
type StorageEnv struct {
	Type            string `env:"STORAGE_TYPE" env-default:"fs"`
	FSBaseDir       string `env:"STORAGE_FS_DIR" env-default:"./uploads"`
	FSURLPrefix     string `env:"STORAGE_FS_URL_PREFIX" env-default:"/uploads"`
	S3Bucket        string `env:"AWS_S3_BUCKET" env-default:""`
	S3Region        string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	S3Endpoint      string `env:"AWS_S3_ENDPOINT" env-default:""`
	S3PublicBaseURL string `env:"AWS_S3_PUBLIC_URL" env-default:""`
	S3UsePathStyle  bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	S3CreateBucket  bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
}

// Load reads the environment into an explicit ServerConfig.
func Load() (*ServerConfig, error) {
	var env EnvConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return env.ServerConfig(), nil
}

// ServerConfig maps the env surface onto the explicit configuration struct.
func (e EnvConfig) ServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        e.Port,
		Environment: e.Environment,
		Database: DatabaseConfig{
			Type:      e.Database.Type,
			URL:       e.Database.URL,
			Bootstrap: e.Database.Bootstrap,
			Dynamo: DynamoConfig{
				Region:            e.Database.Region,
				Endpoint:          e.Database.DynamoEndpoint,
				AccessKeyID:       e.Storage.AccessKeyID,
				SecretAccessKey:   e.Storage.SecretAccessKey,
				CertificatesTable: e.Database.CertificatesTable,
				GalleryTable:      e.Database.GalleryTable,
			},
		},
		Storage: StorageConfig{
			Type: e.Storage.Type,
			FS: FSConfig{
				BaseDir:   e.Storage.FSBaseDir,
				URLPrefix: e.Storage.FSURLPrefix,
			},
			S3: S3Config{
				Region:                 e.Storage.S3Region,
				Bucket:                 e.Storage.S3Bucket,
				AccessKeyID:            e.Storage.AccessKeyID,
				SecretAccessKey:        e.Storage.SecretAccessKey,
				Endpoint:               e.Storage.S3Endpoint,
				UsePathStyle:           e.Storage.S3UsePathStyle,
				PublicBaseURL:          e.Storage.S3PublicBaseURL,
				CreateBucketIfNotExist: e.Storage.S3CreateBucket,
			},
		},
	}
}
