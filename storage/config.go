package storage

import (
	"errors"
	"fmt"
	"time"
)

// Provider names.
const (
	ProviderS3     = "s3"
	ProviderMemory = "memory"
)

// Defaults.
const (
	DefaultBucket          = "zillusion-capsule-audio-s3"
	DefaultRegion          = "us-east-1"
	DefaultURLExpiry       = 60 * time.Minute
	DefaultUploadURLExpiry = 15 * time.Minute
)

// Config holds object storage configuration.
type Config struct {
	// Provider selects the backend: "s3" or "memory".
	Provider string `mapstructure:"provider"`

	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`

	// Endpoint is a custom S3-compatible endpoint (e.g. MinIO).
	Endpoint string `mapstructure:"endpoint"`

	// AccessKey and SecretKey are optional; the AWS default credential chain
	// is used when they are empty.
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`

	ForcePathStyle bool `mapstructure:"force_path_style"`

	// URLExpiry is the lifetime of presigned GET URLs.
	URLExpiry time.Duration `mapstructure:"url_expiry"`

	// UploadURLExpiry is the lifetime of presigned PUT URLs.
	UploadURLExpiry time.Duration `mapstructure:"upload_url_expiry"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderS3
	}
	if c.Bucket == "" {
		c.Bucket = DefaultBucket
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.URLExpiry <= 0 {
		c.URLExpiry = DefaultURLExpiry
	}
	if c.UploadURLExpiry <= 0 {
		c.UploadURLExpiry = DefaultUploadURLExpiry
	}
}

// Validate checks the configuration for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderS3:
		var errs []error
		if c.Bucket == "" {
			errs = append(errs, errors.New("bucket is required"))
		}
		if c.Region == "" {
			errs = append(errs, errors.New("region is required"))
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			errs = append(errs, errors.New("access_key and secret_key must be set together"))
		}
		if len(errs) > 0 {
			return fmt.Errorf("storage: invalid s3 config: %w", errors.Join(errs...))
		}
	case ProviderMemory:
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return nil
}
