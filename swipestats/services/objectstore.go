package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appconfig "github.com/swipestats/migrator/swipestats/config"
)

type ObjectStoreConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	Endpoint string `toml:"endpoint"`
	Prefix   string `toml:"prefix"`
}

// Enabled reports whether enough is configured to talk to the object store.
func (c ObjectStoreConfig) Enabled() bool {
	return c.Bucket != "" && c.Region != ""
}

// ObjectStore uploads JSON blobs to an S3 compatible bucket.
type ObjectStore struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
	Prefix   string
}

func NewObjectStore(ctx context.Context, c ObjectStoreConfig) (*ObjectStore, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
	}
	if c.Key != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.Key, c.Secret, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load object store config: %w", err)
	}

	endpoint := strings.TrimSuffix(c.Endpoint, "/")
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &ObjectStore{
		client:   client,
		bucket:   c.Bucket,
		region:   c.Region,
		endpoint: endpoint,
		Prefix:   strings.Trim(c.Prefix, "/"),
	}, nil
}

// Upload stores v as JSON under key (below the configured prefix) and returns
// the object URL.
func (s *ObjectStore) Upload(ctx context.Context, key string, v any) (string, error) {
	var body []byte
	switch b := v.(type) {
	case []byte:
		body = b
	case json.RawMessage:
		body = b
	default:
		var err error
		if body, err = json.Marshal(v); err != nil {
			return "", fmt.Errorf("failed to encode %s: %w", key, err)
		}
	}

	fullKey := s.objectKey(key)

	ctx, cancel := context.WithTimeout(ctx, appconfig.UploadTimeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(fullKey),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(appconfig.JSONContentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", fullKey, err)
	}
	return s.objectURL(fullKey), nil
}

func (s *ObjectStore) objectKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if s.Prefix == "" {
		return key
	}
	return s.Prefix + "/" + key
}

func (s *ObjectStore) objectURL(fullKey string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, fullKey)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, fullKey)
}
