// Package storage provides archive implementations for raw interchange payloads.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/tradelink/backend/internal/domain/edi"
	infraconfig "github.com/tradelink/backend/internal/infrastructure/config"
)

// edifactContentType is the IANA-registered media type for EDIFACT payloads
const edifactContentType = "application/EDIFACT"

// Ensure S3InterchangeArchive implements the archive port
var _ edi.InterchangeArchive = (*S3InterchangeArchive)(nil)

// S3InterchangeArchive stores raw EDIFACT payloads in an S3-compatible
// object store (AWS S3, MinIO, etc.) so exchanged documents can be
// audited long after the interchange rows themselves are summarized.
type S3InterchangeArchive struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
	logger    *zap.Logger
}

// S3InterchangeArchiveOption is a functional option for configuring S3InterchangeArchive
type S3InterchangeArchiveOption func(*S3InterchangeArchive)

// WithLogger sets a custom logger for S3InterchangeArchive
func WithLogger(logger *zap.Logger) S3InterchangeArchiveOption {
	return func(a *S3InterchangeArchive) {
		a.logger = logger
	}
}

// NewS3InterchangeArchive creates a new S3InterchangeArchive from configuration.
// It supports any S3-compatible storage backend (AWS S3, MinIO, etc.)
func NewS3InterchangeArchive(cfg *infraconfig.ArchiveConfig, opts ...S3InterchangeArchiveOption) (*S3InterchangeArchive, error) {
	if cfg == nil {
		return nil, errors.New("archive configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("archive bucket is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("archive access key is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("archive secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "eu-west-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token (not used for static credentials)
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			if _, err := url.Parse(endpoint); err == nil {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}
	})

	archive := &S3InterchangeArchive{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: strings.Trim(cfg.KeyPrefix, "/"),
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(archive)
	}

	return archive, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (a *S3InterchangeArchive) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	a.logger.Info("Creating archive bucket", zap.String("bucket", a.bucket))
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	a.logger.Info("Archive bucket created successfully", zap.String("bucket", a.bucket))
	return nil
}

// Store archives the payload verbatim and returns the key it is retrievable under
func (a *S3InterchangeArchive) Store(ctx context.Context, interchange *edi.Interchange, payload string) (string, error) {
	if interchange == nil {
		return "", errors.New("interchange is required")
	}
	if payload == "" {
		return "", errors.New("payload is required")
	}

	key := a.archiveKey(interchange)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(payload),
		ContentType: aws.String(edifactContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive interchange %s: %w", interchange.MessageRef, err)
	}

	a.logger.Debug("Archived interchange payload",
		zap.String("key", key),
		zap.String("message_ref", interchange.MessageRef),
		zap.Int("payload_size", len(payload)))

	return key, nil
}

// Retrieve returns the payload stored under the key
func (a *S3InterchangeArchive) Retrieve(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("archive key is required")
	}

	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) || strings.Contains(err.Error(), "NoSuchKey") {
			return "", fmt.Errorf("archived payload not found under key %s", key)
		}
		return "", fmt.Errorf("failed to retrieve archived payload: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read archived payload: %w", err)
	}

	return string(data), nil
}

// archiveKey builds a deterministic object key. Payloads are partitioned
// by direction and receipt date so bucket listings stay navigable.
func (a *S3InterchangeArchive) archiveKey(interchange *edi.Interchange) string {
	created := interchange.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	key := fmt.Sprintf("%s/%s/%s.edi",
		strings.ToLower(string(interchange.Direction)),
		created.UTC().Format("2006/01/02"),
		interchange.MessageRef,
	)
	if a.keyPrefix != "" {
		key = a.keyPrefix + "/" + key
	}
	return key
}
