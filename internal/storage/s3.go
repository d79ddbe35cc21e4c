package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/singleflight"
)

// ObjectStoreConfig carries the process-wide object-store settings, loaded
// once at startup.
type ObjectStoreConfig struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	Endpoint     string
	UsePathStyle bool
	Timeout      time.Duration
	PresignTTL   time.Duration
}

// ObjectStore persists artifacts in an S3-compatible bucket, one key prefix
// per category. Retrieval URLs are presigned and time limited.
type ObjectStore struct {
	client     *s3.Client
	presign    *s3.PresignClient
	bucket     string
	timeout    time.Duration
	presignTTL time.Duration
	group      singleflight.Group
	logger     *slog.Logger
}

// NewObjectStore constructs an ObjectStore from static credentials, or from
// the default AWS credential chain when none are configured.
func NewObjectStore(ctx context.Context, cfg ObjectStoreConfig, logger *slog.Logger) (*ObjectStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	presignTTL := cfg.PresignTTL
	if presignTTL <= 0 {
		presignTTL = time.Hour
	}

	return &ObjectStore{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		timeout:    timeout,
		presignTTL: presignTTL,
		logger:     logger,
	}, nil
}

func objectKey(category Category, key string) string {
	return string(category) + "/" + key
}

// Put uploads the content under a fresh storage key. The call carries a
// bounded timeout and reports ErrBackendUnavailable instead of hanging.
func (o *ObjectStore) Put(ctx context.Context, category Category, originalFilename string, r io.Reader) (string, error) {
	key, err := NewKey(category, originalFilename)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	_, err = o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(objectKey(category, key)),
		Body:   r,
		ACL:    types.ObjectCannedACLPrivate,
		Metadata: map[string]string{
			"original-filename": SanitizeFilename(originalFilename),
		},
	})
	if err != nil {
		if o.logger != nil {
			o.logger.Error("s3 put", slog.Any("error", err), slog.String("key", key))
		}
		return "", fmt.Errorf("%w: put object: %v", ErrBackendUnavailable, err)
	}
	return key, nil
}

// ResolveURL presigns a GET for the stored object. The URL expires after the
// configured validity (1 hour by default); callers must re-resolve rather
// than cache it. Concurrent resolutions of the same key are collapsed.
func (o *ObjectStore) ResolveURL(ctx context.Context, category Category, key string) (string, error) {
	if !category.Valid() {
		return "", ErrCategoryRejected
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	url, err, _ := o.group.Do(objectKey(category, key), func() (any, error) {
		req, err := o.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(o.bucket),
			Key:    aws.String(objectKey(category, key)),
		}, s3.WithPresignExpires(o.presignTTL))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: presign: %v", ErrBackendUnavailable, err)
	}
	return url.(string), nil
}

// Delete removes the object if present. Absence is reported as (false, nil),
// matching the local backend's idempotent semantics. Head-then-delete is not
// atomic: two concurrent deleters of the same key can both observe the object
// and both report true.
func (o *ObjectStore) Delete(ctx context.Context, category Category, key string) (bool, error) {
	if !category.Valid() {
		return false, ErrCategoryRejected
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	full := objectKey(category, key)
	_, err := o.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(full),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: head object: %v", ErrBackendUnavailable, err)
	}

	if _, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(full),
	}); err != nil {
		return false, fmt.Errorf("%w: delete object: %v", ErrBackendUnavailable, err)
	}
	return true, nil
}

var _ Backend = (*ObjectStore)(nil)
