package blob

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lumilearn/lumilearn-api/internal/config"
)

// Store abstracts the blob storage the cleanup engine deletes from. The
// only two things the core needs: remove a file by its public URL and know
// whether the store is reachable at all.
type Store interface {
	// DeleteByURL removes the object a storage URL points at. URLs that do
	// not match the storage provider's pattern report false with no error.
	DeleteByURL(ctx context.Context, rawURL string) (bool, error)

	// IsAvailable reports whether the store is configured and usable.
	// Callers degrade gracefully (skip file deletion) when it is not.
	IsAvailable() bool
}

// S3Store implements Store on AWS S3
type S3Store struct {
	client *s3.Client
	region string
	bucket string
}

// NewS3Store builds the S3 client. Missing credentials are not an error:
// the store comes up unavailable and file cleanup is silently skipped.
func NewS3Store(ctx context.Context, cfg config.BlobConfig) (*S3Store, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Region == "" || cfg.Bucket == "" {
		return &S3Store{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		region: cfg.Region,
		bucket: cfg.Bucket,
	}, nil
}

func (s *S3Store) IsAvailable() bool {
	return s != nil && s.client != nil
}

func (s *S3Store) DeleteByURL(ctx context.Context, rawURL string) (bool, error) {
	if !s.IsAvailable() {
		return false, nil
	}

	bucket, key, ok := ParseObjectURL(rawURL)
	if !ok {
		return false, nil
	}

	ctxDel, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.client.DeleteObject(ctxDel, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, fmt.Errorf("s3 delete failed: %w", err)
	}
	return true, nil
}

// ParseObjectURL extracts bucket and key from a virtual-hosted S3 URL of the
// form https://<bucket>.s3.<region>.amazonaws.com/<key>. Local paths and
// foreign URLs report ok=false.
func ParseObjectURL(rawURL string) (bucket, key string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return "", "", false
	}

	host := u.Hostname()
	if !strings.HasSuffix(host, ".amazonaws.com") {
		return "", "", false
	}

	idx := strings.Index(host, ".s3.")
	if idx <= 0 {
		return "", "", false
	}

	bucket = host[:idx]
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
