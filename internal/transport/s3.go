package transport

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Transfer streams objects from S3-compatible buckets. Archive mirrors
// publish download links as s3://bucket/key; those buckets are public, so
// requests are unsigned unless credentials are configured in the
// environment.
type S3Transfer struct {
	s3Client *s3.S3
}

type S3TransferOption func(*aws.Config)

func S3WithRegion(region string) S3TransferOption {
	return func(cfg *aws.Config) {
		cfg.Region = aws.String(region)
	}
}

func S3WithEndpoint(endpoint string) S3TransferOption {
	return func(cfg *aws.Config) {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
}

// NewS3Transfer creates a new S3 transfer instance with anonymous access.
func NewS3Transfer(opts ...S3TransferOption) (*S3Transfer, error) {
	cfg := aws.NewConfig().WithCredentials(credentials.AnonymousCredentials)
	for _, opt := range opts {
		opt(cfg)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	return &S3Transfer{
		s3Client: s3.New(sess),
	}, nil
}

// Get opens a streaming read of the object and hands the body to the
// callback. The callback owns closing the body.
func (t *S3Transfer) Get(ctx context.Context, bucket, key string, callback func(body io.ReadCloser, size int64) error) error {
	result, err := t.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}

	size := int64(-1)
	if result.ContentLength != nil {
		size = *result.ContentLength
	}

	return callback(result.Body, size)
}
