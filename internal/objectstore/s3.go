// Package objectstore persists camera images to S3 or an S3-compatible store.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// s3API is the minimal S3 interface required by S3Store.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes images to a single S3 bucket.
type S3Store struct {
	api    s3API
	bucket string
}

// NewS3Store creates an S3Store for bucket.
func NewS3Store(api s3API, bucket string) (*S3Store, error) {
	if api == nil {
		return nil, errors.New("objectstore: s3 api must not be nil")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("objectstore: bucket name must not be empty")
	}
	return &S3Store{api: api, bucket: bucket}, nil
}

// PutImage uploads data under key with the given content type.
func (s *S3Store) PutImage(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("objectstore: put s3://%s/%s: %w", s.bucket, key, err)
	}
	log.Ctx(ctx).Debug().
		Str("bucket", s.bucket).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("Image stored in S3")
	return nil
}
