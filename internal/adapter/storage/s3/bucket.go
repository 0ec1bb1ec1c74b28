package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

func NewClient(ctx context.Context) (*awss3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)

	if err != nil {
		return nil, err
	}

	return awss3.NewFromConfig(cfg), nil
}

// BucketStore manages attachment objects in one bucket. Bucket name and
// URL expiration are fixed at construction.
type BucketStore struct {
	client     *awss3.Client
	presign    *awss3.PresignClient
	bucket     string
	expiration time.Duration
}

func NewBucketStore(client *awss3.Client, bucket string, expiration time.Duration) *BucketStore {
	return &BucketStore{
		client:     client,
		presign:    awss3.NewPresignClient(client),
		bucket:     bucket,
		expiration: expiration,
	}
}

func (b *BucketStore) BucketName() string {
	return b.bucket
}

// SignedUploadURL produces a time-limited URL permitting one HTTP PUT of
// the object. The signature is computed locally from stored credentials.
func (b *BucketStore) SignedUploadURL(ctx context.Context, key string) (string, error) {
	req, err := b.presign.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(b.expiration))

	if err != nil {
		return "", fmt.Errorf("presigning upload url: %w", err)
	}

	return req.URL, nil
}

// Delete removes the object at key; a missing object is not an error.
func (b *BucketStore) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return fmt.Errorf("deleting attachment %s: %w", key, err)
	}

	return nil
}
