package memory

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// BucketStore is an in-process attachment store producing URLs with the
// same shape as real presigned ones. Tests can make Delete fail to
// exercise the non-atomic delete flow.
type BucketStore struct {
	mu         sync.Mutex
	bucket     string
	expiration time.Duration
	deleted    []string
	deleteErr  error
}

func NewBucketStore(bucket string, expiration time.Duration) *BucketStore {
	return &BucketStore{
		bucket:     bucket,
		expiration: expiration,
	}
}

func (b *BucketStore) BucketName() string {
	return b.bucket
}

func (b *BucketStore) SignedUploadURL(ctx context.Context, key string) (string, error) {
	url := fmt.Sprintf(
		"https://%s.s3.amazonaws.com/%s?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Expires=%d&X-Amz-SignedHeaders=host",
		b.bucket, key, int(b.expiration.Seconds()),
	)

	return url, nil
}

func (b *BucketStore) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.deleteErr != nil {
		return b.deleteErr
	}

	b.deleted = append(b.deleted, key)

	return nil
}

// FailDeleteWith makes every subsequent Delete return err.
func (b *BucketStore) FailDeleteWith(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deleteErr = err
}

// Deleted reports the keys removed so far.
func (b *BucketStore) Deleted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.deleted...)
}
