package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/recibo/receipts-server/internal/model"
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}
func (w minioClientWrapper) RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
	return w.c.RemoveObjects(ctx, bucketName, objectsCh, opts)
}

// Logger is the subset of the application logger the client uses.
type Logger interface {
	Warn(msg string, args ...any)
}

var _ model.Storage = (*Client)(nil)

type Client struct {
	api           minioAPI
	bucket        string
	publicBaseURL string
	logger        Logger
}

// NewClient creates a new MinIO storage client using a real *minio.Client instance.
func NewClient(ctx context.Context, client *minio.Client, bucket, publicBaseURL string, logger Logger) (*Client, error) {
	return NewClientWithAPI(ctx, minioClientWrapper{c: client}, bucket, publicBaseURL, logger)
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket, publicBaseURL string, logger Logger) (*Client, error) {
	c := &Client{
		api:           api,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		logger:        logger,
	}

	// Ensure bucket exists
	err := c.ensureBucketExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

// ensureBucketExists creates the bucket if it doesn't exist
func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload stores an object under key. Public objects carry the public-read
// ACL header so the bucket URL serves them directly.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string, public bool) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if public {
		opts.UserMetadata = map[string]string{"x-amz-acl": "public-read"}
	}

	_, err := c.api.PutObject(ctx, c.bucket, key, reader, size, opts)
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// Delete removes an object. An empty or root key means "no object" and is
// a logged no-op, never an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" || key == "/" {
		c.logger.Warn("skipping delete of empty object key")
		return nil
	}

	err := c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeleteMany batch-deletes the given keys, skipping empty ones. The shared
// key-prefix "directory" entry of the first key is removed as well,
// best-effort.
func (c *Client) DeleteMany(ctx context.Context, keys []string) error {
	nonEmpty := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" && key != "/" {
			nonEmpty = append(nonEmpty, key)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(nonEmpty))
	for _, key := range nonEmpty {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	var errs []error
	for removeErr := range c.api.RemoveObjects(ctx, c.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if removeErr.Err != nil {
			errs = append(errs, fmt.Errorf("failed to delete object %s: %w", removeErr.ObjectName, removeErr.Err))
		}
	}

	if dir := path.Dir(nonEmpty[0]); dir != "." && dir != "/" {
		if err := c.api.RemoveObject(ctx, c.bucket, dir+"/", minio.RemoveObjectOptions{}); err != nil {
			c.logger.Warn("failed to delete directory entry", "dir", dir, "error", err.Error())
		}
	}

	return errors.Join(errs...)
}

// PublicURL expands a storage key into a public URL. The empty key stays
// empty, it denotes "no image".
func (c *Client) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return c.publicBaseURL + "/" + key
}
