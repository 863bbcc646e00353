// gcs.go implements the Storage interface on Google Cloud Storage.

package cloudbackend

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage stores files in a Google Cloud Storage bucket.
type GCSStorage struct {
	client *storage.Client
	bucket string
}

// NewGCSStorage creates a Storage implementation backed by the given bucket.
// credsFile may be empty to use ambient credentials.
func NewGCSStorage(ctx context.Context, bucket, credsFile string) (*GCSStorage, error) {
	var opts []option.ClientOption
	if credsFile != "" {
		if _, err := os.Stat(credsFile); err != nil {
			return nil, fmt.Errorf("credentials file %s: %w", credsFile, err)
		}
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStorage{
		client: client,
		bucket: bucket,
	}, nil
}

// Upload copies a local file to the bucket under remotePath.
func (g *GCSStorage) Upload(ctx context.Context, localPath, remotePath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file %s: %w", localPath, err)
	}
	defer f.Close()

	w := g.client.Bucket(g.bucket).Object(remotePath).NewWriter(ctx)
	w.ContentType = "application/octet-stream"

	if _, err := io.Copy(w, f); err != nil {
		// Close the writer to abort the upload and release its resources
		// before surfacing the copy error.
		w.Close()
		return fmt.Errorf("failed to copy %s to gs://%s/%s: %w", localPath, g.bucket, remotePath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish upload of %s: %w", remotePath, err)
	}
	return nil
}

// Delete removes an object from the bucket.
func (g *GCSStorage) Delete(ctx context.Context, remotePath string) error {
	if err := g.client.Bucket(g.bucket).Object(remotePath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete gs://%s/%s: %w", g.bucket, remotePath, err)
	}
	return nil
}

// Close releases the underlying storage client.
func (g *GCSStorage) Close() error {
	return g.client.Close()
}
