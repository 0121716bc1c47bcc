// Package gcs archives pages in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
)

// Store uploads archived pages to a configured bucket.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// New creates a GCS-backed Store. The prefix, when set, is prepended to
// every object key.
func New(client *storage.Client, bucket, prefix string) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	return &Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Put uploads data under the prefixed key and returns a gs:// URI.
func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("key is required")
	}
	object := key
	if s.prefix != "" {
		object = s.prefix + "/" + key
	}
	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			return "", fmt.Errorf("write object: %w (close writer: %v)", err, closeErr)
		}
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close writer: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, object), nil
}
