// Package archive stores uploaded commission documents in Google Cloud
// Storage so scans can run asynchronously and the originals survive
// restarts.
package archive

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Storage archives document bytes and fetches them back by URI.
// This interface enables mocking in handler and worker tests.
type Storage interface {
	// Upload stores data under a dated object name and returns its gs:// URI.
	Upload(ctx context.Context, filename string, data []byte) (string, error)

	// Fetch downloads the bytes for the given gs:// URI.
	Fetch(ctx context.Context, gcsURI string) ([]byte, error)
}

// GCSArchive is the concrete Storage backed by a GCS bucket. It assumes
// Application Default Credentials are configured.
type GCSArchive struct {
	bucket string
}

func NewGCSArchive(bucket string) *GCSArchive {
	return &GCSArchive{bucket: bucket}
}

// Upload writes the document into the bucket under a per-day prefix with
// a random suffix so repeated uploads of the same file never collide.
func (a *GCSArchive) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("Upload: create storage client: %w", err)
	}
	defer client.Close()

	objectName := ObjectName(filename, time.Now())

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("Upload: write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("Upload: finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}

// Fetch downloads the file bytes from the given GCS URI.
func (a *GCSArchive) Fetch(ctx context.Context, gcsURI string) ([]byte, error) {
	bucketName, objectPath, err := splitURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: create storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading bytes: %w", err)
	}

	return data, nil
}

// ObjectName builds the archive object name for an upload:
// uploads/2006/01/02/<uuid>-<basename>.
func ObjectName(filename string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "document"
	}
	return fmt.Sprintf("uploads/%s/%s-%s", now.Format("2006/01/02"), uuid.NewString(), base)
}

// Filename extracts the original filename from an archive URI.
// e.g. "gs://bucket/uploads/2026/08/31/abc-escrow.pdf" -> "abc-escrow.pdf"
func Filename(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

func splitURI(gcsURI string) (bucket, object string, err error) {
	if !strings.HasPrefix(gcsURI, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}

// Ensure GCSArchive implements Storage.
var _ Storage = (*GCSArchive)(nil)
