package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/dvloznov/transaction-ingest/internal/domain"
	"github.com/dvloznov/transaction-ingest/internal/logger"
)

// GCSSource downloads a batch file from Google Cloud Storage. Locators look
// like "gs://bucket/path/to/batch.json". Application Default Credentials are
// assumed.
type GCSSource struct{}

func (s *GCSSource) Fetch(ctx context.Context, locator string) ([]domain.TransactionRecord, error) {
	bucketName, objectPath, err := splitGCSURI(locator)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info().Str("bucket", bucketName).Str("object", objectPath).Msg("downloading batch file from GCS")

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, &NotFoundError{Locator: locator, Err: err}
		}
		return nil, fmt.Errorf("opening object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading object %s/%s: %w", bucketName, objectPath, err)
	}

	return decodeRecords(data, locator)
}

// splitGCSURI splits "gs://bucket/path" into bucket and object path.
func splitGCSURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}
