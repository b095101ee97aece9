// Package source fetches a batch of raw transaction records from a locator.
// Two kinds are supported: local filesystem paths and GCS object URIs. The
// payload is a JSON document of the shape {"transactions": [...]}.
package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dvloznov/transaction-ingest/internal/domain"
)

// Supported source kinds.
const (
	KindLocal = "local"
	KindGCS   = "gcs"
)

// RecordSource supplies the records of one batch. Fetch fails with
// *NotFoundError when the locator does not resolve to a file or object.
type RecordSource interface {
	Fetch(ctx context.Context, locator string) ([]domain.TransactionRecord, error)
}

// NotFoundError reports a locator that did not resolve.
type NotFoundError struct {
	Locator string
	Err     error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("source file not found: %s", e.Locator)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// UnsupportedKindError reports a source kind outside the supported set.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("incorrect source %q, it must be one of 'local' or 'gcs'", e.Kind)
}

// ForKind returns the RecordSource for the given kind.
func ForKind(kind string) (RecordSource, error) {
	switch kind {
	case KindLocal:
		return &LocalSource{}, nil
	case KindGCS:
		return &GCSSource{}, nil
	default:
		return nil, &UnsupportedKindError{Kind: kind}
	}
}

type batchFile struct {
	Transactions []domain.TransactionRecord `json:"transactions"`
}

func decodeRecords(data []byte, locator string) ([]domain.TransactionRecord, error) {
	var batch batchFile
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decoding batch file %q: %w", locator, err)
	}
	return batch.Transactions, nil
}
