package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dvloznov/transaction-ingest/internal/domain"
)

// LocalSource reads a batch file from the local filesystem.
type LocalSource struct{}

func (s *LocalSource) Fetch(ctx context.Context, locator string) ([]domain.TransactionRecord, error) {
	data, err := os.ReadFile(locator)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Locator: locator, Err: err}
		}
		return nil, fmt.Errorf("reading local file %q: %w", locator, err)
	}
	return decodeRecords(data, locator)
}
