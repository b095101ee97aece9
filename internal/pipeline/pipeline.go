// Package pipeline runs the data-quality checks over one batch of
// transaction records and reconciles the clean and rejected sets into the
// store. A batch is processed end-to-end, single-threaded: fetch, checks,
// writes, then the quality verdict.
package pipeline

import (
	"context"

	"github.com/dvloznov/transaction-ingest/internal/domain"
	"github.com/dvloznov/transaction-ingest/internal/logger"
)

// RecordFetcher supplies the raw records of one batch.
type RecordFetcher interface {
	Fetch(ctx context.Context, locator string) ([]domain.TransactionRecord, error)
}

// Store is the boundary to the persistent store. Each method issues exactly
// one statement and reports the number of rows written. Implementations must
// be idempotent on the logical keys: (customerId, transactionId) for
// transactions, customerId for summaries.
type Store interface {
	UpsertTransactions(ctx context.Context, rows []domain.TransactionRecord) (int64, error)
	UpsertCustomerSummaries(ctx context.Context, rows []domain.CustomerSummary) (int64, error)
	InsertRejectedLogs(ctx context.Context, rows []domain.RejectedRecord) (int64, error)
}

// RunTracker records the lifecycle of one batch load for auditing.
// MarkLoadRunFailed is best-effort: it logs its own failures and never
// returns one, so it is safe to call on an error path.
type RunTracker interface {
	StartLoadRun(ctx context.Context, locator string) (string, error)
	MarkLoadRunFailed(ctx context.Context, runID string, runErr error)
	MarkLoadRunSucceeded(ctx context.Context, runID string, result domain.BatchResult, withRejects bool) error
}

// Batch processes input files against a store.
type Batch struct {
	pipeline *Pipeline
	runs     RunTracker
}

func NewBatch(source RecordFetcher, store Store, runs RunTracker) *Batch {
	return &Batch{
		pipeline: NewBatchPipeline(source, store, runs),
		runs:     runs,
	}
}

// Process ingests one batch file. The clean set and the derived customer
// summaries are always persisted; the rejected set is persisted when
// non-empty. Only after all writes succeed does Process report a
// *BatchQualityError if any check produced rejects; an error of that type
// means the store WAS written and the error log needs review. Any other
// error aborted the remaining writes.
//
// The audit record closes after the verdict is settled. If closing it fails
// on a contaminated batch the quality verdict still reaches the caller; on a
// clean batch the close error is returned.
func (b *Batch) Process(ctx context.Context, locator string) (domain.BatchResult, error) {
	log := logger.FromContext(ctx)

	state := &BatchState{Locator: locator}
	if err := b.pipeline.Execute(ctx, state); err != nil {
		return state.Result, err
	}

	withRejects := len(state.Messages) > 0
	markErr := b.runs.MarkLoadRunSucceeded(ctx, state.RunID, state.Result, withRejects)
	if markErr != nil {
		log.Error().Err(markErr).Str("run_id", state.RunID).Msg("closing the load run audit record failed")
	}

	if withRejects {
		log.Warn().
			Strs("checks", state.Messages).
			Int64("rejected_rows", state.Result.RejectedWritten).
			Msg("batch persisted with data-quality rejects")
		return state.Result, &BatchQualityError{Messages: state.Messages}
	}
	if markErr != nil {
		return state.Result, markErr
	}

	log.Info().
		Int64("transactions", state.Result.TransactionsWritten).
		Int64("customers", state.Result.CustomersWritten).
		Msg("batch persisted clean")
	return state.Result, nil
}
