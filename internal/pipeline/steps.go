package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/transaction-ingest/internal/domain"
	"github.com/dvloznov/transaction-ingest/internal/logger"
)

// Step is a single stage of the batch pipeline.
type Step interface {
	Execute(ctx context.Context, state *BatchState) error
}

// BatchState holds the shared state across all pipeline steps.
type BatchState struct {
	Locator   string
	RunID     string
	Records   []domain.TransactionRecord
	Clean     []domain.TransactionRecord
	Rejected  []domain.RejectedRecord
	Messages  []string
	Summaries []domain.CustomerSummary
	Result    domain.BatchResult
}

// StartLoadRunStep opens the audit record for this batch.
type StartLoadRunStep struct {
	Runs RunTracker
}

func (s *StartLoadRunStep) Execute(ctx context.Context, state *BatchState) error {
	runID, err := s.Runs.StartLoadRun(ctx, state.Locator)
	if err != nil {
		return err
	}
	state.RunID = runID
	return nil
}

// FetchRecordsStep pulls the raw records from the source. A source failure
// aborts before any check runs.
type FetchRecordsStep struct {
	Source RecordFetcher
	Runs   RunTracker
}

func (s *FetchRecordsStep) Execute(ctx context.Context, state *BatchState) error {
	records, err := s.Source.Fetch(ctx, state.Locator)
	if err != nil {
		s.Runs.MarkLoadRunFailed(ctx, state.RunID, err)
		return err
	}
	state.Records = records
	return nil
}

// RunChecksStep partitions the batch into clean and rejected sets.
type RunChecksStep struct{}

func (s *RunChecksStep) Execute(ctx context.Context, state *BatchState) error {
	log := logger.FromContext(ctx)
	log.Info().Int("records", len(state.Records)).Msg("running DQ checks")

	state.Clean, state.Rejected, state.Messages = RunChecks(state.Records)

	log.Info().
		Int("clean", len(state.Clean)).
		Int("rejected", len(state.Rejected)).
		Msg("DQ checks completed")
	return nil
}

// ProjectSummariesStep derives the per-customer summary rows.
type ProjectSummariesStep struct{}

func (s *ProjectSummariesStep) Execute(ctx context.Context, state *BatchState) error {
	state.Summaries = ProjectCustomerSummaries(state.Clean)
	return nil
}

// WriteTransactionsStep upserts the clean set. Writes happen regardless of
// whether any check failed.
type WriteTransactionsStep struct {
	Store Store
	Runs  RunTracker
}

func (s *WriteTransactionsStep) Execute(ctx context.Context, state *BatchState) error {
	n, err := s.Store.UpsertTransactions(ctx, state.Clean)
	if err != nil {
		s.Runs.MarkLoadRunFailed(ctx, state.RunID, err)
		return err
	}
	state.Result.TransactionsWritten = n
	return nil
}

// WriteSummariesStep upserts the customer summary rows.
type WriteSummariesStep struct {
	Store Store
	Runs  RunTracker
}

func (s *WriteSummariesStep) Execute(ctx context.Context, state *BatchState) error {
	n, err := s.Store.UpsertCustomerSummaries(ctx, state.Summaries)
	if err != nil {
		s.Runs.MarkLoadRunFailed(ctx, state.RunID, err)
		return err
	}
	state.Result.CustomersWritten = n
	return nil
}

// WriteRejectedStep appends the rejected records to the error log. Skipped
// when no check rejected anything.
type WriteRejectedStep struct {
	Store Store
	Runs  RunTracker
}

func (s *WriteRejectedStep) Execute(ctx context.Context, state *BatchState) error {
	if len(state.Rejected) == 0 {
		return nil
	}
	n, err := s.Store.InsertRejectedLogs(ctx, state.Rejected)
	if err != nil {
		s.Runs.MarkLoadRunFailed(ctx, state.RunID, err)
		return err
	}
	state.Result.RejectedWritten = n
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *BatchState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewBatchPipeline wires the standard step order for one batch load. The
// audit record is closed by the caller once the quality verdict is known.
func NewBatchPipeline(source RecordFetcher, store Store, runs RunTracker) *Pipeline {
	return NewPipeline(
		&StartLoadRunStep{Runs: runs},
		&FetchRecordsStep{Source: source, Runs: runs},
		&RunChecksStep{},
		&ProjectSummariesStep{},
		&WriteTransactionsStep{Store: store, Runs: runs},
		&WriteSummariesStep{Store: store, Runs: runs},
		&WriteRejectedStep{Store: store, Runs: runs},
	)
}
