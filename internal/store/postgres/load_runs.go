package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/transaction-ingest/internal/domain"
	"github.com/dvloznov/transaction-ingest/internal/logger"
)

// Load-run statuses.
const (
	runStatusRunning             = "RUNNING"
	runStatusSucceeded           = "SUCCEEDED"
	runStatusSucceededWithReject = "SUCCEEDED_WITH_REJECTS"
	runStatusFailed              = "FAILED"
)

const maxRunErrorLen = 2000

// StartLoadRun opens the audit record for one batch load and returns its id.
func (w *Writer) StartLoadRun(ctx context.Context, locator string) (string, error) {
	runID := uuid.NewString()

	const query = `
		INSERT INTO load_runs ("runId", "locator", "startedAt", "status")
		VALUES ($1, $2, $3, $4)
	`
	if _, err := w.pool.Exec(ctx, query, runID, locator, time.Now(), runStatusRunning); err != nil {
		return "", &WriteError{Op: "start load run", Err: err}
	}
	return runID, nil
}

// MarkLoadRunFailed closes the audit record with status FAILED. Best effort:
// a failure to record the failure is logged, never surfaced, so the original
// error stays the one the caller sees.
func (w *Writer) MarkLoadRunFailed(ctx context.Context, runID string, runErr error) {
	log := logger.FromContext(ctx)

	msg := ""
	if runErr != nil {
		msg = runErr.Error()
		if len(msg) > maxRunErrorLen {
			msg = msg[:maxRunErrorLen]
		}
	}

	const query = `
		UPDATE load_runs
		SET "status" = $2, "finishedAt" = $3, "errorMessage" = $4
		WHERE "runId" = $1
	`
	if _, err := w.pool.Exec(ctx, query, runID, runStatusFailed, time.Now(), msg); err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("marking load run failed")
	}
}

// MarkLoadRunSucceeded closes the audit record with the final counts. Runs
// that persisted rejects get a distinct status so contaminated batches are
// visible in the audit trail.
func (w *Writer) MarkLoadRunSucceeded(ctx context.Context, runID string, result domain.BatchResult, withRejects bool) error {
	status := runStatusSucceeded
	if withRejects {
		status = runStatusSucceededWithReject
	}

	const query = `
		UPDATE load_runs
		SET "status" = $2, "finishedAt" = $3,
		    "transactionsWritten" = $4, "customersWritten" = $5, "rejectedWritten" = $6
		WHERE "runId" = $1
	`
	if _, err := w.pool.Exec(ctx, query, runID, status, time.Now(),
		result.TransactionsWritten, result.CustomersWritten, result.RejectedWritten); err != nil {
		return &WriteError{Op: "mark load run succeeded", Err: fmt.Errorf("run %s: %w", runID, err)}
	}
	return nil
}
