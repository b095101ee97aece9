package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/transaction-ingest/internal/domain"
	"github.com/dvloznov/transaction-ingest/internal/logger"
)

const transactionDateLayout = "2006-01-02"

// UpsertTransactions writes the clean set, keyed on
// (customerId, transactionId). On conflict every non-key column is
// overwritten with the incoming value. customerName is always stored as the
// redaction marker, never the source value.
func (w *Writer) UpsertTransactions(ctx context.Context, rows []domain.TransactionRecord) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(rows)*10)
	for _, r := range rows {
		date, err := time.Parse(transactionDateLayout, r.TransactionDate)
		if err != nil {
			return 0, &WriteError{
				Op:  "upsert transactions",
				Err: fmt.Errorf("unparseable transactionDate %q for %s/%s", r.TransactionDate, r.CustomerID, r.TransactionID),
			}
		}
		args = append(args,
			r.CustomerID, domain.RedactedCustomerName, r.TransactionID, date,
			r.SourceDate, r.MerchantID, r.CategoryID, r.Currency, r.Amount, r.Description)
	}

	query := fmt.Sprintf(`
		INSERT INTO transactions ("customerId", "customerName", "transactionId", "transactionDate",
		                          "sourceDate", "merchantId", "categoryId", "currency", "amount", "description")
		VALUES %s
		ON CONFLICT ("customerId", "transactionId")
		DO UPDATE SET "customerName"    = EXCLUDED."customerName",
		              "transactionDate" = EXCLUDED."transactionDate",
		              "sourceDate"      = EXCLUDED."sourceDate",
		              "merchantId"      = EXCLUDED."merchantId",
		              "categoryId"      = EXCLUDED."categoryId",
		              "currency"        = EXCLUDED."currency",
		              "amount"          = EXCLUDED."amount",
		              "description"     = EXCLUDED."description"
	`, valuesPlaceholders(len(rows), 10))

	tag, err := w.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, &WriteError{Op: "upsert transactions", Err: err}
	}

	log := logger.FromContext(ctx)
	log.Info().Int64("rows", tag.RowsAffected()).Msg("transactions loaded")
	return tag.RowsAffected(), nil
}

// UpsertCustomerSummaries writes one row per customer, keyed on customerId.
// On conflict transactionDateLatest is overwritten unconditionally: last
// write wins, there is no max-comparison against the stored value.
func (w *Writer) UpsertCustomerSummaries(ctx context.Context, rows []domain.CustomerSummary) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(rows)*2)
	for _, r := range rows {
		date, err := time.Parse(transactionDateLayout, r.TransactionDateLatest)
		if err != nil {
			return 0, &WriteError{
				Op:  "upsert customer summaries",
				Err: fmt.Errorf("unparseable transactionDateLatest %q for %s", r.TransactionDateLatest, r.CustomerID),
			}
		}
		args = append(args, r.CustomerID, date)
	}

	query := fmt.Sprintf(`
		INSERT INTO customers ("customerId", "transactionDateLatest")
		VALUES %s
		ON CONFLICT ("customerId")
		DO UPDATE SET "transactionDateLatest" = EXCLUDED."transactionDateLatest"
	`, valuesPlaceholders(len(rows), 2))

	tag, err := w.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, &WriteError{Op: "upsert customer summaries", Err: err}
	}

	log := logger.FromContext(ctx)
	log.Info().Int64("rows", tag.RowsAffected()).Msg("customers loaded")
	return tag.RowsAffected(), nil
}

// InsertRejectedLogs appends the rejected records with their error reasons.
// No conflict handling: the log keeps every rejection of every run. The
// transactionDate goes in as the raw string, since rejected records may carry
// unparseable values.
func (w *Writer) InsertRejectedLogs(ctx context.Context, rows []domain.RejectedRecord) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(rows)*11)
	for _, r := range rows {
		args = append(args,
			r.CustomerID, domain.RedactedCustomerName, r.TransactionID, r.TransactionDate,
			r.SourceDate, r.MerchantID, r.CategoryID, r.Currency, r.Amount, r.Description,
			r.ErrorReason)
	}

	query := fmt.Sprintf(`
		INSERT INTO error_logs ("customerId", "customerName", "transactionId", "transactionDate",
		                        "sourceDate", "merchantId", "categoryId", "currency", "amount", "description",
		                        "errorReason")
		VALUES %s
	`, valuesPlaceholders(len(rows), 11))

	tag, err := w.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, &WriteError{Op: "insert rejected logs", Err: err}
	}

	log := logger.FromContext(ctx)
	log.Info().Int64("rows", tag.RowsAffected()).Msg("error logs loaded")
	return tag.RowsAffected(), nil
}

// valuesPlaceholders renders the VALUES clause for rows*cols positional
// parameters: "($1,$2),($3,$4)".
func valuesPlaceholders(rows, cols int) string {
	var b strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(",")
		}
		b.WriteString("(")
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteString(")")
	}
	return b.String()
}
