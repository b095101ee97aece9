package pipeline

import (
	"sort"
	"time"

	"github.com/dvloznov/transaction-ingest/internal/domain"
)

// transactionDateLayout is the only accepted transactionDate format.
const transactionDateLayout = "2006-01-02"

// Batch-level messages reported when a check produced at least one reject.
const (
	msgDuplicates      = "Duplicate Record(s)"
	msgInvalidCurrency = "Invalid Currency(s)"
	msgInvalidDate     = "Invalid transactionDate(s)"
)

// allowedCurrencies is the fixed allow-list; matching is a case-sensitive
// exact comparison, no normalization.
var allowedCurrencies = map[string]struct{}{
	"EUR": {},
	"GBP": {},
	"USD": {},
}

// ValidateCurrency partitions records by the currency allow-list. The message
// is non-empty iff at least one record was rejected.
func ValidateCurrency(records []domain.TransactionRecord) (accepted []domain.TransactionRecord, rejected []domain.RejectedRecord, message string) {
	for _, rec := range records {
		if _, ok := allowedCurrencies[rec.Currency]; ok {
			accepted = append(accepted, rec)
			continue
		}
		rejected = append(rejected, domain.RejectedRecord{
			TransactionRecord: rec,
			ErrorReason:       domain.ReasonInvalidCurrency,
		})
	}
	if len(rejected) > 0 {
		message = msgInvalidCurrency
	}
	return accepted, rejected, message
}

// ValidateTransactionDate partitions records by a strict YYYY-MM-DD parse of
// transactionDate. The check is purely syntactic on that one field; calendar
// validity (leap days, day-of-month ranges) comes from the parser itself.
func ValidateTransactionDate(records []domain.TransactionRecord) (accepted []domain.TransactionRecord, rejected []domain.RejectedRecord, message string) {
	for _, rec := range records {
		if _, err := time.Parse(transactionDateLayout, rec.TransactionDate); err != nil {
			rejected = append(rejected, domain.RejectedRecord{
				TransactionRecord: rec,
				ErrorReason:       domain.ReasonInvalidDate,
			})
			continue
		}
		accepted = append(accepted, rec)
	}
	if len(rejected) > 0 {
		message = msgInvalidDate
	}
	return accepted, rejected, message
}

// Deduplicate resolves records sharing a (customerId, transactionId) key to
// the single record with the greatest sourceDate; on equal sourceDates the
// later input position wins. Every other member of a conflicting group is
// rejected. Accepted records keep their input order.
func Deduplicate(records []domain.TransactionRecord) (accepted []domain.TransactionRecord, rejected []domain.RejectedRecord, message string) {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	// Stable sort by sourceDate ascending: walking the sorted positions and
	// overwriting per key leaves the survivor at the maximum sourceDate,
	// ties resolved to the later input position.
	sort.SliceStable(order, func(a, b int) bool {
		return records[order[a]].SourceDate < records[order[b]].SourceDate
	})

	survivors := make(map[domain.TransactionKey]int, len(records))
	for _, idx := range order {
		survivors[records[idx].Key()] = idx
	}

	for i, rec := range records {
		if survivors[rec.Key()] == i {
			accepted = append(accepted, rec)
			continue
		}
		rejected = append(rejected, domain.RejectedRecord{
			TransactionRecord: rec,
			ErrorReason:       domain.ReasonDuplicateRecord,
		})
	}
	if len(rejected) > 0 {
		message = msgDuplicates
	}
	return accepted, rejected, message
}

// RunChecks applies the data-quality checks in their fixed order: currency,
// then transactionDate, then deduplication. Each check consumes the previous
// check's accepted set, so a record rejected upstream is never re-evaluated.
// The combined rejected set lists duplicates first, then currency rejects,
// then date rejects; messages follow the same order.
func RunChecks(records []domain.TransactionRecord) (clean []domain.TransactionRecord, rejected []domain.RejectedRecord, messages []string) {
	afterCurrency, currencyRejects, currencyMsg := ValidateCurrency(records)
	afterDate, dateRejects, dateMsg := ValidateTransactionDate(afterCurrency)
	clean, dupRejects, dupMsg := Deduplicate(afterDate)

	rejected = append(rejected, dupRejects...)
	rejected = append(rejected, currencyRejects...)
	rejected = append(rejected, dateRejects...)

	for _, msg := range []string{dupMsg, currencyMsg, dateMsg} {
		if msg != "" {
			messages = append(messages, msg)
		}
	}
	return clean, rejected, messages
}
