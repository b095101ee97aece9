package pipeline

import (
	"sort"

	"github.com/dvloznov/transaction-ingest/internal/domain"
)

// ProjectCustomerSummaries derives one summary per distinct customer in the
// clean set, carrying the greatest transactionDate seen for that customer in
// this batch. The clean set has already passed the date check, so the
// YYYY-MM-DD strings order chronologically; ties are resolved to the later
// post-sort position. Summaries come out in first-appearance order of the
// customer.
func ProjectCustomerSummaries(clean []domain.TransactionRecord) []domain.CustomerSummary {
	if len(clean) == 0 {
		return nil
	}

	byDate := make([]domain.TransactionRecord, len(clean))
	copy(byDate, clean)
	sort.SliceStable(byDate, func(a, b int) bool {
		return byDate[a].TransactionDate < byDate[b].TransactionDate
	})

	latest := make(map[string]string, len(clean))
	for _, rec := range byDate {
		latest[rec.CustomerID] = rec.TransactionDate
	}

	seen := make(map[string]bool, len(latest))
	summaries := make([]domain.CustomerSummary, 0, len(latest))
	for _, rec := range clean {
		if seen[rec.CustomerID] {
			continue
		}
		seen[rec.CustomerID] = true
		summaries = append(summaries, domain.CustomerSummary{
			CustomerID:            rec.CustomerID,
			TransactionDateLatest: latest[rec.CustomerID],
		})
	}
	return summaries
}
