package domain

// BatchResult carries the row counts of the three store writes of one
// batch load.
type BatchResult struct {
	TransactionsWritten int64
	CustomersWritten    int64
	RejectedWritten     int64
}
