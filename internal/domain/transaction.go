package domain

import "github.com/shopspring/decimal"

// RedactedCustomerName replaces the source customerName in every persisted
// row. The plain value never reaches the store.
const RedactedCustomerName = "******"

// Error reasons attached to records that fail a data-quality check.
const (
	ReasonDuplicateRecord = "Duplicate Record"
	ReasonInvalidCurrency = "Invalid Currency"
	ReasonInvalidDate     = "Invalid transactionDate"
)

// TransactionRecord is one financial transaction as reported by the source
// file. Both date fields are kept as the raw strings from the input:
// transactionDate is validated syntactically by the date check, and
// sourceDate is only ever compared, never parsed (ISO 8601 timestamps order
// lexicographically).
type TransactionRecord struct {
	CustomerID      string          `json:"customerId"`
	CustomerName    string          `json:"customerName"`
	TransactionID   string          `json:"transactionId"`
	TransactionDate string          `json:"transactionDate"`
	SourceDate      string          `json:"sourceDate"`
	MerchantID      string          `json:"merchantId"`
	CategoryID      string          `json:"categoryId"`
	Currency        string          `json:"currency"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
}

// TransactionKey is the logical identity of a transaction. The store never
// holds two rows sharing a key; later writes replace earlier ones.
type TransactionKey struct {
	CustomerID    string
	TransactionID string
}

func (r TransactionRecord) Key() TransactionKey {
	return TransactionKey{CustomerID: r.CustomerID, TransactionID: r.TransactionID}
}

// RejectedRecord is a TransactionRecord that failed a data-quality check,
// tagged with the reason. A record that fails several checks appears once per
// failing check.
type RejectedRecord struct {
	TransactionRecord

	ErrorReason string `json:"errorReason"`
}

// CustomerSummary is one row per customer in the accepted set, carrying the
// latest transaction date seen for that customer in the batch.
type CustomerSummary struct {
	CustomerID            string
	TransactionDateLatest string
}
