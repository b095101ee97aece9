package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestForKind(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"local", false},
		{"gcs", false},
		{"s3", true},
		{"", true},
		{"LOCAL", true}, // kinds are case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			src, err := ForKind(tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ForKind(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
			if tt.wantErr {
				var kindErr *UnsupportedKindError
				if !errors.As(err, &kindErr) {
					t.Errorf("ForKind(%q) error type = %T, want *UnsupportedKindError", tt.kind, err)
				}
			} else if src == nil {
				t.Errorf("ForKind(%q) returned nil source", tt.kind)
			}
		})
	}
}

func TestLocalSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	payload := `{
		"transactions": [
			{
				"customerId": "C1",
				"customerName": "Ada Lovelace",
				"transactionId": "T1",
				"transactionDate": "2024-01-15",
				"sourceDate": "2024-01-15T10:00:00Z",
				"merchantId": "M1",
				"categoryId": "CAT1",
				"currency": "GBP",
				"amount": 12.34,
				"description": "coffee"
			}
		]
	}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	src := &LocalSource{}
	records, err := src.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Fetch() returned %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.CustomerID != "C1" || rec.TransactionID != "T1" {
		t.Errorf("unexpected key fields: customerId=%q transactionId=%q", rec.CustomerID, rec.TransactionID)
	}
	if rec.TransactionDate != "2024-01-15" {
		t.Errorf("TransactionDate = %q, want %q", rec.TransactionDate, "2024-01-15")
	}
	if !rec.Amount.Equal(decimal.RequireFromString("12.34")) {
		t.Errorf("Amount = %s, want 12.34", rec.Amount)
	}
}

func TestLocalSource_Fetch_NotFound(t *testing.T) {
	src := &LocalSource{}
	_, err := src.Fetch(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("Fetch() expected error for missing file, got nil")
	}

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Fetch() error type = %T, want *NotFoundError", err)
	}
}

func TestLocalSource_Fetch_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"transactions": [`), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	src := &LocalSource{}
	if _, err := src.Fetch(context.Background(), path); err == nil {
		t.Error("Fetch() expected error for malformed JSON, got nil")
	}
}

func TestSplitGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://bucket/path/to/batch.json", "bucket", "path/to/batch.json", false},
		{"gs://bucket/batch.json", "bucket", "batch.json", false},
		{"gs://bucket", "", "", true},
		{"gs://bucket/", "", "", true},
		{"s3://bucket/batch.json", "", "", true},
		{"batch.json", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := splitGCSURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitGCSURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("splitGCSURI(%q) = (%q, %q), want (%q, %q)",
					tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}
