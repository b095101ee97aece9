package postgres

import (
	"errors"
	"fmt"
	"testing"
)

func TestValuesPlaceholders(t *testing.T) {
	tests := []struct {
		rows int
		cols int
		want string
	}{
		{1, 2, "($1,$2)"},
		{2, 2, "($1,$2),($3,$4)"},
		{1, 1, "($1)"},
		{3, 3, "($1,$2,$3),($4,$5,$6),($7,$8,$9)"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d", tt.rows, tt.cols), func(t *testing.T) {
			if got := valuesPlaceholders(tt.rows, tt.cols); got != tt.want {
				t.Errorf("valuesPlaceholders(%d, %d) = %q, want %q", tt.rows, tt.cols, got, tt.want)
			}
		})
	}
}

func TestWriteError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &WriteError{Op: "upsert transactions", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
	want := "store write upsert transactions: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
