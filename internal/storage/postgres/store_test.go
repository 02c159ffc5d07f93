package postgres

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestNumericHoldsFullUint64(t *testing.T) {
	n := numeric(math.MaxUint64)
	if !n.Valid || n.Exp != 0 {
		t.Fatalf("unexpected numeric %+v", n)
	}
	if got := n.Int.String(); got != "18446744073709551615" {
		t.Fatalf("numeric value: got %s", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, err := parseTimestamp("2024-01-02T03:04:05.123456789Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !ts.Equal(time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.UTC)) {
		t.Fatalf("unexpected time %s", ts)
	}
	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Fatalf("expected parse error")
	}
	if ts, err := parseTimestamp(""); err != nil || ts.IsZero() {
		t.Fatalf("empty timestamp should default to now: %s %v", ts, err)
	}
}

func TestNewStoreRequiresDSN(t *testing.T) {
	if _, err := NewStore(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}
