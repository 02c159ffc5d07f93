package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m.ObserveOperation("deposit", OutcomeCommitted)
	m.ObserveOperation("deposit", OutcomeCommitted)
	m.ObserveOperation("deposit", OutcomeRejected)

	if got := testutil.ToFloat64(m.operations.WithLabelValues("deposit", OutcomeCommitted)); got != 2 {
		t.Fatalf("committed deposits = %v", got)
	}
	m.SetClaimSupply("0xpool", 10_000_000)
	if got := testutil.ToFloat64(m.claimSupply.WithLabelValues("0xpool")); got != 10_000_000 {
		t.Fatalf("claim supply gauge = %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveOperation("swap", OutcomeCommitted)
	m.SetClaimSupply("p", 1)
	m.AddSwapVolume("p", "a", 1)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m.AddSwapVolume("0xpool", "0xasset", 100)

	path := filepath.Join(t.TempDir(), "amm.prom")
	if err := WriteTextfile(path, reg); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "amm_swap_volume_total") {
		t.Fatalf("textfile missing swap volume:\n%s", data)
	}
}
