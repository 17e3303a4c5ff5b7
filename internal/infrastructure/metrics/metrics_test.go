package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/savingsboard/core/internal/ports"
)

var _ ports.MetricsRecorder = (*Metrics)(nil)

func TestBoardCollectors(t *testing.T) {
	m := New()

	m.DepositToggled(true)
	m.DepositToggled(true)
	m.DepositToggled(false)
	m.BoardReset(false)
	m.StorageError(ports.StorageOpSave)
	m.BoardChanged(205, 2)

	if got := testutil.ToFloat64(m.togglesTotal.WithLabelValues("added")); got != 2 {
		t.Errorf("added toggles = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.togglesTotal.WithLabelValues("removed")); got != 1 {
		t.Errorf("removed toggles = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.resetsTotal.WithLabelValues("false")); got != 1 {
		t.Errorf("declined resets = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.storageErrors.WithLabelValues("save")); got != 1 {
		t.Errorf("save errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.boardTotal); got != 205 {
		t.Errorf("board total = %v, want 205", got)
	}
	if got := testutil.ToFloat64(m.boardCount); got != 2 {
		t.Errorf("board count = %v, want 2", got)
	}
}
