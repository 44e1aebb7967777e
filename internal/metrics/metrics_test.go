package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRecorder_WriteFile(t *testing.T) {
	r := New()
	r.Plan(StatusDone)
	r.Plan(StatusDone)
	r.Plan(StatusSkipped)
	r.Part("Part01", 5, 5)
	r.Part("Part02", 5, 3)

	fn := filepath.Join(t.TempDir(), "agpsplice.prom")
	if err := r.WriteFile(fn); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := os.ReadFile(fn)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(b)
	for _, want := range []string{
		`agpsplice_plans_total{status="done"} 2`,
		`agpsplice_plans_total{status="skipped"} 1`,
		`agpsplice_plans_total{status="failed"} 0`,
		`agpsplice_identifiers{part="Part02"} 5`,
		`agpsplice_sequences{part="Part02"} 3`,
		`agpsplice_reconciliation_mismatches_total 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRecorder_Gather(t *testing.T) {
	r := New()
	mfs, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	// gauge vecs with no children are omitted
	if len(mfs) != 2 {
		t.Fatalf("want 2 families before any part, got %d", len(mfs))
	}
}
