package edge

import (
	"testing"

	"github.com/structasic/fabgen/internal/testutil"
	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/fabric"
	"github.com/structasic/fabgen/pkg/geom"
)

func TestSynthesizeFullRing(t *testing.T) {
	cfg := testutil.Fabric()
	cells, arr := testutil.Array(t, cfg)

	ring, rep := Synthesize(arr, cfg.EdgeCells, cells)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors: %v", rep.Err())
	}

	want := Extents{Left: 12, Right: 12, Top: 1, Bottom: 1}
	if ring.Extents != want {
		t.Errorf("Extents = %+v, want %+v", ring.Extents, want)
	}
	if ring.CoreSites != 324 || ring.CoreRows != 22 {
		t.Errorf("core = %d x %d, want 324 x 22", ring.CoreSites, ring.CoreRows)
	}

	counts := map[fabric.Direction]int{fabric.Left: 20, fabric.Right: 20, fabric.Top: 81, fabric.Bottom: 81}
	for d, n := range counts {
		if got := ring.Count(d); got != n {
			t.Errorf("Count(%s) = %d, want %d", d, got, n)
		}
	}
	if len(ring.Instances) != 202 {
		t.Errorf("instances = %d, want 202", len(ring.Instances))
	}

	byName := make(map[string]Instance)
	for _, inst := range ring.Instances {
		if _, dup := byName[inst.Name]; dup {
			t.Fatalf("duplicate instance name %s", inst.Name)
		}
		byName[inst.Name] = inst
	}

	tests := []struct {
		name   string
		origin geom.Point
	}{
		{"DECAP12_EDGE_LEFT_0", geom.Point{X: 0, Y: 1}},
		{"DECAP12_EDGE_LEFT_19", geom.Point{X: 0, Y: 20}},
		{"DECAP12_EDGE_RIGHT_0", geom.Point{X: 312, Y: 1}},
		{"DECAP4_EDGE_BOTTOM_0", geom.Point{X: 0, Y: 0}},
		{"DECAP4_EDGE_BOTTOM_80", geom.Point{X: 320, Y: 0}},
		{"DECAP4_EDGE_TOP_80", geom.Point{X: 320, Y: 21}},
	}
	for _, tt := range tests {
		inst, ok := byName[tt.name]
		if !ok {
			t.Errorf("%s missing", tt.name)
			continue
		}
		if inst.Origin != tt.origin {
			t.Errorf("%s origin = %v, want %v", tt.name, inst.Origin, tt.origin)
		}
	}
}

func TestSynthesizeNoEdges(t *testing.T) {
	cfg := testutil.Fabric()
	cfg.EdgeCells = nil
	cells, arr := testutil.Array(t, cfg)

	ring, rep := Synthesize(arr, nil, cells)
	if rep.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.Diagnostics())
	}
	if len(ring.Instances) != 0 {
		t.Errorf("instances = %d, want 0", len(ring.Instances))
	}
	if ring.CoreSites != 300 || ring.CoreRows != 20 {
		t.Errorf("core = %d x %d, want 300 x 20", ring.CoreSites, ring.CoreRows)
	}
}

func TestSynthesizeDisabledSide(t *testing.T) {
	cfg := testutil.Fabric()
	cfg.EdgeCells.Top.Enable = false
	cells, arr := testutil.Array(t, cfg)

	ring, rep := Synthesize(arr, cfg.EdgeCells, cells)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors: %v", rep.Err())
	}
	if !rep.Has(ferrors.ErrCodeEdgeDisabled) {
		t.Error("want EDGE_DISABLED warning")
	}
	if ring.Extents.Top != 0 || ring.CoreRows != 21 {
		t.Errorf("top = %d, core rows = %d, want 0, 21", ring.Extents.Top, ring.CoreRows)
	}
	if ring.Count(fabric.Top) != 0 {
		t.Errorf("Count(top) = %d, want 0", ring.Count(fabric.Top))
	}
}

func TestSynthesizeErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fabric.EdgeCells)
		code   ferrors.Code
	}{
		{"unknown cell", func(e *fabric.EdgeCells) { e.Left.Cell = "NOPE" }, ferrors.ErrCodeUnknownCellType},
		// 12 + 300 + 12 = 324 is not a multiple of 17.
		{"width mismatch", func(e *fabric.EdgeCells) { e.Bottom.Cell = "DFF" }, ferrors.ErrCodeEdgeRowWidthMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutil.Fabric()
			tt.mutate(cfg.EdgeCells)
			cells, arr := testutil.Array(t, cfg)
			_, rep := Synthesize(arr, cfg.EdgeCells, cells)
			if !rep.Has(tt.code) {
				t.Errorf("want %s, got %v", tt.code, rep.Diagnostics())
			}
		})
	}
}
