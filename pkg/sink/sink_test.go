package sink

import (
	"strings"
	"testing"

	"github.com/structasic/fabgen/internal/testutil"
	"github.com/structasic/fabgen/pkg/edge"
	"github.com/structasic/fabgen/pkg/fabric"
	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/ioring"
	"github.com/structasic/fabgen/pkg/layout"
)

// model builds the 5x5 fixture fabric with two auto pins on the west
// edge and one manual pin on the north edge. The die is 169.04 x 79.84 um.
func model(t *testing.T) *layout.Model {
	t.Helper()
	cfg := testutil.Fabric()
	cfg.IORing = &fabric.IORing{
		PinSize: &fabric.PinSize{Width: 300, Height: 300},
		Edges: []fabric.Edge{
			{Name: "west", Pins: []fabric.Pin{
				{Name: "clk", Type: "clock", Direction: "input"},
				{Name: "rst_n", Type: "signal", Direction: "input"},
			}},
			{Name: "north", Spacing: fabric.SpacingManual, Pins: []fabric.Pin{
				{Name: "dout", Type: "signal", Direction: "output", Position: testutil.Ptr(40.0)},
			}},
		},
	}

	cells, arr := testutil.Array(t, cfg)
	ring, rep := edge.Synthesize(arr, cfg.EdgeCells, cells)
	if rep.HasErrors() {
		t.Fatalf("edge: %v", rep.Err())
	}
	site := cells.Site()
	f := geom.NewFrame(site.Width, site.Height, cells.DBUPerMicron()).
		WithTile(arr.TileWidth(), arr.TileHeight()).
		WithEdges(ring.Extents.Left, ring.Extents.Bottom).
		WithMargins(10000, 10000)
	dims := layout.NewDimensions(arr, ring, f)
	pins, rep := ioring.Place(cfg.IORing, ioring.Geometry{
		DieW: dims.Die.W(), DieH: dims.Die.H(),
		MarginX: f.MarginX, MarginY: f.MarginY,
		PinW: 300, PinH: 300,
		DBUPerMicron: cells.DBUPerMicron(),
	})
	if rep.HasErrors() {
		t.Fatalf("pins: %v", rep.Err())
	}
	m, rep := layout.Build(layout.Input{Config: cfg, Cells: cells, Array: arr, Ring: ring, Pins: pins, Frame: f})
	if rep.HasErrors() {
		t.Fatalf("build: %v", rep.Err())
	}
	return m
}

func mustContain(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q", w)
		}
	}
}
