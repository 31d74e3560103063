// Package testutil provides a small sky130-flavoured technology, two tile
// templates and a 5x5 fabric shared by the tests of several packages.
//
// The default fabric is a 5x5 array of 4-row, 60-site LOGIC tiles with
// DECAP12 on the left and right, DECAP4 on the top and bottom and 10 um
// margins. That gives a 300-site, 20-row tile array inside a 324-site,
// 22-row core.
package testutil

import (
	"testing"

	"github.com/structasic/fabgen/pkg/fabric"
	"github.com/structasic/fabgen/pkg/tech"
	"github.com/structasic/fabgen/pkg/tiles"
)

// Technology returns a fresh technology record.
func Technology() *tech.Technology {
	cell := func(name, alias string, width int, typ string, leakage float64) tech.Cell {
		return tech.Cell{
			Name:     "sky130_fd_sc_hd__" + name,
			Alias:    alias,
			Width:    width,
			Height:   1,
			Type:     typ,
			Leakage:  leakage,
			HasPower: leakage > 0,
			Pins:     []tech.Pin{{Name: "Y", Direction: tech.DirectionOutput}},
		}
	}
	dff := cell("dfxtp_1", "DFF", 17, "sequential", 0.0198)
	dff.ClockPin = "CLK"
	dff.Pins = []tech.Pin{
		{Name: "CLK", Direction: tech.DirectionInput, Clock: true},
		{Name: "D", Direction: tech.DirectionInput},
		{Name: "Q", Direction: tech.DirectionOutput},
	}
	return &tech.Technology{
		Name:    "sky130",
		Version: "1.0",
		Units:   tech.Units{Distance: 1000},
		Site:    tech.Site{Name: "unithd", Width: 0.46, Height: 2.72},
		Cells: []tech.Cell{
			cell("tapvpwrvgnd_1", "TAP", 1, "physical", 0),
			cell("nand2_1", "NAND2", 4, "combinational", 0.0021),
			cell("inv_1", "INV", 3, "combinational", 0.0013),
			cell("nor2_1", "NOR2", 4, "combinational", 0.0019),
			cell("buf_1", "BUF", 3, "combinational", 0.0016),
			dff,
			cell("mux2_1", "MUX2", 9, "combinational", 0.0052),
			cell("xor2_1", "XOR2", 6, "combinational", 0.0047),
			cell("decap_4", "DECAP4", 4, "physical", 0.0004),
			cell("decap_12", "DECAP12", 12, "physical", 0.0011),
			cell("fill_1", "FILL1", 1, "physical", 0),
		},
		Layers: []tech.Layer{
			{Name: "met1", Direction: tech.LayerHorizontal, Pitch: 0.34, MinWidth: 0.14},
			{Name: "met2", Direction: tech.LayerVertical, Pitch: 0.46, MinWidth: 0.14},
			{Name: "met3", Direction: tech.LayerHorizontal, Pitch: 0.68, MinWidth: 0.3},
			{Name: "met4", Direction: tech.LayerVertical, Pitch: 0.92, MinWidth: 0.3, Programmable: true},
			{Name: "met5", Direction: tech.LayerHorizontal, Pitch: 3.4, MinWidth: 1.6, Programmable: true},
		},
	}
}

func specs(pairs ...any) []tiles.CellSpec {
	out := make([]tiles.CellSpec, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, tiles.CellSpec{Type: pairs[i].(string), Count: pairs[i+1].(int)})
	}
	return out
}

// TileDefinitions returns LOGIC and MEM (4 rows x 60 sites) and HALF
// (4 rows x 30 sites).
func TileDefinitions() tiles.Definitions {
	return tiles.Definitions{Tiles: []tiles.Template{
		{
			Name: "LOGIC", Width: 60, Height: 4, Site: "unithd",
			Rows: []tiles.Row{
				{ID: 0, Cells: specs("TAP", 1, "NAND2", 6, "INV", 5, "DECAP12", 1, "DECAP4", 2)},
				{ID: 1, Cells: specs("TAP", 1, "NOR2", 6, "BUF", 5, "DECAP12", 1, "DECAP4", 2)},
				{ID: 2, Cells: specs("TAP", 1, "DFF", 2, "MUX2", 1, "DECAP12", 1, "DECAP4", 1)},
				{ID: 3, Cells: specs("TAP", 1, "XOR2", 4, "INV", 5, "DECAP12", 1, "DECAP4", 2)},
			},
		},
		{
			Name: "MEM", Width: 60, Height: 4, Site: "unithd",
			Rows: []tiles.Row{
				{ID: 0, Cells: specs("TAP", 1, "DFF", 3, "DECAP4", 2)},
				{ID: 1, Cells: specs("TAP", 1, "DFF", 3, "DECAP4", 2)},
				{ID: 2, Cells: specs("TAP", 1, "DFF", 3, "DECAP4", 2)},
				{ID: 3, Cells: specs("TAP", 1, "DFF", 3, "DECAP4", 2)},
			},
		},
		{
			Name: "HALF", Width: 30, Height: 4, Site: "unithd",
			Rows: []tiles.Row{
				{ID: 0, Cells: specs("TAP", 1, "NAND2", 4, "DECAP12", 1, "FILL1", 1)},
				{ID: 1, Cells: specs("TAP", 1, "NAND2", 4, "DECAP12", 1, "FILL1", 1)},
				{ID: 2, Cells: specs("TAP", 1, "NAND2", 4, "DECAP12", 1, "FILL1", 1)},
				{ID: 3, Cells: specs("TAP", 1, "NAND2", 4, "DECAP12", 1, "FILL1", 1)},
			},
		},
	}}
}

// Fabric returns the 5x5 all-LOGIC fabric with a full edge ring, 10 um
// margins and no pins.
func Fabric() *fabric.Config {
	return &fabric.Config{
		Name:       "fab5x5",
		Dimensions: fabric.Dimensions{Rows: 5, Cols: 5},
		Tiles:      fabric.TileConfiguration{DefaultTile: "LOGIC"},
		EdgeCells: &fabric.EdgeCells{
			Left:   &fabric.EdgeCell{Enable: true, Cell: "DECAP12"},
			Right:  &fabric.EdgeCell{Enable: true, Cell: "DECAP12"},
			Top:    &fabric.EdgeCell{Enable: true, Cell: "DECAP4"},
			Bottom: &fabric.EdgeCell{Enable: true, Cell: "DECAP4"},
		},
		Margins: &fabric.Margins{Horizontal: 10, Vertical: 10},
		Power: &fabric.PowerDistribution{
			Primary: &fabric.Grid{
				VDD: &fabric.Rail{Layer: "met1", Width: 0.48},
				VSS: &fabric.Rail{Layer: "met1", Width: 0.48},
			},
			Secondary: &fabric.Grid{
				VDD: &fabric.Rail{Layer: "met4", Width: 1.6, Pitch: 50},
				VSS: &fabric.Rail{Layer: "met4", Width: 1.6, Pitch: 50},
			},
		},
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Catalogs builds and validates the technology and tile catalogs.
func Catalogs(t testing.TB) (*tech.Catalog, *tiles.Catalog) {
	t.Helper()
	cells, rep := tech.NewCatalog(Technology())
	if rep.HasErrors() {
		t.Fatalf("technology fixture: %v", rep.Err())
	}
	tpls, rep := tiles.NewCatalog(TileDefinitions(), cells)
	if rep.HasErrors() {
		t.Fatalf("tiles fixture: %v", rep.Err())
	}
	return cells, tpls
}

// Array composes cfg against the fixture catalogs.
func Array(t testing.TB, cfg *fabric.Config) (*tech.Catalog, *fabric.Array) {
	t.Helper()
	cells, tpls := Catalogs(t)
	arr, rep := fabric.Compose(cfg, tpls)
	if rep.HasErrors() {
		t.Fatalf("compose fixture: %v", rep.Err())
	}
	return cells, arr
}
