package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/internal/testutil"
)

func TestReadTechnology(t *testing.T) {
	tc, err := ReadTechnology(strings.NewReader(testutil.TechnologyJSON), "tech.json")
	if err != nil {
		t.Fatalf("ReadTechnology: %v", err)
	}
	if tc.Name != "sky130" {
		t.Errorf("Name = %q, want sky130", tc.Name)
	}
	if tc.Units.Distance != 1000 {
		t.Errorf("Units.Distance = %d, want 1000", tc.Units.Distance)
	}
	if tc.Site.Width != 0.46 || tc.Site.Height != 2.72 {
		t.Errorf("Site = %+v, want 0.46x2.72", tc.Site)
	}
	if len(tc.Cells) != 10 {
		t.Fatalf("len(Cells) = %d, want 10", len(tc.Cells))
	}

	nand := tc.Cells[1]
	if nand.Alias != "NAND2" || nand.Width != 4 {
		t.Errorf("Cells[1] = %s/%d, want NAND2/4", nand.Alias, nand.Width)
	}
	var pins []string
	for _, p := range nand.Pins {
		pins = append(pins, p.Name)
	}
	if got := strings.Join(pins, ","); got != "A,B,Y" {
		t.Errorf("NAND2 pins = %s, want A,B,Y", got)
	}
	if nand.Pins[0].Capacitance != 0.0024 {
		t.Errorf("A capacitance = %v, want 0.0024", nand.Pins[0].Capacitance)
	}
	if !nand.HasPower || nand.Leakage != 0.0021 {
		t.Errorf("NAND2 leakage = %v (has=%v), want 0.0021", nand.Leakage, nand.HasPower)
	}
	if tc.Cells[0].HasPower {
		t.Error("TAP should have no power data")
	}
	if dff := tc.Cells[5]; dff.ClockPin != "CLK" || !dff.Pins[0].Clock {
		t.Errorf("DFF clock = %q/%v, want CLK/true", dff.ClockPin, dff.Pins[0].Clock)
	}

	var layers []string
	for _, l := range tc.Layers {
		layers = append(layers, l.Name)
	}
	if got := strings.Join(layers, ","); got != "met1,met2,met4,met5" {
		t.Errorf("layers = %s, want document order", got)
	}
	if !tc.Layers[2].Programmable || tc.Layers[0].Programmable {
		t.Error("only met4 and met5 should be programmable")
	}
}

func TestReadTechnologyErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code ferrors.Code
		want string
	}{
		{"syntax", "{\n  \"site\": {,\n}", ferrors.ErrCodeParse, "tech.json:2:12"},
		{"type", "{\"cells\": \"none\"}", ferrors.ErrCodeParse, "field cells"},
		{"no site", `{"cells": []}`, ferrors.ErrCodeParse, "missing required field site"},
		{"no cell width", `{"site": {"width": 1, "height": 1}, "cells": [{"alias": "X", "height": 1}]}`,
			ferrors.ErrCodeParse, "cells[0] (X).width"},
		{"bad pin", `{"site": {"width": 1, "height": 1}, "cells": [{"width": 1, "height": 1, "pins": {"A": 3}}]}`,
			ferrors.ErrCodeParse, "pins"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTechnology(strings.NewReader(tt.doc), "tech.json")
			if err == nil {
				t.Fatal("expected error")
			}
			if !ferrors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", ferrors.GetCode(err), tt.code)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestReadTiles(t *testing.T) {
	defs, err := ReadTiles(strings.NewReader(testutil.TilesJSON), "tiles.json")
	if err != nil {
		t.Fatalf("ReadTiles: %v", err)
	}
	if len(defs.Tiles) != 2 {
		t.Fatalf("len(Tiles) = %d, want 2", len(defs.Tiles))
	}
	logic := defs.Tiles[0]
	if logic.Name != "LOGIC" || logic.Width != 60 || logic.Height != 4 {
		t.Errorf("Tiles[0] = %s %dx%d, want LOGIC 60x4", logic.Name, logic.Width, logic.Height)
	}
	if len(logic.Rows) != 4 || len(logic.Rows[2].Cells) != 5 {
		t.Fatalf("LOGIC rows malformed: %+v", logic.Rows)
	}
	if got := logic.Rows[2].Cells[1]; got.Type != "DFF" || got.Count != 2 {
		t.Errorf("row 2 run 1 = %+v, want DFF x2", got)
	}
}

func TestReadTilesDefaults(t *testing.T) {
	doc := `{"tiles": [{"name": "T", "width": 4, "height": 2,
	  "rows": [{"cells": [{"type": "INV"}]}, {"row_id": 0, "cells": []}]}]}`
	defs, err := ReadTiles(strings.NewReader(doc), "tiles.json")
	if err != nil {
		t.Fatalf("ReadTiles: %v", err)
	}
	rows := defs.Tiles[0].Rows
	if rows[0].ID != 0 || rows[1].ID != 0 {
		t.Errorf("row ids = %d,%d, want 0,0 (positional default, then explicit)", rows[0].ID, rows[1].ID)
	}
	if rows[0].Cells[0].Count != 1 {
		t.Errorf("count = %d, want default 1", rows[0].Cells[0].Count)
	}
}

func TestReadFabricJSON(t *testing.T) {
	cfg, err := ReadFabric(strings.NewReader(testutil.FabricJSON), "fabric.json")
	if err != nil {
		t.Fatalf("ReadFabric: %v", err)
	}
	if cfg.Name != "demo3x3" || cfg.Dimensions.Rows != 3 || cfg.Dimensions.Cols != 3 {
		t.Errorf("header = %s %dx%d, want demo3x3 3x3", cfg.Name, cfg.Dimensions.Rows, cfg.Dimensions.Cols)
	}
	if len(cfg.Tiles.Regions) != 1 || cfg.Tiles.Regions[0].Area.Width != 2 {
		t.Errorf("regions = %+v", cfg.Tiles.Regions)
	}
	if cfg.EdgeCells == nil || cfg.EdgeCells.Left.Cell != "DECAP12" || !cfg.EdgeCells.Top.Enable {
		t.Errorf("edge cells = %+v", cfg.EdgeCells)
	}
	if cfg.IORing == nil {
		t.Fatal("IORing is nil")
	}
	if ps := cfg.IORing.PinSize; ps == nil || ps.Width != 300 || ps.Height != 300 {
		t.Errorf("PinSize = %+v, want 300x300", ps)
	}
	edges := cfg.IORing.Edges
	if len(edges) != 2 || edges[0].Name != "west" || edges[1].Name != "north" {
		t.Fatalf("edges not in document order: %+v", edges)
	}
	if p := edges[1].Pins[0]; p.Position == nil || *p.Position != 40 {
		t.Errorf("dout position = %v, want 40", p.Position)
	}
	if edges[0].Pins[0].Position != nil {
		t.Error("auto pin should have no position")
	}
	if cfg.Power == nil || cfg.Power.Secondary.VDD.Pitch != 25 {
		t.Errorf("power = %+v", cfg.Power)
	}
}

func TestFabricSyntaxesAgree(t *testing.T) {
	want, err := ReadFabric(strings.NewReader(testutil.FabricJSON), "fabric.json")
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	for _, tt := range []struct{ name, doc string }{
		{"fabric.toml", testutil.FabricTOML},
		{"fabric.hcl", testutil.FabricHCL},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFabric(strings.NewReader(tt.doc), tt.name)
			if err != nil {
				t.Fatalf("ReadFabric: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("decoded config differs from JSON:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestReadFabricEdgeEnableDefault(t *testing.T) {
	doc := `{"name": "f", "array_dimensions": {"rows": 1, "cols": 1},
	  "tile_configuration": {"default_tile": "LOGIC"},
	  "edge_cells": {"left": {"cell": "DECAP12"}, "right": {"enable": false, "cell": "DECAP12"}}}`
	cfg, err := ReadFabric(strings.NewReader(doc), "f.json")
	if err != nil {
		t.Fatalf("ReadFabric: %v", err)
	}
	if !cfg.EdgeCells.Left.Enable {
		t.Error("left should default to enabled")
	}
	if cfg.EdgeCells.Right.Enable {
		t.Error("right should stay disabled")
	}
	if cfg.EdgeCells.Top != nil {
		t.Error("undeclared side should be nil")
	}
}

const hclSkeleton = `
array_dimensions {
  rows = 1
  cols = 1
}
tile_configuration {
  default_tile = "LOGIC"
}
`

func TestReadFabricErrors(t *testing.T) {
	tests := []struct {
		name, file, doc, want string
	}{
		{"json missing name", "f.json", `{"array_dimensions": {"rows": 1, "cols": 1}}`, "missing required field name"},
		{"json missing dims", "f.json", `{"name": "f", "tile_configuration": {}}`, "array_dimensions"},
		{"json bad edges", "f.json", `{"name": "f", "array_dimensions": {"rows": 1, "cols": 1},
		  "tile_configuration": {}, "io_ring": {"edges": []}}`, "io_ring.edges"},
		{"toml syntax", "f.toml", "name = \"f\"\n[array_dimensions\nrows = 1\n", "f.toml:2:18"},
		{"toml bad value", "f.toml", "name = \"f\"\n\n[array_dimensions]\nrows = ?\n", "f.toml:4:"},
		{"hcl syntax", "f.hcl", "name = \"f\"\narray_dimensions {\n  rows = \n}\n", "f.hcl:"},
		{"hcl missing block", "f.hcl", "name = \"f\"\n", "f.hcl:"},
		{"hcl unknown attribute", "f.hcl", "name = \"f\"\ncolour = 3\n" + hclSkeleton, "f.hcl:2:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFabric(strings.NewReader(tt.doc), tt.file)
			if err == nil {
				t.Fatal("expected error")
			}
			if !ferrors.Is(err, ferrors.ErrCodeParse) {
				t.Errorf("code = %s, want PARSE_ERROR", ferrors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestReadFabricSyntax(t *testing.T) {
	cfg, err := ReadFabricSyntax(strings.NewReader(testutil.FabricHCL), "stdin", SyntaxHCL)
	if err != nil {
		t.Fatalf("ReadFabricSyntax: %v", err)
	}
	if cfg.Name != "demo3x3" {
		t.Errorf("Name = %q, want demo3x3", cfg.Name)
	}
	_, err = ReadFabricSyntax(strings.NewReader("{}"), "stdin", "yaml")
	if !ferrors.Is(err, ferrors.ErrCodeInvalidFormat) {
		t.Errorf("unknown syntax: code = %s, want INVALID_FORMAT", ferrors.GetCode(err))
	}
}

func TestSyntaxOf(t *testing.T) {
	tests := map[string]string{
		"fabric.json": SyntaxJSON,
		"fabric.TOML": SyntaxTOML,
		"a/b.hcl":     SyntaxHCL,
		"fabric":      SyntaxJSON,
	}
	for name, want := range tests {
		if got := SyntaxOf(name); got != want {
			t.Errorf("SyntaxOf(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestWriteFabricRoundTrip(t *testing.T) {
	want, err := ReadFabric(strings.NewReader(testutil.FabricJSON), "fabric.json")
	if err != nil {
		t.Fatalf("ReadFabric: %v", err)
	}
	for _, syntax := range []string{SyntaxJSON, SyntaxHCL} {
		t.Run(syntax, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteFabric(&buf, want, syntax); err != nil {
				t.Fatalf("WriteFabric: %v", err)
			}
			got, err := ReadFabricSyntax(&buf, "out", syntax)
			if err != nil {
				t.Fatalf("re-read: %v\n%s", err, buf.String())
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip changed config:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestWriteFabricTOMLSortsEdges(t *testing.T) {
	want, err := ReadFabric(strings.NewReader(testutil.FabricJSON), "fabric.json")
	if err != nil {
		t.Fatalf("ReadFabric: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteFabricTOML(&buf, want); err != nil {
		t.Fatalf("WriteFabricTOML: %v", err)
	}
	got, err := ReadFabricSyntax(&buf, "out.toml", SyntaxTOML)
	if err != nil {
		t.Fatalf("re-read: %v\n%s", err, buf.String())
	}
	if got.Name != want.Name || len(got.IORing.Edges) != 2 {
		t.Fatalf("round trip lost data: %+v", got)
	}
	if got.IORing.Edges[0].Name != "north" || got.IORing.Edges[1].Name != "west" {
		t.Errorf("edges = %s,%s, want north,west", got.IORing.Edges[0].Name, got.IORing.Edges[1].Name)
	}
	if !reflect.DeepEqual(got.Tiles, want.Tiles) || !reflect.DeepEqual(got.Power, want.Power) {
		t.Error("tiles or power changed in TOML round trip")
	}
}

func TestLoadAndExport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "fabric.json")
	if err := os.WriteFile(src, []byte(testutil.FabricJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFabric(src)
	if err != nil {
		t.Fatalf("LoadFabric: %v", err)
	}
	dst := filepath.Join(dir, "fabric.hcl")
	if err := ExportFabric(dst, cfg); err != nil {
		t.Fatalf("ExportFabric: %v", err)
	}
	back, err := LoadFabric(dst)
	if err != nil {
		t.Fatalf("LoadFabric(hcl): %v", err)
	}
	if !reflect.DeepEqual(back, cfg) {
		t.Error("exported HCL does not load back to the same config")
	}

	_, err = LoadFabric(filepath.Join(dir, "missing.json"))
	if !ferrors.Is(err, ferrors.ErrCodeFileNotFound) {
		t.Errorf("missing file: code = %s, want FILE_NOT_FOUND", ferrors.GetCode(err))
	}
	_, err = LoadTechnology(filepath.Join(dir, "missing.json"))
	if !ferrors.Is(err, ferrors.ErrCodeFileNotFound) {
		t.Errorf("missing technology: code = %s, want FILE_NOT_FOUND", ferrors.GetCode(err))
	}
}
