package tiles

import (
	"strings"
	"testing"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/tech"
)

func cellCatalog(t *testing.T) *tech.Catalog {
	t.Helper()
	cat, rep := tech.NewCatalog(&tech.Technology{
		Site: tech.Site{Name: "unithd", Width: 0.46, Height: 2.72},
		Cells: []tech.Cell{
			{Alias: "TAP", Width: 1, Height: 1},
			{Alias: "NAND2", Width: 4, Height: 1},
			{Alias: "INV", Width: 3, Height: 1},
			{Alias: "DECAP4", Width: 4, Height: 1},
		},
	})
	if rep.HasErrors() {
		t.Fatalf("tech catalog: %v", rep.Err())
	}
	return cat
}

// 1 + 2*4 + 3 + 4 = 16 sites
func goodRow(id int) Row {
	return Row{ID: id, Cells: []CellSpec{{"TAP", 1}, {"NAND2", 2}, {"INV", 1}, {"DECAP4", 1}}}
}

func TestNewCatalog(t *testing.T) {
	defs := Definitions{Tiles: []Template{
		{Name: "LOGIC", Width: 16, Height: 2, Rows: []Row{goodRow(0), goodRow(1)}},
	}}
	cat, rep := NewCatalog(defs, cellCatalog(t))
	if rep.HasErrors() {
		t.Fatalf("unexpected errors: %v", rep.Err())
	}

	tpl, err := cat.Resolve("LOGIC")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := tpl.CellCount(); got != 10 {
		t.Errorf("CellCount() = %d, want 10", got)
	}
	if got := tpl.Counts()["NAND2"]; got != 4 {
		t.Errorf("Counts()[NAND2] = %d, want 4", got)
	}

	wantOffsets := []int{0, 1, 5, 9, 12}
	for i, want := range wantOffsets {
		got, ok := tpl.CellOffset(1, i)
		if !ok || got != want {
			t.Errorf("CellOffset(1, %d) = %d, %v, want %d", i, got, ok, want)
		}
	}
	if _, ok := tpl.CellOffset(1, 5); ok {
		t.Error("CellOffset past end should fail")
	}

	ps := tpl.Placements(0)
	if len(ps) != 5 || ps[2].Alias != "NAND2" || ps[2].Index != 2 {
		t.Errorf("Placements(0) = %+v", ps)
	}

	if _, err := cat.Resolve("MEM"); !ferrors.Is(err, ferrors.ErrCodeUnknownTileType) {
		t.Errorf("Resolve(MEM) = %v, want UNKNOWN_TILE_TYPE", err)
	}
}

func TestRowWidthMismatch(t *testing.T) {
	// Declared width 18 but rows sum to 16.
	defs := Definitions{Tiles: []Template{
		{Name: "LOGIC", Width: 18, Height: 1, Rows: []Row{goodRow(0)}},
	}}
	_, rep := NewCatalog(defs, cellCatalog(t))
	found := rep.Find(ferrors.ErrCodeRowWidthMismatch)
	if len(found) != 1 {
		t.Fatalf("ROW_WIDTH_MISMATCH count = %d, want 1: %v", len(found), rep.Diagnostics())
	}
	for _, want := range []string{"16", "18", "NAND2 2x4=8"} {
		if !strings.Contains(found[0].Message, want) {
			t.Errorf("message %q missing %q", found[0].Message, want)
		}
	}
}

func TestInconsistentRowWidths(t *testing.T) {
	short := Row{ID: 1, Cells: []CellSpec{{"TAP", 1}, {"NAND2", 2}}}
	defs := Definitions{Tiles: []Template{
		{Name: "LOGIC", Width: 16, Height: 2, Rows: []Row{goodRow(0), short}},
	}}
	_, rep := NewCatalog(defs, cellCatalog(t))
	if !rep.Has(ferrors.ErrCodeInconsistentRowWidths) {
		t.Errorf("want INCONSISTENT_ROW_WIDTHS, got %v", rep.Diagnostics())
	}
	if !rep.Has(ferrors.ErrCodeRowWidthMismatch) {
		t.Errorf("want ROW_WIDTH_MISMATCH for the short row, got %v", rep.Diagnostics())
	}
}

func TestTemplateErrors(t *testing.T) {
	tests := []struct {
		name string
		tpl  Template
		code ferrors.Code
	}{
		{"unknown cell", Template{Name: "X", Width: 16, Height: 1, Rows: []Row{
			{ID: 0, Cells: []CellSpec{{"NAND9", 1}}},
		}}, ferrors.ErrCodeUnknownCellType},
		{"row count", Template{Name: "X", Width: 16, Height: 2, Rows: []Row{goodRow(0)}}, ferrors.ErrCodeInvalidTileRows},
		{"row id out of range", Template{Name: "X", Width: 16, Height: 1, Rows: []Row{goodRow(3)}}, ferrors.ErrCodeInvalidTileRows},
		{"duplicate row id", Template{Name: "X", Width: 16, Height: 2, Rows: []Row{goodRow(0), goodRow(0)}}, ferrors.ErrCodeInvalidTileRows},
		{"zero count", Template{Name: "X", Width: 16, Height: 1, Rows: []Row{
			{ID: 0, Cells: []CellSpec{{"TAP", 0}}},
		}}, ferrors.ErrCodeInvalidInput},
		{"zero width", Template{Name: "X", Width: 0, Height: 1, Rows: []Row{goodRow(0)}}, ferrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rep := NewCatalog(Definitions{Tiles: []Template{tt.tpl}}, cellCatalog(t))
			if !rep.Has(tt.code) {
				t.Errorf("want %s, got %v", tt.code, rep.Diagnostics())
			}
		})
	}
}

func TestDuplicateTemplate(t *testing.T) {
	tpl := Template{Name: "LOGIC", Width: 16, Height: 1, Rows: []Row{goodRow(0)}}
	cat, rep := NewCatalog(Definitions{Tiles: []Template{tpl, tpl}}, cellCatalog(t))
	if !rep.Has(ferrors.ErrCodeDuplicateName) {
		t.Errorf("want DUPLICATE_NAME, got %v", rep.Diagnostics())
	}
	if cat.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cat.Len())
	}
}

func TestUnknownCellDoesNotCascade(t *testing.T) {
	tpl := Template{Name: "X", Width: 16, Height: 1, Rows: []Row{
		{ID: 0, Cells: []CellSpec{{"NAND9", 4}}},
	}}
	_, rep := NewCatalog(Definitions{Tiles: []Template{tpl}}, cellCatalog(t))
	if rep.Has(ferrors.ErrCodeRowWidthMismatch) {
		t.Errorf("unknown cell should not also report a width mismatch: %v", rep.Diagnostics())
	}
}

func TestMultiRowCellRejected(t *testing.T) {
	cells, rep := tech.NewCatalog(&tech.Technology{
		Site:  tech.Site{Name: "unithd", Width: 0.46, Height: 2.72},
		Cells: []tech.Cell{{Alias: "BIG", Width: 4, Height: 2}},
	})
	if rep.HasErrors() {
		t.Fatalf("tech: %v", rep.Err())
	}
	tpl := Template{Name: "X", Width: 4, Height: 1, Rows: []Row{{ID: 0, Cells: []CellSpec{{"BIG", 1}}}}}
	_, rep = NewCatalog(Definitions{Tiles: []Template{tpl}}, cells)
	if !rep.Has(ferrors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", rep.Diagnostics())
	}
}
