package tech

import (
	"testing"

	ferrors "github.com/structasic/fabgen/pkg/errors"
)

func sampleTechnology() *Technology {
	return &Technology{
		Name:  "sky130",
		Units: Units{Distance: 1000},
		Site:  Site{Name: "unithd", Width: 0.46, Height: 2.72},
		Cells: []Cell{
			{Name: "sky130_fd_sc_hd__nand2_1", Alias: "NAND2", Width: 4, Height: 1, Type: "combinational",
				Pins: []Pin{{Name: "A", Direction: "input"}, {Name: "B", Direction: "input"}, {Name: "Y", Direction: "output"}}},
			{Name: "sky130_fd_sc_hd__dfxtp_1", Alias: "DFF", Width: 17, Height: 1, Type: "sequential", ClockPin: "CLK"},
			{Name: "sky130_fd_sc_hd__decap_4", Alias: "DECAP4", Width: 4, Height: 1},
		},
		Layers: []Layer{
			{Name: "met1", Direction: "horizontal", Pitch: 0.34},
			{Name: "met4", Direction: "vertical", Pitch: 0.92, Programmable: true},
			{Name: "met5", Direction: "horizontal", Pitch: 3.4, Programmable: true},
		},
	}
}

func TestNewCatalog(t *testing.T) {
	cat, rep := NewCatalog(sampleTechnology())
	if rep.HasErrors() {
		t.Fatalf("unexpected errors: %v", rep.Err())
	}
	if cat.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cat.Len())
	}
	if cat.DBUPerMicron() != 1000 {
		t.Errorf("DBUPerMicron() = %d, want 1000", cat.DBUPerMicron())
	}

	cell, err := cat.Resolve("NAND2")
	if err != nil {
		t.Fatalf("Resolve(NAND2): %v", err)
	}
	if cell.Width != 4 || cell.Macro() != "sky130_fd_sc_hd__nand2_1" {
		t.Errorf("NAND2 = %+v", cell)
	}
	if _, ok := cat.ByName("sky130_fd_sc_hd__dfxtp_1"); !ok {
		t.Error("ByName(dfxtp_1) not found")
	}

	if _, err := cat.Resolve("NAND9"); !ferrors.Is(err, ferrors.ErrCodeUnknownCellType) {
		t.Errorf("Resolve(NAND9) error = %v, want UNKNOWN_CELL_TYPE", err)
	}

	got := cat.ProgrammableLayers()
	if len(got) != 2 || got[0].Name != "met4" || got[1].Name != "met5" {
		t.Errorf("ProgrammableLayers() = %v, want [met4 met5]", got)
	}

	aliases := cat.Aliases()
	want := []string{"DECAP4", "DFF", "NAND2"}
	for i := range want {
		if aliases[i] != want[i] {
			t.Errorf("Aliases()[%d] = %s, want %s", i, aliases[i], want[i])
		}
	}
}

func TestNewCatalogDefaultsUnits(t *testing.T) {
	tc := sampleTechnology()
	tc.Units.Distance = 0
	cat, rep := NewCatalog(tc)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors: %v", rep.Err())
	}
	if cat.DBUPerMicron() != DefaultDistanceUnits {
		t.Errorf("DBUPerMicron() = %d, want %d", cat.DBUPerMicron(), DefaultDistanceUnits)
	}
}

func TestNewCatalogErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Technology)
		code   ferrors.Code
	}{
		{"duplicate alias", func(tc *Technology) {
			tc.Cells = append(tc.Cells, Cell{Alias: "NAND2", Width: 4, Height: 1})
		}, ferrors.ErrCodeDuplicateName},
		{"zero width", func(tc *Technology) { tc.Cells[0].Width = 0 }, ferrors.ErrCodeInvalidInput},
		{"bad site", func(tc *Technology) { tc.Site.Height = 0 }, ferrors.ErrCodeInvalidInput},
		{"bad pin direction", func(tc *Technology) { tc.Cells[0].Pins[0].Direction = "sideways" }, ferrors.ErrCodeInvalidInput},
		{"duplicate pin", func(tc *Technology) {
			tc.Cells[0].Pins = append(tc.Cells[0].Pins, Pin{Name: "A", Direction: "input"})
		}, ferrors.ErrCodeDuplicateName},
		{"bad layer direction", func(tc *Technology) { tc.Layers[0].Direction = "diagonal" }, ferrors.ErrCodeInvalidInput},
		{"negative units", func(tc *Technology) { tc.Units.Distance = -5 }, ferrors.ErrCodeInvalidInput},
		{"alias with space", func(tc *Technology) { tc.Cells[2].Alias = "DE CAP" }, ferrors.ErrCodeInvalidName},
		{"no cells", func(tc *Technology) { tc.Cells = nil }, ferrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := sampleTechnology()
			tt.mutate(tc)
			_, rep := NewCatalog(tc)
			if !rep.Has(tt.code) {
				t.Errorf("report = %v, want code %s", rep.Diagnostics(), tt.code)
			}
		})
	}
}

func TestNewCatalogNil(t *testing.T) {
	cat, rep := NewCatalog(nil)
	if !rep.HasErrors() {
		t.Error("expected error for nil technology")
	}
	if cat.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cat.Len())
	}
}

func TestCellClass(t *testing.T) {
	tests := []struct {
		cell Cell
		want Class
	}{
		{Cell{Alias: "NAND2", Type: "combinational"}, ClassLogic},
		{Cell{Alias: "X", Type: "sequential"}, ClassSequential},
		{Cell{Alias: "DFF"}, ClassSequential},
		{Cell{Alias: "REG", ClockPin: "CLK"}, ClassSequential},
		{Cell{Alias: "DECAP12"}, ClassPhysical},
		{Cell{Alias: "TAP"}, ClassPhysical},
		{Cell{Alias: "FOO", Type: "Filler"}, ClassPhysical},
		{Cell{Alias: "INV"}, ClassLogic},
	}
	for _, tt := range tests {
		if got := tt.cell.Class(); got != tt.want {
			t.Errorf("Class(%s/%s) = %s, want %s", tt.cell.Alias, tt.cell.Type, got, tt.want)
		}
	}
}
