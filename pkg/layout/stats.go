package layout

import (
	"sort"
	"strings"

	"github.com/structasic/fabgen/pkg/fabric"
)

// Stats are the derived counts and totals of a model.
type Stats struct {
	CellCounts     map[string]int   // fabric cells by alias
	EdgeCellCounts map[string]int   // edge cells by alias_direction
	CombinedCounts map[string]int   // both, with DECAP* folded into DECAP
	TileCounts     map[string]int   // tiles by template
	CategoryCounts map[Category]int // every instance, pins included

	TotalCells     int
	TotalEdgeCells int
	TotalPins      int

	LeakageWatts float64

	FabricArea float64 // um^2
	CoreArea   float64 // um^2
	DieArea    float64 // um^2
}

// Count is one entry of a sorted count table.
type Count struct {
	Name  string
	Count int
}

// Sorted returns counts ordered by count descending, then name.
func Sorted(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for k, v := range counts {
		out = append(out, Count{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func combinedKey(alias string) string {
	if strings.HasPrefix(alias, "DECAP") {
		return "DECAP"
	}
	return alias
}

func computeStats(m *Model, arr *fabric.Array) Stats {
	s := Stats{
		CellCounts:     make(map[string]int),
		EdgeCellCounts: make(map[string]int),
		CombinedCounts: make(map[string]int),
		TileCounts:     arr.Counts(),
		CategoryCounts: make(map[Category]int),
		TotalCells:     len(m.Cells),
		TotalEdgeCells: len(m.EdgeCells),
		TotalPins:      len(m.Pins),
	}

	leakage := func(alias string) float64 {
		if c, ok := m.cells.Lookup(alias); ok {
			return c.Leakage * 1e-6
		}
		return 0
	}
	for _, c := range m.Cells {
		s.CellCounts[c.Alias]++
		s.CombinedCounts[combinedKey(c.Alias)]++
		s.CategoryCounts[c.Category]++
		s.LeakageWatts += leakage(c.Alias)
	}
	for _, c := range m.EdgeCells {
		s.EdgeCellCounts[c.Alias+"_"+string(c.Edge)]++
		s.CombinedCounts[combinedKey(c.Alias)]++
		s.CategoryCounts[CategoryEdge]++
		s.LeakageWatts += leakage(c.Alias)
	}
	if len(m.Pins) > 0 {
		s.CategoryCounts[CategoryPin] = len(m.Pins)
	}

	area := func(w, h int64) float64 { return m.Microns(w) * m.Microns(h) }
	d := m.Dims
	s.FabricArea = area(d.Fabric.W(), d.Fabric.H())
	s.CoreArea = area(d.Core.W(), d.Core.H())
	s.DieArea = area(d.Die.W(), d.Die.H())
	return s
}
