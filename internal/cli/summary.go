package cli

import (
	"fmt"
	"io"

	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/layout"
)

// printSummary prints the generation summary of a sealed model.
func printSummary(w io.Writer, m *layout.Model, outputDir string) {
	um := func(dbu int64) float64 { return geom.ToMicrons(dbu, m.DBUPerMicron) }
	s := m.Stats

	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Fabric Generation Summary"))
	printKeyValue(w, "Fabric", m.Name)
	printKeyValue(w, "Dimensions", fmt.Sprintf("%dx%d tiles", m.Dims.ArrayRows, m.Dims.ArrayCols))
	printKeyValue(w, "Core Area", fmt.Sprintf("%.2fx%.2f µm", um(m.Dims.Core.W()), um(m.Dims.Core.H())))
	printKeyValue(w, "Die Area", fmt.Sprintf("%.2fx%.2f µm", um(m.Dims.Die.W()), um(m.Dims.Die.H())))
	printKeyValue(w, "Total Cells", StyleNumber.Render(fmt.Sprint(s.TotalCells)))
	printKeyValue(w, "Edge Cells", StyleNumber.Render(fmt.Sprint(s.TotalEdgeCells)))
	printKeyValue(w, "I/O Pins", StyleNumber.Render(fmt.Sprint(s.TotalPins)))
	printKeyValue(w, "Leakage", formatLeakage(s.LeakageWatts))

	counts := layout.Sorted(s.CombinedCounts)
	if len(counts) == 0 {
		printKeyValue(w, "Cell Counts", "not available")
	} else {
		fmt.Fprintln(w, styleKey.Render("Cell Counts"))
		for _, c := range counts {
			printDetail(w, "%s: %d", c.Name, c.Count)
		}
	}
	printKeyValue(w, "Output", outputDir)
}

// formatLeakage scales a power in watts to µW, mW or W.
func formatLeakage(watts float64) string {
	switch {
	case watts <= 0:
		return "not available (no power data in technology)"
	case watts < 1e-3:
		return fmt.Sprintf("%.2f µW", watts*1e6)
	case watts < 1:
		return fmt.Sprintf("%.2f mW", watts*1e3)
	}
	return fmt.Sprintf("%.3f W", watts)
}
