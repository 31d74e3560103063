package sink

import (
	"strings"

	"github.com/structasic/fabgen/pkg/layout"
)

const (
	dieColor  = "red"
	coreColor = "blue"
	edgeColor = "orange"
	pinColor  = "gold"
)

var tilePalette = []string{
	"lightblue", "lightgreen", "lightyellow", "lightcoral", "lightpink",
	"lightsteelblue", "lightcyan", "lavender", "mistyrose", "honeydew",
}

var cellColors = map[string]string{
	"NAND2": "lightblue",
	"NOR2":  "lightcyan",
	"INV":   "lightgreen",
	"AND2":  "lightsteelblue",
	"OR2":   "lightcyan",
	"XOR2":  "lightyellow",
	"XNOR2": "lightgoldenrodyellow",
	"BUF":   "lightgreen",
	"MUX2":  "lightblue",

	"DFF":    "yellow",
	"DFFP":   "gold",
	"DFFRP":  "orange",
	"DFFSR":  "darkorange",
	"LATCH":  "orange",
	"DLATCH": "sandybrown",

	"TAP":     "gray",
	"CONB":    "darkgray",
	"WELLTAP": "gray",
	"ENDCAP":  "dimgray",

	"FILL":    "white",
	"FILLER":  "white",
	"DIODE":   "plum",
	"ANTENNA": "lightcoral",
	"TIE":     "lightgray",
}

var categoryColors = map[layout.Category]string{
	layout.CategoryLogic:      "lightsteelblue",
	layout.CategorySequential: "yellow",
	layout.CategoryPhysical:   "lightgray",
	layout.CategoryEdge:       edgeColor,
	layout.CategoryPin:        pinColor,
}

// cellColor picks a fill for a cell alias, falling back to its category.
func cellColor(alias string, cat layout.Category) string {
	if c, ok := cellColors[alias]; ok {
		return c
	}
	if strings.HasPrefix(alias, "DECAP") {
		return "pink"
	}
	if strings.HasPrefix(alias, "FILL") {
		return "white"
	}
	if c, ok := categoryColors[cat]; ok {
		return c
	}
	return "white"
}

// templateColors assigns palette colours to templates in first-use order.
func templateColors(m *layout.Model) map[string]string {
	out := make(map[string]string, len(m.Templates))
	for i, t := range m.Templates {
		out[t.Name] = tilePalette[i%len(tilePalette)]
	}
	return out
}
