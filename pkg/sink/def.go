package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/structasic/fabgen/pkg/layout"
)

// DefaultPinLayer is used for pins when the technology declares no
// programmable layer.
const DefaultPinLayer = "met5"

// DEFOption configures DEF rendering via [RenderDEF].
type DEFOption func(*defRenderer)

type defRenderer struct {
	specialNets bool
	pinLayer    string
}

// WithoutSpecialNets omits the SPECIALNETS section even when the fabric
// declares a power distribution.
func WithoutSpecialNets() DEFOption { return func(r *defRenderer) { r.specialNets = false } }

// WithDEFPinLayer overrides the layer of pin shapes.
func WithDEFPinLayer(layer string) DEFOption { return func(r *defRenderer) { r.pinLayer = layer } }

// RenderDEF writes the model as DEF 5.8.
func RenderDEF(m *layout.Model, opts ...DEFOption) ([]byte, error) {
	r := defRenderer{specialNets: true, pinLayer: pinLayer(m)}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	writeDEFHeader(&buf, m)
	writeDEFRows(&buf, m)
	writeDEFComponents(&buf, m)
	writeDEFPins(&buf, m, r.pinLayer)
	if r.specialNets {
		writeDEFSpecialNets(&buf, m)
	}
	buf.WriteString("END DESIGN\n")
	return buf.Bytes(), nil
}

func writeDEFHeader(buf *bytes.Buffer, m *layout.Model) {
	die := m.Dims.Die
	buf.WriteString("VERSION 5.8 ;\n")
	buf.WriteString("DIVIDERCHAR \"/\" ;\n")
	buf.WriteString("BUSBITCHARS \"[]\" ;\n")
	fmt.Fprintf(buf, "DESIGN %s ;\n", m.Name)
	fmt.Fprintf(buf, "UNITS DISTANCE MICRONS %d ;\n", m.DBUPerMicron)
	fmt.Fprintf(buf, "DIEAREA ( %d %d ) ( %d %d ) ;\n\n", die.X0, die.Y0, die.X1, die.Y1)
}

func writeDEFRows(buf *bytes.Buffer, m *layout.Model) {
	for _, row := range m.Rows {
		fmt.Fprintf(buf, "ROW %s %s %d %d N DO %d BY 1 STEP %d 0 ;\n",
			row.Name, m.Site.Name, row.Origin.X, row.Origin.Y, row.Sites, m.Frame.SiteW)
	}
	buf.WriteString("\n")
}

func writeDEFComponents(buf *bytes.Buffer, m *layout.Model) {
	comps := m.Components()
	fmt.Fprintf(buf, "COMPONENTS %d ;\n", len(comps))
	for _, c := range comps {
		fmt.Fprintf(buf, "  - %s %s + PLACED ( %d %d ) N ;\n", c.Name, c.Macro, c.Rect.X0, c.Rect.Y0)
	}
	buf.WriteString("END COMPONENTS\n\n")
}

// writeDEFPins places each pin at the lower-left of its rectangle; the
// LAYER shape is relative to that point.
func writeDEFPins(buf *bytes.Buffer, m *layout.Model, layer string) {
	if len(m.Pins) == 0 {
		return
	}
	fmt.Fprintf(buf, "PINS %d ;\n", len(m.Pins))
	for _, p := range m.Pins {
		fmt.Fprintf(buf, "  - %s + NET %s + DIRECTION %s + USE %s\n",
			p.Name, p.Name, strings.ToUpper(p.Direction), pinUse(p.Type))
		fmt.Fprintf(buf, "    + LAYER %s ( 0 0 ) ( %d %d )\n", layer, p.Rect.W(), p.Rect.H())
		fmt.Fprintf(buf, "    + PLACED ( %d %d ) N ;\n", p.Rect.X0, p.Rect.Y0)
	}
	buf.WriteString("END PINS\n\n")
}

func writeDEFSpecialNets(buf *bytes.Buffer, m *layout.Model) {
	rails := powerRails(m)
	if len(rails) == 0 {
		return
	}
	byNet := make(map[string][]rail)
	var nets []string
	for _, r := range rails {
		if _, ok := byNet[r.Net]; !ok {
			nets = append(nets, r.Net)
		}
		byNet[r.Net] = append(byNet[r.Net], r)
	}

	fmt.Fprintf(buf, "SPECIALNETS %d ;\n", len(nets))
	for _, net := range nets {
		fmt.Fprintf(buf, "  - %s ( * %s )\n", net, net)
		for i, r := range byNet[net] {
			lead := "    + ROUTED"
			if i > 0 {
				lead = "      NEW"
			}
			fmt.Fprintf(buf, "%s %s %d ( %d %d ) ( %d %d )\n",
				lead, r.Layer, r.Width, r.From.X, r.From.Y, r.To.X, r.To.Y)
		}
		fmt.Fprintf(buf, "    + USE %s ;\n", netUse(net))
	}
	buf.WriteString("END SPECIALNETS\n\n")
}

// pinLayer is the topmost programmable layer of the model.
func pinLayer(m *layout.Model) string {
	if n := len(m.Layers); n > 0 {
		return m.Layers[n-1].Name
	}
	return DefaultPinLayer
}

func pinUse(typ string) string {
	switch strings.ToLower(typ) {
	case "clock":
		return "CLOCK"
	case "power":
		return "POWER"
	case "ground":
		return "GROUND"
	case "analog":
		return "ANALOG"
	}
	return "SIGNAL"
}

func netUse(net string) string {
	if net == "VSS" {
		return "GROUND"
	}
	return "POWER"
}
