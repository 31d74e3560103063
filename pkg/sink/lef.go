package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/structasic/fabgen/pkg/layout"
)

// LEFOption configures LEF rendering via [RenderLEF].
type LEFOption func(*lefRenderer)

type lefRenderer struct {
	pinLayer string
	layers   bool
}

// WithPinLayer overrides the layer of pin ports.
func WithPinLayer(layer string) LEFOption { return func(r *lefRenderer) { r.pinLayer = layer } }

// WithoutLayers omits the LAYER declarations.
func WithoutLayers() LEFOption { return func(r *lefRenderer) { r.layers = false } }

// RenderLEF writes the model as a LEF 5.8 block macro.
func RenderLEF(m *layout.Model, opts ...LEFOption) ([]byte, error) {
	r := lefRenderer{pinLayer: pinLayer(m), layers: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	buf.WriteString("VERSION 5.8 ;\n")
	buf.WriteString("BUSBITCHARS \"[]\" ;\n")
	buf.WriteString("DIVIDERCHAR \"/\" ;\n\n")
	buf.WriteString("UNITS\n")
	fmt.Fprintf(&buf, "  DATABASE MICRONS %d ;\n", m.DBUPerMicron)
	buf.WriteString("END UNITS\n\n")

	if r.layers {
		for _, l := range m.Layers {
			fmt.Fprintf(&buf, "LAYER %s\n", l.Name)
			buf.WriteString("  TYPE ROUTING ;\n")
			if l.Direction != "" {
				fmt.Fprintf(&buf, "  DIRECTION %s ;\n", strings.ToUpper(l.Direction))
			}
			if l.Pitch > 0 {
				fmt.Fprintf(&buf, "  PITCH %.3f ;\n", l.Pitch)
			}
			if l.MinWidth > 0 {
				fmt.Fprintf(&buf, "  WIDTH %.3f ;\n", l.MinWidth)
			}
			fmt.Fprintf(&buf, "END %s\n\n", l.Name)
		}
	}

	die := m.Dims.Die
	fmt.Fprintf(&buf, "MACRO %s\n", m.Name)
	buf.WriteString("  CLASS BLOCK ;\n")
	buf.WriteString("  ORIGIN 0 0 ;\n")
	fmt.Fprintf(&buf, "  FOREIGN %s 0 0 ;\n", m.Name)
	fmt.Fprintf(&buf, "  SIZE %.3f BY %.3f ;\n", m.Microns(die.W()), m.Microns(die.H()))
	for _, p := range m.Pins {
		fmt.Fprintf(&buf, "  PIN %s\n", p.Name)
		fmt.Fprintf(&buf, "    DIRECTION %s ;\n", strings.ToUpper(p.Direction))
		fmt.Fprintf(&buf, "    USE %s ;\n", pinUse(p.Type))
		buf.WriteString("    PORT\n")
		fmt.Fprintf(&buf, "      LAYER %s ;\n", r.pinLayer)
		fmt.Fprintf(&buf, "        RECT %.3f %.3f %.3f %.3f ;\n",
			m.Microns(p.Rect.X0), m.Microns(p.Rect.Y0), m.Microns(p.Rect.X1), m.Microns(p.Rect.Y1))
		buf.WriteString("    END\n")
		fmt.Fprintf(&buf, "  END %s\n", p.Name)
	}
	fmt.Fprintf(&buf, "END %s\n\n", m.Name)
	buf.WriteString("END LIBRARY\n")
	return buf.Bytes(), nil
}
