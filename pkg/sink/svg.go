package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/ioring"
	"github.com/structasic/fabgen/pkg/layout"
)

// SVGOption configures SVG rendering via [RenderFabricSVG] and
// [RenderTileSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width  float64 // target drawing width in pixels
	labels bool
	legend bool
	grid   bool
}

// WithWidth sets the drawing width in pixels (default 1200).
func WithWidth(px float64) SVGOption { return func(r *svgRenderer) { r.width = px } }

// WithoutLabels drops tile, cell and pin labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithoutLegend drops the legend panel of the fabric view.
func WithoutLegend() SVGOption { return func(r *svgRenderer) { r.legend = false } }

// WithoutGrid drops the site grid of tile views.
func WithoutGrid() SVGOption { return func(r *svgRenderer) { r.grid = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{width: 1200, labels: true, legend: true, grid: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

const (
	svgPad    = 20.0
	legendW   = 180.0
	legendRow = 18.0
)

// canvas maps DBU coordinates onto SVG pixels with the y axis flipped.
type canvas struct {
	scale  float64 // pixels per DBU
	height int64   // DBU extent of the flipped axis
	offX   float64
	offY   float64
}

func newCanvas(w, h int64, widthPx float64) canvas {
	scale := 1.0
	if w > 0 {
		scale = widthPx / float64(w)
	}
	return canvas{scale: scale, height: h, offX: svgPad, offY: svgPad}
}

func (c canvas) x(v int64) float64 { return c.offX + float64(v)*c.scale }
func (c canvas) y(v int64) float64 { return c.offY + float64(c.height-v)*c.scale }

// heightPx is the padded pixel height of the drawing.
func (c canvas) heightPx() float64 { return 2*c.offY + float64(c.height)*c.scale }

// rect writes r as an SVG rect; the top edge of r becomes the SVG y.
func (c canvas) rect(buf *bytes.Buffer, r geom.Rect, attrs string) {
	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" %s/>`+"\n",
		c.x(r.X0), c.y(r.Y1), float64(r.W())*c.scale, float64(r.H())*c.scale, attrs)
}

func (c canvas) text(buf *bytes.Buffer, r geom.Rect, label string, size float64, rotate bool) {
	cx := c.x(r.X0) + float64(r.W())*c.scale/2
	cy := c.y(r.Y1) + float64(r.H())*c.scale/2
	transform := ""
	if rotate {
		transform = fmt.Sprintf(` transform="rotate(-90 %.2f %.2f)"`, cx, cy)
	}
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="central"%s>%s</text>`+"\n",
		cx, cy, size, transform, html.EscapeString(label))
}

func openSVG(buf *bytes.Buffer, w, h float64, title string) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		w, h, w, h)
	fmt.Fprintf(buf, "  <title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(buf, `  <rect width="%.1f" height="%.1f" fill="white"/>`+"\n", w, h)
}

// RenderFabricSVG draws the whole die: outlines, tiles, the edge ring and
// the pins.
func RenderFabricSVG(m *layout.Model, opts ...SVGOption) ([]byte, error) {
	r := newSVGRenderer(opts...)
	die := m.Dims.Die
	c := newCanvas(die.W(), die.H(), r.width)

	w, h := r.width+2*svgPad, c.heightPx()
	if r.legend {
		w += legendW
	}

	var buf bytes.Buffer
	openSVG(&buf, w, h, "Fabric: "+m.Name)

	colors := templateColors(m)
	font := tileFontSize(len(m.Tiles))
	buf.WriteString(`  <g id="tiles">` + "\n")
	for _, t := range m.Tiles {
		c.rect(&buf, t.Rect, fmt.Sprintf(`fill="%s" fill-opacity="0.7" stroke="black" stroke-width="0.5"`, colors[t.Template]))
		if r.labels && float64(t.Rect.W())*c.scale > 4*font && float64(t.Rect.H())*c.scale > 2.5*font {
			c.text(&buf, t.Rect, fmt.Sprintf("%s (%d,%d)", t.Template, t.Row, t.Col), font, false)
		}
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g id="edge-cells">` + "\n")
	for _, e := range m.EdgeCells {
		c.rect(&buf, e.Rect, fmt.Sprintf(`fill="%s" fill-opacity="0.8" stroke="black" stroke-width="0.2"`, edgeColor))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g id="pins">` + "\n")
	for _, p := range m.Pins {
		c.rect(&buf, p.Rect, fmt.Sprintf(`fill="%s" stroke="black" stroke-width="0.5"`, pinColor))
		if r.labels {
			c.text(&buf, pinLabelBox(p), p.Name, font*0.8, p.Side == ioring.East || p.Side == ioring.West)
		}
	}
	buf.WriteString("  </g>\n")

	c.rect(&buf, m.Dims.Core, fmt.Sprintf(`fill="none" stroke="%s" stroke-width="2"`, coreColor))
	c.rect(&buf, die, fmt.Sprintf(`fill="none" stroke="%s" stroke-width="2"`, dieColor))

	if r.legend {
		writeLegend(&buf, r.width+2*svgPad, svgPad, m, colors)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// pinLabelBox moves the label of a pin inward so it does not sit on the
// die boundary.
func pinLabelBox(p ioring.Placed) geom.Rect {
	r := p.Rect
	d := geom.Point{}
	switch p.Side {
	case ioring.North:
		d.Y = -2 * r.H()
	case ioring.South:
		d.Y = 2 * r.H()
	case ioring.East:
		d.X = -2 * r.W()
	case ioring.West:
		d.X = 2 * r.W()
	}
	return r.Translate(d)
}

func tileFontSize(tiles int) float64 {
	switch {
	case tiles > 100:
		return 6
	case tiles > 25:
		return 8
	}
	return 10
}

func writeLegend(buf *bytes.Buffer, x, y float64, m *layout.Model, colors map[string]string) {
	type entry struct {
		label, fill, stroke string
	}
	entries := []entry{
		{"Die Area", "none", dieColor},
		{"Core Area", "none", coreColor},
		{"Edge Cells", edgeColor, "black"},
		{"I/O Pins", pinColor, "black"},
	}
	for _, t := range m.Templates {
		entries = append(entries, entry{t.Name, colors[t.Name], "black"})
	}
	buf.WriteString(`  <g id="legend">` + "\n")
	for i, e := range entries {
		ey := y + float64(i)*legendRow
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="12" height="12" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			x+10, ey, e.fill, e.stroke)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="11" dominant-baseline="central">%s</text>`+"\n",
			x+28, ey+6, html.EscapeString(e.label))
	}
	buf.WriteString("  </g>\n")
}
