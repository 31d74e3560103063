package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/layout"
)

// FloorplanOption configures floorplan rendering.
type FloorplanOption func(*floorplanRenderer)

type floorplanRenderer struct {
	width float64 // points
	pins  bool
}

// WithFloorplanWidth sets the drawing width in points (default 720).
func WithFloorplanWidth(pt float64) FloorplanOption {
	return func(r *floorplanRenderer) { r.width = pt }
}

// WithoutFloorplanPins leaves the I/O pins out of the floorplan.
func WithoutFloorplanPins() FloorplanOption { return func(r *floorplanRenderer) { r.pins = false } }

func newFloorplanRenderer(opts ...FloorplanOption) floorplanRenderer {
	r := floorplanRenderer{width: 720, pins: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// FloorplanDOT describes the tile array as a Graphviz graph whose nodes
// are pinned to their physical positions. Node positions are in points,
// sizes in inches, as neato expects.
func FloorplanDOT(m *layout.Model, opts ...FloorplanOption) string {
	r := newFloorplanRenderer(opts...)
	die := m.Dims.Die
	scale := 1.0
	if die.W() > 0 {
		scale = r.width / float64(die.W())
	}
	colors := templateColors(m)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", m.Name)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=filled, fixedsize=true, fontsize=10, penwidth=0.5, label=\"\"];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  \"die\" [%s, style=\"\", color=%s, penwidth=2];\n", placement(die, scale), dieColor)
	fmt.Fprintf(&buf, "  \"core\" [%s, style=\"\", color=%s, penwidth=2];\n", placement(m.Dims.Core, scale), coreColor)
	buf.WriteString("\n")

	for _, t := range m.Tiles {
		fmt.Fprintf(&buf, "  \"T%d_%d\" [%s, fillcolor=%q, label=%q];\n",
			t.Row, t.Col, placement(t.Rect, scale), colors[t.Template], fmt.Sprintf("%s\n(%d,%d)", t.Template, t.Row, t.Col))
	}

	if r.pins && len(m.Pins) > 0 {
		buf.WriteString("\n")
		for _, p := range m.Pins {
			fmt.Fprintf(&buf, "  \"pin:%s\" [%s, fillcolor=%s, xlabel=%q];\n",
				p.Name, placement(p.Rect, scale), pinColor, p.Name)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// placement returns the pos, width and height attributes of a node
// covering rect. Nodes are never smaller than 0.05 inches.
func placement(rect geom.Rect, scale float64) string {
	cx := (float64(rect.X0) + float64(rect.W())/2) * scale
	cy := (float64(rect.Y0) + float64(rect.H())/2) * scale
	w := max(float64(rect.W())*scale/72, 0.05)
	h := max(float64(rect.H())*scale/72, 0.05)
	return fmt.Sprintf("pos=\"%.2f,%.2f!\", width=%.4f, height=%.4f", cx, cy, w, h)
}

// RenderFloorplan lays out [FloorplanDOT] with neato and returns SVG.
func RenderFloorplan(ctx context.Context, m *layout.Model, opts ...FloorplanOption) ([]byte, error) {
	return renderDOT(ctx, FloorplanDOT(m, opts...))
}

func renderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with
// its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
