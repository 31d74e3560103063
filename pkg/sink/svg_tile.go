package sink

import (
	"bytes"
	"fmt"
	"html"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/layout"
)

// RenderTileSVG draws one template in use by the model: its site grid
// and every cell instance of every row.
func RenderTileSVG(m *layout.Model, template string, opts ...SVGOption) ([]byte, error) {
	tpl, ok := m.Template(template)
	if !ok {
		return nil, ferrors.New(ferrors.ErrCodeUnknownTileType, "template %q is not used by fabric %s", template, m.Name)
	}
	r := newSVGRenderer(opts...)

	siteW, siteH := m.Frame.SiteW, m.Frame.SiteH
	w, h := int64(tpl.Width)*siteW, int64(tpl.Height)*siteH
	c := newCanvas(w, h, r.width)
	c.offY += 24 // title

	var buf bytes.Buffer
	title := fmt.Sprintf("Tile: %s (%dx%d sites, %d cells)", tpl.Name, tpl.Width, tpl.Height, tpl.CellCount())
	openSVG(&buf, r.width+2*svgPad, c.heightPx(), title)
	fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="16" font-weight="bold">%s</text>`+"\n",
		svgPad, svgPad+4, html.EscapeString(title))

	outline := geom.Rect{X1: w, Y1: h}
	c.rect(&buf, outline, `fill="lightgray" fill-opacity="0.3" stroke="black" stroke-width="2"`)

	font := min(12, max(4, float64(siteH)*c.scale*0.4))
	buf.WriteString(`  <g id="cells">` + "\n")
	for _, row := range tpl.Rows {
		for _, p := range tpl.Placements(row.ID) {
			cat := layout.CategoryLogic
			if cell, ok := m.Catalog().Lookup(p.Alias); ok {
				cat = layout.CategoryOf(cell)
			}
			rect := geom.RectWH(int64(p.Offset)*siteW, int64(p.RowID)*siteH, int64(p.Width)*siteW, siteH)
			c.rect(&buf, rect, fmt.Sprintf(`fill="%s" stroke="black" stroke-width="0.5"`, cellColor(p.Alias, cat)))
			if r.labels && float64(rect.W())*c.scale > float64(len(p.Alias))*font*0.6 {
				c.text(&buf, rect, p.Alias, font, false)
			}
		}
	}
	buf.WriteString("  </g>\n")

	if r.grid {
		buf.WriteString(`  <g id="grid" stroke="gray" stroke-width="0.5" stroke-opacity="0.4">` + "\n")
		for i := 0; i <= tpl.Height; i++ {
			y := c.y(int64(i) * siteH)
			fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", c.x(0), y, c.x(w), y)
		}
		for i := 0; i <= tpl.Width; i++ {
			x := c.x(int64(i) * siteW)
			fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", x, c.y(0), x, c.y(h))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
