package sink

import (
	"github.com/structasic/fabgen/pkg/fabric"
	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/layout"
	"github.com/structasic/fabgen/pkg/tech"
)

// rail is one straight power wire between two centreline points.
type rail struct {
	Net      string
	Layer    string
	Width    int64 // DBU
	From, To geom.Point
}

// powerRails derives the wires of the power distribution.
//
// The primary grid follows the row boundaries of the core: even
// boundaries carry VSS and odd ones VDD. The secondary grid is a set of
// stripes across the core along the preferred direction of its layer,
// vertical when the layer is unknown. VDD stripes start a quarter pitch
// in and VSS stripes three quarters in. A stripe rail without a pitch
// contributes nothing.
func powerRails(m *layout.Model) []rail {
	p := m.Power
	if p == nil {
		return nil
	}
	var out []rail
	if g := p.Primary; g != nil {
		out = append(out, rowRails(m, g)...)
	}
	if g := p.Secondary; g != nil {
		for i, net := range []string{"VDD", "VSS"} {
			if r := g.Rail(net); r != nil {
				out = append(out, stripes(m, net, r, i)...)
			}
		}
	}
	return out
}

func rowRails(m *layout.Model, g *fabric.Grid) []rail {
	core := m.Dims.Core
	var out []rail
	for k := 0; k <= m.Dims.CoreRows; k++ {
		net := "VSS"
		if k%2 == 1 {
			net = "VDD"
		}
		r := g.Rail(net)
		if r == nil {
			continue
		}
		y := core.Y0 + int64(k)*m.Frame.SiteH
		out = append(out, rail{
			Net:   net,
			Layer: r.Layer,
			Width: geom.ToDBU(r.Width, m.DBUPerMicron),
			From:  geom.Point{X: core.X0, Y: y},
			To:    geom.Point{X: core.X1, Y: y},
		})
	}
	return out
}

func stripes(m *layout.Model, net string, r *fabric.Rail, phase int) []rail {
	pitch := geom.ToDBU(r.Pitch, m.DBUPerMicron)
	if pitch <= 0 {
		return nil
	}
	core := m.Dims.Core
	horizontal := false
	if l, ok := m.Catalog().Layer(r.Layer); ok {
		horizontal = l.Direction == tech.LayerHorizontal
	}
	span := core.W()
	if horizontal {
		span = core.H()
	}
	var out []rail
	for off := pitch * int64(2*phase+1) / 4; off < span; off += pitch {
		w := rail{Net: net, Layer: r.Layer, Width: geom.ToDBU(r.Width, m.DBUPerMicron)}
		if horizontal {
			w.From = geom.Point{X: core.X0, Y: core.Y0 + off}
			w.To = geom.Point{X: core.X1, Y: core.Y0 + off}
		} else {
			w.From = geom.Point{X: core.X0 + off, Y: core.Y0}
			w.To = geom.Point{X: core.X0 + off, Y: core.Y1}
		}
		out = append(out, w)
	}
	return out
}
