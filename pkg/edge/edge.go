// Package edge synthesizes the ring of edge cells around a tile array.
//
// Left and right edge cells get one instance per fabric row. Top and
// bottom edge cells span the full core width, corners included, so the
// core ends up exactly (left + fabric + right) sites wide and
// (bottom + fabric + top) rows tall.
package edge

import (
	"fmt"
	"strings"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/fabric"
	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/tech"
)

// Extents are the edge-cell ring thicknesses: sites on the left and
// right, rows on the top and bottom. Zero means the side is disabled.
type Extents struct {
	Left, Right, Top, Bottom int
}

// Instance is one placed edge cell. Origin is in the core frame.
type Instance struct {
	Name      string
	Alias     string
	Direction fabric.Direction
	Index     int
	Origin    geom.Point
	Width     int // sites
	Height    int // rows
}

// Ring is the synthesized edge-cell ring.
type Ring struct {
	Instances []Instance
	Extents   Extents

	FabricSites, FabricRows int
	CoreSites, CoreRows     int
}

// Count returns the number of instances on side d.
func (r *Ring) Count(d fabric.Direction) int {
	n := 0
	for _, inst := range r.Instances {
		if inst.Direction == d {
			n++
		}
	}
	return n
}

// Name returns the instance name of the i-th edge cell on side d.
func Name(alias string, d fabric.Direction, i int) string {
	return fmt.Sprintf("%s_EDGE_%s_%d", alias, strings.ToUpper(string(d)), i)
}

// Synthesize builds the ring for arr. A nil cfg yields an empty ring whose
// core equals the tile array.
func Synthesize(arr *fabric.Array, cfg *fabric.EdgeCells, cells *tech.Catalog) (*Ring, *ferrors.Report) {
	rep := ferrors.NewReport()
	resolved := make(map[fabric.Direction]*tech.Cell, 4)

	for _, d := range fabric.Directions() {
		side := cfg.Side(d)
		if side == nil {
			continue
		}
		loc := "edge_cells." + string(d)
		if !side.Enable {
			rep.Warnf(ferrors.ErrCodeEdgeDisabled, loc, "%s edge cells declared but disabled", d)
			continue
		}
		cell, err := cells.Resolve(side.Cell)
		if err != nil {
			rep.AddError(loc, err)
			continue
		}
		if (d == fabric.Left || d == fabric.Right) && cell.Height != 1 {
			rep.Errorf(ferrors.ErrCodeInvalidInput, loc,
				"%s edge cell %s is %d rows tall, side edge cells must be one row", d, cell.Alias, cell.Height)
			continue
		}
		resolved[d] = cell
	}

	ring := &Ring{
		FabricSites: arr.FabricSites(),
		FabricRows:  arr.FabricRows(),
	}
	if c := resolved[fabric.Left]; c != nil {
		ring.Extents.Left = c.Width
	}
	if c := resolved[fabric.Right]; c != nil {
		ring.Extents.Right = c.Width
	}
	if c := resolved[fabric.Top]; c != nil {
		ring.Extents.Top = c.Height
	}
	if c := resolved[fabric.Bottom]; c != nil {
		ring.Extents.Bottom = c.Height
	}
	ring.CoreSites = ring.Extents.Left + ring.FabricSites + ring.Extents.Right
	ring.CoreRows = ring.Extents.Bottom + ring.FabricRows + ring.Extents.Top

	for _, d := range []fabric.Direction{fabric.Top, fabric.Bottom} {
		if c := resolved[d]; c != nil && ring.CoreSites%c.Width != 0 {
			rep.Errorf(ferrors.ErrCodeEdgeRowWidthMismatch, "edge_cells."+string(d),
				"core width %d sites is not a multiple of %s width %d", ring.CoreSites, c.Alias, c.Width)
			delete(resolved, d)
		}
	}

	for _, d := range fabric.Directions() {
		c := resolved[d]
		if c == nil {
			continue
		}
		ring.Instances = append(ring.Instances, ring.side(d, c)...)
	}
	return ring, rep
}

func (r *Ring) side(d fabric.Direction, c *tech.Cell) []Instance {
	var out []Instance
	add := func(i int, x, y int) {
		out = append(out, Instance{
			Name:      Name(c.Alias, d, i),
			Alias:     c.Alias,
			Direction: d,
			Index:     i,
			Origin:    geom.Point{X: int64(x), Y: int64(y)},
			Width:     c.Width,
			Height:    c.Height,
		})
	}
	switch d {
	case fabric.Left:
		for i := range r.FabricRows {
			add(i, 0, r.Extents.Bottom+i)
		}
	case fabric.Right:
		for i := range r.FabricRows {
			add(i, r.Extents.Left+r.FabricSites, r.Extents.Bottom+i)
		}
	case fabric.Top:
		for i := range r.CoreSites / c.Width {
			add(i, i*c.Width, r.Extents.Bottom+r.FabricRows)
		}
	case fabric.Bottom:
		for i := range r.CoreSites / c.Width {
			add(i, i*c.Width, 0)
		}
	}
	return out
}
