package layout

import (
	"fmt"
	"sort"

	"github.com/structasic/fabgen/pkg/edge"
	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/fabric"
	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/ioring"
	"github.com/structasic/fabgen/pkg/tech"
)

// Input carries the results of every earlier stage.
type Input struct {
	Config   *fabric.Config
	Cells    *tech.Catalog
	Array    *fabric.Array
	Ring     *edge.Ring
	Pins     []ioring.Placed
	Frame    geom.Frame
	Warnings []ferrors.Diagnostic
}

// NewDimensions derives every frame size from the array, the edge ring
// and a frame whose margins are already set.
func NewDimensions(arr *fabric.Array, ring *edge.Ring, f geom.Frame) Dimensions {
	d := Dimensions{
		ArrayRows:   arr.Rows(),
		ArrayCols:   arr.Cols(),
		TileSites:   arr.TileWidth(),
		TileRows:    arr.TileHeight(),
		FabricSites: ring.FabricSites,
		FabricRows:  ring.FabricRows,
		CoreSites:   ring.CoreSites,
		CoreRows:    ring.CoreRows,
		Edges:       ring.Extents,
		MarginX:     f.MarginX,
		MarginY:     f.MarginY,
	}
	d.Fabric = f.FabricRect(geom.Point{}, d.FabricSites, d.FabricRows)
	d.Core = f.CoreRect(geom.Point{}, d.CoreSites, d.CoreRows)
	d.Die = geom.Rect{X0: 0, Y0: 0, X1: d.Core.X1 + f.MarginX, Y1: d.Core.Y1 + f.MarginY}
	return d
}

// Build expands every tile into cells, places the edge ring, lays out the
// rows, computes statistics and seals the model.
//
// The report only carries INTERNAL_ERROR diagnostics: earlier stages are
// expected to have rejected bad inputs, so a failure here means the
// stages disagree with each other.
func Build(in Input) (*Model, *ferrors.Report) {
	rep := ferrors.NewReport()
	f := in.Frame
	tc := in.Cells.Technology()

	m := &Model{
		Name:         in.Config.Name,
		Description:  in.Config.Description,
		Technology:   tc.Name,
		DBUPerMicron: in.Cells.DBUPerMicron(),
		Site:         tc.Site,
		Frame:        f,
		Dims:         NewDimensions(in.Array, in.Ring, f),
		TileArray:    in.Array.Names(),
		Templates:    in.Array.Templates(),
		Pins:         in.Pins,
		Power:        in.Config.Power,
		Layers:       in.Cells.ProgrammableLayers(),
		Warnings:     in.Warnings,
		cells:        in.Cells,
	}

	m.buildTiles(rep, in.Array)
	m.buildEdgeCells(rep, in.Ring)
	m.buildRows()
	m.seal(rep)
	if rep.HasErrors() {
		return nil, rep
	}
	m.Stats = computeStats(m, in.Array)
	return m, rep
}

func (m *Model) buildTiles(rep *ferrors.Report, arr *fabric.Array) {
	f := m.Frame
	for r := range arr.Rows() {
		for c := range arr.Cols() {
			tpl := arr.At(r, c)
			m.Tiles = append(m.Tiles, Tile{
				Row:      r,
				Col:      c,
				Template: tpl.Name,
				Rect:     f.FabricRect(f.TileOrigin(r, c), tpl.Width, tpl.Height),
			})
			for _, row := range tpl.Rows {
				for _, p := range tpl.Placements(row.ID) {
					origin, ok := f.CellOrigin(r, c, tpl, p.RowID, p.Index)
					if !ok {
						rep.Errorf(ferrors.ErrCodeInternal, fmt.Sprintf("tile (%d,%d)", r, c),
							"no origin for cell %d of row %d in %s", p.Index, p.RowID, tpl.Name)
						continue
					}
					cell, ok := m.cells.Lookup(p.Alias)
					if !ok {
						rep.Errorf(ferrors.ErrCodeInternal, fmt.Sprintf("tile (%d,%d)", r, c), "cell %q vanished from the catalog", p.Alias)
						continue
					}
					m.Cells = append(m.Cells, Cell{
						Name:     fmt.Sprintf("%s_T%d-%d_C%d-%d", p.Alias, r, c, p.RowID, p.Index),
						Alias:    p.Alias,
						Macro:    cell.Macro(),
						Category: CategoryOf(cell),
						Rect:     f.FabricRect(origin, p.Width, 1),
						TileRow:  r,
						TileCol:  c,
						RowID:    p.RowID,
						Index:    p.Index,
					})
				}
			}
		}
	}
}

func (m *Model) buildEdgeCells(rep *ferrors.Report, ring *edge.Ring) {
	for _, inst := range ring.Instances {
		cell, ok := m.cells.Lookup(inst.Alias)
		if !ok {
			rep.Errorf(ferrors.ErrCodeInternal, inst.Name, "edge cell %q vanished from the catalog", inst.Alias)
			continue
		}
		m.EdgeCells = append(m.EdgeCells, Cell{
			Name:     inst.Name,
			Alias:    inst.Alias,
			Macro:    cell.Macro(),
			Category: CategoryEdge,
			Rect:     m.Frame.CoreRect(inst.Origin, inst.Width, inst.Height),
			TileRow:  -1,
			TileCol:  -1,
			RowID:    -1,
			Index:    inst.Index,
			Edge:     inst.Direction,
		})
	}
}

func (m *Model) buildRows() {
	d := m.Dims
	add := func(name string, coreRow int) {
		m.Rows = append(m.Rows, Row{
			Name:   name,
			Origin: m.Frame.CoreToPhysical(geom.Point{Y: int64(coreRow)}),
			Sites:  d.CoreSites,
		})
	}
	for k := range d.Edges.Bottom {
		add(fmt.Sprintf("ROW_BOTTOM_%d", k), k)
	}
	for i := range d.FabricRows {
		add(fmt.Sprintf("ROW_%d", i), d.Edges.Bottom+i)
	}
	for k := range d.Edges.Top {
		add(fmt.Sprintf("ROW_TOP_%d", k), d.Edges.Bottom+d.FabricRows+k)
	}
}

// seal checks the model contract: unique names, non-empty rectangles
// inside the die and no two components sharing area.
func (m *Model) seal(rep *ferrors.Report) {
	die := m.Dims.Die
	names := make(map[string]bool, len(m.Cells)+len(m.EdgeCells))
	comps := m.Components()
	for _, c := range comps {
		if names[c.Name] {
			rep.Errorf(ferrors.ErrCodeInternal, c.Name, "duplicate component name")
		}
		names[c.Name] = true
		if c.Rect.Empty() || !die.Contains(c.Rect) {
			rep.Errorf(ferrors.ErrCodeInternal, c.Name, "rectangle %+v empty or outside die %+v", c.Rect, die)
		}
	}
	pins := make(map[string]bool, len(m.Pins))
	for _, p := range m.Pins {
		if pins[p.Name] {
			rep.Errorf(ferrors.ErrCodeInternal, p.Name, "duplicate pin name")
		}
		pins[p.Name] = true
		if p.Rect.Empty() || !die.Contains(p.Rect) {
			rep.Errorf(ferrors.ErrCodeInternal, p.Name, "pin rectangle %+v empty or outside die %+v", p.Rect, die)
		}
	}

	sorted := make([]geom.Rect, len(comps))
	for i, c := range comps {
		sorted[i] = c.Rect
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y0 != sorted[j].Y0 {
			return sorted[i].Y0 < sorted[j].Y0
		}
		return sorted[i].X0 < sorted[j].X0
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Y0 == sorted[i-1].Y0 && sorted[i].Overlaps(sorted[i-1]) {
			rep.Errorf(ferrors.ErrCodeInternal, "components", "components overlap at %+v and %+v", sorted[i-1], sorted[i])
			return
		}
	}
}
