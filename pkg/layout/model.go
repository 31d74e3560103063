// Package layout holds the sealed physical model of a fabric: every tile,
// cell, edge cell, placement row and pin with its physical rectangle, plus
// the derived statistics. Emitters in package sink read nothing else.
//
// A Model is produced by [Build] after composition, edge synthesis and pin
// placement all succeeded. It is immutable from then on.
package layout

import (
	"github.com/structasic/fabgen/pkg/edge"
	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/fabric"
	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/ioring"
	"github.com/structasic/fabgen/pkg/tech"
	"github.com/structasic/fabgen/pkg/tiles"
)

// Category groups instances for statistics and rendering.
type Category string

const (
	CategoryLogic      Category = "logic"
	CategorySequential Category = "sequential"
	CategoryPhysical   Category = "physical"
	CategoryEdge       Category = "edge"
	CategoryPin        Category = "pin"
)

// Model is the sealed layout.
type Model struct {
	Name         string
	Description  string
	Technology   string
	DBUPerMicron int
	Site         tech.Site
	Frame        geom.Frame
	Dims         Dimensions

	TileArray [][]string // [row][col], row 0 at the bottom
	Tiles     []Tile
	Templates []*tiles.Template // distinct templates in use
	Cells     []Cell            // fabric cells
	EdgeCells []Cell
	Rows      []Row
	Pins      []ioring.Placed

	Power  *fabric.PowerDistribution
	Layers []tech.Layer // programmable layers

	Stats    Stats
	Warnings []ferrors.Diagnostic

	cells *tech.Catalog
}

// Dimensions collects the sizes of every frame.
type Dimensions struct {
	ArrayRows, ArrayCols    int
	TileSites, TileRows     int
	FabricSites, FabricRows int
	CoreSites, CoreRows     int
	Edges                   edge.Extents
	MarginX, MarginY        int64 // DBU

	Fabric, Core, Die geom.Rect // DBU
}

// Tile is one tile instance.
type Tile struct {
	Row, Col int
	Template string
	Rect     geom.Rect
}

// Cell is one placed cell instance.
type Cell struct {
	Name     string
	Alias    string
	Macro    string
	Category Category
	Rect     geom.Rect

	// Fabric cells only.
	TileRow, TileCol int
	RowID, Index     int

	// Edge cells only.
	Edge fabric.Direction
}

// Row is a placement row of the core.
type Row struct {
	Name   string
	Origin geom.Point // DBU
	Sites  int
}

// Catalog returns the technology catalog the model was built from.
func (m *Model) Catalog() *tech.Catalog { return m.cells }

// Microns converts a DBU length of this model to microns.
func (m *Model) Microns(dbu int64) float64 {
	return geom.ToMicrons(dbu, m.DBUPerMicron)
}

// Components returns fabric cells followed by edge cells.
func (m *Model) Components() []Cell {
	out := make([]Cell, 0, len(m.Cells)+len(m.EdgeCells))
	out = append(out, m.Cells...)
	return append(out, m.EdgeCells...)
}

// Template returns the template in use with the given name.
func (m *Model) Template(name string) (*tiles.Template, bool) {
	for _, t := range m.Templates {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// CategoryOf classifies a catalog cell.
func CategoryOf(c *tech.Cell) Category {
	switch c.Class() {
	case tech.ClassSequential:
		return CategorySequential
	case tech.ClassPhysical:
		return CategoryPhysical
	}
	return CategoryLogic
}
