// Package fabric holds the fabric configuration and composes the tile
// array from it.
//
// A [Config] is the decoded fabric document: array size, default tile,
// region overrides, edge cells, I/O ring, margins and power grid. Compose
// turns the tile part of it into an [Array] of resolved templates.
package fabric

import (
	"fmt"

	ferrors "github.com/structasic/fabgen/pkg/errors"
)

// Config is a decoded fabric document.
type Config struct {
	Name        string
	Description string
	Dimensions  Dimensions
	Tiles       TileConfiguration
	EdgeCells   *EdgeCells
	IORing      *IORing
	Margins     *Margins
	Power       *PowerDistribution
}

// Dimensions is the tile array size.
type Dimensions struct {
	Rows, Cols int
}

// TileConfiguration names the default tile and its overrides.
type TileConfiguration struct {
	DefaultTile string
	Regions     []Region // declaration order
}

// Region overrides the tile type over a rectangular block of the array.
type Region struct {
	Name     string
	TileType string
	Area     Area
}

// Area is a block of tiles. Indices are 0-based and the block covers
// rows [RowStart, RowStart+Height) and columns [ColStart, ColStart+Width).
type Area struct {
	RowStart, ColStart int
	Width, Height      int
}

// Overlaps reports whether a and b share at least one tile.
func (a Area) Overlaps(b Area) bool {
	return a.RowStart < b.RowStart+b.Height && b.RowStart < a.RowStart+a.Height &&
		a.ColStart < b.ColStart+b.Width && b.ColStart < a.ColStart+a.Width
}

// Contains reports whether tile (row, col) lies in a.
func (a Area) Contains(row, col int) bool {
	return row >= a.RowStart && row < a.RowStart+a.Height &&
		col >= a.ColStart && col < a.ColStart+a.Width
}

// Within reports whether a is non-empty and lies inside a rows x cols
// array.
func (a Area) Within(rows, cols int) bool {
	return a.Width > 0 && a.Height > 0 && a.RowStart >= 0 && a.ColStart >= 0 &&
		a.RowStart+a.Height <= rows && a.ColStart+a.Width <= cols
}

func (a Area) String() string {
	return fmt.Sprintf("rows %d..%d, cols %d..%d",
		a.RowStart, a.RowStart+a.Height-1, a.ColStart, a.ColStart+a.Width-1)
}

// Direction names a side of the tile array for edge cells.
type Direction string

const (
	Left   Direction = "left"
	Right  Direction = "right"
	Top    Direction = "top"
	Bottom Direction = "bottom"
)

// Directions returns the edge-cell sides in generation order.
func Directions() []Direction {
	return []Direction{Left, Right, Top, Bottom}
}

// EdgeCell configures one side of the edge-cell ring.
type EdgeCell struct {
	Enable bool
	Cell   string // cell alias
}

// EdgeCells configures the ring. A nil side is not declared.
type EdgeCells struct {
	Left, Right, Top, Bottom *EdgeCell
}

// Side returns the configuration for d.
func (e *EdgeCells) Side(d Direction) *EdgeCell {
	if e == nil {
		return nil
	}
	switch d {
	case Left:
		return e.Left
	case Right:
		return e.Right
	case Top:
		return e.Top
	case Bottom:
		return e.Bottom
	}
	return nil
}

// Spacing modes of an I/O edge.
const (
	SpacingAuto   = "auto"
	SpacingManual = "manual"
)

// IORing is the pin configuration.
type IORing struct {
	PinSize *PinSize
	Edges   []Edge // declaration order
}

// PinSize is the pin rectangle in DBU.
type PinSize struct {
	Width, Height int64
}

// Edge is one side of the I/O ring.
type Edge struct {
	Name    string // north, south, east, west
	Spacing string // auto (default) or manual
	Pins    []Pin
}

// Mode returns the effective spacing mode.
func (e Edge) Mode() string {
	if e.Spacing == "" {
		return SpacingAuto
	}
	return e.Spacing
}

// Pin is an I/O pin declaration. Position is the pin centre in microns
// along the edge and is only meaningful for manual edges.
type Pin struct {
	Name      string
	Type      string
	Direction string
	Position  *float64
	Mode      string
}

// Margins are the die margins around the core, in microns.
type Margins struct {
	Horizontal, Vertical float64
}

// PowerDistribution describes the power grid.
type PowerDistribution struct {
	Primary   *Grid
	Secondary *Grid
}

// Grid carries the rails of one grid level.
type Grid struct {
	VDD, VSS *Rail
}

// Rail is one net of a grid level. Width and Pitch are in microns.
type Rail struct {
	Layer string
	Width float64
	Pitch float64
}

// Rail returns the rail for net ("VDD" or "VSS").
func (g *Grid) Rail(net string) *Rail {
	if g == nil {
		return nil
	}
	switch net {
	case "VDD":
		return g.VDD
	case "VSS":
		return g.VSS
	}
	return nil
}

// PinCount returns the number of declared pins.
func (c *Config) PinCount() int {
	if c.IORing == nil {
		return 0
	}
	n := 0
	for _, e := range c.IORing.Edges {
		n += len(e.Pins)
	}
	return n
}

// Validate performs the checks that need nothing but the document itself.
// Cross-references to catalogs are checked by the stages that resolve
// them.
func (c *Config) Validate() *ferrors.Report {
	rep := ferrors.NewReport()
	if err := ferrors.ValidateDesignName("fabric", c.Name); err != nil {
		rep.AddError("fabric.name", err)
	}
	if c.Dimensions.Rows <= 0 || c.Dimensions.Cols <= 0 {
		rep.Errorf(ferrors.ErrCodeInvalidInput, "fabric.array_dimensions",
			"array dimensions must be positive, got %d x %d", c.Dimensions.Rows, c.Dimensions.Cols)
	}
	if c.Tiles.DefaultTile == "" {
		rep.Errorf(ferrors.ErrCodeInvalidInput, "fabric.tile_configuration", "default_tile is required")
	}

	names := make(map[string]bool, len(c.Tiles.Regions))
	for i, r := range c.Tiles.Regions {
		loc := fmt.Sprintf("region %s", r.Name)
		if r.Name == "" {
			loc = fmt.Sprintf("regions[%d]", i)
			rep.Errorf(ferrors.ErrCodeInvalidInput, loc, "region name is required")
		} else if names[r.Name] {
			rep.Errorf(ferrors.ErrCodeDuplicateName, loc, "region %q declared more than once", r.Name)
		}
		names[r.Name] = true
		if r.TileType == "" {
			rep.Errorf(ferrors.ErrCodeInvalidInput, loc, "tile_type is required")
		}
	}

	for _, d := range Directions() {
		side := c.EdgeCells.Side(d)
		if side != nil && side.Enable && side.Cell == "" {
			rep.Errorf(ferrors.ErrCodeInvalidInput, "edge_cells."+string(d), "enabled edge has no cell")
		}
	}

	if m := c.Margins; m != nil && (m.Horizontal < 0 || m.Vertical < 0) {
		rep.Errorf(ferrors.ErrCodeInvalidInput, "fabric.margins",
			"margins must not be negative, got %g x %g", m.Horizontal, m.Vertical)
	}
	if c.Margins == nil && c.PinCount() > 0 {
		rep.Errorf(ferrors.ErrCodeMissingMargins, "fabric.margins", "margins are required when the I/O ring declares pins")
	}
	if ring := c.IORing; ring != nil && ring.PinSize != nil {
		if ring.PinSize.Width <= 0 || ring.PinSize.Height <= 0 {
			rep.Errorf(ferrors.ErrCodeInvalidInput, "io_ring.pin_size",
				"pin size must be positive, got %d x %d", ring.PinSize.Width, ring.PinSize.Height)
		}
	}
	c.validatePower(rep)
	return rep
}

func (c *Config) validatePower(rep *ferrors.Report) {
	if c.Power == nil {
		return
	}
	grids := []struct {
		name string
		g    *Grid
	}{{"primary_grid", c.Power.Primary}, {"secondary_grid", c.Power.Secondary}}
	for _, gr := range grids {
		if gr.g == nil {
			continue
		}
		for _, net := range []string{"VDD", "VSS"} {
			rail := gr.g.Rail(net)
			if rail == nil {
				continue
			}
			loc := fmt.Sprintf("power_distribution.%s.%s", gr.name, net)
			if rail.Layer == "" {
				rep.Errorf(ferrors.ErrCodeInvalidInput, loc, "rail layer is required")
			}
			if rail.Width <= 0 || rail.Pitch < 0 {
				rep.Errorf(ferrors.ErrCodeInvalidInput, loc,
					"rail width must be positive and pitch non-negative, got width %g pitch %g", rail.Width, rail.Pitch)
			}
		}
	}
}
