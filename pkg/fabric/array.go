package fabric

import (
	"fmt"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/tiles"
)

// Array is a composed tile array. Row 0 is the bottom row and column 0
// the leftmost column. Every tile has the same size as the default tile.
type Array struct {
	rows, cols int
	grid       []*tiles.Template // row-major
	def        *tiles.Template
	applied    []Region
}

// Compose fills a Rows x Cols array with the default tile and applies the
// regions in declaration order.
//
// A region is applied only if its tile type resolves, it lies inside the
// array, it does not overlap a region applied before it and its template
// has the default tile's size. Every rejected region is reported; the
// returned array reflects the accepted ones. The array is nil only when
// the dimensions or the default tile are unusable.
func Compose(cfg *Config, cat *tiles.Catalog) (*Array, *ferrors.Report) {
	rep := ferrors.NewReport()
	dims := cfg.Dimensions
	if dims.Rows <= 0 || dims.Cols <= 0 {
		rep.Errorf(ferrors.ErrCodeInvalidInput, "fabric.array_dimensions",
			"array dimensions must be positive, got %d x %d", dims.Rows, dims.Cols)
		return nil, rep
	}
	def, err := cat.Resolve(cfg.Tiles.DefaultTile)
	if err != nil {
		rep.AddError("fabric.tile_configuration.default_tile", err)
		return nil, rep
	}

	a := &Array{
		rows: dims.Rows,
		cols: dims.Cols,
		grid: make([]*tiles.Template, dims.Rows*dims.Cols),
		def:  def,
	}
	for i := range a.grid {
		a.grid[i] = def
	}

	for _, r := range cfg.Tiles.Regions {
		loc := "region " + r.Name
		tpl, err := cat.Resolve(r.TileType)
		if err != nil {
			rep.AddError(loc, err)
			continue
		}
		if !r.Area.Within(a.rows, a.cols) {
			rep.Errorf(ferrors.ErrCodeRegionOutOfBounds, loc,
				"area (row_start %d, col_start %d, %d x %d) exceeds the %d x %d array",
				r.Area.RowStart, r.Area.ColStart, r.Area.Width, r.Area.Height, a.rows, a.cols)
			continue
		}
		if prev, ok := a.overlapping(r.Area); ok {
			rep.Errorf(ferrors.ErrCodeRegionOverlap, loc,
				"%s overlaps region %q (%s)", r.Area, prev.Name, prev.Area)
			continue
		}
		if tpl.Width != def.Width || tpl.Height != def.Height {
			rep.Errorf(ferrors.ErrCodeTileSizeMismatch, loc,
				"tile %s is %dx%d but default tile %s is %dx%d",
				tpl.Name, tpl.Width, tpl.Height, def.Name, def.Width, def.Height)
			continue
		}
		for row := r.Area.RowStart; row < r.Area.RowStart+r.Area.Height; row++ {
			for col := r.Area.ColStart; col < r.Area.ColStart+r.Area.Width; col++ {
				a.grid[row*a.cols+col] = tpl
			}
		}
		a.applied = append(a.applied, r)
	}
	return a, rep
}

func (a *Array) overlapping(area Area) (Region, bool) {
	for _, prev := range a.applied {
		if prev.Area.Overlaps(area) {
			return prev, true
		}
	}
	return Region{}, false
}

// Rows returns the number of tile rows.
func (a *Array) Rows() int { return a.rows }

// Cols returns the number of tile columns.
func (a *Array) Cols() int { return a.cols }

// At returns the template at (row, col).
func (a *Array) At(row, col int) *tiles.Template {
	if row < 0 || row >= a.rows || col < 0 || col >= a.cols {
		panic(fmt.Sprintf("fabric: tile (%d,%d) outside %dx%d array", row, col, a.rows, a.cols))
	}
	return a.grid[row*a.cols+col]
}

// Default returns the default template.
func (a *Array) Default() *tiles.Template { return a.def }

// TileWidth returns the tile width in sites.
func (a *Array) TileWidth() int { return a.def.Width }

// TileHeight returns the tile height in rows.
func (a *Array) TileHeight() int { return a.def.Height }

// FabricSites returns the width of the tile array in sites.
func (a *Array) FabricSites() int { return a.cols * a.def.Width }

// FabricRows returns the height of the tile array in rows.
func (a *Array) FabricRows() int { return a.rows * a.def.Height }

// Regions returns the regions that were applied.
func (a *Array) Regions() []Region { return append([]Region(nil), a.applied...) }

// Names returns the template name of every tile, indexed [row][col].
func (a *Array) Names() [][]string {
	out := make([][]string, a.rows)
	for r := range out {
		out[r] = make([]string, a.cols)
		for c := range out[r] {
			out[r][c] = a.grid[r*a.cols+c].Name
		}
	}
	return out
}

// Counts returns the number of tiles per template name.
func (a *Array) Counts() map[string]int {
	out := make(map[string]int)
	for _, t := range a.grid {
		out[t.Name]++
	}
	return out
}

// Templates returns the distinct templates in row-major first-use order.
func (a *Array) Templates() []*tiles.Template {
	seen := make(map[*tiles.Template]bool)
	var out []*tiles.Template
	for _, t := range a.grid {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
