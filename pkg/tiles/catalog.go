package tiles

import (
	"fmt"
	"strings"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/tech"
)

// Catalog is a validated, name-indexed set of templates.
type Catalog struct {
	order  []*Template
	byName map[string]*Template
}

// NewCatalog validates defs against the cell catalog and indexes the
// templates by name.
//
// Templates with errors are still indexed so that fabric regions naming
// them do not report a second, misleading UNKNOWN_TILE_TYPE.
func NewCatalog(defs Definitions, cells *tech.Catalog) (*Catalog, *ferrors.Report) {
	rep := ferrors.NewReport()
	c := &Catalog{byName: make(map[string]*Template)}

	if len(defs.Tiles) == 0 {
		rep.Errorf(ferrors.ErrCodeInvalidInput, "tiles", "no tile templates declared")
	}

	for i := range defs.Tiles {
		t := defs.Tiles[i]
		if err := ferrors.ValidateDesignName("tile", t.Name); err != nil {
			rep.AddError(fmt.Sprintf("tiles[%d]", i), err)
			continue
		}
		if _, dup := c.byName[t.Name]; dup {
			rep.Errorf(ferrors.ErrCodeDuplicateName, "tile "+t.Name, "tile %q declared more than once", t.Name)
			continue
		}
		tpl := &t
		tpl.expanded = make(map[int][]Placement, len(t.Rows))
		validate(rep, tpl, cells)
		c.byName[t.Name] = tpl
		c.order = append(c.order, tpl)
	}
	return c, rep
}

func validate(rep *ferrors.Report, t *Template, cells *tech.Catalog) {
	loc := "tile " + t.Name
	if t.Width <= 0 || t.Height <= 0 {
		rep.Errorf(ferrors.ErrCodeInvalidInput, loc,
			"tile dimensions must be positive, got %d sites x %d rows", t.Width, t.Height)
	}
	if len(t.Rows) != t.Height {
		rep.Errorf(ferrors.ErrCodeInvalidTileRows, loc,
			"tile declares height %d but has %d rows", t.Height, len(t.Rows))
	}

	seen := make(map[int]bool, len(t.Rows))
	widths := make(map[int]int, len(t.Rows))
	var measured []int // row ids with a computable width, in order

	for _, row := range t.Rows {
		rowLoc := fmt.Sprintf("%s row %d", loc, row.ID)
		if row.ID < 0 || (t.Height > 0 && row.ID >= t.Height) {
			rep.Errorf(ferrors.ErrCodeInvalidTileRows, rowLoc, "row id %d outside 0..%d", row.ID, t.Height-1)
		}
		if seen[row.ID] {
			rep.Errorf(ferrors.ErrCodeInvalidTileRows, rowLoc, "row id %d declared more than once", row.ID)
			continue
		}
		seen[row.ID] = true

		width, ok := expandRow(rep, t, row, rowLoc, cells)
		if !ok {
			continue
		}
		widths[row.ID] = width
		measured = append(measured, row.ID)
		if width != t.Width {
			rep.Errorf(ferrors.ErrCodeRowWidthMismatch, rowLoc,
				"row width %d sites (%s) does not match tile width %d", width, breakdown(t, row.ID), t.Width)
		}
	}

	for _, id := range measured[min(1, len(measured)):] {
		if widths[id] != widths[measured[0]] {
			parts := make([]string, len(measured))
			for i, r := range measured {
				parts[i] = fmt.Sprintf("row %d=%d", r, widths[r])
			}
			rep.Errorf(ferrors.ErrCodeInconsistentRowWidths, loc,
				"rows have different widths: %s", strings.Join(parts, ", "))
			break
		}
	}
}

// expandRow resolves every cell of a row and records its placements.
// ok is false when any alias is unknown or a count is invalid.
func expandRow(rep *ferrors.Report, t *Template, row Row, loc string, cells *tech.Catalog) (int, bool) {
	ok := true
	var ps []Placement
	offset := 0
	for k, spec := range row.Cells {
		if spec.Count <= 0 {
			rep.Errorf(ferrors.ErrCodeInvalidInput, loc, "cell %d (%s): count must be positive, got %d", k, spec.Type, spec.Count)
			ok = false
			continue
		}
		cell, err := cells.Resolve(spec.Type)
		if err != nil {
			rep.AddError(fmt.Sprintf("%s cell %d", loc, k), err)
			ok = false
			continue
		}
		if cell.Height != 1 {
			rep.Errorf(ferrors.ErrCodeInvalidInput, loc, "cell %d (%s) is %d rows tall, tile rows take single-row cells", k, cell.Alias, cell.Height)
			ok = false
			continue
		}
		for range spec.Count {
			ps = append(ps, Placement{
				Alias:  cell.Alias,
				RowID:  row.ID,
				Index:  len(ps),
				Offset: offset,
				Width:  cell.Width,
			})
			offset += cell.Width
		}
	}
	if !ok {
		return 0, false
	}
	t.expanded[row.ID] = ps
	return offset, true
}

func breakdown(t *Template, rowID int) string {
	row, _ := t.Row(rowID)
	widths := make(map[string]int)
	for _, p := range t.expanded[rowID] {
		widths[p.Alias] = p.Width
	}
	parts := make([]string, len(row.Cells))
	for i, spec := range row.Cells {
		w := widths[spec.Type]
		parts[i] = fmt.Sprintf("%s %dx%d=%d", spec.Type, spec.Count, w, spec.Count*w)
	}
	return strings.Join(parts, " + ")
}

// Resolve returns the template with the given name or an
// UNKNOWN_TILE_TYPE error.
func (c *Catalog) Resolve(name string) (*Template, error) {
	if t, ok := c.byName[name]; ok {
		return t, nil
	}
	return nil, ferrors.New(ferrors.ErrCodeUnknownTileType, "unknown tile type %q", name)
}

// Templates returns the templates in declaration order.
func (c *Catalog) Templates() []*Template {
	return append([]*Template(nil), c.order...)
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.order) }
