// Package tiles holds tile templates: named rectangles of cell rows that
// the fabric composer stamps across the array.
//
// Every template row must fill the template width exactly, and all rows
// of a template have the same width. [NewCatalog] checks both against a
// technology catalog and precomputes the site offset of every cell so
// that coordinate lookups are constant time.
package tiles

// CellSpec is a run of Count identical cells inside a row.
type CellSpec struct {
	Type  string // cell alias
	Count int
}

// Row is one row of a template. ID is the row index counted from the
// bottom of the tile.
type Row struct {
	ID    int
	Cells []CellSpec
}

// Template is a tile type. Width is in sites, Height in rows.
type Template struct {
	Name        string
	Description string
	Width       int
	Height      int
	Site        string
	Rows        []Row

	expanded map[int][]Placement // by row id
}

// Definitions is a decoded tiles document.
type Definitions struct {
	Tiles []Template
}

// Placement is one expanded cell of a template row.
type Placement struct {
	Alias  string
	RowID  int
	Index  int // position within the row
	Offset int // sites from the tile's left edge
	Width  int // sites
}

// Row returns the row with the given id.
func (t *Template) Row(id int) (Row, bool) {
	for _, r := range t.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// Placements returns the expanded cells of a row in left-to-right order.
// It is only populated for templates owned by a Catalog.
func (t *Template) Placements(rowID int) []Placement {
	return t.expanded[rowID]
}

// CellOffset returns the site offset of the cellIndex-th cell of a row.
func (t *Template) CellOffset(rowID, cellIndex int) (int, bool) {
	ps := t.expanded[rowID]
	if cellIndex < 0 || cellIndex >= len(ps) {
		return 0, false
	}
	return ps[cellIndex].Offset, true
}

// CellCount returns the number of cells in one instance of the template.
func (t *Template) CellCount() int {
	n := 0
	for _, r := range t.Rows {
		for _, c := range r.Cells {
			n += c.Count
		}
	}
	return n
}

// Counts returns the number of cells per alias in one instance.
func (t *Template) Counts() map[string]int {
	out := make(map[string]int)
	for _, r := range t.Rows {
		for _, c := range r.Cells {
			out[c.Type] += c.Count
		}
	}
	return out
}
