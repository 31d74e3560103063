package tech

import (
	"fmt"
	"sort"

	ferrors "github.com/structasic/fabgen/pkg/errors"
)

// Catalog is a validated, alias-indexed view of a Technology.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	tech    *Technology
	dbu     int
	byAlias map[string]*Cell
	byName  map[string]*Cell
}

// NewCatalog validates t and indexes its cells by alias.
//
// Every problem found is recorded in the returned report; the catalog is
// still returned so callers can keep validating downstream documents.
// Cells with a duplicate alias or non-positive dimensions are not indexed.
func NewCatalog(t *Technology) (*Catalog, *ferrors.Report) {
	rep := ferrors.NewReport()
	c := &Catalog{
		tech:    t,
		dbu:     DefaultDistanceUnits,
		byAlias: make(map[string]*Cell),
		byName:  make(map[string]*Cell),
	}
	if t == nil {
		rep.Errorf(ferrors.ErrCodeInvalidInput, "technology", "technology is missing")
		c.tech = &Technology{}
		return c, rep
	}

	switch {
	case t.Units.Distance > 0:
		c.dbu = t.Units.Distance
	case t.Units.Distance < 0:
		rep.Errorf(ferrors.ErrCodeInvalidInput, "technology.units", "distance units must be positive, got %d", t.Units.Distance)
	}

	if t.Site.Width <= 0 || t.Site.Height <= 0 {
		rep.Errorf(ferrors.ErrCodeInvalidInput, "technology.site",
			"site dimensions must be positive, got %g x %g", t.Site.Width, t.Site.Height)
	}
	if len(t.Cells) == 0 {
		rep.Errorf(ferrors.ErrCodeInvalidInput, "technology.cells", "technology declares no cells")
	}

	for i := range t.Cells {
		cell := &t.Cells[i]
		loc := fmt.Sprintf("cell %s", cell.Alias)
		if err := ferrors.ValidateDesignName("cell alias", cell.Alias); err != nil {
			rep.AddError(fmt.Sprintf("technology.cells[%d]", i), err)
			continue
		}
		if _, dup := c.byAlias[cell.Alias]; dup {
			rep.Errorf(ferrors.ErrCodeDuplicateName, loc, "cell alias %q declared more than once", cell.Alias)
			continue
		}
		if cell.Width <= 0 || cell.Height <= 0 {
			rep.Errorf(ferrors.ErrCodeInvalidInput, loc,
				"cell dimensions must be positive, got %d sites x %d rows", cell.Width, cell.Height)
			continue
		}
		checkPins(rep, loc, cell.Pins)
		c.byAlias[cell.Alias] = cell
		if cell.Name != "" {
			if _, dup := c.byName[cell.Name]; !dup {
				c.byName[cell.Name] = cell
			}
		}
	}

	seen := make(map[string]bool, len(t.Layers))
	for _, l := range t.Layers {
		loc := fmt.Sprintf("layer %s", l.Name)
		if seen[l.Name] {
			rep.Errorf(ferrors.ErrCodeDuplicateName, loc, "layer %q declared more than once", l.Name)
		}
		seen[l.Name] = true
		if l.Direction != LayerHorizontal && l.Direction != LayerVertical {
			rep.Errorf(ferrors.ErrCodeInvalidInput, loc,
				"layer direction must be %q or %q, got %q", LayerHorizontal, LayerVertical, l.Direction)
		}
	}
	return c, rep
}

func checkPins(rep *ferrors.Report, loc string, pins []Pin) {
	seen := make(map[string]bool, len(pins))
	for _, p := range pins {
		if seen[p.Name] {
			rep.Errorf(ferrors.ErrCodeDuplicateName, loc, "pin %q declared more than once", p.Name)
		}
		seen[p.Name] = true
		switch p.Direction {
		case DirectionInput, DirectionOutput, DirectionInout:
		default:
			rep.Errorf(ferrors.ErrCodeInvalidInput, loc,
				"pin %s: direction must be input, output or inout, got %q", p.Name, p.Direction)
		}
	}
}

// Resolve returns the cell with the given alias or an UNKNOWN_CELL_TYPE
// error.
func (c *Catalog) Resolve(alias string) (*Cell, error) {
	if cell, ok := c.byAlias[alias]; ok {
		return cell, nil
	}
	return nil, ferrors.New(ferrors.ErrCodeUnknownCellType, "unknown cell type %q", alias)
}

// Lookup returns the cell with the given alias.
func (c *Catalog) Lookup(alias string) (*Cell, bool) {
	cell, ok := c.byAlias[alias]
	return cell, ok
}

// ByName returns the cell with the given library name.
func (c *Catalog) ByName(name string) (*Cell, bool) {
	cell, ok := c.byName[name]
	return cell, ok
}

// Aliases returns every indexed alias, sorted.
func (c *Catalog) Aliases() []string {
	out := make([]string, 0, len(c.byAlias))
	for a := range c.byAlias {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of indexed cells.
func (c *Catalog) Len() int { return len(c.byAlias) }

// Technology returns the underlying record.
func (c *Catalog) Technology() *Technology { return c.tech }

// Site returns the placement site.
func (c *Catalog) Site() Site { return c.tech.Site }

// DBUPerMicron returns the distance unit factor.
func (c *Catalog) DBUPerMicron() int { return c.dbu }

// ProgrammableLayers returns the layers flagged programmable, in
// declaration order.
func (c *Catalog) ProgrammableLayers() []Layer {
	var out []Layer
	for _, l := range c.tech.Layers {
		if l.Programmable {
			out = append(out, l)
		}
	}
	return out
}

// Layer returns the layer with the given name.
func (c *Catalog) Layer(name string) (Layer, bool) {
	for _, l := range c.tech.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}
