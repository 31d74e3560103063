// Package ioring places I/O pins around the die boundary.
//
// Each edge is either auto-spaced, with pins evenly distributed over the
// usable length between the margins, or manual, with every pin carrying
// its own centre position. Placement is integer DBU throughout.
package ioring

import (
	"fmt"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/fabric"
	"github.com/structasic/fabgen/pkg/geom"
)

// Side is a die edge.
type Side string

const (
	North Side = "north"
	South Side = "south"
	East  Side = "east"
	West  Side = "west"
)

// ParseSide validates an edge name.
func ParseSide(name string) (Side, bool) {
	switch s := Side(name); s {
	case North, South, East, West:
		return s, true
	}
	return "", false
}

// Geometry is the die the pins are placed on. All values are DBU.
type Geometry struct {
	DieW, DieH       int64
	MarginX, MarginY int64
	PinW, PinH       int64
	DBUPerMicron     int
}

// along returns the edge length, the margin at both ends and the pin
// extent along the edge.
func (g Geometry) along(s Side) (length, margin, extent int64) {
	if s == North || s == South {
		return g.DieW, g.MarginX, g.PinW
	}
	return g.DieH, g.MarginY, g.PinH
}

// rect places a pin whose along-edge start is start.
func (g Geometry) rect(s Side, start int64) geom.Rect {
	switch s {
	case North:
		return geom.RectWH(start, g.DieH-g.PinH, g.PinW, g.PinH)
	case South:
		return geom.RectWH(start, 0, g.PinW, g.PinH)
	case East:
		return geom.RectWH(g.DieW-g.PinW, start, g.PinW, g.PinH)
	default:
		return geom.RectWH(0, start, g.PinW, g.PinH)
	}
}

// Placed is a pin with its physical rectangle.
type Placed struct {
	Name      string
	Type      string
	Direction string
	Side      Side
	Mode      string
	Rect      geom.Rect
}

// Center returns the centre of the pin rectangle, rounded down.
func (p Placed) Center() geom.Point {
	return geom.Point{X: (p.Rect.X0 + p.Rect.X1) / 2, Y: (p.Rect.Y0 + p.Rect.Y1) / 2}
}

// Place positions every pin of ring on the die described by g.
//
// Pins that cannot be placed are reported and left out. Placed pins are
// checked against the margins and against each other on the same edge.
func Place(ring *fabric.IORing, g Geometry) ([]Placed, *ferrors.Report) {
	rep := ferrors.NewReport()
	if ring == nil {
		return nil, rep
	}
	if g.PinW <= 0 || g.PinH <= 0 {
		rep.Errorf(ferrors.ErrCodeInvalidInput, "io_ring.pin_size", "pin size must be positive, got %d x %d", g.PinW, g.PinH)
		return nil, rep
	}

	var out []Placed
	seenEdge := make(map[Side]bool, 4)
	seenPin := make(map[string]string)
	for _, e := range ring.Edges {
		loc := "edge " + e.Name
		side, ok := ParseSide(e.Name)
		if !ok {
			rep.Errorf(ferrors.ErrCodeUnknownEdge, loc, "unknown edge %q, want north, south, east or west", e.Name)
			continue
		}
		if seenEdge[side] {
			rep.Errorf(ferrors.ErrCodeDuplicateName, loc, "edge %s declared more than once", side)
			continue
		}
		seenEdge[side] = true

		mode := e.Mode()
		if mode != fabric.SpacingAuto && mode != fabric.SpacingManual {
			rep.Errorf(ferrors.ErrCodeInvalidSpacing, loc, "spacing must be auto or manual, got %q", e.Spacing)
			continue
		}

		for _, p := range e.Pins {
			if prev, dup := seenPin[p.Name]; dup {
				rep.Errorf(ferrors.ErrCodeDuplicateName, "pin "+p.Name, "pin %q already declared on edge %s", p.Name, prev)
			}
			seenPin[p.Name] = e.Name
		}
		out = append(out, placeEdge(rep, side, mode, e.Pins, g)...)
	}
	return out, rep
}

func placeEdge(rep *ferrors.Report, side Side, mode string, pins []fabric.Pin, g Geometry) []Placed {
	length, margin, extent := g.along(side)
	usable := length - 2*margin
	n := int64(len(pins))

	var placed []Placed
	for i, p := range pins {
		loc := fmt.Sprintf("pin %s", p.Name)
		switch p.Direction {
		case "input", "output", "inout":
		default:
			rep.Errorf(ferrors.ErrCodeInvalidInput, loc, "direction must be input, output or inout, got %q", p.Direction)
			continue
		}
		if p.Mode != "" && p.Mode != mode {
			rep.Errorf(ferrors.ErrCodeMixedSpacingMode, loc,
				"pin mode %q differs from %s edge spacing %q", p.Mode, side, mode)
			continue
		}

		var center int64
		if mode == fabric.SpacingManual {
			if p.Position == nil {
				rep.Errorf(ferrors.ErrCodeMissingPosition, loc, "pin on manual edge %s has no position", side)
				continue
			}
			center = geom.ToDBU(*p.Position, g.DBUPerMicron)
		} else {
			if p.Position != nil {
				rep.Warnf(ferrors.ErrCodeStrayPosition, loc, "position ignored on auto-spaced edge %s", side)
			}
			center = margin + ((2*int64(i)+1)*usable)/(2*n)
		}

		start := center - extent/2
		if start < margin || start+extent > length-margin {
			rep.Errorf(ferrors.ErrCodePinOutOfMargin, loc,
				"pin spans %d..%d on edge %s, usable range is %d..%d",
				start, start+extent, side, margin, length-margin)
			continue
		}

		typ := p.Type
		if typ == "" {
			typ = "signal"
		}
		placed = append(placed, Placed{
			Name:      p.Name,
			Type:      typ,
			Direction: p.Direction,
			Side:      side,
			Mode:      mode,
			Rect:      g.rect(side, start),
		})
	}

	for i := range placed {
		for j := i + 1; j < len(placed); j++ {
			if placed[i].Rect.Overlaps(placed[j].Rect) {
				rep.Errorf(ferrors.ErrCodePinOverlap, "edge "+string(side),
					"pins %s and %s overlap", placed[i].Name, placed[j].Name)
			}
		}
	}
	return placed
}
