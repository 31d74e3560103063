// Package geom is the coordinate system of a fabric.
//
// Three frames are in play:
//   - the fabric frame counts sites (x) and rows (y) from the lower-left
//     corner of the tile array;
//   - the core frame counts sites and rows from the lower-left corner of
//     the core, which adds the edge-cell ring around the tile array;
//   - the physical frame is in database units (DBU) from the die origin,
//     which adds the margins around the core.
//
// All physical arithmetic is integer. Microns are converted to DBU once,
// with rounding, at the boundary ([ToDBU]); nothing downstream works in
// floating point.
package geom

import "math"

// Point is an integer coordinate. Its unit depends on the frame.
type Point struct {
	X, Y int64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Rect is a half-open rectangle [X0,X1) x [Y0,Y1).
type Rect struct {
	X0, Y0, X1, Y1 int64
}

// RectWH builds a rectangle from its lower-left corner and size.
func RectWH(x, y, w, h int64) Rect {
	return Rect{X0: x, Y0: y, X1: x + w, Y1: y + h}
}

// W returns the width of r.
func (r Rect) W() int64 { return r.X1 - r.X0 }

// H returns the height of r.
func (r Rect) H() int64 { return r.Y1 - r.Y0 }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Area returns the area of r, or 0 when empty.
func (r Rect) Area() int64 {
	if r.Empty() {
		return 0
	}
	return r.W() * r.H()
}

// Min returns the lower-left corner.
func (r Rect) Min() Point { return Point{r.X0, r.Y0} }

// Overlaps reports whether r and o share area. Touching edges do not
// overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X0 >= r.X0 && o.Y0 >= r.Y0 && o.X1 <= r.X1 && o.Y1 <= r.Y1
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{r.X0 + d.X, r.Y0 + d.Y, r.X1 + d.X, r.Y1 + d.Y}
}

// ToDBU converts microns to database units, rounding to the nearest unit.
func ToDBU(microns float64, dbuPerMicron int) int64 {
	return int64(math.Round(microns * float64(dbuPerMicron)))
}

// ToMicrons converts database units to microns.
func ToMicrons(dbu int64, dbuPerMicron int) float64 {
	return float64(dbu) / float64(dbuPerMicron)
}
