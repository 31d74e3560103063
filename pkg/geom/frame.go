package geom

// RowLayout reports where a cell sits inside a tile row.
type RowLayout interface {
	CellOffset(rowID, cellIndex int) (int, bool)
}

// Frame maps between the fabric, core and physical frames. The zero
// value is not useful; build one with [NewFrame] and the With* methods.
// Frames are values and never change once built.
type Frame struct {
	DBUPerMicron int
	SiteW, SiteH int64 // DBU
	TileW, TileH int   // sites, rows

	// Edge-cell ring below and left of the tile array.
	EdgeLeft, EdgeBottom int // sites, rows

	MarginX, MarginY int64 // DBU
}

// NewFrame returns a frame for the given site size in microns.
func NewFrame(siteWidth, siteHeight float64, dbuPerMicron int) Frame {
	return Frame{
		DBUPerMicron: dbuPerMicron,
		SiteW:        ToDBU(siteWidth, dbuPerMicron),
		SiteH:        ToDBU(siteHeight, dbuPerMicron),
	}
}

// WithTile sets the tile size in sites and rows.
func (f Frame) WithTile(width, height int) Frame {
	f.TileW, f.TileH = width, height
	return f
}

// WithEdges sets the edge-cell extents on the left (sites) and bottom
// (rows) of the tile array.
func (f Frame) WithEdges(left, bottom int) Frame {
	f.EdgeLeft, f.EdgeBottom = left, bottom
	return f
}

// WithMargins sets the die margins in DBU.
func (f Frame) WithMargins(x, y int64) Frame {
	f.MarginX, f.MarginY = x, y
	return f
}

// TileOrigin returns the fabric-frame origin of tile (row, col).
func (f Frame) TileOrigin(tileRow, tileCol int) Point {
	return Point{X: int64(tileCol * f.TileW), Y: int64(tileRow * f.TileH)}
}

// CellOrigin returns the fabric-frame origin of the cellIndex-th cell of
// row rowID inside tile (tileRow, tileCol).
func (f Frame) CellOrigin(tileRow, tileCol int, layout RowLayout, rowID, cellIndex int) (Point, bool) {
	off, ok := layout.CellOffset(rowID, cellIndex)
	if !ok {
		return Point{}, false
	}
	o := f.TileOrigin(tileRow, tileCol)
	return Point{X: o.X + int64(off), Y: o.Y + int64(rowID)}, true
}

// ToDBU scales a site/row point to DBU without any offset.
func (f Frame) ToDBU(p Point) Point {
	return Point{X: p.X * f.SiteW, Y: p.Y * f.SiteH}
}

// ToMicrons scales a site/row point to microns without any offset.
func (f Frame) ToMicrons(p Point) (x, y float64) {
	d := f.ToDBU(p)
	return ToMicrons(d.X, f.DBUPerMicron), ToMicrons(d.Y, f.DBUPerMicron)
}

// CoreToPhysical maps a core-frame point to the physical frame.
func (f Frame) CoreToPhysical(p Point) Point {
	return f.ToDBU(p).Add(Point{X: f.MarginX, Y: f.MarginY})
}

// FabricToCore maps a fabric-frame point to the core frame.
func (f Frame) FabricToCore(p Point) Point {
	return Point{X: p.X + int64(f.EdgeLeft), Y: p.Y + int64(f.EdgeBottom)}
}

// ToPhysical maps a fabric-frame point to the physical frame.
func (f Frame) ToPhysical(p Point) Point {
	return f.CoreToPhysical(f.FabricToCore(p))
}

// FromPhysical inverts ToPhysical. ok is false when q does not fall on a
// site/row lattice point.
func (f Frame) FromPhysical(q Point) (Point, bool) {
	if f.SiteW == 0 || f.SiteH == 0 {
		return Point{}, false
	}
	dx := q.X - f.MarginX - int64(f.EdgeLeft)*f.SiteW
	dy := q.Y - f.MarginY - int64(f.EdgeBottom)*f.SiteH
	if dx%f.SiteW != 0 || dy%f.SiteH != 0 {
		return Point{}, false
	}
	return Point{X: dx / f.SiteW, Y: dy / f.SiteH}, true
}

// FabricRect returns the physical rectangle of a w-site, h-row object at
// fabric-frame point p.
func (f Frame) FabricRect(p Point, w, h int) Rect {
	o := f.ToPhysical(p)
	return RectWH(o.X, o.Y, int64(w)*f.SiteW, int64(h)*f.SiteH)
}

// CoreRect returns the physical rectangle of a w-site, h-row object at
// core-frame point p.
func (f Frame) CoreRect(p Point, w, h int) Rect {
	o := f.CoreToPhysical(p)
	return RectWH(o.X, o.Y, int64(w)*f.SiteW, int64(h)*f.SiteH)
}
