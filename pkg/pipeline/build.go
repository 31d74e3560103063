package pipeline

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/structasic/fabgen/pkg/edge"
	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/fabric"
	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/ioring"
	"github.com/structasic/fabgen/pkg/layout"
	"github.com/structasic/fabgen/pkg/observability"
	"github.com/structasic/fabgen/pkg/tech"
	"github.com/structasic/fabgen/pkg/tiles"
)

// Stage names reported to hooks and logs.
const (
	StageCatalogs = "catalogs"
	StageCompose  = "compose"
	StageEdges    = "edges"
	StageIORing   = "ioring"
	StageLayout   = "layout"
	StageRender   = "render"
)

// build carries the state of one run between stages.
type build struct {
	in   *Inputs
	opts Options
	rep  *ferrors.Report

	cells *tech.Catalog
	tpls  *tiles.Catalog
	arr   *fabric.Array
	ring  *edge.Ring
	frame geom.Frame
	pins  []ioring.Placed
	model *layout.Model
}

// Build runs every stage up to and including sealing the layout model.
//
// A stage that records errors does not stop the run: later stages still
// check whatever the earlier ones produced, so one run reports every
// problem it can reach. The run stops early only when a stage leaves
// nothing for the next one to work on. The model is sealed only when the
// report holds no errors. The returned report always holds every
// diagnostic seen.
func Build(ctx context.Context, in *Inputs, opts Options) (*layout.Model, *ferrors.Report) {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	b := &build{in: in, opts: opts, rep: ferrors.NewReport()}
	stages := []struct {
		name string
		run  func() bool
	}{
		{StageCatalogs, b.catalogs},
		{StageCompose, b.compose},
		{StageEdges, b.edges},
		{StageIORing, b.ioring},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			b.rep.Errorf(ferrors.ErrCodeInternal, s.name, "canceled: %v", err)
			return nil, b.rep
		}
		if !b.stage(ctx, s.name, s.run) {
			return nil, b.rep
		}
	}
	if b.rep.HasErrors() {
		return nil, b.rep
	}
	if err := ctx.Err(); err != nil {
		b.rep.Errorf(ferrors.ErrCodeInternal, StageLayout, "canceled: %v", err)
		return nil, b.rep
	}
	b.stage(ctx, StageLayout, b.layout)
	return b.model, b.rep
}

// stage runs fn and reports whether its output lets the pipeline go on.
func (b *build) stage(ctx context.Context, name string, fn func() bool) bool {
	logger := b.opts.Logger
	hooks := observability.Pipeline()
	before := len(b.rep.Errors())

	hooks.OnStageStart(ctx, name)
	start := time.Now()
	ok := fn()
	elapsed := time.Since(start)

	errs := b.rep.Errors()[before:]
	var err error
	if len(errs) > 0 {
		err = ferrors.New(errs[0].Code, "%s", errs[0].Message)
	}
	hooks.OnStageComplete(ctx, name, elapsed, err)

	if err != nil {
		logger.Debug("stage failed", "stage", name, "errors", len(errs), "duration", elapsed)
	} else {
		logger.Debug("stage complete", "stage", name, "duration", elapsed)
	}
	return ok
}

// catalogs stops the run on technology errors: every tile would
// otherwise repeat the same unknown-cell diagnostics.
func (b *build) catalogs() bool {
	cells, rep := tech.NewCatalog(b.in.Technology)
	b.rep.Merge(rep)
	if rep.HasErrors() {
		return false
	}
	tpls, rep := tiles.NewCatalog(b.in.Tiles, cells)
	b.rep.Merge(rep)
	b.cells, b.tpls = cells, tpls
	b.opts.Logger.Info("loaded catalogs",
		"technology", cells.Technology().Name,
		"cells", cells.Len(),
		"tiles", tpls.Len())
	return true
}

func (b *build) compose() bool {
	cfg := b.in.Fabric
	if cfg == nil {
		b.rep.Errorf(ferrors.ErrCodeInvalidInput, "fabric", "fabric configuration is missing")
		return false
	}
	b.rep.Merge(cfg.Validate())
	arr, rep := fabric.Compose(cfg, b.tpls)
	b.rep.Merge(rep)
	if arr == nil {
		return false
	}
	b.arr = arr
	b.opts.Logger.Info("composed fabric",
		"name", cfg.Name,
		"rows", arr.Rows(),
		"cols", arr.Cols(),
		"regions", len(arr.Regions()))
	return true
}

func (b *build) edges() bool {
	ring, rep := edge.Synthesize(b.arr, b.in.Fabric.EdgeCells, b.cells)
	b.rep.Merge(rep)
	if ring == nil {
		return false
	}
	b.ring = ring

	site := b.cells.Site()
	dbu := b.cells.DBUPerMicron()
	var mx, my int64
	if m := b.in.Fabric.Margins; m != nil {
		mx, my = geom.ToDBU(m.Horizontal, dbu), geom.ToDBU(m.Vertical, dbu)
	}
	b.frame = geom.NewFrame(site.Width, site.Height, dbu).
		WithTile(b.arr.TileWidth(), b.arr.TileHeight()).
		WithEdges(ring.Extents.Left, ring.Extents.Bottom).
		WithMargins(mx, my)
	b.opts.Logger.Info("synthesized edge ring",
		"edge_cells", len(ring.Instances),
		"core_sites", ring.CoreSites,
		"core_rows", ring.CoreRows)
	return true
}

func (b *build) ioring() bool {
	ring := b.in.Fabric.IORing
	if ring == nil {
		return true
	}
	dims := layout.NewDimensions(b.arr, b.ring, b.frame)
	w, h := b.pinSize()
	pins, rep := ioring.Place(ring, ioring.Geometry{
		DieW:         dims.Die.W(),
		DieH:         dims.Die.H(),
		MarginX:      b.frame.MarginX,
		MarginY:      b.frame.MarginY,
		PinW:         w,
		PinH:         h,
		DBUPerMicron: b.frame.DBUPerMicron,
	})
	b.rep.Merge(rep)
	b.pins = pins
	b.opts.Logger.Info("placed I/O ring", "pins", len(pins), "pin_w", w, "pin_h", h)
	return true
}

// pinSize applies the precedence option > fabric document > default.
func (b *build) pinSize() (w, h int64) {
	w, h = DefaultPinSize, DefaultPinSize
	if p := b.in.Fabric.IORing.PinSize; p != nil {
		w, h = p.Width, p.Height
	}
	if p := b.opts.PinSize; p != nil {
		if p.Microns {
			dbu := b.frame.DBUPerMicron
			return geom.ToDBU(p.Width, dbu), geom.ToDBU(p.Height, dbu)
		}
		return int64(math.Round(p.Width)), int64(math.Round(p.Height))
	}
	return w, h
}

func (b *build) layout() bool {
	m, rep := layout.Build(layout.Input{
		Config:   b.in.Fabric,
		Cells:    b.cells,
		Array:    b.arr,
		Ring:     b.ring,
		Pins:     b.pins,
		Frame:    b.frame,
		Warnings: b.rep.Warnings(),
	})
	b.rep.Merge(rep)
	if m == nil {
		return false
	}
	b.model = m
	b.opts.Logger.Info("sealed layout",
		"cells", m.Stats.TotalCells,
		"edge_cells", m.Stats.TotalEdgeCells,
		"pins", m.Stats.TotalPins,
		"die_um2", m.Stats.DieArea)
	return true
}
