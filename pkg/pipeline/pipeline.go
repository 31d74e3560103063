// Package pipeline runs the fabric generator end to end.
//
// It sequences the stages shared by the CLI and the HTTP service so that
// both behave identically:
//
//  1. catalogs: load and validate the technology and the tile templates
//  2. compose: check the fabric document and build the tile array
//  3. edges: grow the core with the edge-cell ring
//  4. ioring: place the I/O pins around the die
//  5. layout: expand every tile and seal the layout model
//  6. render: project the model into the requested artifacts
//
// Every stage collects all of its diagnostics before the pipeline decides
// whether to continue; nothing is rendered unless the model sealed
// without errors.
//
// # Usage
//
//	in, err := pipeline.LoadInputs("tech.json", "tiles.json", "fabric.toml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, in, pipeline.Options{})
//	if err != nil {
//	    return err // VALIDATION_FAILED with every diagnostic attached
//	}
//	def := result.Artifacts["fab5x5.def"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/layout"
)

// Format constants for output formats.
const (
	FormatDEF       = "def"
	FormatLEF       = "lef"
	FormatJSON      = "json"
	FormatSVG       = "svg"
	FormatFloorplan = "floorplan"
)

// DefaultFormats are rendered when Options.Formats is empty.
var DefaultFormats = []string{FormatDEF, FormatLEF, FormatJSON, FormatSVG}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDEF:       true,
	FormatLEF:       true,
	FormatJSON:      true,
	FormatSVG:       true,
	FormatFloorplan: true,
}

// DefaultPinSize is the pin rectangle, in DBU, used when neither the
// fabric nor the options give one.
const DefaultPinSize = 1

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// PinSize overrides the pin rectangle. Values are DBU unless Microns is set.
type PinSize struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Microns bool    `json:"microns,omitempty"`
}

// Options configures one pipeline run. It is JSON-serializable for API
// requests.
type Options struct {
	// Name is the base name of the artifact files. Empty means the
	// fabric name.
	Name    string   `json:"name,omitempty"`
	Formats []string `json:"formats,omitempty"`
	PinSize *PinSize `json:"pin_size,omitempty"`

	// Refresh re-renders even when every artifact is cached.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return ferrors.New(ferrors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: def, lef, json, svg, floorplan)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. Duplicate
// formats are dropped. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	var formats []string
	for _, f := range o.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if err := ValidateFormat(f); err != nil {
			return err
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	o.Formats = formats

	if o.Name != "" {
		if err := ferrors.ValidateOutputName(o.Name); err != nil {
			return err
		}
	}
	if p := o.PinSize; p != nil && (p.Width <= 0 || p.Height <= 0) {
		return ferrors.New(ferrors.ErrCodeInvalidInput,
			"pin size must be positive, got %g x %g", p.Width, p.Height)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the sealed layout. It is nil when any stage failed.
	Model *layout.Model

	// Report holds every diagnostic of the run, warnings included.
	Report *ferrors.Report

	// Artifacts maps file names ({base}.def, tile_LOGIC.svg, ...) to
	// their contents.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Files returns the artifact file names in sorted order.
func (r *Result) Files() []string {
	names := make([]string, 0, len(r.Artifacts))
	for name := range r.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache use during rendering.
type CacheInfo struct {
	Hits   []string // formats served from the cache
	Misses []string // formats rendered
}

// RenderHit reports whether every format came from the cache.
func (c CacheInfo) RenderHit() bool {
	return len(c.Hits) > 0 && len(c.Misses) == 0
}

func (r *Result) String() string {
	if r.Model == nil {
		return fmt.Sprintf("failed with %d error(s)", len(r.Report.Errors()))
	}
	return fmt.Sprintf("%s: %d cells, %d edge cells, %d pins, %d artifact(s)",
		r.Model.Name, r.Model.Stats.TotalCells, r.Model.Stats.TotalEdgeCells,
		r.Model.Stats.TotalPins, len(r.Artifacts))
}
