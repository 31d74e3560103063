package io

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/fabric"
)

// Fabric document syntaxes.
const (
	SyntaxJSON = "json"
	SyntaxTOML = "toml"
	SyntaxHCL  = "hcl"
)

// SyntaxOf returns the fabric syntax implied by a file name.
func SyntaxOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return SyntaxTOML
	case ".hcl":
		return SyntaxHCL
	}
	return SyntaxJSON
}

// fabricDoc is shared by the JSON and TOML readers; only the I/O ring
// differs between them.
type fabricDoc struct {
	Name        *string        `json:"name" toml:"name"`
	Description string         `json:"description,omitempty" toml:"description,omitempty"`
	Dimensions  *dimensionsDoc `json:"array_dimensions" toml:"array_dimensions"`
	Tiles       *tileConfigDoc `json:"tile_configuration" toml:"tile_configuration"`
	EdgeCells   *edgeCellsDoc  `json:"edge_cells,omitempty" toml:"edge_cells,omitempty"`
	Margins     *marginsDoc    `json:"margins,omitempty" toml:"margins,omitempty"`
	Power       *powerDistDoc  `json:"power_distribution,omitempty" toml:"power_distribution,omitempty"`
}

type dimensionsDoc struct {
	Rows *int `json:"rows" toml:"rows"`
	Cols *int `json:"cols" toml:"cols"`
}

type tileConfigDoc struct {
	DefaultTile string      `json:"default_tile" toml:"default_tile"`
	Regions     []regionDoc `json:"regions,omitempty" toml:"regions,omitempty"`
}

type regionDoc struct {
	Name     string   `json:"name" toml:"name"`
	TileType string   `json:"tile_type" toml:"tile_type"`
	Area     *areaDoc `json:"area,omitempty" toml:"area,omitempty"`
}

type areaDoc struct {
	RowStart int `json:"row_start" toml:"row_start"`
	ColStart int `json:"col_start" toml:"col_start"`
	Width    int `json:"width" toml:"width"`
	Height   int `json:"height" toml:"height"`
}

type edgeCellsDoc struct {
	Left   *edgeCellDoc `json:"left" toml:"left"`
	Right  *edgeCellDoc `json:"right" toml:"right"`
	Top    *edgeCellDoc `json:"top" toml:"top"`
	Bottom *edgeCellDoc `json:"bottom" toml:"bottom"`
}

type edgeCellDoc struct {
	Enable *bool  `json:"enable,omitempty" toml:"enable,omitempty"`
	Cell   string `json:"cell,omitempty" toml:"cell,omitempty"`
}

type pinSizeDoc struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

type ioEdgeDoc struct {
	Spacing string     `json:"spacing,omitempty" toml:"spacing,omitempty"`
	Pins    []ioPinDoc `json:"pins,omitempty" toml:"pins,omitempty"`
}

type ioPinDoc struct {
	Name      string   `json:"name" toml:"name"`
	Type      string   `json:"type,omitempty" toml:"type,omitempty"`
	Direction string   `json:"direction,omitempty" toml:"direction,omitempty"`
	Position  *float64 `json:"position,omitempty" toml:"position,omitempty"`
	Mode      string   `json:"mode,omitempty" toml:"mode,omitempty"`
}

type marginsDoc struct {
	Horizontal float64 `json:"horizontal" toml:"horizontal"`
	Vertical   float64 `json:"vertical" toml:"vertical"`
}

type powerDistDoc struct {
	Primary   *gridDoc `json:"primary_grid,omitempty" toml:"primary_grid,omitempty"`
	Secondary *gridDoc `json:"secondary_grid,omitempty" toml:"secondary_grid,omitempty"`
}

type gridDoc struct {
	VDD *railDoc `json:"VDD,omitempty" toml:"VDD,omitempty"`
	VSS *railDoc `json:"VSS,omitempty" toml:"VSS,omitempty"`
}

type railDoc struct {
	Layer string  `json:"layer" toml:"layer"`
	Width float64 `json:"width" toml:"width"`
	Pitch float64 `json:"pitch,omitempty" toml:"pitch,omitempty"`
}

type fabricJSON struct {
	fabricDoc
	IORing *struct {
		PinSize *pinSizeDoc     `json:"pin_size"`
		Edges   json.RawMessage `json:"edges"`
	} `json:"io_ring"`
}

// ReadFabric decodes a fabric document from r, choosing the syntax from
// the extension of name.
func ReadFabric(r io.Reader, name string) (*fabric.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	switch SyntaxOf(name) {
	case SyntaxTOML:
		return decodeFabricTOML(data, name)
	case SyntaxHCL:
		return decodeFabricHCL(data, name)
	}
	return decodeFabricJSON(data, name)
}

// ReadFabricSyntax decodes a fabric document in an explicit syntax.
func ReadFabricSyntax(r io.Reader, name, syntax string) (*fabric.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	switch syntax {
	case SyntaxJSON:
		return decodeFabricJSON(data, name)
	case SyntaxTOML:
		return decodeFabricTOML(data, name)
	case SyntaxHCL:
		return decodeFabricHCL(data, name)
	}
	return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "unknown fabric syntax %q (want json, toml or hcl)", syntax)
}

// LoadFabric reads the fabric document at path.
func LoadFabric(path string) (*fabric.Config, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFabric(f, path)
}

func decodeFabricJSON(data []byte, name string) (*fabric.Config, error) {
	var doc fabricJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, jsonError(name, data, err)
	}
	cfg, err := doc.config(name)
	if err != nil {
		return nil, err
	}
	if doc.IORing == nil {
		return cfg, nil
	}

	ring := &fabric.IORing{}
	if ps := doc.IORing.PinSize; ps != nil {
		ring.PinSize = pinSize(ps)
	}
	err = walkObject(doc.IORing.Edges, func(edge string, raw json.RawMessage) error {
		var ed ioEdgeDoc
		if err := json.Unmarshal(raw, &ed); err != nil {
			return fmt.Errorf("edge %s: %w", edge, err)
		}
		ring.Edges = append(ring.Edges, ed.edge(edge))
		return nil
	})
	if err != nil {
		return nil, nestedError(name, "io_ring.edges", err)
	}
	cfg.IORing = ring
	return cfg, nil
}

// config converts everything but the I/O ring.
func (d *fabricDoc) config(name string) (*fabric.Config, error) {
	if d.Name == nil {
		return nil, missing(name, "name")
	}
	if d.Dimensions == nil || d.Dimensions.Rows == nil || d.Dimensions.Cols == nil {
		return nil, missing(name, "array_dimensions.rows/cols")
	}
	if d.Tiles == nil {
		return nil, missing(name, "tile_configuration")
	}

	cfg := &fabric.Config{
		Name:        *d.Name,
		Description: d.Description,
		Dimensions:  fabric.Dimensions{Rows: *d.Dimensions.Rows, Cols: *d.Dimensions.Cols},
		Tiles:       fabric.TileConfiguration{DefaultTile: d.Tiles.DefaultTile},
	}
	for i, rd := range d.Tiles.Regions {
		if rd.Area == nil {
			return nil, missing(name, fmt.Sprintf("tile_configuration.regions[%d].area", i))
		}
		cfg.Tiles.Regions = append(cfg.Tiles.Regions, fabric.Region{
			Name:     rd.Name,
			TileType: rd.TileType,
			Area: fabric.Area{
				RowStart: rd.Area.RowStart,
				ColStart: rd.Area.ColStart,
				Width:    rd.Area.Width,
				Height:   rd.Area.Height,
			},
		})
	}
	if e := d.EdgeCells; e != nil {
		cfg.EdgeCells = &fabric.EdgeCells{
			Left:   e.Left.edgeCell(),
			Right:  e.Right.edgeCell(),
			Top:    e.Top.edgeCell(),
			Bottom: e.Bottom.edgeCell(),
		}
	}
	if m := d.Margins; m != nil {
		cfg.Margins = &fabric.Margins{Horizontal: m.Horizontal, Vertical: m.Vertical}
	}
	if p := d.Power; p != nil {
		cfg.Power = &fabric.PowerDistribution{Primary: p.Primary.grid(), Secondary: p.Secondary.grid()}
	}
	return cfg, nil
}

// edgeCell converts a side; enable defaults to true.
func (e *edgeCellDoc) edgeCell() *fabric.EdgeCell {
	if e == nil {
		return nil
	}
	enable := true
	if e.Enable != nil {
		enable = *e.Enable
	}
	return &fabric.EdgeCell{Enable: enable, Cell: e.Cell}
}

func (e ioEdgeDoc) edge(name string) fabric.Edge {
	out := fabric.Edge{Name: name, Spacing: e.Spacing}
	for _, p := range e.Pins {
		out.Pins = append(out.Pins, fabric.Pin{
			Name:      p.Name,
			Type:      p.Type,
			Direction: p.Direction,
			Position:  p.Position,
			Mode:      p.Mode,
		})
	}
	return out
}

func (g *gridDoc) grid() *fabric.Grid {
	if g == nil {
		return nil
	}
	return &fabric.Grid{VDD: g.VDD.rail(), VSS: g.VSS.rail()}
}

func (r *railDoc) rail() *fabric.Rail {
	if r == nil {
		return nil
	}
	return &fabric.Rail{Layer: r.Layer, Width: r.Width, Pitch: r.Pitch}
}

// pinSize rounds a DBU pin size to whole units.
func pinSize(p *pinSizeDoc) *fabric.PinSize {
	return &fabric.PinSize{
		Width:  int64(math.Round(p.Width)),
		Height: int64(math.Round(p.Height)),
	}
}
