package io

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/fabric"
)

// HCL fabric documents use labelled blocks where the JSON form uses
// keyed objects:
//
//	name = "demo"
//	array_dimensions {
//	  rows = 3
//	  cols = 3
//	}
//	tile_configuration {
//	  default_tile = "LOGIC"
//	  region "ram" {
//	    tile_type = "MEM"
//	    row_start = 1
//	    col_start = 1
//	    width     = 2
//	    height    = 2
//	  }
//	}
//	io_ring {
//	  edge "west" {
//	    pin "clk" { direction = "input" }
//	  }
//	}
type fabricHCL struct {
	Name        string        `hcl:"name"`
	Description *string       `hcl:"description"`
	Dimensions  dimensionsHCL `hcl:"array_dimensions,block"`
	Tiles       tileConfigHCL `hcl:"tile_configuration,block"`
	EdgeCells   *edgeCellsHCL `hcl:"edge_cells,block"`
	IORing      *ioRingHCL    `hcl:"io_ring,block"`
	Margins     *marginsHCL   `hcl:"margins,block"`
	Power       *powerDistHCL `hcl:"power_distribution,block"`
}

type dimensionsHCL struct {
	Rows int `hcl:"rows"`
	Cols int `hcl:"cols"`
}

type tileConfigHCL struct {
	DefaultTile string      `hcl:"default_tile"`
	Regions     []regionHCL `hcl:"region,block"`
}

type regionHCL struct {
	Name     string `hcl:"name,label"`
	TileType string `hcl:"tile_type"`
	RowStart int    `hcl:"row_start"`
	ColStart int    `hcl:"col_start"`
	Width    int    `hcl:"width"`
	Height   int    `hcl:"height"`
}

type edgeCellsHCL struct {
	Left   *edgeCellHCL `hcl:"left,block"`
	Right  *edgeCellHCL `hcl:"right,block"`
	Top    *edgeCellHCL `hcl:"top,block"`
	Bottom *edgeCellHCL `hcl:"bottom,block"`
}

type edgeCellHCL struct {
	Enable *bool   `hcl:"enable"`
	Cell   *string `hcl:"cell"`
}

type ioRingHCL struct {
	PinSize *pinSizeHCL `hcl:"pin_size,block"`
	Edges   []ioEdgeHCL `hcl:"edge,block"`
}

type pinSizeHCL struct {
	Width  float64 `hcl:"width"`
	Height float64 `hcl:"height"`
}

type ioEdgeHCL struct {
	Name    string     `hcl:"name,label"`
	Spacing *string    `hcl:"spacing"`
	Pins    []ioPinHCL `hcl:"pin,block"`
}

type ioPinHCL struct {
	Name      string   `hcl:"name,label"`
	Type      *string  `hcl:"type"`
	Direction *string  `hcl:"direction"`
	Position  *float64 `hcl:"position"`
	Mode      *string  `hcl:"mode"`
}

type marginsHCL struct {
	Horizontal float64 `hcl:"horizontal"`
	Vertical   float64 `hcl:"vertical"`
}

type powerDistHCL struct {
	Primary   *gridHCL `hcl:"primary_grid,block"`
	Secondary *gridHCL `hcl:"secondary_grid,block"`
}

type gridHCL struct {
	VDD *railHCL `hcl:"VDD,block"`
	VSS *railHCL `hcl:"VSS,block"`
}

type railHCL struct {
	Layer string   `hcl:"layer"`
	Width float64  `hcl:"width"`
	Pitch *float64 `hcl:"pitch"`
}

func decodeFabricHCL(data []byte, name string) (*fabric.Config, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, hclError(name, diags)
	}
	var doc fabricHCL
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, hclError(name, diags)
	}
	return doc.config(), nil
}

func (d *fabricHCL) config() *fabric.Config {
	cfg := &fabric.Config{
		Name:        d.Name,
		Description: deref(d.Description),
		Dimensions:  fabric.Dimensions{Rows: d.Dimensions.Rows, Cols: d.Dimensions.Cols},
		Tiles:       fabric.TileConfiguration{DefaultTile: d.Tiles.DefaultTile},
	}
	for _, r := range d.Tiles.Regions {
		cfg.Tiles.Regions = append(cfg.Tiles.Regions, fabric.Region{
			Name:     r.Name,
			TileType: r.TileType,
			Area:     fabric.Area{RowStart: r.RowStart, ColStart: r.ColStart, Width: r.Width, Height: r.Height},
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
	if ring := d.IORing; ring != nil {
		out := &fabric.IORing{}
		if ps := ring.PinSize; ps != nil {
			out.PinSize = pinSize(&pinSizeDoc{Width: ps.Width, Height: ps.Height})
		}
		for _, e := range ring.Edges {
			edge := fabric.Edge{Name: e.Name, Spacing: deref(e.Spacing)}
			for _, p := range e.Pins {
				edge.Pins = append(edge.Pins, fabric.Pin{
					Name:      p.Name,
					Type:      deref(p.Type),
					Direction: deref(p.Direction),
					Position:  p.Position,
					Mode:      deref(p.Mode),
				})
			}
			out.Edges = append(out.Edges, edge)
		}
		cfg.IORing = out
	}
	if m := d.Margins; m != nil {
		cfg.Margins = &fabric.Margins{Horizontal: m.Horizontal, Vertical: m.Vertical}
	}
	if p := d.Power; p != nil {
		cfg.Power = &fabric.PowerDistribution{Primary: p.Primary.grid(), Secondary: p.Secondary.grid()}
	}
	return cfg
}

func (e *edgeCellHCL) edgeCell() *fabric.EdgeCell {
	if e == nil {
		return nil
	}
	enable := true
	if e.Enable != nil {
		enable = *e.Enable
	}
	return &fabric.EdgeCell{Enable: enable, Cell: deref(e.Cell)}
}

func (g *gridHCL) grid() *fabric.Grid {
	if g == nil {
		return nil
	}
	return &fabric.Grid{VDD: g.VDD.rail(), VSS: g.VSS.rail()}
}

func (r *railHCL) rail() *fabric.Rail {
	if r == nil {
		return nil
	}
	var pitch float64
	if r.Pitch != nil {
		pitch = *r.Pitch
	}
	return &fabric.Rail{Layer: r.Layer, Width: r.Width, Pitch: pitch}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// hclError reports the first error diagnostic with its source position.
func hclError(name string, diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		if d.Subject != nil {
			return ferrors.Wrap(ferrors.ErrCodeParse, diags, "%s:%d:%d: %s",
				name, d.Subject.Start.Line, d.Subject.Start.Column, d.Summary)
		}
		return ferrors.Wrap(ferrors.ErrCodeParse, diags, "%s: %s", name, d.Summary)
	}
	return ferrors.Wrap(ferrors.ErrCodeParse, diags, "%s", name)
}
