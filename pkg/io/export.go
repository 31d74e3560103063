package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/fabric"
)

// WriteFabric encodes cfg in the given syntax. JSON and HCL keep the
// declaration order of the I/O edges; TOML writes them sorted by name.
func WriteFabric(w io.Writer, cfg *fabric.Config, syntax string) error {
	switch syntax {
	case SyntaxJSON:
		return WriteFabricJSON(w, cfg)
	case SyntaxTOML:
		return WriteFabricTOML(w, cfg)
	case SyntaxHCL:
		return WriteFabricHCL(w, cfg)
	}
	return ferrors.New(ferrors.ErrCodeInvalidFormat, "unknown fabric syntax %q (want json, toml or hcl)", syntax)
}

// ExportFabric writes cfg to path in the syntax implied by its extension.
func ExportFabric(path string, cfg *fabric.Config) error {
	var buf bytes.Buffer
	if err := WriteFabric(&buf, cfg, SyntaxOf(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type fabricOut struct {
	fabricDoc
	IORing *ioRingOut `json:"io_ring,omitempty"`
}

type ioRingOut struct {
	PinSize *pinSizeDoc `json:"pin_size,omitempty"`
	Edges   edgesOut    `json:"edges"`
}

type edgesOut []fabric.Edge

// MarshalJSON writes the edges as an object in declaration order.
func (e edgesOut) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, edge := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(edge.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(edgeDoc(edge))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteFabricJSON encodes cfg as an indented JSON fabric document.
func WriteFabricJSON(w io.Writer, cfg *fabric.Config) error {
	out := fabricOut{fabricDoc: docOf(cfg)}
	if r := cfg.IORing; r != nil {
		out.IORing = &ioRingOut{PinSize: pinSizeDocOf(r.PinSize), Edges: edgesOut(r.Edges)}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type fabricTOMLOut struct {
	Name        string         `toml:"name"`
	Description string         `toml:"description,omitempty"`
	Dimensions  *dimensionsDoc `toml:"array_dimensions"`
	Tiles       *tileConfigDoc `toml:"tile_configuration"`
	EdgeCells   *edgeCellsDoc  `toml:"edge_cells,omitempty"`
	IORing      *ioRingTOMLOut `toml:"io_ring,omitempty"`
	Margins     *marginsDoc    `toml:"margins,omitempty"`
	Power       *powerDistDoc  `toml:"power_distribution,omitempty"`
}

type ioRingTOMLOut struct {
	PinSize *pinSizeDoc          `toml:"pin_size,omitempty"`
	Edges   map[string]ioEdgeDoc `toml:"edges"`
}

// WriteFabricTOML encodes cfg as a TOML fabric document.
func WriteFabricTOML(w io.Writer, cfg *fabric.Config) error {
	doc := docOf(cfg)
	out := fabricTOMLOut{
		Name:        cfg.Name,
		Description: doc.Description,
		Dimensions:  doc.Dimensions,
		Tiles:       doc.Tiles,
		EdgeCells:   doc.EdgeCells,
		Margins:     doc.Margins,
		Power:       doc.Power,
	}
	if r := cfg.IORing; r != nil {
		out.IORing = &ioRingTOMLOut{PinSize: pinSizeDocOf(r.PinSize), Edges: map[string]ioEdgeDoc{}}
		for _, e := range r.Edges {
			out.IORing.Edges[e.Name] = edgeDoc(e)
		}
	}
	return toml.NewEncoder(w).Encode(out)
}

// WriteFabricHCL encodes cfg as an HCL fabric document.
func WriteFabricHCL(w io.Writer, cfg *fabric.Config) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("name", cty.StringVal(cfg.Name))
	if cfg.Description != "" {
		body.SetAttributeValue("description", cty.StringVal(cfg.Description))
	}

	dims := body.AppendNewBlock("array_dimensions", nil).Body()
	dims.SetAttributeValue("rows", cty.NumberIntVal(int64(cfg.Dimensions.Rows)))
	dims.SetAttributeValue("cols", cty.NumberIntVal(int64(cfg.Dimensions.Cols)))

	tc := body.AppendNewBlock("tile_configuration", nil).Body()
	tc.SetAttributeValue("default_tile", cty.StringVal(cfg.Tiles.DefaultTile))
	for _, r := range cfg.Tiles.Regions {
		rb := tc.AppendNewBlock("region", []string{r.Name}).Body()
		rb.SetAttributeValue("tile_type", cty.StringVal(r.TileType))
		rb.SetAttributeValue("row_start", cty.NumberIntVal(int64(r.Area.RowStart)))
		rb.SetAttributeValue("col_start", cty.NumberIntVal(int64(r.Area.ColStart)))
		rb.SetAttributeValue("width", cty.NumberIntVal(int64(r.Area.Width)))
		rb.SetAttributeValue("height", cty.NumberIntVal(int64(r.Area.Height)))
	}

	if ec := cfg.EdgeCells; ec != nil {
		eb := body.AppendNewBlock("edge_cells", nil).Body()
		for _, d := range fabric.Directions() {
			side := ec.Side(d)
			if side == nil {
				continue
			}
			sb := eb.AppendNewBlock(string(d), nil).Body()
			sb.SetAttributeValue("enable", cty.BoolVal(side.Enable))
			if side.Cell != "" {
				sb.SetAttributeValue("cell", cty.StringVal(side.Cell))
			}
		}
	}

	if r := cfg.IORing; r != nil {
		rb := body.AppendNewBlock("io_ring", nil).Body()
		if ps := r.PinSize; ps != nil {
			pb := rb.AppendNewBlock("pin_size", nil).Body()
			pb.SetAttributeValue("width", cty.NumberIntVal(ps.Width))
			pb.SetAttributeValue("height", cty.NumberIntVal(ps.Height))
		}
		for _, e := range r.Edges {
			edge := rb.AppendNewBlock("edge", []string{e.Name}).Body()
			if e.Spacing != "" {
				edge.SetAttributeValue("spacing", cty.StringVal(e.Spacing))
			}
			for _, p := range e.Pins {
				pb := edge.AppendNewBlock("pin", []string{p.Name}).Body()
				setString(pb, "type", p.Type)
				setString(pb, "direction", p.Direction)
				if p.Position != nil {
					pb.SetAttributeValue("position", cty.NumberFloatVal(*p.Position))
				}
				setString(pb, "mode", p.Mode)
			}
		}
	}

	if m := cfg.Margins; m != nil {
		mb := body.AppendNewBlock("margins", nil).Body()
		mb.SetAttributeValue("horizontal", cty.NumberFloatVal(m.Horizontal))
		mb.SetAttributeValue("vertical", cty.NumberFloatVal(m.Vertical))
	}

	if p := cfg.Power; p != nil {
		pb := body.AppendNewBlock("power_distribution", nil).Body()
		writeGridHCL(pb, "primary_grid", p.Primary)
		writeGridHCL(pb, "secondary_grid", p.Secondary)
	}

	_, err := w.Write(f.Bytes())
	return err
}

func writeGridHCL(body *hclwrite.Body, name string, g *fabric.Grid) {
	if g == nil {
		return
	}
	gb := body.AppendNewBlock(name, nil).Body()
	for _, net := range []string{"VDD", "VSS"} {
		rail := g.Rail(net)
		if rail == nil {
			continue
		}
		rb := gb.AppendNewBlock(net, nil).Body()
		rb.SetAttributeValue("layer", cty.StringVal(rail.Layer))
		rb.SetAttributeValue("width", cty.NumberFloatVal(rail.Width))
		if rail.Pitch != 0 {
			rb.SetAttributeValue("pitch", cty.NumberFloatVal(rail.Pitch))
		}
	}
}

func setString(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}

// docOf converts everything but the I/O ring back into document form.
func docOf(cfg *fabric.Config) fabricDoc {
	name := cfg.Name
	rows, cols := cfg.Dimensions.Rows, cfg.Dimensions.Cols
	doc := fabricDoc{
		Name:        &name,
		Description: cfg.Description,
		Dimensions:  &dimensionsDoc{Rows: &rows, Cols: &cols},
		Tiles:       &tileConfigDoc{DefaultTile: cfg.Tiles.DefaultTile},
	}
	for _, r := range cfg.Tiles.Regions {
		doc.Tiles.Regions = append(doc.Tiles.Regions, regionDoc{
			Name:     r.Name,
			TileType: r.TileType,
			Area: &areaDoc{
				RowStart: r.Area.RowStart,
				ColStart: r.Area.ColStart,
				Width:    r.Area.Width,
				Height:   r.Area.Height,
			},
		})
	}
	if ec := cfg.EdgeCells; ec != nil {
		doc.EdgeCells = &edgeCellsDoc{
			Left:   edgeCellDocOf(ec.Left),
			Right:  edgeCellDocOf(ec.Right),
			Top:    edgeCellDocOf(ec.Top),
			Bottom: edgeCellDocOf(ec.Bottom),
		}
	}
	if m := cfg.Margins; m != nil {
		doc.Margins = &marginsDoc{Horizontal: m.Horizontal, Vertical: m.Vertical}
	}
	if p := cfg.Power; p != nil {
		doc.Power = &powerDistDoc{Primary: gridDocOf(p.Primary), Secondary: gridDocOf(p.Secondary)}
	}
	return doc
}

func edgeCellDocOf(e *fabric.EdgeCell) *edgeCellDoc {
	if e == nil {
		return nil
	}
	enable := e.Enable
	return &edgeCellDoc{Enable: &enable, Cell: e.Cell}
}

func gridDocOf(g *fabric.Grid) *gridDoc {
	if g == nil {
		return nil
	}
	return &gridDoc{VDD: railDocOf(g.VDD), VSS: railDocOf(g.VSS)}
}

func railDocOf(r *fabric.Rail) *railDoc {
	if r == nil {
		return nil
	}
	return &railDoc{Layer: r.Layer, Width: r.Width, Pitch: r.Pitch}
}

func pinSizeDocOf(p *fabric.PinSize) *pinSizeDoc {
	if p == nil {
		return nil
	}
	return &pinSizeDoc{Width: float64(p.Width), Height: float64(p.Height)}
}

func edgeDoc(e fabric.Edge) ioEdgeDoc {
	out := ioEdgeDoc{Spacing: e.Spacing}
	for _, p := range e.Pins {
		out.Pins = append(out.Pins, ioPinDoc{
			Name:      p.Name,
			Type:      p.Type,
			Direction: p.Direction,
			Position:  p.Position,
			Mode:      p.Mode,
		})
	}
	return out
}
