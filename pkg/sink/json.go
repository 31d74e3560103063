package sink

import (
	"encoding/json"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	cells bool
}

// WithJSONCells includes every placed component in the output. Without
// it only edge cells are listed individually.
func WithJSONCells() JSONOption { return func(r *jsonRenderer) { r.cells = true } }

type jsonOutput struct {
	FabricName  string               `json:"fabric_name"`
	Description string               `json:"description,omitempty"`
	Technology  string               `json:"technology,omitempty"`
	Dimensions  jsonDimensions       `json:"dimensions"`
	Statistics  jsonStatistics       `json:"statistics"`
	EdgeCells   []jsonCell           `json:"edge_cells"`
	Cells       []jsonCell           `json:"cells,omitempty"`
	IOPins      []jsonPin            `json:"io_pins"`
	TileArray   [][]string           `json:"tile_array"`
	Warnings    []ferrors.Diagnostic `json:"warnings,omitempty"`
}

type jsonDimensions struct {
	TileArray   jsonGrid    `json:"tile_array"`
	Tile        jsonSites   `json:"tile"`
	Fabric      jsonSites   `json:"fabric"`
	Core        jsonSites   `json:"core"`
	EdgeExtents jsonExtents `json:"edge_extents"`
	FabricArea  jsonSize    `json:"fabric_area"`
	CoreArea    jsonSize    `json:"core_area"`
	DieArea     jsonSize    `json:"die_area"`
	Margins     jsonMargins `json:"margins"`
}

type jsonGrid struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

type jsonSites struct {
	Rows  int `json:"rows"`
	Sites int `json:"sites"`
}

type jsonExtents struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

type jsonSize struct {
	WidthUM  float64 `json:"width_um"`
	HeightUM float64 `json:"height_um"`
}

type jsonMargins struct {
	HorizontalUM float64 `json:"horizontal_um"`
	VerticalUM   float64 `json:"vertical_um"`
}

type jsonStatistics struct {
	FabricCells        map[string]int          `json:"fabric_cells"`
	EdgeCells          map[string]int          `json:"edge_cells"`
	CombinedCellCounts map[string]int          `json:"combined_cell_counts"`
	TileCounts         map[string]int          `json:"tile_counts"`
	CategoryCounts     map[layout.Category]int `json:"category_counts"`
	TotalFabricCells   int                     `json:"total_fabric_cells"`
	TotalEdgeCells     int                     `json:"total_edge_cells"`
	TotalPins          int                     `json:"total_pins"`
	LeakageWatts       float64                 `json:"total_leakage_power_watts"`
	FabricAreaUM2      float64                 `json:"fabric_area_um2"`
	CoreAreaUM2        float64                 `json:"core_area_um2"`
	DieAreaUM2         float64                 `json:"die_area_um2"`
}

type jsonCell struct {
	Name     string   `json:"name"`
	Cell     string   `json:"cell"`
	Macro    string   `json:"macro"`
	Category string   `json:"category"`
	Edge     string   `json:"edge,omitempty"`
	Index    int      `json:"index"`
	Position jsonRect `json:"position"`
}

type jsonPin struct {
	Name      string   `json:"name"`
	Direction string   `json:"direction"`
	Type      string   `json:"type"`
	Edge      string   `json:"edge"`
	Mode      string   `json:"mode"`
	Position  jsonRect `json:"position"`
	RectDBU   [4]int64 `json:"rect_dbu"`
}

type jsonRect struct {
	XUM      float64 `json:"x_um"`
	YUM      float64 `json:"y_um"`
	WidthUM  float64 `json:"width_um"`
	HeightUM float64 `json:"height_um"`
}

// RenderJSON writes the model summary as indented JSON.
func RenderJSON(m *layout.Model, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	d, s := m.Dims, m.Stats
	out := jsonOutput{
		FabricName:  m.Name,
		Description: m.Description,
		Technology:  m.Technology,
		Dimensions: jsonDimensions{
			TileArray:   jsonGrid{Rows: d.ArrayRows, Cols: d.ArrayCols},
			Tile:        jsonSites{Rows: d.TileRows, Sites: d.TileSites},
			Fabric:      jsonSites{Rows: d.FabricRows, Sites: d.FabricSites},
			Core:        jsonSites{Rows: d.CoreRows, Sites: d.CoreSites},
			EdgeExtents: jsonExtents{Left: d.Edges.Left, Right: d.Edges.Right, Top: d.Edges.Top, Bottom: d.Edges.Bottom},
			FabricArea:  sizeOf(m, d.Fabric),
			CoreArea:    sizeOf(m, d.Core),
			DieArea:     sizeOf(m, d.Die),
			Margins:     jsonMargins{HorizontalUM: m.Microns(d.MarginX), VerticalUM: m.Microns(d.MarginY)},
		},
		Statistics: jsonStatistics{
			FabricCells:        s.CellCounts,
			EdgeCells:          s.EdgeCellCounts,
			CombinedCellCounts: s.CombinedCounts,
			TileCounts:         s.TileCounts,
			CategoryCounts:     s.CategoryCounts,
			TotalFabricCells:   s.TotalCells,
			TotalEdgeCells:     s.TotalEdgeCells,
			TotalPins:          s.TotalPins,
			LeakageWatts:       s.LeakageWatts,
			FabricAreaUM2:      s.FabricArea,
			CoreAreaUM2:        s.CoreArea,
			DieAreaUM2:         s.DieArea,
		},
		EdgeCells: make([]jsonCell, 0, len(m.EdgeCells)),
		IOPins:    make([]jsonPin, 0, len(m.Pins)),
		TileArray: m.TileArray,
		Warnings:  m.Warnings,
	}
	for _, c := range m.EdgeCells {
		out.EdgeCells = append(out.EdgeCells, cellOf(m, c))
	}
	if r.cells {
		out.Cells = make([]jsonCell, 0, len(m.Cells))
		for _, c := range m.Cells {
			out.Cells = append(out.Cells, cellOf(m, c))
		}
	}
	for _, p := range m.Pins {
		out.IOPins = append(out.IOPins, jsonPin{
			Name:      p.Name,
			Direction: p.Direction,
			Type:      p.Type,
			Edge:      string(p.Side),
			Mode:      p.Mode,
			Position:  rectOf(m, p.Rect),
			RectDBU:   [4]int64{p.Rect.X0, p.Rect.Y0, p.Rect.X1, p.Rect.Y1},
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

func cellOf(m *layout.Model, c layout.Cell) jsonCell {
	return jsonCell{
		Name:     c.Name,
		Cell:     c.Alias,
		Macro:    c.Macro,
		Category: string(c.Category),
		Edge:     string(c.Edge),
		Index:    c.Index,
		Position: rectOf(m, c.Rect),
	}
}

func rectOf(m *layout.Model, r geom.Rect) jsonRect {
	return jsonRect{
		XUM:      m.Microns(r.X0),
		YUM:      m.Microns(r.Y0),
		WidthUM:  m.Microns(r.W()),
		HeightUM: m.Microns(r.H()),
	}
}

func sizeOf(m *layout.Model, r geom.Rect) jsonSize {
	return jsonSize{WidthUM: m.Microns(r.W()), HeightUM: m.Microns(r.H())}
}
