package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/structasic/fabgen/pkg/tiles"
)

type tilesDoc struct {
	Tiles []tileDoc `json:"tiles"`
}

type tileDoc struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Width       *int     `json:"width"`
	Height      *int     `json:"height"`
	Site        string   `json:"site"`
	Rows        []rowDoc `json:"rows"`
}

type rowDoc struct {
	RowID *int          `json:"row_id"`
	Cells []cellSpecDoc `json:"cells"`
}

type cellSpecDoc struct {
	Type  string `json:"type"`
	Count *int   `json:"count"`
}

// ReadTiles decodes a tiles document from r.
//
// A row without row_id takes its position in the list; a cell run without
// count is a single cell.
func ReadTiles(r io.Reader, name string) (tiles.Definitions, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return tiles.Definitions{}, fmt.Errorf("read %s: %w", name, err)
	}
	var doc tilesDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return tiles.Definitions{}, jsonError(name, data, err)
	}
	if doc.Tiles == nil {
		return tiles.Definitions{}, missing(name, "tiles")
	}

	var defs tiles.Definitions
	for i, td := range doc.Tiles {
		path := fmt.Sprintf("tiles[%d]", i)
		if td.Width == nil {
			return tiles.Definitions{}, missing(name, path+".width")
		}
		if td.Height == nil {
			return tiles.Definitions{}, missing(name, path+".height")
		}
		t := tiles.Template{
			Name:        td.Name,
			Description: td.Description,
			Width:       *td.Width,
			Height:      *td.Height,
			Site:        td.Site,
		}
		for j, rd := range td.Rows {
			row := tiles.Row{ID: j}
			if rd.RowID != nil {
				row.ID = *rd.RowID
			}
			for _, cs := range rd.Cells {
				count := 1
				if cs.Count != nil {
					count = *cs.Count
				}
				row.Cells = append(row.Cells, tiles.CellSpec{Type: cs.Type, Count: count})
			}
			t.Rows = append(t.Rows, row)
		}
		defs.Tiles = append(defs.Tiles, t)
	}
	return defs, nil
}

// LoadTiles reads the tiles document at path.
func LoadTiles(path string) (tiles.Definitions, error) {
	f, err := open(path)
	if err != nil {
		return tiles.Definitions{}, err
	}
	defer f.Close()
	return ReadTiles(f, path)
}
