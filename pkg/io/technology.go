package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/structasic/fabgen/pkg/tech"
)

type technologyDoc struct {
	Technology  string          `json:"technology"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Units       *unitsDoc       `json:"units"`
	Site        *siteDoc        `json:"site"`
	Cells       []cellDoc       `json:"cells"`
	Layers      json.RawMessage `json:"layers"`
}

type unitsDoc struct {
	Distance    int `json:"distance"`
	Time        int `json:"time"`
	Capacitance int `json:"capacitance"`
	Resistance  int `json:"resistance"`
	Current     int `json:"current"`
}

type siteDoc struct {
	Name   string   `json:"name"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

type cellDoc struct {
	Name          string          `json:"name"`
	Alias         string          `json:"alias"`
	Width         *int            `json:"width"`
	Height        *int            `json:"height"`
	CellType      string          `json:"cell_type"`
	DriveStrength int             `json:"drive_strength"`
	Function      string          `json:"function"`
	ClockPin      string          `json:"clock_pin"`
	SpacingRule   int             `json:"spacing_rule"`
	Pins          json.RawMessage `json:"pins"`
	Power         *powerDoc       `json:"power"`
}

type powerDoc struct {
	Leakage float64 `json:"leakage"`
}

type pinDoc struct {
	Direction      string  `json:"direction"`
	Capacitance    float64 `json:"capacitance"`
	MaxCapacitance float64 `json:"max_capacitance"`
	MaxFanout      int     `json:"max_fanout"`
	Function       string  `json:"function"`
	Layer          string  `json:"layer"`
	Clock          bool    `json:"clock"`
}

type layerDoc struct {
	Direction    string  `json:"direction"`
	Pitch        float64 `json:"pitch"`
	MinWidth     float64 `json:"min_width"`
	Programmable bool    `json:"programmable"`
}

// ReadTechnology decodes a technology document from r. name labels
// errors, usually the file name.
//
// The site and the cell list are required, as are the width and height
// of every cell. Pins and layers keep their document order.
func ReadTechnology(r io.Reader, name string) (*tech.Technology, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var doc technologyDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, jsonError(name, data, err)
	}
	if doc.Site == nil {
		return nil, missing(name, "site")
	}
	if doc.Site.Width == nil || doc.Site.Height == nil {
		return nil, missing(name, "site.width/site.height")
	}
	if doc.Cells == nil {
		return nil, missing(name, "cells")
	}

	t := &tech.Technology{
		Name:        doc.Technology,
		Version:     doc.Version,
		Description: doc.Description,
		Site:        tech.Site{Name: doc.Site.Name, Width: *doc.Site.Width, Height: *doc.Site.Height},
	}
	if u := doc.Units; u != nil {
		t.Units = tech.Units{
			Distance:    u.Distance,
			Time:        u.Time,
			Capacitance: u.Capacitance,
			Resistance:  u.Resistance,
			Current:     u.Current,
		}
	}

	for i, cd := range doc.Cells {
		path := fmt.Sprintf("cells[%d]", i)
		if cd.Alias != "" {
			path = fmt.Sprintf("cells[%d] (%s)", i, cd.Alias)
		}
		if cd.Width == nil {
			return nil, missing(name, path+".width")
		}
		if cd.Height == nil {
			return nil, missing(name, path+".height")
		}
		cell := tech.Cell{
			Name:          cd.Name,
			Alias:         cd.Alias,
			Width:         *cd.Width,
			Height:        *cd.Height,
			Type:          cd.CellType,
			DriveStrength: cd.DriveStrength,
			Function:      cd.Function,
			ClockPin:      cd.ClockPin,
			SpacingRule:   cd.SpacingRule,
		}
		if cd.Power != nil {
			cell.Leakage = cd.Power.Leakage
			cell.HasPower = true
		}
		err := walkObject(cd.Pins, func(pin string, raw json.RawMessage) error {
			var pd pinDoc
			if err := json.Unmarshal(raw, &pd); err != nil {
				return fmt.Errorf("pin %s: %w", pin, err)
			}
			cell.Pins = append(cell.Pins, tech.Pin{
				Name:           pin,
				Direction:      pd.Direction,
				Capacitance:    pd.Capacitance,
				MaxCapacitance: pd.MaxCapacitance,
				MaxFanout:      pd.MaxFanout,
				Function:       pd.Function,
				Layer:          pd.Layer,
				Clock:          pd.Clock,
			})
			return nil
		})
		if err != nil {
			return nil, nestedError(name, path+".pins", err)
		}
		t.Cells = append(t.Cells, cell)
	}

	err = walkObject(doc.Layers, func(layer string, raw json.RawMessage) error {
		var ld layerDoc
		if err := json.Unmarshal(raw, &ld); err != nil {
			return fmt.Errorf("layer %s: %w", layer, err)
		}
		t.Layers = append(t.Layers, tech.Layer{
			Name:         layer,
			Direction:    ld.Direction,
			Pitch:        ld.Pitch,
			MinWidth:     ld.MinWidth,
			Programmable: ld.Programmable,
		})
		return nil
	})
	if err != nil {
		return nil, nestedError(name, "layers", err)
	}
	return t, nil
}

// LoadTechnology reads the technology document at path.
func LoadTechnology(path string) (*tech.Technology, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTechnology(f, path)
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(path, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
