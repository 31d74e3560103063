// Package tech holds the technology catalog: the standard cells, the
// placement site and the metal layers of a process, indexed by alias.
//
// A [Technology] is the plain record decoded from a technology document
// (see package io). [NewCatalog] validates it and builds the lookup
// structure every later stage resolves cell aliases against:
//
//	cat, rep := tech.NewCatalog(t)
//	if rep.HasErrors() {
//	    return rep.Err()
//	}
//	nand, err := cat.Resolve("NAND2")
//
// Cell widths are integer site counts and heights are integer row counts.
// Physical dimensions only appear on the [Site] and on [Layer] metrics, in
// microns.
package tech

// DefaultDistanceUnits is the DBU-per-micron factor used when a technology
// does not state one.
const DefaultDistanceUnits = 1000

// Pin directions accepted on cell pins.
const (
	DirectionInput  = "input"
	DirectionOutput = "output"
	DirectionInout  = "inout"
)

// Layer routing directions.
const (
	LayerHorizontal = "horizontal"
	LayerVertical   = "vertical"
)

// Technology is a decoded technology document.
type Technology struct {
	Name        string
	Version     string
	Description string
	Units       Units
	Site        Site
	Cells       []Cell
	Layers      []Layer // declaration order
}

// Units carries the unit factors of the technology. Only Distance (DBU
// per micron) drives geometry; the others are informational.
type Units struct {
	Distance    int
	Time        int
	Capacitance int
	Resistance  int
	Current     int
}

// Site is the unit placement cell of a row.
type Site struct {
	Name   string
	Width  float64 // microns
	Height float64 // microns
}

// Cell is one library cell. Width is in sites, Height in rows.
type Cell struct {
	Name          string // library macro name
	Alias         string
	Width         int
	Height        int
	Type          string // cell_type as declared
	DriveStrength int
	Function      string
	ClockPin      string
	SpacingRule   int
	Pins          []Pin   // declaration order
	Leakage       float64 // microwatts
	HasPower      bool
}

// Pin is a pin of a library cell.
type Pin struct {
	Name           string
	Direction      string
	Capacitance    float64
	MaxCapacitance float64
	MaxFanout      int
	Function       string
	Layer          string
	Clock          bool
}

// Layer is a metal layer. Pitch and MinWidth are in microns.
type Layer struct {
	Name         string
	Direction    string
	Pitch        float64
	MinWidth     float64
	Programmable bool
}

// Macro returns the library name of the cell, or its alias when the
// technology left the name empty.
func (c *Cell) Macro() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Alias
}

// Pin returns the pin with the given name.
func (c *Cell) Pin(name string) (Pin, bool) {
	for _, p := range c.Pins {
		if p.Name == name {
			return p, true
		}
	}
	return Pin{}, false
}
