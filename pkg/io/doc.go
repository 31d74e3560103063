// Package io reads the three input documents of a fabric run and writes
// fabric configurations back out.
//
// # Documents
//
// A technology document lists the site, the cells and the metal layers:
//
//	{
//	  "technology": "sky130",
//	  "units": {"distance": 1000},
//	  "site": {"name": "unithd", "width": 0.46, "height": 2.72},
//	  "cells": [
//	    {"name": "sky130_fd_sc_hd__nand2_1", "alias": "NAND2", "width": 4, "height": 1,
//	     "pins": {"A": {"direction": "input"}, "Y": {"direction": "output"}},
//	     "power": {"leakage": 0.0021}}
//	  ],
//	  "layers": {"met5": {"direction": "horizontal", "pitch": 3.4, "min_width": 1.6, "programmable": true}}
//	}
//
// A tiles document lists templates, each a stack of rows of (type, count)
// runs:
//
//	{"tiles": [{"name": "LOGIC", "width": 60, "height": 4, "rows": [
//	  {"row_id": 0, "cells": [{"type": "TAP", "count": 1}, {"type": "NAND2", "count": 6}]}
//	]}]}
//
// A fabric document sizes the array and configures regions, edge cells,
// the I/O ring, margins and the power grid. It may be written as JSON,
// TOML or HCL; [ReadFabric] picks the syntax from the file extension.
//
// # Ordering
//
// Cell pins, technology layers and I/O edges are JSON objects whose key
// order is significant. They are decoded with an order-preserving token
// walk rather than into Go maps, so outputs never depend on map order.
//
// # Errors
//
// Syntax and type errors become PARSE_ERROR errors naming the document
// and, where the decoder reports an offset, the line and column. Missing
// required fields are PARSE_ERROR too. Unknown fields are ignored.
//
// # Usage
//
//	t, err := io.LoadTechnology("tech.json")
//	defs, err := io.LoadTiles("tiles.json")
//	cfg, err := io.LoadFabric("fabric.toml")
package io
