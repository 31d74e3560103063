package testutil

// TechnologyJSON is a technology document equivalent to Technology,
// trimmed to the cells the LOGIC and MEM templates use.
const TechnologyJSON = `{
  "technology": "sky130",
  "version": "1.0",
  "units": {"distance": 1000, "time": 1000, "capacitance": 1000},
  "site": {"name": "unithd", "width": 0.46, "height": 2.72},
  "cells": [
    {"name": "sky130_fd_sc_hd__tapvpwrvgnd_1", "alias": "TAP", "width": 1, "height": 1, "cell_type": "physical"},
    {"name": "sky130_fd_sc_hd__nand2_1", "alias": "NAND2", "width": 4, "height": 1, "cell_type": "combinational",
     "function": "Y=!(A&B)",
     "pins": {"A": {"direction": "input", "capacitance": 0.0024}, "B": {"direction": "input"}, "Y": {"direction": "output"}},
     "power": {"leakage": 0.0021}},
    {"name": "sky130_fd_sc_hd__inv_1", "alias": "INV", "width": 3, "height": 1, "cell_type": "combinational",
     "pins": {"A": {"direction": "input"}, "Y": {"direction": "output"}}, "power": {"leakage": 0.0013}},
    {"name": "sky130_fd_sc_hd__nor2_1", "alias": "NOR2", "width": 4, "height": 1, "power": {"leakage": 0.0019}},
    {"name": "sky130_fd_sc_hd__buf_1", "alias": "BUF", "width": 3, "height": 1, "power": {"leakage": 0.0016}},
    {"name": "sky130_fd_sc_hd__dfxtp_1", "alias": "DFF", "width": 17, "height": 1, "cell_type": "sequential",
     "clock_pin": "CLK",
     "pins": {"CLK": {"direction": "input", "clock": true}, "D": {"direction": "input"}, "Q": {"direction": "output"}},
     "power": {"leakage": 0.0198}},
    {"name": "sky130_fd_sc_hd__mux2_1", "alias": "MUX2", "width": 9, "height": 1, "power": {"leakage": 0.0052}},
    {"name": "sky130_fd_sc_hd__xor2_1", "alias": "XOR2", "width": 6, "height": 1, "power": {"leakage": 0.0047}},
    {"name": "sky130_fd_sc_hd__decap_4", "alias": "DECAP4", "width": 4, "height": 1, "cell_type": "physical", "power": {"leakage": 0.0004}},
    {"name": "sky130_fd_sc_hd__decap_12", "alias": "DECAP12", "width": 12, "height": 1, "cell_type": "physical", "power": {"leakage": 0.0011}}
  ],
  "layers": {
    "met1": {"direction": "horizontal", "pitch": 0.34, "min_width": 0.14},
    "met2": {"direction": "vertical", "pitch": 0.46, "min_width": 0.14},
    "met4": {"direction": "vertical", "pitch": 0.92, "min_width": 0.3, "programmable": true},
    "met5": {"direction": "horizontal", "pitch": 3.4, "min_width": 1.6, "programmable": true}
  }
}`

// TilesJSON declares LOGIC and MEM.
const TilesJSON = `{
  "tiles": [
    {
      "name": "LOGIC", "width": 60, "height": 4, "site": "unithd",
      "rows": [
        {"row_id": 0, "cells": [{"type": "TAP", "count": 1}, {"type": "NAND2", "count": 6}, {"type": "INV", "count": 5}, {"type": "DECAP12", "count": 1}, {"type": "DECAP4", "count": 2}]},
        {"row_id": 1, "cells": [{"type": "TAP", "count": 1}, {"type": "NOR2", "count": 6}, {"type": "BUF", "count": 5}, {"type": "DECAP12", "count": 1}, {"type": "DECAP4", "count": 2}]},
        {"row_id": 2, "cells": [{"type": "TAP", "count": 1}, {"type": "DFF", "count": 2}, {"type": "MUX2", "count": 1}, {"type": "DECAP12", "count": 1}, {"type": "DECAP4", "count": 1}]},
        {"row_id": 3, "cells": [{"type": "TAP", "count": 1}, {"type": "XOR2", "count": 4}, {"type": "INV", "count": 5}, {"type": "DECAP12", "count": 1}, {"type": "DECAP4", "count": 2}]}
      ]
    },
    {
      "name": "MEM", "width": 60, "height": 4,
      "rows": [
        {"row_id": 0, "cells": [{"type": "TAP", "count": 1}, {"type": "DFF", "count": 3}, {"type": "DECAP4", "count": 2}]},
        {"row_id": 1, "cells": [{"type": "TAP", "count": 1}, {"type": "DFF", "count": 3}, {"type": "DECAP4", "count": 2}]},
        {"row_id": 2, "cells": [{"type": "TAP", "count": 1}, {"type": "DFF", "count": 3}, {"type": "DECAP4", "count": 2}]},
        {"row_id": 3, "cells": [{"type": "TAP", "count": 1}, {"type": "DFF", "count": 3}, {"type": "DECAP4", "count": 2}]}
      ]
    }
  ]
}`

// FabricJSON is a 3x3 fabric with one MEM region, a full edge ring and
// pins on two edges.
const FabricJSON = `{
  "name": "demo3x3",
  "description": "3x3 demo fabric",
  "array_dimensions": {"rows": 3, "cols": 3},
  "tile_configuration": {
    "default_tile": "LOGIC",
    "regions": [
      {"name": "ram", "tile_type": "MEM", "area": {"row_start": 1, "col_start": 1, "width": 2, "height": 2}}
    ]
  },
  "edge_cells": {
    "left": {"enable": true, "cell": "DECAP12"},
    "right": {"enable": true, "cell": "DECAP12"},
    "top": {"enable": true, "cell": "DECAP4"},
    "bottom": {"enable": true, "cell": "DECAP4"}
  },
  "io_ring": {
    "pin_size": {"width": 300, "height": 300},
    "edges": {
      "west": {"spacing": "auto", "pins": [
        {"name": "clk", "type": "signal", "direction": "input"},
        {"name": "rst_n", "type": "signal", "direction": "input"}
      ]},
      "north": {"spacing": "manual", "pins": [
        {"name": "dout", "type": "signal", "direction": "output", "position": 40.0, "mode": "manual"}
      ]}
    }
  },
  "margins": {"horizontal": 10, "vertical": 10},
  "power_distribution": {
    "primary_grid": {"VDD": {"layer": "met1", "width": 0.48}, "VSS": {"layer": "met1", "width": 0.48}},
    "secondary_grid": {"VDD": {"layer": "met4", "width": 1.6, "pitch": 25}, "VSS": {"layer": "met4", "width": 1.6, "pitch": 25}}
  }
}`

// FabricTOML is FabricJSON in TOML syntax.
const FabricTOML = `name = "demo3x3"
description = "3x3 demo fabric"

[array_dimensions]
rows = 3
cols = 3

[tile_configuration]
default_tile = "LOGIC"

[[tile_configuration.regions]]
name = "ram"
tile_type = "MEM"
area = { row_start = 1, col_start = 1, width = 2, height = 2 }

[edge_cells]
left = { enable = true, cell = "DECAP12" }
right = { enable = true, cell = "DECAP12" }
top = { enable = true, cell = "DECAP4" }
bottom = { enable = true, cell = "DECAP4" }

[io_ring]
pin_size = { width = 300.0, height = 300.0 }

[io_ring.edges.west]
spacing = "auto"

[[io_ring.edges.west.pins]]
name = "clk"
type = "signal"
direction = "input"

[[io_ring.edges.west.pins]]
name = "rst_n"
type = "signal"
direction = "input"

[io_ring.edges.north]
spacing = "manual"

[[io_ring.edges.north.pins]]
name = "dout"
type = "signal"
direction = "output"
position = 40.0
mode = "manual"

[margins]
horizontal = 10.0
vertical = 10.0

[power_distribution.primary_grid]
VDD = { layer = "met1", width = 0.48 }
VSS = { layer = "met1", width = 0.48 }

[power_distribution.secondary_grid]
VDD = { layer = "met4", width = 1.6, pitch = 25.0 }
VSS = { layer = "met4", width = 1.6, pitch = 25.0 }
`

// FabricHCL is FabricJSON in HCL syntax.
const FabricHCL = `name        = "demo3x3"
description = "3x3 demo fabric"

array_dimensions {
  rows = 3
  cols = 3
}

tile_configuration {
  default_tile = "LOGIC"

  region "ram" {
    tile_type = "MEM"
    row_start = 1
    col_start = 1
    width     = 2
    height    = 2
  }
}

edge_cells {
  left {
    cell = "DECAP12"
  }
  right {
    cell = "DECAP12"
  }
  top {
    cell = "DECAP4"
  }
  bottom {
    enable = true
    cell   = "DECAP4"
  }
}

io_ring {
  pin_size {
    width  = 300
    height = 300
  }

  edge "west" {
    spacing = "auto"
    pin "clk" {
      type      = "signal"
      direction = "input"
    }
    pin "rst_n" {
      type      = "signal"
      direction = "input"
    }
  }

  edge "north" {
    spacing = "manual"
    pin "dout" {
      type      = "signal"
      direction = "output"
      position  = 40
      mode      = "manual"
    }
  }
}

margins {
  horizontal = 10
  vertical   = 10
}

power_distribution {
  primary_grid {
    VDD {
      layer = "met1"
      width = 0.48
    }
    VSS {
      layer = "met1"
      width = 0.48
    }
  }
  secondary_grid {
    VDD {
      layer = "met4"
      width = 1.6
      pitch = 25
    }
    VSS {
      layer = "met4"
      width = 1.6
      pitch = 25
    }
  }
}
`
