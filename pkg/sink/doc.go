// Package sink renders a sealed [layout.Model] into output formats.
//
// # Overview
//
// A "sink" is a pure function from a model to bytes. Nothing here reads
// configuration documents or the catalogs directly; every coordinate,
// name and count comes from the model, so all formats agree with each
// other by construction.
//
//   - DEF: placed components, rows, I/O pins and power rails
//   - LEF: the fabric as a single block macro with its pins
//   - JSON: dimensions, statistics and pins for downstream tools
//   - SVG: a fabric overview and one view per tile template
//   - Floorplan: a Graphviz rendering of the tile array
//
// # DEF Output
//
// [RenderDEF] writes DEF 5.8. Coordinates are in database units of the
// technology. Components list fabric cells first and edge cells after
// them, all in N orientation. Power rails are written as SPECIALNETS
// when the fabric declares a power distribution:
//
//	def, err := sink.RenderDEF(model)
//	def, err := sink.RenderDEF(model, sink.WithoutSpecialNets())
//
// # LEF Output
//
// [RenderLEF] writes the programmable routing layers and one MACRO of
// CLASS BLOCK sized to the die. Pins sit on the topmost programmable
// layer unless [WithPinLayer] says otherwise.
//
// # SVG Output
//
// [RenderFabricSVG] draws the die and core outlines, every tile coloured
// by template, the edge ring and the pins. [RenderTileSVG] draws a single
// template on its site grid. Both flip the y axis so that the origin is
// bottom-left as in the layout.
//
// # Floorplan Output
//
// [FloorplanDOT] describes the tile array as pinned Graphviz nodes and
// [RenderFloorplan] lays it out with neato into SVG.
package sink
