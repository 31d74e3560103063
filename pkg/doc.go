// Package pkg provides the libraries behind fabgen, a structured ASIC fabric
// generator.
//
// # Overview
//
// A fabric is a regular array of tiles. Each tile is a template of standard
// cells laid out in placement rows. fabgen composes the array from a tile
// library and a fabric configuration, wraps it in a ring of edge cells,
// places I/O pins around the die and writes the result in the formats that
// physical design tools read.
//
// # Architecture
//
// The data flow through fabgen:
//
//	technology.json   tiles.json   fabric.{json,toml,hcl}
//	         ↓             ↓              ↓
//	    [io] package (parse, PARSE_ERROR with line:column)
//	         ↓
//	    [tech], [tiles] catalogs (validated, immutable)
//	         ↓
//	    [fabric] composer (tile array from default tile and regions)
//	         ↓
//	    [edge] synthesizer → [geom] frame → [ioring] placer
//	         ↓
//	    [layout] model (sealed, with statistics)
//	         ↓
//	    [sink] emitters: DEF, LEF, JSON, SVG, floorplan
//
// [pipeline] runs these stages in order, collects the diagnostics of every
// stage, seals the model only when none is an error and caches rendered
// artifacts through [cache].
//
// # Quick Start
//
//	in, err := pipeline.LoadInputs("tech.json", "tiles.json", "fabric.toml")
//	if err != nil {
//	    return err // lists every parse error
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, in, pipeline.Options{})
//	if err != nil {
//	    for _, d := range errors.DiagnosticsOf(err) {
//	        fmt.Println(d)
//	    }
//	    return err
//	}
//	def := result.Artifacts[result.Model.Name+".def"]
//
// Emitters can also be called on a model directly:
//
//	m, rep := pipeline.Build(ctx, in, pipeline.Options{})
//	if rep.HasErrors() {
//	    return rep.Err()
//	}
//	def, _ := sink.RenderDEF(m)
//	svg, _ := sink.RenderFabricSVG(m)
//
// # Main Packages
//
// [tech] - Technology catalog: units, site, cells by alias, routing layers.
//
// [tiles] - Tile templates resolved against the technology, with row width
// checks.
//
// [geom] - Integer DBU geometry and the coordinate frames from tile-local
// sites to physical die coordinates.
//
// [fabric] - Fabric configuration and the composed tile array.
//
// [edge] - Edge-cell ring synthesis around the fabric.
//
// [ioring] - Automatic and manual I/O pin placement in the die margins.
//
// [layout] - The sealed layout model and its statistics.
//
// [errors] - Coded errors and the diagnostic report shared by every stage.
//
// [io] - Readers for technology, tiles and fabric documents, and fabric
// export to JSON, TOML or HCL.
//
// [sink] - DEF, LEF, JSON, SVG and Graphviz floorplan emitters.
//
// [pipeline] - Stage orchestration, options and the caching runner used by
// the CLI and the HTTP server.
//
// [cache] - File, Redis and null artifact caches.
//
// [observability] - Hooks for stage, cache and HTTP events.
//
// [tech]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/tech
// [tiles]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/tiles
// [geom]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/geom
// [fabric]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/fabric
// [edge]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/edge
// [ioring]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/ioring
// [layout]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/layout
// [errors]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/errors
// [io]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/io
// [sink]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/sink
// [pipeline]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/cache
// [observability]: https://pkg.go.dev/github.com/structasic/fabgen/pkg/observability
package pkg
