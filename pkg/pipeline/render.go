package pipeline

import (
	"context"
	"fmt"

	"github.com/structasic/fabgen/pkg/layout"
	"github.com/structasic/fabgen/pkg/sink"
)

// ArtifactName returns the file name of a single-file format.
func ArtifactName(base, format string) string {
	switch format {
	case FormatFloorplan:
		return base + "_floorplan.svg"
	default:
		return base + "." + format
	}
}

// TileArtifactName returns the file name of a tile template view.
func TileArtifactName(template string) string {
	return "tile_" + template + ".svg"
}

// Render projects m into the files of one format. The svg format yields
// the fabric view plus one view per used tile template.
func Render(ctx context.Context, m *layout.Model, base, format string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	var data []byte
	var err error

	switch format {
	case FormatDEF:
		data, err = sink.RenderDEF(m)
	case FormatLEF:
		data, err = sink.RenderLEF(m)
	case FormatJSON:
		data, err = sink.RenderJSON(m)
	case FormatSVG:
		data, err = sink.RenderFabricSVG(m)
		if err != nil {
			break
		}
		for _, t := range m.Templates {
			tile, err := sink.RenderTileSVG(m, t.Name)
			if err != nil {
				return nil, fmt.Errorf("render tile %s: %w", t.Name, err)
			}
			out[TileArtifactName(t.Name)] = tile
		}
	case FormatFloorplan:
		data, err = sink.RenderFloorplan(ctx, m)
	default:
		return nil, ValidateFormat(format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	out[ArtifactName(base, format)] = data
	return out, nil
}
