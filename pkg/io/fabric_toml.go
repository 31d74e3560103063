package io

import (
	"errors"
	"sort"

	"github.com/BurntSushi/toml"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/fabric"
)

type ioRingTOML struct {
	IORing *struct {
		PinSize *pinSizeDoc          `toml:"pin_size"`
		Edges   map[string]ioEdgeDoc `toml:"edges"`
	} `toml:"io_ring"`
}

func decodeFabricTOML(data []byte, name string) (*fabric.Config, error) {
	var doc fabricDoc
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, tomlError(name, data, err)
	}
	cfg, err := doc.config(name)
	if err != nil {
		return nil, err
	}

	var ring ioRingTOML
	md, err := toml.Decode(string(data), &ring)
	if err != nil {
		return nil, tomlError(name, data, err)
	}
	if ring.IORing == nil {
		return cfg, nil
	}
	out := &fabric.IORing{}
	if ring.IORing.PinSize != nil {
		out.PinSize = pinSize(ring.IORing.PinSize)
	}
	for _, edge := range edgeOrder(md, ring.IORing.Edges) {
		out.Edges = append(out.Edges, ring.IORing.Edges[edge].edge(edge))
	}
	cfg.IORing = out
	return cfg, nil
}

// edgeOrder recovers the declaration order of the io_ring.edges tables,
// which a Go map loses.
func edgeOrder(md toml.MetaData, edges map[string]ioEdgeDoc) []string {
	seen := make(map[string]bool, len(edges))
	var order []string
	for _, k := range md.Keys() {
		if len(k) != 3 || k[0] != "io_ring" || k[1] != "edges" {
			continue
		}
		if _, ok := edges[k[2]]; ok && !seen[k[2]] {
			seen[k[2]] = true
			order = append(order, k[2])
		}
	}
	var rest []string
	for edge := range edges {
		if !seen[edge] {
			rest = append(rest, edge)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func tomlError(name string, data []byte, err error) error {
	var pe toml.ParseError
	if errors.As(err, &pe) {
		// Position.Line can run past the offending byte; Start does not.
		line, col := position(data, int64(pe.Position.Start))
		return ferrors.Wrap(ferrors.ErrCodeParse, errors.New(pe.Message), "%s:%d:%d", name, line, col)
	}
	return ferrors.Wrap(ferrors.ErrCodeParse, err, "%s", name)
}
