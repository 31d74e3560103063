package pipeline

import (
	"bytes"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/fabric"
	fio "github.com/structasic/fabgen/pkg/io"
	"github.com/structasic/fabgen/pkg/tech"
	"github.com/structasic/fabgen/pkg/tiles"
)

// Inputs are the three parsed documents of one run.
type Inputs struct {
	Technology *tech.Technology
	Tiles      tiles.Definitions
	Fabric     *fabric.Config
}

// Sources are raw documents, as received by the HTTP service.
type Sources struct {
	Technology []byte
	Tiles      []byte
	Fabric     []byte

	// FabricSyntax is json, toml or hcl. Empty means json.
	FabricSyntax string
}

// LoadInputs reads the three documents from disk. The fabric syntax
// follows its file extension. Every document is read even when an
// earlier one fails; the error lists all failures.
func LoadInputs(techPath, tilesPath, fabricPath string) (*Inputs, error) {
	rep := ferrors.NewReport()
	in := &Inputs{}
	var err error

	if in.Technology, err = fio.LoadTechnology(techPath); err != nil {
		rep.AddError(techPath, err)
	}
	if in.Tiles, err = fio.LoadTiles(tilesPath); err != nil {
		rep.AddError(tilesPath, err)
	}
	if in.Fabric, err = fio.LoadFabric(fabricPath); err != nil {
		rep.AddError(fabricPath, err)
	}
	if err := rep.Err(); err != nil {
		return nil, err
	}
	return in, nil
}

// ReadInputs parses in-memory documents.
func ReadInputs(src Sources) (*Inputs, error) {
	rep := ferrors.NewReport()
	in := &Inputs{}
	var err error

	syntax := src.FabricSyntax
	if syntax == "" {
		syntax = fio.SyntaxJSON
	}

	if in.Technology, err = fio.ReadTechnology(bytes.NewReader(src.Technology), "technology"); err != nil {
		rep.AddError("technology", err)
	}
	if in.Tiles, err = fio.ReadTiles(bytes.NewReader(src.Tiles), "tiles"); err != nil {
		rep.AddError("tiles", err)
	}
	if in.Fabric, err = fio.ReadFabricSyntax(bytes.NewReader(src.Fabric), "fabric", syntax); err != nil {
		rep.AddError("fabric", err)
	}
	if err := rep.Err(); err != nil {
		return nil, err
	}
	return in, nil
}
