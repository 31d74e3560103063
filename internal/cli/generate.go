package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	outputDir  string    // output directory
	outputName string    // artifact base name
	pinSize    []float64 // pin rectangle in DBU (width, height)
	pinSizeUM  []float64 // pin rectangle in microns (width, height)
	defOnly    bool      // write only the DEF file
	formats    []string  // output formats
	refresh    bool      // render even when cached
	cache      cacheFlags
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate TECH TILES FABRIC",
		Short: "Generate DEF, LEF, JSON and SVG views of a fabric",
		Long: `Generate builds the fabric described by FABRIC from the tile templates in
TILES and the cells of TECH, then writes the requested views.

Output files:
  {base}.def            placement (DEF 5.8)
  {base}.lef            abstract with pins (LEF 5.8)
  {base}.json           dimensions, statistics and pins
  {base}.svg            fabric view, plus tile_{template}.svg per template
  {base}_floorplan.svg  tile floorplan (--format floorplan)

FABRIC may be JSON, TOML or HCL, chosen by file extension.`,
		Example: `  fabgen generate tech.json tiles.json fabric.json
  fabgen generate tech.json tiles.json fabric.toml --output-dir out/
  fabgen generate tech.json tiles.json fabric.json --pin-size 300,300 --def-only`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "output directory (default: current directory)")
	cmd.Flags().StringVarP(&opts.outputName, "output-name", "n", "", "output file base name (default: fabric name)")
	cmd.Flags().Float64SliceVar(&opts.pinSize, "pin-size", nil, "pin rectangle WIDTH,HEIGHT in database units")
	cmd.Flags().Float64SliceVar(&opts.pinSizeUM, "pin-size-um", nil, "pin rectangle WIDTH,HEIGHT in microns")
	cmd.Flags().BoolVar(&opts.defOnly, "def-only", false, "generate only the DEF file")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "output formats: def, lef, json, svg, floorplan (default def,lef,json,svg)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "render even when outputs are cached")
	cmd.MarkFlagsMutuallyExclusive("pin-size", "pin-size-um")
	cmd.MarkFlagsMutuallyExclusive("def-only", "format")
	opts.cache.register(cmd)

	return cmd
}

// pipelineOptions converts the flags to pipeline options.
func (o generateOpts) pipelineOptions() (pipeline.Options, error) {
	opts := pipeline.Options{
		Formats: o.formats,
		Refresh: o.refresh,
	}
	if o.defOnly {
		opts.Formats = []string{pipeline.FormatDEF}
	}
	switch {
	case o.pinSize != nil:
		ps, err := pinSizeFlag("pin-size", o.pinSize, false)
		if err != nil {
			return opts, err
		}
		opts.PinSize = ps
	case o.pinSizeUM != nil:
		ps, err := pinSizeFlag("pin-size-um", o.pinSizeUM, true)
		if err != nil {
			return opts, err
		}
		opts.PinSize = ps
	}
	return opts, nil
}

func pinSizeFlag(flag string, v []float64, microns bool) (*pipeline.PinSize, error) {
	if len(v) != 2 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "--%s takes WIDTH,HEIGHT, got %d value(s)", flag, len(v))
	}
	return &pipeline.PinSize{Width: v[0], Height: v[1], Microns: microns}, nil
}

func (c *CLI) runGenerate(ctx context.Context, w io.Writer, args []string, opts generateOpts) error {
	pipeOpts, err := opts.pipelineOptions()
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	c.Logger.Info("Loading input files", "technology", args[0], "tiles", args[1], "fabric", args[2])
	in, err := pipeline.LoadInputs(args[0], args[1], args[2])
	if err != nil {
		return reportFailure(w, err)
	}

	dir, base := outputPaths(opts.outputDir, opts.outputName, in.Fabric.Name)
	pipeOpts.Name = base

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, in, pipeOpts)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if result != nil && result.Report.Len() > 0 {
			printDiagnostics(w, result.Report.Diagnostics())
			return fmt.Errorf("generation failed with %d error(s)", len(result.Report.Errors()))
		}
		return reportFailure(w, err)
	}

	paths, err := writeArtifacts(dir, result.Files(), result.Artifacts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated fabric %s", result.Model.Name))

	if c.quiet {
		return nil
	}
	printDiagnostics(w, result.Report.Warnings())
	printSuccess(w, "Wrote %d file(s) %s", len(paths), cacheStatus(result.CacheInfo.RenderHit()))
	for _, p := range paths {
		printFile(w, p)
	}
	printSummary(w, result.Model, dir)
	return nil
}

// reportFailure prints the diagnostics carried by err, if any, and returns
// a short error for the exit status.
func reportFailure(w io.Writer, err error) error {
	diags := ferrors.DiagnosticsOf(err)
	if len(diags) == 0 {
		return err
	}
	printDiagnostics(w, diags)
	return fmt.Errorf("%d error(s) found", countErrors(diags))
}
