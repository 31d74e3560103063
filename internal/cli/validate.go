package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/structasic/fabgen/pkg/pipeline"
)

// validateCommand creates the validate command. It runs every check of
// generate and writes nothing.
func (c *CLI) validateCommand() *cobra.Command {
	var pinSize, pinSizeUM []float64

	cmd := &cobra.Command{
		Use:   "validate TECH TILES FABRIC",
		Short: "Check the inputs and print every diagnostic",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := generateOpts{pinSize: pinSize, pinSizeUM: pinSizeUM}
			return c.runValidate(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().Float64SliceVar(&pinSize, "pin-size", nil, "pin rectangle WIDTH,HEIGHT in database units")
	cmd.Flags().Float64SliceVar(&pinSizeUM, "pin-size-um", nil, "pin rectangle WIDTH,HEIGHT in microns")
	cmd.MarkFlagsMutuallyExclusive("pin-size", "pin-size-um")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, w io.Writer, args []string, opts generateOpts) error {
	pipeOpts, err := opts.pipelineOptions()
	if err != nil {
		return err
	}
	in, err := pipeline.LoadInputs(args[0], args[1], args[2])
	if err != nil {
		return reportFailure(w, err)
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	result, err := runner.Validate(ctx, in, pipeOpts)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if result == nil {
			return reportFailure(w, err)
		}
		printDiagnostics(w, result.Report.Diagnostics())
		return fmt.Errorf("%d error(s) found", len(result.Report.Errors()))
	}

	printDiagnostics(w, result.Report.Diagnostics())
	m := result.Model
	printSuccess(w, "%s is valid", m.Name)
	fmt.Fprintln(w, "  "+joinDim(
		fmt.Sprintf("%dx%d tiles", m.Dims.ArrayRows, m.Dims.ArrayCols),
		fmt.Sprintf("%d cells", m.Stats.TotalCells),
		fmt.Sprintf("%d edge cells", m.Stats.TotalEdgeCells),
		fmt.Sprintf("%d pins", m.Stats.TotalPins),
		fmt.Sprintf("%d warning(s)", len(result.Report.Warnings())),
	))
	return nil
}
