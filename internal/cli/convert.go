package cli

import (
	"github.com/spf13/cobra"

	fio "github.com/structasic/fabgen/pkg/io"
)

// convertCommand creates the convert command, which rewrites a fabric
// configuration in another syntax.
func (c *CLI) convertCommand() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert FABRIC [OUTPUT]",
		Short: "Convert a fabric configuration between JSON, TOML and HCL",
		Long: `Convert reads FABRIC and writes it to OUTPUT in the syntax implied by the
OUTPUT extension. Without OUTPUT the result goes to stdout in the syntax
named by --to.`,
		Example: `  fabgen convert fabric.json fabric.toml
  fabgen convert fabric.hcl --to json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := fio.LoadFabric(args[0])
			if err != nil {
				return reportFailure(cmd.ErrOrStderr(), err)
			}
			if len(args) == 1 {
				return fio.WriteFabric(cmd.OutOrStdout(), cfg, to)
			}
			if err := fio.ExportFabric(args[1], cfg); err != nil {
				return err
			}
			c.Logger.Info("Converted fabric", "name", cfg.Name, "from", fio.SyntaxOf(args[0]), "to", fio.SyntaxOf(args[1]))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", fio.SyntaxJSON, "output syntax when writing to stdout: json, toml or hcl")
	_ = cmd.RegisterFlagCompletionFunc("to", cobra.FixedCompletions(
		[]string{fio.SyntaxJSON, fio.SyntaxTOML, fio.SyntaxHCL}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
