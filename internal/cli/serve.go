package cli

import (
	"github.com/spf13/cobra"

	"github.com/structasic/fabgen/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		maxBody int64
		flags   cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve fabric generation over HTTP",
		Long: `Serve starts an HTTP server with two routes:

  GET  /healthz       liveness and version
  POST /v1/generate   generate a fabric from inline documents

Rendered artifacts are cached in the file cache, or in Redis with --cache-url,
so that identical requests are answered without rendering again.`,
		Example: `  fabgen serve --addr :8080
  fabgen serve --cache-url redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newCache(ctx, flags)
			if err != nil {
				return err
			}
			srv := server.New(server.Config{
				Cache:        store,
				Logger:       c.Logger,
				MaxBodyBytes: maxBody,
			})
			defer srv.Close()
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	flags.register(cmd)

	return cmd
}
