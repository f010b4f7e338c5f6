package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/lennartvogel/foldview/internal/server"
)

// serveCommand creates the serve command running the sidecar HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sidecar HTTP server for editor front ends",
		Long: `Run the sidecar HTTP server for editor front ends.

An editor posts its diagram model once to /models, then streams viewport
changes to /models/{id}/viewport and drag releases to /models/{id}/moves.
Responses carry the region expansion states and the constraint actions to
forward to the layout server.

Constraints are persisted through the store configured in the config file,
so pins survive server restarts when a durable backend is selected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8460\")")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = c.Config.Server.Addr
	}

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	if st != nil {
		defer func() {
			if err := st.Close(); err != nil {
				c.Logger.Warn("close store", "err", err)
			}
		}()
	}

	srv := server.New(server.Config{
		Addr:     addr,
		Defaults: c.pipelineOptions(),
	}, st, c.Logger)

	return srv.ListenAndServe(ctx)
}
