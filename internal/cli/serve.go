package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the org chart HTTP API",
		Long: `Serve starts the HTTP API. Clients upload a hierarchy payload to
POST /api/views and then toggle, fetch and render their view. Metrics are
exposed on /metrics.`,
		Example: `  orgchart serve --addr :9000
  ORGCHART_CACHE=redis ORGCHART_REDIS_URL=redis://localhost:6379/0 orgchart serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ch, err := c.openCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			srv := server.New(server.Options{Config: cfg, Cache: ch, Logger: c.Logger})
			defer srv.Close()

			out := newPrinter(cmd.OutOrStdout())
			out.info("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
			out.detail("cache: %s", cfg.Cache.Backend)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
