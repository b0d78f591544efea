package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/latticeviz/internal/server"
	"github.com/matzehuels/latticeviz/pkg/cache"
	"github.com/matzehuels/latticeviz/pkg/pipeline"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis pipeline over HTTP",
		Long: `Serve exposes the pipeline as a JSON API:

  POST /v1/analyze   analyze the dataset in the request body
  POST /v1/path      shortest path between two concepts
  POST /v1/filter    recolor concepts by object and attribute tokens
  GET  /healthz      liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			// Requests overlay their own options, so validate a copy.
			check := cfg.Analysis
			if err := check.ValidateAndSetDefaults(); err != nil {
				return err
			}

			cc, err := newCache(ctx, cfg.Cache, c.Logger)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, "api:"), c.Logger)
			defer runner.Close()

			srv := server.New(runner, cfg.Analysis, cfg.Server, c.Logger)
			err = srv.ListenAndServe(ctx, cfg.Server.Addr)
			if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
				c.Logger.Info("server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", pipeline.DefaultServerAddr, "listen address")
	return cmd
}
