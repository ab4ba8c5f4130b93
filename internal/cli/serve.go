package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordmosaic/internal/api"
	"github.com/matzehuels/wordmosaic/internal/config"
	"github.com/matzehuels/wordmosaic/pkg/observability"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Routes:
  POST /v1/clouds        generate a word cloud
  POST /v1/analyze       frequency table and stopword candidates
  GET  /v1/tables[/{id}] saved frequency tables (JSON, or CSV with .csv)
  GET  /v1/palettes      built-in palettes
  GET  /healthz          liveness and version

Request defaults, cache and table store come from the config file.`,
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

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			runner, err := c.newRunner(ctx, cfg, runnerOpts{noCache: noCache})
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv, err := api.New(api.Config{
				Runner:         runner,
				Store:          runner.Store,
				Logger:         c.Logger,
				Defaults:       cfg.PipelineOptions(),
				RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
				MaxBodyBytes:   int64(cfg.Server.MaxBodyMiB) << 20,
			})
			if err != nil {
				return err
			}
			printInfo("Serving on %s", StyleLink.Render("http://"+cfg.Server.Addr))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr, default "+config.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
