package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Long: `Serve runs the HTTP API until interrupted.

Configuration is read from WORDCLOUD_* environment variables:

  WORDCLOUD_ADDR            listen address (default :8080)
  WORDCLOUD_REDIS_URL       redis URL for the shared render cache
  WORDCLOUD_MONGO_URI       MongoDB URI for the render history
  WORDCLOUD_MONGO_DATABASE  MongoDB database (default wordcloud)
  WORDCLOUD_MAX_BODY        maximum request body in bytes
  WORDCLOUD_RENDER_TIMEOUT  per-request render timeout (default 60s)
  WORDCLOUD_CACHE_ENTRIES   in-memory cache size when redis is not set
  WORDCLOUD_CACHE_SCOPE     cache key prefix for deployments sharing a redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := api.LoadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides WORDCLOUD_ADDR)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg api.Config) error {
	srv, err := api.Open(ctx, cfg, c.Logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Close(closeCtx); err != nil {
			c.Logger.Warn("close backends", "error", err)
		}
	}()

	return srv.ListenAndServe(ctx)
}
