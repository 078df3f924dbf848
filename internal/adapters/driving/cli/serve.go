package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haasp-labs/recall/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves the retrieval engine over HTTP:

  GET  /        index statistics
  POST /add     {"doc_id": ..., "content": ...}
  POST /search  {"query": ..., "k": ...}
  POST /reset   clear the index

The server stops cleanly on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ensureServices(ctx); err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	server := httpapi.New(addr, ingestService, searchService, adminService,
		httpapi.WithRateLimit(cfg.Server.RateLimit, cfg.Server.Burst))

	cmd.Printf("Listening on http://%s\n", addr)
	return server.Run(ctx)
}
