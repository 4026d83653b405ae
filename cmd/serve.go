package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/mindscore/internal/api"
	"github.com/huangsam/mindscore/internal/contract"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP adapter.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MindScore HTTP API",
	Long: `Serve the scoring, trend and insight operations over HTTP.

Routes:
  GET  /health
  GET  /api/v1/instruments
  GET  /api/v1/instruments/{key}
  POST /api/v1/score
  POST /api/v1/trend
  POST /api/v1/insight
  POST /api/v1/users/{userID}/results
  GET  /api/v1/users/{userID}/insight
  GET  /api/v1/users/{userID}/instruments/{key}/trend

Examples:
  mindscore serve --addr :9000
  MINDSCORE_HISTORY_BACKEND=none mindscore serve`,
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		contract.LogInfo("History backend: %s", cfg.HistoryBackend)
		return api.Serve(ctx, cfg, api.NewRouter(cfg, engine, storeManager))
	},
}
