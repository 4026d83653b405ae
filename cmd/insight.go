package cmd

import (
	"errors"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/internal/outwriter"
	"github.com/huangsam/mindscore/internal/service"
	"github.com/huangsam/mindscore/schema"
	"github.com/spf13/cobra"
)

// insightCmd summarizes wellness across instruments.
var insightCmd = &cobra.Command{
	Use:   "insight [request-file]",
	Short: "Summarize wellness across all instruments",
	Long: `Build a cross-instrument wellness insight.

Reads historiesByInstrument from a request file (JSON or YAML), or every
stored history of --user from the history store.

Shows:
- One trend row per instrument, most urgent first
- The composite wellness score (0 to 100, higher is better) and its change
- Instruments skipped because they have no history

Composite polarity overrides and weights come from the composite block of the
config file.

Examples:
  # Insight from a file
  mindscore insight histories.yaml

  # Insight from stored results
  mindscore insight --user alice --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		var insight schema.WellnessInsight
		switch {
		case len(args) == 1:
			data, err := contract.ReadRequestFile(args[0])
			if err != nil {
				contract.LogFatal("Failed to read request", err)
			}
			req, err := contract.DecodeInsightRequest(data)
			if err != nil {
				contract.LogFatal("Invalid insight request", err)
			}
			insight = service.Insight(engine, req)
		case cfg.UserID != "":
			if err := initHistory(); err != nil {
				contract.LogFatal("Failed to open history", err)
			}
			stored, err := service.StoredInsight(rootCtx, engine, storeManager, cfg.UserID, cfg.Limit)
			if err != nil {
				contract.LogFatal("Failed to summarize history", err)
			}
			insight = stored
		default:
			contract.LogFatal("Nothing to summarize", errors.New("pass a request file or --user"))
		}

		if err := outwriter.NewOutWriter().WriteInsight(insight, cfg); err != nil {
			contract.LogFatal("Failed to write insight", err)
		}
	},
}
