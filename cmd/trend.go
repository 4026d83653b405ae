package cmd

import (
	"errors"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/internal/outwriter"
	"github.com/huangsam/mindscore/internal/service"
	"github.com/huangsam/mindscore/schema"
	"github.com/spf13/cobra"
)

// trendCmd compares the two most recent administrations of one instrument.
var trendCmd = &cobra.Command{
	Use:   "trend [request-file]",
	Short: "Show the trend of one instrument over time",
	Long: `Compare the latest administration of an instrument with the previous one.

Reads an oldest-first history from a request file (JSON or YAML with
instrumentKey and history), or from the history store with --user and
--instrument.

Shows:
- Latest and previous normalized scores
- Change and direction
- Risk level of the latest score
- Change since the first administration
- Per-subscale changes when stored results carry them

Examples:
  # Trend from a file
  mindscore trend gad7-history.json

  # Trend from stored results
  mindscore trend --user alice --instrument anxiety_gad7`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		var (
			trend schema.TrendSummary
			err   error
		)
		switch {
		case len(args) == 1:
			data, readErr := contract.ReadRequestFile(args[0])
			if readErr != nil {
				contract.LogFatal("Failed to read request", readErr)
			}
			req, decodeErr := contract.DecodeTrendRequest(data)
			if decodeErr != nil {
				contract.LogFatal("Invalid trend request", decodeErr)
			}
			trend, err = service.Trend(engine, req)
		case cfg.UserID != "" && cfg.InstrumentKey != "":
			if initErr := initHistory(); initErr != nil {
				contract.LogFatal("Failed to open history", initErr)
			}
			trend, err = service.StoredTrend(rootCtx, engine, storeManager, cfg.UserID, cfg.InstrumentKey, cfg.Limit)
		default:
			contract.LogFatal("Nothing to compute", errors.New("pass a request file or both --user and --instrument"))
		}

		var insufficient *schema.InsufficientHistoryError
		if errors.As(err, &insufficient) {
			contract.LogWarn("No trend yet", err)
			return
		}
		if err != nil {
			contract.LogFatal("Failed to compute trend", err)
		}
		if err := outwriter.NewOutWriter().WriteTrend(trend, cfg); err != nil {
			contract.LogFatal("Failed to write trend", err)
		}
	},
}
