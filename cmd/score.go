package cmd

import (
	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/internal/outwriter"
	"github.com/huangsam/mindscore/internal/service"
	"github.com/huangsam/mindscore/schema"
	"github.com/spf13/cobra"
)

// scoreCmd scores one completed questionnaire.
var scoreCmd = &cobra.Command{
	Use:   "score <request-file>",
	Short: "Score a completed questionnaire",
	Long: `Score one response set against a registered instrument.

The request file is JSON or YAML with instrumentKey, responses and an
optional completedAt. Use "-" to read it from stdin.

Prints the raw and normalized totals, the overall interpretation and one row
per subscale. With --record the result is also stored for --user so that
later trend and insight commands can read it.

Examples:
  # Score a GAD-7 response set
  mindscore score gad7.json

  # Score and store for a user
  mindscore score gad7.yaml --record --user alice

  # Machine-readable output
  mindscore score gad7.json --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		data, err := contract.ReadRequestFile(args[0])
		if err != nil {
			contract.LogFatal("Failed to read request", err)
		}
		req, err := contract.DecodeScoreRequest(data)
		if err != nil {
			contract.LogFatal("Invalid score request", err)
		}

		var rec schema.HistoryRecord
		if cfg.Record {
			if err := initHistory(); err != nil {
				contract.LogFatal("Failed to open history", err)
			}
			rec, err = service.ScoreAndRecord(rootCtx, engine, storeManager, cfg.UserID, req)
		} else {
			rec, err = service.Score(engine, req)
		}
		if err != nil {
			contract.LogFatal("Failed to score responses", err)
		}

		def, err := engine.Registry().Get(rec.InstrumentKey)
		if err != nil {
			contract.LogFatal("Failed to load instrument", err)
		}
		out := outwriter.ScoreOutput{
			RecordID:    rec.ID,
			UserID:      rec.UserID,
			CompletedAt: rec.CompletedAt.Format(contract.DateTimeFormat),
			Summary:     rec.Summary,
		}
		if err := outwriter.NewOutWriter().WriteScore(def, out, cfg); err != nil {
			contract.LogFatal("Failed to write score", err)
		}
	},
}
