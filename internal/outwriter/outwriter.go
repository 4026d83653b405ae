// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteScore prints a score summary using the configured output format.
func (ow *OutWriter) WriteScore(def *schema.AssessmentDefinition, out ScoreOutput, cfg *contract.Config) error {
	return WriteScoreResult(def, out, cfg)
}

// WriteTrend prints a trend summary using the configured output format.
func (ow *OutWriter) WriteTrend(trend schema.TrendSummary, cfg *contract.Config) error {
	return WriteTrendResult(trend, cfg)
}

// WriteInsight prints a wellness insight using the configured output format.
func (ow *OutWriter) WriteInsight(insight schema.WellnessInsight, cfg *contract.Config) error {
	return WriteInsightResult(insight, cfg)
}

// WriteInstruments prints the registry using the configured output format.
func (ow *OutWriter) WriteInstruments(defs []*schema.AssessmentDefinition, cfg *contract.Config) error {
	return WriteInstruments(defs, cfg)
}

// WriteInstrument prints one definition using the configured output format.
func (ow *OutWriter) WriteInstrument(def *schema.AssessmentDefinition, cfg *contract.Config) error {
	return WriteInstrument(def, cfg)
}

// WriteHistory prints stored results using the configured output format.
func (ow *OutWriter) WriteHistory(rows []schema.ResultRow, cfg *contract.Config) error {
	return WriteHistory(rows, cfg)
}

// WriteStatus prints the history store status.
func (ow *OutWriter) WriteStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	return WriteHistoryStatus(status, cfg)
}
