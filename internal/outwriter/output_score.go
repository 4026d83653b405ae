package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ScoreOutput is what a score command prints: the summary plus the stored
// record id when the result was recorded.
type ScoreOutput struct {
	RecordID    string              `json:"recordId,omitempty"`
	UserID      string              `json:"userId,omitempty"`
	CompletedAt string              `json:"completedAt,omitempty"`
	Summary     schema.ScoreSummary `json:"summary"`
}

// WriteScoreResult outputs a score summary, dispatching based on the output format configured.
func WriteScoreResult(def *schema.AssessmentDefinition, out ScoreOutput, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, out)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreCSV(w, def, out.Summary, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreTable(w, def, out, cfg, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

// writeScoreTable prints one row per category followed by the overall result.
func writeScoreTable(w io.Writer, def *schema.AssessmentDefinition, out ScoreOutput, cfg *contract.Config, fmtFloat func(float64) string) error {
	s := out.Summary
	if _, err := fmt.Fprintf(w, "%s (%s)\n", def.Name, def.Key); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Raw", "Max", "Score", "Interpretation"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	maxText := getMaxTextWidth(cfg, 45)
	var data [][]string
	for _, c := range s.SortedCategories(def.Categories) {
		data = append(data, []string{
			schema.CategoryDisplayName(c),
			fmtFloat(s.CategoryRaw[c]),
			fmtFloat(float64(def.CategoryQuestionCount(c)) * def.MaxPerQuestion),
			fmtFloat(s.CategoryNormalized[c]),
			contract.TruncateText(s.CategoryInterpretations[c], maxText),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	label := contract.GetSeverityColor(s.Interpretation, s.Severity, len(def.Bands))
	if _, err := fmt.Fprintf(w, "Overall: %s / %s raw, %s normalized. %s\n",
		fmtFloat(s.RawScore), fmtFloat(s.MaxScore), fmtFloat(s.NormalizedScoreRounded), label); err != nil {
		return err
	}
	if out.RecordID != "" {
		if _, err := fmt.Fprintf(w, "Recorded as %s for user %s\n", out.RecordID, out.UserID); err != nil {
			return err
		}
	}
	return nil
}

// writeScoreCSV writes the overall row first and then one row per category.
func writeScoreCSV(w io.Writer, def *schema.AssessmentDefinition, s schema.ScoreSummary, fmtFloat func(float64) string) error {
	header := []string{"instrument", "scope", "raw", "max", "normalized", "interpretation"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		if err := cw.Write([]string{
			s.InstrumentKey,
			"overall",
			fmtFloat(s.RawScore),
			fmtFloat(s.MaxScore),
			fmtFloat(s.NormalizedScore),
			s.Interpretation,
		}); err != nil {
			return err
		}
		for _, c := range s.SortedCategories(def.Categories) {
			if err := cw.Write([]string{
				s.InstrumentKey,
				string(c),
				fmtFloat(s.CategoryRaw[c]),
				fmtFloat(float64(def.CategoryQuestionCount(c)) * def.MaxPerQuestion),
				fmtFloat(s.CategoryNormalized[c]),
				s.CategoryInterpretations[c],
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
