package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteInsightResult outputs a wellness insight, dispatching based on the output format configured.
func WriteInsightResult(insight schema.WellnessInsight, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, insight)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendCSV(w, orderedTrends(insight), fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightTable(w, insight, cfg, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

// orderedTrends returns the trends in ranked order, then any unranked ones by key.
func orderedTrends(insight schema.WellnessInsight) []schema.TrendSummary {
	out := make([]schema.TrendSummary, 0, len(insight.ByType))
	seen := make(map[string]bool, len(insight.Ranked))
	for _, key := range insight.Ranked {
		if t, ok := insight.ByType[key]; ok {
			out = append(out, t)
			seen[key] = true
		}
	}
	var rest []string
	for key := range insight.ByType {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		out = append(out, insight.ByType[key])
	}
	return out
}

// writeInsightTable prints the ranked instruments and the composite score.
func writeInsightTable(w io.Writer, insight schema.WellnessInsight, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Instrument", "Latest", "Change", "Direction", "Risk"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, t := range orderedTrends(insight) {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			t.Type,
			fmtFloat(t.Latest.Score()),
			formatSigned(t.Change, fmtFloat),
			contract.DirectionSymbol(t.Direction, cfg.UseEmojis),
			contract.GetColorLabel(t.Risk),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	composite := "n/a"
	if insight.CompositeScore != nil {
		composite = fmtFloat(*insight.CompositeScore)
	}
	line := fmt.Sprintf("Composite wellness: %s", composite)
	if insight.CompositeChange != nil {
		line += fmt.Sprintf(" (change %s, %s)", formatSigned(insight.CompositeChange, fmtFloat), insight.Trajectory)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if len(insight.Skipped) > 0 {
		if _, err := fmt.Fprintf(w, "Skipped without history: %s\n", strings.Join(insight.Skipped, ", ")); err != nil {
			return err
		}
	}
	return nil
}
