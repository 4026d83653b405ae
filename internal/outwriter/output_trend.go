package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteTrendResult outputs a trend summary, dispatching based on the output format configured.
func WriteTrendResult(trend schema.TrendSummary, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, trend)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendCSV(w, []schema.TrendSummary{trend}, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendTable(w, trend, cfg, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

// writeTrendTable prints the trend and, when present, the subscale changes.
func writeTrendTable(w io.Writer, trend schema.TrendSummary, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Instrument", "Latest", "Previous", "Change", "Direction", "Risk", "Taken"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var previous *float64
	if trend.Previous != nil {
		v := trend.Previous.Score()
		previous = &v
	}
	row := []string{
		trend.Type,
		fmtFloat(trend.Latest.Score()),
		formatOptional(previous, fmtFloat),
		formatSigned(trend.Change, fmtFloat),
		contract.DirectionSymbol(trend.Direction, cfg.UseEmojis),
		contract.GetColorLabel(trend.Risk),
		fmt.Sprintf("%d", trend.Administrations),
	}
	if err := table.Bulk([][]string{row}); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if trend.BaselineChange != nil && trend.Administrations > 2 {
		if _, err := fmt.Fprintf(w, "Change since first administration: %s\n", formatSigned(trend.BaselineChange, fmtFloat)); err != nil {
			return err
		}
	}

	categories := sortedChangeKeys(trend.CategoryChanges)
	if len(categories) == 0 {
		return nil
	}
	sub := tablewriter.NewWriter(w)
	sub.Header([]string{"Category", "Change"})
	sub.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, c := range categories {
		v := trend.CategoryChanges[c]
		data = append(data, []string{schema.CategoryDisplayName(c), formatSigned(&v, fmtFloat)})
	}
	if err := sub.Bulk(data); err != nil {
		return err
	}
	return sub.Render()
}

// writeTrendCSV writes one row per trend.
func writeTrendCSV(w io.Writer, trends []schema.TrendSummary, fmtFloat func(float64) string) error {
	header := []string{"instrument", "latest", "latest_completed_at", "previous", "change", "direction", "risk", "administrations", "baseline_change"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, t := range trends {
			previous := ""
			if t.Previous != nil {
				previous = fmtFloat(t.Previous.Score())
			}
			direction := ""
			if t.Direction != nil {
				direction = string(*t.Direction)
			}
			if err := cw.Write([]string{
				t.Type,
				fmtFloat(t.Latest.Score()),
				t.Latest.CompletedAt.Format(contract.DateTimeFormat),
				previous,
				csvOptional(t.Change, fmtFloat),
				direction,
				string(t.Risk),
				fmt.Sprintf("%d", t.Administrations),
				csvOptional(t.BaselineChange, fmtFloat),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// csvOptional renders an optional float as an empty cell when absent.
func csvOptional(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return ""
	}
	return fmtFloat(*v)
}

// sortedChangeKeys orders categories by the size of their change, then by name.
func sortedChangeKeys(changes map[schema.Category]float64) []schema.Category {
	keys := make([]schema.Category, 0, len(changes))
	for c := range changes {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		ai, aj := math.Abs(changes[keys[i]]), math.Abs(changes[keys[j]])
		if ai != aj {
			return ai > aj
		}
		return keys[i] < keys[j]
	})
	return keys
}
