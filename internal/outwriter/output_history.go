package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// historyRowJSON is the JSON shape of a stored result.
type historyRowJSON struct {
	ID                 string         `json:"id"`
	UserID             string         `json:"userId"`
	InstrumentKey      string         `json:"instrumentKey"`
	CompletedAt        string         `json:"completedAt"`
	RawScore           float64        `json:"rawScore"`
	MaxScore           float64        `json:"maxScore"`
	NormalizedScore    float64        `json:"normalizedScore"`
	Interpretation     string         `json:"interpretation"`
	CategoryNormalized jsonRawOrEmpty `json:"categoryNormalized"`
	IsLatest           bool           `json:"isLatest"`
	RecordedAt         string         `json:"recordedAt"`
}

// jsonRawOrEmpty embeds stored category JSON verbatim.
type jsonRawOrEmpty string

// MarshalJSON implements json.Marshaler.
func (j jsonRawOrEmpty) MarshalJSON() ([]byte, error) {
	if j == "" {
		return []byte("{}"), nil
	}
	return []byte(j), nil
}

// WriteHistory outputs stored results, dispatching based on the output format configured.
func WriteHistory(rows []schema.ResultRow, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			out := make([]historyRowJSON, len(rows))
			for i, r := range rows {
				out[i] = historyRowJSON{
					ID:                 r.ID,
					UserID:             r.UserID,
					InstrumentKey:      r.InstrumentKey,
					CompletedAt:        r.CompletedAt.Format(contract.DateTimeFormat),
					RawScore:           r.RawScore,
					MaxScore:           r.MaxScore,
					NormalizedScore:    r.NormalizedScore,
					Interpretation:     r.Interpretation,
					CategoryNormalized: jsonRawOrEmpty(r.CategoryNormalizedJSON),
					IsLatest:           r.IsLatest,
					RecordedAt:         r.RecordedAt.Format(contract.DateTimeFormat),
				}
			}
			return writeJSON(w, out)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, rows, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, rows, cfg, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

func writeHistoryTable(w io.Writer, rows []schema.ResultRow, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Completed", "User", "Instrument", "Score", "Interpretation", "Latest"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	maxText := getMaxTextWidth(cfg, 75)
	var data [][]string
	for _, r := range rows {
		latest := ""
		if r.IsLatest {
			latest = "*"
		}
		data = append(data, []string{
			r.CompletedAt.Format(contract.DateTimeFormat),
			r.UserID,
			r.InstrumentKey,
			fmtFloat(r.NormalizedScore),
			contract.TruncateText(r.Interpretation, maxText),
			latest,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d stored results\n", len(rows))
	return err
}

func writeHistoryCSV(w io.Writer, rows []schema.ResultRow, fmtFloat func(float64) string) error {
	header := []string{"id", "user_id", "instrument", "completed_at", "raw", "max", "normalized", "interpretation", "is_latest"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write([]string{
				r.ID,
				r.UserID,
				r.InstrumentKey,
				r.CompletedAt.Format(contract.DateTimeFormat),
				fmtFloat(r.RawScore),
				fmtFloat(r.MaxScore),
				fmtFloat(r.NormalizedScore),
				r.Interpretation,
				strconv.FormatBool(r.IsLatest),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteHistoryStatus outputs the status of the history store.
func WriteHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeStatusText(w, status)
	}, "Wrote status")
}

func writeStatusText(w io.Writer, status schema.HistoryStatus) error {
	lines := []string{
		fmt.Sprintf("History Backend: %s", status.Backend),
		fmt.Sprintf("Connected: %t", status.Connected),
	}
	if status.Connected {
		lines = append(lines,
			fmt.Sprintf("Schema Version: %d", status.SchemaVersion),
			fmt.Sprintf("Total Results: %d", status.TotalResults),
			fmt.Sprintf("Total Users: %d", status.TotalUsers),
		)
		if status.TotalResults > 0 {
			lines = append(lines,
				fmt.Sprintf("Latest Result: %s", status.LatestResultTime.Format("2006-01-02 15:04:05")),
				fmt.Sprintf("Oldest Result: %s", status.OldestResultTime.Format("2006-01-02 15:04:05")),
				"Results by Instrument:",
			)
			keys := make([]string, 0, len(status.ByInstrument))
			for k := range status.ByInstrument {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				lines = append(lines, fmt.Sprintf("  %s: %d", k, status.ByInstrument[k]))
			}
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
