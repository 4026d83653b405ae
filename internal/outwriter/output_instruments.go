package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteInstruments outputs the registered instruments, dispatching based on the output format configured.
func WriteInstruments(defs []*schema.AssessmentDefinition, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, defs)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInstrumentsCSV(w, defs)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInstrumentsTable(w, defs, cfg)
		}, "Wrote table")
	}
	return nil
}

func categoryList(def *schema.AssessmentDefinition, sep string) string {
	names := make([]string, len(def.Categories))
	for i, c := range def.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, sep)
}

func writeInstrumentsTable(w io.Writer, defs []*schema.AssessmentDefinition, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Key", "Name", "Items", "Scale", "Polarity", "Categories"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	maxText := getMaxTextWidth(cfg, 70)
	var data [][]string
	for _, def := range defs {
		data = append(data, []string{
			def.Key,
			def.Name,
			strconv.Itoa(len(def.Questions)),
			fmt.Sprintf("0-%g", def.MaxPerQuestion),
			string(def.EffectivePolarity()),
			contract.TruncateText(categoryList(def, ", "), maxText),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d instruments registered\n", len(defs))
	return err
}

func writeInstrumentsCSV(w io.Writer, defs []*schema.AssessmentDefinition) error {
	header := []string{"key", "name", "questions", "max_per_question", "max_score", "polarity", "categories"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, def := range defs {
			if err := cw.Write([]string{
				def.Key,
				def.Name,
				strconv.Itoa(len(def.Questions)),
				fmt.Sprintf("%g", def.MaxPerQuestion),
				fmt.Sprintf("%g", def.MaxScore()),
				string(def.EffectivePolarity()),
				categoryList(def, "|"),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteInstrument outputs one instrument with its questions and bands.
func WriteInstrument(def *schema.AssessmentDefinition, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, def)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeQuestionsCSV(w, def)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInstrumentDetail(w, def, cfg)
		}, "Wrote table")
	}
	return nil
}

// bandRange renders the raw-score range a band covers.
func bandRange(bands []schema.Band, i int) string {
	lower := "0"
	if i > 0 && bands[i-1].Max != nil {
		lower = fmt.Sprintf(">%g", *bands[i-1].Max)
	}
	if bands[i].Max == nil {
		return lower + " and above"
	}
	return fmt.Sprintf("%s to %g", lower, *bands[i].Max)
}

func writeInstrumentDetail(w io.Writer, def *schema.AssessmentDefinition, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", def.Name, def.Key); err != nil {
		return err
	}
	if def.Description != "" {
		if _, err := fmt.Fprintln(w, def.Description); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Answers 0-%g, max score %g, polarity %s\n", def.MaxPerQuestion, def.MaxScore(), def.EffectivePolarity()); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "ID", "Category", "Reverse", "Text"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})
	maxText := getMaxTextWidth(cfg, 40)
	var data [][]string
	for _, q := range def.Questions {
		reverse := ""
		if q.Reverse {
			reverse = "yes"
		}
		data = append(data, []string{
			strconv.Itoa(q.Index),
			q.ID,
			string(q.Category),
			reverse,
			contract.TruncateText(q.Text, maxText),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	bands := tablewriter.NewWriter(w)
	bands.Header([]string{"Raw score", "Interpretation"})
	var bandData [][]string
	for i, b := range def.Bands {
		bandData = append(bandData, []string{bandRange(def.Bands, i), contract.GetSeverityColor(b.Label, i, len(def.Bands))})
	}
	if err := bands.Bulk(bandData); err != nil {
		return err
	}
	return bands.Render()
}

func writeQuestionsCSV(w io.Writer, def *schema.AssessmentDefinition) error {
	header := []string{"instrument", "index", "id", "category", "reverse", "text"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, q := range def.Questions {
			if err := cw.Write([]string{
				def.Key,
				strconv.Itoa(q.Index),
				q.ID,
				string(q.Category),
				strconv.FormatBool(q.Reverse),
				q.Text,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
