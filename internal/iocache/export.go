package iocache

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/internal/parquet"
	"github.com/huangsam/mindscore/schema"
)

// ExportSummary reports where an export wrote its files.
type ExportSummary struct {
	Backend        string
	ResultsFile    string
	ResultCount    int
	CategoriesFile string
	CategoryCount  int
}

// ExportHistory writes the stored results matching q to Parquet files named
// after outputFile: one for results and one for flattened category scores.
func ExportHistory(ctx context.Context, store contract.HistoryStore, q schema.HistoryQuery, outputFile string) (ExportSummary, error) {
	var summary ExportSummary
	if outputFile == "" {
		return summary, errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to get history status: %w", err)
	}
	summary.Backend = status.Backend
	if status.TotalResults == 0 {
		return summary, errors.New("no stored results found to export")
	}

	rows, err := store.List(ctx, q)
	if err != nil {
		return summary, fmt.Errorf("failed to retrieve results: %w", err)
	}
	if len(rows) == 0 {
		return summary, errors.New("no stored results match the export filter")
	}

	results := parquet.ConvertResultRows(rows)
	categories, err := parquet.ConvertCategoryScores(rows)
	if err != nil {
		return summary, err
	}

	summary.ResultsFile = outputFile + ".results.parquet"
	if err := parquet.WriteResultsParquet(results, summary.ResultsFile); err != nil {
		return summary, fmt.Errorf("failed to write results: %w", err)
	}
	summary.ResultCount = len(results)

	summary.CategoriesFile = outputFile + ".category_scores.parquet"
	if err := parquet.WriteCategoryScoresParquet(categories, summary.CategoriesFile); err != nil {
		return summary, fmt.Errorf("failed to write category scores: %w", err)
	}
	summary.CategoryCount = len(categories)

	return summary, nil
}
