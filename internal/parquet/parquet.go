// Package parquet provides data structures and functions for exporting stored
// assessment results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/huangsam/mindscore/schema"
	"github.com/parquet-go/parquet-go"
)

// Result represents a single scored administration.
// This struct maps to the mindscore_results database table.
type Result struct {
	// ID is the unique identifier of the stored result
	ID string `parquet:"id,snappy"`

	// UserID identifies the person who completed the assessment
	UserID string `parquet:"user_id,snappy"`

	// InstrumentKey is the registry key of the assessment
	InstrumentKey string `parquet:"instrument_key,snappy"`

	// CompletedAt is when the assessment was completed (TIMESTAMP with nanosecond precision)
	CompletedAt time.Time `parquet:"completed_at,snappy"`

	RawScore        float64 `parquet:"raw_score,snappy"`
	MaxScore        float64 `parquet:"max_score,snappy"`
	NormalizedScore float64 `parquet:"normalized_score,snappy"`

	// Interpretation is the overall band label (nullable for legacy rows)
	Interpretation *string `parquet:"interpretation,optional,snappy"`

	// IsLatest marks the newest result per user and instrument
	IsLatest bool `parquet:"is_latest,snappy"`

	// RecordedAt is when the row was written to the store
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// CategoryScore is one subscale score of a stored result, flattened for analytics.
type CategoryScore struct {
	ResultID        string    `parquet:"result_id,snappy"`
	UserID          string    `parquet:"user_id,snappy"`
	InstrumentKey   string    `parquet:"instrument_key,snappy"`
	CompletedAt     time.Time `parquet:"completed_at,snappy"`
	Category        string    `parquet:"category,snappy"`
	NormalizedScore float64   `parquet:"normalized_score,snappy"`
}

// writeParquet writes rows of T to a new Parquet file at outputPath.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteResultsParquet writes a slice of Result structs to a Parquet file.
func WriteResultsParquet(data []Result, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteCategoryScoresParquet writes a slice of CategoryScore structs to a Parquet file.
func WriteCategoryScoresParquet(data []CategoryScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertResultRows converts schema.ResultRow to Result for Parquet export.
func ConvertResultRows(rows []schema.ResultRow) []Result {
	result := make([]Result, len(rows))
	for i, row := range rows {
		var interpretation *string
		if row.Interpretation != "" {
			v := row.Interpretation
			interpretation = &v
		}
		result[i] = Result{
			ID:              row.ID,
			UserID:          row.UserID,
			InstrumentKey:   row.InstrumentKey,
			CompletedAt:     row.CompletedAt,
			RawScore:        row.RawScore,
			MaxScore:        row.MaxScore,
			NormalizedScore: row.NormalizedScore,
			Interpretation:  interpretation,
			IsLatest:        row.IsLatest,
			RecordedAt:      row.RecordedAt,
		}
	}
	return result
}

// ConvertCategoryScores flattens the category JSON of each row into one
// CategoryScore per subscale, ordered by category name within a row.
func ConvertCategoryScores(rows []schema.ResultRow) ([]CategoryScore, error) {
	var result []CategoryScore
	for _, row := range rows {
		if row.CategoryNormalizedJSON == "" {
			continue
		}
		var scores map[string]float64
		if err := json.Unmarshal([]byte(row.CategoryNormalizedJSON), &scores); err != nil {
			return nil, fmt.Errorf("failed to decode category scores of result %s: %w", row.ID, err)
		}
		categories := make([]string, 0, len(scores))
		for c := range scores {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			result = append(result, CategoryScore{
				ResultID:        row.ID,
				UserID:          row.UserID,
				InstrumentKey:   row.InstrumentKey,
				CompletedAt:     row.CompletedAt,
				Category:        c,
				NormalizedScore: scores[c],
			})
		}
	}
	return result, nil
}
