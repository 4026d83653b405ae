package schema

import "time"

// ResultRow represents a row from the mindscore_results table.
type ResultRow struct {
	ID                     string
	UserID                 string
	InstrumentKey          string
	CompletedAt            time.Time
	RawScore               float64
	MaxScore               float64
	NormalizedScore        float64
	Interpretation         string
	CategoryNormalizedJSON string
	IsLatest               bool
	RecordedAt             time.Time
}

// HistoryQuery filters stored results. Empty fields match everything.
type HistoryQuery struct {
	UserID        string
	InstrumentKey string
	Limit         int
}
