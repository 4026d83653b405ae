package schema

import "time"

// ScoreRequest asks for one response set to be scored.
type ScoreRequest struct {
	InstrumentKey string         `json:"instrumentKey" yaml:"instrumentKey"`
	Responses     map[string]any `json:"responses" yaml:"responses"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

// TrendPoint is one past administration given by its normalized score.
type TrendPoint struct {
	Score       float64   `json:"score" yaml:"score"`
	CompletedAt time.Time `json:"completedAt" yaml:"completedAt"`
}

// TrendRequest asks for the trend of one instrument over an oldest-first history.
type TrendRequest struct {
	InstrumentKey string       `json:"instrumentKey" yaml:"instrumentKey"`
	History       []TrendPoint `json:"history" yaml:"history"`
}

// InsightRequest asks for a cross-instrument summary.
type InsightRequest struct {
	HistoriesByInstrument map[string][]TrendPoint `json:"historiesByInstrument" yaml:"historiesByInstrument"`
}

// ErrorResponse is the body returned by the HTTP and MCP adapters on failure.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	IDs     []string `json:"ids,omitempty"`
}

// ToRecords converts trend points into history records for the given instrument.
func ToRecords(key string, points []TrendPoint) []HistoryRecord {
	records := make([]HistoryRecord, len(points))
	for i, p := range points {
		records[i] = HistoryRecord{
			InstrumentKey: key,
			CompletedAt:   p.CompletedAt,
			Summary: ScoreSummary{
				InstrumentKey:   key,
				NormalizedScore: p.Score,
			},
		}
	}
	return records
}

// ToHistories converts an insight request into per-instrument history records.
func (r InsightRequest) ToHistories() map[string][]HistoryRecord {
	out := make(map[string][]HistoryRecord, len(r.HistoriesByInstrument))
	for key, points := range r.HistoriesByInstrument {
		out[key] = ToRecords(key, points)
	}
	return out
}
