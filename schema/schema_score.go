package schema

import "time"

// ResponseSet is one completed administration as submitted by a caller.
// Answers are raw values keyed by question id.
type ResponseSet struct {
	InstrumentKey string         `json:"instrumentKey"`
	Responses     map[string]any `json:"responses"`
	CompletedAt   time.Time      `json:"completedAt"`
}

// ScoreSummary is the output of scoring one response set.
type ScoreSummary struct {
	InstrumentKey           string               `json:"instrumentKey"`
	RawScore                float64              `json:"rawScore"`
	MaxScore                float64              `json:"maxScore"`
	NormalizedScore         float64              `json:"normalizedScore"`        // 2 decimals
	NormalizedScoreRounded  float64              `json:"normalizedScoreRounded"` // 1 decimal, for display
	Interpretation          string               `json:"interpretation"`
	Severity                int                  `json:"severity"` // index of the matched overall band
	CategoryRaw             map[Category]float64 `json:"categoryRaw"`
	CategoryNormalized      map[Category]float64 `json:"categoryNormalized"`
	CategoryInterpretations map[Category]string  `json:"categoryInterpretations"`
}

// SortedCategories returns the categories of the summary in the given declaration order,
// skipping any that the summary does not carry.
func (s ScoreSummary) SortedCategories(declared []Category) []Category {
	out := make([]Category, 0, len(declared))
	for _, c := range declared {
		if _, ok := s.CategoryNormalized[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
