package schema

import "time"

// HistoryRecord is a scored administration with its completion time.
// The storage side owns persistence; the engine reads records by value.
type HistoryRecord struct {
	ID            string       `json:"id,omitempty"`
	UserID        string       `json:"userId,omitempty"`
	InstrumentKey string       `json:"instrumentKey"`
	CompletedAt   time.Time    `json:"completedAt"`
	Summary       ScoreSummary `json:"summary"`
}

// Score returns the normalized score of the record.
func (r HistoryRecord) Score() float64 {
	return r.Summary.NormalizedScore
}

// TrendSummary compares the two most recent administrations of one instrument.
type TrendSummary struct {
	Type            string               `json:"type"`
	Latest          HistoryRecord        `json:"latest"`
	Previous        *HistoryRecord       `json:"previous,omitempty"`
	Change          *float64             `json:"change,omitempty"`
	Direction       *Direction           `json:"direction,omitempty"`
	Risk            RiskLevel            `json:"risk"`
	Administrations int                  `json:"administrations"`
	BaselineChange  *float64             `json:"baselineChange,omitempty"`
	CategoryChanges map[Category]float64 `json:"categoryChanges,omitempty"`
}

// WellnessInsight combines the trends of every instrument a user has taken.
type WellnessInsight struct {
	ByType          map[string]TrendSummary `json:"byType"`
	CompositeScore  *float64                `json:"compositeScore"`
	CompositeChange *float64                `json:"compositeChange,omitempty"`
	Trajectory      Trajectory              `json:"trajectory,omitempty"`
	Ranked          []string                `json:"ranked"`
	Skipped         []string                `json:"skipped,omitempty"`
}

// CompositeConfig controls how the composite wellness score is built.
// Polarity overrides the definition polarity per instrument key.
// Weights default to 1; a zero weight excludes the instrument.
type CompositeConfig struct {
	Polarity map[string]Polarity `json:"polarity,omitempty" mapstructure:"polarity"`
	Weights  map[string]float64  `json:"weights,omitempty" mapstructure:"weights"`
}

// Weight returns the configured weight for the key, defaulting to 1.
func (c CompositeConfig) Weight(key string) float64 {
	if w, ok := c.Weights[key]; ok {
		return w
	}
	return 1
}

// CategoryDelta is the change of one subscale between two administrations.
type CategoryDelta struct {
	Category Category `json:"category"`
	Before   float64  `json:"before"`
	After    float64  `json:"after"`
	Delta    float64  `json:"delta"`
}
