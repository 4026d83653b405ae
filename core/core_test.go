package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/mindscore/schema"
	"github.com/stretchr/testify/require"
)

var reverseItems = map[int]bool{5: true, 10: true, 15: true, 20: true}

// anxietyDefinition is a 20 question, 0-4 scale instrument with 4 reverse-scored items.
func anxietyDefinition() schema.AssessmentDefinition {
	categories := []schema.Category{"cognitive", "physical", "behavioral"}
	def := schema.AssessmentDefinition{
		Key:            "anxiety_assessment",
		Name:           "Anxiety",
		MaxPerQuestion: 4,
		Categories:     categories,
		Bands: []schema.Band{
			{Max: schema.Float(20), Label: "Minimal anxiety"},
			{Max: schema.Float(40), Label: "Mild anxiety"},
			{Max: schema.Float(60), Label: "Moderate anxiety"},
			{Label: "Severe anxiety"},
		},
	}
	for i := 1; i <= 20; i++ {
		var c schema.Category
		switch {
		case i <= 7:
			c = categories[0]
		case i <= 14:
			c = categories[1]
		default:
			c = categories[2]
		}
		def.Questions = append(def.Questions, schema.QuestionSpec{
			ID:       fmt.Sprintf("q%d", i),
			Index:    i,
			Category: c,
			Reverse:  reverseItems[i],
		})
	}
	return def
}

// wellbeingDefinition is a small wellbeing-polarity instrument.
func wellbeingDefinition() schema.AssessmentDefinition {
	return schema.AssessmentDefinition{
		Key:            "wellbeing",
		Name:           "Wellbeing",
		Polarity:       schema.WellbeingPolarity,
		MaxPerQuestion: 4,
		Categories:     []schema.Category{"feeling"},
		Questions: []schema.QuestionSpec{
			{ID: "q1", Index: 1, Category: "feeling"},
			{ID: "q2", Index: 2, Category: "feeling"},
		},
		Bands: []schema.Band{{Max: schema.Float(4), Label: "Low"}, {Label: "High"}},
	}
}

// uniformResponses answers every item with v, and reverse items with rev.
func uniformResponses(def schema.AssessmentDefinition, v, rev any) map[string]any {
	out := make(map[string]any, len(def.Questions))
	for _, q := range def.Questions {
		if q.Reverse {
			out[q.ID] = rev
		} else {
			out[q.ID] = v
		}
	}
	return out
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	reg, err := NewRegistry(anxietyDefinition(), wellbeingDefinition())
	require.NoError(t, err)
	return NewEngine(reg, opts...)
}

// record builds a history record with only a normalized score.
func record(key string, score float64, day int) schema.HistoryRecord {
	return schema.HistoryRecord{
		InstrumentKey: key,
		CompletedAt:   time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Summary:       schema.ScoreSummary{InstrumentKey: key, NormalizedScore: score},
	}
}

func history(key string, scores ...float64) []schema.HistoryRecord {
	out := make([]schema.HistoryRecord, len(scores))
	for i, s := range scores {
		out[i] = record(key, s, i+1)
	}
	return out
}
