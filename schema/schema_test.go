package schema

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandContains(t *testing.T) {
	tests := []struct {
		name  string
		band  Band
		value float64
		want  bool
	}{
		{"below bound", Band{Max: Float(4), Label: "minimal"}, 3, true},
		{"at bound", Band{Max: Float(4), Label: "minimal"}, 4, true},
		{"above bound", Band{Max: Float(4), Label: "minimal"}, 4.1, false},
		{"catch-all", Band{Label: "severe"}, 1e9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.band.Contains(tt.value))
		})
	}
}

func TestCategoryDisplayName(t *testing.T) {
	tests := []struct {
		in   Category
		want string
	}{
		{"cognitive", "Cognitive"},
		{"self_awareness", "Self awareness"},
		{"", ""},
		{"x", "X"},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryDisplayName(tt.in))
		})
	}
}

func TestDefinitionDefaults(t *testing.T) {
	def := &AssessmentDefinition{
		Key:            "demo",
		MaxPerQuestion: 3,
		Categories:     []Category{"a", "b"},
		Questions: []QuestionSpec{
			{ID: "q1", Category: "a"},
			{ID: "q2", Category: "a"},
			{ID: "q3", Category: "b"},
		},
	}

	assert.Equal(t, 9.0, def.MaxScore())
	assert.Equal(t, 2, def.CategoryQuestionCount("a"))
	assert.Equal(t, 0, def.CategoryQuestionCount("z"))
	assert.True(t, def.HasCategory("b"))
	assert.False(t, def.HasCategory("z"))
	assert.Equal(t, DistressPolarity, def.EffectivePolarity())
	assert.Equal(t, DefaultRiskThresholds(), def.EffectiveRisk(DefaultRiskThresholds()))
	assert.Equal(t, DefaultCategoryTemplate, def.EffectiveCategoryTemplate())
	assert.Len(t, def.EffectiveCategoryBands(), 5)

	def.Polarity = WellbeingPolarity
	def.Risk = &RiskThresholds{High: 60, Moderate: 30}
	def.CategoryTemplate = "{category}: {level}"
	assert.Equal(t, WellbeingPolarity, def.EffectivePolarity())
	assert.Equal(t, 60.0, def.EffectiveRisk(DefaultRiskThresholds()).High)
	assert.Equal(t, "{category}: {level}", def.EffectiveCategoryTemplate())
}

func TestRiskRank(t *testing.T) {
	assert.Less(t, RiskRank(RiskHigh), RiskRank(RiskModerate))
	assert.Less(t, RiskRank(RiskModerate), RiskRank(RiskLow))
	assert.Less(t, RiskRank(RiskLow), RiskRank("bogus"))
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unknown instrument", &UnknownInstrumentError{Key: "nope"}, `unknown instrument "nope"`},
		{"missing", &MissingResponseError{InstrumentKey: "gad7", Missing: []string{"q1", "q3"}}, "missing responses for gad7: q1, q3"},
		{"insufficient", &InsufficientHistoryError{InstrumentKey: "gad7"}, "insufficient history for gad7"},
		{"invalid", &InvalidResponseError{InstrumentKey: "gad7", Invalid: []string{"q2"}}, "invalid responses for gad7: q2"},
		{"unknown question", &UnknownQuestionError{InstrumentKey: "gad7", Unknown: []string{"q99"}}, "unknown questions for gad7: q99"},
		{"definition", &DefinitionError{Key: "x", Reason: "no questions"}, "invalid definition x: no questions"},
		{"definition without key", &DefinitionError{Reason: "empty key"}, "invalid definition: empty key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("scoring failed: %w", &MissingResponseError{InstrumentKey: "k", Missing: []string{"q1"}})

	var missing *MissingResponseError
	require.True(t, errors.As(wrapped, &missing))
	assert.Equal(t, []string{"q1"}, missing.Missing)

	var unknown *UnknownInstrumentError
	assert.False(t, errors.As(wrapped, &unknown))
}

func TestToHistories(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 1, 0)
	req := InsightRequest{HistoriesByInstrument: map[string][]TrendPoint{
		"anxiety_gad7": {{Score: 60, CompletedAt: t1}, {Score: 75, CompletedAt: t2}},
		"empty":        {},
	}}

	got := req.ToHistories()
	require.Len(t, got, 2)
	require.Len(t, got["anxiety_gad7"], 2)
	assert.Equal(t, 75.0, got["anxiety_gad7"][1].Score())
	assert.Equal(t, t2, got["anxiety_gad7"][1].CompletedAt)
	assert.Equal(t, "anxiety_gad7", got["anxiety_gad7"][0].Summary.InstrumentKey)
	assert.Empty(t, got["empty"])
}

func TestCompositeWeight(t *testing.T) {
	cfg := CompositeConfig{Weights: map[string]float64{"a": 2, "b": 0}}
	assert.Equal(t, 2.0, cfg.Weight("a"))
	assert.Equal(t, 0.0, cfg.Weight("b"))
	assert.Equal(t, 1.0, cfg.Weight("c"))
	assert.Equal(t, 1.0, CompositeConfig{}.Weight("c"))
}

func TestSortedCategories(t *testing.T) {
	s := ScoreSummary{CategoryNormalized: map[Category]float64{"b": 1, "a": 2}}
	assert.Equal(t, []Category{"a", "b"}, s.SortedCategories([]Category{"a", "z", "b"}))
}
