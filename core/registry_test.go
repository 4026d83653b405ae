package core

import (
	"errors"
	"testing"

	"github.com/huangsam/mindscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	reg, err := NewRegistry(wellbeingDefinition(), anxietyDefinition())
	require.NoError(t, err)

	assert.Equal(t, []string{"anxiety_assessment", "wellbeing"}, reg.Keys())
	assert.Equal(t, 2, reg.Len())

	def, err := reg.Get("anxiety_assessment")
	require.NoError(t, err)
	assert.Len(t, def.Questions, 20)

	defs := reg.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "anxiety_assessment", defs[0].Key)

	_, err = reg.Get("missing")
	var unknown *schema.UnknownInstrumentError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Key)
}

func TestRegistryKeysIsACopy(t *testing.T) {
	reg, err := NewRegistry(anxietyDefinition())
	require.NoError(t, err)

	keys := reg.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"anxiety_assessment"}, reg.Keys())
}

func TestNilRegistryGet(t *testing.T) {
	var reg *Registry
	_, err := reg.Get("x")
	var unknown *schema.UnknownInstrumentError
	assert.True(t, errors.As(err, &unknown))
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(anxietyDefinition(), anxietyDefinition())
	var defErr *schema.DefinitionError
	require.True(t, errors.As(err, &defErr))
	assert.Contains(t, defErr.Reason, "duplicate")
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *schema.AssessmentDefinition)
		reason string
	}{
		{"valid", func(_ *schema.AssessmentDefinition) {}, ""},
		{"empty key", func(d *schema.AssessmentDefinition) { d.Key = "" }, "key is required"},
		{"zero scale", func(d *schema.AssessmentDefinition) { d.MaxPerQuestion = 0 }, "max per question"},
		{"no questions", func(d *schema.AssessmentDefinition) { d.Questions = nil }, "at least one question"},
		{"no categories", func(d *schema.AssessmentDefinition) { d.Categories = nil }, "at least one category"},
		{"bad polarity", func(d *schema.AssessmentDefinition) { d.Polarity = "sideways" }, "unknown polarity"},
		{"duplicate id", func(d *schema.AssessmentDefinition) { d.Questions[1].ID = "q1" }, "duplicate question id q1"},
		{"empty id", func(d *schema.AssessmentDefinition) { d.Questions[0].ID = "" }, "has no id"},
		{"undeclared category", func(d *schema.AssessmentDefinition) { d.Questions[0].Category = "social" }, "undeclared category"},
		{"no bands", func(d *schema.AssessmentDefinition) { d.Bands = nil }, "at least one band"},
		{"bounded last band", func(d *schema.AssessmentDefinition) {
			d.Bands[len(d.Bands)-1].Max = schema.Float(80)
		}, "last band"},
		{"missing middle bound", func(d *schema.AssessmentDefinition) { d.Bands[1].Max = nil }, "only the last band"},
		{"descending bands", func(d *schema.AssessmentDefinition) { d.Bands[1].Max = schema.Float(10) }, "not ascending"},
		{"empty label", func(d *schema.AssessmentDefinition) { d.Bands[0].Label = "" }, "no label"},
		{"bad category bands", func(d *schema.AssessmentDefinition) {
			d.CategoryBands = []schema.Band{{Max: schema.Float(50), Label: "low"}}
		}, "category bands"},
		{"inverted risk", func(d *schema.AssessmentDefinition) {
			d.Risk = &schema.RiskThresholds{High: 30, Moderate: 50}
		}, "risk moderate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := anxietyDefinition()
			tt.mutate(&def)
			err := ValidateDefinition(&def)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}
