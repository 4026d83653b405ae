package core

import (
	"errors"
	"testing"

	"github.com/huangsam/mindscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMissingEachQuestion(t *testing.T) {
	defs := []schema.AssessmentDefinition{anxietyDefinition(), wellbeingDefinition()}
	for _, def := range defs {
		for _, q := range def.Questions {
			t.Run(def.Key+"/"+q.ID, func(t *testing.T) {
				responses := uniformResponses(def, 1, 1)
				delete(responses, q.ID)

				err := Validate(&def, responses)
				var missing *schema.MissingResponseError
				require.True(t, errors.As(err, &missing))
				assert.Equal(t, []string{q.ID}, missing.Missing)
				assert.Equal(t, def.Key, missing.InstrumentKey)
			})
		}
	}
}

func TestValidateListsAllMissingInOrder(t *testing.T) {
	def := anxietyDefinition()
	err := Validate(&def, map[string]any{"q2": 1, "q4": nil})

	var missing *schema.MissingResponseError
	require.True(t, errors.As(err, &missing))
	require.Len(t, missing.Missing, 19)
	assert.Equal(t, "q1", missing.Missing[0])
	assert.Equal(t, "q3", missing.Missing[1])
	assert.Equal(t, "q4", missing.Missing[2])
	assert.Equal(t, "q20", missing.Missing[18])
}

func TestValidateComplete(t *testing.T) {
	def := anxietyDefinition()
	responses := uniformResponses(def, "not a number", 99)
	responses["extra"] = 1
	assert.NoError(t, Validate(&def, responses))
}

func TestValidateKnown(t *testing.T) {
	def := wellbeingDefinition()
	err := validateKnown(&def, map[string]any{"q1": 1, "q2": 1, "zz": 1, "aa": 2})

	var unknown *schema.UnknownQuestionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []string{"aa", "zz"}, unknown.Unknown)

	assert.NoError(t, validateKnown(&def, map[string]any{"q1": 1}))
}

func TestValidateValues(t *testing.T) {
	def := wellbeingDefinition()
	err := validateValues(&def, map[string]any{"q1": 5, "q2": "abc"})

	var invalid *schema.InvalidResponseError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"q1", "q2"}, invalid.Invalid)

	assert.NoError(t, validateValues(&def, map[string]any{"q1": 0, "q2": "4"}))
}
