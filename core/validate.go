package core

import (
	"sort"

	"github.com/huangsam/mindscore/schema"
)

// Validate checks that every question of the definition has an answer.
// A nil answer counts as missing. Values are not coerced or clamped here.
func Validate(def *schema.AssessmentDefinition, responses map[string]any) error {
	var missing []string
	for _, q := range def.Questions {
		v, ok := responses[q.ID]
		if !ok || v == nil {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return &schema.MissingResponseError{InstrumentKey: def.Key, Missing: missing}
	}
	return nil
}

// validateKnown rejects response keys that the definition does not declare.
func validateKnown(def *schema.AssessmentDefinition, responses map[string]any) error {
	declared := make(map[string]struct{}, len(def.Questions))
	for _, q := range def.Questions {
		declared[q.ID] = struct{}{}
	}
	var unknown []string
	for id := range responses {
		if _, ok := declared[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &schema.UnknownQuestionError{InstrumentKey: def.Key, Unknown: unknown}
	}
	return nil
}

// validateValues rejects answers that are non-numeric or outside the scale.
func validateValues(def *schema.AssessmentDefinition, responses map[string]any) error {
	var invalid []string
	for _, q := range def.Questions {
		v, ok := coerce(responses[q.ID])
		if !ok || v < 0 || v > def.MaxPerQuestion {
			invalid = append(invalid, q.ID)
		}
	}
	if len(invalid) > 0 {
		return &schema.InvalidResponseError{InstrumentKey: def.Key, Invalid: invalid}
	}
	return nil
}
