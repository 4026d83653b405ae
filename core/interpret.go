package core

import (
	"strings"

	"github.com/huangsam/mindscore/schema"
)

// InterpretOverall returns the label of the first overall band whose upper
// bound is not exceeded by the raw score.
func InterpretOverall(def *schema.AssessmentDefinition, raw float64) string {
	return bandLabel(def.Bands, raw)
}

// Severity returns the zero-based index of the overall band matched by the raw score.
func Severity(def *schema.AssessmentDefinition, raw float64) int {
	return bandIndex(def.Bands, raw)
}

// InterpretCategory renders the category sentence for a normalized subscale score,
// e.g. "Cognitive symptoms show mild activation".
func InterpretCategory(def *schema.AssessmentDefinition, category schema.Category, normalized float64) string {
	level := bandLabel(def.EffectiveCategoryBands(), normalized)
	r := strings.NewReplacer(
		"{category}", schema.CategoryDisplayName(category),
		"{level}", level,
	)
	return r.Replace(def.EffectiveCategoryTemplate())
}

func bandLabel(bands []schema.Band, v float64) string {
	idx := bandIndex(bands, v)
	if idx < 0 {
		return ""
	}
	return bands[idx].Label
}

// bandIndex falls back to the last band when nothing matches.
func bandIndex(bands []schema.Band, v float64) int {
	for i, b := range bands {
		if b.Contains(v) {
			return i
		}
	}
	return len(bands) - 1
}
