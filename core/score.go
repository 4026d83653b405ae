package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/mindscore/schema"
)

// Score turns a response set into a ScoreSummary using the clamp policy.
// It is pure: identical inputs always give identical summaries.
func Score(def *schema.AssessmentDefinition, responses map[string]any) (schema.ScoreSummary, error) {
	return scoreWithPolicy(def, responses, schema.ClampPolicy)
}

// scoreWithPolicy validates, coerces, reverse-scores and accumulates the answers.
//
// Under the clamp policy non-numeric answers count as 0 and numbers are clamped
// into [0, maxPerQuestion]. Under the reject policy both cases fail, and so do
// response keys that the definition does not declare.
func scoreWithPolicy(def *schema.AssessmentDefinition, responses map[string]any, policy schema.AnswerPolicy) (schema.ScoreSummary, error) {
	if err := Validate(def, responses); err != nil {
		return schema.ScoreSummary{}, err
	}
	if policy == schema.RejectPolicy {
		if err := validateKnown(def, responses); err != nil {
			return schema.ScoreSummary{}, err
		}
		if err := validateValues(def, responses); err != nil {
			return schema.ScoreSummary{}, err
		}
	}

	maxPer := def.MaxPerQuestion
	categoryTotals := make(map[schema.Category]float64, len(def.Categories))
	for _, c := range def.Categories {
		categoryTotals[c] = 0
	}

	for _, q := range def.Questions {
		categoryTotals[q.Category] += questionContribution(q, responses[q.ID], maxPer)
	}

	// The raw score is the sum of the rounded category totals, so the
	// category breakdown always partitions it exactly.
	categoryRaw := make(map[schema.Category]float64, len(def.Categories))
	var total float64
	for _, c := range def.Categories {
		categoryRaw[c] = round1(categoryTotals[c])
		total += categoryRaw[c]
	}

	maxScore := def.MaxScore()
	raw := round1(total)
	normalized := 0.0
	if maxScore > 0 {
		normalized = round2(raw / maxScore * 100)
	}

	summary := schema.ScoreSummary{
		InstrumentKey:           def.Key,
		RawScore:                raw,
		MaxScore:                maxScore,
		NormalizedScore:         normalized,
		NormalizedScoreRounded:  round1(normalized),
		Interpretation:          InterpretOverall(def, raw),
		Severity:                Severity(def, raw),
		CategoryRaw:             categoryRaw,
		CategoryNormalized:      make(map[schema.Category]float64, len(def.Categories)),
		CategoryInterpretations: make(map[schema.Category]string, len(def.Categories)),
	}

	for _, c := range def.Categories {
		catRaw := categoryTotals[c]
		catMax := float64(def.CategoryQuestionCount(c)) * maxPer
		catNorm := 0.0
		if catMax > 0 {
			catNorm = round1(catRaw / catMax * 100)
		}
		summary.CategoryNormalized[c] = catNorm
		summary.CategoryInterpretations[c] = InterpretCategory(def, c, catNorm)
	}

	return summary, nil
}

// questionContribution coerces, clamps and optionally reverses one answer.
func questionContribution(q schema.QuestionSpec, answer any, maxPer float64) float64 {
	v, ok := coerce(answer)
	if !ok {
		v = 0
	}
	v = clamp(v, 0, maxPer)
	if q.Reverse {
		return maxPer - v
	}
	return v
}

// coerce converts a raw answer to a number. The boolean reports whether the
// answer was numeric; NaN and infinities are not.
func coerce(answer any) (float64, bool) {
	var v float64
	switch a := answer.(type) {
	case float64:
		v = a
	case float32:
		v = float64(a)
	case int:
		v = float64(a)
	case int8:
		v = float64(a)
	case int16:
		v = float64(a)
	case int32:
		v = float64(a)
	case int64:
		v = float64(a)
	case uint:
		v = float64(a)
	case uint8:
		v = float64(a)
	case uint16:
		v = float64(a)
	case uint32:
		v = float64(a)
	case uint64:
		v = float64(a)
	case json.Number:
		f, err := a.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func round1(v float64) float64 { return roundTo(v, 1) }

func round2(v float64) float64 { return roundTo(v, 2) }
