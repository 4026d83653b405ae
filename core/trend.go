package core

import (
	"github.com/huangsam/mindscore/schema"
)

// ComputeTrend compares the two most recent records of an oldest-first history.
//
// Unknown instrument keys are not an error here: the distress polarity and the
// default risk thresholds apply. The engine trusts the caller's ordering and
// never reads the clock.
func (e *Engine) ComputeTrend(key string, history []schema.HistoryRecord) (schema.TrendSummary, error) {
	n := len(history)
	if n == 0 {
		return schema.TrendSummary{}, &schema.InsufficientHistoryError{InstrumentKey: key}
	}

	latest := history[n-1]
	trend := schema.TrendSummary{
		Type:            key,
		Latest:          latest,
		Risk:            classifyRisk(distressScore(latest.Score(), e.polarityFor(key)), e.riskFor(key)),
		Administrations: n,
	}

	if n < 2 {
		return trend, nil
	}

	previous := history[n-2]
	change := round2(latest.Score() - previous.Score())
	direction := directionOf(change)
	trend.Previous = &previous
	trend.Change = &change
	trend.Direction = &direction

	baseline := round2(latest.Score() - history[0].Score())
	trend.BaselineChange = &baseline
	trend.CategoryChanges = categoryChangeMap(CompareCategories(previous.Summary, latest.Summary))

	return trend, nil
}

// directionOf maps the sign of a change to a direction.
func directionOf(change float64) schema.Direction {
	switch {
	case change > 0:
		return schema.DirectionUp
	case change < 0:
		return schema.DirectionDown
	default:
		return schema.DirectionSame
	}
}

// distressScore orients a normalized score so that higher always means more distress.
func distressScore(normalized float64, p schema.Polarity) float64 {
	if p == schema.WellbeingPolarity {
		return 100 - normalized
	}
	return normalized
}

// wellbeingScore orients a normalized score so that higher always means better.
func wellbeingScore(normalized float64, p schema.Polarity) float64 {
	return 100 - distressScore(normalized, p)
}

// classifyRisk buckets a distress-oriented score.
func classifyRisk(score float64, t schema.RiskThresholds) schema.RiskLevel {
	switch {
	case score >= t.High:
		return schema.RiskHigh
	case score >= t.Moderate:
		return schema.RiskModerate
	default:
		return schema.RiskLow
	}
}
