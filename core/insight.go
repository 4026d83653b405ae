package core

import (
	"sort"

	"github.com/huangsam/mindscore/core/algo"
	"github.com/huangsam/mindscore/schema"
)

// Trajectory bounds for the composite change.
const (
	improvingThreshold = 0.5
	decliningThreshold = -0.5
)

// Summarize builds a cross-instrument insight from per-instrument histories.
// Empty histories are skipped and listed rather than failing the call.
func (e *Engine) Summarize(histories map[string][]schema.HistoryRecord) schema.WellnessInsight {
	insight := schema.WellnessInsight{
		ByType: make(map[string]schema.TrendSummary, len(histories)),
		Ranked: []string{},
	}

	// Sorted iteration keeps the floating-point sums deterministic.
	keys := make([]string, 0, len(histories))
	for k := range histories {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		scoreSum, scoreWeight   float64
		changeSum, changeWeight float64
		rankItems               []algo.RankItem
	)

	for _, key := range keys {
		trend, err := e.ComputeTrend(key, histories[key])
		if err != nil {
			insight.Skipped = append(insight.Skipped, key)
			continue
		}
		insight.ByType[key] = trend

		rankItems = append(rankItems, algo.RankItem{
			Key:           key,
			Risk:          trend.Risk,
			DistressScore: distressScore(trend.Latest.Score(), e.polarityFor(key)),
		})

		w := e.composite.Weight(key)
		if w <= 0 {
			continue
		}
		polarity := e.compositePolarityFor(key)
		scoreSum += w * wellbeingScore(trend.Latest.Score(), polarity)
		scoreWeight += w

		if trend.Change != nil {
			change := *trend.Change
			if polarity != schema.WellbeingPolarity {
				change = -change
			}
			changeSum += w * change
			changeWeight += w
		}
	}

	if scoreWeight > 0 {
		composite := round2(scoreSum / scoreWeight)
		insight.CompositeScore = &composite
	}
	if changeWeight > 0 {
		change := round2(changeSum / changeWeight)
		insight.CompositeChange = &change
		insight.Trajectory = trajectoryOf(change)
	}
	if len(rankItems) > 0 {
		insight.Ranked = algo.RankInstruments(rankItems)
	}

	return insight
}

// trajectoryOf maps a wellbeing-oriented composite change to a trajectory.
func trajectoryOf(change float64) schema.Trajectory {
	switch {
	case change > improvingThreshold:
		return schema.TrajectoryImproving
	case change < decliningThreshold:
		return schema.TrajectoryDeclining
	default:
		return schema.TrajectoryStable
	}
}
