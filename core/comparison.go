package core

import (
	"math"
	"sort"
	"strings"

	"github.com/huangsam/mindscore/schema"
)

// Comparable represents a named score that can be compared across two administrations.
type Comparable interface {
	GetName() string
	GetScore() float64
}

// namedScore adapts a category score to Comparable.
type namedScore struct {
	name  string
	score float64
}

func (n namedScore) GetName() string { return n.name }
func (n namedScore) GetScore() float64 { return n.score }

// compareScores matches base against target by name and returns the deltas of
// names present on both sides, ordered by absolute delta.
func compareScores[T Comparable](base, target []T) []schema.CategoryDelta {
	baseMap := make(map[string]T, len(base))
	for _, b := range base {
		baseMap[b.GetName()] = b
	}

	deltas := make([]schema.CategoryDelta, 0, len(target))
	for _, t := range target {
		b, ok := baseMap[t.GetName()]
		if !ok {
			continue
		}
		deltas = append(deltas, schema.CategoryDelta{
			Category: schema.Category(t.GetName()),
			Before:   b.GetScore(),
			After:    t.GetScore(),
			Delta:    round1(t.GetScore() - b.GetScore()),
		})
	}

	sortCategoryDeltas(deltas)
	return deltas
}

// sortCategoryDeltas sorts by absolute delta, then delta sign, then category.
func sortCategoryDeltas(deltas []schema.CategoryDelta) {
	sort.Slice(deltas, func(i, j int) bool {
		a := deltas[i]
		b := deltas[j]

		absA := math.Abs(a.Delta)
		absB := math.Abs(b.Delta)
		if absA != absB {
			return absA > absB
		}
		if a.Delta != b.Delta {
			return a.Delta > b.Delta
		}
		return strings.Compare(string(a.Category), string(b.Category)) < 0
	})
}

// CompareCategories returns the per-category normalized deltas between two summaries.
// Categories missing from either summary are skipped.
func CompareCategories(previous, latest schema.ScoreSummary) []schema.CategoryDelta {
	return compareScores(categoryScores(previous), categoryScores(latest))
}

func categoryScores(s schema.ScoreSummary) []namedScore {
	out := make([]namedScore, 0, len(s.CategoryNormalized))
	for c, v := range s.CategoryNormalized {
		out = append(out, namedScore{name: string(c), score: v})
	}
	return out
}

// categoryChangeMap flattens deltas for TrendSummary.CategoryChanges.
func categoryChangeMap(deltas []schema.CategoryDelta) map[schema.Category]float64 {
	if len(deltas) == 0 {
		return nil
	}
	out := make(map[schema.Category]float64, len(deltas))
	for _, d := range deltas {
		out[d.Category] = d.Delta
	}
	return out
}
