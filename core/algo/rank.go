// Package algo has ranking helpers shared by the insight logic.
package algo

import (
	"sort"

	"github.com/huangsam/mindscore/schema"
)

// RankItem is one instrument's latest risk standing.
type RankItem struct {
	Key           string
	Risk          schema.RiskLevel
	DistressScore float64
}

// RankInstruments sorts items by risk (high first), then by distress-oriented
// score in descending order, then by key. It returns the ordered keys.
func RankInstruments(items []RankItem) []string {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ra, rb := schema.RiskRank(a.Risk), schema.RiskRank(b.Risk); ra != rb {
			return ra < rb
		}
		if a.DistressScore != b.DistressScore {
			return a.DistressScore > b.DistressScore
		}
		return a.Key < b.Key
	})
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}
	return keys
}
