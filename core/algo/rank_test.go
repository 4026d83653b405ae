package algo

import (
	"testing"

	"github.com/huangsam/mindscore/schema"
	"github.com/stretchr/testify/assert"
)

func TestRankInstruments(t *testing.T) {
	items := []RankItem{
		{Key: "wellbeing_wemwbs", Risk: schema.RiskLow, DistressScore: 20},
		{Key: "stress_pss10", Risk: schema.RiskModerate, DistressScore: 45},
		{Key: "depression_phq9", Risk: schema.RiskHigh, DistressScore: 71},
		{Key: "anxiety_gad7", Risk: schema.RiskHigh, DistressScore: 90},
		{Key: "anxiety_assessment", Risk: schema.RiskModerate, DistressScore: 45},
	}

	got := RankInstruments(items)
	assert.Equal(t, []string{
		"anxiety_gad7",
		"depression_phq9",
		"anxiety_assessment",
		"stress_pss10",
		"wellbeing_wemwbs",
	}, got)
}

func TestRankInstrumentsEmpty(t *testing.T) {
	assert.Empty(t, RankInstruments(nil))
}
