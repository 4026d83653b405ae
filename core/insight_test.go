package core

import (
	"testing"

	"github.com/huangsam/mindscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistories() map[string][]schema.HistoryRecord {
	return map[string][]schema.HistoryRecord{
		"anxiety_assessment": history("anxiety_assessment", 60, 75),
		"wellbeing":          history("wellbeing", 50, 40),
		"stress_pss10":       nil,
	}
}

func TestSummarize(t *testing.T) {
	engine := newTestEngine(t)
	insight := engine.Summarize(sampleHistories())

	require.Len(t, insight.ByType, 2)
	assert.Equal(t, []string{"stress_pss10"}, insight.Skipped)

	require.NotNil(t, insight.CompositeScore)
	assert.Equal(t, 32.5, *insight.CompositeScore)

	require.NotNil(t, insight.CompositeChange)
	assert.Equal(t, -12.5, *insight.CompositeChange)
	assert.Equal(t, schema.TrajectoryDeclining, insight.Trajectory)

	assert.Equal(t, []string{"anxiety_assessment", "wellbeing"}, insight.Ranked)
	assert.Equal(t, schema.RiskHigh, insight.ByType["anxiety_assessment"].Risk)
	assert.Equal(t, schema.RiskModerate, insight.ByType["wellbeing"].Risk)
}

func TestSummarizeWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights map[string]float64
		want    float64
	}{
		{"weighted", map[string]float64{"anxiety_assessment": 3}, 28.75},
		{"excluded", map[string]float64{"wellbeing": 0}, 25},
		{"negative excluded", map[string]float64{"wellbeing": -1}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, WithComposite(schema.CompositeConfig{Weights: tt.weights}))
			insight := engine.Summarize(sampleHistories())
			require.NotNil(t, insight.CompositeScore)
			assert.Equal(t, tt.want, *insight.CompositeScore)
			// Excluded instruments still get a trend and a rank.
			assert.Len(t, insight.ByType, 2)
			assert.Len(t, insight.Ranked, 2)
		})
	}
}

func TestSummarizePolarityOverride(t *testing.T) {
	engine := newTestEngine(t, WithComposite(schema.CompositeConfig{
		Polarity: map[string]schema.Polarity{"anxiety_assessment": schema.WellbeingPolarity},
	}))
	insight := engine.Summarize(sampleHistories())

	require.NotNil(t, insight.CompositeScore)
	assert.Equal(t, 57.5, *insight.CompositeScore)
	// The override only feeds the composite; risk and rank keep the declared polarity.
	assert.Equal(t, schema.RiskHigh, insight.ByType["anxiety_assessment"].Risk)
	assert.Equal(t, []string{"anxiety_assessment", "wellbeing"}, insight.Ranked)
}

func TestSummarizeAllZeroWeights(t *testing.T) {
	engine := newTestEngine(t, WithComposite(schema.CompositeConfig{
		Weights: map[string]float64{"anxiety_assessment": 0, "wellbeing": 0},
	}))
	insight := engine.Summarize(sampleHistories())
	assert.Nil(t, insight.CompositeScore)
	assert.Nil(t, insight.CompositeChange)
	assert.Empty(t, insight.Trajectory)
}

func TestSummarizeEmpty(t *testing.T) {
	engine := newTestEngine(t)
	insight := engine.Summarize(nil)

	assert.Empty(t, insight.ByType)
	assert.Nil(t, insight.CompositeScore)
	assert.Nil(t, insight.CompositeChange)
	assert.Empty(t, insight.Trajectory)
	assert.NotNil(t, insight.Ranked)
	assert.Empty(t, insight.Ranked)
	assert.Empty(t, insight.Skipped)
}

func TestSummarizeSingleAdministrations(t *testing.T) {
	engine := newTestEngine(t)
	insight := engine.Summarize(map[string][]schema.HistoryRecord{
		"anxiety_assessment": history("anxiety_assessment", 30),
		"wellbeing":          history("wellbeing", 70),
	})

	require.NotNil(t, insight.CompositeScore)
	assert.Equal(t, 70.0, *insight.CompositeScore)
	assert.Nil(t, insight.CompositeChange)
	assert.Empty(t, insight.Trajectory)
	assert.Equal(t, []string{"anxiety_assessment", "wellbeing"}, insight.Ranked)
}

func TestTrajectoryOf(t *testing.T) {
	assert.Equal(t, schema.TrajectoryImproving, trajectoryOf(0.51))
	assert.Equal(t, schema.TrajectoryStable, trajectoryOf(0.5))
	assert.Equal(t, schema.TrajectoryStable, trajectoryOf(-0.5))
	assert.Equal(t, schema.TrajectoryDeclining, trajectoryOf(-0.51))
}

func TestSummarizeIsDeterministic(t *testing.T) {
	engine := newTestEngine(t)
	first := engine.Summarize(sampleHistories())
	second := engine.Summarize(sampleHistories())
	assert.Equal(t, first, second)
}
