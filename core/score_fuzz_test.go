package core

import (
	"testing"
)

// FuzzScoreAnswers fuzzes answer coercion and checks the summary bounds.
func FuzzScoreAnswers(f *testing.F) {
	seeds := []struct {
		text  string
		value float64
	}{
		{"2", 1},
		{"  4.0 ", -1},
		{"NaN", 1e308},
		{"often", 3.5},
		{"-0", 0},
	}
	for _, seed := range seeds {
		f.Add(seed.text, seed.value)
	}

	def := wellbeingDefinition()
	f.Fuzz(func(t *testing.T, text string, value float64) {
		summary, err := Score(&def, map[string]any{"q1": text, "q2": value})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.RawScore < 0 || summary.RawScore > summary.MaxScore {
			t.Fatalf("raw score %v out of [0, %v]", summary.RawScore, summary.MaxScore)
		}
		if summary.NormalizedScore < 0 || summary.NormalizedScore > 100 {
			t.Fatalf("normalized score %v out of range", summary.NormalizedScore)
		}
		if summary.Interpretation == "" {
			t.Fatal("empty interpretation")
		}
	})
}
