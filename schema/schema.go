// Package schema has models, errors and constants for all parts of mindscore.
package schema

import (
	"strings"
)

// Band maps an upper bound to a qualitative label. A nil Max marks the
// catch-all band, which must be last.
type Band struct {
	Max   *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Label string   `json:"label" yaml:"label"`
}

// Contains reports whether the value falls at or below the band's upper bound.
func (b Band) Contains(v float64) bool {
	return b.Max == nil || v <= *b.Max
}

// RiskThresholds overrides the default risk banding for one instrument.
// Both bounds apply to the distress-oriented normalized score.
type RiskThresholds struct {
	High     float64 `json:"high" yaml:"high"`
	Moderate float64 `json:"moderate" yaml:"moderate"`
}

// QuestionSpec describes one item of an instrument.
type QuestionSpec struct {
	ID       string   `json:"id" yaml:"id"`
	Index    int      `json:"index" yaml:"index"`
	Text     string   `json:"text,omitempty" yaml:"text,omitempty"`
	Category Category `json:"category" yaml:"category"`
	Reverse  bool     `json:"reverse,omitempty" yaml:"reverse,omitempty"`
}

// AssessmentDefinition is the immutable description of one instrument:
// its questions, scale, categories and interpretation bands.
type AssessmentDefinition struct {
	Key              string          `json:"key" yaml:"key"`
	Name             string          `json:"name" yaml:"name"`
	Description      string          `json:"description,omitempty" yaml:"description,omitempty"`
	Polarity         Polarity        `json:"polarity" yaml:"polarity"`
	MaxPerQuestion   float64         `json:"maxPerQuestion" yaml:"max_per_question"`
	Categories       []Category      `json:"categories" yaml:"categories"`
	Questions        []QuestionSpec  `json:"questions" yaml:"questions"`
	Bands            []Band          `json:"bands" yaml:"bands"`
	CategoryBands    []Band          `json:"categoryBands,omitempty" yaml:"category_bands,omitempty"`
	CategoryTemplate string          `json:"categoryTemplate,omitempty" yaml:"category_template,omitempty"`
	Risk             *RiskThresholds `json:"risk,omitempty" yaml:"risk,omitempty"`
}

// MaxScore returns the highest possible raw score for the definition.
func (d *AssessmentDefinition) MaxScore() float64 {
	return float64(len(d.Questions)) * d.MaxPerQuestion
}

// CategoryQuestionCount returns how many questions belong to the category.
func (d *AssessmentDefinition) CategoryQuestionCount(c Category) int {
	n := 0
	for _, q := range d.Questions {
		if q.Category == c {
			n++
		}
	}
	return n
}

// HasCategory reports whether the category is declared by the definition.
func (d *AssessmentDefinition) HasCategory(c Category) bool {
	for _, dc := range d.Categories {
		if dc == c {
			return true
		}
	}
	return false
}

// EffectivePolarity returns the declared polarity or the distress default.
func (d *AssessmentDefinition) EffectivePolarity() Polarity {
	if d.Polarity == "" {
		return DistressPolarity
	}
	return d.Polarity
}

// EffectiveRisk returns the declared risk thresholds or the given defaults.
func (d *AssessmentDefinition) EffectiveRisk(defaults RiskThresholds) RiskThresholds {
	if d.Risk == nil {
		return defaults
	}
	return *d.Risk
}

// EffectiveCategoryBands returns the declared category bands or the defaults.
func (d *AssessmentDefinition) EffectiveCategoryBands() []Band {
	if len(d.CategoryBands) == 0 {
		return DefaultCategoryBands()
	}
	return d.CategoryBands
}

// EffectiveCategoryTemplate returns the declared template or the default one.
func (d *AssessmentDefinition) EffectiveCategoryTemplate() string {
	if d.CategoryTemplate == "" {
		return DefaultCategoryTemplate
	}
	return d.CategoryTemplate
}

// DefaultRiskThresholds returns the instrument-agnostic risk banding.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{High: DefaultRiskHigh, Moderate: DefaultRiskModerate}
}

// CategoryDisplayName turns a category tag like "self_awareness" into "Self awareness".
func CategoryDisplayName(c Category) string {
	s := strings.ReplaceAll(string(c), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Float returns a pointer to v. Bands and optional results use it.
func Float(v float64) *float64 {
	return &v
}
