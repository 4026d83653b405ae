package core

import (
	"github.com/huangsam/mindscore/schema"
)

// Engine ties a registry to scoring, trend and insight settings.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	registry  *Registry
	policy    schema.AnswerPolicy
	composite schema.CompositeConfig
	risk      schema.RiskThresholds
}

// Option configures an Engine.
type Option func(*Engine)

// WithAnswerPolicy selects clamping or rejection of malformed answers.
func WithAnswerPolicy(p schema.AnswerPolicy) Option {
	return func(e *Engine) {
		if p != "" {
			e.policy = p
		}
	}
}

// WithComposite sets the polarity overrides and weights used by Summarize.
func WithComposite(c schema.CompositeConfig) Option {
	return func(e *Engine) {
		e.composite = c
	}
}

// WithRiskDefaults replaces the instrument-agnostic risk thresholds.
// Thresholds declared on a definition still take precedence.
func WithRiskDefaults(r schema.RiskThresholds) Option {
	return func(e *Engine) {
		e.risk = r
	}
}

// NewEngine creates an engine over the registry.
func NewEngine(reg *Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		policy:   schema.ClampPolicy,
		risk:     schema.DefaultRiskThresholds(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry backing the engine.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// AnswerPolicy returns the configured answer policy.
func (e *Engine) AnswerPolicy() schema.AnswerPolicy {
	return e.policy
}

// Score looks up the instrument and scores the responses.
func (e *Engine) Score(key string, responses map[string]any) (schema.ScoreSummary, error) {
	def, err := e.registry.Get(key)
	if err != nil {
		return schema.ScoreSummary{}, err
	}
	return scoreWithPolicy(def, responses, e.policy)
}

// ScoreSet scores a response set and wraps the summary as a history record
// carrying the set's completion time.
func (e *Engine) ScoreSet(rs schema.ResponseSet) (schema.HistoryRecord, error) {
	summary, err := e.Score(rs.InstrumentKey, rs.Responses)
	if err != nil {
		return schema.HistoryRecord{}, err
	}
	return schema.HistoryRecord{
		InstrumentKey: rs.InstrumentKey,
		CompletedAt:   rs.CompletedAt,
		Summary:       summary,
	}, nil
}

// polarityFor resolves the polarity an instrument declares, falling back to
// distress. Risk and ranking use it; composite overrides never reach it.
func (e *Engine) polarityFor(key string) schema.Polarity {
	if def, err := e.registry.Get(key); err == nil {
		return def.EffectivePolarity()
	}
	return schema.DistressPolarity
}

// compositePolarityFor resolves the polarity used by the composite sums.
// A configured override beats the declared polarity.
func (e *Engine) compositePolarityFor(key string) schema.Polarity {
	if p, ok := e.composite.Polarity[key]; ok && p != "" {
		return p
	}
	return e.polarityFor(key)
}

// riskFor resolves the risk thresholds of an instrument.
func (e *Engine) riskFor(key string) schema.RiskThresholds {
	if def, err := e.registry.Get(key); err == nil {
		return def.EffectiveRisk(e.risk)
	}
	return e.risk
}
