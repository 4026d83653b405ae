// Package core has core logic for scoring, interpretation and trend insight.
package core

import (
	"fmt"
	"sort"

	"github.com/huangsam/mindscore/schema"
)

// Registry is a read-only catalog of instrument definitions.
// It is never mutated after NewRegistry returns, so lookups need no locking.
type Registry struct {
	defs map[string]*schema.AssessmentDefinition
	keys []string
}

// NewRegistry validates each definition and builds an immutable registry.
// Duplicate keys are rejected.
func NewRegistry(defs ...schema.AssessmentDefinition) (*Registry, error) {
	r := &Registry{defs: make(map[string]*schema.AssessmentDefinition, len(defs))}
	for i := range defs {
		def := defs[i]
		if err := ValidateDefinition(&def); err != nil {
			return nil, err
		}
		if _, exists := r.defs[def.Key]; exists {
			return nil, &schema.DefinitionError{Key: def.Key, Reason: "duplicate key"}
		}
		r.defs[def.Key] = &def
		r.keys = append(r.keys, def.Key)
	}
	sort.Strings(r.keys)
	return r, nil
}

// Get returns the definition for the key.
func (r *Registry) Get(key string) (*schema.AssessmentDefinition, error) {
	if r == nil {
		return nil, &schema.UnknownInstrumentError{Key: key}
	}
	def, ok := r.defs[key]
	if !ok {
		return nil, &schema.UnknownInstrumentError{Key: key}
	}
	return def, nil
}

// Keys returns all instrument keys in ascending order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Definitions returns all definitions ordered by key.
func (r *Registry) Definitions() []*schema.AssessmentDefinition {
	out := make([]*schema.AssessmentDefinition, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.defs[k])
	}
	return out
}

// Len returns the number of registered instruments.
func (r *Registry) Len() int {
	return len(r.keys)
}

// ValidateDefinition checks the structural invariants of a definition.
func ValidateDefinition(def *schema.AssessmentDefinition) error {
	fail := func(format string, args ...any) error {
		return &schema.DefinitionError{Key: def.Key, Reason: fmt.Sprintf(format, args...)}
	}

	if def.Key == "" {
		return fail("key is required")
	}
	if def.MaxPerQuestion <= 0 {
		return fail("max per question must be positive")
	}
	if len(def.Questions) == 0 {
		return fail("at least one question is required")
	}
	if len(def.Categories) == 0 {
		return fail("at least one category is required")
	}
	if _, ok := schema.ValidPolarities[def.EffectivePolarity()]; !ok {
		return fail("unknown polarity %q", def.Polarity)
	}

	seen := make(map[string]struct{}, len(def.Questions))
	for _, q := range def.Questions {
		if q.ID == "" {
			return fail("question at index %d has no id", q.Index)
		}
		if _, dup := seen[q.ID]; dup {
			return fail("duplicate question id %s", q.ID)
		}
		seen[q.ID] = struct{}{}
		if !def.HasCategory(q.Category) {
			return fail("question %s has undeclared category %q", q.ID, q.Category)
		}
	}

	if err := validateBands(def.Bands); err != nil {
		return fail("bands: %v", err)
	}
	if len(def.CategoryBands) > 0 {
		if err := validateBands(def.CategoryBands); err != nil {
			return fail("category bands: %v", err)
		}
	}
	if def.Risk != nil && def.Risk.Moderate > def.Risk.High {
		return fail("risk moderate threshold exceeds high threshold")
	}
	return nil
}

// validateBands requires ascending upper bounds and a single trailing catch-all.
func validateBands(bands []schema.Band) error {
	if len(bands) == 0 {
		return fmt.Errorf("at least one band is required")
	}
	last := len(bands) - 1
	prev := 0.0
	for i, b := range bands {
		if b.Label == "" {
			return fmt.Errorf("band %d has no label", i)
		}
		if i == last {
			if b.Max != nil {
				return fmt.Errorf("last band must have no upper bound")
			}
			break
		}
		if b.Max == nil {
			return fmt.Errorf("only the last band may omit the upper bound")
		}
		if i > 0 && *b.Max <= prev {
			return fmt.Errorf("band %d is not ascending", i)
		}
		prev = *b.Max
	}
	return nil
}
