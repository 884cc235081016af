// Package provision resolves special provision codes (the "SP:n" tokens on
// a zone designation) into per-property rule overrides. Provisions are
// site-specific amendments to the by-law; when one applies, its overridden
// fields take precedence over the standard registry lookup for that
// property only.
package provision

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/parcelworks/bylaw/zoning"
	"github.com/parcelworks/bylaw/zoning/registry"
)

// Override holds the rule fields a special provision may replace. Nil
// fields leave the registry value untouched.
type Override struct {
	Description string `yaml:"description,omitempty"`

	MinLotArea     *float64 `yaml:"min_lot_area,omitempty"`
	MinLotFrontage *float64 `yaml:"min_lot_frontage,omitempty"`

	FrontM        *float64 `yaml:"front_m,omitempty"`
	InteriorSideM *float64 `yaml:"interior_side_m,omitempty"`
	RearM         *float64 `yaml:"rear_m,omitempty"`
	FlankageM     *float64 `yaml:"flankage_m,omitempty"`

	MaxHeightM *float64 `yaml:"max_height_m,omitempty"`
	MaxStoreys *int     `yaml:"max_storeys,omitempty"`

	// MaxLotCoverage is a fraction of lot area, matching the registry
	// dataset's representation.
	MaxLotCoverage *float64 `yaml:"max_lot_coverage,omitempty"`

	// MaxFAR is a fixed floor area ratio.
	MaxFAR *float64 `yaml:"max_far,omitempty"`
}

// apply copies the overridden fields onto a rules value.
func (o Override) apply(rules registry.Rules) registry.Rules {
	if o.MinLotArea != nil {
		rules.MinLotArea = copyFloat(o.MinLotArea)
	}
	if o.MinLotFrontage != nil {
		rules.MinLotFrontage = copyFloat(o.MinLotFrontage)
	}
	if o.FrontM != nil {
		rules.Setbacks.Front = registry.FixedSetback(*o.FrontM)
	}
	if o.InteriorSideM != nil {
		rules.Setbacks.InteriorSide = registry.FixedSetback(*o.InteriorSideM)
	}
	if o.RearM != nil {
		rules.Setbacks.Rear = registry.FixedSetback(*o.RearM)
	}
	if o.FlankageM != nil {
		rules.Setbacks.Flankage = registry.FixedSetback(*o.FlankageM)
	}
	if o.MaxHeightM != nil {
		rules.MaxHeight = copyFloat(o.MaxHeightM)
	}
	if o.MaxStoreys != nil {
		v := *o.MaxStoreys
		rules.MaxStoreys = &v
	}
	if o.MaxLotCoverage != nil {
		rules.MaxLotCoverage = registry.FixedCoverage(*o.MaxLotCoverage)
	}
	if o.MaxFAR != nil {
		rules.MaxResidentialFAR = registry.FixedFAR(*o.MaxFAR)
	}
	return rules
}

// Set maps provision tokens ("SP:1") to their overrides. A Set is safe
// for concurrent use; Replace swaps the table atomically so in-flight
// evaluations keep a consistent view.
type Set struct {
	mu        sync.RWMutex
	overrides map[string]Override
}

// NewSet builds an empty provision set.
func NewSet() *Set {
	return &Set{overrides: make(map[string]Override)}
}

// Parse builds a provision set from YAML keyed by provision token.
func Parse(data []byte) (*Set, error) {
	var raw map[string]Override
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse provisions: %w", err)
	}
	if raw == nil {
		raw = make(map[string]Override)
	}
	return &Set{overrides: raw}, nil
}

// LoadFile builds a provision set from a YAML file on disk.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read provisions: %w", err)
	}
	return Parse(data)
}

// Lookup returns the override for a provision token.
func (s *Set) Lookup(token string) (Override, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overrides[token]
	return o, ok
}

// Len returns the number of provisions in the set.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.overrides)
}

// Replace swaps the full override table. Used by the file watcher on
// reload.
func (s *Set) Replace(other *Set) {
	other.mu.RLock()
	table := make(map[string]Override, len(other.overrides))
	for k, v := range other.overrides {
		table[k] = v
	}
	other.mu.RUnlock()

	s.mu.Lock()
	s.overrides = table
	s.mu.Unlock()
}

// Apply implements zoning.Overrider. Provisions are applied in
// designation order, so a later token overrides an earlier one
// field by field. Unknown tokens are ignored; the registry rules stand.
func (s *Set) Apply(id zoning.Identity, rules registry.Rules) registry.Rules {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, token := range id.SpecialProvisions {
		if o, ok := s.overrides[token]; ok {
			rules = o.apply(rules)
		}
	}
	return rules
}

func copyFloat(p *float64) *float64 {
	v := *p
	return &v
}
