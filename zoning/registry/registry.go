// Package registry provides the immutable zone rule registry. The
// regulatory dataset ships embedded in the binary and is parsed once at
// process start; after Load returns, the registry is read-only and safe
// for unlimited concurrent readers.
package registry

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/parcelworks/bylaw/vocabulary/zone"
)

//go:embed data/zones.yaml
var zonesYAML []byte

// Registry is the process-wide table of regulatory data per base zone.
// Construct one with Load (or LoadFrom for synthetic rule sets in tests)
// and inject it; there is no mutable global.
type Registry struct {
	rules map[zone.Code]Rules
}

// Load builds a registry from the embedded regulatory dataset.
func Load() (*Registry, error) {
	return LoadFrom(zonesYAML)
}

// LoadFrom builds a registry from raw YAML rule data. Primarily used by
// tests that need synthetic rule sets.
func LoadFrom(data []byte) (*Registry, error) {
	var raw map[string]Rules
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse zone rules: %w", err)
	}

	rules := make(map[zone.Code]Rules, len(raw))
	for key, r := range raw {
		code, ok := zone.ParseCode(key)
		if !ok {
			return nil, fmt.Errorf("rule dataset contains unknown zone code %q", key)
		}
		r.Code = code
		rules[code] = r
	}
	return &Registry{rules: rules}, nil
}

// Lookup returns the rules for a base zone. The returned value is a deep
// copy; mutating it never affects the registry.
func (r *Registry) Lookup(code zone.Code) (Rules, bool) {
	rules, ok := r.rules[code]
	if !ok {
		return Rules{}, false
	}
	return rules.Clone(), true
}

// Codes returns every zone code present in the registry, in by-law table
// order.
func (r *Registry) Codes() []zone.Code {
	out := make([]zone.Code, 0, len(r.rules))
	for _, c := range zone.AllCodes() {
		if _, ok := r.rules[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of zones in the registry.
func (r *Registry) Len() int { return len(r.rules) }
