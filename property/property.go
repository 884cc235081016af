// Package property loads property records for evaluation. A record pairs
// a raw zone designation with the lot geometry a surveyor or data
// collaborator supplied; any geometry field may be absent. Records are
// read from YAML or JSON documents, individually or batched via glob
// patterns.
package property

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/parcelworks/bylaw/zoning"
)

// Record is one property awaiting evaluation.
type Record struct {
	// ID is the caller's identifier for the property, such as a roll
	// number or address. Optional for single evaluations.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Designation is the raw zone designation string, e.g. "RL2-0 SP:14".
	Designation string `json:"designation" yaml:"designation"`

	// Geometry is the lot's physical dimensions, possibly partial.
	Geometry zoning.LotGeometry `json:"geometry" yaml:"geometry"`
}

// Validate checks the record carries enough to attempt an evaluation.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Designation) == "" {
		return fmt.Errorf("property %q: designation is required", r.ID)
	}
	return nil
}

// LoadFile reads one record from a YAML or JSON document. The format is
// chosen by file extension; anything not .json parses as YAML, which
// covers .yaml and .yml.
func LoadFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read property: %w", err)
	}

	var rec Record
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &rec); err != nil {
			return Record{}, fmt.Errorf("parse property %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return Record{}, fmt.Errorf("parse property %s: %w", path, err)
		}
	}

	if rec.ID == "" {
		rec.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Glob expands glob patterns (with ** support) to property documents and
// loads each one. Duplicate paths across patterns load once; results are
// sorted by path so batch output order is stable.
func Glob(patterns []string) ([]Record, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no property documents match %v", patterns)
	}
	sort.Strings(paths)

	records := make([]Record, 0, len(paths))
	for _, p := range paths {
		rec, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
