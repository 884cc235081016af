// Package zoning implements the zoning calculation engine: designation
// parsing, setback/coverage/FAR resolution, buildable envelope and floor
// area calculation, unit density, and the development potential evaluator
// that ties them together.
//
// The engine is deterministic and side-effect-free. All regulatory data is
// read from an injected registry snapshot; identical inputs always produce
// identical results. Missing input data propagates as missing output
// fields (nil pointers), never as silent defaults.
package zoning

import (
	"regexp"
	"strings"

	"github.com/parcelworks/bylaw/vocabulary/zone"
)

// Identity is a parsed zone designation. Immutable once parsed.
type Identity struct {
	// Base is the recognized base zone code.
	Base zone.Code `json:"base_zone" yaml:"base_zone"`

	// SuffixZero is set when the designation carries the -0 overlay.
	SuffixZero bool `json:"suffix_zero" yaml:"suffix_zero"`

	// SpecialProvisions lists SP:<n> codes in designation order. Their
	// regulatory effect is resolved by the provision package; the parser
	// only surfaces them.
	SpecialProvisions []string `json:"special_provisions,omitempty" yaml:"special_provisions,omitempty"`
}

// Designation reconstructs the canonical designation string.
func (id Identity) Designation() string {
	var b strings.Builder
	b.WriteString(string(id.Base))
	if id.SuffixZero {
		b.WriteString("-0")
	}
	for _, sp := range id.SpecialProvisions {
		b.WriteString(" ")
		b.WriteString(sp)
	}
	return b.String()
}

var provisionToken = regexp.MustCompile(`^SP:(\d+)$`)

// ParseDesignation parses a raw designation string such as "RL3 SP:1",
// "RL2-0", or "RUC" into an Identity.
//
// Tokenization is on whitespace; the leading token's hyphen suffix is
// examined separately so "RL2-0" and "RL2 -0" normalize identically.
// Parsing is idempotent under whitespace variation. A *ParseError is
// returned when no recognizable base zone token is present.
func ParseDesignation(raw string) (Identity, error) {
	fields := strings.Fields(strings.ToUpper(raw))
	if len(fields) == 0 {
		return Identity{}, &ParseError{Designation: raw}
	}

	head := fields[0]
	rest := fields[1:]

	base := head
	suffixZero := false
	if b, s, found := strings.Cut(head, "-"); found {
		if s != "0" {
			return Identity{}, &ParseError{Designation: raw}
		}
		base = b
		suffixZero = true
	}

	code, ok := zone.ParseCode(base)
	if !ok {
		return Identity{}, &ParseError{Designation: raw}
	}

	id := Identity{Base: code, SuffixZero: suffixZero}
	for _, tok := range rest {
		switch {
		case tok == "-0":
			id.SuffixZero = true
		case provisionToken.MatchString(tok):
			id.SpecialProvisions = append(id.SpecialProvisions, tok)
		default:
			return Identity{}, &ParseError{Designation: raw}
		}
	}
	return id, nil
}
