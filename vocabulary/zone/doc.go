// Package zone provides the vocabulary for residential zoning designations
// under Town of Oakville Zoning By-law 2014-014.
//
// The vocabulary covers:
//   - Base zone codes (RL1–RL11, RUC, RM1–RM4, RH)
//   - Zone categories (low, uptown core, medium, high density)
//   - Dwelling types permitted per zone family
//   - Confidence levels and calculation methods for derived figures
//
// # Designation Grammar
//
// A full designation is a base code plus optional modifiers:
//
//	RL3          base zone only
//	RL2-0        suffix-zero overlay (Section 6.4 rules apply)
//	RL3 SP:1     special provision override (Part 15)
//	RL3-0 SP:12  both
//
// Parsing of full designations lives in the zoning package; this package
// only defines the closed set of base codes and their static properties.
package zone
