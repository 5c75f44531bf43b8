// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metavote implements the per-voter binary meta-voting state
// machine (§4.4): three-step rounds (ForcedTrue, ForcedFalse,
// GenuineFlip) computed from parent meta-votes and the vectors observed
// in other voters, seeded by a common-coin oracle at GenuineFlip.
// Grounded on original_source's meta_voting/meta_vote.rs, carried over
// as a faithful two-pass port per SPEC_FULL.md's SUPPLEMENTED FEATURES.
package metavote

// BoolSet is a small set over {true, false}, following bool_set.rs:
// Empty, Single(b), or Both.
type BoolSet uint8

const (
	boolTrueBit  BoolSet = 1 << 0
	boolFalseBit BoolSet = 1 << 1
)

// EmptyBoolSet is the empty set.
var EmptyBoolSet BoolSet

// BoolSetOf returns the singleton set containing b.
func BoolSetOf(b bool) BoolSet {
	if b {
		return boolTrueBit
	}
	return boolFalseBit
}

// IsEmpty reports whether the set contains no values.
func (s BoolSet) IsEmpty() bool {
	return s == 0
}

// Len reports the number of values in the set (0, 1, or 2).
func (s BoolSet) Len() int {
	n := 0
	if s&boolTrueBit != 0 {
		n++
	}
	if s&boolFalseBit != 0 {
		n++
	}
	return n
}

// Contains reports whether b is a member of the set.
func (s BoolSet) Contains(b bool) bool {
	if b {
		return s&boolTrueBit != 0
	}
	return s&boolFalseBit != 0
}

// Insert adds b to the set, returning whether it was newly added (the
// set grew), mirroring BoolSet::insert's bool return used by
// calculate_new_estimates/calculate_new_bin_values to track count deltas.
func (s *BoolSet) Insert(b bool) bool {
	bit := boolFalseBit
	if b {
		bit = boolTrueBit
	}
	if *s&bit != 0 {
		return false
	}
	*s |= bit
	return true
}

// Clear empties the set.
func (s *BoolSet) Clear() {
	*s = 0
}

// String implements fmt.Stringer.
func (s BoolSet) String() string {
	switch {
	case s.Len() == 0:
		return "{}"
	case s == boolTrueBit:
		return "{t}"
	case s == boolFalseBit:
		return "{f}"
	default:
		return "{t,f}"
	}
}
