// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package coin provides common-coin oracle implementations consumed by
// package metavote at GenuineFlip steps: ThresholdCoin wires a
// production deployment to its DKG subsystem's threshold signature
// shares, and Mock stands in for it deterministically in tests and
// simulation (§9 DESIGN NOTES).
package coin

import (
	"crypto/sha256"
	"encoding/binary"
)

// Mock is a deterministic common-coin oracle: Toss(voter, round) always
// returns the same pseudo-random bit for a given (voter, round) pair,
// derived from a fixed seed, and can be told to withhold specific tosses
// to drive scenarios like S6 (common-coin unavailability).
type Mock struct {
	seed     []byte
	withheld map[withheldKey]bool
}

type withheldKey struct {
	voter int
	round int
}

// NewMock returns a Mock coin seeded by seed; the same seed always
// produces the same sequence of tosses.
func NewMock(seed []byte) *Mock {
	return &Mock{seed: append([]byte(nil), seed...), withheld: make(map[withheldKey]bool)}
}

// Withhold marks (voterIndex, round) as unavailable until Supply is
// called for it, for S6-style tests.
func (m *Mock) Withhold(voterIndex, round int) {
	m.withheld[withheldKey{voterIndex, round}] = true
}

// Supply removes a prior Withhold, making the toss available again.
func (m *Mock) Supply(voterIndex, round int) {
	delete(m.withheld, withheldKey{voterIndex, round})
}

// Toss implements metavote.Coin.
func (m *Mock) Toss(voterIndex, round int) (bool, bool) {
	if m.withheld[withheldKey{voterIndex, round}] {
		return false, false
	}
	buf := make([]byte, len(m.seed)+8)
	copy(buf, m.seed)
	binary.LittleEndian.PutUint32(buf[len(m.seed):], uint32(voterIndex))
	binary.LittleEndian.PutUint32(buf[len(m.seed)+4:], uint32(round))
	sum := sha256.Sum256(buf)
	return sum[0]&1 == 1, true
}
