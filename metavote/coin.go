// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metavote

// Coin is the common-coin oracle consulted at GenuineFlip steps, keyed
// by (voter, round) (§4.4, §9 glossary "Common coin"). A production
// implementation wires this to the DKG subsystem's threshold signature
// shares (§9); tests substitute package coin's deterministic mock.
//
// Toss returns (value, true) if a coin toss for (voterIndex, round) is
// available, or (false, false) if it is being withheld — in which case
// the step stalls at GenuineFlip for that voter until supplied or
// rendered moot by enough gossip (S6).
type Coin interface {
	Toss(voterIndex int, round int) (value bool, ok bool)
}
