// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package observation

import "github.com/luxfi/parsec/crypto"

// MaliceKind enumerates the provable malices the core can detect and
// accuse (§4.7), supplemented with StaleOtherParent and
// InvalidGossipCreator from original_source's observation.rs, which
// spec.md's §4.7 list omits but which the original detects at the same
// insertion point as Fork and UnexpectedGenesis.
type MaliceKind uint8

const (
	// MaliceUnexpectedGenesis: event votes Genesis but isn't the
	// creator's first event after its Initial, or the creator isn't in
	// the genesis group.
	MaliceUnexpectedGenesis MaliceKind = iota
	// MaliceDuplicateVote: two Observation-caused events by the same
	// creator carry the same payload key.
	MaliceDuplicateVote
	// MaliceMissingGenesis: creator's first event after its Initial
	// votes for something other than Genesis though the peer joined at
	// genesis.
	MaliceMissingGenesis
	// MaliceIncorrectGenesis: Genesis payload differs from the known
	// genesis group.
	MaliceIncorrectGenesis
	// MaliceStaleOtherParent: event's other_parent is by the same creator
	// as its self_parent's other_parent, at an index no later than it.
	MaliceStaleOtherParent
	// MaliceFork: two distinct events share the same self_parent.
	MaliceFork
	// MaliceInvalidAccusation: an Accusation observation whose target
	// malice cannot be reproduced from the graph.
	MaliceInvalidAccusation
	// MaliceInvalidGossipCreator: an event whose creator the receiving
	// peer does not recognize in any membership state.
	MaliceInvalidGossipCreator
	// MaliceAccomplice: the peer should have raised an accusation
	// against another peer's malice but failed to.
	MaliceAccomplice
	// MaliceOtherParentBySameCreator: event's creator equals its
	// other_parent's creator.
	MaliceOtherParentBySameCreator
	// MaliceInvalidRequest: a Request-caused event whose self_parent was
	// authored by a different creator than the event itself.
	MaliceInvalidRequest
	// MaliceInvalidResponse: a Response-caused event whose self_parent
	// was authored by a different creator than the event itself.
	MaliceInvalidResponse
)

// String implements fmt.Stringer.
func (k MaliceKind) String() string {
	switch k {
	case MaliceUnexpectedGenesis:
		return "UnexpectedGenesis"
	case MaliceDuplicateVote:
		return "DuplicateVote"
	case MaliceMissingGenesis:
		return "MissingGenesis"
	case MaliceIncorrectGenesis:
		return "IncorrectGenesis"
	case MaliceStaleOtherParent:
		return "StaleOtherParent"
	case MaliceFork:
		return "Fork"
	case MaliceInvalidAccusation:
		return "InvalidAccusation"
	case MaliceInvalidGossipCreator:
		return "InvalidGossipCreator"
	case MaliceAccomplice:
		return "Accomplice"
	case MaliceOtherParentBySameCreator:
		return "OtherParentBySameCreator"
	case MaliceInvalidRequest:
		return "InvalidRequest"
	case MaliceInvalidResponse:
		return "InvalidResponse"
	default:
		return "Unknown"
	}
}

// Malice names a specific piece of malicious behaviour along with the
// event hash(es) evidencing it, so any peer can independently verify the
// accusation by walking its own copy of the graph.
type Malice struct {
	Kind MaliceKind

	// EventHash is the primary piece of evidence: the forking/offending
	// event hash for Fork/UnexpectedGenesis/MissingGenesis/
	// IncorrectGenesis/StaleOtherParent/InvalidGossipCreator/
	// OtherParentBySameCreator/InvalidRequest/InvalidResponse/Accomplice.
	EventHash crypto.Hash

	// OtherEventHash is the second piece of evidence for malices that
	// need two events: for Fork, the second event sharing EventHash's
	// self_parent. It is left zero for every other kind.
	OtherEventHash crypto.Hash
}

func (m Malice) serialize() []byte {
	buf := make([]byte, 0, 1+2*len(m.EventHash))
	buf = append(buf, byte(m.Kind))
	buf = append(buf, m.EventHash[:]...)
	buf = append(buf, m.OtherEventHash[:]...)
	return buf
}
