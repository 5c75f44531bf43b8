// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package observation defines the sum type of payloads a peer may vote
// for, content-addressed keys over those payloads, and the per-payload
// bookkeeping the consensus core keeps for audit and replay. Grounded on
// original_source's observation.rs Observation/Malice enums (§3, §4.7 of
// the expanded spec), generalized from Rust's generic-over-NetworkEvent
// enum to a Go sum type with an explicit Kind discriminant.
package observation

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/crypto"
)

// Kind discriminates the Observation sum type's variants.
type Kind uint8

const (
	// KindGenesis votes for the initial voter group.
	KindGenesis Kind = iota
	// KindAdd votes to add a peer to the network.
	KindAdd
	// KindRemove votes to remove a peer from the network.
	KindRemove
	// KindLeft votes that a peer has voluntarily left.
	KindLeft
	// KindAccusation votes that a peer committed a provable malice.
	KindAccusation
	// KindOpaquePayload votes for a payload opaque to the core.
	KindOpaquePayload
	// KindStartDkg votes to begin a distributed key generation round.
	KindStartDkg
	// KindDkgResult carries a DKG subsystem result.
	KindDkgResult
	// KindDkgMessage carries a single DKG protocol message.
	KindDkgMessage
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindGenesis:
		return "Genesis"
	case KindAdd:
		return "Add"
	case KindRemove:
		return "Remove"
	case KindLeft:
		return "Left"
	case KindAccusation:
		return "Accusation"
	case KindOpaquePayload:
		return "OpaquePayload"
	case KindStartDkg:
		return "StartDkg"
	case KindDkgResult:
		return "DkgResult"
	case KindDkgMessage:
		return "DkgMessage"
	default:
		return "Unknown"
	}
}

// Mode is the consensus mode an Observation's key is tagged with.
type Mode uint8

const (
	// Supermajority means a payload is decided when a supermajority of
	// the voter set has voted for the identical content.
	Supermajority Mode = iota
	// Single means a payload is decided independently per creator: the
	// key distinguishes votes for the same content by different peers.
	Single
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == Single {
		return "Single"
	}
	return "Supermajority"
}

// Observation is the sum type of payloads a peer may vote for (§3).
// Exactly one of the Kind-tagged fields below is meaningful, selected by
// Kind; this mirrors the Rust enum without reproducing Go-has-no-enums
// boilerplate beyond what's needed to keep the type content-addressable.
type Observation struct {
	Kind Kind

	// Genesis, Add, Remove, Left, StartDkg carry peer group membership.
	Group []ids.NodeID // Genesis, StartDkg
	Peer  ids.NodeID   // Add, Remove, Left

	// Accusation.
	Offender ids.NodeID
	Malice   Malice

	// OpaquePayload, DkgResult, DkgMessage: embedder-defined bytes. The
	// core never interprets this content beyond hashing it.
	Payload []byte
}

// Genesis returns a Genesis observation for the given group, sorted by
// NodeID for determinism (observees ordering depends on it downstream).
func Genesis(group []ids.NodeID) Observation {
	g := append([]ids.NodeID(nil), group...)
	sortNodeIDs(g)
	return Observation{Kind: KindGenesis, Group: g}
}

// Add returns an Add observation.
func Add(peer ids.NodeID) Observation {
	return Observation{Kind: KindAdd, Peer: peer}
}

// Remove returns a Remove observation.
func Remove(peer ids.NodeID) Observation {
	return Observation{Kind: KindRemove, Peer: peer}
}

// Left returns a Left observation.
func Left(peer ids.NodeID) Observation {
	return Observation{Kind: KindLeft, Peer: peer}
}

// NewAccusation returns an Accusation observation.
func NewAccusation(offender ids.NodeID, malice Malice) Observation {
	return Observation{Kind: KindAccusation, Offender: offender, Malice: malice}
}

// OpaquePayload returns an OpaquePayload observation wrapping embedder bytes.
func OpaquePayload(payload []byte) Observation {
	return Observation{Kind: KindOpaquePayload, Payload: payload}
}

// StartDkg returns a StartDkg observation for the given participant group.
func StartDkg(group []ids.NodeID) Observation {
	g := append([]ids.NodeID(nil), group...)
	sortNodeIDs(g)
	return Observation{Kind: KindStartDkg, Group: g}
}

// DkgResult returns a DkgResult observation.
func DkgResult(payload []byte) Observation {
	return Observation{Kind: KindDkgResult, Payload: payload}
}

// DkgMessage returns a DkgMessage observation.
func DkgMessage(payload []byte) Observation {
	return Observation{Kind: KindDkgMessage, Payload: payload}
}

// DefaultMode reports the consensus mode a freshly created Observation of
// this Kind must use: configuredOpaqueMode for OpaquePayload, always
// Single for DkgMessage (§6 "Configuration enumeration"), Supermajority
// for everything else. Callers
// that run with consensus_mode=Single only get to choose Single for
// OpaquePayload; every other variant keeps its fixed mode regardless of
// peer configuration.
func (o Observation) DefaultMode(configuredOpaqueMode Mode) Mode {
	switch o.Kind {
	case KindOpaquePayload:
		return configuredOpaqueMode
	case KindDkgMessage:
		return Single
	default:
		return Supermajority
	}
}

// serialize renders a deterministic byte encoding of o suitable for
// hashing. It is not a wire format (packed events carry their own framing
// in package gossip); this exists only to content-address observations.
func (o Observation) serialize() []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, byte(o.Kind))
	for _, p := range o.Group {
		buf = append(buf, p[:]...)
	}
	buf = append(buf, o.Peer[:]...)
	buf = append(buf, o.Offender[:]...)
	buf = append(buf, o.Malice.serialize()...)
	buf = append(buf, o.Payload...)
	return buf
}

// Hash content-addresses o using h, following create_hash in observation.rs.
func (o Observation) Hash(h crypto.Hasher) crypto.Hash {
	return h.Hash(o.serialize())
}

func sortNodeIDs(group []ids.NodeID) {
	for i := 1; i < len(group); i++ {
		for j := i; j > 0 && lessNodeID(group[j], group[j-1]); j-- {
			group[j], group[j-1] = group[j-1], group[j]
		}
	}
}

func lessNodeID(a, b ids.NodeID) bool {
	return string(a[:]) < string(b[:])
}
