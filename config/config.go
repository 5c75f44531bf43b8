// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines the configuration a PARSEC peer is constructed
// with: its own identity, the genesis group, and the consensus mode used
// for opaque payloads.
package config

import "github.com/luxfi/ids"

// ConsensusMode governs how an OpaquePayload or DkgMessage observation is
// keyed for voting purposes. All other observation variants always use
// Supermajority (see observation.Observation).
type ConsensusMode int

const (
	// Supermajority means distinct votes for the same payload, regardless
	// of creator, are considered the same candidate.
	Supermajority ConsensusMode = iota
	// Single means a payload is only ever voted for by its own creator;
	// votes from different creators for an equal payload are distinct
	// candidates.
	Single
)

// String implements fmt.Stringer.
func (m ConsensusMode) String() string {
	switch m {
	case Supermajority:
		return "supermajority"
	case Single:
		return "single"
	default:
		return "unknown"
	}
}

// Config is the immutable configuration a Peer is built from.
type Config struct {
	// OurID is this peer's identity.
	OurID ids.NodeID
	// GenesisGroup is the initial voter set, in the order they are known
	// to agree to start the network.
	GenesisGroup []ids.NodeID
	// GenesisInfo is an opaque byte string attached to the Genesis
	// observation, meaningful only to the embedder.
	GenesisInfo []byte
	// ConsensusMode governs opaque payloads only (§6).
	ConsensusMode ConsensusMode
	// Parameters holds the tuning knobs for gossip and diagnostics.
	Parameters Parameters
}

// Validate reports whether c is well-formed enough to build a Peer from.
func (c Config) Validate() error {
	if c.OurID == ids.EmptyNodeID {
		return ErrMissingOurID
	}
	if len(c.GenesisGroup) == 0 {
		return ErrEmptyGenesisGroup
	}
	found := false
	for _, id := range c.GenesisGroup {
		if id == c.OurID {
			found = true
			break
		}
	}
	if !found {
		return ErrOurIDNotInGenesis
	}
	return c.Parameters.Validate()
}
