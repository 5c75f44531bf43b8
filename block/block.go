// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package block packages decided observations with their signatory
// proofs into the consensus output stream (§4.9, §3 "Consensus output").
package block

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/observation"
)

// Proof is one voter's signature attesting to having voted for a
// block's payload.
type Proof struct {
	Creator   ids.NodeID
	Signature []byte
}

// Block is one consensused payload plus the proofs collected from every
// event that voted for it (§3 ObservationInfo, §8 invariant 3 and 6).
type Block struct {
	Payload observation.Observation
	Key     observation.Key
	Proofs  []Proof
}

// New builds a Block, sorting proofs by creator for deterministic
// serialization and comparison across peers.
func New(payload observation.Observation, key observation.Key, proofs []Proof) Block {
	sorted := append([]Proof(nil), proofs...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && lessNodeID(sorted[j].Creator, sorted[j-1].Creator); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return Block{Payload: payload, Key: key, Proofs: sorted}
}

// Signatories returns the creators of every proof, in sorted order.
func (b Block) Signatories() []ids.NodeID {
	out := make([]ids.NodeID, len(b.Proofs))
	for i, p := range b.Proofs {
		out[i] = p.Creator
	}
	return out
}

func lessNodeID(a, b ids.NodeID) bool {
	return string(a[:]) < string(b[:])
}
