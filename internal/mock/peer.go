// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mock provides deterministic test identities, grounded on
// original_source's mock.rs NAMES table and its name -> deterministic
// keypair derivation. NOT FOR PRODUCTION USE.
package mock

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/crypto"
)

// Names mirrors mock.rs's NAMES constant: a fixed pool of peer names used
// to build reproducible test networks of up to len(Names) peers.
var Names = []string{
	"Alice", "Bob", "Carol", "Dave", "Eric", "Fred", "Gina", "Hank", "Iris", "Judy", "Kent",
	"Lucy", "Mike", "Nina", "Oran", "Paul", "Quin", "Rose", "Stan", "Tina", "Ulf", "Vera", "Will",
	"Xaviera", "Yakov", "Zaida", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
}

// Peer is a deterministic test identity: a NodeID derived from a name and
// a MockSigner keyed by that same name, so two peers built with the same
// name always compare equal and sign identically, matching PeerId::new's
// name -> same PeerId behavior.
type Peer struct {
	Name   string
	NodeID ids.NodeID
	Signer *crypto.MockSigner
}

// NewPeer derives a Peer deterministically from name.
func NewPeer(name string) *Peer {
	return &Peer{
		Name:   name,
		NodeID: nodeIDFromName(name),
		Signer: crypto.NewMockSigner(name),
	}
}

// nodeIDFromName hashes name into the fixed-width NodeID space, following
// the same "name -> deterministic identity" shape as PeerId::new, without
// reaching for a real signature scheme (out of scope per §1).
func nodeIDFromName(name string) ids.NodeID {
	h := crypto.SHA256Hasher{}.Hash([]byte("parsec-mock-node:" + name))
	var id ids.NodeID
	copy(id[:], h[:])
	return id
}

// Peers builds n deterministic peers by taking the first n names from
// Names, in order. n must not exceed len(Names); PARSEC test networks in
// this codebase never exceed that pool.
func Peers(n int) []*Peer {
	if n > len(Names) {
		n = len(Names)
	}
	peers := make([]*Peer, n)
	for i := 0; i < n; i++ {
		peers[i] = NewPeer(Names[i])
	}
	return peers
}

// NodeIDs extracts the NodeID of each peer, in the same order.
func NodeIDs(peers []*Peer) []ids.NodeID {
	out := make([]ids.NodeID, len(peers))
	for i, p := range peers {
		out[i] = p.NodeID
	}
	return out
}
