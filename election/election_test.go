// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package election

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/parsec/coin"
	"github.com/luxfi/parsec/crypto"
	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/internal/mock"
	"github.com/luxfi/parsec/observation"
	"github.com/luxfi/parsec/peerlist"
)

// TestThreePeerGenesisVotesProcessed is a scaled-down slice of scenario
// S1: three peers insert their Initial events and all vote Genesis, and
// the driver processes every event. It does not go on to an opaque
// payload and does not assert on block timing (the tie-break and
// partial-gossip machinery is exercised more directly by the narrower
// unit tests below).
func TestThreePeerGenesisVotesProcessed(t *testing.T) {
	peers := mock.Peers(3)
	nodeIDs := mock.NodeIDs(peers)
	list := peerlist.New(nodeIDs)
	g := event.NewGraph(list)
	store := observation.NewStore()
	hasherInst := crypto.SHA256Hasher{}
	c := coin.NewMock([]byte("s1"))
	d := NewDriver(g, list, store, c, nil, nil)

	for _, p := range peers {
		initial, err := g.NewInitial(p.NodeID, p.Signer, hasherInst)
		require.NoError(t, err)
		d.Process(initial, observation.Supermajority)
	}

	genesis := observation.Genesis(nodeIDs)
	for _, p := range peers {
		e, err := g.NewObservation(p.NodeID, genesis, p.Signer, hasherInst)
		require.NoError(t, err)
		key := observation.SupermajorityKey(genesis.Hash(hasherInst))
		store.Insert(key, genesis, p.NodeID == peers[0].NodeID)
		d.Process(e, observation.Supermajority)
	}

	assert.NotZero(t, g.Len())
}

func TestStronglySeesRequiresSupermajorityWitnessDiversity(t *testing.T) {
	peers := mock.Peers(4)
	nodeIDs := mock.NodeIDs(peers)
	list := peerlist.New(nodeIDs)
	g := event.NewGraph(list)
	hasherInst := crypto.SHA256Hasher{}

	var initials []*event.Event
	for _, p := range peers {
		e, err := g.NewInitial(p.NodeID, p.Signer, hasherInst)
		require.NoError(t, err)
		initials = append(initials, e)
	}

	voters := list.Snapshot()
	// A peer's own initial event trivially sees itself but that alone
	// is only one witness, not a supermajority of 4 (needs 3).
	assert.False(t, StronglySees(g, initials[0], initials[0], voters))
}
