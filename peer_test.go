// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package parsec

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/parsec/coin"
	"github.com/luxfi/parsec/config"
	pcontext "github.com/luxfi/parsec/context"
	"github.com/luxfi/parsec/crypto"
	"github.com/luxfi/parsec/internal/mock"
	"github.com/luxfi/parsec/observation"
)

// network builds n Peers sharing one genesis group, each with every
// other peer's public key already known.
func network(t *testing.T, n int) ([]*mock.Peer, []*Peer) {
	t.Helper()
	mockPeers := mock.Peers(n)
	nodeIDs := mock.NodeIDs(mockPeers)

	keys := make(map[ids.NodeID][]byte, n)
	for _, mp := range mockPeers {
		keys[mp.NodeID] = mp.Signer.PublicKey()
	}

	c := coin.NewMock([]byte("network-seed"))
	var peers []*Peer
	for _, mp := range mockPeers {
		cfg := config.Config{
			OurID:         mp.NodeID,
			GenesisGroup:  nodeIDs,
			ConsensusMode: config.Supermajority,
			Parameters:    config.Local(),
		}
		ctx := pcontext.New(1, mp.NodeID, nil, nil)
		p, err := New(ctx, cfg, mp.Signer, crypto.MockVerifier{}, c, keys)
		require.NoError(t, err)
		peers = append(peers, p)
	}
	return mockPeers, peers
}

// gossipOnce has every peer initiate one round of gossip with every
// other peer, synchronously, fully draining request/response.
func gossipOnce(t *testing.T, mockPeers []*mock.Peer, peers []*Peer) {
	t.Helper()
	for i, from := range peers {
		for j, mp := range mockPeers {
			if i == j {
				continue
			}
			_, req, err := from.CreateGossip(mp.NodeID)
			require.NoError(t, err)
			resp, err := peers[j].HandleRequest(mockPeers[i].NodeID, req)
			require.NoError(t, err)
			require.NoError(t, from.HandleResponse(mp.NodeID, resp))
		}
	}
}

func TestThreePeerGenesisThenOpaquePayloadEmitsTwoBlocksEachPeer(t *testing.T) {
	mockPeers, peers := network(t, 3)
	nodeIDs := mock.NodeIDs(mockPeers)

	genesis := observation.Genesis(nodeIDs)
	for _, p := range peers {
		require.NoError(t, p.VoteFor(genesis))
	}
	for round := 0; round < 4; round++ {
		gossipOnce(t, mockPeers, peers)
	}

	payload := observation.OpaquePayload([]byte("x"))
	for _, p := range peers {
		require.NoError(t, p.VoteFor(payload))
	}
	for round := 0; round < 4; round++ {
		gossipOnce(t, mockPeers, peers)
	}

	for _, p := range peers {
		first, ok := p.Poll()
		require.True(t, ok, "expected a first block")
		assert.Equal(t, observation.KindGenesis, first.Payload.Kind)

		second, ok := p.Poll()
		require.True(t, ok, "expected a second block")
		assert.Equal(t, observation.KindOpaquePayload, second.Payload.Kind)
		assert.Equal(t, []byte("x"), second.Payload.Payload)

		_, ok = p.Poll()
		assert.False(t, ok)
	}
}

func TestVoteForRejectsDuplicateVote(t *testing.T) {
	_, peers := network(t, 2)
	payload := observation.OpaquePayload([]byte("z"))
	require.NoError(t, peers[0].VoteFor(payload))
	assert.ErrorIs(t, peers[0].VoteFor(payload), ErrDuplicateVote)
}

func TestCreateGossipPicksRecipientWhenUnspecified(t *testing.T) {
	_, peers := network(t, 2)
	recipient, _, err := peers[0].CreateGossip(ids.NodeID{})
	require.NoError(t, err)
	assert.NotEqual(t, ids.NodeID{}, recipient)
}
