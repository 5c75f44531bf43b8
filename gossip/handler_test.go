// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gossip

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/parsec/crypto"
	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/internal/mock"
	"github.com/luxfi/parsec/observation"
	"github.com/luxfi/parsec/peerlist"
)

// setup builds n peers, each with its own Graph/List/Handler over a
// shared genesis group, with every peer already knowing every other
// peer's public key (key distribution is out of scope per spec.md §1).
func setup(t *testing.T, n int) ([]*mock.Peer, []*event.Graph, []*Handler) {
	t.Helper()
	peers := mock.Peers(n)
	nodeIDs := mock.NodeIDs(peers)
	hasher := crypto.SHA256Hasher{}

	keys := make(map[ids.NodeID][]byte, n)
	for _, p := range peers {
		keys[p.NodeID] = p.Signer.PublicKey()
	}

	var graphs []*event.Graph
	var handlers []*Handler
	for _, p := range peers {
		l := peerlist.New(nodeIDs)
		g := event.NewGraph(l)
		_, err := g.NewInitial(p.NodeID, p.Signer, hasher)
		require.NoError(t, err)

		h := NewHandler(p.NodeID, g, l, p.Signer, crypto.MockVerifier{}, hasher, keys, nil, nil, nil, nil)
		graphs = append(graphs, g)
		handlers = append(handlers, h)
	}
	return peers, graphs, handlers
}

func TestCreateGossipRejectsSelfAndUnknown(t *testing.T) {
	peers, _, handlers := setup(t, 2)

	_, err := handlers[0].CreateGossip(peers[0].NodeID)
	assert.ErrorIs(t, err, ErrInvalidSelfState)

	stranger := mock.NewPeer("stranger")
	_, err = handlers[0].CreateGossip(stranger.NodeID)
	assert.ErrorIs(t, err, ErrUnknownPeer)
}

func TestRequestResponseRoundTripConvergesGraphs(t *testing.T) {
	peers, graphs, handlers := setup(t, 2)

	req, err := handlers[0].CreateGossip(peers[1].NodeID)
	require.NoError(t, err)
	require.Len(t, req.Events, 1) // peer 0's own Initial event

	resp, err := handlers[1].HandleRequest(peers[0].NodeID, req)
	require.NoError(t, err)

	require.NoError(t, handlers[0].HandleResponse(peers[1].NodeID, resp))

	// Both graphs now hold: two Initials, peer1's Request-caused event,
	// and peer0's Response-caused event.
	assert.Equal(t, 4, graphs[0].Len())
	assert.Equal(t, 4, graphs[1].Len())
}

func TestWireRoundTripPreservesObservationVote(t *testing.T) {
	peers, graphs, _ := setup(t, 1)
	hasher := crypto.SHA256Hasher{}

	genesis := mock.NodeIDs(peers)
	vote := observation.Genesis(genesis)
	e, err := graphs[0].NewObservation(peers[0].NodeID, vote, peers[0].Signer, hasher)
	require.NoError(t, err)

	req := Request{From: peers[0].NodeID, Events: []event.PackedEvent{event.Pack(e)}}
	buf := EncodeRequest(req)
	decoded, err := DecodeRequest(buf)
	require.NoError(t, err)

	require.Len(t, decoded.Events, 1)
	assert.Equal(t, vote.Kind, decoded.Events[0].Cause.Vote.Kind)
	assert.Equal(t, vote.Group, decoded.Events[0].Cause.Vote.Group)
}
