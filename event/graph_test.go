// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/parsec/crypto"
	"github.com/luxfi/parsec/internal/mock"
	"github.com/luxfi/parsec/observation"
	"github.com/luxfi/parsec/peerlist"
)

func newTestGraph(t *testing.T, n int) (*Graph, []*mock.Peer) {
	t.Helper()
	peers := mock.Peers(n)
	list := peerlist.New(mock.NodeIDs(peers))
	g := NewGraph(list)
	for _, p := range peers {
		_, err := g.NewInitial(p.NodeID, p.Signer, crypto.SHA256Hasher{})
		require.NoError(t, err)
	}
	return g, peers
}

func TestNewInitialSetsIndexZeroAndOwnAncestor(t *testing.T) {
	g, peers := newTestGraph(t, 1)
	e := g.LatestByCreator(peers[0].NodeID)
	require.NotNil(t, e)
	assert.Equal(t, uint64(0), e.Index)
	assert.Equal(t, uint64(0), e.LastAncestors[peers[0].NodeID])
	assert.True(t, e.IsInitial())
}

func TestDuplicateInitialRejected(t *testing.T) {
	g, peers := newTestGraph(t, 1)
	_, err := g.NewInitial(peers[0].NodeID, peers[0].Signer, crypto.SHA256Hasher{})
	assert.ErrorIs(t, err, ErrDuplicateEvent)
}

func TestObservationAdvancesIndexAndInheritsAncestors(t *testing.T) {
	g, peers := newTestGraph(t, 1)
	e1, err := g.NewObservation(peers[0].NodeID, observation.OpaquePayload([]byte("a")), peers[0].Signer, crypto.SHA256Hasher{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), e1.Index)
	assert.Equal(t, uint64(1), e1.LastAncestors[peers[0].NodeID])
}

func TestSeesReflectsAncestry(t *testing.T) {
	g, peers := newTestGraph(t, 2)
	a := g.LatestByCreator(peers[0].NodeID)
	b := g.LatestByCreator(peers[1].NodeID)
	assert.False(t, a.Sees(b))
	assert.False(t, b.Sees(a))

	// Gossip: peer 1 learns of peer 0's initial event via a Request.
	req, err := g.NewRequest(peers[1].NodeID, a.Hash, peers[1].Signer, crypto.SHA256Hasher{})
	require.NoError(t, err)
	assert.True(t, req.Sees(a))
	assert.True(t, req.Sees(b))
}

func TestInsertUnknownParentFails(t *testing.T) {
	g, peers := newTestGraph(t, 1)
	bogus := Cause{Kind: ObservationCause, SelfParent: idOf("nonexistent")}
	e, err := build(peers[0].NodeID, bogus, peers[0].Signer, crypto.SHA256Hasher{})
	require.NoError(t, err)
	err = g.Insert(e)
	assert.ErrorIs(t, err, ErrUnknownParent)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	g, peers := newTestGraph(t, 1)
	e1, err := g.NewObservation(peers[0].NodeID, observation.OpaquePayload([]byte("roundtrip")), peers[0].Signer, crypto.SHA256Hasher{})
	require.NoError(t, err)

	packed := Pack(e1)
	unpacked, err := Unpack(packed, crypto.MockVerifier{}, peers[0].Signer.PublicKey(), crypto.SHA256Hasher{})
	require.NoError(t, err)
	assert.Equal(t, e1.Hash, unpacked.Hash)
	assert.Equal(t, e1.Creator, unpacked.Creator)
}

func TestUnpackRejectsBadSignature(t *testing.T) {
	g, peers := newTestGraph(t, 1)
	e1, err := g.NewObservation(peers[0].NodeID, observation.OpaquePayload([]byte("tampered")), peers[0].Signer, crypto.SHA256Hasher{})
	require.NoError(t, err)

	packed := Pack(e1)
	packed.Signature = []byte("not-a-real-signature")
	_, err = Unpack(packed, crypto.MockVerifier{}, peers[0].Signer.PublicKey(), crypto.SHA256Hasher{})
	assert.ErrorIs(t, err, ErrSignatureFailure)
}

func idOf(s string) (h ids.ID) {
	copy(h[:], s)
	return h
}
