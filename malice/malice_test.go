// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package malice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/parsec/crypto"
	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/internal/mock"
	"github.com/luxfi/parsec/observation"
	"github.com/luxfi/parsec/peerlist"
)

func TestCheckInsertDetectsFork(t *testing.T) {
	peers := mock.Peers(2)
	nodeIDs := mock.NodeIDs(peers)
	list := peerlist.New(nodeIDs)
	g := event.NewGraph(list)
	h := crypto.SHA256Hasher{}

	initial, err := g.NewInitial(peers[0].NodeID, peers[0].Signer, h)
	require.NoError(t, err)

	d := NewDetector(g, nil)
	findings := d.CheckInsert(initial, nil, nil, observation.Supermajority)
	assert.Empty(t, findings)

	vote1 := observation.OpaquePayload([]byte("a"))
	e1, err := g.NewObservation(peers[0].NodeID, vote1, peers[0].Signer, h)
	require.NoError(t, err)
	findings = d.CheckInsert(e1, nil, nil, observation.Supermajority)
	assert.Empty(t, findings)

	// A second event with the same self_parent as e1 (a fork): build it
	// by hand since Graph.NewObservation always chains off the latest.
	vote2 := observation.OpaquePayload([]byte("b"))
	forked, err := event.Build(peers[0].NodeID, event.NewObservationCause(initial.Hash, vote2), peers[0].Signer, h)
	require.NoError(t, err)
	require.NoError(t, g.Insert(forked))

	findings = d.CheckInsert(forked, nil, nil, observation.Supermajority)
	require.Len(t, findings, 1)
	assert.Equal(t, observation.MaliceFork, findings[0].Malice.Kind)
	assert.Equal(t, peers[0].NodeID, findings[0].Offender)
}

func TestCheckInsertDetectsDuplicateVote(t *testing.T) {
	peers := mock.Peers(1)
	nodeIDs := mock.NodeIDs(peers)
	list := peerlist.New(nodeIDs)
	g := event.NewGraph(list)
	h := crypto.SHA256Hasher{}
	d := NewDetector(g, nil)

	initial, err := g.NewInitial(peers[0].NodeID, peers[0].Signer, h)
	require.NoError(t, err)
	d.CheckInsert(initial, nil, nil, observation.Supermajority)

	vote := observation.OpaquePayload([]byte("z"))
	e1, err := g.NewObservation(peers[0].NodeID, vote, peers[0].Signer, h)
	require.NoError(t, err)
	assert.Empty(t, d.CheckInsert(e1, nil, nil, observation.Supermajority))

	e2, err := g.NewObservation(peers[0].NodeID, vote, peers[0].Signer, h)
	require.NoError(t, err)
	findings := d.CheckInsert(e2, nil, nil, observation.Supermajority)
	require.Len(t, findings, 1)
	assert.Equal(t, observation.MaliceDuplicateVote, findings[0].Malice.Kind)
}

func TestCheckInsertDetectsUnexpectedGenesis(t *testing.T) {
	peers := mock.Peers(2)
	nodeIDs := mock.NodeIDs(peers)
	list := peerlist.New(nodeIDs)
	g := event.NewGraph(list)
	h := crypto.SHA256Hasher{}
	d := NewDetector(g, nil)

	initial, err := g.NewInitial(peers[0].NodeID, peers[0].Signer, h)
	require.NoError(t, err)
	d.CheckInsert(initial, nodeIDs, nil, observation.Supermajority)

	// A correct first genesis vote draws no finding.
	genesis := observation.Genesis(nodeIDs)
	e1, err := g.NewObservation(peers[0].NodeID, genesis, peers[0].Signer, h)
	require.NoError(t, err)
	assert.Empty(t, d.CheckInsert(e1, nodeIDs, nil, observation.Supermajority))

	// A later, second genesis vote is always unexpected, and as a repeat
	// of the same payload key it is also a duplicate vote.
	e2, err := g.NewObservation(peers[0].NodeID, genesis, peers[0].Signer, h)
	require.NoError(t, err)
	findings := d.CheckInsert(e2, nodeIDs, nil, observation.Supermajority)
	require.Len(t, findings, 2)
	assert.Equal(t, observation.MaliceUnexpectedGenesis, findings[0].Malice.Kind)
	assert.Equal(t, observation.MaliceDuplicateVote, findings[1].Malice.Kind)
}

func TestCheckInsertDetectsInvalidGossipCreator(t *testing.T) {
	peers := mock.Peers(1)
	nodeIDs := mock.NodeIDs(peers)
	list := peerlist.New(nodeIDs)
	g := event.NewGraph(list)
	h := crypto.SHA256Hasher{}
	d := NewDetector(g, nil)

	stranger := mock.NewPeer("stranger")
	e, err := event.Build(stranger.NodeID, event.Cause{Kind: event.Initial}, stranger.Signer, h)
	require.NoError(t, err)
	require.NoError(t, g.Insert(e))

	findings := d.CheckInsert(e, nil, nodeIDs, observation.Supermajority)
	require.Len(t, findings, 1)
	assert.Equal(t, observation.MaliceInvalidGossipCreator, findings[0].Malice.Kind)
}

func TestCheckInsertDetectsInvalidRequest(t *testing.T) {
	peers := mock.Peers(3)
	nodeIDs := mock.NodeIDs(peers)
	list := peerlist.New(nodeIDs)
	g := event.NewGraph(list)
	h := crypto.SHA256Hasher{}
	d := NewDetector(g, nil)

	init0, err := g.NewInitial(peers[0].NodeID, peers[0].Signer, h)
	require.NoError(t, err)
	_, err = g.NewInitial(peers[1].NodeID, peers[1].Signer, h)
	require.NoError(t, err)
	init2, err := g.NewInitial(peers[2].NodeID, peers[2].Signer, h)
	require.NoError(t, err)

	// A Request-caused event claiming to be peers[1]'s, but chaining off
	// peers[0]'s self_parent: the self_parent chain must stay within one
	// creator. other_parent is peers[2]'s, a distinct creator, so this
	// exercises InvalidRequest alone rather than OtherParentBySameCreator.
	forged, err := event.Build(peers[1].NodeID, event.NewRequestCause(init0.Hash, init2.Hash), peers[1].Signer, h)
	require.NoError(t, err)
	require.NoError(t, g.Insert(forged))

	findings := d.CheckInsert(forged, nil, nil, observation.Supermajority)
	require.Len(t, findings, 1)
	assert.Equal(t, observation.MaliceInvalidRequest, findings[0].Malice.Kind)
	assert.Equal(t, peers[1].NodeID, findings[0].Offender)
}

func TestCheckInsertDetectsInvalidResponse(t *testing.T) {
	peers := mock.Peers(3)
	nodeIDs := mock.NodeIDs(peers)
	list := peerlist.New(nodeIDs)
	g := event.NewGraph(list)
	h := crypto.SHA256Hasher{}
	d := NewDetector(g, nil)

	init0, err := g.NewInitial(peers[0].NodeID, peers[0].Signer, h)
	require.NoError(t, err)
	_, err = g.NewInitial(peers[1].NodeID, peers[1].Signer, h)
	require.NoError(t, err)
	init2, err := g.NewInitial(peers[2].NodeID, peers[2].Signer, h)
	require.NoError(t, err)

	forged, err := event.Build(peers[1].NodeID, event.NewResponseCause(init0.Hash, init2.Hash), peers[1].Signer, h)
	require.NoError(t, err)
	require.NoError(t, g.Insert(forged))

	findings := d.CheckInsert(forged, nil, nil, observation.Supermajority)
	require.Len(t, findings, 1)
	assert.Equal(t, observation.MaliceInvalidResponse, findings[0].Malice.Kind)
	assert.Equal(t, peers[1].NodeID, findings[0].Offender)
}
