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
	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/internal/mock"
	"github.com/luxfi/parsec/malice"
	"github.com/luxfi/parsec/observation"
)

// networkWithMode mirrors the network helper in peer_test.go, but lets
// the caller pick the consensus mode (needed for scenario S4).
func networkWithMode(t *testing.T, n int, mode config.ConsensusMode) ([]*mock.Peer, []*Peer) {
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
			ConsensusMode: mode,
			Parameters:    config.Local(),
		}
		ctx := pcontext.New(1, mp.NodeID, nil, nil)
		p, err := New(ctx, cfg, mp.Signer, crypto.MockVerifier{}, c, keys)
		require.NoError(t, err)
		peers = append(peers, p)
	}
	return mockPeers, peers
}

// TestForkByOnePeerIsAccusedByItsGossipPartner covers scenario S3: a
// Byzantine peer forks (two events sharing one self_parent), and the
// peer it gossips the fork to detects it as provable malice.
func TestForkByOnePeerIsAccusedByItsGossipPartner(t *testing.T) {
	mockPeers, peers := network(t, 2)
	nodeIDs := mock.NodeIDs(mockPeers)

	genesis := observation.Genesis(nodeIDs)
	for _, p := range peers {
		require.NoError(t, p.VoteFor(genesis))
	}
	for round := 0; round < 3; round++ {
		gossipOnce(t, mockPeers, peers)
	}

	byzantine := peers[0]
	initial := byzantine.graph.EventsByCreator(byzantine.cfg.OurID)[0]

	require.NoError(t, byzantine.VoteFor(observation.OpaquePayload([]byte("a"))))

	forkVote := observation.OpaquePayload([]byte("b"))
	forked, err := event.Build(byzantine.cfg.OurID, event.NewObservationCause(initial.Hash, forkVote), byzantine.ownSigner, byzantine.hasher)
	require.NoError(t, err)
	require.NoError(t, byzantine.graph.Insert(forked))
	byzantine.onInserted(forked)

	// Gossip the Byzantine peer's full graph (both forked events) to its
	// partner.
	_, req, err := byzantine.CreateGossip(mockPeers[1].NodeID)
	require.NoError(t, err)
	resp, err := peers[1].HandleRequest(mockPeers[0].NodeID, req)
	require.NoError(t, err)
	require.NoError(t, byzantine.HandleResponse(mockPeers[1].NodeID, resp))

	var sawFork bool
	for _, f := range peers[1].UnpolledAccusations() {
		if f.Malice.Kind == observation.MaliceFork && f.Offender == byzantine.cfg.OurID {
			sawFork = true
		}
	}
	assert.True(t, sawFork, "expected peer 1 to accuse peer 0 of Fork")
}

// gossipAmong has every peer at an index in online initiate one round of
// gossip with every other online peer, synchronously. Peers absent from
// online (a crashed validator) neither send nor receive anything.
func gossipAmong(t *testing.T, mockPeers []*mock.Peer, peers []*Peer, online []int) {
	t.Helper()
	for _, i := range online {
		from := peers[i]
		for _, j := range online {
			if i == j {
				continue
			}
			_, req, err := from.CreateGossip(mockPeers[j].NodeID)
			require.NoError(t, err)
			resp, err := peers[j].HandleRequest(mockPeers[i].NodeID, req)
			require.NoError(t, err)
			require.NoError(t, from.HandleResponse(mockPeers[j].NodeID, resp))
		}
	}
}

// TestConsensusProceedsWithoutACrashedPeer covers scenario S2: a 4-peer
// genesis group where one validator never votes or gossips still lets
// the remaining three decide both blocks, since Supermajority(4) == 3 is
// reachable entirely among online peers.
func TestConsensusProceedsWithoutACrashedPeer(t *testing.T) {
	mockPeers, peers := network(t, 4)
	nodeIDs := mock.NodeIDs(mockPeers)
	online := []int{0, 1, 2} // peers[3] crashes before ever voting or gossiping

	genesis := observation.Genesis(nodeIDs)
	for _, i := range online {
		require.NoError(t, peers[i].VoteFor(genesis))
	}
	for round := 0; round < 4; round++ {
		gossipAmong(t, mockPeers, peers, online)
	}

	payload := observation.OpaquePayload([]byte("s2"))
	for _, i := range online {
		require.NoError(t, peers[i].VoteFor(payload))
	}
	for round := 0; round < 4; round++ {
		gossipAmong(t, mockPeers, peers, online)
	}

	for _, i := range online {
		first, ok := peers[i].Poll()
		require.True(t, ok, "expected a first block")
		assert.Equal(t, observation.KindGenesis, first.Payload.Kind)

		second, ok := peers[i].Poll()
		require.True(t, ok, "expected a second block")
		assert.Equal(t, observation.KindOpaquePayload, second.Payload.Kind)
		assert.Equal(t, []byte("s2"), second.Payload.Payload)
	}

	_, ok := peers[3].Poll()
	assert.False(t, ok, "crashed peer never gossiped, so it never learns of any decision")
}

// TestAccusationVoteForSurfacedFindingIsDecided exercises the
// embedder's end of the Fork/Accusation loop: a malice finding surfaced
// through UnpolledAccusations is turned into a VoteFor(Accusation)
// observation by the non-offending peer, gossips out, and is decided
// like any other payload.
func TestAccusationVoteForSurfacedFindingIsDecided(t *testing.T) {
	mockPeers, peers := network(t, 2)
	nodeIDs := mock.NodeIDs(mockPeers)

	genesis := observation.Genesis(nodeIDs)
	for _, p := range peers {
		require.NoError(t, p.VoteFor(genesis))
	}
	for round := 0; round < 3; round++ {
		gossipOnce(t, mockPeers, peers)
	}

	byzantine := peers[0]
	initial := byzantine.graph.EventsByCreator(byzantine.cfg.OurID)[0]
	require.NoError(t, byzantine.VoteFor(observation.OpaquePayload([]byte("a"))))

	forkVote := observation.OpaquePayload([]byte("b"))
	forked, err := event.Build(byzantine.cfg.OurID, event.NewObservationCause(initial.Hash, forkVote), byzantine.ownSigner, byzantine.hasher)
	require.NoError(t, err)
	require.NoError(t, byzantine.graph.Insert(forked))
	byzantine.onInserted(forked)

	_, req, err := byzantine.CreateGossip(mockPeers[1].NodeID)
	require.NoError(t, err)
	resp, err := peers[1].HandleRequest(mockPeers[0].NodeID, req)
	require.NoError(t, err)
	require.NoError(t, byzantine.HandleResponse(mockPeers[1].NodeID, resp))

	var finding *malice.Finding
	for _, f := range peers[1].UnpolledAccusations() {
		if f.Malice.Kind == observation.MaliceFork {
			f := f
			finding = &f
		}
	}
	require.NotNil(t, finding, "peer 1 must have surfaced the fork finding before it can vote an accusation")

	require.NoError(t, peers[1].VoteFor(observation.NewAccusation(finding.Offender, finding.Malice)))
	for round := 0; round < 4; round++ {
		gossipOnce(t, mockPeers, peers)
	}

	var sawAccusationBlock bool
	for _, p := range []*Peer{peers[1]} {
		for {
			b, ok := p.Poll()
			if !ok {
				break
			}
			if b.Payload.Kind == observation.KindAccusation && b.Payload.Offender == finding.Offender {
				sawAccusationBlock = true
			}
		}
	}
	assert.True(t, sawAccusationBlock, "expected the accusation vote to be decided like any other payload")
}

// TestSingleConsensusModeKeepsPerCreatorVotesDistinct covers scenario
// S4: under config.Single, two creators voting an equal opaque payload
// are tracked as distinct candidates, so one creator's vote never
// satisfies the other's.
func TestSingleConsensusModeKeepsPerCreatorVotesDistinct(t *testing.T) {
	mp, peers := networkWithMode(t, 2, config.Single)
	nodeIDs := mock.NodeIDs(mp)

	genesis := observation.Genesis(nodeIDs)
	for _, p := range peers {
		require.NoError(t, p.VoteFor(genesis))
	}
	for round := 0; round < 3; round++ {
		gossipOnce(t, mp, peers)
	}

	payload := observation.OpaquePayload([]byte("same-bytes"))
	require.NoError(t, peers[0].VoteFor(payload))
	require.NoError(t, peers[1].VoteFor(payload))

	key0, ok0 := peers[0].keyFor(peers[0].graph.LatestByCreator(peers[0].cfg.OurID))
	key1, ok1 := peers[1].keyFor(peers[1].graph.LatestByCreator(peers[1].cfg.OurID))
	require.True(t, ok0)
	require.True(t, ok1)
	assert.NotEqual(t, key0, key1, "Single mode must key equal payloads by creator too")
}
