// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package peerlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/parsec/internal/mock"
)

func TestNewOrdersGenesisGroup(t *testing.T) {
	peers := mock.Peers(4)
	ids := mock.NodeIDs(peers)
	l := New(ids)

	require.Equal(t, 4, l.Len())
	ordered := l.Ordered()
	for i := 1; i < len(ordered); i++ {
		assert.False(t, lessID(ordered[i], ordered[i-1]))
	}
	for _, id := range ids {
		p := l.Get(id)
		require.NotNil(t, p)
		assert.Equal(t, Joined, p.State)
	}
}

func TestVotersExcludesNonVoterStates(t *testing.T) {
	peers := mock.Peers(3)
	nodeIDs := mock.NodeIDs(peers)
	l := New(nodeIDs)

	l.SetState(nodeIDs[0], Removed)
	l.SetState(nodeIDs[1], Leaving)

	voters := l.Voters()
	assert.Len(t, voters, 2)
	assert.Contains(t, voters, nodeIDs[1])
	assert.Contains(t, voters, nodeIDs[2])
	assert.NotContains(t, voters, nodeIDs[0])
}

func TestJoinIsIdempotentAndStartsJoining(t *testing.T) {
	peers := mock.Peers(2)
	nodeIDs := mock.NodeIDs(peers)
	l := New(nodeIDs[:1])

	p := l.Join(nodeIDs[1])
	assert.Equal(t, Joining, p.State)
	assert.Equal(t, 2, l.Len())

	p2 := l.Join(nodeIDs[1])
	assert.Same(t, p, p2)
	assert.Equal(t, 2, l.Len())
}

func TestSnapshotIsIndependentOfLaterMutation(t *testing.T) {
	peers := mock.Peers(3)
	nodeIDs := mock.NodeIDs(peers)
	l := New(nodeIDs)

	snap := l.Snapshot()
	require.Equal(t, 3, snap.Len())

	l.SetState(nodeIDs[0], Removed)
	// The live voter set shrinks...
	assert.Len(t, l.Voters(), 2)
	// ...but the earlier snapshot is untouched.
	assert.Equal(t, 3, snap.Len())
	assert.True(t, snap.Contains(nodeIDs[0]))
}

func TestSupermajority(t *testing.T) {
	assert.Equal(t, 3, Supermajority(3)) // >2/3 of 3 is >2, so 3
	assert.Equal(t, 3, Supermajority(4)) // >2/3 of 4 is >2.67, so 3
	assert.Equal(t, 4, Supermajority(5)) // >2/3 of 5 is >3.33, so 4
	assert.Equal(t, 7, Supermajority(10))
}
