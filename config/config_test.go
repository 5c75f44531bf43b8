// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func TestParametersValidate(t *testing.T) {
	tests := []struct {
		name          string
		params        Parameters
		expectedError error
	}{
		{
			name:          "local preset valid",
			params:        Local(),
			expectedError: nil,
		},
		{
			name:          "testnet preset valid",
			params:        Testnet(),
			expectedError: nil,
		},
		{
			name:          "mainnet preset valid",
			params:        Mainnet(),
			expectedError: nil,
		},
		{
			name: "zero max events per gossip message",
			params: Parameters{
				MaxEventsPerGossipMessage: 0,
			},
			expectedError: ErrInvalidMaxEventsPerGossipMessage,
		},
		{
			name: "negative gossip fan out",
			params: Parameters{
				MaxEventsPerGossipMessage: 1,
				GossipFanOut:              -1,
			},
			expectedError: ErrInvalidGossipFanOut,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expectedError, tt.params.Validate())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	alice := ids.GenerateTestNodeID()
	bob := ids.GenerateTestNodeID()

	valid := Config{
		OurID:         alice,
		GenesisGroup:  []ids.NodeID{alice, bob},
		ConsensusMode: Supermajority,
		Parameters:    Local(),
	}
	require.NoError(t, valid.Validate())

	t.Run("missing our id", func(t *testing.T) {
		cfg := valid
		cfg.OurID = ids.EmptyNodeID
		require.ErrorIs(t, cfg.Validate(), ErrMissingOurID)
	})

	t.Run("empty genesis group", func(t *testing.T) {
		cfg := valid
		cfg.GenesisGroup = nil
		require.ErrorIs(t, cfg.Validate(), ErrEmptyGenesisGroup)
	})

	t.Run("our id not in genesis", func(t *testing.T) {
		cfg := valid
		cfg.GenesisGroup = []ids.NodeID{bob}
		require.ErrorIs(t, cfg.Validate(), ErrOurIDNotInGenesis)
	})
}

func TestConsensusModeString(t *testing.T) {
	require.Equal(t, "supermajority", Supermajority.String())
	require.Equal(t, "single", Single.String())
	require.Equal(t, "unknown", ConsensusMode(99).String())
}
