// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package observation

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/crypto"
)

// Key identifies a voteable payload: either Supermajority(hash), shared by
// every creator who votes for identical content, or Single(hash,
// creator), distinct per creator even for identical content (§3).
type Key struct {
	Mode    Mode
	Hash    crypto.Hash
	Creator ids.NodeID // meaningful only when Mode == Single
}

// SupermajorityKey builds a Supermajority-mode key over hash.
func SupermajorityKey(hash crypto.Hash) Key {
	return Key{Mode: Supermajority, Hash: hash}
}

// SingleKey builds a Single-mode key over hash, scoped to creator.
func SingleKey(hash crypto.Hash, creator ids.NodeID) Key {
	return Key{Mode: Single, Hash: hash, Creator: creator}
}

// NewKey derives the key for o as voted by creator, under the given
// configured opaque-payload mode, following o.DefaultMode's mode
// selection (§6 "consensus_mode governs opaque payloads only").
func NewKey(o Observation, creator ids.NodeID, h crypto.Hasher, configuredOpaqueMode Mode) Key {
	hash := o.Hash(h)
	mode := o.DefaultMode(configuredOpaqueMode)
	if mode == Single {
		return SingleKey(hash, creator)
	}
	return SupermajorityKey(hash)
}

// String implements fmt.Stringer, mainly for log fields and test output.
func (k Key) String() string {
	if k.Mode == Single {
		return fmt.Sprintf("Single(%s,%s)", k.Hash, k.Creator)
	}
	return fmt.Sprintf("Supermajority(%s)", k.Hash)
}
