// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package peerlist

import "github.com/luxfi/ids"

// VoterSet is an immutable snapshot of the peers counted toward a single
// election's supermajority thresholds (§4.2). Elections never mutate the
// live List; they hold a VoterSet captured at start_index instead.
type VoterSet struct {
	index   map[ids.NodeID]int
	ordered []ids.NodeID
}

// Contains reports whether id was a voter at snapshot time.
func (vs *VoterSet) Contains(id ids.NodeID) bool {
	_, ok := vs.index[id]
	return ok
}

// Len returns the number of voters in the snapshot.
func (vs *VoterSet) Len() int {
	return len(vs.ordered)
}

// Ordered returns the voter ids in ascending sorted order.
func (vs *VoterSet) Ordered() []ids.NodeID {
	return append([]ids.NodeID(nil), vs.ordered...)
}

// Supermajority returns the supermajority threshold for this voter set.
func (vs *VoterSet) Supermajority() int {
	return Supermajority(len(vs.ordered))
}
