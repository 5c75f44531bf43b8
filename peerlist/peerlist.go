// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package peerlist maintains the set of known peers and their membership
// states, assigns compact indices for use in ancestor maps, and exposes
// deterministic id-sorted iteration (§4.2). Membership itself is backed
// by github.com/luxfi/validators.Manager, the same library the teacher's
// own validator package re-exports (validator/validators.go); every peer
// is added with equal weight since PARSEC's joined/leaving/left model has
// no notion of stake. The library gives no ordering guarantee over its
// Set, so List still keeps its own id-sorted slice on top, purely for the
// ascending-iteration determinism §4.2 requires.
package peerlist

import (
	"sort"

	"github.com/luxfi/ids"
	"github.com/luxfi/validators"
)

// parsecGroup is the constant validators.Manager key PARSEC's peer set is
// tracked under. PARSEC has no subnet/chain concept of its own, so every
// deployment's single voter set lives under one fixed id rather than a
// real per-chain key.
var parsecGroup = ids.Empty

// State is a peer's membership state (§3, §4.2).
type State uint8

const (
	// Joining: voted into the genesis group or added by consensus, not
	// yet active.
	Joining State = iota
	// Joined: an active voter.
	Joined
	// Leaving: a Left vote has been cast for this peer but not yet
	// consensused.
	Leaving
	// Left: consensused as having left voluntarily.
	Left
	// Removed: consensused as removed by vote.
	Removed
	// Failed: observed failed by the simulator/embedder (not itself a
	// consensus state; local diagnostic only).
	Failed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Joining:
		return "Joining"
	case Joined:
		return "Joined"
	case Leaving:
		return "Leaving"
	case Left:
		return "Left"
	case Removed:
		return "Removed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsVoter reports whether a peer in this state counts toward the active
// voter set of a new election (§4.2 "Joined or Leaving state").
func (s State) IsVoter() bool {
	return s == Joined || s == Leaving
}

// Peer is one known peer: its id, membership state, and the ordered
// sequence of that peer's event hashes in creator order (§3).
type Peer struct {
	ID     ids.NodeID
	State  State
	Events []ids.ID // event hashes in creator-local sequence order
}

// List is the ordered set of known peers, indexed for compact
// representation in last_ancestors maps.
type List struct {
	mgr     validators.Manager
	peers   map[ids.NodeID]*Peer
	index   map[ids.NodeID]int // compact dense index, stable once assigned
	ordered []ids.NodeID       // index -> id
}

// New returns a List seeded with the given genesis group, each starting
// in the Joined state.
func New(genesisGroup []ids.NodeID) *List {
	l := &List{
		mgr:   validators.NewManager(),
		peers: make(map[ids.NodeID]*Peer),
		index: make(map[ids.NodeID]int),
	}
	sorted := append([]ids.NodeID(nil), genesisGroup...)
	sort.Slice(sorted, func(i, j int) bool { return lessID(sorted[i], sorted[j]) })
	for _, id := range sorted {
		l.add(id, Joined)
	}
	return l
}

func (l *List) add(id ids.NodeID, state State) *Peer {
	// Every PARSEC peer is an equal-weight validator; weight only exists
	// here because validators.Manager requires one, not because PARSEC
	// has a stake concept.
	_ = l.mgr.AddStaker(parsecGroup, id, nil, ids.Empty, 1)
	p := &Peer{ID: id, State: state}
	l.peers[id] = p
	l.index[id] = len(l.ordered)
	l.ordered = append(l.ordered, id)
	return p
}

// Get returns the Peer for id, or nil if unknown.
func (l *List) Get(id ids.NodeID) *Peer {
	return l.peers[id]
}

// Has reports whether id is known to the backing validators.Set,
// regardless of membership state.
func (l *List) Has(id ids.NodeID) bool {
	set, err := l.mgr.GetValidators(parsecGroup)
	if err != nil {
		return false
	}
	return set.Has(id)
}

// Index returns id's compact, stable index, used as the key dimension of
// last_ancestors vectors. ok is false if id is unknown.
func (l *List) Index(id ids.NodeID) (idx int, ok bool) {
	idx, ok = l.index[id]
	return idx, ok
}

// Join adds id in the Joining state if unknown; a no-op if already known.
func (l *List) Join(id ids.NodeID) *Peer {
	if p, ok := l.peers[id]; ok {
		return p
	}
	return l.add(id, Joining)
}

// SetState transitions id to state. It is the caller's responsibility
// (the owning Peer) to only call this in response to consensused
// Add/Remove/Left observations (§4.2).
func (l *List) SetState(id ids.NodeID, state State) {
	if p, ok := l.peers[id]; ok {
		p.State = state
	}
}

// RecordEvent appends hash to id's event sequence.
func (l *List) RecordEvent(id ids.NodeID, hash ids.ID) {
	if p, ok := l.peers[id]; ok {
		p.Events = append(p.Events, hash)
	}
}

// Ordered returns every known peer id in ascending sorted order,
// the determinism requirement for every derived set (§4.2).
func (l *List) Ordered() []ids.NodeID {
	out := append([]ids.NodeID(nil), l.ordered...)
	sort.Slice(out, func(i, j int) bool { return lessID(out[i], out[j]) })
	return out
}

// Voters returns, in ascending sorted order, every peer whose state
// counts toward the active voter set (Joined or Leaving).
func (l *List) Voters() []ids.NodeID {
	all := l.Ordered()
	out := all[:0:0]
	for _, id := range all {
		if l.peers[id].State.IsVoter() {
			out = append(out, id)
		}
	}
	return out
}

// Len reports the number of known peers, regardless of state. Falls back
// to the local count if the backing validators.Set can't be reached, so
// a zero-value or mid-construction List never reports a bogus 0.
func (l *List) Len() int {
	set, err := l.mgr.GetValidators(parsecGroup)
	if err != nil {
		return len(l.ordered)
	}
	return set.Len()
}

// Snapshot returns an independent copy of the current voter set,
// suitable for pinning as a MetaElection's voter set at start_index
// (§4.2 invariant: "the active voter set used by any meta-election is a
// snapshot taken at the election's start_index").
func (l *List) Snapshot() *VoterSet {
	voters := l.Voters()
	vs := &VoterSet{index: make(map[ids.NodeID]int, len(voters)), ordered: voters}
	for i, id := range voters {
		vs.index[id] = i
	}
	return vs
}

func lessID(a, b ids.NodeID) bool {
	return string(a[:]) < string(b[:])
}

// Supermajority reports the supermajority threshold (strictly more than
// two thirds) of n: the smallest k such that k > 2n/3.
func Supermajority(n int) int {
	return n*2/3 + 1
}
