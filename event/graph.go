// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/crypto"
	"github.com/luxfi/parsec/observation"
	"github.com/luxfi/parsec/peerlist"
)

// Graph is the append-only store of events for one peer: parent lookup,
// ancestor queries, and per-creator sequence (§4.1). A Graph is owned
// exclusively by the PARSEC peer that created it; there is no sharing
// between peers (§5).
type Graph struct {
	byHash    map[ids.ID]*Event
	byCreator map[ids.NodeID][]*Event // in creator-local index order
	peers     *peerlist.List
}

// NewGraph returns an empty Graph over peers. peers is consulted when
// computing last_ancestors (§4.1 step 2: "for each peer p in the known
// peer list").
func NewGraph(peers *peerlist.List) *Graph {
	return &Graph{
		byHash:    make(map[ids.ID]*Event),
		byCreator: make(map[ids.NodeID][]*Event),
		peers:     peers,
	}
}

// Get returns the event with the given hash, or nil if absent.
func (g *Graph) Get(hash ids.ID) *Event {
	return g.byHash[hash]
}

// Has reports whether hash is present in the graph.
func (g *Graph) Has(hash ids.ID) bool {
	_, ok := g.byHash[hash]
	return ok
}

// Len returns the total number of events stored.
func (g *Graph) Len() int {
	return len(g.byHash)
}

// EventsByCreator returns creator's events in creator-local index order.
// The returned slice must not be mutated by the caller.
func (g *Graph) EventsByCreator(creator ids.NodeID) []*Event {
	return g.byCreator[creator]
}

// LatestByCreator returns creator's highest-index event, or nil if
// creator has none yet.
func (g *Graph) LatestByCreator(creator ids.NodeID) *Event {
	evs := g.byCreator[creator]
	if len(evs) == 0 {
		return nil
	}
	return evs[len(evs)-1]
}

// SelfParent returns e's self_parent event, or nil if e is Initial.
func (g *Graph) SelfParent(e *Event) *Event {
	if !e.Cause.HasSelfParent() {
		return nil
	}
	return g.byHash[e.Cause.SelfParent]
}

// OtherParent returns e's other_parent event, or nil if e's cause has
// none.
func (g *Graph) OtherParent(e *Event) *Event {
	if !e.Cause.HasOtherParent() {
		return nil
	}
	return g.byHash[e.Cause.OtherParent]
}

// AncestorsByCreator returns, for each peer with an ancestor of e, that
// peer's highest-index ancestor event of e (a restatement of e's
// last_ancestors as concrete Event pointers, for callers that need to
// walk an ancestor rather than just compare indices).
func (g *Graph) AncestorsByCreator(e *Event) map[ids.NodeID]*Event {
	out := make(map[ids.NodeID]*Event, len(e.LastAncestors))
	for creator, idx := range e.LastAncestors {
		for _, candidate := range g.byCreator[creator] {
			if candidate.Index == idx {
				out[creator] = candidate
				break
			}
		}
	}
	return out
}

// Insert validates and stores a fully-derived (unpacked or locally built)
// event, computing its Index and LastAncestors from its parents (§4.1).
// It fails with ErrDuplicateEvent if e.Hash is already present, or
// ErrUnknownParent if a referenced parent is absent.
func (g *Graph) Insert(e *Event) error {
	if _, ok := g.byHash[e.Hash]; ok {
		return ErrDuplicateEvent
	}

	var self, other *Event
	if e.Cause.HasSelfParent() {
		var ok bool
		self, ok = g.byHash[e.Cause.SelfParent]
		if !ok {
			return ErrUnknownParent
		}
	}
	if e.Cause.HasOtherParent() {
		var ok bool
		other, ok = g.byHash[e.Cause.OtherParent]
		if !ok {
			return ErrUnknownParent
		}
	}

	index, lastAncestors := indexAndLastAncestors(e.Creator, self, other, g.peers)
	e.Index = index
	e.LastAncestors = lastAncestors

	g.byHash[e.Hash] = e
	g.byCreator[e.Creator] = append(g.byCreator[e.Creator], e)
	g.peers.RecordEvent(e.Creator, e.Hash)
	return nil
}

// indexAndLastAncestors implements the last_ancestors computation of
// §4.1: start from self_parent's vector (or {creator: 0} if Initial),
// fold in other_parent's vector entrywise-max when present, then stamp
// this event's own entry.
func indexAndLastAncestors(creator ids.NodeID, self, other *Event, peers *peerlist.List) (uint64, map[ids.NodeID]uint64) {
	result := make(map[ids.NodeID]uint64)

	var index uint64
	if self == nil {
		index = 0
	} else {
		index = self.Index + 1
		for p, idx := range self.LastAncestors {
			result[p] = idx
		}
	}

	if other != nil {
		for _, p := range peers.Ordered() {
			if idx, ok := other.LastAncestors[p]; ok {
				if cur, has := result[p]; !has || idx > cur {
					result[p] = idx
				}
			}
		}
	}

	result[creator] = index
	return index, result
}

// NewInitial builds, signs and inserts creator's Initial event.
func (g *Graph) NewInitial(creator ids.NodeID, signer crypto.Signer, hasher crypto.Hasher) (*Event, error) {
	e, err := build(creator, NewInitialCause(), signer, hasher)
	if err != nil {
		return nil, err
	}
	if err := g.Insert(e); err != nil {
		return nil, err
	}
	return e, nil
}

// NewObservation builds, signs and inserts a new ObservationCause event
// by creator, voting for o, with self_parent creator's latest event.
// Fails with ErrUnknownParent if creator has no prior event.
func (g *Graph) NewObservation(creator ids.NodeID, o observation.Observation, signer crypto.Signer, hasher crypto.Hasher) (*Event, error) {
	self := g.LatestByCreator(creator)
	if self == nil {
		return nil, ErrUnknownParent
	}
	e, err := build(creator, NewObservationCause(self.Hash, o), signer, hasher)
	if err != nil {
		return nil, err
	}
	if err := g.Insert(e); err != nil {
		return nil, err
	}
	return e, nil
}

// NewRequest builds, signs and inserts a new Request-caused event by
// creator, with self_parent creator's latest event and the given
// other_parent hash (the sender's latest event just inserted, §4.6).
func (g *Graph) NewRequest(creator ids.NodeID, otherParent ids.ID, signer crypto.Signer, hasher crypto.Hasher) (*Event, error) {
	self := g.LatestByCreator(creator)
	if self == nil {
		return nil, ErrUnknownParent
	}
	e, err := build(creator, NewRequestCause(self.Hash, otherParent), signer, hasher)
	if err != nil {
		return nil, err
	}
	if err := g.Insert(e); err != nil {
		return nil, err
	}
	return e, nil
}

// NewResponse mirrors NewRequest for a Response-caused event.
func (g *Graph) NewResponse(creator ids.NodeID, otherParent ids.ID, signer crypto.Signer, hasher crypto.Hasher) (*Event, error) {
	self := g.LatestByCreator(creator)
	if self == nil {
		return nil, ErrUnknownParent
	}
	e, err := build(creator, NewResponseCause(self.Hash, otherParent), signer, hasher)
	if err != nil {
		return nil, err
	}
	if err := g.Insert(e); err != nil {
		return nil, err
	}
	return e, nil
}
