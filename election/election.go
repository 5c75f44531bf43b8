// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package election

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/metaevent"
	"github.com/luxfi/parsec/observation"
	"github.com/luxfi/parsec/peerlist"
)

// MetaElection is a decision context identified implicitly by its
// position in the driver's sequence (§3). Exactly one MetaElection is
// live at a time; elections never overlap (§9 glossary "Election").
type MetaElection struct {
	Voters *peerlist.VoterSet

	// StartIndex records, per creator, the creator-local index of the
	// first event considered "new" in this election (the live creator
	// event count at the moment the election started).
	StartIndex map[ids.NodeID]uint64

	// RoundHashes seeds common-coin salting per voter; round_hashes[0]
	// is derived from the last consensused block hash (or genesis).
	RoundHashes map[ids.NodeID][]ids.ID

	// InterestingEvents maps each voter to the events (in creator order)
	// that carry interesting content in this election.
	InterestingEvents map[ids.NodeID][]ids.ID

	// UnconsensusedEvents are ObservationCause events whose payload has
	// not yet been consensused, carried over across elections.
	UnconsensusedEvents map[ids.ID]struct{}

	// ConsensusHistory is the ordered list of decided payload keys,
	// growing across every election this driver has run.
	ConsensusHistory []observation.Key

	// MetaEvents is this election's per-event derived record store,
	// keyed by event hash. Discarded whole when the election closes
	// (§4.5 step 6).
	MetaEvents map[ids.ID]metaevent.MetaEvent

	// PayloadKey is set once this election decides.
	PayloadKey *observation.Key
}

// newMetaElection starts a fresh election snapshotting voters's current
// state, seeded from the prior election's carry-over state (§4.5 step 1,
// step 6).
func newMetaElection(voters *peerlist.VoterSet, startIndex map[ids.NodeID]uint64, seedHash ids.ID, unconsensused map[ids.ID]struct{}, history []observation.Key) *MetaElection {
	roundHashes := make(map[ids.NodeID][]ids.ID, voters.Len())
	for _, p := range voters.Ordered() {
		roundHashes[p] = []ids.ID{seedHash}
	}
	carried := make(map[ids.ID]struct{}, len(unconsensused))
	for h := range unconsensused {
		carried[h] = struct{}{}
	}
	return &MetaElection{
		Voters:              voters,
		StartIndex:          startIndex,
		RoundHashes:         roundHashes,
		InterestingEvents:   make(map[ids.NodeID][]ids.ID),
		UnconsensusedEvents: carried,
		ConsensusHistory:    append([]observation.Key(nil), history...),
		MetaEvents:          make(map[ids.ID]metaevent.MetaEvent),
	}
}

// Decided reports whether this election has selected a payload.
func (m *MetaElection) Decided() bool {
	return m.PayloadKey != nil
}

// ancestorInterestingContent returns the union of interesting-content
// keys already recorded on e's self_parent and other_parent meta-events,
// used to avoid re-surfacing payloads an ancestor already carried
// (§4.1 step 3 "filtered to payloads not already interesting content of
// E's ancestors").
func (m *MetaElection) ancestorInterestingContent(g *event.Graph, e *event.Event) map[observation.Key]struct{} {
	out := make(map[observation.Key]struct{})
	if sp := g.SelfParent(e); sp != nil {
		if me, ok := m.MetaEvents[sp.Hash]; ok {
			for _, k := range me.InterestingContent {
				out[k] = struct{}{}
			}
		}
	}
	if op := g.OtherParent(e); op != nil {
		if me, ok := m.MetaEvents[op.Hash]; ok {
			for _, k := range me.InterestingContent {
				out[k] = struct{}{}
			}
		}
	}
	return out
}
