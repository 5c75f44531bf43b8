// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metaevent defines the per-(event, election) derived record
// MetaEvent (§3, §4.3): observees, interesting_content, and per-voter
// meta-vote vectors. Grounded on original_source's
// meta_voting/meta_event.rs MetaEvent/MetaEventBuilder shape; the
// observee/interesting-content computation itself lives in package
// election, which owns the per-election state (interesting_events,
// voter set) the computation depends on.
package metaevent

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/metavote"
	"github.com/luxfi/parsec/observation"
)

// MetaEvent is the derived record attached to one event within one
// election (§3).
type MetaEvent struct {
	// Observees are peers whose "interesting" event this event strongly
	// sees in the current election.
	Observees map[ids.NodeID]struct{}

	// InterestingContent is the ordered list of ObservationKeys carried
	// by ancestors worth voting on (§4.1 step 3, §4.3 step 3).
	InterestingContent []observation.Key

	// MetaVotes maps each voter to its meta-vote vector as computed (or
	// inherited) at this event.
	MetaVotes map[ids.NodeID][]metavote.MetaVote
}

// New returns an empty MetaEvent ready for a Builder to populate.
func New() MetaEvent {
	return MetaEvent{
		Observees: make(map[ids.NodeID]struct{}),
		MetaVotes: make(map[ids.NodeID][]metavote.MetaVote),
	}
}

// IsObserver reports whether this event's observee count reaches
// supermajority, i.e. whether it triggers a fresh meta-vote entry
// (§4.3 step 2, §9 glossary "Observer event").
func (m MetaEvent) IsObserver(supermajority int) bool {
	return len(m.Observees) >= supermajority
}

// HasObservee reports whether peer is among this event's observees.
func (m MetaEvent) HasObservee(peer ids.NodeID) bool {
	_, ok := m.Observees[peer]
	return ok
}

// Builder accumulates a MetaEvent's fields before it is finalized,
// mirroring MetaEventBuilder's incremental set_observees /
// set_interesting_content / add_meta_votes / finish shape.
type Builder struct {
	meta MetaEvent
}

// NewBuilder returns a Builder for a fresh MetaEvent.
func NewBuilder() *Builder {
	return &Builder{meta: New()}
}

// SetObservees replaces the observee set.
func (b *Builder) SetObservees(observees map[ids.NodeID]struct{}) {
	b.meta.Observees = observees
}

// SetInterestingContent replaces the interesting-content list.
func (b *Builder) SetInterestingContent(content []observation.Key) {
	b.meta.InterestingContent = content
}

// AddMetaVotes records voter's meta-vote vector.
func (b *Builder) AddMetaVotes(voter ids.NodeID, votes []metavote.MetaVote) {
	b.meta.MetaVotes[voter] = votes
}

// Finish returns the completed MetaEvent.
func (b *Builder) Finish() MetaEvent {
	return b.meta
}
