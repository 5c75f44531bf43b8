// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package election implements the per-decision meta-election driver
// (§4.5): it orchestrates "strongly sees" evaluation, meta-event
// construction, the meta-voting state machine, block selection, and
// consensus_history. The driver shape follows a "set of in-flight work
// keyed by an identifying handle" idiom, repurposed from sampled-poll
// bookkeeping to PARSEC's single-election-at-a-time sequencing.
package election

import (
	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/peerlist"
)

// StronglySees reports whether e strongly sees f: e sees f, and the set
// of peers witnessing f through an ancestor of e that also sees f
// reaches a supermajority of voters (§3). For each voter p, the
// strongest candidate witness is p's own latest ancestor of e (p's chain
// is totally ordered and last_ancestors grows monotonically along it, so
// if that event doesn't see f no earlier p event can either).
func StronglySees(g *event.Graph, e, f *event.Event, voters *peerlist.VoterSet) bool {
	if !e.Sees(f) {
		return false
	}
	count := 0
	for _, p := range voters.Ordered() {
		idx, ok := e.LastAncestors[p]
		if !ok {
			continue
		}
		events := g.EventsByCreator(p)
		if idx >= uint64(len(events)) {
			continue
		}
		witness := events[idx]
		if witness.Sees(f) {
			count++
		}
	}
	return count >= voters.Supermajority()
}
