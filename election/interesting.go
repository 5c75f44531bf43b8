// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package election

import (
	"sort"

	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/observation"
	"github.com/luxfi/parsec/peerlist"
)

// computeObservees returns the set of peers whose "interesting" event e
// strongly sees in this election (§4.3 step 1): peer p is an observee of
// e iff some ancestor F of e, created by p, carries interesting content,
// and e strongly sees F.
func computeObservees(g *event.Graph, e *event.Event, interestingEvents map[ids.NodeID][]ids.ID, voters *peerlist.VoterSet) map[ids.NodeID]struct{} {
	observees := make(map[ids.NodeID]struct{})
	for p, hashes := range interestingEvents {
		for _, h := range hashes {
			f := g.Get(h)
			if f == nil {
				continue
			}
			if StronglySees(g, e, f, voters) {
				observees[p] = struct{}{}
				break
			}
		}
	}
	return observees
}

// computeInterestingContent returns the ordered list of ObservationKeys
// e contributes as "interesting" (§4.1 step 3, §4.3 step 3): keys voted
// for by unconsensused events e strongly sees, excluding keys already
// present in alreadyInteresting (the caller passes the union of
// self_parent's and other_parent's interesting_content), ordered by e.Creator's
// own voting order first, then by a deterministic cross-peer comparator
// (payload hash then peer id) for keys voted by other creators.
func computeInterestingContent(
	g *event.Graph,
	e *event.Event,
	voters *peerlist.VoterSet,
	alreadyInteresting map[observation.Key]struct{},
	keyOf func(*event.Event) (observation.Key, bool),
) []observation.Key {
	type candidate struct {
		key     observation.Key
		creator ids.NodeID
		order   int // creator's own vote order, if creator == e.Creator
	}

	seen := make(map[observation.Key]struct{}, len(alreadyInteresting))
	for k := range alreadyInteresting {
		seen[k] = struct{}{}
	}

	var ownCandidates []candidate
	var otherCandidates []candidate

	ownOrder := 0
	for _, f := range g.EventsByCreator(e.Creator) {
		if !f.IsObservation() || !StronglySees(g, e, f, voters) {
			continue
		}
		key, ok := keyOf(f)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ownCandidates = append(ownCandidates, candidate{key: key, creator: e.Creator, order: ownOrder})
		ownOrder++
	}

	for _, p := range voters.Ordered() {
		if p == e.Creator {
			continue
		}
		for _, f := range g.EventsByCreator(p) {
			if !f.IsObservation() {
				continue
			}
			if !StronglySees(g, e, f, voters) {
				continue
			}
			key, ok := keyOf(f)
			if !ok {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			otherCandidates = append(otherCandidates, candidate{key: key, creator: p})
		}
	}

	sort.Slice(otherCandidates, func(i, j int) bool {
		a, b := otherCandidates[i], otherCandidates[j]
		if a.key.Hash != b.key.Hash {
			return lessHash(a.key.Hash, b.key.Hash)
		}
		return lessNodeID(a.creator, b.creator)
	})

	out := make([]observation.Key, 0, len(ownCandidates)+len(otherCandidates))
	for _, c := range ownCandidates {
		out = append(out, c.key)
	}
	for _, c := range otherCandidates {
		out = append(out, c.key)
	}
	return out
}

func lessHash(a, b ids.ID) bool {
	return string(a[:]) < string(b[:])
}

func lessNodeID(a, b ids.NodeID) bool {
	return string(a[:]) < string(b[:])
}
