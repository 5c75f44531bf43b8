// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package election

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/parsec/block"
	"github.com/luxfi/parsec/crypto"
	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/metaevent"
	"github.com/luxfi/parsec/metavote"
	"github.com/luxfi/parsec/metrics"
	"github.com/luxfi/parsec/observation"
	"github.com/luxfi/parsec/peerlist"
)

// hasher content-addresses observations consistently across the driver.
var hasher = crypto.SHA256Hasher{}

// Driver orchestrates the sequence of elections for one peer (§4.5): it
// incrementally computes meta-events as events are inserted, advances
// meta-votes, decides payloads, and emits blocks one at a time. The
// "set of in-flight work" driver idiom is adapted from many-concurrent-
// polls bookkeeping to PARSEC's one-election-at-a-time sequencing.
type Driver struct {
	graph *event.Graph
	peers *peerlist.List
	coin  metavote.Coin
	store *observation.Store

	current *MetaElection
	pending []block.Block // decided, not yet polled by the embedder

	log     log.Logger
	metrics *metrics.Metrics
}

// NewDriver returns a Driver over graph/peers/store, starting its first
// election immediately.
func NewDriver(g *event.Graph, peers *peerlist.List, store *observation.Store, c metavote.Coin, logger log.Logger, m *metrics.Metrics) *Driver {
	d := &Driver{graph: g, peers: peers, coin: c, store: store, log: logger, metrics: m}
	d.startElection(ids.ID{})
	return d
}

func (d *Driver) startElection(seedHash ids.ID) {
	voters := d.peers.Snapshot()
	startIndex := make(map[ids.NodeID]uint64, voters.Len())
	for _, p := range voters.Ordered() {
		startIndex[p] = uint64(len(d.graph.EventsByCreator(p)))
	}
	var unconsensused map[ids.ID]struct{}
	var history []observation.Key
	if d.current != nil {
		unconsensused = d.current.UnconsensusedEvents
		history = d.current.ConsensusHistory
	}
	d.current = newMetaElection(voters, startIndex, seedHash, unconsensused, history)
	if d.metrics != nil {
		d.metrics.ElectionsStarted.Inc()
	}
	if d.log != nil {
		d.log.Info("election started", "voters", voters.Len())
	}
}

// keyFor derives an observation's key using the event's own creator and
// the consensus mode embedded in the observation variant. opaqueMode is
// the peer-configured mode for OpaquePayload votes.
func (d *Driver) keyFor(e *event.Event, opaqueMode observation.Mode) (observation.Key, bool) {
	if !e.IsObservation() {
		return observation.Key{}, false
	}
	mode := e.Cause.Vote.DefaultMode(opaqueMode)
	hashVal := e.Cause.Vote.Hash(hasher)
	if mode == observation.Single {
		return observation.SingleKey(hashVal, e.Creator), true
	}
	return observation.SupermajorityKey(hashVal), true
}

// Process computes (or inherits) the MetaEvent for newly-inserted event
// e, advancing its meta-votes if it qualifies as an observer (§4.3,
// §4.4). It must be called once, in insertion order, for every event
// added to the graph.
func (d *Driver) Process(e *event.Event, opaqueMode observation.Mode) {
	el := d.current

	if e.IsObservation() {
		if key, ok := d.keyFor(e, opaqueMode); ok {
			if info := d.store.Get(key); info == nil || !info.Consensused {
				el.UnconsensusedEvents[e.Hash] = struct{}{}
			}
		}
	}

	alreadyInteresting := el.ancestorInterestingContent(d.graph, e)
	interesting := computeInterestingContent(d.graph, e, el.Voters, alreadyInteresting, func(f *event.Event) (observation.Key, bool) {
		key, ok := d.keyFor(f, opaqueMode)
		if !ok {
			return key, false
		}
		if info := d.store.Get(key); info != nil && info.Consensused {
			return key, false
		}
		return key, true
	})
	if len(interesting) > 0 {
		el.InterestingEvents[e.Creator] = append(el.InterestingEvents[e.Creator], e.Hash)
	}

	observees := computeObservees(d.graph, e, el.InterestingEvents, el.Voters)

	builder := metaevent.NewBuilder()
	builder.SetObservees(observees)
	builder.SetInterestingContent(interesting)

	if len(observees) >= el.Voters.Supermajority() {
		d.advanceMetaVotes(builder, e, el)
		if d.metrics != nil {
			d.metrics.ObserverEvents.Inc()
		}
	} else if sp := d.graph.SelfParent(e); sp != nil {
		if spMeta, ok := el.MetaEvents[sp.Hash]; ok {
			for voter, votes := range spMeta.MetaVotes {
				builder.AddMetaVotes(voter, votes)
			}
		}
	}

	el.MetaEvents[e.Hash] = builder.Finish()
	if d.metrics != nil {
		d.metrics.EventsInserted.Inc()
	}
}

// advanceMetaVotes computes, for every voter, the next meta-vote entry
// at observer event e, seeded by self_parent's vector and fed by the
// vectors of each other voter's latest event e strongly sees (§4.4).
func (d *Driver) advanceMetaVotes(builder *metaevent.Builder, e *event.Event, el *MetaElection) {
	sp := d.graph.SelfParent(e)
	var parentMeta metaevent.MetaEvent
	if sp != nil {
		parentMeta = el.MetaEvents[sp.Hash]
	}

	voters := el.Voters.Ordered()
	for i, voter := range voters {
		parent := parentMeta.MetaVotes[voter]
		if len(parent) == 0 {
			// No existing vector for this voter yet (e is the first
			// observer to consider them): start from an empty estimate,
			// fed entirely by others' vectors going forward.
			parent = []metavote.MetaVote{{}}
		}

		others := make([][]metavote.MetaVote, 0, len(voters)-1)
		for _, op := range voters {
			if op == voter {
				continue
			}
			if latest := d.latestStronglySeen(e, op, el); latest != nil {
				if opMeta, ok := el.MetaEvents[latest.Hash]; ok {
					if votes, ok := opMeta.MetaVotes[voter]; ok {
						others = append(others, votes)
					}
				}
			}
		}

		next := metavote.Next(parent, others, i, len(voters), d.coin)
		builder.AddMetaVotes(voter, next)
	}
}

// latestStronglySeen returns op's latest event that e strongly sees, or
// nil if none.
func (d *Driver) latestStronglySeen(e *event.Event, op ids.NodeID, el *MetaElection) *event.Event {
	events := d.graph.EventsByCreator(op)
	for i := len(events) - 1; i >= 0; i-- {
		if StronglySees(d.graph, e, events[i], el.Voters) {
			return events[i]
		}
	}
	return nil
}

// Decide checks whether the current election has reached a decision: a
// supermajority of voters carry decision=true for the same interesting
// payload (§4.5 step 3). On success it selects the payload (step 4),
// emits a block (step 5), and starts a new election (step 6).
func (d *Driver) Decide() bool {
	el := d.current
	if el.Decided() {
		return false
	}

	decidedTrueVoters := make(map[observation.Key]map[ids.NodeID]struct{})
	for _, me := range el.MetaEvents {
		for voter, votes := range me.MetaVotes {
			if len(votes) == 0 {
				continue
			}
			last := votes[len(votes)-1]
			if last.Decision == nil || !*last.Decision {
				continue
			}
			for _, key := range me.InterestingContent {
				if decidedTrueVoters[key] == nil {
					decidedTrueVoters[key] = make(map[ids.NodeID]struct{})
				}
				decidedTrueVoters[key][voter] = struct{}{}
			}
		}
	}

	for _, ordering := range d.electedVoterInterestingOrder(el) {
		for _, key := range ordering {
			if len(decidedTrueVoters[key]) >= el.Voters.Supermajority() {
				d.finalize(key)
				return true
			}
		}
	}
	return false
}

// electedVoterInterestingOrder returns each voter's interesting_content
// order, used to pick the tie-break payload deterministically (§4.5 step
// 4, §9 Open Question: "pin this to earliest in the elected voter's
// list"). Voters are tried in ascending id order so every honest peer
// converges on the same choice.
func (d *Driver) electedVoterInterestingOrder(el *MetaElection) [][]observation.Key {
	out := make([][]observation.Key, 0, el.Voters.Len())
	for _, voter := range el.Voters.Ordered() {
		var order []observation.Key
		for _, h := range el.InterestingEvents[voter] {
			if me, ok := el.MetaEvents[h]; ok {
				order = append(order, me.InterestingContent...)
			}
		}
		out = append(out, order)
	}
	return out
}

func (d *Driver) finalize(key observation.Key) {
	el := d.current
	el.PayloadKey = &key
	el.ConsensusHistory = append(el.ConsensusHistory, key)
	d.store.MarkConsensused(key)

	info := d.store.Get(key)
	var payload observation.Observation
	if info != nil {
		payload = info.Observation
	}

	var proofs []block.Proof
	for h := range el.UnconsensusedEvents {
		e := d.graph.Get(h)
		if e == nil || !e.IsObservation() {
			continue
		}
		if k, ok := d.keyFor(e, key.Mode); ok && k == key {
			proofs = append(proofs, block.Proof{Creator: e.Creator, Signature: e.Signature})
			delete(el.UnconsensusedEvents, h)
		}
	}

	b := block.New(payload, key, proofs)
	d.pending = append(d.pending, b)
	if d.metrics != nil {
		d.metrics.ElectionsDecided.Inc()
		d.metrics.BlocksEmitted.Inc()
	}
	if d.log != nil {
		d.log.Info("election decided", "key", key.String())
	}

	d.startElection(key.Hash)
}

// Poll returns the next stable block, if any (§6 "poll() -> Option<Block>").
func (d *Driver) Poll() (block.Block, bool) {
	if len(d.pending) == 0 {
		return block.Block{}, false
	}
	b := d.pending[0]
	d.pending = d.pending[1:]
	return b, true
}

// ConsensusHistory returns the full decided-payload sequence so far
// across every election this driver has run.
func (d *Driver) ConsensusHistory() []observation.Key {
	return append([]observation.Key(nil), d.current.ConsensusHistory...)
}
