// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package diag provides peer-local diagnostic counters: never
// serialized, never gossiped, read only by the owning peer itself or an
// embedder inspecting it directly. Grounded on original_source's
// dump_graph.rs, which dumps graph/meta-election state to disk behind a
// "dump-graphs" Cargo feature flag that is a no-op when the feature is
// off and never causes a test or run to fail. Go has no compile-time
// feature flags without build tags, so this package substitutes a
// runtime Enabled bool: counters always accumulate (cheap atomic adds),
// but LogSnapshot is a no-op unless the embedder opts in, matching
// dump_graph.rs's "never fail, never panic, no-op when disabled"
// contract.
package diag

import (
	"sync/atomic"

	"github.com/luxfi/log"
)

// Counters accumulates peer-local event counts for local diagnostics.
// All fields are safe for concurrent use.
type Counters struct {
	Enabled bool

	eventsInserted      int64
	maliceFindings      int64
	unprovableSignals   int64
	blocksDecided       int64
	gossipRequestsSent  int64
	gossipRequestsRecv  int64
	gossipResponsesSent int64
	gossipResponsesRecv int64
}

// New returns a Counters that accumulates regardless of enabled;
// enabled only gates whether LogSnapshot actually writes anything.
func New(enabled bool) *Counters {
	return &Counters{Enabled: enabled}
}

func (c *Counters) EventInserted()      { atomic.AddInt64(&c.eventsInserted, 1) }
func (c *Counters) MaliceFinding()      { atomic.AddInt64(&c.maliceFindings, 1) }
func (c *Counters) UnprovableSignal()   { atomic.AddInt64(&c.unprovableSignals, 1) }
func (c *Counters) BlockDecided()       { atomic.AddInt64(&c.blocksDecided, 1) }
func (c *Counters) GossipRequestSent()  { atomic.AddInt64(&c.gossipRequestsSent, 1) }
func (c *Counters) GossipRequestRecv()  { atomic.AddInt64(&c.gossipRequestsRecv, 1) }
func (c *Counters) GossipResponseSent() { atomic.AddInt64(&c.gossipResponsesSent, 1) }
func (c *Counters) GossipResponseRecv() { atomic.AddInt64(&c.gossipResponsesRecv, 1) }

// Snapshot returns a point-in-time copy of every counter, named the way
// LogSnapshot logs them.
func (c *Counters) Snapshot() map[string]int64 {
	return map[string]int64{
		"events_inserted":       atomic.LoadInt64(&c.eventsInserted),
		"malice_findings":       atomic.LoadInt64(&c.maliceFindings),
		"unprovable_signals":    atomic.LoadInt64(&c.unprovableSignals),
		"blocks_decided":        atomic.LoadInt64(&c.blocksDecided),
		"gossip_requests_sent":  atomic.LoadInt64(&c.gossipRequestsSent),
		"gossip_requests_recv":  atomic.LoadInt64(&c.gossipRequestsRecv),
		"gossip_responses_sent": atomic.LoadInt64(&c.gossipResponsesSent),
		"gossip_responses_recv": atomic.LoadInt64(&c.gossipResponsesRecv),
	}
}

// LogSnapshot writes the current counters to logger at Info level, or
// does nothing if c is nil or diagnostics are disabled — mirroring
// dump_graph.rs's to_file, which is a guaranteed no-op with the
// dump-graphs feature off.
func (c *Counters) LogSnapshot(logger log.Logger) {
	if c == nil || !c.Enabled || logger == nil {
		return
	}
	snap := c.Snapshot()
	args := make([]interface{}, 0, 2*len(snap))
	for _, k := range []string{
		"events_inserted", "malice_findings", "unprovable_signals", "blocks_decided",
		"gossip_requests_sent", "gossip_requests_recv", "gossip_responses_sent", "gossip_responses_recv",
	} {
		args = append(args, k, snap[k])
	}
	logger.Info("diagnostic snapshot", args...)
}
