// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package malice implements the provable-malice checks run at event
// insertion (§4.7): Fork, UnexpectedGenesis, MissingGenesis,
// IncorrectGenesis, DuplicateVote, InvalidAccusation,
// OtherParentBySameCreator, InvalidRequest, InvalidResponse, plus the
// wire-layer StaleOtherParent and InvalidGossipCreator checks (see
// DESIGN.md). One detector struct runs every invariant and accumulates
// findings, adapted to PARSEC's per-event provable-malice model.
package malice

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/parsec/crypto"
	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/observation"
)

var hasher = crypto.SHA256Hasher{}

// Finding is one detected instance of malice, ready to become an
// Accusation vote.
type Finding struct {
	Offender ids.NodeID
	Malice   observation.Malice
}

// Detector runs the provable-malice checks over a graph as new events
// are inserted. It is owned by the same peer that owns the Graph it
// watches; there is no cross-peer sharing (§5).
type Detector struct {
	graph       *event.Graph
	genesisSeen map[ids.NodeID]ids.ID // creator -> the Genesis-voting event hash we've already approved, for IncorrectGenesis/UnexpectedGenesis bookkeeping
	selfParents map[ids.ID]ids.ID     // self_parent hash -> one child hash already seen, for Fork detection
	votedKeys   map[ids.NodeID]map[observation.Key]struct{}

	unprovable []string // local-diagnostic-only findings (§4.7 "never serialized")
	log        log.Logger
}

// NewDetector returns a Detector over g. The genesis group the genesis
// checks compare against is passed per event to CheckInsert.
func NewDetector(g *event.Graph, logger log.Logger) *Detector {
	return &Detector{
		graph:       g,
		genesisSeen: make(map[ids.NodeID]ids.ID),
		selfParents: make(map[ids.ID]ids.ID),
		votedKeys:   make(map[ids.NodeID]map[observation.Key]struct{}),
		log:         logger,
	}
}

// CheckInsert runs every provable check against e, which must already be
// present in the graph (call after Graph.Insert succeeds). genesisGroup
// is the group recorded by the network's accepted Genesis observation,
// or nil if none has consensused yet. knownPeers is every peer id this
// peer currently recognizes at all (any membership state), or nil to
// skip the InvalidGossipCreator check. opaqueMode selects the key mode
// used for DuplicateVote comparisons of opaque payloads.
func (d *Detector) CheckInsert(e *event.Event, genesisGroup, knownPeers []ids.NodeID, opaqueMode observation.Mode) []Finding {
	var findings []Finding

	if f := d.checkFork(e); f != nil {
		findings = append(findings, *f)
	}
	if f := d.checkGenesisVotes(e, genesisGroup); f != nil {
		findings = append(findings, *f)
	}
	if f := d.checkOtherParentBySameCreator(e); f != nil {
		findings = append(findings, *f)
	}
	if f := d.checkStaleOtherParent(e); f != nil {
		findings = append(findings, *f)
	}
	if f := d.checkInvalidGossipCreator(e, knownPeers); f != nil {
		findings = append(findings, *f)
	}
	if f := d.checkInvalidRequest(e); f != nil {
		findings = append(findings, *f)
	}
	if f := d.checkInvalidResponse(e); f != nil {
		findings = append(findings, *f)
	}
	if e.IsObservation() {
		if f := d.checkDuplicateVote(e, opaqueMode); f != nil {
			findings = append(findings, *f)
		}
		if e.Cause.Vote.Kind == observation.KindAccusation {
			if f := d.checkInvalidAccusation(e); f != nil {
				findings = append(findings, *f)
			}
		}
	}
	return findings
}

// checkFork detects two distinct events sharing the same self_parent
// (§4.7 Fork).
func (d *Detector) checkFork(e *event.Event) *Finding {
	if !e.Cause.HasSelfParent() {
		return nil
	}
	prior, seen := d.selfParents[e.Cause.SelfParent]
	if !seen {
		d.selfParents[e.Cause.SelfParent] = e.Hash
		return nil
	}
	if prior == e.Hash {
		return nil
	}
	return &Finding{
		Offender: e.Creator,
		Malice: observation.Malice{
			Kind:           observation.MaliceFork,
			EventHash:      prior,
			OtherEventHash: e.Hash,
		},
	}
}

// checkGenesisVotes detects UnexpectedGenesis (votes Genesis but isn't
// the creator's Initial event, or the creator isn't in the genesis
// group), MissingGenesis (creator's Initial doesn't vote Genesis when
// it should), and IncorrectGenesis (Genesis payload disagrees with the
// known group).
func (d *Detector) checkGenesisVotes(e *event.Event, genesisGroup []ids.NodeID) *Finding {
	if !e.IsObservation() || e.Cause.Vote.Kind != observation.KindGenesis {
		return d.checkMissingGenesis(e, genesisGroup)
	}
	// Genesis is only ever legitimate as the creator's first vote, the
	// event right after its Initial (index 1); a later event voting
	// Genesis is always UnexpectedGenesis.
	if e.Index != 1 {
		return &Finding{
			Offender: e.Creator,
			Malice:   observation.Malice{Kind: observation.MaliceUnexpectedGenesis, EventHash: e.Hash},
		}
	}
	inGroup := false
	for _, id := range genesisGroup {
		if id == e.Creator {
			inGroup = true
			break
		}
	}
	if genesisGroup != nil && !inGroup {
		return &Finding{
			Offender: e.Creator,
			Malice:   observation.Malice{Kind: observation.MaliceUnexpectedGenesis, EventHash: e.Hash},
		}
	}
	if genesisGroup != nil && !sameGroup(e.Cause.Vote.Group, genesisGroup) {
		return &Finding{
			Offender: e.Creator,
			Malice:   observation.Malice{Kind: observation.MaliceIncorrectGenesis, EventHash: e.Hash},
		}
	}
	d.genesisSeen[e.Creator] = e.Hash
	return nil
}

// checkMissingGenesis detects a creator in genesisGroup whose first
// Observation-caused event (index 1, the event right after its Initial)
// votes for something other than Genesis (§4.7 MissingGenesis).
func (d *Detector) checkMissingGenesis(e *event.Event, genesisGroup []ids.NodeID) *Finding {
	if genesisGroup == nil || !e.IsObservation() || e.Index != 1 {
		return nil
	}
	inGroup := false
	for _, id := range genesisGroup {
		if id == e.Creator {
			inGroup = true
			break
		}
	}
	if !inGroup {
		return nil
	}
	if _, votedGenesis := d.genesisSeen[e.Creator]; votedGenesis {
		return nil
	}
	return &Finding{
		Offender: e.Creator,
		Malice:   observation.Malice{Kind: observation.MaliceMissingGenesis, EventHash: e.Hash},
	}
}

// checkOtherParentBySameCreator detects an other_parent authored by the
// same creator as self_parent, which can never arise legitimately since
// gossip only crosses creators (§4.7).
func (d *Detector) checkOtherParentBySameCreator(e *event.Event) *Finding {
	if !e.Cause.HasOtherParent() {
		return nil
	}
	other := d.graph.Get(e.Cause.OtherParent)
	if other == nil {
		return nil
	}
	if other.Creator == e.Creator {
		return &Finding{
			Offender: e.Creator,
			Malice:   observation.Malice{Kind: observation.MaliceOtherParentBySameCreator, EventHash: e.Hash},
		}
	}
	return nil
}

// checkInvalidRequest detects a Request-caused event whose self_parent
// was authored by a different creator than the event itself: the
// self_parent chain must always stay within one creator (§4.7
// InvalidRequest, "cause/parent creator mismatch").
func (d *Detector) checkInvalidRequest(e *event.Event) *Finding {
	return d.checkCauseParentCreator(e, event.Request, observation.MaliceInvalidRequest)
}

// checkInvalidResponse is checkInvalidRequest's counterpart for
// Response-caused events (§4.7 InvalidResponse).
func (d *Detector) checkInvalidResponse(e *event.Event) *Finding {
	return d.checkCauseParentCreator(e, event.Response, observation.MaliceInvalidResponse)
}

// checkCauseParentCreator runs the shared self_parent-creator check for
// checkInvalidRequest/checkInvalidResponse, which differ only in which
// Cause.Kind they apply to and which MaliceKind they report.
func (d *Detector) checkCauseParentCreator(e *event.Event, kind event.CauseKind, malice observation.MaliceKind) *Finding {
	if e.Cause.Kind != kind {
		return nil
	}
	self := d.graph.Get(e.Cause.SelfParent)
	if self == nil {
		return nil
	}
	if self.Creator != e.Creator {
		return &Finding{
			Offender: e.Creator,
			Malice:   observation.Malice{Kind: malice, EventHash: e.Hash},
		}
	}
	return nil
}

// checkStaleOtherParent detects an other_parent that carries no new
// information over the other_parent already referenced by self_parent:
// the same creator's event at an index no later than what self_parent
// already knew about (§4.7 StaleOtherParent, from original_source's
// observation.rs — gossip is expected to make monotonic progress).
func (d *Detector) checkStaleOtherParent(e *event.Event) *Finding {
	if !e.Cause.HasSelfParent() || !e.Cause.HasOtherParent() {
		return nil
	}
	self := d.graph.Get(e.Cause.SelfParent)
	if self == nil || !self.Cause.HasOtherParent() {
		return nil
	}
	prevOther := d.graph.Get(self.Cause.OtherParent)
	other := d.graph.Get(e.Cause.OtherParent)
	if prevOther == nil || other == nil {
		return nil
	}
	if other.Creator == prevOther.Creator && other.Index <= prevOther.Index {
		return &Finding{
			Offender: e.Creator,
			Malice:   observation.Malice{Kind: observation.MaliceStaleOtherParent, EventHash: e.Hash},
		}
	}
	return nil
}

// checkInvalidGossipCreator detects an event whose creator this peer
// does not recognize in any membership state at all, as opposed to a
// recognized-but-inactive peer (§4.7 InvalidGossipCreator). knownPeers
// nil disables the check (no peer list known yet, e.g. before genesis).
func (d *Detector) checkInvalidGossipCreator(e *event.Event, knownPeers []ids.NodeID) *Finding {
	if knownPeers == nil {
		return nil
	}
	for _, id := range knownPeers {
		if id == e.Creator {
			return nil
		}
	}
	return &Finding{
		Offender: e.Creator,
		Malice:   observation.Malice{Kind: observation.MaliceInvalidGossipCreator, EventHash: e.Hash},
	}
}

// checkDuplicateVote detects two Observation-caused events by the same
// creator carrying the same payload key (§4.7).
func (d *Detector) checkDuplicateVote(e *event.Event, opaqueMode observation.Mode) *Finding {
	vote := e.Cause.Vote
	key := observation.NewKey(vote, e.Creator, hasher, opaqueMode)

	seen := d.votedKeys[e.Creator]
	if seen == nil {
		seen = make(map[observation.Key]struct{})
		d.votedKeys[e.Creator] = seen
	}
	if _, dup := seen[key]; dup {
		return &Finding{
			Offender: e.Creator,
			Malice:   observation.Malice{Kind: observation.MaliceDuplicateVote, EventHash: e.Hash},
		}
	}
	seen[key] = struct{}{}
	return nil
}

// checkInvalidAccusation detects an Accusation observation whose target
// malice cannot be reproduced from the graph (§4.7): the accused event
// hash must exist, and for Fork accusations the second event hash must
// also exist and share the first's self_parent.
func (d *Detector) checkInvalidAccusation(e *event.Event) *Finding {
	acc := e.Cause.Vote.Malice
	target := d.graph.Get(acc.EventHash)
	if target == nil {
		return invalidAccusation(e)
	}
	switch acc.Kind {
	case observation.MaliceFork:
		other := d.graph.Get(acc.OtherEventHash)
		if other == nil || other.Creator != target.Creator || other.Cause.SelfParent != target.Cause.SelfParent || other.Hash == target.Hash {
			return invalidAccusation(e)
		}
	case observation.MaliceOtherParentBySameCreator:
		op := d.graph.Get(target.Cause.OtherParent)
		if op == nil || op.Creator != target.Creator {
			return invalidAccusation(e)
		}
	}
	return nil
}

func invalidAccusation(e *event.Event) *Finding {
	return &Finding{
		Offender: e.Creator,
		Malice:   observation.Malice{Kind: observation.MaliceInvalidAccusation, EventHash: e.Hash},
	}
}

// RecordUnprovable files an unprovable-malice observation (spam, or any
// signal not reducible to the checks above) for local diagnostics only;
// per §4.7 this is never serialized into a vote.
func (d *Detector) RecordUnprovable(reason string) {
	d.unprovable = append(d.unprovable, reason)
	if d.log != nil {
		d.log.Debug("unprovable malice signal", "reason", reason)
	}
}

// Unprovable returns every locally recorded unprovable-malice reason.
func (d *Detector) Unprovable() []string {
	return append([]string(nil), d.unprovable...)
}

func sameGroup(a, b []ids.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[ids.NodeID]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
	}
	return true
}
