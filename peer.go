// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package parsec implements the embedder-facing Peer façade (§6): one
// peer's event graph, gossip exchange, malice detection and
// meta-election pipeline, wired together into the operations an
// embedder calls (vote_for, create_gossip, handle_request,
// handle_response, poll): a top-level engine struct that owns a set of
// subsystems and exposes a small synchronous API over them.
package parsec

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/block"
	"github.com/luxfi/parsec/config"
	pcontext "github.com/luxfi/parsec/context"
	"github.com/luxfi/parsec/crypto"
	"github.com/luxfi/parsec/election"
	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/gossip"
	"github.com/luxfi/parsec/internal/diag"
	"github.com/luxfi/parsec/malice"
	"github.com/luxfi/parsec/metavote"
	"github.com/luxfi/parsec/observation"
	"github.com/luxfi/parsec/peerlist"
)

// Peer is one participant's view of the network: its own event graph,
// the peer list, the active meta-election, and the gossip/malice
// machinery that feeds it (§5 "every peer owns a private copy").
type Peer struct {
	ctx       pcontext.Context
	cfg       config.Config
	hasher    crypto.Hasher
	ownSigner crypto.Signer

	peers    *peerlist.List
	graph    *event.Graph
	store    *observation.Store
	driver   *election.Driver
	detector *malice.Detector
	handler  *gossip.Handler
	diag     *diag.Counters

	accusations []malice.Finding // surfaced, not yet voted for
}

// Diagnostics returns this peer's local diagnostic counters (§ internal
// diag: never serialized, never gossiped). Diagnostics are always
// accumulated; EnableDiagnostics gates whether LogSnapshot actually
// writes anything.
func (p *Peer) Diagnostics() *diag.Counters {
	return p.diag
}

// EnableDiagnostics turns on (or off) this peer's diagnostic logging.
func (p *Peer) EnableDiagnostics(enabled bool) {
	p.diag.Enabled = enabled
}

// New constructs a fresh Peer starting from cfg.GenesisGroup, all in the
// Joined state (§6 "new(our_id, genesis_group, consensus_mode)"). keys
// maps every known peer (including our own) to its public key, for
// signature verification of gossiped events; key distribution itself is
// out of scope (§1 Non-goals).
func New(ctx pcontext.Context, cfg config.Config, signer crypto.Signer, verifier crypto.Verifier, coin metavote.Coin, keys map[ids.NodeID][]byte) (*Peer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := newPeer(ctx, cfg, signer, verifier, coin, keys, cfg.GenesisGroup)

	if _, err := p.graph.NewInitial(cfg.OurID, signer, p.hasher); err != nil {
		return nil, err
	}
	return p, nil
}

// FromExisting constructs a Peer joining a network already in progress:
// cfg.GenesisGroup seeds the peer list (the genesis checks compare
// against the consensused Genesis group, see knownGenesisGroup), while
// currentPeers is the actual membership this peer starts
// observing (§6 "from_existing(our_id, genesis_group, current_peers,
// consensus_mode)"). Peers in currentPeers not in genesisGroup are
// marked Joined directly; genesisGroup members absent from currentPeers
// are marked Left.
func FromExisting(ctx pcontext.Context, cfg config.Config, currentPeers []ids.NodeID, signer crypto.Signer, verifier crypto.Verifier, coin metavote.Coin, keys map[ids.NodeID][]byte) (*Peer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := newPeer(ctx, cfg, signer, verifier, coin, keys, cfg.GenesisGroup)

	inCurrent := make(map[ids.NodeID]bool, len(currentPeers))
	for _, id := range currentPeers {
		inCurrent[id] = true
		if !p.peers.Has(id) {
			p.peers.Join(id)
		}
		p.peers.SetState(id, peerlist.Joined)
	}
	for _, id := range cfg.GenesisGroup {
		if !inCurrent[id] {
			p.peers.SetState(id, peerlist.Left)
		}
	}

	if _, err := p.graph.NewInitial(cfg.OurID, signer, p.hasher); err != nil {
		return nil, err
	}
	return p, nil
}

func newPeer(ctx pcontext.Context, cfg config.Config, signer crypto.Signer, verifier crypto.Verifier, coin metavote.Coin, keys map[ids.NodeID][]byte, genesisGroup []ids.NodeID) *Peer {
	hasher := crypto.SHA256Hasher{}
	peers := peerlist.New(genesisGroup)
	graph := event.NewGraph(peers)
	store := observation.NewStore()
	driver := election.NewDriver(graph, peers, store, coin, ctx.Log, ctx.Metrics)
	detector := malice.NewDetector(graph, ctx.Log)

	p := &Peer{
		ctx: ctx, cfg: cfg, hasher: hasher, ownSigner: signer,
		peers: peers, graph: graph, store: store, driver: driver, detector: detector,
		diag: diag.New(false),
	}
	p.handler = gossip.NewHandler(cfg.OurID, graph, peers, signer, verifier, hasher, keys, maliceSink{p}, p.onInserted, ctx.Log, ctx.Metrics)
	return p
}

// maliceSink adapts Peer to gossip.MaliceSink, routing per-event
// unpack/insert failures observed during gossip ingestion to the
// detector's unprovable-diagnostics log (§4.7: "unprovable malice...
// recorded for local diagnostics only").
type maliceSink struct{ p *Peer }

func (s maliceSink) ObserveUnpackFailure(creator ids.NodeID, err error) {
	s.p.detector.RecordUnprovable(creator.String() + ": " + err.Error())
	s.p.diag.UnprovableSignal()
}

// onInserted is called by the gossip handler for every event it
// inserts into graph (incoming events and the local Request/Response
// events appended in response), regardless of origin, keeping malice
// detection and election processing on one event stream (§4.1, §4.5,
// §4.7).
func (p *Peer) onInserted(e *event.Event) {
	p.diag.EventInserted()

	genesisGroup := p.knownGenesisGroup()
	for _, f := range p.detector.CheckInsert(e, genesisGroup, p.peers.Ordered(), p.opaqueMode()) {
		p.accusations = append(p.accusations, f)
		p.diag.MaliceFinding()
		if p.ctx.Metrics != nil {
			p.ctx.Metrics.MaliceAccusations.Inc()
		}
	}

	if e.IsObservation() {
		if key, ok := p.keyFor(e); ok {
			p.store.Insert(key, e.Cause.Vote, e.Creator == p.cfg.OurID)
		}
	}

	p.driver.Process(e, p.opaqueMode())
	for p.driver.Decide() {
		p.diag.BlockDecided()
		p.applyConsensusedPeerTransitions()
	}
}

// knownGenesisGroup returns the accepted Genesis observation's group, or
// nil if none has consensused yet.
func (p *Peer) knownGenesisGroup() []ids.NodeID {
	for _, key := range p.driver.ConsensusHistory() {
		if info := p.store.Get(key); info != nil && info.Observation.Kind == observation.KindGenesis {
			return info.Observation.Group
		}
	}
	return nil
}

// applyConsensusedPeerTransitions reacts to the most recently decided
// block by updating peer membership state for Add/Remove/Left payloads
// (§4.2).
func (p *Peer) applyConsensusedPeerTransitions() {
	history := p.driver.ConsensusHistory()
	if len(history) == 0 {
		return
	}
	key := history[len(history)-1]
	info := p.store.Get(key)
	if info == nil {
		return
	}
	switch info.Observation.Kind {
	case observation.KindAdd:
		p.peers.Join(info.Observation.Peer)
		p.peers.SetState(info.Observation.Peer, peerlist.Joined)
	case observation.KindRemove:
		p.peers.SetState(info.Observation.Peer, peerlist.Removed)
	case observation.KindLeft:
		p.peers.SetState(info.Observation.Peer, peerlist.Left)
	}
}

// keyFor derives the observation key for an Observation-caused event
// using this peer's configured opaque mode.
func (p *Peer) keyFor(e *event.Event) (observation.Key, bool) {
	if !e.IsObservation() {
		return observation.Key{}, false
	}
	return observation.NewKey(e.Cause.Vote, e.Creator, p.hasher, p.opaqueMode()), true
}

// opaqueMode converts this peer's configured config.ConsensusMode to the
// observation package's own Mode type: the two are distinct named types
// (config.ConsensusMode additionally carries a config-layer String()
// used for operator-facing messages) but share identical values and
// ordering, so a direct conversion is exact.
func (p *Peer) opaqueMode() observation.Mode {
	return observation.Mode(p.cfg.ConsensusMode)
}

// VoteFor appends a locally created Observation-caused event voting for
// o (§6 "vote_for(observation)"). Fails with ErrInvalidSelfState if this
// peer is not an active voter, ErrDuplicateVote if it has already voted
// for an equal payload.
func (p *Peer) VoteFor(o observation.Observation) error {
	self := p.peers.Get(p.cfg.OurID)
	if self == nil || !self.State.IsVoter() {
		return ErrInvalidSelfState
	}

	key := observation.NewKey(o, p.cfg.OurID, p.hasher, p.opaqueMode())
	for _, h := range p.peers.Get(p.cfg.OurID).Events {
		e := p.graph.Get(h)
		if e == nil || !e.IsObservation() {
			continue
		}
		if k, ok := p.keyFor(e); ok && k == key {
			return ErrDuplicateVote
		}
	}

	e, err := p.graph.NewObservation(p.cfg.OurID, o, p.ownSigner, p.hasher)
	if err != nil {
		return err
	}
	p.onInserted(e)
	if o.Kind == observation.KindAccusation {
		kept := p.accusations[:0]
		for _, f := range p.accusations {
			if f.Offender != o.Offender || f.Malice != o.Malice {
				kept = append(kept, f)
			}
		}
		p.accusations = kept
	}
	return nil
}

// CreateGossip returns a Request for recipient (§6
// "create_gossip(recipient?)"). When recipient is the zero NodeID, the
// first valid candidate from GossipRecipients is chosen. Fails with
// ErrInvalidSelfState if this peer is not an active voter.
func (p *Peer) CreateGossip(recipient ids.NodeID) (ids.NodeID, gossip.Request, error) {
	if self := p.peers.Get(p.cfg.OurID); self == nil || !self.State.IsVoter() {
		return ids.NodeID{}, gossip.Request{}, ErrInvalidSelfState
	}
	if recipient == (ids.NodeID{}) {
		candidates := p.GossipRecipients()
		if len(candidates) == 0 {
			return ids.NodeID{}, gossip.Request{}, ErrUnknownPeer
		}
		recipient = candidates[0]
	}
	req, err := p.handler.CreateGossip(recipient)
	if err == nil {
		p.diag.GossipRequestSent()
	}
	return recipient, req, err
}

// HandleRequest processes an incoming Request (§6 "handle_request").
func (p *Peer) HandleRequest(sender ids.NodeID, req gossip.Request) (gossip.Response, error) {
	if !p.peers.Has(sender) {
		return gossip.Response{}, ErrUnknownPeer
	}
	p.diag.GossipRequestRecv()
	resp, err := p.handler.HandleRequest(sender, req)
	if err == nil {
		p.diag.GossipResponseSent()
	}
	return resp, err
}

// HandleResponse processes an incoming Response (§6 "handle_response").
func (p *Peer) HandleResponse(sender ids.NodeID, resp gossip.Response) error {
	if !p.peers.Has(sender) {
		return ErrUnknownPeer
	}
	p.diag.GossipResponseRecv()
	return p.handler.HandleResponse(sender, resp)
}

// Poll returns the next stable block, if any (§6 "poll() -> Option<Block>").
func (p *Peer) Poll() (block.Block, bool) {
	return p.driver.Poll()
}

// UnpolledAccusations returns every malice finding not yet turned into
// an Accusation vote by the embedder (§6 "unpolled_accusations()").
// Calling VoteFor with the corresponding Accusation observation is the
// embedder's responsibility; this method does not drain the queue,
// matching the source's "lazy sequence" semantics (re-reading it is
// cheap and idempotent).
func (p *Peer) UnpolledAccusations() []malice.Finding {
	return append([]malice.Finding(nil), p.accusations...)
}

// GossipRecipients returns every peer id this Peer could validly
// gossip with right now: known, active, and not itself (§6
// "gossip_recipients()").
func (p *Peer) GossipRecipients() []ids.NodeID {
	var out []ids.NodeID
	for _, id := range p.peers.Voters() {
		if id != p.cfg.OurID {
			out = append(out, id)
		}
	}
	return out
}
