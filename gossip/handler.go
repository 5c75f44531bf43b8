// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gossip

import (
	"errors"
	"sort"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/parsec/crypto"
	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/metrics"
	"github.com/luxfi/parsec/peerlist"
)

// Errors returned by Handler methods (§6, §7).
var (
	ErrUnknownPeer      = errors.New("gossip: unknown peer")
	ErrInvalidPeerState = errors.New("gossip: recipient not in an active membership state")
	ErrInvalidSelfState = errors.New("gossip: this peer is not an active voter")
)

// MaliceSink receives a malice finding observed while unpacking an
// incoming event, for the caller to turn into an Accusation vote (§4.7).
type MaliceSink interface {
	ObserveUnpackFailure(creator ids.NodeID, err error)
}

// Handler creates outgoing gossip and processes incoming requests and
// responses for one peer (§4.6).
type Handler struct {
	ourID    ids.NodeID
	graph    *event.Graph
	peers    *peerlist.List
	verifier crypto.Verifier
	hasher   crypto.Hasher
	signer   crypto.Signer
	keys     map[ids.NodeID][]byte // peer -> public key, for signature verification
	malice   MaliceSink

	// onInserted, if set, is called once for every event this Handler
	// inserts into graph (both incoming, via ingest, and the local
	// Request/Response-caused events it appends), so the owning Peer can
	// run malice detection and election processing on the same event
	// stream regardless of where an event came from.
	onInserted func(*event.Event)

	log     log.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler for ourID. onInserted may be nil.
func NewHandler(ourID ids.NodeID, g *event.Graph, peers *peerlist.List, signer crypto.Signer, verifier crypto.Verifier, hasher crypto.Hasher, keys map[ids.NodeID][]byte, malice MaliceSink, onInserted func(*event.Event), logger log.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		ourID: ourID, graph: g, peers: peers, signer: signer, verifier: verifier,
		hasher: hasher, keys: keys, malice: malice, onInserted: onInserted, log: logger, metrics: m,
	}
}

// CreateGossip picks recipient and returns a Request of events recipient
// lacks (§4.6 "Create outgoing gossip"). recipient must name a known,
// active peer other than ourID.
func (h *Handler) CreateGossip(recipient ids.NodeID) (Request, error) {
	if recipient == h.ourID {
		return Request{}, ErrInvalidSelfState
	}
	p := h.peers.Get(recipient)
	if p == nil {
		return Request{}, ErrUnknownPeer
	}
	if !p.State.IsVoter() {
		return Request{}, ErrInvalidPeerState
	}

	missing := h.eventsLacking(recipient)
	return Request{From: h.ourID, Events: missing}, nil
}

// eventsLacking returns, in topological (parents-before-children) order,
// every event the graph has that recipient's last-known view lacks. It
// approximates recipient's view as its own latest event's last_ancestors
// (the best information this peer has about what recipient has seen).
func (h *Handler) eventsLacking(recipient ids.NodeID) []event.PackedEvent {
	recipientView := map[ids.NodeID]uint64{}
	if latest := h.graph.LatestByCreator(recipient); latest != nil {
		recipientView = latest.LastAncestors
	}

	var lacking []*event.Event
	for _, creator := range h.peers.Ordered() {
		evs := h.graph.EventsByCreator(creator)
		var start uint64
		if known, ok := recipientView[creator]; ok {
			start = known + 1
		}
		for i := start; i < uint64(len(evs)); i++ {
			lacking = append(lacking, evs[i])
		}
	}

	// Each last_ancestors entry of an event is at least its ancestors'
	// and strictly greater at its own creator, so ordering by the sum
	// puts parents before children.
	weight := func(e *event.Event) (w uint64) {
		for _, idx := range e.LastAncestors {
			w += idx + 1
		}
		return w
	}
	sort.SliceStable(lacking, func(i, j int) bool { return weight(lacking[i]) < weight(lacking[j]) })

	out := make([]event.PackedEvent, len(lacking))
	for i, e := range lacking {
		out[i] = event.Pack(e)
	}
	return out
}

// HandleRequest processes an incoming Request from sender, inserting its
// events and returning a Response of events sender lacks (§4.6).
func (h *Handler) HandleRequest(sender ids.NodeID, req Request) (Response, error) {
	if err := h.ingest(sender, req.Events); err != nil {
		return Response{}, err
	}

	senderLatest := h.graph.LatestByCreator(sender)
	var otherParent ids.ID
	if senderLatest != nil {
		otherParent = senderLatest.Hash
	}
	e, err := h.graph.NewRequest(h.ourID, otherParent, h.signer, h.hasher)
	if err != nil {
		return Response{}, err
	}
	if h.onInserted != nil {
		h.onInserted(e)
	}

	if h.metrics != nil {
		h.metrics.GossipRequestsServed.Inc()
	}
	return Response{From: h.ourID, Events: h.eventsLacking(sender)}, nil
}

// HandleResponse processes an incoming Response from sender, inserting
// its events and appending a Response-caused event, without replying
// (§4.6).
func (h *Handler) HandleResponse(sender ids.NodeID, resp Response) error {
	if err := h.ingest(sender, resp.Events); err != nil {
		return err
	}
	senderLatest := h.graph.LatestByCreator(sender)
	var otherParent ids.ID
	if senderLatest != nil {
		otherParent = senderLatest.Hash
	}
	e, err := h.graph.NewResponse(h.ourID, otherParent, h.signer, h.hasher)
	if err != nil {
		return err
	}
	if h.onInserted != nil {
		h.onInserted(e)
	}
	if h.metrics != nil {
		h.metrics.GossipResponsesServed.Inc()
	}
	return nil
}

// ingest unpacks and inserts each event in order (§4.6 step 1): any
// verification or structural failure is routed to the malice sink and
// that single event is rejected, without aborting the rest of the
// batch. An event already present in the graph (duplicate gossip) is
// silently skipped rather than treated as malice.
func (h *Handler) ingest(sender ids.NodeID, packed []event.PackedEvent) error {
	for _, p := range packed {
		key := h.keys[p.Creator]
		e, err := event.Unpack(p, h.verifier, key, h.hasher)
		if err != nil {
			if h.malice != nil {
				h.malice.ObserveUnpackFailure(p.Creator, err)
			}
			if h.log != nil {
				h.log.Warn("rejecting gossip event", "creator", p.Creator, "err", err)
			}
			continue
		}
		if h.graph.Has(e.Hash) {
			continue
		}
		if err := h.graph.Insert(e); err != nil {
			if h.malice != nil {
				h.malice.ObserveUnpackFailure(p.Creator, err)
			}
			continue
		}
		if h.onInserted != nil {
			h.onInserted(e)
		}
	}
	return nil
}
