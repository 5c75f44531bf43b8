// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package parsec

import (
	"errors"

	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/gossip"
)

// Error taxonomy (§7): kinds, not types, matching the embedder-facing
// operations that can fail. Structural gossip errors (SignatureFailure,
// UnknownPeer, InvalidPeerState) are surfaced rather than silently
// dropped only when they originate from the embedder's own call
// (create_gossip/handle_request/handle_response); per-event failures
// discovered mid-batch are instead routed to malice diagnostics and the
// offending event is dropped (§4.6, §4.7).
var (
	// ErrInvalidSelfState: operation not allowed given this peer's own
	// membership state (voting while not a voter, gossiping while not a
	// voter).
	ErrInvalidSelfState = gossip.ErrInvalidSelfState
	// ErrInvalidPeerState: the named peer is known but not in an active
	// membership state.
	ErrInvalidPeerState = gossip.ErrInvalidPeerState
	// ErrUnknownPeer: the named peer is not in the peer list at all.
	ErrUnknownPeer = gossip.ErrUnknownPeer
	// ErrUnknownParent: an event references a hash not in the graph.
	ErrUnknownParent = event.ErrUnknownParent
	// ErrSignatureFailure: cryptographic verification failed.
	ErrSignatureFailure = event.ErrSignatureFailure
	// ErrDuplicateVote: the same payload was already voted for by this
	// peer (same creator, same key).
	ErrDuplicateVote = errors.New("parsec: payload already voted for by this peer")
	// ErrConsensusFailure: an internal invariant was violated. This
	// indicates a bug or an adversary succeeding beyond the tolerated
	// threshold; the peer should not be trusted to make further progress.
	ErrConsensusFailure = errors.New("parsec: consensus invariant violated")
)
