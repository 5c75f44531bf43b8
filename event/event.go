// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/crypto"
)

// Event is immutable once inserted into a Graph (§3). Derived fields
// (last_ancestors, index) are computed at insertion time from the
// creator-supplied Cause and are never recomputed afterward.
type Event struct {
	Creator   ids.NodeID
	Cause     Cause
	Signature []byte
	Hash      ids.ID

	// Index is this event's creator-local sequence index: 0 for Initial,
	// parent.Index+1 otherwise.
	Index uint64

	// LastAncestors maps each known peer to the highest creator-local
	// index of that peer's events that are ancestors of this event
	// (§3, §4.1).
	LastAncestors map[ids.NodeID]uint64
}

// Sees reports whether e can see other: whether there is a directed path
// from other to e in the graph, computed in O(1) from LastAncestors
// (§4.1).
func (e *Event) Sees(other *Event) bool {
	last, ok := e.LastAncestors[other.Creator]
	return ok && last >= other.Index
}

// IsInitial reports whether e is its creator's first event.
func (e *Event) IsInitial() bool {
	return e.Cause.Kind == Initial
}

// IsResponse reports whether e was created from a gossip response.
func (e *Event) IsResponse() bool {
	return e.Cause.Kind == Response
}

// IsRequest reports whether e was created from a gossip request.
func (e *Event) IsRequest() bool {
	return e.Cause.Kind == Request
}

// IsObservation reports whether e carries a local vote.
func (e *Event) IsObservation() bool {
	return e.Cause.Kind == ObservationCause
}

// content is the portion of an event that is signed and hashed: creator
// and cause, stripped of every derived field (index, last_ancestors),
// mirroring Content<T,P> in event.rs.
type content struct {
	Creator ids.NodeID
	Cause   Cause
}

func (c content) serialize() []byte {
	buf := make([]byte, 0, 128)
	buf = append(buf, c.Creator[:]...)
	buf = append(buf, byte(c.Cause.Kind))
	buf = append(buf, c.Cause.SelfParent[:]...)
	buf = append(buf, c.Cause.OtherParent[:]...)
	if c.Cause.Kind == ObservationCause {
		buf = append(buf, c.Cause.Vote.Hash(crypto.SHA256Hasher{})[:]...)
	}
	return buf
}

// Build signs and hashes (creator, cause) without inserting into any
// Graph, for callers (tests, malice simulation) that need an event with
// an explicit parent other than the creator's latest. Graph.NewInitial/
// NewObservation/NewRequest/NewResponse cover the normal append-only
// path; Build exists for the cases those convenience methods forbid by
// construction, such as simulating a fork.
func Build(creator ids.NodeID, cause Cause, signer crypto.Signer, hasher crypto.Hasher) (*Event, error) {
	return build(creator, cause, signer, hasher)
}

// build signs and hashes (creator, cause), producing a complete Event
// missing only the fields a Graph fills in at insertion (Index,
// LastAncestors).
func build(creator ids.NodeID, cause Cause, signer crypto.Signer, hasher crypto.Hasher) (*Event, error) {
	c := content{Creator: creator, Cause: cause}
	serialized := c.serialize()
	sig, err := signer.Sign(serialized)
	if err != nil {
		return nil, err
	}
	return &Event{
		Creator:   creator,
		Cause:     cause,
		Signature: sig,
		Hash:      hasher.Hash(serialized),
	}, nil
}
