// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package event implements the append-only gossip event graph: per-peer
// events with self/other parents, creator-local sequence indices, and
// per-event last_ancestors vectors used for the happens-before relation
// (§4.1). Grounded on original_source's gossip/event.rs and
// gossip/cause.rs.
package event

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/observation"
)

// CauseKind discriminates why an event was created (§3, cause.rs).
type CauseKind uint8

const (
	// Initial is the creator's first event; it has no parents.
	Initial CauseKind = iota
	// Request is an event created by issuing a gossip request.
	Request
	// Response is an event created by issuing a gossip response.
	Response
	// ObservationCause is an event created by casting a local vote.
	ObservationCause
)

// String implements fmt.Stringer.
func (k CauseKind) String() string {
	switch k {
	case Initial:
		return "Initial"
	case Request:
		return "Request"
	case Response:
		return "Response"
	case ObservationCause:
		return "Observation"
	default:
		return "Unknown"
	}
}

// Cause is the tagged union of reasons an event exists (§3, §6 "Wire
// format"). Exactly the fields relevant to Kind are meaningful:
//
//	Initial             - none
//	Request / Response  - SelfParent, OtherParent
//	ObservationCause    - SelfParent, Vote
type Cause struct {
	Kind        CauseKind
	SelfParent  ids.ID
	OtherParent ids.ID
	Vote        observation.Observation
}

// NewInitialCause returns an Initial cause.
func NewInitialCause() Cause {
	return Cause{Kind: Initial}
}

// NewRequestCause returns a Request cause.
func NewRequestCause(selfParent, otherParent ids.ID) Cause {
	return Cause{Kind: Request, SelfParent: selfParent, OtherParent: otherParent}
}

// NewResponseCause returns a Response cause.
func NewResponseCause(selfParent, otherParent ids.ID) Cause {
	return Cause{Kind: Response, SelfParent: selfParent, OtherParent: otherParent}
}

// NewObservationCause returns an ObservationCause cause wrapping a local vote.
func NewObservationCause(selfParent ids.ID, vote observation.Observation) Cause {
	return Cause{Kind: ObservationCause, SelfParent: selfParent, Vote: vote}
}

// HasSelfParent reports whether this cause references a self_parent
// (every cause except Initial, §3 invariant "every non-initial event has
// a self_parent by the same creator").
func (c Cause) HasSelfParent() bool {
	return c.Kind != Initial
}

// HasOtherParent reports whether this cause references an other_parent
// (Request and Response only).
func (c Cause) HasOtherParent() bool {
	return c.Kind == Request || c.Kind == Response
}
