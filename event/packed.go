// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/crypto"
)

// PackedEvent is the wire representation of an Event, stripped of every
// derived field and carrying only creator, cause and signature (§6, §9
// glossary "Packed event").
type PackedEvent struct {
	Creator   ids.NodeID
	Cause     Cause
	Signature []byte
}

// Pack strips e down to its wire representation.
func Pack(e *Event) PackedEvent {
	return PackedEvent{Creator: e.Creator, Cause: e.Cause, Signature: e.Signature}
}

// Unpack verifies p's signature and recomputes its hash, returning a
// fully-derived content portion ready for Graph.Insert. It does not
// compute Index/LastAncestors; Graph.Insert does that once parents are
// known to exist.
func Unpack(p PackedEvent, verifier crypto.Verifier, publicKey []byte, hasher crypto.Hasher) (*Event, error) {
	c := content{Creator: p.Creator, Cause: p.Cause}
	serialized := c.serialize()
	if !verifier.Verify(publicKey, p.Signature, serialized) {
		return nil, ErrSignatureFailure
	}
	return &Event{
		Creator:   p.Creator,
		Cause:     p.Cause,
		Signature: p.Signature,
		Hash:      hasher.Hash(serialized),
	}, nil
}
