// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gossip implements the request/response exchange of missing
// events between peers (§4.6): message shapes, creation of outgoing
// gossip, and handling of incoming requests/responses. Wire framing is
// written by hand against protowire's varint/length-delimited helpers
// rather than generated, since this module has no protoc build step
// (see DESIGN.md).
package gossip

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/parsec/event"
)

// Request is sent by the initiating peer, carrying events the sender
// believes the recipient lacks (§4.6).
type Request struct {
	From   ids.NodeID
	Events []event.PackedEvent
}

// Response answers a Request, carrying events the original sender
// lacked (§4.6).
type Response struct {
	From   ids.NodeID
	Events []event.PackedEvent
}
