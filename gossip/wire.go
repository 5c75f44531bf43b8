// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gossip

import (
	"github.com/luxfi/ids"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/luxfi/parsec/event"
	"github.com/luxfi/parsec/observation"
)

// EncodeRequest hand-encodes r using the same varint/length-delimited
// framing protoc-generated code would produce for an equivalent message
// (field 1: from, field 2: repeated packed event); there is no .proto
// build step in this module, so the wire shape is written directly
// against protowire rather than generated.
func EncodeRequest(r Request) []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, 1, protowire.BytesType)
	buf = protowire.AppendBytes(buf, r.From[:])
	for _, pe := range r.Events {
		buf = protowire.AppendTag(buf, 2, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodePackedEvent(pe))
	}
	return buf
}

// DecodeRequest parses bytes produced by EncodeRequest.
func DecodeRequest(buf []byte) (Request, error) {
	var r Request
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return Request{}, protowire.ParseError(n)
		}
		buf = buf[n:]
		if typ != protowire.BytesType {
			return Request{}, protowire.ParseError(n)
		}
		field, n := protowire.ConsumeBytes(buf)
		if n < 0 {
			return Request{}, protowire.ParseError(n)
		}
		buf = buf[n:]
		switch num {
		case 1:
			copy(r.From[:], field)
		case 2:
			pe, err := decodePackedEvent(field)
			if err != nil {
				return Request{}, err
			}
			r.Events = append(r.Events, pe)
		}
	}
	return r, nil
}

// EncodeResponse mirrors EncodeRequest for Response.
func EncodeResponse(r Response) []byte {
	return EncodeRequest(Request{From: r.From, Events: r.Events})
}

// DecodeResponse mirrors DecodeRequest for Response.
func DecodeResponse(buf []byte) (Response, error) {
	req, err := DecodeRequest(buf)
	if err != nil {
		return Response{}, err
	}
	return Response{From: req.From, Events: req.Events}, nil
}

func encodePackedEvent(pe event.PackedEvent) []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, 1, protowire.BytesType)
	buf = protowire.AppendBytes(buf, pe.Creator[:])
	buf = protowire.AppendTag(buf, 2, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(pe.Cause.Kind))
	buf = protowire.AppendTag(buf, 3, protowire.BytesType)
	buf = protowire.AppendBytes(buf, pe.Cause.SelfParent[:])
	buf = protowire.AppendTag(buf, 4, protowire.BytesType)
	buf = protowire.AppendBytes(buf, pe.Cause.OtherParent[:])
	buf = protowire.AppendTag(buf, 5, protowire.BytesType)
	buf = protowire.AppendBytes(buf, pe.Signature)
	if pe.Cause.Kind == event.ObservationCause {
		buf = protowire.AppendTag(buf, 6, protowire.BytesType)
		buf = protowire.AppendBytes(buf, pe.Cause.Vote.Marshal())
	}
	return buf
}

func decodePackedEvent(buf []byte) (event.PackedEvent, error) {
	var pe event.PackedEvent
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return event.PackedEvent{}, protowire.ParseError(n)
		}
		buf = buf[n:]
		switch typ {
		case protowire.BytesType:
			field, n := protowire.ConsumeBytes(buf)
			if n < 0 {
				return event.PackedEvent{}, protowire.ParseError(n)
			}
			buf = buf[n:]
			switch num {
			case 1:
				var id ids.NodeID
				copy(id[:], field)
				pe.Creator = id
			case 3:
				copy(pe.Cause.SelfParent[:], field)
			case 4:
				copy(pe.Cause.OtherParent[:], field)
			case 5:
				pe.Signature = append([]byte(nil), field...)
			case 6:
				vote, err := observation.Unmarshal(field)
				if err != nil {
					return event.PackedEvent{}, err
				}
				pe.Cause.Vote = vote
			}
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(buf)
			if n < 0 {
				return event.PackedEvent{}, protowire.ParseError(n)
			}
			buf = buf[n:]
			if num == 2 {
				pe.Cause.Kind = event.CauseKind(v)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return event.PackedEvent{}, protowire.ParseError(n)
			}
			buf = buf[n:]
		}
	}
	return pe, nil
}
