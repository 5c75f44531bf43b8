// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package observation

import (
	"github.com/luxfi/ids"
	"google.golang.org/protobuf/encoding/protowire"
)

// Marshal renders o as a wire-transmissible byte string (§6 "Observation
// {self_parent_hash, vote}"), written by hand against protowire's
// varint/length-delimited helpers rather than generated, since this
// module has no protoc build step.
func (o Observation) Marshal() []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(o.Kind))
	for _, p := range o.Group {
		buf = protowire.AppendTag(buf, 2, protowire.BytesType)
		buf = protowire.AppendBytes(buf, p[:])
	}
	buf = protowire.AppendTag(buf, 3, protowire.BytesType)
	buf = protowire.AppendBytes(buf, o.Peer[:])
	buf = protowire.AppendTag(buf, 4, protowire.BytesType)
	buf = protowire.AppendBytes(buf, o.Offender[:])
	buf = protowire.AppendTag(buf, 5, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(o.Malice.Kind))
	buf = protowire.AppendTag(buf, 6, protowire.BytesType)
	buf = protowire.AppendBytes(buf, o.Malice.EventHash[:])
	buf = protowire.AppendTag(buf, 7, protowire.BytesType)
	buf = protowire.AppendBytes(buf, o.Malice.OtherEventHash[:])
	buf = protowire.AppendTag(buf, 8, protowire.BytesType)
	buf = protowire.AppendBytes(buf, o.Payload)
	return buf
}

// Unmarshal parses bytes produced by Marshal.
func Unmarshal(buf []byte) (Observation, error) {
	var o Observation
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return Observation{}, protowire.ParseError(n)
		}
		buf = buf[n:]
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(buf)
			if n < 0 {
				return Observation{}, protowire.ParseError(n)
			}
			buf = buf[n:]
			switch num {
			case 1:
				o.Kind = Kind(v)
			case 5:
				o.Malice.Kind = MaliceKind(v)
			}
		case protowire.BytesType:
			field, n := protowire.ConsumeBytes(buf)
			if n < 0 {
				return Observation{}, protowire.ParseError(n)
			}
			buf = buf[n:]
			switch num {
			case 2:
				var id ids.NodeID
				copy(id[:], field)
				o.Group = append(o.Group, id)
			case 3:
				copy(o.Peer[:], field)
			case 4:
				copy(o.Offender[:], field)
			case 6:
				copy(o.Malice.EventHash[:], field)
			case 7:
				copy(o.Malice.OtherEventHash[:], field)
			case 8:
				o.Payload = append([]byte(nil), field...)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return Observation{}, protowire.ParseError(n)
			}
			buf = buf[n:]
		}
	}
	return o, nil
}
