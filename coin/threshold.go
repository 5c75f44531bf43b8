// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package coin

import (
	"crypto/sha256"

	"github.com/luxfi/threshold"
)

// ThresholdCoin is a common-coin oracle backed by a t-of-n threshold
// signing key (github.com/luxfi/threshold, the post-quantum threshold
// primitive this ecosystem also exposes in-module as ringtail.ThresholdKey
// — same Sign/Aggregate/Verify shape, externalized into its own module).
// Each voter's Toss for a round is the parity bit of its own signature
// share over that round's message, so a GenuineFlip step only ever needs
// each voter's own share, never a value any other voter could predict or
// influence (§9 DESIGN NOTES: "a production implementation wires it to
// the DKG subsystem's threshold signature shares").
type ThresholdCoin struct {
	key threshold.Key
}

// NewThresholdCoin wraps a t-of-n threshold signing key as a common-coin
// oracle. key is expected to come from the same DKG ceremony run for the
// peer set backing the election this coin serves.
func NewThresholdCoin(key threshold.Key) *ThresholdCoin {
	return &ThresholdCoin{key: key}
}

// roundMessage derives the per-(voter,round) message every voter signs
// independently; sharing no state between voters is what keeps the coin
// unbiased until Supermajority-many shares exist.
func roundMessage(voterIndex, round int) []byte {
	msg := make([]byte, 8)
	msg[0] = byte(voterIndex)
	msg[1] = byte(voterIndex >> 8)
	msg[2] = byte(voterIndex >> 16)
	msg[3] = byte(voterIndex >> 24)
	msg[4] = byte(round)
	msg[5] = byte(round >> 8)
	msg[6] = byte(round >> 16)
	msg[7] = byte(round >> 24)
	return msg
}

// Toss implements metavote.Coin. ok is false when the underlying key
// can't produce a share yet (e.g. the DKG ceremony for this round hasn't
// completed), mirroring Mock's withheld-toss contract for S6-style
// common-coin unavailability.
func (c *ThresholdCoin) Toss(voterIndex, round int) (bool, bool) {
	share, err := c.key.Sign(roundMessage(voterIndex, round))
	if err != nil {
		return false, false
	}
	sum := sha256.Sum256(share)
	return sum[0]&1 == 1, true
}
