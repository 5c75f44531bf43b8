// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metavote

// MetaVote holds the state of one (binary) meta-vote a single voter is
// trying to reach consensus on, at one step of one round (§3).
type MetaVote struct {
	Round     int
	Step      Step
	Estimates BoolSet
	BinValues BoolSet
	AuxValue  *bool
	Decision  *bool
}

// New builds the first MetaVote in a voter's vector from initialEstimate,
// then advances it as far as others and coin allow (meta_vote.rs's
// MetaVote::new).
func New(initialEstimate bool, others [][]MetaVote, voterIndex, totalPeers int, coin Coin) []MetaVote {
	initial := MetaVote{Estimates: BoolSetOf(initialEstimate)}
	return Next([]MetaVote{initial}, others, voterIndex, totalPeers, coin)
}

// Next advances parent (a voter's existing meta-vote vector) by one
// update pass followed by as many step-advances as the current state of
// others allows, mirroring meta_vote.rs's two-pass fixed point: first
// update_meta_vote is applied to every still-undecided parent entry,
// then next_meta_vote repeatedly advances the step as long as a
// supermajority of others' aux_values are set (§4.4 "Step advancement").
//
// This faithfully preserves the original's two-call shape rather than
// collapsing it into a single step, since a single call to Next may
// legitimately append more than one MetaVote to the returned vector.
func Next(parent []MetaVote, others [][]MetaVote, voterIndex, totalPeers int, coin Coin) []MetaVote {
	next := make([]MetaVote, 0, len(parent)+1)
	for _, vote := range parent {
		c := newCounts(vote, others, totalPeers)
		updated := updateMetaVote(vote, c, voterIndex, coin)
		next = append(next, updated)
		if updated.Decision != nil {
			return next
		}
	}

	for {
		advanced, ok := nextMetaVote(next[len(next)-1], others, voterIndex, totalPeers, coin)
		if !ok {
			break
		}
		next = append(next, advanced)
	}
	return next
}

// updateMetaVote runs one full update pass (estimates, bin_values,
// aux_value, decision) over vote given counts over others, returning the
// updated MetaVote. A vote that already carries a decision is returned
// unchanged (§4.4 "Termination").
func updateMetaVote(vote MetaVote, c *counts, voterIndex int, coin Coin) MetaVote {
	if vote.Decision != nil {
		return vote
	}
	updated := vote
	toss, tossOK := coin.Toss(voterIndex, vote.Round)

	calculateNewEstimates(&updated, c, toss, tossOK)
	binValuesWasEmpty := updated.BinValues.IsEmpty()
	calculateNewBinValues(&updated, c)
	calculateNewAuxiliaryValue(&updated, c, binValuesWasEmpty)
	calculateNewDecision(&updated, c)
	return updated
}

// nextMetaVote advances parent to the next step/round if a supermajority
// of others' aux_values are set (§4.4 "Step advancement: only when a
// supermajority of others' aux_values are set").
func nextMetaVote(parent MetaVote, others [][]MetaVote, voterIndex, totalPeers int, coin Coin) (MetaVote, bool) {
	if parent.Decision != nil {
		return MetaVote{}, false
	}
	c := newCounts(parent, others, totalPeers)
	if !c.isSupermajority(c.auxValuesSet()) {
		return MetaVote{}, false
	}
	toss, tossOK := coin.Toss(voterIndex, parent.Round)
	next := parent
	increaseStep(&next, c, toss, tossOK)
	return next, true
}

// calculateNewEstimates implements §4.4's estimates rule: if empty and a
// coin toss for this round is available, seed with the toss; else
// include true (resp. false) whenever at least one-third of others hold
// that value and it is not yet present.
func calculateNewEstimates(vote *MetaVote, c *counts, toss bool, tossOK bool) {
	if vote.Estimates.IsEmpty() {
		if tossOK {
			if toss {
				c.estimatesTrue++
			} else {
				c.estimatesFalse++
			}
			vote.Estimates = BoolSetOf(toss)
		}
		return
	}
	if c.atLeastOneThird(c.estimatesTrue) && vote.Estimates.Insert(true) {
		c.estimatesTrue++
	}
	if c.atLeastOneThird(c.estimatesFalse) && vote.Estimates.Insert(false) {
		c.estimatesFalse++
	}
}

// calculateNewBinValues implements §4.4's bin_values rule: include b iff
// a supermajority of others hold b in estimates.
func calculateNewBinValues(vote *MetaVote, c *counts) {
	if c.isSupermajority(c.estimatesTrue) && vote.BinValues.Insert(true) {
		c.binValuesTrue++
	}
	if c.isSupermajority(c.estimatesFalse) && vote.BinValues.Insert(false) {
		c.binValuesFalse++
	}
}

// calculateNewAuxiliaryValue implements §4.4's aux_value rule: set once,
// when bin_values transitions from empty.
func calculateNewAuxiliaryValue(vote *MetaVote, c *counts, binValuesWasEmpty bool) {
	if vote.AuxValue != nil || !binValuesWasEmpty {
		return
	}
	switch vote.BinValues.Len() {
	case 1:
		b := vote.BinValues.Contains(true)
		vote.AuxValue = &b
		if b {
			c.auxValuesTrue++
		} else {
			c.auxValuesFalse++
		}
	case 2:
		t := true
		vote.AuxValue = &t
		c.auxValuesTrue++
	}
}

// calculateNewDecision implements §4.4's per-step decision rule.
func calculateNewDecision(vote *MetaVote, c *counts) {
	var decision *bool
	switch vote.Step {
	case ForcedTrue:
		if vote.BinValues.Contains(true) && c.isSupermajority(c.auxValuesTrue) {
			t := true
			decision = &t
		} else {
			decision = c.decision
		}
	case ForcedFalse:
		if vote.BinValues.Contains(false) && c.isSupermajority(c.auxValuesFalse) {
			f := false
			decision = &f
		} else {
			decision = c.decision
		}
	case GenuineFlip:
		decision = c.decision
	}
	if decision == nil {
		return
	}
	b := *decision
	vote.Estimates = BoolSetOf(b)
	vote.BinValues = BoolSetOf(b)
	vote.AuxValue = &b
	vote.Decision = &b
}

// increaseStep implements §4.4's step-advancement rule, producing the
// next MetaVote's step/round and seed estimate.
func increaseStep(vote *MetaVote, c *counts, toss bool, tossOK bool) {
	vote.BinValues.Clear()
	vote.AuxValue = nil

	switch vote.Step {
	case ForcedTrue:
		if c.isSupermajority(c.auxValuesFalse) {
			vote.Estimates = BoolSetOf(false)
		} else if !c.isSupermajority(c.auxValuesTrue) {
			vote.Estimates = BoolSetOf(true)
		}
		vote.Step = ForcedFalse
	case ForcedFalse:
		if c.isSupermajority(c.auxValuesTrue) {
			vote.Estimates = BoolSetOf(true)
		} else if !c.isSupermajority(c.auxValuesFalse) {
			vote.Estimates = BoolSetOf(false)
		}
		vote.Step = GenuineFlip
	case GenuineFlip:
		switch {
		case c.isSupermajority(c.auxValuesTrue):
			vote.Estimates = BoolSetOf(true)
		case c.isSupermajority(c.auxValuesFalse):
			vote.Estimates = BoolSetOf(false)
		case tossOK:
			vote.Estimates = BoolSetOf(toss)
		default:
			vote.Estimates.Clear()
		}
		vote.Step = ForcedTrue
		vote.Round++
	}
}
