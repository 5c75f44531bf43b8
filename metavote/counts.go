// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metavote

// counts tallies, over the "others" vectors relevant to one MetaVote,
// how many hold each value at the fields update_meta_vote/increase_step
// consult, plus any decision already reached by one of them. Thresholds
// are evaluated against totalPeers, not the number of others that
// happened to have a relevant entry — a lagging voter simply doesn't
// contribute a tally, it is never treated as voting the opposite way.
type counts struct {
	totalPeers int

	estimatesTrue, estimatesFalse int
	binValuesTrue, binValuesFalse int
	auxValuesTrue, auxValuesFalse int
	decision                      *bool
}

// newCounts tallies others' entries that correspond to vote's (round,
// step): for each other voter's vector, relevantEntry finds the entry
// whose round/step matches the query, or a carried-forward decision if
// that voter already decided (decisions are permanent and apply to every
// later query, §4.4 "decision, once set, is permanent").
func newCounts(vote MetaVote, others [][]MetaVote, totalPeers int) *counts {
	c := &counts{totalPeers: totalPeers}
	for _, otherVec := range others {
		entry := relevantEntry(otherVec, vote.Round, vote.Step)
		if entry == nil {
			continue
		}
		if entry.Decision != nil {
			if c.decision == nil {
				d := *entry.Decision
				c.decision = &d
			}
		}
		if entry.Estimates.Contains(true) {
			c.estimatesTrue++
		}
		if entry.Estimates.Contains(false) {
			c.estimatesFalse++
		}
		if entry.BinValues.Contains(true) {
			c.binValuesTrue++
		}
		if entry.BinValues.Contains(false) {
			c.binValuesFalse++
		}
		if entry.AuxValue != nil {
			if *entry.AuxValue {
				c.auxValuesTrue++
			} else {
				c.auxValuesFalse++
			}
		}
	}
	return c
}

// relevantEntry finds the MetaVote in vec that corresponds to the
// queried (round, step): an exact match if present, else the decided
// terminal entry if the voter has already finished, else nil (that
// voter simply hasn't reached this point yet and contributes no tally).
func relevantEntry(vec []MetaVote, round int, step Step) *MetaVote {
	if len(vec) == 0 {
		return nil
	}
	last := &vec[len(vec)-1]
	if last.Decision != nil {
		return last
	}
	for i := range vec {
		if vec[i].Round == round && vec[i].Step == step {
			return &vec[i]
		}
	}
	return nil
}

func (c *counts) auxValuesSet() int {
	return c.auxValuesTrue + c.auxValuesFalse
}

// atLeastOneThird reports whether count meets the "at least one third of
// others" threshold relative to totalPeers (§4.4).
func (c *counts) atLeastOneThird(count int) bool {
	return 3*count >= c.totalPeers
}

// isSupermajority reports whether count meets the "supermajority"
// (strictly more than two thirds) threshold relative to totalPeers.
func (c *counts) isSupermajority(count int) bool {
	return count > 2*c.totalPeers/3
}
