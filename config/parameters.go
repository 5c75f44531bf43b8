// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

// Parameters holds the tuning knobs a caller can vary per deployment
// without changing core semantics. Unlike a sampled consensus (Avalanche's
// K/alpha/beta), PARSEC is full-membership: every voter is always
// consulted, so there is no sample-size or confidence-threshold knob here.
type Parameters struct {
	// GossipFanOut is the number of recipients to contact per round; 0
	// means "all valid recipients". It is checked by Validate only;
	// nothing in this module reads it when choosing gossip recipients.
	GossipFanOut int
	// MaxEventsPerGossipMessage is a cap on the number of packed events a
	// single Request or Response carries. It is checked by Validate only;
	// the gossip handler does not split or truncate messages by it.
	MaxEventsPerGossipMessage int
	// UnconsensusedEventWarnThreshold is the unconsensused-event count
	// above which an election is considered to be falling behind. It is
	// carried for the embedder; nothing in this module reads it or logs
	// against it.
	UnconsensusedEventWarnThreshold int
}

// Validate reports whether p has sane, non-degenerate values.
func (p Parameters) Validate() error {
	if p.MaxEventsPerGossipMessage <= 0 {
		return ErrInvalidMaxEventsPerGossipMessage
	}
	if p.GossipFanOut < 0 {
		return ErrInvalidGossipFanOut
	}
	return nil
}

// Local returns parameters suited to a handful of peers on one machine.
func Local() Parameters {
	return Parameters{
		GossipFanOut:                    0,
		MaxEventsPerGossipMessage:       256,
		UnconsensusedEventWarnThreshold: 512,
	}
}

// Testnet returns parameters suited to a small public test deployment.
func Testnet() Parameters {
	return Parameters{
		GossipFanOut:                    4,
		MaxEventsPerGossipMessage:       512,
		UnconsensusedEventWarnThreshold: 2048,
	}
}

// Mainnet returns parameters suited to a large production deployment.
func Mainnet() Parameters {
	return Parameters{
		GossipFanOut:                    6,
		MaxEventsPerGossipMessage:       1024,
		UnconsensusedEventWarnThreshold: 8192,
	}
}

// SingleValidator returns parameters for a one-peer deployment, useful in
// tests and as a degenerate bootstrap case.
func SingleValidator() Parameters {
	return Parameters{
		GossipFanOut:                    0,
		MaxEventsPerGossipMessage:       64,
		UnconsensusedEventWarnThreshold: 128,
	}
}

// DefaultParameters is an alias for Local, a DefaultParams()-style
// convenience constructor.
func DefaultParameters() Parameters {
	return Local()
}
