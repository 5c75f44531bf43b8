// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "errors"

var (
	ErrMissingOurID                     = errors.New("config: OurID must be set")
	ErrEmptyGenesisGroup                = errors.New("config: GenesisGroup must not be empty")
	ErrOurIDNotInGenesis                = errors.New("config: OurID must be a member of GenesisGroup")
	ErrInvalidMaxEventsPerGossipMessage = errors.New("config: MaxEventsPerGossipMessage must be > 0")
	ErrInvalidGossipFanOut              = errors.New("config: GossipFanOut must be >= 0")
)
