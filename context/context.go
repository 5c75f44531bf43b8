// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package context carries the ambient, cross-cutting collaborators a
// PARSEC peer needs but which are not part of the consensus state itself:
// identity, logging, metrics and a clock seam for deterministic tests.
package context

import (
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/parsec/internal/xlog"
	"github.com/luxfi/parsec/metrics"
)

// Context is passed by value into every long-lived component (the event
// graph, the election driver, the gossip handler) at construction time.
type Context struct {
	// NetworkID distinguishes independent PARSEC deployments that happen
	// to share wire formats.
	NetworkID uint32
	// OurID is this peer's own identity.
	OurID ids.NodeID
	// Log is the structured logger every component writes to.
	Log log.Logger
	// Metrics is nil-safe: components must tolerate a nil *metrics.Metrics.
	Metrics *metrics.Metrics
	// Now returns the current time; overridden in tests for determinism.
	Now func() time.Time
}

// New builds a Context with a functioning clock and the given
// collaborators. A nil logger is replaced with xlog.NoOp so every
// long-lived component can log unconditionally.
func New(networkID uint32, ourID ids.NodeID, logger log.Logger, m *metrics.Metrics) Context {
	if logger == nil {
		logger = xlog.NoOp{}
	}
	return Context{
		NetworkID: networkID,
		OurID:     ourID,
		Log:       logger,
		Metrics:   m,
		Now:       time.Now,
	}
}

// clock returns ctx.Now if set, else the real clock. Call sites use this
// instead of touching Now directly so a zero-value Context still works.
func (ctx Context) clock() time.Time {
	if ctx.Now != nil {
		return ctx.Now()
	}
	return time.Now()
}

// Time returns the current time according to this context's clock.
func (ctx Context) Time() time.Time {
	return ctx.clock()
}
