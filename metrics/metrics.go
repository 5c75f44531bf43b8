// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics wraps the prometheus collectors a PARSEC peer exposes.
// Every counter/gauge is optional: a nil *Metrics, or one built with a nil
// Registerer, still works, it just never gets scraped.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the collectors for one peer's consensus core.
type Metrics struct {
	reg prometheus.Registerer

	EventsInserted       prometheus.Counter
	ObserverEvents       prometheus.Counter
	ElectionsStarted     prometheus.Counter
	ElectionsDecided     prometheus.Counter
	BlocksEmitted        prometheus.Counter
	MaliceAccusations    prometheus.Counter
	GossipRequestsServed prometheus.Counter
	GossipResponsesServed prometheus.Counter
	UnconsensusedEvents  prometheus.Gauge
	ElectionDecideLatency Averager
}

// NewMetrics registers and returns a Metrics. reg may be nil, in which case
// every collector is still allocated but never registered (useful in unit
// tests that don't care about prometheus output).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		reg:                   reg,
		EventsInserted:        prometheus.NewCounter(prometheus.CounterOpts{Name: "parsec_events_inserted_total", Help: "Total number of events inserted into the local graph."}),
		ObserverEvents:        prometheus.NewCounter(prometheus.CounterOpts{Name: "parsec_observer_events_total", Help: "Total number of events that became observers."}),
		ElectionsStarted:      prometheus.NewCounter(prometheus.CounterOpts{Name: "parsec_elections_started_total", Help: "Total number of meta-elections started."}),
		ElectionsDecided:      prometheus.NewCounter(prometheus.CounterOpts{Name: "parsec_elections_decided_total", Help: "Total number of meta-elections that decided a payload."}),
		BlocksEmitted:         prometheus.NewCounter(prometheus.CounterOpts{Name: "parsec_blocks_emitted_total", Help: "Total number of blocks emitted to the embedder."}),
		MaliceAccusations:     prometheus.NewCounter(prometheus.CounterOpts{Name: "parsec_malice_accusations_total", Help: "Total number of malice accusations raised."}),
		GossipRequestsServed:  prometheus.NewCounter(prometheus.CounterOpts{Name: "parsec_gossip_requests_served_total", Help: "Total number of gossip requests handled."}),
		GossipResponsesServed: prometheus.NewCounter(prometheus.CounterOpts{Name: "parsec_gossip_responses_served_total", Help: "Total number of gossip responses handled."}),
		UnconsensusedEvents:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "parsec_unconsensused_events", Help: "Current number of unconsensused events carried by the active election."}),
	}

	avg, err := NewAverager("parsec_election_decide_latency_ns", "nanoseconds an election took to decide once started", reg)
	if err != nil {
		return nil, err
	}
	m.ElectionDecideLatency = avg

	if reg == nil {
		return m, nil
	}
	collectors := []prometheus.Collector{
		m.EventsInserted, m.ObserverEvents, m.ElectionsStarted, m.ElectionsDecided,
		m.BlocksEmitted, m.MaliceAccusations, m.GossipRequestsServed, m.GossipResponsesServed,
		m.UnconsensusedEvents,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
