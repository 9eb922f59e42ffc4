package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/phanxgames/sway"
	"github.com/phanxgames/sway/remote"
)

// session wires a graph to its clock and, for remote scripts, to an
// in-process remote executor ticked on the same goroutine.
type session struct {
	graph    *sway.Graph
	clock    *sway.Clock
	exec     *remote.Executor
	inbox    *remote.Inbox
	registry *prometheus.Registry
}

func newSession(cfg sway.Config, logger *slog.Logger, useRemote bool, sink remote.TargetSink) *session {
	s := &session{
		clock:    sway.NewClock(),
		registry: prometheus.NewRegistry(),
	}
	opts := append(cfg.BridgeOptions(s.clock),
		sway.WithLogger(logger),
		sway.WithMetrics(sway.NewMetrics(s.registry)),
	)
	var bridge *sway.Bridge
	if useRemote {
		s.inbox = remote.NewInbox()
		s.exec = remote.NewExecutor(s.inbox, remote.WithLogger(logger), remote.WithTargetSink(sink))
		opts = append(opts, sway.WithResultSource(s.inbox))
		bridge = sway.NewBridge(s.exec, opts...)
	} else {
		bridge = sway.NewBridge(nil, opts...)
	}
	s.graph = sway.NewGraph(bridge, s.clock)
	return s
}

// tick advances the remote side by dt and hands its results to the bridge.
func (s *session) tick(dt float32) {
	if s.exec == nil {
		return
	}
	s.exec.Tick(dt)
	s.inbox.Drain()
}

// counters returns every counter sample gathered from the session metrics,
// keyed by family name and label values.
func (s *session) counters() (map[string]float64, error) {
	families, err := s.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range m.GetLabel() {
				name += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			switch {
			case m.GetCounter() != nil:
				out[name] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				out[name+"_count"] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}
