// Package stats tracks process-lifetime counters for the stream pipeline
// and exposes them two ways: a cheap snapshot the TUI polls every second,
// and Prometheus collectors served on /metrics.
package stats

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "speccast"

// Counters accumulates pipeline totals. All fields are atomics; the
// capture loop, the broadcaster, and the connection gate update them
// concurrently while the TUI polls Snapshot.
type Counters struct {
	FramesCaptured  atomic.Int64
	EmptyDeltas     atomic.Int64
	Rectangles      atomic.Int64
	PacketsSent     atomic.Int64
	BytesSent       atomic.Int64
	Broadcasts      atomic.Int64
	SessionsStarted atomic.Int64
	SessionsEnded   atomic.Int64
	Rejected        atomic.Int64
	ActiveSessions  atomic.Int64
}

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	FramesCaptured  int64
	EmptyDeltas     int64
	Rectangles      int64
	PacketsSent     int64
	BytesSent       int64
	Broadcasts      int64
	SessionsStarted int64
	SessionsEnded   int64
	Rejected        int64
	ActiveSessions  int64
}

// Snapshot copies the current counter values for display.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		FramesCaptured:  c.FramesCaptured.Load(),
		EmptyDeltas:     c.EmptyDeltas.Load(),
		Rectangles:      c.Rectangles.Load(),
		PacketsSent:     c.PacketsSent.Load(),
		BytesSent:       c.BytesSent.Load(),
		Broadcasts:      c.Broadcasts.Load(),
		SessionsStarted: c.SessionsStarted.Load(),
		SessionsEnded:   c.SessionsEnded.Load(),
		Rejected:        c.Rejected.Load(),
		ActiveSessions:  c.ActiveSessions.Load(),
	}
}

// Collectors returns Prometheus views over the counters. The collectors
// read the atomics at scrape time, so there is no separate recording path
// to keep in sync.
func (c *Counters) Collectors() []prometheus.Collector {
	counter := func(name, help string, v *atomic.Int64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(v.Load()) })
	}
	return []prometheus.Collector{
		counter("frames_captured_total", "Total frames grabbed from the capture source", &c.FramesCaptured),
		counter("empty_deltas_total", "Capture cycles skipped because nothing changed", &c.EmptyDeltas),
		counter("rectangles_total", "Merged delta rectangles produced", &c.Rectangles),
		counter("packets_sent_total", "Rectangle packets written to the viewer", &c.PacketsSent),
		counter("bytes_sent_total", "Payload bytes written to the viewer", &c.BytesSent),
		counter("broadcasts_total", "Conversation updates delivered to a viewer", &c.Broadcasts),
		counter("sessions_started_total", "Viewer sessions accepted", &c.SessionsStarted),
		counter("sessions_ended_total", "Viewer sessions terminated", &c.SessionsEnded),
		counter("rejected_connections_total", "Connection attempts refused by the allow-list", &c.Rejected),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Currently active viewer sessions (0 or 1)",
		}, func() float64 { return float64(c.ActiveSessions.Load()) }),
	}
}

// Handler serves the counters plus Go runtime and process metrics in
// Prometheus exposition format, for embedding into an existing mux.
func Handler(c *Counters) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(c.Collectors()...)
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
