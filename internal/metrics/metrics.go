// Package metrics exposes the agent's runtime counters/gauges as
// Prometheus collectors: per-PID request outcomes, transport
// retry/timeout counts, and watchdog escalation state.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles every metric the agent registers. A single
// instance is created by internal/agent; the uplink reporter there
// increments TransportTimeoutsTotal, and no other component updates
// these collectors.
type Collectors struct {
	IBoxRequestsTotal      *prometheus.CounterVec
	IBoxLastSampleTime     *prometheus.GaugeVec
	TransportRetriesTotal  *prometheus.CounterVec
	TransportTimeoutsTotal *prometheus.CounterVec
	WatchdogEscalation     prometheus.Gauge
	WatchdogRebootsTotal   prometheus.Counter
}

// New constructs the collector set without registering it; callers
// register against whichever prometheus.Registerer they use (the
// default registry in production, a fresh one in tests).
func New() *Collectors {
	return &Collectors{
		IBoxRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ibox_pid_requests_total",
			Help: "iBox PID requests by PID and outcome.",
		}, []string{"pid", "result"}),
		IBoxLastSampleTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ibox_pid_last_sample_timestamp",
			Help: "Unix timestamp of the last successful sample for a PID.",
		}, []string{"pid"}),
		TransportRetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transport_retries_total",
			Help: "Resend attempts by transport.",
		}, []string{"transport"}),
		TransportTimeoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transport_timeouts_total",
			Help: "Exhausted-retry timeouts by transport.",
		}, []string{"transport"}),
		WatchdogEscalation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "watchdog_escalation_level",
			Help: "Current watchdog stuck-vote sum.",
		}),
		WatchdogRebootsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "watchdog_reboots_total",
			Help: "Number of watchdog-triggered reboots.",
		}),
	}
}

// MustRegister registers every collector against reg, panicking on a
// duplicate registration — a startup-only condition, not a
// steady-state error.
func (c *Collectors) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		c.IBoxRequestsTotal,
		c.IBoxLastSampleTime,
		c.TransportRetriesTotal,
		c.TransportTimeoutsTotal,
		c.WatchdogEscalation,
		c.WatchdogRebootsTotal,
	)
}
