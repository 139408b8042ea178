package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllCollectors(t *testing.T) {
	c := New()
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { c.MustRegister(reg) })

	c.IBoxRequestsTotal.WithLabelValues("1126", "ok").Inc()
	c.IBoxLastSampleTime.WithLabelValues("1126").Set(1700000000)
	c.TransportRetriesTotal.WithLabelValues("udp").Inc()
	c.TransportTimeoutsTotal.WithLabelValues("tcp").Inc()
	c.WatchdogEscalation.Set(2)
	c.WatchdogRebootsTotal.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	New().MustRegister(reg)
	assert.Panics(t, func() { New().MustRegister(reg) })
}
