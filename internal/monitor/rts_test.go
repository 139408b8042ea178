package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ositech/dmtp-agent/internal/diagnostic"
	"github.com/ositech/dmtp-agent/internal/property"
	"github.com/ositech/dmtp-agent/internal/serial"
	"github.com/ositech/dmtp-agent/internal/serial/serialtest"
)

func newTestStore(t *testing.T) *property.Store {
	t.Helper()
	s, err := property.NewStore(property.DefaultDefinitions(), "")
	require.NoError(t, err)
	return s
}

func TestRTSMonitorReportsFirstSampleAndTransitions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetUint32(property.KeyStateRTSCheck, property.RTSCheckIntervalIndex, 0))

	port := serialtest.New()
	opens := 0
	opener := func(device string) (serial.PortIO, error) {
		opens++
		if opens == 2 {
			port.RTS = true
		}
		return port, nil
	}

	diag := diagnostic.New()
	var events []diagnostic.Event
	diag.Subscribe(func(ev diagnostic.Event) { events = append(events, ev) })

	mon := NewRTSMonitor(store, diag, opener)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = mon.Run(ctx)

	require.GreaterOrEqual(t, len(events), 2)
	assert.Contains(t, events[0].Message, "OFF")
	found := false
	for _, ev := range events[1:] {
		if ev.Message == "RTS Powered ON" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRTSMonitorSkipsWhenDisabled(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetUint32(property.KeyStateRTSCheck, property.RTSCheckEnableIndex, 0))
	require.NoError(t, store.SetUint32(property.KeyStateRTSCheck, property.RTSCheckIntervalIndex, 0))

	port := serialtest.New()
	opener := func(device string) (serial.PortIO, error) { return port, nil }

	diag := diagnostic.New()
	var events []diagnostic.Event
	diag.Subscribe(func(ev diagnostic.Event) { events = append(events, ev) })

	mon := NewRTSMonitor(store, diag, opener)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_ = mon.Run(ctx)

	assert.Empty(t, events)
}
