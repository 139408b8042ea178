package ibox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ositech/dmtp-agent/internal/property"
	"github.com/ositech/dmtp-agent/internal/serial/serialtest"
)

type fakeReporter struct {
	events []string
}

func (r *fakeReporter) ReportIBoxEvent(_ context.Context, text string) error {
	r.events = append(r.events, text)
	return nil
}

func newTestStore(t *testing.T) *property.Store {
	t.Helper()
	s, err := property.NewStore(property.DefaultDefinitions(), "")
	require.NoError(t, err)
	return s
}

func TestRequestPIDSuccess(t *testing.T) {
	store := newTestStore(t)
	port := serialtest.New()
	reporter := &fakeReporter{}
	eng := NewEngine(port, store, reporter)

	reply := BuildReply(147, PIDFuelLevel, []byte{0x55})
	port.Feed(reply)

	out, err := eng.RequestPID(PIDFuelLevel, nil, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(PIDFuelLevel), 0x55}, out)
	require.Len(t, port.Written, 1)
	assert.Equal(t, BuildRequest(147, PIDFuelLevel, nil), port.Written[0])
}

func TestRequestPIDTimeout(t *testing.T) {
	store := newTestStore(t)
	port := serialtest.New()
	eng := NewEngine(port, store, &fakeReporter{})

	_, err := eng.RequestPID(PIDFuelLevel, nil, time.Millisecond)
	assert.Error(t, err)
}

func TestRescanPolledAddsAndRemoves(t *testing.T) {
	store := newTestStore(t)
	eng := NewEngine(serialtest.New(), store, &fakeReporter{})

	eng.rescanPolled()
	assert.Empty(t, eng.active)

	require.NoError(t, store.SetUint32(property.KeyIbox96Request, 0, 10))
	eng.rescanPolled()
	assert.Contains(t, eng.active, PIDFuelLevel)
	assert.EqualValues(t, 10, eng.active[PIDFuelLevel].rate)

	require.NoError(t, store.SetUint32(property.KeyIbox96Request, 0, 0))
	eng.rescanPolled()
	assert.NotContains(t, eng.active, PIDFuelLevel)
}

func TestFirePollEncodesFailureOnVerifyError(t *testing.T) {
	store := newTestStore(t)
	port := serialtest.New()
	reporter := &fakeReporter{}
	eng := NewEngine(port, store, reporter)

	require.NoError(t, store.SetUint32(property.KeyIbox96Request, 0, 1))
	require.NoError(t, store.SetUint32(property.KeyIbox96Request, 1, 1))
	eng.rescanPolled()
	st := eng.active[PIDFuelLevel]
	require.NotNil(t, st)

	reply := BuildReply(147, PIDFuelLevel, []byte{0x55})
	reply[len(reply)-1] ^= 0xFF // corrupt the checksum
	port.Feed(reply)

	eng.firePoll(context.Background(), st, time.Now())
	require.Len(t, reporter.events, 1)
	assert.Equal(t, "096?", reporter.events[0])
}

func TestFireCommandsPowerOffClosesPort(t *testing.T) {
	store := newTestStore(t)
	port := serialtest.New()
	reporter := &fakeReporter{}
	eng := NewEngine(port, store, reporter)

	require.NoError(t, store.SetString(property.KeyIbox205Command, "00"))
	reply := BuildReply(147, PIDPowerControl, []byte{0x00})
	port.Feed(reply)

	eng.fireCommands(context.Background())
	require.Len(t, reporter.events, 1)
	assert.Equal(t, "205,00", reporter.events[0])
	assert.Equal(t, "", store.GetString(property.KeyIbox205Command, "unset"))

	_, err := port.Write([]byte{1})
	assert.ErrorIs(t, err, serialtest.ErrClosed)
}

func TestRateOnceFiresSingleShot(t *testing.T) {
	store := newTestStore(t)
	port := serialtest.New()
	reporter := &fakeReporter{}
	eng := NewEngine(port, store, reporter)

	require.NoError(t, store.SetUint32(property.KeyIbox96Request, 0, 0xFFFF))
	eng.rescanPolled()
	st := eng.active[PIDFuelLevel]
	require.NotNil(t, st)

	eng.firePoll(context.Background(), st, time.Now())
	assert.NotContains(t, eng.active, PIDFuelLevel)
	assert.EqualValues(t, 0, store.GetUint32(property.KeyIbox96Request, 0, 99))
}
