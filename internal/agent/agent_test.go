package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ositech/dmtp-agent/internal/ibox"
	"github.com/ositech/dmtp-agent/internal/metrics"
	"github.com/ositech/dmtp-agent/internal/property"
	"github.com/ositech/dmtp-agent/internal/serial/serialtest"
	"github.com/ositech/dmtp-agent/internal/transport"
)

type fakeTransport struct {
	open    bool
	written [][]byte
	readErr error
}

func (f *fakeTransport) Initialize(int) error { return nil }
func (f *fakeTransport) Open() error           { f.open = true; return nil }
func (f *fakeTransport) Close() error          { f.open = false; return nil }
func (f *fakeTransport) IsOpen() bool          { return f.open }
func (f *fakeTransport) WritePacket(b []byte) (int, error) {
	cp := append([]byte(nil), b...)
	f.written = append(f.written, cp)
	return len(b), nil
}
func (f *fakeTransport) ReadPacket(buf []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	return copy(buf, []byte("ack")), nil
}
func (f *fakeTransport) Reset(int)       {}
func (f *fakeTransport) ReadFlush() error { return nil }

var _ transport.Transport = (*fakeTransport)(nil)

func TestUplinkReporterOpensTransportLazilyAndFormatsStatusRecord(t *testing.T) {
	ft := &fakeTransport{}
	r := newUplinkReporter(ft, metrics.New(), "udp")

	require.NoError(t, r.ReportIBoxEvent(context.Background(), "96,0102"))
	assert.True(t, ft.open)
	require.Len(t, ft.written, 1)

	msg := "96,0102\n"
	// status(2) + timestamp(4) + message + seq(1)
	assert.Equal(t, 2+4+len(msg)+1, len(ft.written[0]))
	assert.Equal(t, byte(0), ft.written[0][len(ft.written[0])-1])
}

func TestUplinkReporterCountsTimeoutOnReadFailure(t *testing.T) {
	ft := &fakeTransport{}
	m := metrics.New()
	r := newUplinkReporter(ft, m, "udp")
	ft.readErr = errors.New("boom")

	require.NoError(t, r.ReportIBoxEvent(context.Background(), "x"))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TransportTimeoutsTotal.WithLabelValues("udp")))
}

type stubReporter struct{}

func (stubReporter) ReportIBoxEvent(context.Context, string) error { return nil }

func TestEngineStalledVoteFalseBeforeFirstCycle(t *testing.T) {
	store, err := property.NewStore(property.DefaultDefinitions(), "")
	require.NoError(t, err)
	engine := ibox.NewEngine(serialtest.New(), store, stubReporter{})

	a := &Agent{engine: engine}
	vote := a.engineStalled(time.Minute)
	assert.False(t, vote(), "no cycle completed yet, vote must not claim a stall")
}

func TestEngineStalledVoteTrueAfterGapSinceLastCycle(t *testing.T) {
	store, err := property.NewStore(property.DefaultDefinitions(), "")
	require.NoError(t, err)
	engine := ibox.NewEngine(serialtest.New(), store, stubReporter{})

	ctx, cancel := context.WithTimeout(context.Background(), 1100*time.Millisecond)
	defer cancel()
	require.NoError(t, engine.Run(ctx))

	a := &Agent{engine: engine}
	vote := a.engineStalled(time.Nanosecond)
	assert.True(t, vote(), "a completed tick further in the past than the threshold must read as stalled")
}
