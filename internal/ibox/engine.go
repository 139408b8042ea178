package ibox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ositech/dmtp-agent/internal/property"
	"github.com/ositech/dmtp-agent/internal/serial"
)

// maxReplyLen bounds a single read-with-timeout call; iBox replies
// are short (a handful of payload bytes plus framing), so this is
// generous headroom rather than a tight fit.
const maxReplyLen = 140

// rateOnce is the sentinel sample-rate meaning "fire once, then stop",
// recovered from iBox.c's 0xFFFF check.
const rateOnce = 0xFFFF

// Reporter forwards a completed iBox exchange (success or failure,
// already ASCII-encoded) toward the uplink packet pipeline.
type Reporter interface {
	ReportIBoxEvent(ctx context.Context, text string) error
}

type pollState struct {
	desc       pollDescriptor
	rate       uint32
	timeout    uint32
	lastSample time.Time
	fired      bool
}

// Engine drives the per-PID request/response cycle against a single
// iBox serial device: scheduling polled PIDs by their configured
// sample rate, dispatching command PIDs on demand, and reporting
// every outcome (including failures) to a Reporter.
type Engine struct {
	mu       sync.Mutex
	port     serial.PortIO
	store    *property.Store
	reporter Reporter

	active    map[PID]*pollState
	lastErr   error
	lastCycle time.Time
}

// NewEngine constructs an Engine bound to an already-open serial
// device and the shared property store.
func NewEngine(port serial.PortIO, store *property.Store, reporter Reporter) *Engine {
	return &Engine{
		port:     port,
		store:    store,
		reporter: reporter,
		active:   make(map[PID]*pollState),
	}
}

func (e *Engine) mid() byte {
	return byte(e.store.GetUint32(property.KeyIboxMID, 0, 147))
}

// Run ticks once per second until ctx is cancelled: each tick rescans
// the property store for newly (de)activated polled PIDs, issues any
// polled PID whose sample interval has elapsed, and drains any
// pending command-PID request. It returns nil on clean cancellation.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			e.tick(ctx, now)
		}
	}
}

func (e *Engine) tick(ctx context.Context, now time.Time) {
	e.rescanPolled()
	e.mu.Lock()
	due := make([]*pollState, 0, len(e.active))
	for _, st := range e.active {
		if st.rate == rateOnce {
			due = append(due, st)
			continue
		}
		if now.Sub(st.lastSample) >= time.Duration(st.rate)*time.Second {
			due = append(due, st)
		}
	}
	e.mu.Unlock()

	for _, st := range due {
		e.firePoll(ctx, st, now)
	}
	e.fireCommands(ctx)
	e.mu.Lock()
	e.lastCycle = now
	e.mu.Unlock()
}

// LastCycle returns the timestamp of the most recently completed
// tick, used by internal/agent to register a watchdog liveness vote
// for the request/response engine.
func (e *Engine) LastCycle() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastCycle
}

// rescanPolled honors property-store edits since the last tick: a
// rate transitioning from zero to nonzero adds a descriptor, zero
// removes it. A rate of rateOnce is reset to 0 after the single shot
// fires so it does not re-arm (iBox.c's "propSetUInt32AtIndex(...,0)"
// on the 0xFFFF branch).
func (e *Engine) rescanPolled() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, d := range pollTable {
		rate := e.store.GetUint32(d.rateKey, 0, 0)
		timeout := e.store.GetUint32(d.rateKey, 1, 1)
		st, exists := e.active[d.pid]
		if rate == 0 {
			if exists {
				delete(e.active, d.pid)
			}
			continue
		}
		if !exists {
			e.active[d.pid] = &pollState{desc: d, rate: rate, timeout: timeout}
			continue
		}
		st.rate = rate
		st.timeout = timeout
	}
}

func (e *Engine) firePoll(ctx context.Context, st *pollState, now time.Time) {
	pidAndPayload, err := e.RequestPID(st.desc.pid, nil, time.Duration(st.timeout)*time.Second)
	var text string
	if err != nil {
		logrus.Warnf("ibox: pid %d request failed: %v", st.desc.pid, err)
		text = EncodeASCIIError(st.desc.pid)
	} else {
		text = EncodeASCIIReply(pidAndPayload)
	}
	if rerr := e.reporter.ReportIBoxEvent(ctx, text); rerr != nil {
		logrus.Warnf("ibox: report pid %d: %v", st.desc.pid, rerr)
	}
	st.lastSample = now
	if st.rate == rateOnce {
		_ = e.store.SetUint32(st.desc.rateKey, 0, 0)
		e.mu.Lock()
		delete(e.active, st.desc.pid)
		e.mu.Unlock()
	}
}

// fireCommands drains any pending write-only command property (PID
// 205/206/208): a nonempty command string is decoded from ASCII hex,
// sent to the iBox, cleared from the property, and its reply
// reported. PID 205 carrying the power-off value additionally closes
// the serial device after reporting, matching iBox.c's
// "power off TK and then iBox" branch.
func (e *Engine) fireCommands(ctx context.Context) {
	for _, d := range commandTable {
		cmdStr := e.store.GetString(d.cmdKey, "")
		if cmdStr == "" {
			continue
		}
		timeout := e.store.GetUint32(d.timeoutKey, 0, 1)
		_ = e.store.SetString(d.cmdKey, "")

		payload, err := DecodeASCIICommand(cmdStr)
		if err != nil {
			logrus.Warnf("ibox: command pid %d: %v", d.pid, err)
			continue
		}
		pidAndPayload, rerr := e.RequestPID(d.pid, payload, time.Duration(timeout)*time.Second)
		var text string
		if rerr != nil {
			logrus.Warnf("ibox: command pid %d request failed: %v", d.pid, rerr)
			text = EncodeASCIIError(d.pid)
		} else {
			text = EncodeASCIIReply(pidAndPayload)
		}
		if err := e.reporter.ReportIBoxEvent(ctx, text); err != nil {
			logrus.Warnf("ibox: report command pid %d: %v", d.pid, err)
		}
		if d.pid == PIDPowerControl && len(payload) > 0 && payload[0] == PowerOffValue {
			logrus.Info("ibox: power-off command observed, closing serial device")
			if cerr := e.port.Close(); cerr != nil {
				logrus.Warnf("ibox: close after power-off: %v", cerr)
			}
		}
	}
}

// RequestPID sends one request frame for pid (with an optional
// command payload) and blocks for up to timeout waiting for a
// verified reply, returning the PID-and-payload bytes on success.
func (e *Engine) RequestPID(pid PID, payload []byte, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = time.Second
	}
	req := BuildRequest(e.mid(), pid, payload)
	if _, err := e.port.Write(req); err != nil {
		return nil, fmt.Errorf("ibox: write pid %d: %w", pid, err)
	}

	buf := make([]byte, maxReplyLen)
	n, err := e.port.ReadTimeout(buf, timeout)
	if err != nil && n == 0 {
		return nil, fmt.Errorf("ibox: read pid %d: %w", pid, err)
	}
	return VerifyReply(buf[:n], e.mid(), pid)
}
