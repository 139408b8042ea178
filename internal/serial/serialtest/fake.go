// Package serialtest provides an in-memory fake of serial.PortIO for
// unit tests that exercise protocol logic (iBox framing, RTS polling)
// without a real tty.
package serialtest

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/ositech/dmtp-agent/internal/serial"
)

// ErrClosed is returned by Read/Write after Close.
var ErrClosed = errors.New("serialtest: port closed")

// FakePort is a loopback-free fake: Write appends to a log the test can
// inspect, and Read drains a queue the test pushes replies onto with
// Feed. RTS/DTR/CTS/DCD are plain boolean fields a test can flip
// directly to simulate modem-control transitions.
type FakePort struct {
	mu     sync.Mutex
	closed bool

	Written [][]byte
	pending bytes.Buffer

	RTS, DTR, CTS, DCD bool
}

func New() *FakePort {
	return &FakePort{}
}

// Feed queues bytes for the next Read/ReadTimeout calls to return.
func (f *FakePort) Feed(b []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending.Write(b)
}

func (f *FakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, ErrClosed
	}
	return f.pending.Read(p)
}

// ReadTimeout mimics the real Port's contract: if no bytes are queued
// it reports serial.ErrReadTimeout rather than blocking, since a fake
// has no device to wait on.
func (f *FakePort) ReadTimeout(p []byte, _ time.Duration) (int, error) {
	n, err := f.Read(p)
	if errors.Is(err, io.EOF) || n == 0 {
		return 0, serial.ErrReadTimeout
	}
	return n, err
}

func (f *FakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, ErrClosed
	}
	cp := append([]byte(nil), p...)
	f.Written = append(f.Written, cp)
	return len(p), nil
}

func (f *FakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FakePort) Drain() error             { return nil }
func (f *FakePort) Flush(serial.Queue) error { return nil }

func (f *FakePort) SetRTS(on bool) error { f.mu.Lock(); defer f.mu.Unlock(); f.RTS = on; return nil }
func (f *FakePort) GetRTS() (bool, error) { f.mu.Lock(); defer f.mu.Unlock(); return f.RTS, nil }
func (f *FakePort) SetDTR(on bool) error { f.mu.Lock(); defer f.mu.Unlock(); f.DTR = on; return nil }
func (f *FakePort) GetDTR() (bool, error) { f.mu.Lock(); defer f.mu.Unlock(); return f.DTR, nil }
func (f *FakePort) GetCTS() (bool, error) { f.mu.Lock(); defer f.mu.Unlock(); return f.CTS, nil }
func (f *FakePort) GetDCD() (bool, error) { f.mu.Lock(); defer f.mu.Unlock(); return f.DCD, nil }

func (f *FakePort) UnreadByte(b byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	old := f.pending.Bytes()
	f.pending.Reset()
	f.pending.WriteByte(b)
	f.pending.Write(old)
}

var _ serial.PortIO = (*FakePort)(nil)
