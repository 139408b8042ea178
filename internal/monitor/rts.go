package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ositech/dmtp-agent/internal/diagnostic"
	"github.com/ositech/dmtp-agent/internal/property"
	"github.com/ositech/dmtp-agent/internal/serial"
)

// PortOpener opens the configured serial device, letting tests
// substitute an in-memory fake rather than a real tty. Grounded on
// SerialPinMonitor.c's open_serial/close_serial, which reopen the
// device on every poll rather than holding it open across the sleep
// interval.
type PortOpener func(device string) (serial.PortIO, error)

// OpenIboxDevice opens device read-write in binary mode via
// serial.OpenBinary: raw mode, 9600 bps, VMIN 0, hardware flow control
// off. Close restores the line settings the device had before.
func OpenIboxDevice(device string) (serial.PortIO, error) {
	return serial.OpenBinary(device, serial.Rate9600, 0, false)
}

// RTSMonitor polls the RTS modem-control line on the iBox serial
// device and reports every transition, plus the first sample taken
// after start, to a diagnostic.Channel. Grounded on
// SerialPinMonitor.c's thread_RTSmonitor_main.
type RTSMonitor struct {
	store *property.Store
	diag  *diagnostic.Channel
	open  PortOpener
}

func NewRTSMonitor(store *property.Store, diag *diagnostic.Channel, open PortOpener) *RTSMonitor {
	if open == nil {
		open = OpenIboxDevice
	}
	return &RTSMonitor{store: store, diag: diag, open: open}
}

func (m *RTSMonitor) Run(ctx context.Context) error {
	interval := time.Duration(m.store.GetUint32(property.KeyStateRTSCheck, property.RTSCheckIntervalIndex, 1)) * time.Minute

	var prev bool
	first := true
	for {
		if m.store.GetUint32(property.KeyStateRTSCheck, property.RTSCheckEnableIndex, 1) != 0 {
			cur, err := m.sample()
			if err != nil {
				logrus.WithError(err).Warn("monitor: RTS sample failed")
			} else if first || cur != prev {
				m.report(cur)
				prev = cur
				first = false
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

func (m *RTSMonitor) sample() (bool, error) {
	device := m.store.GetString(property.KeyIboxPort, "/dev/ttyS1")
	port, err := m.open(device)
	if err != nil {
		return false, fmt.Errorf("monitor: open %s: %w", device, err)
	}
	defer port.Close()
	return port.GetRTS()
}

func (m *RTSMonitor) report(on bool) {
	state := "OFF"
	if on {
		state = "ON"
	}
	m.diag.Publish(diagnostic.StatusMessage, 0, fmt.Sprintf("RTS Powered %s", state))
}

var _ Worker = (*RTSMonitor)(nil)
