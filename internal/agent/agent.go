// Package agent wires every other package into one running process:
// the property store, the iBox request/response engine, the uplink
// transport, the monitor workers, and the watchdog supervisor. It is
// the Go analogue of the original's main()/thread-spawning sequence in
// dmtp_main.c, replacing its SIGUSR1-interrupts-sleep shutdown idiom
// with context cancellation that every blocking call in this module
// already honors.
package agent

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ositech/dmtp-agent/internal/diagnostic"
	"github.com/ositech/dmtp-agent/internal/ibox"
	"github.com/ositech/dmtp-agent/internal/metrics"
	"github.com/ositech/dmtp-agent/internal/monitor"
	"github.com/ositech/dmtp-agent/internal/property"
	"github.com/ositech/dmtp-agent/internal/serial"
	"github.com/ositech/dmtp-agent/internal/transport"
	"github.com/ositech/dmtp-agent/internal/watchdog"
)

// Config is the subset of bootstrap settings the agent needs beyond
// what already lives in the property store: which transport
// implementation backs the uplink, and whether to attach a GPIO
// liveness indicator to the watchdog.
type Config struct {
	UplinkTransport string // "udp" (default) or "tcp"
	IndicatorPin    string // GPIO pin name; empty disables the indicator
}

// Agent owns every long-lived component and runs them until its
// context is cancelled or an OS signal requests shutdown.
type Agent struct {
	store     *property.Store
	diag      *diagnostic.Channel
	metrics   *metrics.Collectors
	transport transport.Transport
	engine    *ibox.Engine
	workers   []monitor.Worker
	watchdog  *watchdog.Supervisor
	port      serial.PortIO
}

// New constructs an Agent from a property store already loaded with
// the operator's configuration (bootstrap config plus any persisted
// overrides). It opens the iBox serial device and the chosen uplink
// transport's host/port resolution, but does not open the network
// connection itself; that happens lazily on first uplink send.
func New(store *property.Store, cfg Config) (*Agent, error) {
	diag := diagnostic.New()
	mcol := metrics.New()

	device := store.GetString(property.KeyIboxPort, "/dev/ttyS1")
	port, err := monitor.OpenIboxDevice(device)
	if err != nil {
		return nil, fmt.Errorf("agent: open ibox device %s: %w", device, err)
	}

	var label string
	var tr transport.Transport
	switch cfg.UplinkTransport {
	case "", "udp":
		label = "udp"
		udp := transport.NewUDPTransport(store)
		bufSize := int(store.GetUint32(property.KeyCommMTU, 0, 1024))
		if err := udp.Initialize(bufSize); err != nil {
			port.Close()
			return nil, fmt.Errorf("agent: initialize udp transport: %w", err)
		}
		tr = udp
	case "tcp":
		label = "tcp"
		tcp := transport.NewTCPTransport(store)
		if err := tcp.Initialize(0); err != nil {
			port.Close()
			return nil, fmt.Errorf("agent: initialize tcp transport: %w", err)
		}
		tr = tcp
	default:
		port.Close()
		return nil, fmt.Errorf("agent: unknown uplink transport %q", cfg.UplinkTransport)
	}

	reporter := newUplinkReporter(tr, mcol, label)
	engine := ibox.NewEngine(port, store, reporter)

	indicator, err := newIndicator(cfg.IndicatorPin)
	if err != nil {
		logrus.WithField("component", "agent").Warnf("watchdog indicator unavailable, continuing without one: %v", err)
		indicator = nil // newIndicator's *GPIOIndicator error return is non-nil as an interface; reset explicitly
	}
	sup := watchdog.NewSupervisor(diag, watchdog.NewExecRebooter(), indicator)

	workers := []monitor.Worker{
		monitor.NewRTSMonitor(store, diag, monitor.OpenIboxDevice),
		monitor.NewHeartbeat(store),
	}

	a := &Agent{
		store:     store,
		diag:      diag,
		metrics:   mcol,
		transport: tr,
		engine:    engine,
		workers:   workers,
		watchdog:  sup,
		port:      port,
	}

	const engineStallAfter = 30 * time.Second
	if err := sup.RegisterVote("ibox-engine", a.engineStalled(engineStallAfter)); err != nil {
		return nil, fmt.Errorf("agent: register engine liveness vote: %w", err)
	}

	return a, nil
}

// engineStalled returns a watchdog.VoteFunc reporting true once the
// iBox engine has gone longer than after without completing a tick,
// the Go analogue of the original's per-thread "last activity"
// watchdog vote.
func (a *Agent) engineStalled(after time.Duration) watchdog.VoteFunc {
	return func() bool {
		last := a.engine.LastCycle()
		if last.IsZero() {
			return false
		}
		return time.Since(last) > after
	}
}

// Run starts every worker goroutine plus the watchdog, blocking until
// ctx is cancelled or a SIGTERM/SIGINT arrives, then waits for every
// goroutine to return before closing the serial device.
func (a *Agent) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	runWorker := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				logrus.WithField("component", "agent").Errorf("%s worker exited: %v", name, err)
			}
		}()
	}

	runWorker("ibox-engine", a.engine.Run)
	for i, w := range a.workers {
		name := fmt.Sprintf("monitor-%d", i)
		runWorker(name, w.Run)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		verdict := a.watchdog.Start(ctx)
		if verdict == watchdog.VerdictReboot {
			logrus.WithField("component", "agent").Error("watchdog escalated to reboot")
		}
	}()

	<-ctx.Done()
	wg.Wait()

	if err := a.transport.Close(); err != nil {
		logrus.WithField("component", "agent").Warnf("closing uplink transport: %v", err)
	}
	if err := a.port.Close(); err != nil {
		logrus.WithField("component", "agent").Warnf("closing ibox device: %v", err)
	}
	return nil
}
