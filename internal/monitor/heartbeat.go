package monitor

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ositech/dmtp-agent/internal/property"
)

// AlivePath is the file touched by Heartbeat, matching dmtp_alive.c's
// DMTP_ALIVE constant exactly so an external watchdog script checking
// this path keeps working unmodified.
const AlivePath = "/tmp/dmtp_alive"

// Heartbeat touches AlivePath every PROP_STATE_ALIVE_INTRVL seconds,
// the same one-second-tick counter cadence as dmtp_alive.c's
// dmtp_alive_main.
type Heartbeat struct {
	store *property.Store
	path  string
}

func NewHeartbeat(store *property.Store) *Heartbeat {
	return &Heartbeat{store: store, path: AlivePath}
}

func (h *Heartbeat) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var counter uint32
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			interval := h.store.GetUint32(property.KeyStateAliveIntrvl, 0, 30)
			counter++
			if counter >= interval {
				if err := h.touch(); err != nil {
					logrus.WithError(err).Warn("monitor: alive touch failed")
				}
				counter = 0
			}
		}
	}
}

func (h *Heartbeat) touch() error {
	f, err := os.OpenFile(h.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

var _ Worker = (*Heartbeat)(nil)
