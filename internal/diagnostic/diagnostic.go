// Package diagnostic is the agent's typed event bus: RTS transitions,
// network down/rebuilt/check, GPS lost, client reboot, library stuck,
// DHCP, cellular signal, and cellular connection events all flow
// through here. The original DMTP event store this feeds
// (evAddEncodedPacket) is an external collaborator the core does not
// implement; Channel only defines the publish contract and a
// logging-only default sink, with room for a real sink to subscribe.
package diagnostic

import (
	"sync"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// Status mirrors diagnostic.h's diagnostic_status values, carried
// forward by name rather than by their original numeric order so a
// reader doesn't have to cross-reference a C header to know what a
// log line means.
type Status int

const (
	StatusConnectionDown Status = iota + 1
	StatusConnectionRebuilt
	StatusConnectionCheck
	StatusGPSLost
	StatusClientReboot
	StatusLibraryStuck
	StatusDHCP
	StatusMessage
	StatusCellularDown
)

func (s Status) String() string {
	switch s {
	case StatusConnectionDown:
		return "connection-down"
	case StatusConnectionRebuilt:
		return "connection-rebuilt"
	case StatusConnectionCheck:
		return "connection-check"
	case StatusGPSLost:
		return "gps-lost"
	case StatusClientReboot:
		return "client-reboot"
	case StatusLibraryStuck:
		return "library-stuck"
	case StatusDHCP:
		return "dhcp"
	case StatusMessage:
		return "message"
	case StatusCellularDown:
		return "cellular-down"
	default:
		return "unknown"
	}
}

// Event is one diagnostic occurrence, the Go analogue of
// diagnostic_report(int diagnostic_status, int arg, char *arg2).
type Event struct {
	ID      xid.ID
	Status  Status
	Arg     int
	Message string
}

// Sink receives every published Event. Subscribe registers additional
// sinks (a real DMTP event store, a test recorder); the default sink
// installed by New logs at info level and is never removed.
type Sink func(Event)

// Channel fans a published Event out to every registered Sink.
type Channel struct {
	mu    sync.Mutex
	sinks []Sink
}

// New returns a Channel with the default logrus sink already
// subscribed.
func New() *Channel {
	c := &Channel{}
	c.Subscribe(logSink)
	return c
}

func (c *Channel) Subscribe(s Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, s)
}

// Publish stamps the event with a correlation ID and fans it out
// synchronously to every subscribed sink.
func (c *Channel) Publish(status Status, arg int, message string) Event {
	ev := Event{ID: xid.New(), Status: status, Arg: arg, Message: message}
	c.mu.Lock()
	sinks := append([]Sink(nil), c.sinks...)
	c.mu.Unlock()
	for _, s := range sinks {
		s(ev)
	}
	return ev
}

func logSink(ev Event) {
	logrus.WithFields(logrus.Fields{
		"event_id": ev.ID.String(),
		"status":   ev.Status.String(),
		"arg":      ev.Arg,
	}).Info(ev.Message)
}
