package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ositech/dmtp-agent/internal/metrics"
	"github.com/ositech/dmtp-agent/internal/packet"
	"github.com/ositech/dmtp-agent/internal/transport"
)

// statusIBox is the uplink status code stamped on every iBox event
// record. original_source/iBox.c reads it from a STATUS_IBOX constant
// whose numeric definition lived in a header this pack does not carry
// (only iBox.c itself was retained), so the value is a placeholder
// documented in DESIGN.md rather than a recovered literal.
const statusIBox uint16 = 1

// uplinkReporter formats a completed iBox exchange the way
// iBox_status_report builds its status record — a 2-byte status, a
// 4-byte timestamp, the message bytes, then a 1-byte sequence field —
// and hands the encoded packet to a Transport. Each record is written
// once and one acknowledgement read is made; any resending happens
// inside the Transport's own ReadPacket, not here.
//
// Only iBox events are sent through it; diagnostic events are not
// routed to the uplink.
type uplinkReporter struct {
	mu        sync.Mutex
	transport transport.Transport
	metrics   *metrics.Collectors
	label     string
}

func newUplinkReporter(t transport.Transport, m *metrics.Collectors, label string) *uplinkReporter {
	return &uplinkReporter{transport: t, metrics: m, label: label}
}

// ReportIBoxEvent implements ibox.Reporter.
func (r *uplinkReporter) ReportIBoxEvent(ctx context.Context, text string) error {
	return r.send(text)
}

// send builds the status packet and writes/reads it through the
// transport, opening the transport lazily on first use.
func (r *uplinkReporter) send(message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.transport.IsOpen() {
		if err := r.transport.Open(); err != nil {
			return fmt.Errorf("agent: uplink open: %w", err)
		}
	}

	msg := message + "\n"
	pkt, err := packet.Format("%2U%4U%*s%1U", statusIBox, uint32(time.Now().Unix()), len(msg), []byte(msg), byte(0))
	if err != nil {
		return fmt.Errorf("agent: uplink format: %w", err)
	}
	pkt.SeqPos = 6 + len(msg)
	pkt.SeqLen = 1

	if _, err := r.transport.WritePacket(pkt.Bytes); err != nil {
		if r.metrics != nil {
			r.metrics.TransportTimeoutsTotal.WithLabelValues(r.label).Inc()
		}
		return fmt.Errorf("agent: uplink write: %w", err)
	}

	reply := make([]byte, 256)
	if _, err := r.transport.ReadPacket(reply); err != nil {
		logrus.WithField("component", "agent").Warnf("uplink: ack read: %v", err)
		if r.metrics != nil {
			r.metrics.TransportTimeoutsTotal.WithLabelValues(r.label).Inc()
		}
		return nil
	}
	return nil
}
