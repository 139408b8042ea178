//go:build linux

package metrics

import (
	"fmt"
	"net"
	"sync"

	"github.com/higebu/netfd"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/simeonmiteff/go-tcpinfo/pkg/linux"
)

// TCPInfoCollector exposes RTT and retransmit counters for the
// agent's currently open TCP transport connection. Grounded on
// runZeroInc-sockstats/pkg/exporter's TCPInfoCollector: a prometheus
// Collector that re-reads TCP_INFO from the raw fd on every scrape
// rather than polling on a timer.
type TCPInfoCollector struct {
	rtt          *prometheus.Desc
	retransmits  *prometheus.Desc
	totalRetrans *prometheus.Desc

	mu    sync.Mutex
	conns map[string]int // label -> fd
}

func NewTCPInfoCollector() *TCPInfoCollector {
	return &TCPInfoCollector{
		rtt: prometheus.NewDesc("transport_tcp_rtt_microseconds",
			"Smoothed round-trip time of the open TCP transport connection.", []string{"transport"}, nil),
		retransmits: prometheus.NewDesc("transport_tcp_retransmits",
			"Current RTO-based retransmission counter.", []string{"transport"}, nil),
		totalRetrans: prometheus.NewDesc("transport_tcp_total_retransmits",
			"Total segments retransmitted on the connection's lifetime.", []string{"transport"}, nil),
		conns: make(map[string]int),
	}
}

func (c *TCPInfoCollector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.rtt
	descs <- c.retransmits
	descs <- c.totalRetrans
}

func (c *TCPInfoCollector) Collect(metrics chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for label, fd := range c.conns {
		info, err := linux.GetTCPInfo(fd)
		if err != nil {
			continue
		}
		metrics <- prometheus.MustNewConstMetric(c.rtt, prometheus.GaugeValue, float64(info.RTT), label)
		metrics <- prometheus.MustNewConstMetric(c.retransmits, prometheus.GaugeValue, float64(info.Retransmits), label)
		metrics <- prometheus.MustNewConstMetric(c.totalRetrans, prometheus.GaugeValue, float64(info.TotalRetrans), label)
	}
}

// Track registers conn (by its extracted fd) under label so future
// scrapes report its tcpinfo. Remove drops it, e.g. on transport close.
func (c *TCPInfoCollector) Track(label string, conn net.Conn) error {
	fd := netfd.GetFdFromConn(conn)
	if fd < 0 {
		return fmt.Errorf("metrics: could not extract fd for %s", label)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[label] = fd
	return nil
}

func (c *TCPInfoCollector) Remove(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, label)
}

var _ prometheus.Collector = (*TCPInfoCollector)(nil)
