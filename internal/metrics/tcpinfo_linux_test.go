//go:build linux

package metrics

import (
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialLoopback(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		require.NoError(t, err)
		accepted <- c
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	server := <-accepted
	return client, server
}

func TestTCPInfoCollectorTracksAndCollects(t *testing.T) {
	client, server := dialLoopback(t)
	defer client.Close()
	defer server.Close()

	c := NewTCPInfoCollector()
	require.NoError(t, c.Track("udp", client))

	metrics := make(chan prometheus.Metric, 8)
	c.Collect(metrics)
	close(metrics)

	var count int
	for range metrics {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestTCPInfoCollectorRemoveStopsReporting(t *testing.T) {
	client, server := dialLoopback(t)
	defer client.Close()
	defer server.Close()

	c := NewTCPInfoCollector()
	require.NoError(t, c.Track("tcp", client))
	c.Remove("tcp")

	metrics := make(chan prometheus.Metric, 8)
	c.Collect(metrics)
	close(metrics)

	var count int
	for range metrics {
		count++
	}
	assert.Zero(t, count)
}
