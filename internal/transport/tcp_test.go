package transport

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ositech/dmtp-agent/internal/property"
)

func TestTCPTransportHostNotConfiguredIsInvalid(t *testing.T) {
	store := newTestStore(t)
	tr := NewTCPTransport(store)
	require.NoError(t, tr.Initialize(0))

	err := tr.Open()
	require.Error(t, err)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, HostInvalid, terr.Kind)
}

func TestTCPTransportWriteReadRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	go func() {
		conn, aerr := ln.Accept()
		if aerr != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 64)
		n, _ := conn.Read(buf)
		conn.Write(buf[:n])
	}()

	store := newTestStore(t)
	setEndpoint(t, store, "127.0.0.1", port)
	tr := NewTCPTransport(store)
	require.NoError(t, tr.Initialize(0))
	require.NoError(t, tr.Open())
	defer tr.Close()
	assert.True(t, tr.IsOpen())
	assert.GreaterOrEqual(t, tr.FD, 0)

	n, err := tr.WritePacket([]byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	buf := make([]byte, 64)
	n, err = tr.ReadPacket(buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))
}

func TestTCPTransportConnectionRefusedIsHostInvalid(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	store := newTestStore(t)
	setEndpoint(t, store, "127.0.0.1", port)
	tr := NewTCPTransport(store)
	require.NoError(t, tr.Initialize(0))

	err = tr.Open()
	require.Error(t, err)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, HostInvalid, terr.Kind)
}

func TestTCPTransportWriteBeforeOpenFails(t *testing.T) {
	store := newTestStore(t)
	tr := NewTCPTransport(store)
	_, err := tr.WritePacket([]byte("x"))
	require.Error(t, err)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, OpenFailed, terr.Kind)
}
