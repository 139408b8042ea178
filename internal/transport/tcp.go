package transport

import (
	"errors"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/higebu/netfd"
	"github.com/sirupsen/logrus"

	"github.com/ositech/dmtp-agent/internal/property"
)

// TCPTransport is a connected-stream variant of Transport, grounded on
// socketTCP_Open/socketTCP_ReadPacket/socketTCP_WritePacket/
// socketTCP_Reset in socket.c. Unlike the UDP variant there is no
// sequence/retry framing — the stream itself carries ordering and
// delivery guarantees.
type TCPTransport struct {
	store *property.Store

	mu      sync.Mutex
	conn    net.Conn
	addr    endpoint
	hasAddr bool

	// FD is the raw file descriptor of the current connection,
	// extracted via netfd so internal/metrics can attach a tcpinfo
	// collector and the caller can set socket options the listener
	// side of sockets.c's socketOpenTCPServer sets for accepted
	// connections — set on every successful Open, -1 otherwise.
	FD int
}

func NewTCPTransport(store *property.Store) *TCPTransport {
	return &TCPTransport{store: store, FD: -1}
}

func (t *TCPTransport) Initialize(_ int) error {
	t.Reset(0)
	return nil
}

func (t *TCPTransport) Reset(urlID int) {
	ep, err := resolveEndpoint(t.store, urlID)
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.hasAddr = false
		return
	}
	t.addr = ep
	t.hasAddr = true
}

func (t *TCPTransport) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// Open dials the configured host/port. A connection refused by the
// peer maps to HostInvalid, exactly as socketOpenTCPClient does
// ("if (sock->sock_err == ECONNREFUSED) err = COMERR_SOCKET_HOST"),
// so the protocol pump can schedule backoff instead of treating a
// live-but-refusing host the same as an open failure.
func (t *TCPTransport) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		logrus.Info("transport: TCP socket seems to still be open")
		return nil
	}
	if !t.hasAddr {
		return newErr("open", HostInvalid, errors.New("host/port not configured"))
	}
	addr := net.JoinHostPort(t.addr.host, strconv.Itoa(t.addr.port))
	conn, err := net.DialTimeout("tcp", addr, 20*time.Second)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return newErr("open", HostInvalid, err)
		}
		return newErr("open", ConnectFailed, err)
	}
	fd := netfd.GetFdFromConn(conn)
	if fd < 0 {
		_ = conn.Close()
		return newErr("open", FDInvalid, errors.New("could not extract file descriptor"))
	}
	t.conn = conn
	t.FD = fd
	return nil
}

func (t *TCPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	t.FD = -1
	if err != nil {
		return newErr("close", OpenFailed, err)
	}
	return nil
}

func (t *TCPTransport) ReadFlush() error { return nil }

func (t *TCPTransport) WritePacket(buf []byte) (int, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return 0, newErr("write", OpenFailed, errors.New("transport is not open"))
	}
	n, err := conn.Write(buf)
	if err != nil {
		return 0, newErr("write", WriteFailed, err)
	}
	return n, nil
}

func (t *TCPTransport) ReadPacket(buf []byte) (int, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return 0, newErr("read", OpenFailed, errors.New("transport is not open"))
	}
	n, err := conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, newErr("read", Timeout, err)
		}
		return 0, newErr("read", ReadFailed, err)
	}
	return n, nil
}

var _ Transport = (*TCPTransport)(nil)
