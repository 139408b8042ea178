package transport

import (
	"errors"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ositech/dmtp-agent/internal/property"
)

// UDPTransport implements the reliable-UDP protocol: every datagram
// carries a one-byte sequence prefix, a write is held so it can be
// resent verbatim with an incremented sequence on timeout, and any
// reply whose sequence byte exceeds the last-sent sequence is a
// stale/out-of-order late reply and is discarded. Grounded on
// socketUDP_Open/socketUDP_ReadPacket/socketUDP_WritePacket/
// socketUDP_Reset in socket.c.
type UDPTransport struct {
	store *property.Store

	mu       sync.Mutex
	conn     *net.UDPConn
	addr     endpoint
	hasAddr  bool
	bufSize  int
	held     []byte // sequence byte + last-written payload, for resend
	lastSeq  byte
	timeout  time.Duration
	retries  int
}

func NewUDPTransport(store *property.Store) *UDPTransport {
	return &UDPTransport{store: store}
}

func (t *UDPTransport) Initialize(bufSize int) error {
	t.mu.Lock()
	t.bufSize = bufSize
	t.mu.Unlock()
	t.Reset(0)
	return nil
}

// Reset re-resolves the configured host/port pair. Matching the
// grounding source, a resolution failure (host not configured) is
// logged and otherwise ignored here — IsOpen/Open surface the
// consequence the next time a caller tries to use the transport.
func (t *UDPTransport) Reset(urlID int) {
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

func (t *UDPTransport) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

func (t *UDPTransport) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		logrus.Info("transport: UDP socket seems to still be open")
		return nil
	}
	if !t.hasAddr {
		return newErr("open", HostInvalid, errors.New("host/port not configured"))
	}
	raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(t.addr.host, strconv.Itoa(t.addr.port)))
	if err != nil {
		return newErr("open", HostInvalid, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return newErr("open", OpenFailed, err)
	}
	t.conn = conn
	t.timeout = time.Duration(t.store.GetUint32(property.KeyCommUDPTimer, property.UDPTimerTimeoutIndex, 20)) * time.Second
	t.retries = int(t.store.GetUint32(property.KeyCommUDPTimer, property.UDPTimerRetriesIndex, 3))
	t.lastSeq = 0
	t.held = nil
	return nil
}

func (t *UDPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	if err != nil {
		return newErr("close", OpenFailed, err)
	}
	return nil
}

func (t *UDPTransport) ReadFlush() error { return nil }

// WritePacket holds the payload with a fresh sequence prefix of zero
// and sends it once, matching socketUDP_WritePacket's
// "send_att = 0; send_buf[0] = 0" reset on every new write.
func (t *UDPTransport) WritePacket(buf []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return 0, newErr("write", OpenFailed, errors.New("transport is not open"))
	}
	n := len(buf)
	if t.bufSize > 0 && n > t.bufSize-1 {
		n = t.bufSize - 1
	}
	t.held = make([]byte, n+1)
	t.held[0] = 0
	copy(t.held[1:], buf[:n])
	t.lastSeq = 0
	written, err := t.conn.Write(t.held)
	if err != nil {
		return 0, newErr("write", WriteFailed, err)
	}
	return written, nil
}

// ReadPacket awaits a reply with a per-attempt deadline. On timeout,
// if retries remain, it increments the held buffer's sequence byte
// and resends before waiting again, so the datagram goes out at most
// retries+1 times in all. A reply whose sequence byte is
// greater than the last sent is stale and is discarded without
// counting as a fresh attempt's result. Grounded on
// socketUDP_ReadPacket's retry loop.
func (t *UDPTransport) ReadPacket(buf []byte) (int, error) {
	t.mu.Lock()
	conn := t.conn
	timeout := t.timeout
	retries := t.retries
	t.mu.Unlock()
	if conn == nil {
		return 0, newErr("read", OpenFailed, errors.New("transport is not open"))
	}
	if retries < 0 {
		retries = 0
	}

	for n := 0; n <= retries; n++ {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return 0, newErr("read", ReadFailed, err)
		}
		readLen, err := conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				if n == retries {
					break
				}
				if rerr := t.resend(); rerr != nil {
					return 0, rerr
				}
				continue
			}
			return 0, newErr("read", ReadFailed, err)
		}
		if readLen > 0 {
			t.mu.Lock()
			stale := buf[0] > t.lastSeq
			t.mu.Unlock()
			if stale {
				continue
			}
			return readLen, nil
		}
	}
	return 0, newErr("read", Timeout, errors.New("no reply within retry budget"))
}

func (t *UDPTransport) resend() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.held == nil {
		return newErr("read", WriteFailed, errors.New("no held packet to resend"))
	}
	t.lastSeq++
	t.held[0] = t.lastSeq
	if _, err := t.conn.Write(t.held); err != nil {
		return newErr("write", WriteFailed, err)
	}
	return nil
}

var _ Transport = (*UDPTransport)(nil)
