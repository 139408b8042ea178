package serial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPTY(t *testing.T) (*Port, *Port) {
	t.Helper()
	master, slave, err := OpenPTY(nil, nil)
	if err != nil {
		t.Skipf("serial: no pty device available in this environment: %v", err)
	}
	t.Cleanup(func() {
		master.Close()
		slave.Close()
	})
	return master, slave
}

func TestPortWriteReadRoundTripOverPTY(t *testing.T) {
	master, slave := openTestPTY(t)

	n, err := master.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	buf := make([]byte, 16)
	n, err = slave.ReadTimeout(buf, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestPortReadTimeoutReturnsErrReadTimeoutWhenIdle(t *testing.T) {
	_, slave := openTestPTY(t)

	buf := make([]byte, 16)
	_, err := slave.ReadTimeout(buf, 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrReadTimeout)
}

func TestPortSetAndGetRTS(t *testing.T) {
	_, slave := openTestPTY(t)

	require.NoError(t, slave.SetRTS(true))
	on, err := slave.GetRTS()
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, slave.SetRTS(false))
	on, err = slave.GetRTS()
	require.NoError(t, err)
	assert.False(t, on)
}

var _ PortIO = (*Port)(nil)
