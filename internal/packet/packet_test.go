package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSingleByteField(t *testing.T) {
	p, err := Format("%1U", uint8(0x7A))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7A}, p.Bytes)
}

func TestFormatTwoByteFieldBigEndian(t *testing.T) {
	p, err := Format("%2U", uint16(0x1234))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34}, p.Bytes)
}

func TestFormatFourByteFieldBigEndian(t *testing.T) {
	p, err := Format("%4U", uint32(0x01020304))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, p.Bytes)
}

func TestFormatBlobToken(t *testing.T) {
	msg := []byte("hello")
	p, err := Format("%*s", len(msg), msg)
	require.NoError(t, err)
	assert.Equal(t, msg, p.Bytes)
}

// Reproduces iBox.c's status report construction:
//
//	pktInit(&up_pkt, PKT_CLIENT_DMTSP_FORMAT_3, "%2U%4U%*s%1U", status, now, len, msg, seq)
//	up_pkt.seqPos = 6 + len
//	up_pkt.seqLen = 1
func TestFormatIBoxStatusReportLayout(t *testing.T) {
	status := uint16(1)
	now := uint32(0x5F5E1000)
	msg := []byte("ENGINE_HOURS=1234")
	seq := uint8(7)

	p, err := Format("%2U%4U%*s%1U", status, now, len(msg), msg, seq)
	require.NoError(t, err)

	p.SeqPos = 6 + len(msg)
	p.SeqLen = 1

	require.Len(t, p.Bytes, 6+len(msg)+1)
	assert.Equal(t, []byte{0x00, 0x01}, p.Bytes[0:2])
	assert.Equal(t, []byte{0x5F, 0x5E, 0x10, 0x00}, p.Bytes[2:6])
	assert.Equal(t, msg, p.Bytes[6:6+len(msg)])
	assert.Equal(t, seq, p.Bytes[p.SeqPos])

	p.RewriteSequence(9)
	assert.Equal(t, byte(9), p.Bytes[p.SeqPos])
}

func TestFormatRejectsLiteralBytes(t *testing.T) {
	_, err := Format("x%1U", uint8(1))
	assert.Error(t, err)
}

func TestFormatRejectsTrailingPercent(t *testing.T) {
	_, err := Format("%1U%", uint8(1))
	assert.Error(t, err)
}

func TestFormatRejectsUnsupportedWidth(t *testing.T) {
	_, err := Format("%3U", uint8(1))
	assert.Error(t, err)
}

func TestFormatRejectsBlobLongerThanData(t *testing.T) {
	_, err := Format("%*s", 10, []byte("short"))
	assert.Error(t, err)
}

func TestRewriteSequencePanicsOnUnsetPacket(t *testing.T) {
	p := &Packet{Bytes: []byte{1, 2, 3}}
	assert.Panics(t, func() {
		p.RewriteSequence(5)
	})
}
