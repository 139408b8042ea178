package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumericTokenHex(t *testing.T) {
	v, err := parseNumericToken("0xFF", TypeUint32, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFF), v)
}

func TestParseNumericTokenNegative(t *testing.T) {
	v, err := parseNumericToken("-5", TypeInt8, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(-5), signExtend(v, 8))
}

func TestParseNumericTokenInvalid(t *testing.T) {
	_, err := parseNumericToken("not-a-number", TypeUint32, 0)
	assert.ErrorIs(t, err, ErrValue)
}

func TestDecodeBinaryRoundTrip(t *testing.T) {
	e := &entry{def: Definition{Type: TypeBinary}}
	require.NoError(t, e.parseInit("0xDEADBEEF"))
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, e.bin)
	assert.Equal(t, "deadbeef", e.serializeInit())
}

func TestSplitInitTruncatesToCount(t *testing.T) {
	toks := splitInit("1,2,3,4,5", 3)
	assert.Equal(t, []string{"1", "2", "3"}, toks)
}

func TestSplitInitEmptyString(t *testing.T) {
	toks := splitInit("", 3)
	assert.Nil(t, toks)
}

func TestInt32SerializeRoundTrip(t *testing.T) {
	e := &entry{def: Definition{Type: TypeInt32, Count: 1}, nums: make([]uint32, 1)}
	require.NoError(t, e.parseInit("-1000"))
	assert.Equal(t, "-1000", e.serializeInit())
}
