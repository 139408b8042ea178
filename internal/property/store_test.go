package property

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefs() []Definition {
	return []Definition{
		{0x0010, "alpha", TypeUint32, 1, 0, 0, "5"},
		{0x0020, "beta", TypeString, 1, 0, 0, "hello"},
		{0x0030, "gamma", TypeDecimal32, 1, 1, 0, "12.3"},
		{0x0040, "vec", TypeUint32, 3, 0, 0, "1,2,3"},
		{0x0050, "ro", TypeUint32, 1, 0, AttrReadOnly, "9"},
		{0x0060, "saved", TypeUint32, 1, 0, AttrSave, "0"},
	}
}

func TestDefaultDefinitionsSorted(t *testing.T) {
	defs := DefaultDefinitions()
	for i := 1; i < len(defs); i++ {
		assert.Lessf(t, defs[i-1].Key, defs[i].Key, "definitions must stay key-sorted at index %d (%s >= %s)", i, defs[i-1].Name, defs[i].Name)
	}
}

func TestBinarySearch(t *testing.T) {
	defs := testDefs()
	i, ok := binarySearch(defs, 0x0030)
	require.True(t, ok)
	assert.Equal(t, "gamma", defs[i].Name)

	_, ok = binarySearch(defs, 0x0099)
	assert.False(t, ok)
}

func TestGetSetUint32(t *testing.T) {
	s, err := NewStore(testDefs(), "")
	require.NoError(t, err)

	assert.Equal(t, uint32(5), s.GetUint32(0x0010, 0, 0))
	require.NoError(t, s.SetUint32(0x0010, 0, 42))
	assert.Equal(t, uint32(42), s.GetUint32(0x0010, 0, 0))

	attr, ok := s.Attr(0x0010)
	require.True(t, ok)
	assert.True(t, attr.Has(AttrChanged))
	assert.True(t, attr.Has(AttrNonDefault))
}

func TestReadOnlyRejectsWrite(t *testing.T) {
	s, err := NewStore(testDefs(), "")
	require.NoError(t, err)
	err = s.SetUint32(0x0050, 0, 1)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestUnknownKey(t *testing.T) {
	s, err := NewStore(testDefs(), "")
	require.NoError(t, err)
	assert.Equal(t, uint32(77), s.GetUint32(0xFFFF, 0, 77))
	err = s.SetUint32(0xFFFF, 0, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVectorIndexRange(t *testing.T) {
	s, err := NewStore(testDefs(), "")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), s.GetUint32(0x0040, 1, 0))
	err = s.SetUint32(0x0040, 5, 9)
	assert.ErrorIs(t, err, ErrIndexRange)
}

func TestDecimalScaleRoundTrip(t *testing.T) {
	s, err := NewStore(testDefs(), "")
	require.NoError(t, err)
	assert.InDelta(t, 12.3, s.GetDecimal(0x0030, 0, 0), 0.001)
	require.NoError(t, s.SetDecimal(0x0030, 0, -4.25))
	assert.InDelta(t, -4.3, s.GetDecimal(0x0030, 0, 0), 0.001) // half-away-from-zero at scale 1
}

func TestPartialWireUpdateLeavesTrailingUnchanged(t *testing.T) {
	s, err := NewStore(testDefs(), "")
	require.NoError(t, err)
	require.NoError(t, s.SetFromWire(0x0040, "10"))
	assert.Equal(t, uint32(10), s.GetUint32(0x0040, 0, 0))
	assert.Equal(t, uint32(2), s.GetUint32(0x0040, 1, 0))
	assert.Equal(t, uint32(3), s.GetUint32(0x0040, 2, 0))
}

func TestWireUpdateTruncatesExtraIndices(t *testing.T) {
	s, err := NewStore(testDefs(), "")
	require.NoError(t, err)
	require.NoError(t, s.SetFromWire(0x0040, "10,20,30,40,50"))
	assert.Equal(t, uint32(10), s.GetUint32(0x0040, 0, 0))
	assert.Equal(t, uint32(30), s.GetUint32(0x0040, 2, 0))
}

func TestClearChangedAndChangedList(t *testing.T) {
	s, err := NewStore(testDefs(), "")
	require.NoError(t, err)
	require.NoError(t, s.SetUint32(0x0010, 0, 1))
	assert.Equal(t, []Key{0x0010}, s.Changed())
	s.ClearChanged()
	assert.Empty(t, s.Changed())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "props.conf")

	s, err := NewStore(testDefs(), path)
	require.NoError(t, err)
	require.NoError(t, s.SetUint32(0x0060, 0, 77)) // saved, changed
	require.NoError(t, s.SetUint32(0x0010, 0, 99)) // changed but not SAVE-attributed
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "saved=77")
	assert.NotContains(t, string(data), "alpha=")

	s2, err := NewStore(testDefs(), path)
	require.NoError(t, err)
	assert.Equal(t, uint32(77), s2.GetUint32(0x0060, 0, 0))
	attr, ok := s2.Attr(0x0060)
	require.True(t, ok)
	assert.True(t, attr.Has(AttrNonDefault))
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	_, err := NewStore(testDefs(), filepath.Join(t.TempDir(), "does-not-exist.conf"))
	assert.NoError(t, err)
}

func TestUnsortedDefinitionsFallsBackToLinear(t *testing.T) {
	defs := []Definition{
		{0x0030, "gamma", TypeUint32, 1, 0, 0, "3"},
		{0x0010, "alpha", TypeUint32, 1, 0, 0, "1"},
	}
	s, err := NewStore(defs, "")
	require.NoError(t, err)
	assert.True(t, s.linear)
	assert.Equal(t, uint32(1), s.GetUint32(0x0010, 0, 0))
}
