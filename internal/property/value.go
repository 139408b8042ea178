package property

import (
	"fmt"
	"math"
)

// entry is the live, mutable state backing one Definition: its
// current attribute bits and values. Numeric types (including
// decimal32) are stored as a vector of uint32 words holding the raw
// bit pattern; signed types are reinterpreted on read.
type entry struct {
	def     Definition
	attr    Attr
	nums    []uint32
	str     string
	bin     []byte
}

func newEntry(def Definition) (*entry, error) {
	e := &entry{def: def, attr: def.Attr}
	switch def.Type {
	case TypeString, TypeBinary:
		// single-valued; Count is informational only for these types
	default:
		e.nums = make([]uint32, def.Count)
	}
	if err := e.parseInit(def.Default); err != nil {
		return nil, fmt.Errorf("property: key 0x%04X (%s) default %q: %w", uint16(def.Key), def.Name, def.Default, err)
	}
	return e, nil
}

// roundHalfAwayFromZero matches the prior implementation's RINT usage
// for decimal32 scaling: 0.5 always rounds away from zero, not to even.
func roundHalfAwayFromZero(f float64) int64 {
	if f >= 0 {
		return int64(math.Floor(f + 0.5))
	}
	return int64(math.Ceil(f - 0.5))
}

func scaleFactor(scale uint) float64 {
	return math.Pow(10, float64(scale))
}

// toDecimalRaw converts an external real value to its stored raw
// integer representation: round(real * 10^scale).
func toDecimalRaw(real float64, scale uint) uint32 {
	return uint32(int32(roundHalfAwayFromZero(real * scaleFactor(scale))))
}

// fromDecimalRaw converts a stored raw integer back to the external
// real value: raw / 10^scale.
func fromDecimalRaw(raw uint32, scale uint) float64 {
	return float64(int32(raw)) / scaleFactor(scale)
}

func signExtend(v uint32, bits int) int32 {
	shift := uint(32 - bits)
	return int32(v<<shift) >> shift
}

// UintAt returns the unsigned interpretation of index i (valid for
// TypeBoolean/Uint8/Uint16/Uint32).
func (e *entry) UintAt(i int) (uint32, error) {
	if i < 0 || i >= len(e.nums) {
		return 0, ErrIndexRange
	}
	return e.nums[i], nil
}

// IntAt returns the signed, sign-extended interpretation of index i.
func (e *entry) IntAt(i int) (int32, error) {
	if i < 0 || i >= len(e.nums) {
		return 0, ErrIndexRange
	}
	switch e.def.Type {
	case TypeInt8:
		return signExtend(e.nums[i], 8), nil
	case TypeInt16:
		return signExtend(e.nums[i], 16), nil
	default:
		return int32(e.nums[i]), nil
	}
}

// DecimalAt returns the real value of a decimal32 index, applying the
// definition's fixed scale.
func (e *entry) DecimalAt(i int) (float64, error) {
	if i < 0 || i >= len(e.nums) {
		return 0, ErrIndexRange
	}
	return fromDecimalRaw(e.nums[i], e.def.Scale), nil
}

func (e *entry) setUintAt(i int, v uint32) error {
	if i < 0 || i >= len(e.nums) {
		return ErrIndexRange
	}
	e.markIfChanged(e.nums[i] != v)
	e.nums[i] = v
	return nil
}

func (e *entry) setDecimalAt(i int, real float64) error {
	if i < 0 || i >= len(e.nums) {
		return ErrIndexRange
	}
	raw := toDecimalRaw(real, e.def.Scale)
	e.markIfChanged(e.nums[i] != raw)
	e.nums[i] = raw
	return nil
}

func (e *entry) setString(s string) {
	e.markIfChanged(e.str != s)
	e.str = s
}

func (e *entry) setBinary(b []byte) {
	cp := append([]byte(nil), b...)
	changed := len(cp) != len(e.bin)
	if !changed {
		for i := range cp {
			if cp[i] != e.bin[i] {
				changed = true
				break
			}
		}
	}
	e.markIfChanged(changed)
	e.bin = cp
}

func (e *entry) markIfChanged(changed bool) {
	if changed {
		e.attr |= AttrChanged | AttrNonDefault
	}
}
