// Package packet implements the DMTP-style tag+payload framing used
// on uplink: a compact format string drives field layout so callers
// describe a record once instead of hand-assembling byte offsets.
package packet

import (
	"encoding/binary"
	"fmt"
)

// Packet is an encoded record plus the byte offset/length of its
// sequence field, so a caller (the reliable-UDP retransmit path) can
// rewrite that one byte without reformatting the whole record.
type Packet struct {
	Bytes  []byte
	SeqPos int
	SeqLen int
}

// RewriteSequence overwrites the packet's sequence field in place. It
// panics if SeqPos/SeqLen were never set (zero Packet), since that
// indicates a caller forgot to mark the sequence field at Format time
// rather than a recoverable runtime condition.
func (p *Packet) RewriteSequence(seq byte) {
	if p.SeqLen != 1 {
		panic("packet: RewriteSequence requires a 1-byte sequence field")
	}
	p.Bytes[p.SeqPos] = seq
}

// Format builds a Packet from a compact field-format string and a
// matching argument list. Supported tokens:
//
//	%1U   one byte, unsigned
//	%2U   two bytes, unsigned, big-endian
//	%4U   four bytes, unsigned, big-endian
//	%*s   a length-governed blob: the
//	      caller supplies (length int, data []byte); exactly length
//	      bytes of data are written, with no extra framing byte (the
//	      length lives in the call, not on the wire, matching the one
//	      concrete usage this is grounded on).
//
// Each %U token consumes one argument (any integer type, narrowed to
// the token's width); %*s consumes two (int, []byte). A malformed
// format string is reported as an error. Format panics when the
// tokens want more arguments than were supplied or an argument has an
// unsupported type; arguments left over after the last token are
// ignored.
func Format(format string, args ...interface{}) (*Packet, error) {
	p := &Packet{}
	argi := 0
	nextArg := func() interface{} {
		if argi >= len(args) {
			panic(fmt.Sprintf("packet: format %q wants more arguments than the %d supplied", format, len(args)))
		}
		v := args[argi]
		argi++
		return v
	}

	for i := 0; i < len(format); {
		if format[i] != '%' {
			return nil, fmt.Errorf("packet: format %q: byte %d is not part of a token (literal bytes are not supported)", format, i)
		}
		i++
		if i >= len(format) {
			return nil, fmt.Errorf("packet: format %q: trailing %%", format)
		}
		if format[i] == '*' {
			if i+1 >= len(format) || format[i+1] != 's' {
				return nil, fmt.Errorf("packet: format %q: expected 's' after '%%*' at byte %d", format, i)
			}
			length := toInt(nextArg())
			data := nextArg().([]byte)
			if length > len(data) {
				return nil, fmt.Errorf("packet: format %q: blob length %d exceeds supplied data length %d", format, length, len(data))
			}
			p.Bytes = append(p.Bytes, data[:length]...)
			i += 2
			continue
		}
		width := 0
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			width = width*10 + int(format[i]-'0')
			i++
		}
		if i >= len(format) || format[i] != 'U' {
			return nil, fmt.Errorf("packet: format %q: expected 'U' after width at byte %d", format, i)
		}
		i++
		v := toUint64(nextArg())
		switch width {
		case 1:
			p.Bytes = append(p.Bytes, byte(v))
		case 2:
			var b [2]byte
			binary.BigEndian.PutUint16(b[:], uint16(v))
			p.Bytes = append(p.Bytes, b[:]...)
		case 4:
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], uint32(v))
			p.Bytes = append(p.Bytes, b[:]...)
		default:
			return nil, fmt.Errorf("packet: format %q: unsupported field width %%%dU", format, width)
		}
	}
	return p, nil
}

func toUint64(v interface{}) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case uint32:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint8:
		return uint64(n)
	case int:
		return uint64(n)
	case int32:
		return uint64(n)
	default:
		panic(fmt.Sprintf("packet: unsupported numeric argument type %T", v))
	}
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case uint32:
		return int(n)
	default:
		panic(fmt.Sprintf("packet: unsupported length argument type %T", v))
	}
}
