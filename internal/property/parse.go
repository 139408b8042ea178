package property

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// parseInit loads a definition's init string into the entry's zero
// value, without going through the CHANGED/NONDEFAULT bookkeeping that
// a live Set would trigger — this is the initial value, not a change.
func (e *entry) parseInit(s string) error {
	switch e.def.Type {
	case TypeString:
		e.str = s
		return nil
	case TypeBinary:
		b, err := decodeBinary(s)
		if err != nil {
			return err
		}
		e.bin = b
		return nil
	default:
		toks := splitInit(s, len(e.nums))
		for i, tok := range toks {
			raw, err := parseNumericToken(tok, e.def.Type, e.def.Scale)
			if err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
			e.nums[i] = raw
		}
		return nil
	}
}

// splitInit splits a comma-separated init string into at most n
// tokens. Per the store's "fewer supplied indices leave the trailing
// indices unchanged" rule, a short list is returned as-is (callers
// only overwrite the indices present); an empty string yields no
// tokens, which newEntry's zero-initialized nums vector already
// covers.
func splitInit(s string, n int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > n {
		parts = parts[:n]
	}
	return parts
}

func parseNumericToken(tok string, typ Type, scale uint) (uint32, error) {
	if typ == TypeDecimal32 {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a decimal literal", ErrValue, tok)
		}
		return toDecimalRaw(f, scale), nil
	}
	base := 10
	literal := tok
	neg := strings.HasPrefix(literal, "-")
	if neg {
		literal = literal[1:]
	}
	if strings.HasPrefix(strings.ToLower(literal), "0x") {
		base = 16
		literal = literal[2:]
	}
	v, err := strconv.ParseUint(literal, base, 64)
	if err != nil {
		// signed literals (e.g. "-5" for an int8/int16/int32 property)
		sv, serr := strconv.ParseInt(tok, 0, 64)
		if serr != nil {
			return 0, fmt.Errorf("%w: %q is not a numeric literal", ErrValue, tok)
		}
		return uint32(sv), nil
	}
	if neg {
		return uint32(-int64(v)), nil
	}
	return uint32(v), nil
}

func decodeBinary(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a hex literal: %v", ErrValue, s, err)
	}
	return b, nil
}

// serializeInit renders the entry's current values back to the same
// comma-separated grammar parseInit accepts, for use by Save.
func (e *entry) serializeInit() string {
	switch e.def.Type {
	case TypeString:
		return e.str
	case TypeBinary:
		return hex.EncodeToString(e.bin)
	default:
		toks := make([]string, len(e.nums))
		for i, raw := range e.nums {
			toks[i] = formatNumericToken(raw, e.def.Type, e.def.Scale)
		}
		return strings.Join(toks, ",")
	}
}

func formatNumericToken(raw uint32, typ Type, scale uint) string {
	switch typ {
	case TypeDecimal32:
		return strconv.FormatFloat(fromDecimalRaw(raw, scale), 'f', int(scale), 64)
	case TypeInt8:
		return strconv.FormatInt(int64(signExtend(raw, 8)), 10)
	case TypeInt16:
		return strconv.FormatInt(int64(signExtend(raw, 16)), 10)
	case TypeInt32:
		return strconv.FormatInt(int64(int32(raw)), 10)
	default:
		return strconv.FormatUint(uint64(raw), 10)
	}
}

// applyWire applies a server- or CLI-supplied comma-separated value
// string to an existing entry, honoring the "fewer indices leave the
// rest unchanged, more indices truncate silently" rule from the wire
// parse grammar. Unlike parseInit this goes through Set* so CHANGED is
// tracked.
func (e *entry) applyWire(s string) error {
	switch e.def.Type {
	case TypeString:
		e.setString(s)
		return nil
	case TypeBinary:
		b, err := decodeBinary(s)
		if err != nil {
			return err
		}
		e.setBinary(b)
		return nil
	default:
		toks := splitInit(s, len(e.nums))
		for i, tok := range toks {
			raw, err := parseNumericToken(tok, e.def.Type, e.def.Scale)
			if err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
			if err := e.setUintAt(i, raw); err != nil {
				return err
			}
		}
		return nil
	}
}
