package property

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Store is the sorted, attributed property table. All access is
// serialized by mu; operations are expected to be short enough that a
// single mutex never becomes a contention point, matching the prior
// single-lock property manager.
type Store struct {
	mu       sync.Mutex
	entries  []*entry
	byKey    map[Key]int
	linear   bool
	savePath string
	saveName bool // true: persist by name (default); false: by hex key
}

// NewStore builds a property table from defs. If path is non-empty and
// the file exists, its contents are loaded over the defaults (the
// defaults are applied first, then the file); entries
// loaded from file are marked NONDEFAULT.
//
// Binary-search eligibility is checked once here: if defs is not
// strictly increasing by Key, the store logs a warning and falls back
// to a linear scan for its whole lifetime rather than risk silently
// wrong lookups.
func NewStore(defs []Definition, path string) (*Store, error) {
	s := &Store{
		byKey:    make(map[Key]int, len(defs)),
		savePath: path,
		saveName: true,
	}
	sorted := true
	for i, d := range defs {
		e, err := newEntry(d)
		if err != nil {
			return nil, err
		}
		s.entries = append(s.entries, e)
		if _, dup := s.byKey[d.Key]; dup {
			return nil, fmt.Errorf("property: duplicate key 0x%04X (%s)", uint16(d.Key), d.Name)
		}
		s.byKey[d.Key] = i
		if i > 0 && defs[i-1].Key >= d.Key {
			sorted = false
		}
	}
	if !sorted {
		logrus.Warn("property: definition table is not key-sorted, falling back to linear scan")
		s.linear = true
	}
	if path != "" {
		if err := s.Load(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetSaveByName overrides the default save-key policy: true persists
// entries by their string name, false by 16-bit hex key.
func (s *Store) SetSaveByName(byName bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveName = byName
}

func (s *Store) find(key Key) (*entry, bool) {
	if !s.linear {
		if i, ok := s.byKey[key]; ok {
			return s.entries[i], true
		}
		return nil, false
	}
	for _, e := range s.entries {
		if e.def.Key == key {
			return e, true
		}
	}
	return nil, false
}

// binarySearch is the O(log n) lookup path exercised when the table
// verified sorted; find() uses the precomputed map for O(1) instead,
// but binarySearch is kept and tested directly since it documents the
// algorithm the original relied on and a future caller may want to
// search a Definition slice without building a Store.
func binarySearch(defs []Definition, key Key) (int, bool) {
	lo, hi := 0, len(defs)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case defs[mid].Key == key:
			return mid, true
		case defs[mid].Key < key:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return 0, false
}

// Definition returns the static definition for key.
func (s *Store) Definition(key Key) (Definition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return Definition{}, false
	}
	return e.def, true
}

// Attr returns the current attribute bitmask for key.
func (s *Store) Attr(key Key) (Attr, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return 0, false
	}
	return e.attr, true
}

// GetUint32 returns index i of key as an unsigned 32-bit value, or def
// if the key/index is missing.
func (s *Store) GetUint32(key Key, i int, def uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return def
	}
	v, err := e.UintAt(i)
	if err != nil {
		return def
	}
	return v
}

// GetInt32 returns index i of key as a sign-extended value.
func (s *Store) GetInt32(key Key, i int, def int32) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return def
	}
	v, err := e.IntAt(i)
	if err != nil {
		return def
	}
	return v
}

// GetDecimal returns index i of key as a real value, applying the
// definition's decimal scale.
func (s *Store) GetDecimal(key Key, i int, def float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return def
	}
	v, err := e.DecimalAt(i)
	if err != nil {
		return def
	}
	return v
}

// GetString returns key's string value, or def if missing.
func (s *Store) GetString(key Key, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return def
	}
	return e.str
}

// GetBinary returns key's binary value, or nil if missing.
func (s *Store) GetBinary(key Key) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return nil
	}
	return append([]byte(nil), e.bin...)
}

// Bool is a convenience over GetUint32 for TypeBoolean keys.
func (s *Store) Bool(key Key, def bool) bool {
	dv := uint32(0)
	if def {
		dv = 1
	}
	return s.GetUint32(key, 0, dv) != 0
}

// SetUint32 writes index i of key, enforcing READ_ONLY.
func (s *Store) SetUint32(key Key, i int, v uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return fmt.Errorf("%w: 0x%04X", ErrNotFound, uint16(key))
	}
	if e.attr.Has(AttrReadOnly) {
		return fmt.Errorf("%w: 0x%04X (%s)", ErrReadOnly, uint16(key), e.def.Name)
	}
	return e.setUintAt(i, v)
}

// SetDecimal writes index i of key as a real value, applying scale.
func (s *Store) SetDecimal(key Key, i int, v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return fmt.Errorf("%w: 0x%04X", ErrNotFound, uint16(key))
	}
	if e.attr.Has(AttrReadOnly) {
		return fmt.Errorf("%w: 0x%04X (%s)", ErrReadOnly, uint16(key), e.def.Name)
	}
	return e.setDecimalAt(i, v)
}

// SetString writes key's string value.
func (s *Store) SetString(key Key, v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return fmt.Errorf("%w: 0x%04X", ErrNotFound, uint16(key))
	}
	if e.attr.Has(AttrReadOnly) {
		return fmt.Errorf("%w: 0x%04X (%s)", ErrReadOnly, uint16(key), e.def.Name)
	}
	e.setString(v)
	return nil
}

// SetBinary writes key's binary value.
func (s *Store) SetBinary(key Key, v []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return fmt.Errorf("%w: 0x%04X", ErrNotFound, uint16(key))
	}
	if e.attr.Has(AttrReadOnly) {
		return fmt.Errorf("%w: 0x%04X (%s)", ErrReadOnly, uint16(key), e.def.Name)
	}
	e.setBinary(v)
	return nil
}

// SetFromWire applies a comma-separated value string to key, used by
// both the server-push path and local config. It enforces READ_ONLY
// exactly as the numeric/string setters do.
func (s *Store) SetFromWire(key Key, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.find(key)
	if !ok {
		return fmt.Errorf("%w: 0x%04X", ErrNotFound, uint16(key))
	}
	if e.attr.Has(AttrReadOnly) {
		return fmt.Errorf("%w: 0x%04X (%s)", ErrReadOnly, uint16(key), e.def.Name)
	}
	return e.applyWire(raw)
}

// ClearChanged resets the CHANGED bit on every entry, called after a
// successful uplink of changed values.
func (s *Store) ClearChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		e.attr &^= AttrChanged
	}
}

// Changed returns the keys currently carrying CHANGED, in table order.
func (s *Store) Changed() []Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Key
	for _, e := range s.entries {
		if e.attr.Has(AttrChanged) {
			out = append(out, e.def.Key)
		}
	}
	return out
}

// Dump returns every entry's name, current serialized value, and
// attribute bitmask, sorted by name. Used by the CLI's
// show-properties command; HIDDEN entries are included since the CLI
// is a trusted local operator tool, not the wire protocol.
type DumpEntry struct {
	Name  string
	Value string
	Attr  Attr
}

func (s *Store) Dump() []DumpEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DumpEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = DumpEntry{Name: e.def.Name, Value: e.serializeInit(), Attr: e.attr}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
