package property

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Save rewrites s.savePath with every entry carrying SAVE ∧ CHANGED,
// one "key=value" line per entry, keyed by name or by hex code per
// saveName. A store with no save path configured is a no-op, matching
// an agent run purely from defaults (e.g. under test).
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.savePath == "" {
		return nil
	}
	f, err := os.CreateTemp("", "dmtp-props-*.tmp")
	if err != nil {
		return fmt.Errorf("property: save: %w", err)
	}
	defer os.Remove(f.Name())

	w := bufio.NewWriter(f)
	saved := 0
	for _, e := range s.entries {
		if !e.attr.Has(AttrSave) || !e.attr.Has(AttrChanged) {
			continue
		}
		key := e.def.Name
		if !s.saveName {
			key = fmt.Sprintf("0x%04X", uint16(e.def.Key))
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", key, e.serializeInit()); err != nil {
			f.Close()
			return fmt.Errorf("property: save: %w", err)
		}
		saved++
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("property: save: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("property: save: %w", err)
	}
	if err := os.Rename(f.Name(), s.savePath); err != nil {
		return fmt.Errorf("property: save: %w", err)
	}
	logrus.Debugf("property: saved %d changed entries to %s", saved, s.savePath)
	return nil
}

// Load reads path's "key=value" lines and applies them over the
// current table. Entries set this way are marked NONDEFAULT (they
// came from persisted state, not the compiled-in default), matching
// the prior "force NONDEFAULT on properties loaded from a file" rule.
// A missing file is not an error: the table simply keeps its compiled
// defaults for first boot.
func (s *Store) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("property: load %s: %w", path, err)
	}
	defer f.Close()

	s.mu.Lock()
	defer s.mu.Unlock()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			logrus.Warnf("property: %s:%d: malformed line, skipping", path, lineNo)
			continue
		}
		key, err := resolveKey(s, strings.TrimSpace(k))
		if err != nil {
			logrus.Warnf("property: %s:%d: %v, skipping", path, lineNo, err)
			continue
		}
		e, ok := s.find(key)
		if !ok {
			logrus.Warnf("property: %s:%d: unknown key, skipping", path, lineNo)
			continue
		}
		if err := e.applyWire(strings.TrimSpace(v)); err != nil {
			logrus.Warnf("property: %s:%d: %v, skipping", path, lineNo, err)
			continue
		}
		e.attr |= AttrNonDefault
	}
	return sc.Err()
}

func resolveKey(s *Store, tok string) (Key, error) {
	if strings.HasPrefix(strings.ToLower(tok), "0x") {
		v, err := strconv.ParseUint(tok[2:], 16, 16)
		if err != nil {
			return 0, fmt.Errorf("bad hex key %q", tok)
		}
		return Key(v), nil
	}
	for _, e := range s.entries {
		if e.def.Name == tok {
			return e.def.Key, nil
		}
	}
	return 0, fmt.Errorf("unknown name %q", tok)
}
