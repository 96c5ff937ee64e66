package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ErrInvalidSlot is returned for slot names that are not plain file names.
var ErrInvalidSlot = errors.New("invalid save slot")

// DefaultSlot is used when no slot is given.
const DefaultSlot = "default"

// Store keeps one JSON record per save slot in a directory.
type Store struct {
	dir string
	log zerolog.Logger
}

// NewStore creates a Store rooted at dir. The directory is created on first save.
func NewStore(dir string, log zerolog.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// Path returns the file backing a slot.
func (s *Store) Path(slot string) (string, error) {
	if slot == "" {
		slot = DefaultSlot
	}
	if slot != filepath.Base(slot) || slot == "." || slot == ".." || strings.ContainsAny(slot, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return filepath.Join(s.dir, slot+".json"), nil
}

// Load reads a slot. A missing slot returns an error satisfying
// errors.Is(err, fs.ErrNotExist); a record that is not JSON returns
// ErrCorruptRecord. Field-level damage is logged and coerced.
func (s *Store) Load(slot string) (*Snapshot, error) {
	path, err := s.Path(slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", slot, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("slot %s: %w", slot, err)
	}
	for _, w := range snap.Warnings {
		s.log.Warn().Str("slot", slot).Msg(w)
	}
	return snap, nil
}

// Save writes a slot atomically: the record goes to a temporary file in the
// same directory which then replaces the slot.
func (s *Store) Save(slot string, snap *Snapshot) error {
	path, err := s.Path(slot)
	if err != nil {
		return err
	}
	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", slot, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync slot %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot %s: %w", slot, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace slot %s: %w", slot, err)
	}
	s.log.Debug().Str("slot", slot).Str("path", path).Msg("game saved")
	return nil
}
