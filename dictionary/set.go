package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kingkybel/FixDecoder/pkg/fixlog"
	"go.uber.org/multierr"
)

// DictionarySet indexes one or more loaded Dictionary values by their
// BeginString. LoadDirectory and Put are its only mutating methods; once
// the caller stops calling them, it is safe for concurrent readers.
type DictionarySet struct {
	byBeginString map[string]*Dictionary
}

// NewDictionarySet returns an empty set.
func NewDictionarySet() *DictionarySet {
	return &DictionarySet{byBeginString: make(map[string]*Dictionary)}
}

// LoadDirectory loads every top-level *.xml file in dir into the set. A
// single file's failure to parse is logged at Warn but does not stop the
// remaining files from loading and does not fail the call: LoadDirectory
// only returns an error when not one file loaded.
func (s *DictionarySet) LoadDirectory(dir string, log fixlog.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read dictionary directory %s: %w", dir, err)
	}

	var errs error
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		d, loadErr := LoadFile(path)
		if loadErr != nil {
			errs = multierr.Append(errs, loadErr)
			if log != nil {
				log.Warn("failed to load dictionary file", "path", path, "error", loadErr)
			}
			continue
		}

		s.byBeginString[d.BeginString()] = d
		loaded++
	}

	if loaded == 0 {
		return multierr.Append(fmt.Errorf("no dictionaries loaded from %s", dir), errs)
	}
	return nil
}

// FindByBeginString returns the dictionary registered for beginString, if any.
func (s *DictionarySet) FindByBeginString(beginString string) (*Dictionary, bool) {
	d, ok := s.byBeginString[beginString]
	return d, ok
}

// Put registers an already-loaded dictionary directly, keyed by its own
// BeginString. Used by callers (and tests) that construct dictionaries
// without going through LoadDirectory.
func (s *DictionarySet) Put(d *Dictionary) {
	s.byBeginString[d.BeginString()] = d
}
