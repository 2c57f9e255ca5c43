package fsstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minhokang/reelforge/internal/domain/project"
)

// isLegacyName reports whether a directory was retired by the migrator.
// Legacy directories are excluded from resolution, listing, and
// migration grouping.
func isLegacyName(name string) bool {
	return strings.HasSuffix(name, "_legacy") || strings.Contains(name, "_legacy_")
}

// recordID reads just the identifier out of a directory's record file.
// Returns "" when the record is missing or unreadable.
func recordID(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, recordFile))
	if err != nil {
		return ""
	}
	var doc struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ""
	}
	return doc.ID
}

// hasRecord reports whether dir holds a record file, optionally one
// whose identifier matches id.
func hasRecord(dir, id string) bool {
	if id == "" {
		_, err := os.Stat(filepath.Join(dir, recordFile))
		return err == nil
	}
	return recordID(dir) == id
}

// CanonicalDir resolves an identifier to its canonical directory:
// slugged {id}__* folders win over the bare {id} folder, folders whose
// own record matches the identifier win over ones that don't, and ties
// go to the most recently modified folder. Slugs drift with title edits
// and historical bugs produced duplicates; resolution tolerates both.
func (s *Store) CanonicalDir(id string) string {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return filepath.Join(s.root, id)
	}

	var matching, newest string
	var matchingMod, newestMod time.Time
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || isLegacyName(name) || !strings.HasPrefix(name, id+"__") {
			continue
		}
		dir := filepath.Join(s.root, name)
		info, err := entry.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime()
		if newest == "" || mod.After(newestMod) {
			newest, newestMod = dir, mod
		}
		if hasRecord(dir, id) && (matching == "" || mod.After(matchingMod)) {
			matching, matchingMod = dir, mod
		}
	}

	if matching != "" {
		return matching
	}
	if newest != "" {
		return newest
	}
	return filepath.Join(s.root, id)
}

// nonLegacyDirs lists the top-level non-legacy project directories.
func (s *Store) nonLegacyDirs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && !isLegacyName(entry.Name()) {
			dirs = append(dirs, filepath.Join(s.root, entry.Name()))
		}
	}
	return dirs, nil
}

// dirProjectID derives the identifier a directory belongs to: from its
// name pattern first, from its own record otherwise.
func dirProjectID(dir string) string {
	if id := project.IDFromFolderName(filepath.Base(dir)); id != "" {
		return id
	}
	return recordID(dir)
}
