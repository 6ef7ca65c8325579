package resolver

import (
	"fmt"
	"os"
	"path/filepath"

	"pyls-manager/src/internal/common"
	"pyls-manager/src/internal/distver"
)

// Scanner enumerates installed distributions under a parent directory. Entries
// that do not follow the <prefix>.<version> convention are not errors; the
// directory may hold arbitrary unrelated folders.
type Scanner struct {
	dir    string
	prefix string
}

// NewScanner creates a scanner over the given parent directory
func NewScanner(dir, prefix string) *Scanner {
	return &Scanner{dir: dir, prefix: prefix}
}

// Scan returns one FolderVersion per matching subdirectory. A missing parent
// directory yields zero entries, not an error.
func (s *Scanner) Scan() ([]FolderVersion, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.dir, err)
	}

	var found []FolderVersion
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		version, err := distver.ParseFolderName(entry.Name(), s.prefix)
		if err != nil {
			common.ResolverLogger.Debug("skipping %s: %v", entry.Name(), err)
			continue
		}

		found = append(found, FolderVersion{
			Path:    filepath.Join(s.dir, entry.Name()),
			Version: version,
		})
	}

	return found, nil
}
