package distver

import (
	"fmt"
	"strings"

	"pyls-manager/src/internal/errors"
)

// Local distribution folders are named <prefix>.<major>.<minor>.<patch>[-<prerelease>].
// Remote package files are named <name>-<platform>.<version>.nupkg.

const (
	folderSeparator  = "."
	packageExtension = ".nupkg"
)

// ParseFolderName extracts the version encoded in a distribution folder name.
// Names that do not start with prefix followed by the separator, or whose
// remainder is not a valid semantic version, produce a VersionParseError.
func ParseFolderName(name, prefix string) (*Version, error) {
	rest, ok := strings.CutPrefix(name, prefix+folderSeparator)
	if !ok {
		return nil, errors.NewVersionParseError(name, fmt.Errorf("missing %q prefix", prefix))
	}
	return Parse(rest)
}

// FolderName renders the folder name for a distribution of the given version
func FolderName(prefix string, v *Version) string {
	return prefix + folderSeparator + v.String()
}

// ParsePackageFileName extracts the version from a remote package file name of
// the form <name>-<platform>.<version>.nupkg. The name/platform stem carries no
// dots, so the version is everything after the first dot.
func ParsePackageFileName(fileName, packageName string) (*Version, error) {
	trimmed, ok := strings.CutSuffix(fileName, packageExtension)
	if !ok {
		return nil, errors.NewVersionParseError(fileName, fmt.Errorf("missing %q extension", packageExtension))
	}

	idx := strings.Index(trimmed, ".")
	if idx < 0 {
		return nil, errors.NewVersionParseError(fileName, fmt.Errorf("no version segment"))
	}

	stem, rest := trimmed[:idx], trimmed[idx+1:]
	if packageName != "" && !strings.HasPrefix(stem, packageName) {
		return nil, errors.NewVersionParseError(fileName, fmt.Errorf("package name mismatch, want %q", packageName))
	}

	return Parse(rest)
}
