// Package distver parses and compares the semantic versions encoded in local
// distribution folder names and remote package file names.
package distver

import (
	"fmt"

	"github.com/Masterminds/semver"

	"pyls-manager/src/internal/errors"
)

// Version is an immutable semantic version with optional pre-release and build
// metadata segments. Ordering follows the semver comparison algorithm:
// pre-release sorts below the release carrying the same numeric triple.
type Version struct {
	v *semver.Version
}

// Parse parses a semantic version string
func Parse(s string) (*Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, errors.NewVersionParseError(s, err)
	}
	return &Version{v: v}, nil
}

// MustParse parses a semantic version string and panics on failure. Reserved
// for fixed registry entries and tests.
func MustParse(s string) *Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Major returns the major component
func (v *Version) Major() int64 { return v.v.Major() }

// Minor returns the minor component
func (v *Version) Minor() int64 { return v.v.Minor() }

// Patch returns the patch component
func (v *Version) Patch() int64 { return v.v.Patch() }

// Prerelease returns the pre-release tag, empty for release versions
func (v *Version) Prerelease() string { return v.v.Prerelease() }

// Compare returns -1, 0 or 1 ordering v against o
func (v *Version) Compare(o *Version) int {
	return v.v.Compare(o.v)
}

// GreaterThan reports whether v orders strictly above o
func (v *Version) GreaterThan(o *Version) bool {
	return v.Compare(o) > 0
}

// IsRelease reports whether v carries no pre-release or build-metadata segment
func (v *Version) IsRelease() bool {
	return v.v.Prerelease() == "" && v.v.Metadata() == ""
}

// String renders the version from its components, independent of the input
// string it was parsed from
func (v *Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.v.Major(), v.v.Minor(), v.v.Patch())
	if pre := v.v.Prerelease(); pre != "" {
		s += "-" + pre
	}
	if meta := v.v.Metadata(); meta != "" {
		s += "+" + meta
	}
	return s
}
