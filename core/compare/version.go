package compare

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/emenda-labs/declguard/core/diffspec"
)

// Bump is the size of a version increment.
type Bump int

const (
	BumpPatch Bump = iota
	BumpMinor
	BumpMajor
)

func (b Bump) String() string {
	switch b {
	case BumpMajor:
		return "major"
	case BumpMinor:
		return "minor"
	default:
		return "patch"
	}
}

// ErrInsufficientBump is returned when the current version does not move far
// enough past the baseline for the changes found.
var ErrInsufficientBump = errors.New("insufficient version bump")

// RequiredBump returns the smallest bump that covers the report: major for
// breaking changes, minor for additions, patch otherwise.
func RequiredBump(report diffspec.Report) Bump {
	if len(report.Breaking()) > 0 {
		return BumpMajor
	}
	if len(report.Added()) > 0 {
		return BumpMinor
	}
	return BumpPatch
}

// CheckVersions verifies that current is newer than baseline by at least
// bump. Versions without a leading "v" are accepted. Below 1.0.0 every
// requirement drops one level, so a breaking change needs a minor bump.
func CheckVersions(baseline, current string, bump Bump) error {
	base, err := canonical(baseline)
	if err != nil {
		return fmt.Errorf("baseline version: %w", err)
	}
	cur, err := canonical(current)
	if err != nil {
		return fmt.Errorf("current version: %w", err)
	}

	if semver.Compare(cur, base) <= 0 {
		return fmt.Errorf("current version %s is not newer than baseline %s", current, baseline)
	}

	required := bump
	if semver.Major(base) == "v0" && required > BumpPatch {
		required--
	}
	if actual := bumpBetween(base, cur); actual < required {
		return fmt.Errorf("%w: %s to %s is a %s bump, changes require %s",
			ErrInsufficientBump, baseline, current, actual, required)
	}
	return nil
}

func canonical(version string) (string, error) {
	v := strings.TrimSpace(version)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid semantic version %q", version)
	}
	return v, nil
}

func bumpBetween(base, cur string) Bump {
	switch {
	case semver.Major(base) != semver.Major(cur):
		return BumpMajor
	case semver.MajorMinor(base) != semver.MajorMinor(cur):
		return BumpMinor
	default:
		return BumpPatch
	}
}
