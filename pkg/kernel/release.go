package kernel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/blang/semver/v4"
)

// releasePattern splits a release token into its numeric core and the
// vendor suffix, e.g. "6.1.0-27-amd64" -> 6, 1, 0, "-27-amd64".
var releasePattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?(.*)$`)

// Semver returns the release token as a semantic version. The numeric
// core must be present; suffix identifiers that are not valid pre-release
// or build identifiers are dropped.
func (v Version) Semver() (semver.Version, error) {
	return ParseRelease(v.Release)
}

// ParseRelease converts a kernel release such as "3.0.31-g6fb96c9" or
// "5.15.0+" into a semantic version.
func ParseRelease(release string) (semver.Version, error) {
	m := releasePattern.FindStringSubmatch(strings.TrimSpace(release))
	if m == nil {
		return semver.Version{}, fmt.Errorf("kernel: release %q has no numeric version", release)
	}

	var sv semver.Version
	var err error
	if sv.Major, err = strconv.ParseUint(m[1], 10, 64); err != nil {
		return semver.Version{}, fmt.Errorf("kernel: release %q: %w", release, err)
	}
	if sv.Minor, err = strconv.ParseUint(m[2], 10, 64); err != nil {
		return semver.Version{}, fmt.Errorf("kernel: release %q: %w", release, err)
	}
	if m[3] != "" {
		if sv.Patch, err = strconv.ParseUint(m[3], 10, 64); err != nil {
			return semver.Version{}, fmt.Errorf("kernel: release %q: %w", release, err)
		}
	}

	suffix := m[4]
	build := ""
	if i := strings.IndexByte(suffix, '+'); i >= 0 {
		suffix, build = suffix[:i], suffix[i+1:]
	}

	if pre := strings.TrimPrefix(suffix, "-"); pre != "" && pre != suffix {
		for _, part := range strings.Split(pre, ".") {
			pr, err := semver.NewPRVersion(part)
			if err != nil {
				continue
			}
			sv.Pre = append(sv.Pre, pr)
		}
	}

	for _, part := range strings.Split(build, ".") {
		if b, err := semver.NewBuildVersion(part); err == nil {
			sv.Build = append(sv.Build, b)
		}
	}

	return sv, nil
}
