package about

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// OSFiles reads files from disk.
type OSFiles struct{}

// ReadLines returns the lines of path without line endings.
func (OSFiles) ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("about: read %s: %w", path, err)
	}
	return lines, nil
}

// set is a string set.
type set map[string]struct{}

func newSet(items []string) set {
	s := make(set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s set) has(item string) bool {
	_, ok := s[item]
	return ok
}

// StaticPackages is a fixed list of installed packages.
type StaticPackages struct{ s set }

// NewStaticPackages returns a PackageChecker reporting names as installed.
func NewStaticPackages(names ...string) StaticPackages {
	return StaticPackages{s: newSet(names)}
}

// Installed implements PackageChecker.
func (p StaticPackages) Installed(name string) bool { return p.s.has(name) }

// StaticIntents is a fixed list of resolvable actions.
type StaticIntents struct{ s set }

// NewStaticIntents returns an IntentResolver that resolves actions.
func NewStaticIntents(actions ...string) StaticIntents {
	return StaticIntents{s: newSet(actions)}
}

// Resolvable implements IntentResolver.
func (i StaticIntents) Resolvable(action string) bool { return i.s.has(action) }

// StaticRestrictions holds restrictions imposed by a device admin and
// those set as base restrictions by the system.
type StaticRestrictions struct {
	admin  set
	system set
}

// NewStaticRestrictions builds a RestrictionChecker.
func NewStaticRestrictions(admin, system []string) StaticRestrictions {
	return StaticRestrictions{admin: newSet(admin), system: newSet(system)}
}

// Restricted implements RestrictionChecker.
func (r StaticRestrictions) Restricted(name string) bool {
	return r.admin.has(name) || r.system.has(name)
}

// EnforcedByAdmin implements RestrictionChecker.
func (r StaticRestrictions) EnforcedByAdmin(name string) bool { return r.admin.has(name) }

// SetBySystem implements RestrictionChecker.
func (r StaticRestrictions) SetBySystem(name string) bool { return r.system.has(name) }

// selinuxEnforcePath holds "1" when enforcing and "0" when permissive.
const selinuxEnforcePath = "/sys/fs/selinux/enforce"

// SysfsSELinux reads the SELinux mode from selinuxfs. A missing
// selinuxfs means SELinux is disabled.
type SysfsSELinux struct {
	// Path overrides selinuxEnforcePath.
	Path string
}

func (s SysfsSELinux) read() (string, bool) {
	path := s.Path
	if path == "" {
		path = selinuxEnforcePath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// Enabled implements SELinuxProbe.
func (s SysfsSELinux) Enabled() bool {
	_, ok := s.read()
	return ok
}

// Enforced implements SELinuxProbe.
func (s SysfsSELinux) Enforced() bool {
	v, ok := s.read()
	return ok && v == "1"
}
