// Package sysprop provides read-only access to device properties such as
// ro.build.version.release. Properties come from build.prop style files,
// from the host operating system, or from configuration overrides.
package sysprop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source looks up device properties.
type Source interface {
	// Get returns the value of key and whether it is set.
	Get(key string) (string, bool)
}

// Get returns the value of key from src, or def if it is unset or empty.
func Get(src Source, key, def string) string {
	if v, ok := src.Get(key); ok && v != "" {
		return v
	}
	return def
}

// Missing reports whether key is unset or empty.
func Missing(src Source, key string) bool {
	v, ok := src.Get(key)
	return !ok || v == ""
}

// Map is an in-memory property source.
type Map map[string]string

// Get implements Source.
func (m Map) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Chain consults each source in order and returns the first non-empty
// value.
type Chain []Source

// Get implements Source.
func (c Chain) Get(key string) (string, bool) {
	found := false
	for _, s := range c {
		if s == nil {
			continue
		}
		v, ok := s.Get(key)
		if ok && v != "" {
			return v, true
		}
		found = found || ok
	}
	return "", found
}

// ParseBuildProp reads key=value lines. Blank lines and lines starting
// with '#' are skipped. Later assignments override earlier ones.
func ParseBuildProp(r io.Reader) (Map, error) {
	props := make(Map)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("sysprop: line %d: missing '=' in %q", lineNo, line)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("sysprop: line %d: empty key", lineNo)
		}
		props[key] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sysprop: scan: %w", err)
	}
	return props, nil
}

// LoadFiles merges the build.prop files at paths in order. Files that do
// not exist are skipped.
func LoadFiles(paths ...string) (Map, error) {
	merged := make(Map)
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("sysprop: open %s: %w", p, err)
		}
		props, err := ParseBuildProp(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("sysprop: parse %s: %w", p, err)
		}
		for k, v := range props {
			merged[k] = v
		}
	}
	return merged, nil
}
