// Package kernel parses the one-line kernel build description exposed at
// /proc/version and turns it into the three-line form shown on the about
// screen:
//
//	3.0.31-g6fb96c9
//	android-build@xxx.xxx.xxx.xxx.com #1
//	Thu Jun 28 11:02:39 PDT 2012
//
// Matching is all-or-nothing. Any line that does not fit the full
// structural pattern yields Unavailable; no partial fields are salvaged.
package kernel

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// Unavailable is returned whenever a version cannot be produced.
const Unavailable = "Unavailable"

// ProcVersionPath is where Linux exposes the raw version line.
const ProcVersionPath = "/proc/version"

// logTag identifies this component in diagnostic log entries.
const logTag = "device-info"

var (
	// ErrMalformed reports a line that does not match the version pattern.
	ErrMalformed = errors.New("kernel: malformed version line")

	// ErrUnreadable reports that the version source could not be read.
	ErrUnreadable = errors.New("kernel: version source unreadable")
)

// weekdays is the set of abbreviations that may open the date tail.
var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// versionPattern matches a whole /proc/version line. Groups:
//
//	1: release    "3.0.31-g6fb96c9"
//	2: builder    "x@y.com"
//	3: build tag  "#1"
//	4: date tail  "Thu Jun 28 11:02:39 PDT 2012"
//
// The gcc parenthetical and the SMP/PREEMPT/config flag text are matched
// and discarded.
var versionPattern = regexp.MustCompile(`^Linux version (\S+) ` +
	`\((\S+?)\) ` +
	`(?:\(gcc.+? \)) ` +
	`(#\d+) ` +
	`(?:.*?)?` +
	`((?:` + strings.Join(weekdays, "|") + `).+)$`)

// minGroups is the number of capture groups a usable match must carry.
const minGroups = 4

// Version is a parsed kernel version line.
type Version struct {
	Release  string `json:"release" yaml:"release"`
	Builder  string `json:"builder" yaml:"builder"`
	BuildTag string `json:"build_tag" yaml:"build_tag"`
	Date     string `json:"date" yaml:"date"`
}

// String returns the three-line display form.
func (v Version) String() string {
	return v.Release + "\n" + v.Builder + " " + v.BuildTag + "\n" + v.Date
}

// Parse extracts the version fields from raw. It returns an error wrapping
// ErrMalformed when raw does not match the full pattern.
func Parse(raw string) (Version, error) {
	m := versionPattern.FindStringSubmatch(raw)
	if m == nil {
		return Version{}, fmt.Errorf("%w: regex did not match on %s: %q", ErrMalformed, ProcVersionPath, raw)
	}
	if groups := len(m) - 1; groups < minGroups {
		return Version{}, fmt.Errorf("%w: regex match on %s only returned %d groups", ErrMalformed, ProcVersionPath, groups)
	}
	return Version{
		Release:  m[1],
		Builder:  m[2],
		BuildTag: m[3],
		Date:     m[4],
	}, nil
}

// LineReader reads the first line of a file. Implementations must not
// return the trailing newline.
type LineReader interface {
	ReadFirstLine(path string) (string, error)
}

// Formatter formats kernel version lines and reports failures to its
// logger. The zero value is usable and logs nowhere. A Formatter is safe
// for concurrent use.
type Formatter struct {
	logger *slog.Logger
	path   string
}

// NewFormatter returns a Formatter that logs failures to logger. A nil
// logger discards.
func NewFormatter(logger *slog.Logger) *Formatter {
	return &Formatter{logger: logger}
}

// WithPath returns a copy of f that reads path instead of ProcVersionPath.
func (f *Formatter) WithPath(path string) *Formatter {
	c := *f
	c.path = path
	return &c
}

// Path returns the file the formatter reads from.
func (f *Formatter) Path() string {
	if f.path == "" {
		return ProcVersionPath
	}
	return f.path
}

func (f *Formatter) log() *slog.Logger {
	if f.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f.logger
}

// Format returns the display form of raw, or Unavailable if raw does not
// match the version pattern.
func (f *Formatter) Format(raw string) string {
	v, err := Parse(raw)
	if err != nil {
		f.log().Error("unrecognized kernel version", "tag", logTag, "raw", raw, "error", err)
		return Unavailable
	}
	return v.String()
}

// ReadDisplay reads the version line through src and formats it. A read
// failure yields Unavailable without attempting to parse.
func (f *Formatter) ReadDisplay(src LineReader) string {
	line, ok := f.read(src)
	if !ok {
		return Unavailable
	}
	return f.Format(line)
}

// ReadRaw returns the unformatted version line, or Unavailable if it
// cannot be read.
func (f *Formatter) ReadRaw(src LineReader) string {
	line, ok := f.read(src)
	if !ok {
		return Unavailable
	}
	return line
}

func (f *Formatter) read(src LineReader) (string, bool) {
	path := f.Path()
	line, err := src.ReadFirstLine(path)
	if err != nil {
		f.log().Error("read kernel version",
			"tag", logTag, "path", path, "error", fmt.Errorf("%w: %w", ErrUnreadable, err))
		return "", false
	}
	return line, true
}

// Format formats raw without logging.
func Format(raw string) string {
	var f Formatter
	return f.Format(raw)
}
