package about

import (
	"strings"
)

// qgpPrefix opens the version assignment on the second line of the QGP
// device type file.
const qgpPrefix = "qgpversion="

// QGPVersion reads the QGP version from the second line of the device type
// file. It returns "" if the file is missing or not in the expected form.
func QGPVersion(e *Env) string {
	path := e.Flags.QGPVersionPath
	if path == "" {
		path = DefaultQGPVersionPath
	}
	lines, err := e.files().ReadLines(path)
	if err != nil {
		e.log().Debug("QGP version unavailable", "path", path, "error", err)
		return ""
	}
	if len(lines) < 2 || !strings.HasPrefix(lines[1], qgpPrefix) {
		return ""
	}
	v := strings.TrimPrefix(lines[1], qgpPrefix)
	e.log().Debug("read QGP version", "version", v)
	return v
}

// MBNVersion reads the modem configuration version from the first line of
// its version file. It returns "" if the file is missing or empty.
func MBNVersion(e *Env) string {
	path := e.Flags.MBNVersionPath
	if path == "" {
		path = DefaultMBNVersionPath
	}
	lines, err := e.files().ReadLines(path)
	if err != nil {
		e.log().Debug("MBN version unavailable", "path", path, "error", err)
		return ""
	}
	if len(lines) == 0 {
		return ""
	}
	e.log().Debug("read MBN version", "version", lines[0])
	return lines[0]
}
