//go:build darwin

package kernel

import (
	"strings"

	"golang.org/x/sys/unix"
)

// HostLineReader reads version files from the running system. macOS has
// no /proc, so ProcVersionPath is answered with the kern.version sysctl.
// That text does not follow the Linux layout and formats as Unavailable.
type HostLineReader struct {
	FileLineReader
}

// ReadFirstLine implements LineReader.
func (h HostLineReader) ReadFirstLine(path string) (string, error) {
	if path != ProcVersionPath {
		return h.FileLineReader.ReadFirstLine(path)
	}
	ver, err := unix.Sysctl("kern.version")
	if err != nil {
		return "", err
	}
	return firstLine(strings.NewReader(ver))
}
