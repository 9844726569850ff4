//go:build linux

package kernel

// HostLineReader reads version files from the running system. On Linux
// /proc/version is a regular file.
type HostLineReader struct {
	FileLineReader
}
