//go:build !linux && !darwin

package kernel

// HostLineReader reads version files from disk.
type HostLineReader struct {
	FileLineReader
}
