package kernel

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// readBufferSize bounds the buffered read of a version file.
const readBufferSize = 256

// FileLineReader reads the first line of a file on disk.
type FileLineReader struct{}

// ReadFirstLine returns the first line of path without its line ending.
// An empty file is reported as io.EOF.
func (FileLineReader) ReadFirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return firstLine(f)
}

func firstLine(r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, readBufferSize)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("kernel: read line: %w", err)
	}
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// LineReaderFunc adapts a function to LineReader.
type LineReaderFunc func(path string) (string, error)

// ReadFirstLine calls fn(path).
func (fn LineReaderFunc) ReadFirstLine(path string) (string, error) {
	return fn(path)
}
