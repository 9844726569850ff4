// Package terminal reports properties of the output terminal that shape
// the report layout.
package terminal

import (
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/sys/unix"
)

// DefaultWidth is used when no width can be determined.
const DefaultWidth = 80

// Width returns the column count of the terminal on stdout or stderr,
// then COLUMNS, then DefaultWidth.
func Width() int {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd()} {
		if cols := widthFromIoctl(fd); cols > 0 {
			return cols
		}
	}
	return envInt("COLUMNS", DefaultWidth)
}

// widthFromIoctl queries the terminal size via TIOCGWINSZ ioctl. Returns 0
// on failure.
func widthFromIoctl(fd uintptr) int {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}

// envInt reads an integer from the named environment variable. Returns
// the fallback value if the variable is unset, empty, or not a valid
// positive integer.
func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorProfile returns the color profile for styled output to f. Output
// that is not a terminal, or NO_COLOR, gets termenv.Ascii.
func ColorProfile(f *os.File) termenv.Profile {
	if !IsTerminal(f) || os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).EnvColorProfile()
}
