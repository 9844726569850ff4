package kernel

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// --- Sample data constants for parsing tests ---

const sampleAndroid = "Linux version 3.0.31-g6fb96c9 (android-build@xxx.xxx.xxx.xxx.com) " +
	"(gcc version 4.6.x-xxx 20120106 (prerelease) (GCC) ) #1 SMP PREEMPT Thu Jun 28 11:02:39 PDT 2012"

const sampleAndroidFormatted = "3.0.31-g6fb96c9\n" +
	"android-build@xxx.xxx.xxx.xxx.com #1\n" +
	"Thu Jun 28 11:02:39 PDT 2012"

const sampleNoFlags = "Linux version 3.4.0-perf-g1a2b3c4 (builder@host) " +
	"(gcc version 4.7 (GCC) ) #42 Mon Jan 7 09:00:00 UTC 2013"

const sampleDebian = "Linux version 6.1.0-27-amd64 (debian-kernel@lists.debian.org) " +
	"(gcc-12 (Debian 12.2.0-14) 12.2.0, GNU ld (GNU Binutils for Debian) 2.40) " +
	"#1 SMP PREEMPT_DYNAMIC Debian 6.1.115-1 (2024-11-01) Fri Nov 1 12:00:00 UTC 2024"

const sampleNoGCC = "Linux version 3.0.31-g6fb96c9 (android-build@xxx.xxx.xxx.xxx.com) " +
	"#1 SMP PREEMPT Thu Jun 28 11:02:39 PDT 2012"

const sampleNoHash = "Linux version 3.0.31-g6fb96c9 (android-build@xxx.xxx.xxx.xxx.com) " +
	"(gcc version 4.6.x-xxx 20120106 (prerelease) (GCC) ) 1 SMP PREEMPT Thu Jun 28 11:02:39 PDT 2012"

const sampleNoWeekday = "Linux version 3.0.31-g6fb96c9 (android-build@xxx.xxx.xxx.xxx.com) " +
	"(gcc version 4.6.x-xxx 20120106 (prerelease) (GCC) ) #1 SMP PREEMPT Jun 28 11:02:39 PDT 2012"

// fakeReader is a LineReader that records calls.
type fakeReader struct {
	line  string
	err   error
	calls []string
}

func (r *fakeReader) ReadFirstLine(path string) (string, error) {
	r.calls = append(r.calls, path)
	return r.line, r.err
}

func newBufferedFormatter() (*Formatter, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewFormatter(logger), &buf
}

// --- Format tests ---

func TestFormatAndroidSample(t *testing.T) {
	got := Format(sampleAndroid)
	if got != sampleAndroidFormatted {
		t.Errorf("expected %q, got %q", sampleAndroidFormatted, got)
	}
}

func TestFormatWithoutFlags(t *testing.T) {
	got := Format(sampleNoFlags)
	want := "3.4.0-perf-g1a2b3c4\nbuilder@host #42\nMon Jan 7 09:00:00 UTC 2013"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatRejectsGCCLessParenthetical(t *testing.T) {
	// Modern toolchains print "(gcc-12 (...) ...)" without the " )" the
	// pattern requires before the build tag.
	if got := Format(sampleDebian); got != Unavailable {
		t.Errorf("expected %q, got %q", Unavailable, got)
	}
}

func TestFormatUnavailableInputs(t *testing.T) {
	inputs := map[string]string{
		"empty":      "",
		"truncated":  sampleAndroid[:40],
		"unrelated":  "the quick brown fox",
		"no gcc":     sampleNoGCC,
		"no hash":    sampleNoHash,
		"no weekday": sampleNoWeekday,
		"prefixed":   "xx " + sampleAndroid,
		"two lines":  sampleAndroid + "\n" + sampleAndroid,
		"darwin":     "Darwin Kernel Version 23.0.0: Fri Sep 15 14:41:43 PDT 2023; root:xnu-10002.1.13~1/RELEASE_ARM64_T6000",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			if got := Format(in); got != Unavailable {
				t.Errorf("expected %q, got %q", Unavailable, got)
			}
		})
	}
}

func TestFormatIsIdempotent(t *testing.T) {
	f, _ := newBufferedFormatter()
	first := f.Format(sampleAndroid)
	second := f.Format(sampleAndroid)
	if first != second {
		t.Errorf("expected identical output, got %q then %q", first, second)
	}
}

func TestFormatLogsOnlyOnFailure(t *testing.T) {
	f, buf := newBufferedFormatter()

	f.Format(sampleAndroid)
	if buf.Len() != 0 {
		t.Errorf("expected no log output on success, got %q", buf.String())
	}

	f.Format("garbage")
	out := buf.String()
	if strings.Count(out, "level=ERROR") != 1 {
		t.Errorf("expected exactly one error entry, got %q", out)
	}
	if !strings.Contains(out, "garbage") {
		t.Errorf("expected log to carry the raw input, got %q", out)
	}
	if !strings.Contains(out, "tag="+logTag) {
		t.Errorf("expected log to carry tag %q, got %q", logTag, out)
	}
}

func TestFormatConcurrent(t *testing.T) {
	f, _ := newBufferedFormatter()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := f.Format(sampleAndroid); got != sampleAndroidFormatted {
				t.Errorf("expected %q, got %q", sampleAndroidFormatted, got)
			}
		}()
	}
	wg.Wait()
}

// --- Parse tests ---

func TestParseFields(t *testing.T) {
	v, err := Parse(sampleAndroid)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := Version{
		Release:  "3.0.31-g6fb96c9",
		Builder:  "android-build@xxx.xxx.xxx.xxx.com",
		BuildTag: "#1",
		Date:     "Thu Jun 28 11:02:39 PDT 2012",
	}
	if v != want {
		t.Errorf("expected %+v, got %+v", want, v)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse("Linux version")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

// --- ReadDisplay / ReadRaw tests ---

func TestReadDisplayFormatsLine(t *testing.T) {
	r := &fakeReader{line: sampleAndroid}
	f, _ := newBufferedFormatter()

	if got := f.ReadDisplay(r); got != sampleAndroidFormatted {
		t.Errorf("expected %q, got %q", sampleAndroidFormatted, got)
	}
	if len(r.calls) != 1 || r.calls[0] != ProcVersionPath {
		t.Errorf("expected one read of %s, got %v", ProcVersionPath, r.calls)
	}
}

func TestReadDisplayUnreadableSource(t *testing.T) {
	r := &fakeReader{err: os.ErrPermission}
	f, buf := newBufferedFormatter()

	if got := f.ReadDisplay(r); got != Unavailable {
		t.Errorf("expected %q, got %q", Unavailable, got)
	}
	out := buf.String()
	if strings.Count(out, "level=ERROR") != 1 {
		t.Errorf("expected exactly one error entry, got %q", out)
	}
	if strings.Contains(out, "unrecognized") {
		t.Errorf("matcher should not run on read failure, got %q", out)
	}
}

func TestReadDisplayUsesPathOverride(t *testing.T) {
	r := &fakeReader{line: sampleAndroid}
	f := NewFormatter(nil).WithPath("/tmp/version")

	f.ReadDisplay(r)
	if len(r.calls) != 1 || r.calls[0] != "/tmp/version" {
		t.Errorf("expected read of /tmp/version, got %v", r.calls)
	}
}

func TestReadRawReturnsLine(t *testing.T) {
	r := &fakeReader{line: sampleNoGCC}
	f := NewFormatter(nil)
	if got := f.ReadRaw(r); got != sampleNoGCC {
		t.Errorf("expected raw line, got %q", got)
	}
}

func TestReadRawUnreadable(t *testing.T) {
	f := NewFormatter(nil)
	r := LineReaderFunc(func(string) (string, error) { return "", io.ErrUnexpectedEOF })
	if got := f.ReadRaw(r); got != Unavailable {
		t.Errorf("expected %q, got %q", Unavailable, got)
	}
}

// --- FileLineReader tests ---

func TestFileLineReaderFirstLineOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version")
	if err := os.WriteFile(path, []byte(sampleAndroid+"\nsecond line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FileLineReader{}.ReadFirstLine(path)
	if err != nil {
		t.Fatalf("ReadFirstLine returned error: %v", err)
	}
	if got != sampleAndroid {
		t.Errorf("expected %q, got %q", sampleAndroid, got)
	}
}

func TestFileLineReaderStripsCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version")
	if err := os.WriteFile(path, []byte("hello\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FileLineReader{}.ReadFirstLine(path)
	if err != nil {
		t.Fatalf("ReadFirstLine returned error: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
}

func TestFileLineReaderNoTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version")
	if err := os.WriteFile(path, []byte(sampleAndroid), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FileLineReader{}.ReadFirstLine(path)
	if err != nil {
		t.Fatalf("ReadFirstLine returned error: %v", err)
	}
	if got != sampleAndroid {
		t.Errorf("expected %q, got %q", sampleAndroid, got)
	}
}

func TestFileLineReaderEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (FileLineReader{}).ReadFirstLine(path); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestFileLineReaderMissingFile(t *testing.T) {
	_, err := FileLineReader{}.ReadFirstLine(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestReadDisplayFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "version")
	if err := os.WriteFile(path, []byte(sampleAndroid+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := NewFormatter(nil).WithPath(path)
	if got := f.ReadDisplay(FileLineReader{}); got != sampleAndroidFormatted {
		t.Errorf("expected %q, got %q", sampleAndroidFormatted, got)
	}
}
