package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), ttl)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

// --- Basic Put/Get ---

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t, time.Hour)

	data := []byte(`{"name":"test","count":42}`)
	if err := s.Put("mykey", data); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := s.Get("mykey")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != string(data) {
		t.Errorf("round-trip mismatch: got %q, want %q", got, data)
	}
}

func TestPutStringGetString(t *testing.T) {
	s := newTestStore(t, time.Hour)
	if err := s.PutString("greeting", "hello\nworld"); err != nil {
		t.Fatalf("PutString: %v", err)
	}
	got, ok := s.GetString("greeting")
	if !ok || got != "hello\nworld" {
		t.Errorf("expected hit with multi-line value, got (%q, %v)", got, ok)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t, time.Hour)
	if _, ok := s.Get("absent"); ok {
		t.Error("expected miss")
	}
}

func TestNewStoreEmptyDir(t *testing.T) {
	if _, err := NewStore("", time.Hour); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestNewStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if _, err := NewStore(dir, 0); err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected directory %s to exist", dir)
	}
}

// --- Expiry ---

func TestExpiredEntryIsRemoved(t *testing.T) {
	s := newTestStore(t, time.Minute)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	if err := s.PutString("k", "v"); err != nil {
		t.Fatalf("PutString: %v", err)
	}

	s.now = func() time.Time { return base.Add(30 * time.Second) }
	if _, ok := s.Get("k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, ok := s.Get("k"); ok {
		t.Fatal("expected miss after expiry")
	}
	if _, err := os.Stat(s.dataPath(hashKey("k"))); !os.IsNotExist(err) {
		t.Error("expected data file removed after expiry")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s := newTestStore(t, 0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	if err := s.PutString("k", "v"); err != nil {
		t.Fatalf("PutString: %v", err)
	}
	s.now = func() time.Time { return base.Add(24 * 365 * time.Hour) }
	if _, ok := s.Get("k"); !ok {
		t.Error("expected hit for entry without TTL")
	}
}

// --- Delete / Clear ---

func TestDelete(t *testing.T) {
	s := newTestStore(t, time.Hour)
	if err := s.PutString("k", "v"); err != nil {
		t.Fatalf("PutString: %v", err)
	}
	s.Delete("k")
	if _, ok := s.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t, time.Hour)
	for _, k := range []string{"a", "b", "c"} {
		if err := s.PutString(k, k); err != nil {
			t.Fatalf("PutString: %v", err)
		}
	}
	keep := filepath.Join(s.dir, "notes.txt")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".cache") || strings.HasSuffix(e.Name(), ".meta") {
			t.Errorf("unexpected leftover %s", e.Name())
		}
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("expected unrelated file to survive Clear")
	}
}

func TestCorruptMetaIsMiss(t *testing.T) {
	s := newTestStore(t, time.Hour)
	if err := s.PutString("k", "v"); err != nil {
		t.Fatalf("PutString: %v", err)
	}
	if err := os.WriteFile(s.metaPath(hashKey("k")), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("k"); ok {
		t.Error("expected miss for corrupt metadata")
	}
}

// --- Typed helpers ---

type sample struct {
	Raw     string `json:"raw"`
	Display string `json:"display"`
}

func TestTypedRoundTrip(t *testing.T) {
	s := newTestStore(t, time.Hour)
	in := sample{Raw: "r", Display: "d"}
	if err := PutTyped(s, "typed", in); err != nil {
		t.Fatalf("PutTyped: %v", err)
	}
	out, ok := GetTyped[sample](s, "typed")
	if !ok || out != in {
		t.Errorf("expected %+v, got (%+v, %v)", in, out, ok)
	}
}

func TestGetTypedInvalidJSON(t *testing.T) {
	s := newTestStore(t, time.Hour)
	if err := s.PutString("typed", "not json"); err != nil {
		t.Fatalf("PutString: %v", err)
	}
	if _, ok := GetTyped[sample](s, "typed"); ok {
		t.Error("expected miss for invalid JSON")
	}
}

func TestMemoComputesOnce(t *testing.T) {
	s := newTestStore(t, time.Hour)
	calls := 0
	fn := func() sample {
		calls++
		return sample{Display: "computed"}
	}

	for i := 0; i < 3; i++ {
		v, err := Memo(s, "memo", fn)
		if err != nil {
			t.Fatalf("Memo: %v", err)
		}
		if v.Display != "computed" {
			t.Errorf("expected computed, got %q", v.Display)
		}
	}
	if calls != 1 {
		t.Errorf("expected one computation, got %d", calls)
	}
}

func TestMemoNilStore(t *testing.T) {
	calls := 0
	fn := func() int {
		calls++
		return calls
	}
	for i := 0; i < 2; i++ {
		if _, err := Memo(nil, "memo", fn); err != nil {
			t.Fatalf("Memo: %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("expected two computations without a store, got %d", calls)
	}
}

func TestHashKeyStable(t *testing.T) {
	if hashKey("kernel_version") != hashKey("kernel_version") {
		t.Error("expected deterministic hash")
	}
	if len(hashKey("x")) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(hashKey("x")))
	}
}
