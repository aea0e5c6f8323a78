package reading

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mrryf/thesisweb/internal/storage"
)

type failingKV struct{ storage.KV }

func (failingKV) Set(string, string) error { return errors.New("quota exceeded") }

func TestUpdateRoundsAndClamps(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{42.4, 42},
		{42.5, 43},
		{99.6, 100},
		{150, 100},
		{-3, 0},
	}
	for _, tt := range tests {
		s := NewStore(storage.NewMemory())
		got := s.Update("/theorie", "s1", "Einleitung", tt.in)
		if got.Progress != tt.want {
			t.Errorf("Update(%v).Progress = %d, want %d", tt.in, got.Progress, tt.want)
		}
	}
}

func TestUpdatePersistsRecord(t *testing.T) {
	kv := storage.NewMemory()
	s := NewStore(kv)
	fixed := time.UnixMilli(1_700_000_000_123)
	s.now = func() time.Time { return fixed }

	s.Update("/methodik", "interviews", "Interviews", 37.2)

	raw, err := kv.Get(StorageKey)
	if err != nil {
		t.Fatalf("record not saved: %v", err)
	}
	var p Progress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := Progress{Page: "/methodik", SectionID: "interviews", SectionTitle: "Interviews", Timestamp: 1_700_000_000_123, Progress: 37}
	if p != want {
		t.Errorf("saved %+v, want %+v", p, want)
	}
}

func TestRecordFieldNames(t *testing.T) {
	raw, _ := json.Marshal(Progress{Page: "p", SectionID: "s", SectionTitle: "t", Timestamp: 1, Progress: 2})
	want := `{"page":"p","sectionId":"s","sectionTitle":"t","timestamp":1,"progress":2}`
	if string(raw) != want {
		t.Errorf("json = %s, want %s", raw, want)
	}
}

func TestReloadRestoresPosition(t *testing.T) {
	kv := storage.NewMemory()
	NewStore(kv).Update("/ergebnisse", "s4", "Ergebnisse", 80)

	s := NewStore(kv)
	p, ok := s.Current()
	if !ok {
		t.Fatal("expected restored progress")
	}
	if p.Page != "/ergebnisse" || p.Progress != 80 {
		t.Errorf("restored %+v", p)
	}
	url, ok := s.ResumeURL()
	if !ok || url != "/ergebnisse#s4" {
		t.Errorf("ResumeURL = %q, %v", url, ok)
	}
}

func TestMalformedRecordIsAbsent(t *testing.T) {
	kv := storage.NewMemory()
	_ = kv.Set(StorageKey, "{oops")

	s := NewStore(kv)
	if _, ok := s.Current(); ok {
		t.Error("malformed record should be treated as absent")
	}
	if _, ok := s.ResumeURL(); ok {
		t.Error("ResumeURL should report no position")
	}
}

func TestClear(t *testing.T) {
	kv := storage.NewMemory()
	s := NewStore(kv)
	s.Update("/a", "b", "c", 10)
	s.Clear()

	if _, ok := s.Current(); ok {
		t.Error("Current after Clear should be empty")
	}
	if _, err := kv.Get(StorageKey); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("key still present after Clear: %v", err)
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	s := NewStore(failingKV{storage.NewMemory()})
	s.Update("/a", "b", "c", 50)

	p, ok := s.Current()
	if !ok || p.Progress != 50 {
		t.Errorf("Current = %+v, %v; want in-memory update despite save failure", p, ok)
	}
}
