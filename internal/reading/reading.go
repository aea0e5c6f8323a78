// Package reading keeps the reader's last position in the thesis as a
// single record in a local key-value store.
package reading

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/mrryf/thesisweb/internal/storage"
)

// StorageKey is the key the record lives under. The site script uses the
// same key in browser localStorage.
const StorageKey = "reading-progress"

// Progress is the persisted reading position.
type Progress struct {
	Page         string `json:"page"`
	SectionID    string `json:"sectionId"`
	SectionTitle string `json:"sectionTitle"`
	Timestamp    int64  `json:"timestamp"`
	Progress     int    `json:"progress"`
}

// Store holds the current record and writes every change through to kv.
type Store struct {
	kv  storage.KV
	now func() time.Time

	mu      sync.Mutex
	current *Progress
}

// NewStore loads any existing record from kv. A missing or unreadable
// record leaves the store empty.
func NewStore(kv storage.KV) *Store {
	s := &Store{kv: kv, now: time.Now}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := s.kv.Get(StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("reading progress: load failed: %v", err)
		return
	}
	var p Progress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Printf("reading progress: ignoring malformed record: %v", err)
		return
	}
	s.current = &p
}

// Update records the position. progress is rounded half away from zero and
// clamped to 0..100.
func (s *Store) Update(page, sectionID, sectionTitle string, progress float64) Progress {
	p := Progress{
		Page:         page,
		SectionID:    sectionID,
		SectionTitle: sectionTitle,
		Timestamp:    s.now().UnixMilli(),
		Progress:     clampPercent(progress),
	}

	s.mu.Lock()
	s.current = &p
	s.mu.Unlock()

	s.save(p)
	return p
}

func (s *Store) save(p Progress) {
	raw, err := json.Marshal(p)
	if err != nil {
		log.Printf("reading progress: encode failed: %v", err)
		return
	}
	if err := s.kv.Set(StorageKey, string(raw)); err != nil {
		log.Printf("reading progress: save failed: %v", err)
	}
}

// Clear forgets the position in memory and in the store.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.kv.Remove(StorageKey); err != nil {
		log.Printf("reading progress: clear failed: %v", err)
	}
}

// Current returns the stored position, if any.
func (s *Store) Current() (Progress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Progress{}, false
	}
	return *s.current, true
}

// ResumeURL returns "page#sectionId" for the stored position.
func (s *Store) ResumeURL() (string, bool) {
	p, ok := s.Current()
	if !ok || p.Page == "" {
		return "", false
	}
	if p.SectionID == "" {
		return p.Page, true
	}
	return p.Page + "#" + p.SectionID, true
}

func clampPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v)
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	}
	return int(r)
}
