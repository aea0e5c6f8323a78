// Package history keeps a log of site builds in the local SQLite database.
package history

import "time"

// Build is one recorded site build.
type Build struct {
	ID            string         `json:"id"`
	Timestamp     time.Time      `json:"timestamp"`
	Fingerprint   string         `json:"fingerprint"`
	OutputDir     string         `json:"output_dir"`
	Pages         int            `json:"pages"`
	Words         int            `json:"words"`
	GlossaryTerms int            `json:"glossary_terms"`
	Markers       int            `json:"markers"`
	Cited         map[string]int `json:"cited"`
	Duration      time.Duration  `json:"duration"`
	Archive       string         `json:"archive,omitempty"`
}

// Unchanged reports whether b was built from the same content as prev.
func (b Build) Unchanged(prev *Build) bool {
	return prev != nil && b.Fingerprint != "" && b.Fingerprint == prev.Fingerprint
}
