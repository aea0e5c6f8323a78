package site

import (
	"encoding/json"
	"os"
	"time"
)

// Manifest describes one build of the site.
type Manifest struct {
	BuildID            string    `json:"build_id"`
	GeneratedAt        time.Time `json:"generated_at"`
	ContentFingerprint string    `json:"content_fingerprint"`
	Pages              int       `json:"pages"`
	GlossaryTerms      int       `json:"glossary_terms"`
	References         int       `json:"references"`
	Markers            int       `json:"markers"`
	Files              []string  `json:"files"`
}

// WriteManifest writes m as indented JSON.
func WriteManifest(m Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}
