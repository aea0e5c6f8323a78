package config

import (
	"github.com/mrryf/thesisweb/internal/content"
	"github.com/mrryf/thesisweb/internal/storage"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = ".thesisweb.yml"

// DefaultExcludes are glob patterns never treated as pages.
var DefaultExcludes = []string{
	"**/*.draft.yaml",
	"**/_*",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ContentDir:     "content",
		OutputDir:      "public",
		Pages:          append([]string(nil), content.DefaultPagePatterns...),
		Exclude:        append([]string(nil), DefaultExcludes...),
		WordsPerMinute: content.DefaultWordsPerMinute,
		ReferencesPage: "literatur.html",
		History:        ".thesisweb/history.db",
		Progress: ProgressConfig{
			Backend: storage.BackendFile,
			Path:    ".thesisweb/progress.json",
		},
		Server: ServerConfig{
			Port:         8080,
			WatchDelayMS: 300,
		},
	}
}
