package config

import "github.com/mrryf/thesisweb/internal/storage"

// Config is the top-level thesisweb configuration, corresponding to
// .thesisweb.yml.
type Config struct {
	ContentDir     string         `yaml:"content_dir" koanf:"content_dir"`
	OutputDir      string         `yaml:"output_dir" koanf:"output_dir"`
	Pages          []string       `yaml:"pages" koanf:"pages"`
	Exclude        []string       `yaml:"exclude" koanf:"exclude"`
	WordsPerMinute int            `yaml:"words_per_minute" koanf:"words_per_minute"`
	ReferencesPage string         `yaml:"references_page" koanf:"references_page"`
	Archive        string         `yaml:"archive" koanf:"archive"`
	History        string         `yaml:"history" koanf:"history"`
	Progress       ProgressConfig `yaml:"progress" koanf:"progress"`
	Server         ServerConfig   `yaml:"server" koanf:"server"`
}

// ProgressConfig selects where the CLI keeps the reading position.
type ProgressConfig struct {
	Backend storage.Backend `yaml:"backend" koanf:"backend"`
	Path    string          `yaml:"path" koanf:"path"`
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	WatchDelayMS    int  `yaml:"watch_delay_ms" koanf:"watch_delay_ms"`
}
