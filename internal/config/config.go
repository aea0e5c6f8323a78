package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/mrryf/thesisweb/internal/storage"
)

// EnvPrefix marks environment variables that override the file.
const EnvPrefix = "THESISWEB_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (THESISWEB_*). Nested keys use a double
// underscore, e.g. THESISWEB_SERVER__PORT.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: THESISWEB_OUTPUT_DIR -> output_dir.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validBackends is the set of recognized progress backends.
var validBackends = map[storage.Backend]bool{
	storage.BackendMemory: true,
	storage.BackendFile:   true,
	storage.BackendSQLite: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if filepath.Clean(c.ContentDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("output_dir must differ from content_dir")
	}

	if c.WordsPerMinute <= 0 {
		return fmt.Errorf("words_per_minute must be positive")
	}

	if c.ReferencesPage == "" {
		return fmt.Errorf("references_page is required")
	}

	if !validBackends[c.Progress.Backend] {
		return fmt.Errorf("invalid progress.backend %q: must be one of memory, file, sqlite", c.Progress.Backend)
	}
	if c.Progress.Backend != storage.BackendMemory && c.Progress.Path == "" {
		return fmt.Errorf("progress.path is required for the %s backend", c.Progress.Backend)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}
	if c.Server.WatchDelayMS < 0 {
		return fmt.Errorf("server.watch_delay_ms must be non-negative")
	}

	return nil
}
