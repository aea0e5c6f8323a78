package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/mrryf/thesisweb/internal/content"
	"github.com/mrryf/thesisweb/internal/storage"
)

// contentDirCandidates are checked, in order, for a site.yaml.
var contentDirCandidates = []string{"content", "thesis", "data", "src/data", "."}

// detectContentDir returns the first candidate below base holding a
// site.yaml, or "content" when none does.
func detectContentDir(base string) (dir string, found bool) {
	for _, c := range contentDirCandidates {
		if _, err := os.Stat(filepath.Join(base, c, content.SiteFile)); err == nil {
			return c, true
		}
	}
	return "content", false
}

// WizardAnswers are the values collected by RunWizard.
type WizardAnswers struct {
	ContentDir      string
	OutputDir       string
	Backend         storage.Backend
	Port            int
	ExtraExcludes   string
	AllowAllOrigins bool
}

// FromAnswers builds a Config from wizard answers on top of the defaults.
func FromAnswers(a WizardAnswers) *Config {
	cfg := DefaultConfig()
	if a.ContentDir != "" {
		cfg.ContentDir = a.ContentDir
	}
	if a.OutputDir != "" {
		cfg.OutputDir = a.OutputDir
	}
	if a.Backend != "" {
		cfg.Progress.Backend = a.Backend
	}
	switch cfg.Progress.Backend {
	case storage.BackendSQLite:
		cfg.Progress.Path = ".thesisweb/progress.db"
	case storage.BackendMemory:
		cfg.Progress.Path = ""
	}
	if a.Port > 0 {
		cfg.Server.Port = a.Port
	}
	cfg.Server.AllowAllOrigins = a.AllowAllOrigins
	cfg.Exclude = append(cfg.Exclude, splitAndTrim(a.ExtraExcludes)...)
	return cfg
}

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to thesisweb! Let's configure your thesis site.")
	fmt.Println()

	var a WizardAnswers

	// 1. Content directory.
	defaultContent, found := detectContentDir(".")
	if found {
		fmt.Printf("Found %s in %s\n\n", content.SiteFile, defaultContent)
	}
	contentPrompt := promptui.Prompt{
		Label:   "Content directory (holds site.yaml and pages/)",
		Default: defaultContent,
	}
	var err error
	if a.ContentDir, err = contentPrompt.Run(); err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}

	// 2. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the generated site",
		Default: "public",
	}
	if a.OutputDir, err = outputPrompt.Run(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 3. Progress backend.
	backendPrompt := promptui.Select{
		Label: "Where should the CLI keep reading progress",
		Items: []string{
			"file   : JSON file in .thesisweb/",
			"sqlite : SQLite database in .thesisweb/",
			"memory : not persisted",
		},
	}
	idx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	a.Backend = []storage.Backend{storage.BackendFile, storage.BackendSQLite, storage.BackendMemory}[idx]

	// 4. Preview port.
	portPrompt := promptui.Prompt{
		Label:   "Preview server port",
		Default: "8080",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	a.Port, _ = strconv.Atoi(portStr)

	// 5. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra page exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	if a.ExtraExcludes, err = excludePrompt.Run(); err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	cfg := FromAnswers(a)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !found {
		fmt.Printf("\nNote: create %s before running thesisweb build.\n",
			filepath.Join(cfg.ContentDir, content.SiteFile))
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
