package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mrryf/thesisweb/internal/config"
	"github.com/mrryf/thesisweb/internal/content"
	"github.com/mrryf/thesisweb/internal/db"
	"github.com/mrryf/thesisweb/internal/history"
	"github.com/mrryf/thesisweb/internal/progress"
	"github.com/mrryf/thesisweb/internal/reading"
	"github.com/mrryf/thesisweb/internal/site"
	"github.com/mrryf/thesisweb/internal/storage"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `thesisweb init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// loadContent reads the configured content directory.
func loadContent(cfg *config.Config) (*content.Content, error) {
	if _, err := os.Stat(filepath.Join(cfg.ContentDir, content.SiteFile)); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s not found in %s\nSet content_dir in %s or run `thesisweb init`",
			content.SiteFile, cfg.ContentDir, cfgFile)
	}
	c, err := content.Load(cfg.ContentDir, content.LoadOptions{
		Pages:   cfg.Pages,
		Exclude: cfg.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	return c, nil
}

// buildOptions carries per-invocation overrides of the configured build.
type buildOptions struct {
	archive    string
	liveReload string
	quiet      bool
}

// buildSite loads the content and generates the site into cfg.OutputDir.
func buildSite(cfg *config.Config, opts buildOptions) (*content.Content, *site.Result, error) {
	start := time.Now()
	c, err := loadContent(cfg)
	if err != nil {
		return nil, nil, err
	}

	issues := content.Check(c)
	if verbose {
		for _, issue := range issues {
			fmt.Fprintln(os.Stderr, issue)
		}
	}
	if content.HasErrors(issues) {
		return nil, nil, fmt.Errorf("content has errors; run `thesisweb check` for details")
	}

	var reporter progress.Reporter = progress.Nop{}
	if !opts.quiet {
		reporter = progress.NewReporter()
	}

	archive := opts.archive
	if archive == "" {
		archive = cfg.Archive
	}
	gen := site.NewGenerator(c, site.Options{
		OutputDir:      cfg.OutputDir,
		WordsPerMinute: cfg.WordsPerMinute,
		ReferencesPage: cfg.ReferencesPage,
		LiveReload:     opts.liveReload,
		ArchivePath:    archive,
		Reporter:       reporter,
	})
	res, err := gen.Generate()
	if err != nil {
		return nil, nil, fmt.Errorf("generating site: %w", err)
	}

	recordBuild(cfg, c, res, time.Since(start))
	return c, res, nil
}

// recordBuild appends the build to the history log. Failures are logged,
// the build itself already succeeded.
func recordBuild(cfg *config.Config, c *content.Content, res *site.Result, elapsed time.Duration) {
	if cfg.History == "" {
		return
	}
	store, closeFn, err := openHistory(cfg)
	if err != nil {
		log.Printf("build history: %v", err)
		return
	}
	defer closeFn()

	_, err = store.Record(context.Background(), history.Build{
		ID:            res.Manifest.BuildID,
		Timestamp:     res.Manifest.GeneratedAt,
		Fingerprint:   c.Fingerprint,
		OutputDir:     cfg.OutputDir,
		Pages:         res.Pages,
		Words:         c.TotalWordCount(),
		GlossaryTerms: res.Manifest.GlossaryTerms,
		Markers:       res.Markers,
		Cited:         res.Cited,
		Duration:      elapsed,
		Archive:       res.ArchivePath,
	})
	if err != nil {
		log.Printf("build history: %v", err)
	}
}

// openHistory opens the build log database.
func openHistory(cfg *config.Config) (*history.Store, func() error, error) {
	if cfg.History == "" {
		return nil, nil, fmt.Errorf("build history is disabled (history is empty in %s)", cfgFile)
	}
	database, err := db.Open(cfg.History)
	if err != nil {
		return nil, nil, fmt.Errorf("opening build history: %w", err)
	}
	return history.NewStore(database), database.Close, nil
}

// printBuildSummary reports the outcome of a build on stdout.
func printBuildSummary(cfg *config.Config, c *content.Content, res *site.Result) {
	fmt.Printf("Site generated: %s (%d pages, %d words)\n", cfg.OutputDir, res.Pages, c.TotalWordCount())
	fmt.Printf("  Glossary markers: %d\n", res.Markers)
	fmt.Printf("  References cited: %d of %d\n", len(res.Cited), len(c.References))
	if res.ArchivePath != "" {
		fmt.Printf("  Archive: %s\n", res.ArchivePath)
	}
}

// openProgress opens the configured progress backend. The caller closes
// the returned store.
func openProgress(cfg *config.Config) (storage.Store, *reading.Store, error) {
	kv, err := storage.Open(cfg.Progress.Backend, cfg.Progress.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening progress store: %w", err)
	}
	return kv, reading.NewStore(kv), nil
}
