package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrryf/thesisweb/internal/config"
	"github.com/mrryf/thesisweb/internal/server"
	"github.com/mrryf/thesisweb/internal/site"
	"github.com/mrryf/thesisweb/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and start the preview server",
	Long: `Builds the site, then serves it over HTTP together with a small lookup API
(search, glossary, citations). With --watch, changes in the content
directory trigger a rebuild and open pages reload automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}
		watchFlag, _ := cmd.Flags().GetBool("watch")
		return runPreview(cmd.Context(), cfg, previewOptions{watch: watchFlag})
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port for the preview server (defaults to server.port)")
	serveCmd.Flags().BoolP("watch", "w", false, "rebuild and reload pages when content changes")
	rootCmd.AddCommand(serveCmd)
}

type previewOptions struct {
	archive string
	watch   bool
}

// runPreview builds once, serves the output and optionally rebuilds on
// content changes until interrupted.
func runPreview(parent context.Context, cfg *config.Config, opts previewOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	bopts := buildOptions{archive: opts.archive}
	if opts.watch {
		bopts.liveReload = server.ReloadPath
	}

	c, res, err := buildSite(cfg, bopts)
	if err != nil {
		return err
	}
	printBuildSummary(cfg, c, res)

	idx := site.NewIndex()
	idx.Update(c, res.Search)

	srv := server.New(server.Config{
		Port:     cfg.Server.Port,
		SiteDir:  cfg.OutputDir,
		AllowAll: cfg.Server.AllowAllOrigins,
	}, idx)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.watch {
		w, err := watch.New(cfg.ContentDir,
			watch.WithDelay(time.Duration(cfg.Server.WatchDelayMS)*time.Millisecond),
			watch.WithIgnore(outputIgnore(cfg)...),
			watch.WithVerbose(verbose),
		)
		if err != nil {
			return err
		}
		defer w.Close()

		bopts.quiet = true
		go func() {
			err := w.Run(ctx, func(path string) {
				c, res, err := buildSite(cfg, bopts)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
					return
				}
				idx.Update(c, res.Search)
				n := srv.Hub().Broadcast()
				fmt.Fprintf(os.Stderr, "Rebuilt %d pages after change to %s (reloaded %d tabs)\n", res.Pages, path, n)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				fmt.Fprintf(os.Stderr, "Watcher stopped: %v\n", err)
			}
		}()
		fmt.Fprintf(os.Stderr, "Watching %s for changes\n", cfg.ContentDir)
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Serving %s at http://localhost:%d, press Ctrl+C to stop\n", cfg.OutputDir, cfg.Server.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving site: %w", err)
	}
	return nil
}

// outputIgnore keeps the watcher away from the output directory when it
// lives inside the content directory.
func outputIgnore(cfg *config.Config) []string {
	rel, err := filepath.Rel(cfg.ContentDir, cfg.OutputDir)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return nil
	}
	return []string{rel, rel + "/**"}
}
