// Package watch observes a content directory and triggers rebuilds.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mrryf/thesisweb/internal/throttle"
	"github.com/mrryf/thesisweb/internal/walker"
)

// DefaultDelay is the minimum time between two rebuilds.
const DefaultDelay = 300 * time.Millisecond

// Watcher reports changes below a directory tree. Bursts of events, such
// as an editor saving several files, collapse into at most one immediate
// and one trailing notification per delay window.
type Watcher struct {
	root    string
	delay   time.Duration
	ignore  []string
	fsw     *fsnotify.Watcher
	verbose bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the throttle window.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithIgnore skips paths matching any of the doublestar patterns,
// relative to the watched root.
func WithIgnore(patterns ...string) Option {
	return func(w *Watcher) { w.ignore = append(w.ignore, patterns...) }
}

// WithVerbose logs every relevant event.
func WithVerbose(v bool) Option {
	return func(w *Watcher) { w.verbose = v }
}

// New starts watching root and every directory below it.
func New(root string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}
	if info, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", root)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	w := &Watcher{root: abs, delay: DefaultDelay, fsw: fsw}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.addTree(abs); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Dirs returns the directories currently watched.
func (w *Watcher) Dirs() []string {
	return w.fsw.WatchList()
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls onChange with the changed path until ctx is done or the
// watcher is closed. Calls to onChange are serialized.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	var mu sync.Mutex
	th := throttle.New(func(path string) {
		mu.Lock()
		defer mu.Unlock()
		onChange(path)
	}, w.delay)
	defer th.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						log.Printf("watch: %v", err)
					}
				}
			}
			if w.verbose {
				log.Printf("watch: %s %s", ev.Op, w.rel(ev.Name))
			}
			th.Call(ev.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if walker.SkipDir(filepath.Base(ev.Name)) {
		return false
	}
	return !walker.MatchesExclude(w.rel(ev.Name), w.ignore)
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && walker.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if walker.MatchesExclude(w.rel(path), w.ignore) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}
