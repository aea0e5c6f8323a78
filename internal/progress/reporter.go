// Package progress reports site build progress on the terminal or in CI
// logs.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives one Start, an Update per rendered page and one Finish
// for every build.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter picks line output when CI or GITHUB_ACTIONS is set and a
// progress bar on stderr otherwise.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{Out: os.Stderr}
}

// Nop discards all progress. Watch-mode rebuilds use it.
type Nop struct{}

func (Nop) Start(int)          {}
func (Nop) Update(int, string) {}
func (Nop) Finish()            {}

// TerminalReporter draws a page counter bar that is cleared when the build
// finishes.
type TerminalReporter struct {
	Out io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	out := r.Out
	if out == nil {
		out = os.Stderr
	}
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Rendering pages"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, page string) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(page)
	_ = r.bar.Set(current)
}

func (r *TerminalReporter) Finish() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
}

// CIReporter writes one line per page, for logs without a terminal.
type CIReporter struct {
	Out io.Writer

	total int
	start time.Time
	now   func() time.Time
}

func (r *CIReporter) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *CIReporter) Start(total int) {
	r.total = total
	r.start = r.clock()
	fmt.Fprintf(r.Out, "Building %d pages\n", total)
}

func (r *CIReporter) Update(current int, page string) {
	fmt.Fprintf(r.Out, "[%d/%d] %s\n", current, r.total, page)
}

func (r *CIReporter) Finish() {
	elapsed := r.clock().Sub(r.start).Round(time.Millisecond)
	fmt.Fprintf(r.Out, "Site build complete (%d pages in %s)\n", r.total, elapsed)
}
