package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := &CIReporter{Out: &buf, now: func() time.Time { return at }}
	r.Start(2)
	r.Update(1, "theorie")
	r.Update(2, "methodik")
	at = at.Add(1250 * time.Millisecond)
	r.Finish()

	want := "Building 2 pages\n[1/2] theorie\n[2/2] methodik\nSite build complete (2 pages in 1.25s)\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTerminalReporterWritesToOut(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{Out: &buf}
	r.Start(3)
	r.Update(1, "vorstudie")
	r.Finish()

	if !strings.Contains(buf.String(), "vorstudie") {
		t.Errorf("expected page name in bar output, got %q", buf.String())
	}
	// Finish resets the bar, further updates are ignored.
	r.Update(2, "forschung")
	r.Finish()
}

func TestNopReporter(t *testing.T) {
	var r Reporter = Nop{}
	r.Start(1)
	r.Update(1, "x")
	r.Finish()
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestNewReporterInTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter().(*TerminalReporter); !ok {
		t.Error("expected TerminalReporter outside CI")
	}
}
