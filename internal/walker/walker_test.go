package walker

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// testdataDir returns the absolute path to the testdata/thesis directory.
func testdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	root := filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "thesis")
	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("resolve testdata path: %v", err)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		t.Fatalf("testdata dir does not exist: %s", abs)
	}
	return abs
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalk_Testdata(t *testing.T) {
	files, err := Walk(WalkerConfig{RootDir: testdataDir(t)})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	want := map[string]Kind{
		"site.yaml":             KindYAML,
		"glossary.yaml":         KindYAML,
		"references.json":       KindJSON,
		"pages/einleitung.yaml": KindYAML,
	}
	for _, f := range files {
		if k, ok := want[f.RelPath]; ok {
			if f.Kind != k {
				t.Errorf("%s kind = %s, want %s", f.RelPath, f.Kind, k)
			}
			delete(want, f.RelPath)
		}
		if len(f.ContentHash) != 64 {
			t.Errorf("ContentHash for %s has length %d, want 64", f.RelPath, len(f.ContentHash))
		}
	}
	for name := range want {
		t.Errorf("expected file %q not found in walk results", name)
	}
}

func TestWalk_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pages/b.yaml", "title: B")
	writeFile(t, dir, "pages/a.yaml", "title: A")
	writeFile(t, dir, "pages/drafts/c.yaml", "title: C")
	writeFile(t, dir, "notes.txt", "x")
	writeFile(t, dir, ".DS_Store", "x")
	writeFile(t, dir, "node_modules/pkg/index.yaml", "x")

	files, err := Walk(WalkerConfig{
		RootDir: dir,
		Include: []string{"pages/**/*.yaml"},
		Exclude: []string{"**/drafts/**"},
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	var got []string
	for _, f := range files {
		got = append(got, f.RelPath)
	}
	if strings.Join(got, ",") != "pages/a.yaml,pages/b.yaml" {
		t.Errorf("Walk() = %v", got)
	}
}

func TestWalk_SkipsLargeFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.md", "small")
	writeFile(t, dir, "thesis.pdf", strings.Repeat("A", 200))

	files, err := Walk(WalkerConfig{RootDir: dir, MaxFileSize: 100})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "small.md" {
		t.Errorf("expected only small.md, got %+v", files)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	if _, err := Walk(WalkerConfig{RootDir: filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Error("Walk() on missing root should fail")
	}
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "one")
	writeFile(t, dir, "b.yaml", "two")

	walk := func() string {
		files, err := Walk(WalkerConfig{RootDir: dir})
		if err != nil {
			t.Fatal(err)
		}
		return Fingerprint(files)
	}

	first := walk()
	if first != walk() {
		t.Error("Fingerprint is not stable")
	}

	writeFile(t, dir, "b.yaml", "changed")
	if walk() == first {
		t.Error("Fingerprint did not change after an edit")
	}
}

func TestHashBytesMatchesHashFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.md", "hallo")
	h, err := HashFile(filepath.Join(dir, "x.md"))
	if err != nil {
		t.Fatal(err)
	}
	if h != HashBytes([]byte("hallo")) {
		t.Error("HashFile and HashBytes disagree")
	}
}

func TestMatchesIncludeExclude(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"pages/a.yaml", []string{"pages/**/*.yaml"}, true},
		{"pages/x/a.yaml", []string{"pages/**/*.yaml"}, true},
		{"site.yaml", []string{"pages/**/*.yaml"}, false},
		{"deep/dir/draft.md", []string{"draft.md"}, true},
		{"a.yaml", nil, true},
	}
	for _, tt := range tests {
		if got := MatchesInclude(tt.path, tt.patterns); got != tt.want {
			t.Errorf("MatchesInclude(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
	if MatchesExclude("a.yaml", nil) {
		t.Error("MatchesExclude with no patterns should be false")
	}
}

func TestDetectKind(t *testing.T) {
	tests := map[string]Kind{
		"site.yml":   KindYAML,
		"refs.JSON":  KindJSON,
		"fig1.png":   KindImage,
		"thesis.pdf": KindDocument,
		"chapter.md": KindMarkdown,
		"Makefile":   KindOther,
	}
	for name, want := range tests {
		if got := DetectKind(name); got != want {
			t.Errorf("DetectKind(%q) = %s, want %s", name, got, want)
		}
	}
}
