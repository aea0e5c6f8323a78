package walker

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/blake3"
)

// DefaultMaxFileSize is the largest content file Walk will hash (64 MB).
const DefaultMaxFileSize int64 = 64 << 20

// FileInfo holds metadata about a single content file.
type FileInfo struct {
	Path        string // Absolute path on disk.
	RelPath     string // Slash-separated path relative to the root.
	Size        int64  // File size in bytes.
	Kind        Kind   // Content kind derived from the extension.
	ContentHash string // BLAKE3 hex digest of the file content.
}

// WalkerConfig controls the behaviour of the Walk function.
type WalkerConfig struct {
	RootDir     string   // Root directory to walk.
	Include     []string // Glob patterns; only matching files are included.
	Exclude     []string // Glob patterns; matching files are excluded.
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
}

// Walk traverses the content directory rooted at config.RootDir and returns
// metadata for every file that passes filtering, sorted by RelPath.
func Walk(config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && shouldExcludeDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || isHidden(name) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if !MatchesInclude(relPath, config.Include) || MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}

		hash, err := HashFile(path)
		if err != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:        path,
			RelPath:     filepath.ToSlash(relPath),
			Size:        info.Size(),
			Kind:        DetectKind(name),
			ContentHash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// HashFile computes the BLAKE3 digest of the given file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes returns the BLAKE3 hex digest of data.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprint combines the per-file hashes into one digest of the whole
// content tree. It changes when any file is added, removed, renamed or
// edited.
func Fingerprint(files []FileInfo) string {
	sorted := make([]FileInfo, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RelPath < sorted[j].RelPath })

	h := blake3.New()
	for _, f := range sorted {
		fmt.Fprintf(h, "%s\x00%s\n", f.RelPath, f.ContentHash)
	}
	return hex.EncodeToString(h.Sum(nil))
}
