package site

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// Archive packs every file under dir into a tar.xz at archivePath. Paths
// in the archive are relative to dir.
func Archive(dir, archivePath string) error {
	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return err
	}

	file, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer file.Close()

	xw, err := xz.NewWriter(file)
	if err != nil {
		return fmt.Errorf("creating xz writer: %w", err)
	}
	tw := tar.NewWriter(xw)

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == absArchive {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return addToTar(tw, path, filepath.ToSlash(rel), info)
	})
	if err != nil {
		return fmt.Errorf("writing archive entries: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing tar writer: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("closing xz writer: %w", err)
	}
	return file.Close()
}

func addToTar(tw *tar.Writer, path, name string, info os.FileInfo) error {
	header := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}

// ArchiveEntries lists the file names inside a tar.xz written by Archive.
func ArchiveEntries(archivePath string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("opening xz stream: %w", err)
	}
	tr := tar.NewReader(xr)

	var names []string
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive: %w", err)
		}
		names = append(names, h.Name)
	}
	return names, nil
}
