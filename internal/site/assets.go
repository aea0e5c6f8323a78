package site

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/mrryf/thesisweb/internal/content"
	"github.com/mrryf/thesisweb/internal/walker"
)

// fingerprintLen is how many hex digits of the content hash go into asset
// file names.
const fingerprintLen = 12

// Assets names the fingerprinted stylesheet and script of a build.
type Assets struct {
	Style  string
	Script string
}

// StyleSheet returns the site CSS including the code highlighting rules.
func StyleSheet() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(cssContent)
	buf.WriteString("\n/* syntax highlighting */\n")
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(content.HighlightStyle)); err != nil {
		return nil, fmt.Errorf("writing highlight css: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteAssets writes style.<hash>.css and script.<hash>.js to dir. The
// names change whenever the content does, so browsers never serve a stale
// copy.
func WriteAssets(dir string) (Assets, error) {
	css, err := StyleSheet()
	if err != nil {
		return Assets{}, err
	}
	js := []byte(jsContent)

	a := Assets{
		Style:  fingerprinted("style", ".css", css),
		Script: fingerprinted("script", ".js", js),
	}
	if err := os.WriteFile(filepath.Join(dir, a.Style), css, 0o644); err != nil {
		return Assets{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, a.Script), js, 0o644); err != nil {
		return Assets{}, err
	}
	return a, nil
}

func fingerprinted(name, ext string, data []byte) string {
	return name + "." + walker.HashBytes(data)[:fingerprintLen] + ext
}
