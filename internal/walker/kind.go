package walker

import (
	"path/filepath"
	"strings"
)

// Kind classifies a content file.
type Kind string

const (
	KindYAML     Kind = "yaml"
	KindJSON     Kind = "json"
	KindMarkdown Kind = "markdown"
	KindImage    Kind = "image"
	KindDocument Kind = "document"
	KindOther    Kind = "other"
)

var extensionToKind = map[string]Kind{
	".yaml": KindYAML,
	".yml":  KindYAML,
	".json": KindJSON,
	".md":   KindMarkdown,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".svg":  KindImage,
	".webp": KindImage,
	".pdf":  KindDocument,
	".docx": KindDocument,
	".bib":  KindDocument,
}

// DetectKind returns the content kind for a file name.
func DetectKind(name string) Kind {
	if k, ok := extensionToKind[strings.ToLower(filepath.Ext(name))]; ok {
		return k
	}
	return KindOther
}
