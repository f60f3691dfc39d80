package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/tgschema/internal/doctree"
)

// Format is the markup language of a source document.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// SupportedExtensions lists file extensions this tool can read.
var SupportedExtensions = map[string]Format{
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
}

// ForFile returns the source format for a filename.
func ForFile(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := SupportedExtensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unsupported file extension: %s", ext)
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, ok := SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// ParseFormat accepts html, markdown or md. Empty means HTML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "html", "htm":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported source format: %s", s)
}

// Load reads a source document and returns its top-level content nodes.
func Load(r io.Reader, f Format) ([]doctree.Node, error) {
	switch f {
	case FormatHTML, "":
		return LoadHTML(r)
	case FormatMarkdown:
		return LoadMarkdown(r)
	}
	return nil, fmt.Errorf("unsupported source format: %s", f)
}
