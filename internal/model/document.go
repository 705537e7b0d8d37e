package model

import (
	"path/filepath"
	"strings"
)

// Format identifies the syntax of an input document.
// It selects which extractor variant scans the document for links.
type Format string

// Supported document formats.
const (
	// FormatMarkdown covers CommonMark-style documents (.md, .markdown).
	FormatMarkdown Format = "markdown"

	// FormatHTML covers HTML documents (.html, .htm).
	FormatHTML Format = "html"

	// FormatPlaintext is the fallback for any other content.
	// Links are found by pattern matching on bare URLs and mail addresses.
	FormatPlaintext Format = "plaintext"
)

// FormatFromPath infers the document format from a file extension.
// Unknown extensions fall back to FormatPlaintext so that any readable
// file can still be scanned.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return FormatMarkdown
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	default:
		return FormatPlaintext
	}
}

// FormatFromContentType infers the document format from an HTTP
// Content-Type header value. Used for documents fetched from a URL,
// where no file extension is available.
func FormatFromContentType(contentType string) Format {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "text/html"), strings.Contains(ct, "application/xhtml"):
		return FormatHTML
	case strings.Contains(ct, "text/markdown"):
		return FormatMarkdown
	default:
		return FormatPlaintext
	}
}

// Document is one input whose links are extracted and checked.
// It is immutable once read; the extractor borrows Content but never
// modifies it.
type Document struct {
	// ID identifies the document in reports. It is the file path as given
	// on the command line, or the URL for remote documents.
	ID string `json:"id"`

	// Content is the raw document bytes.
	Content []byte `json:"-"`

	// Base is the reference against which relative links are resolved.
	// For local files this is the file's own path; for remote documents
	// it is the document URL.
	Base string `json:"base"`

	// Format selects the extractor variant.
	Format Format `json:"format"`

	// Remote is true when the document was fetched from a URL rather than
	// read from disk. Relative links in remote documents resolve to web
	// targets, not file paths.
	Remote bool `json:"remote"`
}
