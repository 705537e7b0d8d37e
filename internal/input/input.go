package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/linkscout/linkscout/internal/model"
)

// Sentinel errors for input gathering.
var (
	// ErrNoDocuments means no input produced any document.
	ErrNoDocuments = errors.New("input: no documents matched any input")

	// ErrFetchFailed means a remote document could not be retrieved.
	ErrFetchFailed = errors.New("input: failed to fetch remote document")
)

// Gatherer reads local files and fetches remote documents.
type Gatherer struct {
	// client fetches remote documents.
	client *http.Client

	// maxBody bounds how much of a document body is read.
	maxBody int64

	// logger is used for gather-level logging.
	logger *slog.Logger

	// stdin is the reader behind the "-" input.
	stdin io.Reader
}

// Option configures a Gatherer.
type Option func(*Gatherer)

// WithClient sets the HTTP client used for remote documents.
func WithClient(client *http.Client) Option {
	return func(g *Gatherer) {
		g.client = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gatherer) {
		g.logger = logger
	}
}

// WithMaxBodySize bounds the bytes read per document.
func WithMaxBodySize(n int64) Option {
	return func(g *Gatherer) {
		if n > 0 {
			g.maxBody = n
		}
	}
}

// WithStdin replaces the reader behind the "-" input.
func WithStdin(r io.Reader) Option {
	return func(g *Gatherer) {
		g.stdin = r
	}
}

// New creates a Gatherer. Default body limit is 5 MiB.
func New(opts ...Option) *Gatherer {
	g := &Gatherer{
		client:  http.DefaultClient,
		maxBody: 5 * 1024 * 1024,
		stdin:   os.Stdin,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// Gather resolves every input into documents. Inputs may be file
// paths, glob patterns, directories, http(s) URLs, or "-" for stdin.
// Duplicate paths across inputs are read once.
func (g *Gatherer) Gather(ctx context.Context, inputs []string) ([]*model.Document, error) {
	var docs []*model.Document
	seen := make(map[string]bool)

	for _, in := range inputs {
		switch {
		case in == "-":
			doc, err := g.readStdin()
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)

		case strings.HasPrefix(in, "http://"), strings.HasPrefix(in, "https://"):
			doc, err := g.fetch(ctx, in)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)

		default:
			paths, err := g.expand(in)
			if err != nil {
				return nil, err
			}
			for _, path := range paths {
				if seen[path] {
					continue
				}
				seen[path] = true

				doc, err := readFile(path)
				if err != nil {
					return nil, err
				}
				docs = append(docs, doc)
			}
		}
	}

	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	g.logger.Debug("gathered documents", "count", len(docs))

	return docs, nil
}

// readStdin reads the "-" input. Stdin has no extension or content
// type, so links are found by plain pattern matching.
func (g *Gatherer) readStdin() (*model.Document, error) {
	content, err := io.ReadAll(io.LimitReader(g.stdin, g.maxBody))
	if err != nil {
		return nil, fmt.Errorf("input: failed to read stdin: %w", err)
	}
	return &model.Document{
		ID:      "stdin",
		Content: content,
		Format:  model.FormatPlaintext,
	}, nil
}

// fetch retrieves a remote document. The format comes from the
// Content-Type header; relative links inside the document will resolve
// against the document URL.
func (g *Gatherer) fetch(ctx context.Context, rawURL string) (*model.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, rawURL, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, rawURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on a drained body

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetchFailed, rawURL, resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, rawURL, err)
	}

	return &model.Document{
		ID:      rawURL,
		Content: content,
		Base:    rawURL,
		Format:  model.FormatFromContentType(resp.Header.Get("Content-Type")),
		Remote:  true,
	}, nil
}

// expand turns one local input into file paths: glob patterns expand
// to their matches, directories walk recursively to scannable files,
// plain paths pass through. An input that matches nothing is an error
// rather than a silent no-op.
func (g *Gatherer) expand(in string) ([]string, error) {
	matches, err := filepath.Glob(in)
	if err != nil {
		return nil, fmt.Errorf("input: bad glob pattern %q: %w", in, err)
	}
	if len(matches) == 0 {
		if _, statErr := os.Stat(in); statErr != nil {
			return nil, fmt.Errorf("input: %w", statErr)
		}
		matches = []string{in}
	}

	var paths []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		if !info.IsDir() {
			paths = append(paths, m)
			continue
		}

		walked, err := walkDir(m)
		if err != nil {
			return nil, err
		}
		paths = append(paths, walked...)
	}

	return paths, nil
}

// walkDir collects the scannable files under root. Hidden directories
// are skipped so that .git and friends never contribute documents.
func walkDir(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if scannable(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("input: failed to walk %s: %w", root, err)
	}

	return paths, nil
}

// scannable reports whether a walked file is worth extracting links
// from. Explicitly named files bypass this filter.
func scannable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mkd", ".html", ".htm", ".xhtml", ".txt":
		return true
	default:
		return false
	}
}

// readFile loads one local document. The ID and base are the path as
// matched, so resolved relative links stay relative to the document.
func readFile(path string) (*model.Document, error) {
	content, err := os.ReadFile(path) //nolint:gosec // Paths come straight from user input
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	return &model.Document{
		ID:      path,
		Content: content,
		Base:    path,
		Format:  model.FormatFromPath(path),
	}, nil
}
