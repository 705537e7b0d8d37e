package input

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/linkscout/linkscout/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGatherLocal(t *testing.T) {
	t.Parallel()

	t.Run("single file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFile(t, dir, "readme.md", "# Hello\n")

		docs, err := New().Gather(context.Background(), []string{path})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(docs) != 1 {
			t.Fatalf("expected 1 document, got %d", len(docs))
		}
		doc := docs[0]
		if doc.ID != path || doc.Base != path {
			t.Errorf("expected ID and Base %q, got %q / %q", path, doc.ID, doc.Base)
		}
		if doc.Format != model.FormatMarkdown {
			t.Errorf("expected markdown format, got %s", doc.Format)
		}
		if doc.Remote {
			t.Error("local document must not be remote")
		}
	})

	t.Run("glob pattern", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "a.md", "a")
		writeFile(t, dir, "b.md", "b")
		writeFile(t, dir, "c.txt", "c")

		docs, err := New().Gather(context.Background(), []string{filepath.Join(dir, "*.md")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(docs) != 2 {
			t.Errorf("expected 2 documents, got %d", len(docs))
		}
	})

	t.Run("directory walks recursively and skips hidden", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "index.html", "<a href=x>x</a>")
		writeFile(t, dir, "docs/guide.md", "# Guide")
		writeFile(t, dir, "docs/notes.txt", "notes")
		writeFile(t, dir, ".git/config.md", "not scanned")
		writeFile(t, dir, "image.png", "binary")

		docs, err := New().Gather(context.Background(), []string{dir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(docs) != 3 {
			ids := make([]string, 0, len(docs))
			for _, d := range docs {
				ids = append(ids, d.ID)
			}
			t.Errorf("expected 3 documents, got %v", ids)
		}
	})

	t.Run("duplicate inputs read once", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFile(t, dir, "a.md", "a")

		docs, err := New().Gather(context.Background(), []string{path, path, filepath.Join(dir, "*.md")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(docs) != 1 {
			t.Errorf("expected 1 document, got %d", len(docs))
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		_, err := New().Gather(context.Background(), []string{filepath.Join(t.TempDir(), "nope.md")})
		if err == nil {
			t.Fatal("expected an error for a missing input")
		}
	})

	t.Run("no documents at all", func(t *testing.T) {
		t.Parallel()
		_, err := New().Gather(context.Background(), nil)
		if err == nil || !strings.Contains(err.Error(), "no documents") {
			t.Errorf("expected ErrNoDocuments, got %v", err)
		}
	})
}

func TestGatherRemote(t *testing.T) {
	t.Parallel()

	t.Run("fetches and infers format from content type", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if _, err := w.Write([]byte(`<a href="/x">x</a>`)); err != nil {
				t.Error(err)
			}
		}))
		defer srv.Close()

		docs, err := New(WithClient(srv.Client())).Gather(context.Background(), []string{srv.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		doc := docs[0]
		if doc.Format != model.FormatHTML {
			t.Errorf("expected html format, got %s", doc.Format)
		}
		if !doc.Remote || doc.Base != srv.URL {
			t.Errorf("expected remote document based at %s, got %+v", srv.URL, doc)
		}
	})

	t.Run("non-2xx fetch is an error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := New(WithClient(srv.Client())).Gather(context.Background(), []string{srv.URL})
		if err == nil {
			t.Fatal("expected an error for a 404 document")
		}
	})

	t.Run("body read respects the size cap", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(strings.Repeat("x", 1024))); err != nil {
				t.Error(err)
			}
		}))
		defer srv.Close()

		docs, err := New(WithClient(srv.Client()), WithMaxBodySize(16)).Gather(context.Background(), []string{srv.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(docs[0].Content) != 16 {
			t.Errorf("expected 16 bytes, got %d", len(docs[0].Content))
		}
	})
}

func TestGatherStdin(t *testing.T) {
	t.Parallel()

	docs, err := New(WithStdin(strings.NewReader("see https://example.com\n"))).
		Gather(context.Background(), []string{"-"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := docs[0]
	if doc.ID != "stdin" {
		t.Errorf("expected ID stdin, got %s", doc.ID)
	}
	if doc.Format != model.FormatPlaintext {
		t.Errorf("expected plaintext format, got %s", doc.Format)
	}
	if !strings.Contains(string(doc.Content), "example.com") {
		t.Error("stdin content not captured")
	}
}
