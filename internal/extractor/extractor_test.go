package extractor

import (
	"testing"

	"github.com/linkscout/linkscout/internal/model"
)

// doc builds a test document with the given format and content.
func doc(format model.Format, content string) *model.Document {
	return &model.Document{
		ID:      "test-doc",
		Content: []byte(content),
		Base:    "test-doc",
		Format:  format,
	}
}

// texts collects the link texts in emitted order.
func texts(links []model.RawLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Text
	}
	return out
}

// TestForFormat verifies extractor variant selection.
func TestForFormat(t *testing.T) {
	t.Parallel()

	if _, ok := ForFormat(model.FormatMarkdown).(*Markdown); !ok {
		t.Error("expected Markdown extractor for markdown format")
	}
	if _, ok := ForFormat(model.FormatHTML).(*HTML); !ok {
		t.Error("expected HTML extractor for html format")
	}
	if _, ok := ForFormat(model.FormatPlaintext).(*Plaintext); !ok {
		t.Error("expected Plaintext extractor for plaintext format")
	}
	if _, ok := ForFormat(model.Format("unknown")).(*Plaintext); !ok {
		t.Error("expected Plaintext extractor for unknown format")
	}
}

// TestMarkdownExtract covers the recognized Markdown link syntaxes.
func TestMarkdownExtract(t *testing.T) {
	t.Parallel()

	t.Run("inline link", func(t *testing.T) {
		t.Parallel()
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, "see [docs](https://example.com/docs) here"))
		if len(links) != 1 {
			t.Fatalf("expected 1 link, got %d: %v", len(links), texts(links))
		}
		if links[0].Text != "https://example.com/docs" {
			t.Errorf("unexpected text: %s", links[0].Text)
		}
		if links[0].Kind != model.KindMarkdownLink {
			t.Errorf("unexpected kind: %s", links[0].Kind)
		}
	})

	t.Run("image source", func(t *testing.T) {
		t.Parallel()
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, "![logo](images/logo.png)"))
		if len(links) != 1 {
			t.Fatalf("expected 1 link, got %d", len(links))
		}
		if links[0].Kind != model.KindMarkdownImage {
			t.Errorf("expected image kind, got %s", links[0].Kind)
		}
		if links[0].Text != "images/logo.png" {
			t.Errorf("unexpected text: %s", links[0].Text)
		}
	})

	t.Run("reference definition", func(t *testing.T) {
		t.Parallel()
		content := "See [spec][1].\n\n[1]: https://example.com/spec\n"
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, content))
		if len(links) != 1 {
			t.Fatalf("expected 1 link, got %d: %v", len(links), texts(links))
		}
		if links[0].Text != "https://example.com/spec" {
			t.Errorf("unexpected text: %s", links[0].Text)
		}
		if links[0].Line != 3 {
			t.Errorf("expected line 3, got %d", links[0].Line)
		}
	})

	t.Run("autolink", func(t *testing.T) {
		t.Parallel()
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, "visit <https://example.com> today"))
		if len(links) != 1 {
			t.Fatalf("expected 1 link, got %d", len(links))
		}
		if links[0].Kind != model.KindAutolink {
			t.Errorf("expected autolink kind, got %s", links[0].Kind)
		}
	})

	t.Run("bare url in prose", func(t *testing.T) {
		t.Parallel()
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, "go to https://example.com/page."))
		if len(links) != 1 {
			t.Fatalf("expected 1 link, got %d", len(links))
		}
		// Trailing period must be trimmed
		if links[0].Text != "https://example.com/page" {
			t.Errorf("unexpected text: %s", links[0].Text)
		}
	})

	t.Run("fenced code block is ignored", func(t *testing.T) {
		t.Parallel()
		content := "```\nhttps://example.com/in-code\n```\n[real](https://example.com/real)\n"
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, content))
		if len(links) != 1 {
			t.Fatalf("expected 1 link, got %d: %v", len(links), texts(links))
		}
		if links[0].Text != "https://example.com/real" {
			t.Errorf("unexpected text: %s", links[0].Text)
		}
	})

	t.Run("indented code block is ignored", func(t *testing.T) {
		t.Parallel()
		content := "Some prose.\n\n    https://example.com/in-code\n    more code\n\n[real](https://example.com/real)\n"
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, content))
		if len(links) != 1 {
			t.Fatalf("expected 1 link, got %d: %v", len(links), texts(links))
		}
		if links[0].Text != "https://example.com/real" {
			t.Errorf("unexpected text: %s", links[0].Text)
		}
	})

	t.Run("indented list continuation is not code", func(t *testing.T) {
		t.Parallel()
		content := "- item with a long body\n    [docs](https://example.com/docs)\n"
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, content))
		if len(links) != 1 {
			t.Fatalf("expected 1 link, got %d: %v", len(links), texts(links))
		}
	})

	t.Run("inline code span is ignored", func(t *testing.T) {
		t.Parallel()
		content := "use `https://example.com/in-code` not that"
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, content))
		if len(links) != 0 {
			t.Errorf("expected no links, got %v", texts(links))
		}
	})

	t.Run("duplicates are each emitted", func(t *testing.T) {
		t.Parallel()
		content := "[a](https://example.com) and [b](https://example.com)"
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, content))
		if len(links) != 2 {
			t.Fatalf("expected 2 links, got %d", len(links))
		}
		if links[0].Offset == links[1].Offset {
			t.Error("expected distinct offsets for duplicates")
		}
	})

	t.Run("indices follow source order", func(t *testing.T) {
		t.Parallel()
		content := "[a](https://a.test) then [b](https://b.test) then [c](https://c.test)"
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, content))
		if len(links) != 3 {
			t.Fatalf("expected 3 links, got %d", len(links))
		}
		want := []string{"https://a.test", "https://b.test", "https://c.test"}
		for i, w := range want {
			if links[i].Text != w {
				t.Errorf("index %d: expected %s, got %s", i, w, links[i].Text)
			}
			if links[i].Index != i {
				t.Errorf("expected Index %d, got %d", i, links[i].Index)
			}
		}
	})

	t.Run("malformed link produces no candidate", func(t *testing.T) {
		t.Parallel()
		content := "[broken](https://example.com no closing paren\nplain text"
		// Must not panic; the unterminated syntax is simply not matched
		// as an inline link, though its URL may surface as a bare URL.
		links := (&Markdown{}).Extract(doc(model.FormatMarkdown, content))
		for _, l := range links {
			if l.Kind == model.KindMarkdownLink {
				t.Errorf("unexpected inline link match: %s", l.Text)
			}
		}
	})
}

// TestHTMLExtract covers href/src extraction and text scanning.
func TestHTMLExtract(t *testing.T) {
	t.Parallel()

	t.Run("href and src attributes", func(t *testing.T) {
		t.Parallel()
		content := `<html><body>
<a href="https://example.com/page">link</a>
<img src="logo.png">
<script src="app.js"></script>
</body></html>`
		links := (&HTML{}).Extract(doc(model.FormatHTML, content))
		if len(links) != 3 {
			t.Fatalf("expected 3 links, got %d: %v", len(links), texts(links))
		}
		if links[0].Text != "https://example.com/page" || links[0].Kind != model.KindHrefAttr {
			t.Errorf("unexpected first link: %+v", links[0])
		}
		if links[1].Text != "logo.png" || links[1].Kind != model.KindSrcAttr {
			t.Errorf("unexpected second link: %+v", links[1])
		}
	})

	t.Run("srcset entries", func(t *testing.T) {
		t.Parallel()
		content := `<img srcset="small.png 480w, large.png 1080w">`
		links := (&HTML{}).Extract(doc(model.FormatHTML, content))
		got := texts(links)
		if len(got) != 2 || got[0] != "small.png" || got[1] != "large.png" {
			t.Errorf("unexpected srcset extraction: %v", got)
		}
	})

	t.Run("comments are ignored", func(t *testing.T) {
		t.Parallel()
		content := `<!-- <a href="https://example.com/hidden">x</a> https://example.com/ctext -->`
		links := (&HTML{}).Extract(doc(model.FormatHTML, content))
		if len(links) != 0 {
			t.Errorf("expected no links from comments, got %v", texts(links))
		}
	})

	t.Run("bare url in text node", func(t *testing.T) {
		t.Parallel()
		content := `<p>visit https://example.com/bare for details</p>`
		links := (&HTML{}).Extract(doc(model.FormatHTML, content))
		if len(links) != 1 {
			t.Fatalf("expected 1 link, got %d: %v", len(links), texts(links))
		}
		if links[0].Kind != model.KindBareURL {
			t.Errorf("expected bare url kind, got %s", links[0].Kind)
		}
	})

	t.Run("script body text is not scanned", func(t *testing.T) {
		t.Parallel()
		content := `<script>fetch("https://example.com/api")</script>`
		links := (&HTML{}).Extract(doc(model.FormatHTML, content))
		if len(links) != 0 {
			t.Errorf("expected no links from script body, got %v", texts(links))
		}
	})

	t.Run("mail address in text", func(t *testing.T) {
		t.Parallel()
		content := `<p>contact admin@example.com</p>`
		links := (&HTML{}).Extract(doc(model.FormatHTML, content))
		if len(links) != 1 || links[0].Kind != model.KindBareMail {
			t.Fatalf("expected one bare mail, got %v", texts(links))
		}
	})

	t.Run("truncated html does not panic", func(t *testing.T) {
		t.Parallel()
		content := `<a href="https://example.com/x`
		// Extraction is best-effort; asserting only that it returns.
		_ = (&HTML{}).Extract(doc(model.FormatHTML, content))
	})
}

// TestPlaintextExtract covers bare URL and mail scanning.
func TestPlaintextExtract(t *testing.T) {
	t.Parallel()

	t.Run("urls and mails in order", func(t *testing.T) {
		t.Parallel()
		content := "first https://a.test then mail user@example.com then https://b.test\n"
		links := (&Plaintext{}).Extract(doc(model.FormatPlaintext, content))
		got := texts(links)
		want := []string{"https://a.test", "user@example.com", "https://b.test"}
		if len(got) != len(want) {
			t.Fatalf("expected %d links, got %v", len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("index %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("url userinfo is not reported as mail", func(t *testing.T) {
		t.Parallel()
		content := "https://user@example.com/path"
		links := (&Plaintext{}).Extract(doc(model.FormatPlaintext, content))
		if len(links) != 1 {
			t.Fatalf("expected 1 link, got %v", texts(links))
		}
		if links[0].Kind != model.KindBareURL {
			t.Errorf("expected bare url, got %s", links[0].Kind)
		}
	})

	t.Run("line numbers are 1-based", func(t *testing.T) {
		t.Parallel()
		content := "nothing here\nhttps://example.com\n"
		links := (&Plaintext{}).Extract(doc(model.FormatPlaintext, content))
		if len(links) != 1 {
			t.Fatalf("expected 1 link, got %d", len(links))
		}
		if links[0].Line != 2 {
			t.Errorf("expected line 2, got %d", links[0].Line)
		}
	})

	t.Run("empty document yields no links", func(t *testing.T) {
		t.Parallel()
		links := (&Plaintext{}).Extract(doc(model.FormatPlaintext, ""))
		if len(links) != 0 {
			t.Errorf("expected no links, got %v", texts(links))
		}
	})
}
