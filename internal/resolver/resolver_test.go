package resolver

import (
	"path/filepath"
	"testing"

	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/model"
)

// testDoc builds a local markdown document with the given base path.
func testDoc(base string) *model.Document {
	return &model.Document{ID: base, Base: base, Format: model.FormatMarkdown}
}

// raw builds a raw link with the given text.
func raw(text string) model.RawLink {
	return model.RawLink{Text: text, Line: 1, Index: 0, Kind: model.KindMarkdownLink}
}

// mustResolver builds a resolver or fails the test.
func mustResolver(t *testing.T, cfg *config.Config) *Resolver {
	t.Helper()
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error building resolver: %v", err)
	}
	return r
}

// TestResolveWeb verifies absolute http(s) classification.
func TestResolveWeb(t *testing.T) {
	t.Parallel()
	r := mustResolver(t, config.NewConfig())

	t.Run("https url becomes web target", func(t *testing.T) {
		t.Parallel()
		target, skip := r.Resolve(testDoc("README.md"), raw("https://example.com/page"))
		if skip != nil {
			t.Fatalf("unexpected skip: %+v", skip)
		}
		if target.Kind != model.TargetWeb {
			t.Errorf("expected web target, got %s", target.Kind)
		}
		if target.URL.Host != "example.com" {
			t.Errorf("unexpected host: %s", target.URL.Host)
		}
	})

	t.Run("http url becomes web target", func(t *testing.T) {
		t.Parallel()
		target, skip := r.Resolve(testDoc("README.md"), raw("http://example.com"))
		if skip != nil || target.Kind != model.TargetWeb {
			t.Errorf("expected web target, got %+v / %+v", target, skip)
		}
	})
}

// TestResolveMail verifies mail classification for mailto: and bare
// addresses.
func TestResolveMail(t *testing.T) {
	t.Parallel()
	r := mustResolver(t, config.NewConfig())

	t.Run("mailto url", func(t *testing.T) {
		t.Parallel()
		target, skip := r.Resolve(testDoc("README.md"), raw("mailto:user@example.com"))
		if skip != nil {
			t.Fatalf("unexpected skip: %+v", skip)
		}
		if target.Kind != model.TargetMail || target.Mail != "user@example.com" {
			t.Errorf("unexpected target: %+v", target)
		}
	})

	t.Run("bare address", func(t *testing.T) {
		t.Parallel()
		link := model.RawLink{Text: "user@example.com", Kind: model.KindBareMail}
		target, skip := r.Resolve(testDoc("README.md"), link)
		if skip != nil {
			t.Fatalf("unexpected skip: %+v", skip)
		}
		if target.Kind != model.TargetMail {
			t.Errorf("expected mail target, got %s", target.Kind)
		}
	})
}

// TestResolveRelative verifies path resolution against the document base.
func TestResolveRelative(t *testing.T) {
	t.Parallel()
	r := mustResolver(t, config.NewConfig())

	t.Run("relative path with anchor resolves against base directory", func(t *testing.T) {
		t.Parallel()
		target, skip := r.Resolve(testDoc(filepath.Join("docs", "index.md")), raw("./foo.md#bar"))
		if skip != nil {
			t.Fatalf("unexpected skip: %+v", skip)
		}
		if target.Kind != model.TargetFile {
			t.Fatalf("expected file target, got %s", target.Kind)
		}
		if target.Path != filepath.Join("docs", "foo.md") {
			t.Errorf("expected docs/foo.md, got %s", target.Path)
		}
		if target.Fragment != "bar" {
			t.Errorf("expected fragment bar, got %s", target.Fragment)
		}
	})

	t.Run("parent traversal resolves", func(t *testing.T) {
		t.Parallel()
		target, skip := r.Resolve(testDoc(filepath.Join("docs", "guide", "a.md")), raw("../b.md"))
		if skip != nil {
			t.Fatalf("unexpected skip: %+v", skip)
		}
		if target.Path != filepath.Join("docs", "b.md") {
			t.Errorf("unexpected path: %s", target.Path)
		}
	})

	t.Run("path escaping the root is skipped", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.RootDir = t.TempDir()
		rooted := mustResolver(t, cfg)

		doc := testDoc(filepath.Join(cfg.RootDir, "index.md"))
		_, skip := rooted.Resolve(doc, raw("../../outside.md"))
		if skip == nil || skip.Reason != model.SkipOutsideRoot {
			t.Errorf("expected outside_root skip, got %+v", skip)
		}
	})

	t.Run("relative link in remote document becomes web target", func(t *testing.T) {
		t.Parallel()
		doc := &model.Document{
			ID:     "https://example.com/docs/index.html",
			Base:   "https://example.com/docs/index.html",
			Remote: true,
		}
		target, skip := r.Resolve(doc, raw("../about.html"))
		if skip != nil {
			t.Fatalf("unexpected skip: %+v", skip)
		}
		if target.Kind != model.TargetWeb {
			t.Fatalf("expected web target, got %s", target.Kind)
		}
		if got := target.URL.String(); got != "https://example.com/about.html" {
			t.Errorf("unexpected resolved url: %s", got)
		}
	})
}

// TestResolveSkips verifies the terminal skip verdicts.
func TestResolveSkips(t *testing.T) {
	t.Parallel()
	r := mustResolver(t, config.NewConfig())

	t.Run("javascript scheme is unsupported", func(t *testing.T) {
		t.Parallel()
		_, skip := r.Resolve(testDoc("README.md"), raw("javascript:void(0)"))
		if skip == nil || skip.Reason != model.SkipUnsupportedScheme {
			t.Errorf("expected unsupported_scheme, got %+v", skip)
		}
	})

	t.Run("data scheme is unsupported", func(t *testing.T) {
		t.Parallel()
		_, skip := r.Resolve(testDoc("README.md"), raw("data:text/plain;base64,aGk="))
		if skip == nil || skip.Reason != model.SkipUnsupportedScheme {
			t.Errorf("expected unsupported_scheme, got %+v", skip)
		}
	})

	t.Run("fragment-only is anchor_only when anchors are off", func(t *testing.T) {
		t.Parallel()
		_, skip := r.Resolve(testDoc("README.md"), raw("#section"))
		if skip == nil || skip.Reason != model.SkipAnchorOnly {
			t.Errorf("expected anchor_only, got %+v", skip)
		}
	})

	t.Run("fragment-only resolves to self when anchors are on", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.CheckAnchors = true
		anchored := mustResolver(t, cfg)
		target, skip := anchored.Resolve(testDoc("README.md"), raw("#section"))
		if skip != nil {
			t.Fatalf("unexpected skip: %+v", skip)
		}
		if target.Path != "README.md" || target.Fragment != "section" {
			t.Errorf("unexpected target: %+v", target)
		}
	})

	t.Run("empty text is skipped", func(t *testing.T) {
		t.Parallel()
		_, skip := r.Resolve(testDoc("README.md"), raw("   "))
		if skip == nil || skip.Reason != model.SkipEmpty {
			t.Errorf("expected empty skip, got %+v", skip)
		}
	})
}

// TestResolvePatterns verifies include/exclude evaluation before any
// network access.
func TestResolvePatterns(t *testing.T) {
	t.Parallel()

	t.Run("exclude pattern wins", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.ExcludePatterns = []string{`^https://internal\.`}
		r := mustResolver(t, cfg)

		_, skip := r.Resolve(testDoc("README.md"), raw("https://internal.example.com"))
		if skip == nil || skip.Reason != model.SkipExcluded {
			t.Errorf("expected excluded_by_pattern, got %+v", skip)
		}
	})

	t.Run("include patterns act as whitelist", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.IncludePatterns = []string{`^https://docs\.`}
		r := mustResolver(t, cfg)

		_, skip := r.Resolve(testDoc("README.md"), raw("https://other.example.com"))
		if skip == nil || skip.Reason != model.SkipNotIncluded {
			t.Errorf("expected not_in_include_list, got %+v", skip)
		}

		target, skip := r.Resolve(testDoc("README.md"), raw("https://docs.example.com"))
		if skip != nil || target == nil {
			t.Errorf("expected included link to proceed, got %+v", skip)
		}
	})

	t.Run("invalid pattern is a fatal construction error", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.ExcludePatterns = []string{`([unclosed`}
		if _, err := New(cfg); err == nil {
			t.Error("expected error for invalid pattern")
		}
	})
}

// TestResolvePrivateHosts verifies the literal private-host policy.
func TestResolvePrivateHosts(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SkipPrivate = true
	r := mustResolver(t, cfg)

	tests := []struct {
		name string
		url  string
		skip bool
	}{
		{name: "loopback ip", url: "http://127.0.0.1/health", skip: true},
		{name: "private ipv4", url: "http://192.168.0.1/admin", skip: true},
		{name: "ten dot", url: "http://10.1.2.3/", skip: true},
		{name: "link local", url: "http://169.254.0.1/", skip: true},
		{name: "localhost name", url: "http://localhost:8080/", skip: true},
		{name: "ipv6 loopback", url: "http://[::1]/", skip: true},
		{name: "public host", url: "https://example.com/", skip: false},
		{name: "public ip", url: "http://93.184.216.34/", skip: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			target, skip := r.Resolve(testDoc("README.md"), raw(tt.url))
			if tt.skip {
				if skip == nil || skip.Reason != model.SkipPrivateHost {
					t.Errorf("expected private_host skip, got %+v / %+v", target, skip)
				}
			} else if skip != nil {
				t.Errorf("expected target, got skip %+v", skip)
			}
		})
	}
}
