package resolver

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/model"
)

// mailPattern is the syntactic validity rule for bare mail addresses.
// Deliberately minimal: no network verification is ever performed.
var mailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Resolver converts raw links into targets or skip verdicts.
// It is immutable after construction and safe for concurrent use.
type Resolver struct {
	include      []*regexp.Regexp
	exclude      []*regexp.Regexp
	skipPrivate  bool
	checkAnchors bool
	rootDir      string
}

// New builds a Resolver from configuration.
// Pattern compilation errors are fatal configuration errors, surfaced
// here before any checking begins.
func New(cfg *config.Config) (*Resolver, error) {
	include, err := compilePatterns(cfg.IncludePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	exclude, err := compilePatterns(cfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}

	rootDir := cfg.RootDir
	if rootDir != "" {
		if abs, err := filepath.Abs(rootDir); err == nil {
			rootDir = abs
		}
	}

	return &Resolver{
		include:      include,
		exclude:      exclude,
		skipPrivate:  cfg.SkipPrivate,
		checkAnchors: cfg.CheckAnchors,
		rootDir:      rootDir,
	}, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Resolve turns one raw link into exactly one of a Target or a
// SkipVerdict. Pattern filters are evaluated before anything that could
// reach the network, so an excluded link never triggers a request.
func (r *Resolver) Resolve(doc *model.Document, raw model.RawLink) (*model.Target, *model.SkipVerdict) {
	text := strings.TrimSpace(raw.Text)
	if text == "" {
		return nil, r.skip(doc, raw, model.SkipEmpty)
	}

	// Include/exclude verdicts are terminal and cheap; evaluate first.
	if v := r.filterPatterns(doc, raw, text); v != nil {
		return nil, v
	}

	// Fragment-only references point into the document itself.
	if strings.HasPrefix(text, "#") {
		if !r.checkAnchors || doc.Remote {
			return nil, r.skip(doc, raw, model.SkipAnchorOnly)
		}
		return &model.Target{
			Kind:       model.TargetFile,
			Path:       doc.Base,
			Fragment:   strings.TrimPrefix(text, "#"),
			DocumentID: doc.ID,
			Raw:        raw,
		}, nil
	}

	if strings.HasPrefix(strings.ToLower(text), "mailto:") {
		return r.resolveMail(doc, raw, text[len("mailto:"):])
	}

	u, err := url.Parse(text)
	if err != nil {
		// Not parseable as a URL; a bare mail address is the only other
		// shape we check, everything else is unsupported.
		if mailPattern.MatchString(text) {
			return r.resolveMail(doc, raw, text)
		}
		return nil, r.skip(doc, raw, model.SkipUnsupportedScheme)
	}

	switch u.Scheme {
	case "http", "https":
		return r.resolveWeb(doc, raw, u)
	case "":
		if raw.Kind == model.KindBareMail || mailPattern.MatchString(text) {
			return r.resolveMail(doc, raw, text)
		}
		return r.resolveRelative(doc, raw, u)
	default:
		// javascript:, data:, tel:, ftp: and friends.
		return nil, r.skip(doc, raw, model.SkipUnsupportedScheme)
	}
}

// resolveWeb finishes an absolute http(s) target.
func (r *Resolver) resolveWeb(doc *model.Document, raw model.RawLink, u *url.URL) (*model.Target, *model.SkipVerdict) {
	if r.skipPrivate && isPrivateHost(u.Hostname()) {
		return nil, r.skip(doc, raw, model.SkipPrivateHost)
	}
	return &model.Target{
		Kind:       model.TargetWeb,
		URL:        u,
		DocumentID: doc.ID,
		Raw:        raw,
	}, nil
}

// resolveMail finishes a mail target. Validity is checked later by the
// checker; resolution only classifies.
func (r *Resolver) resolveMail(doc *model.Document, raw model.RawLink, addr string) (*model.Target, *model.SkipVerdict) {
	return &model.Target{
		Kind:       model.TargetMail,
		Mail:       strings.TrimSpace(addr),
		DocumentID: doc.ID,
		Raw:        raw,
	}, nil
}

// resolveRelative resolves a schemeless reference against the document
// base. For remote documents the base is a URL and the result is a web
// target; for local documents the result is a file path.
func (r *Resolver) resolveRelative(doc *model.Document, raw model.RawLink, u *url.URL) (*model.Target, *model.SkipVerdict) {
	if doc.Remote {
		base, err := url.Parse(doc.Base)
		if err != nil {
			return nil, r.skip(doc, raw, model.SkipUnsupportedScheme)
		}
		resolved := base.ResolveReference(u)
		return r.resolveWeb(doc, raw, resolved)
	}

	// Local document: resolve against the containing directory.
	rel := u.Path
	if rel == "" {
		// Query-only or otherwise empty path with no fragment prefix.
		return nil, r.skip(doc, raw, model.SkipUnsupportedScheme)
	}

	var path string
	if filepath.IsAbs(rel) {
		// Absolute paths resolve against the root dir when configured,
		// mirroring how absolute links on a website resolve against the
		// site root.
		if r.rootDir == "" {
			return nil, r.skip(doc, raw, model.SkipOutsideRoot)
		}
		path = filepath.Join(r.rootDir, rel)
	} else {
		path = filepath.Join(filepath.Dir(doc.Base), rel)
	}
	path = filepath.Clean(path)

	if r.rootDir != "" {
		abs, err := filepath.Abs(path)
		if err != nil || !strings.HasPrefix(abs+string(filepath.Separator), r.rootDir+string(filepath.Separator)) {
			return nil, r.skip(doc, raw, model.SkipOutsideRoot)
		}
	}

	return &model.Target{
		Kind:       model.TargetFile,
		Path:       path,
		Fragment:   u.Fragment,
		DocumentID: doc.ID,
		Raw:        raw,
	}, nil
}

// filterPatterns applies the include whitelist and exclude patterns to
// the raw link text. Returns a verdict when the link must not proceed.
func (r *Resolver) filterPatterns(doc *model.Document, raw model.RawLink, text string) *model.SkipVerdict {
	if len(r.include) > 0 {
		matched := false
		for _, re := range r.include {
			if re.MatchString(text) {
				matched = true
				break
			}
		}
		if !matched {
			return r.skip(doc, raw, model.SkipNotIncluded)
		}
	}

	for _, re := range r.exclude {
		if re.MatchString(text) {
			return r.skip(doc, raw, model.SkipExcluded)
		}
	}

	return nil
}

func (r *Resolver) skip(doc *model.Document, raw model.RawLink, reason model.SkipReason) *model.SkipVerdict {
	return &model.SkipVerdict{
		Reason:     reason,
		DocumentID: doc.ID,
		Raw:        raw,
	}
}
