package model

import "net/url"

// LinkKind is a syntactic hint describing how a link appeared in source.
// It is carried for traceability and reporting only; resolution never
// depends on it.
type LinkKind string

// Link kinds emitted by the extractors.
const (
	// KindMarkdownLink is an inline or reference Markdown link.
	KindMarkdownLink LinkKind = "markdown_link"

	// KindMarkdownImage is a Markdown image source.
	KindMarkdownImage LinkKind = "markdown_image"

	// KindAutolink is a Markdown autolink such as <https://example.com>.
	KindAutolink LinkKind = "autolink"

	// KindHrefAttr is an href attribute on an HTML element.
	KindHrefAttr LinkKind = "href"

	// KindSrcAttr is a src or srcset attribute on an HTML element.
	KindSrcAttr LinkKind = "src"

	// KindBareURL is a URL-shaped substring found in plain text.
	KindBareURL LinkKind = "bare_url"

	// KindBareMail is a mail-address-shaped substring found in plain text.
	KindBareMail LinkKind = "bare_mail"
)

// RawLink is a single link occurrence as written in a document, before
// any normalization. Duplicate links within one document are each emitted
// separately; their positions differ.
type RawLink struct {
	// Text is the link target exactly as it appeared in source.
	Text string `json:"text"`

	// Line is the 1-based line number of the occurrence.
	Line int `json:"line"`

	// Offset is the byte offset of the occurrence within the document.
	Offset int `json:"offset"`

	// Index is the appearance order within the document, starting at 0.
	// The final report restores this order even though checks complete
	// out of order.
	Index int `json:"index"`

	// Kind is the syntactic context the link appeared in.
	Kind LinkKind `json:"kind"`
}

// TargetKind classifies what a resolved target points at.
type TargetKind string

// Target kinds produced by the resolver.
const (
	// TargetWeb is an absolute http or https URL.
	TargetWeb TargetKind = "web"

	// TargetFile is a local filesystem path, resolved relative to the
	// document's own location.
	TargetFile TargetKind = "file"

	// TargetMail is a mail address, from a mailto: URL or a bare address.
	TargetMail TargetKind = "mail"
)

// Target is a normalized, checkable reference. It is created by the
// resolver, is immutable, and is consumed exactly once by the checker.
type Target struct {
	// Kind selects which checker validates this target.
	Kind TargetKind `json:"kind"`

	// URL is set for TargetWeb targets.
	URL *url.URL `json:"-"`

	// Path is set for TargetFile targets. It is the resolved filesystem
	// path without the fragment.
	Path string `json:"path,omitempty"`

	// Fragment is the anchor portion of the link, if any, without the
	// leading '#'. Only meaningful when anchor checking is enabled.
	Fragment string `json:"fragment,omitempty"`

	// Mail is set for TargetMail targets. It is the bare address without
	// the mailto: prefix.
	Mail string `json:"mail,omitempty"`

	// DocumentID identifies the originating document.
	DocumentID string `json:"document_id"`

	// Raw is the originating link occurrence, kept for traceability.
	Raw RawLink `json:"raw"`
}

// String returns the checkable form of the target for display.
func (t *Target) String() string {
	switch t.Kind {
	case TargetWeb:
		return t.URL.String()
	case TargetMail:
		return "mailto:" + t.Mail
	default:
		if t.Fragment != "" {
			return t.Path + "#" + t.Fragment
		}
		return t.Path
	}
}

// SkipReason explains why a raw link never reached the checker.
type SkipReason string

// Skip reasons produced by the resolver. These are policy outcomes,
// not errors.
const (
	// SkipExcluded means an exclude pattern matched the link.
	SkipExcluded SkipReason = "excluded_by_pattern"

	// SkipNotIncluded means include patterns were configured and none
	// matched. Include patterns act as a whitelist.
	SkipNotIncluded SkipReason = "not_in_include_list"

	// SkipUnsupportedScheme covers schemes the checker cannot validate,
	// such as javascript:, data:, tel: or ftp:.
	SkipUnsupportedScheme SkipReason = "unsupported_scheme"

	// SkipPrivateHost means the host is a private, loopback or link-local
	// address and the skip-private policy is enabled. Decided by literal
	// host inspection, never by DNS.
	SkipPrivateHost SkipReason = "private_host"

	// SkipAnchorOnly is a fragment-only reference like "#section" while
	// anchor checking is disabled.
	SkipAnchorOnly SkipReason = "anchor_only"

	// SkipOutsideRoot means a relative path resolved outside the
	// configured root directory.
	SkipOutsideRoot SkipReason = "outside_root"

	// SkipEmpty is a link with no target text at all.
	SkipEmpty SkipReason = "empty"
)

// SkipVerdict is the terminal non-checked outcome for a raw link.
// Exactly one of Target or SkipVerdict exists per RawLink.
type SkipVerdict struct {
	// Reason explains the skip.
	Reason SkipReason `json:"reason"`

	// DocumentID identifies the originating document.
	DocumentID string `json:"document_id"`

	// Raw is the originating link occurrence.
	Raw RawLink `json:"raw"`
}

// Excluded reports whether the skip was caused by include/exclude
// patterns. Pattern skips are reported as Excluded in the final report;
// all other skips are reported as Skipped.
func (s *SkipVerdict) Excluded() bool {
	return s.Reason == SkipExcluded || s.Reason == SkipNotIncluded
}
