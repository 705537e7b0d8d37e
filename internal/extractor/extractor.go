package extractor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/linkscout/linkscout/internal/model"
)

// Extractor converts a document's content into raw link candidates.
// Implementations must be deterministic and perform no I/O.
type Extractor interface {
	// Extract returns the document's links in source appearance order,
	// with Index assigned sequentially from 0.
	Extract(doc *model.Document) []model.RawLink
}

// ForFormat returns the extractor variant for a document format.
//
// Design decision: The format set is closed, so we dispatch on the
// format tag rather than doing runtime type inspection of content.
// Unknown formats get the plaintext extractor, which can scan anything.
func ForFormat(format model.Format) Extractor {
	switch format {
	case model.FormatMarkdown:
		return &Markdown{}
	case model.FormatHTML:
		return &HTML{}
	default:
		return &Plaintext{}
	}
}

// urlPattern matches bare http(s) URLs in free text.
// Trailing sentence punctuation is trimmed after matching; the pattern
// itself is kept permissive because URLs in prose are messy.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"')]+`)

// mailPattern matches mail-address-shaped substrings.
//
// Design decision: We use a permissive pattern rather than strict
// RFC 5322 because prose contains imperfect addresses and false
// positives surface as check failures the user can exclude, while false
// negatives are silent.
var mailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// trimTrailingPunct strips sentence punctuation that the URL pattern
// over-captures at the end of a match.
func trimTrailingPunct(s string) string {
	return strings.TrimRight(s, ".,;:!?'\"")
}

// candidate is a link match before index assignment.
type candidate struct {
	text   string
	offset int
	kind   model.LinkKind
}

// finalize sorts candidates by source position and assigns line numbers
// and sequential indices.
func finalize(content []byte, cands []candidate) []model.RawLink {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].offset < cands[j].offset
	})

	lines := newLineIndex(content)
	links := make([]model.RawLink, 0, len(cands))
	for i, c := range cands {
		links = append(links, model.RawLink{
			Text:   c.text,
			Line:   lines.lineOf(c.offset),
			Offset: c.offset,
			Index:  i,
			Kind:   c.kind,
		})
	}
	return links
}

// lineIndex maps byte offsets to 1-based line numbers.
// Built once per document; lookups are binary searches over line starts.
type lineIndex struct {
	starts []int
}

func newLineIndex(content []byte) *lineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (l *lineIndex) lineOf(offset int) int {
	// First line whose start is past the offset; the line containing the
	// offset is the one before it.
	n := sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	})
	return n
}

// scanText finds bare URLs and mail addresses in a byte region and
// appends them as candidates. base is the region's offset within the
// whole document. URL matches are masked before the mail scan so that
// userinfo in URLs is not double-reported as a mail address.
func scanText(region []byte, base int, cands []candidate) []candidate {
	masked := append([]byte(nil), region...)

	for _, m := range urlPattern.FindAllIndex(region, -1) {
		text := trimTrailingPunct(string(region[m[0]:m[1]]))
		if text == "" {
			continue
		}
		cands = append(cands, candidate{
			text:   text,
			offset: base + m[0],
			kind:   model.KindBareURL,
		})
		for i := m[0]; i < m[1]; i++ {
			masked[i] = ' '
		}
	}

	for _, m := range mailPattern.FindAllIndex(masked, -1) {
		cands = append(cands, candidate{
			text:   string(masked[m[0]:m[1]]),
			offset: base + m[0],
			kind:   model.KindBareMail,
		})
	}

	return cands
}
