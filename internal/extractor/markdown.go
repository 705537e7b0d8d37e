package extractor

import (
	"bytes"
	"regexp"

	"github.com/linkscout/linkscout/internal/model"
)

// Markdown extracts links from CommonMark-style documents.
// It recognizes inline links, reference definitions, autolinks, image
// sources, and bare URLs in prose. Fenced code blocks, indented code
// blocks, and inline code spans are ignored.
//
// Design decision: We scan with regular expressions over a masked copy
// of the content rather than pulling in a full CommonMark parser. The
// pack of link syntaxes we need is small and positional accuracy
// matters more than edge-case CommonMark conformance; a malformed link
// simply produces no candidate.
type Markdown struct{}

// inlineLinkPattern matches [text](dest "title") and ![alt](dest),
// capturing the leading bang (group 1) and the destination (group 2).
// Destinations with spaces require <> wrapping, which autolinkPattern
// does not cover; such links are rare enough to skip.
var inlineLinkPattern = regexp.MustCompile(`(!?)\[[^\]]*\]\(\s*<?([^)<>\s]+)>?(?:\s+"[^"]*")?\s*\)`)

// refDefPattern matches reference link definitions at line start:
// [label]: destination
var refDefPattern = regexp.MustCompile(`(?m)^ {0,3}\[[^\]]+\]:\s*<?([^\s<>]+)>?`)

// autolinkPattern matches <https://example.com> and <mailto:user@host>.
var autolinkPattern = regexp.MustCompile(`<(https?://[^<>\s]+|mailto:[^<>\s]+)>`)

// fencePattern matches fenced code block delimiters at line start.
var fencePattern = regexp.MustCompile("(?m)^ {0,3}(```|~~~)")

// inlineCodePattern matches inline code spans. Backtick runs are kept
// short deliberately; a span spanning the whole document would mask
// everything after an unbalanced backtick.
var inlineCodePattern = regexp.MustCompile("`[^`\n]*`")

// Extract implements Extractor.
func (m *Markdown) Extract(doc *model.Document) []model.RawLink {
	masked := maskCode(doc.Content)

	var cands []candidate
	structured := append([]byte(nil), masked...)

	for _, idx := range inlineLinkPattern.FindAllSubmatchIndex(masked, -1) {
		kind := model.KindMarkdownLink
		if idx[3] > idx[2] { // leading '!' present
			kind = model.KindMarkdownImage
		}
		start, end := idx[4], idx[5]
		cands = append(cands, candidate{
			text:   string(masked[start:end]),
			offset: start,
			kind:   kind,
		})
		maskRegion(structured, idx[0], idx[1])
	}

	for _, idx := range refDefPattern.FindAllSubmatchIndex(masked, -1) {
		start, end := idx[2], idx[3]
		cands = append(cands, candidate{
			text:   string(masked[start:end]),
			offset: start,
			kind:   model.KindMarkdownLink,
		})
		maskRegion(structured, idx[0], idx[1])
	}

	for _, idx := range autolinkPattern.FindAllSubmatchIndex(masked, -1) {
		start, end := idx[2], idx[3]
		cands = append(cands, candidate{
			text:   string(masked[start:end]),
			offset: start,
			kind:   model.KindAutolink,
		})
		maskRegion(structured, idx[0], idx[1])
	}

	// Bare URLs and mail addresses in whatever prose remains after the
	// structured syntax is masked out, so nothing is reported twice.
	cands = scanText(structured, 0, cands)

	return finalize(doc.Content, cands)
}

// maskCode blanks out fenced code blocks and inline code spans,
// preserving newlines so offsets and line numbers stay aligned.
func maskCode(content []byte) []byte {
	masked := append([]byte(nil), content...)

	// Fenced blocks: mask everything between alternating fence markers.
	fences := fencePattern.FindAllIndex(content, -1)
	for i := 0; i+1 < len(fences); i += 2 {
		maskRegion(masked, fences[i][0], fences[i+1][1])
	}
	// An unclosed trailing fence masks through end of document.
	if len(fences)%2 == 1 {
		maskRegion(masked, fences[len(fences)-1][0], len(masked))
	}

	maskIndentedCode(masked)

	for _, span := range inlineCodePattern.FindAllIndex(masked, -1) {
		maskRegion(masked, span[0], span[1])
	}

	return masked
}

// maskIndentedCode blanks out indented code blocks: lines indented four
// columns or more that open after a blank line or continue an indented
// run. A four-space continuation of a list item has prose on the line
// above it, so it is left alone.
func maskIndentedCode(masked []byte) {
	prevBlank := true
	prevCode := false

	start := 0
	for start < len(masked) {
		end := start
		for end < len(masked) && masked[end] != '\n' {
			end++
		}
		line := masked[start:end]

		blank := len(bytes.TrimSpace(line)) == 0
		indented := !blank &&
			(bytes.HasPrefix(line, []byte("    ")) || bytes.HasPrefix(line, []byte("\t")))

		if indented && (prevBlank || prevCode) {
			maskRegion(masked, start, end)
			prevCode = true
		} else if !blank {
			prevCode = false
		}
		prevBlank = blank

		start = end + 1
	}
}

// maskRegion overwrites a byte range with spaces, keeping newlines.
func maskRegion(b []byte, start, end int) {
	for i := start; i < end && i < len(b); i++ {
		if b[i] != '\n' {
			b[i] = ' '
		}
	}
}
