package checker

import (
	"bytes"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/linkscout/linkscout/internal/model"
)

// anchorExists reports whether the target document contains the given
// fragment anchor. The anchor set depends on the document format:
// element ids (and legacy <a name>) for HTML, heading slugs and
// explicit {#id} attributes for Markdown.
func anchorExists(path, fragment string) (bool, error) {
	content, err := os.ReadFile(path) //nolint:gosec // Path comes from a resolved link target
	if err != nil {
		return false, err
	}

	switch model.FormatFromPath(path) {
	case model.FormatHTML:
		return htmlAnchors(content)[fragment], nil
	case model.FormatMarkdown:
		return markdownAnchors(content)[fragment], nil
	default:
		// Plain text has no anchor concept.
		return false, nil
	}
}

// htmlAnchors collects every id attribute and legacy <a name> value.
func htmlAnchors(content []byte) map[string]bool {
	anchors := make(map[string]bool)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return anchors
	}

	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			anchors[id] = true
		}
	})
	doc.Find("a[name]").Each(func(_ int, s *goquery.Selection) {
		if name, ok := s.Attr("name"); ok && name != "" {
			anchors[name] = true
		}
	})

	return anchors
}

// headingPattern matches ATX headings; the trailing {#custom-id}
// attribute syntax overrides the generated slug.
var headingPattern = regexp.MustCompile(`(?m)^#{1,6}\s+(.+?)\s*$`)

// explicitIDPattern matches {#custom-id} at the end of a heading.
var explicitIDPattern = regexp.MustCompile(`\{#([^}\s]+)\}\s*$`)

// htmlIDPattern catches id attributes of inline HTML inside Markdown.
var htmlIDPattern = regexp.MustCompile(`\bid="([^"]+)"`)

// markdownAnchors collects the anchors a renderer would generate:
// GitHub-style heading slugs, explicit heading ids, and inline HTML ids.
func markdownAnchors(content []byte) map[string]bool {
	anchors := make(map[string]bool)

	for _, m := range headingPattern.FindAllSubmatch(content, -1) {
		heading := string(m[1])
		if idm := explicitIDPattern.FindStringSubmatch(heading); idm != nil {
			anchors[idm[1]] = true
			continue
		}
		if slug := slugify(heading); slug != "" {
			anchors[slug] = true
		}
	}

	for _, m := range htmlIDPattern.FindAllSubmatch(content, -1) {
		anchors[string(m[1])] = true
	}

	return anchors
}

// slugify approximates the GitHub heading-slug algorithm: lowercase,
// strip Markdown emphasis and punctuation, spaces to hyphens.
func slugify(heading string) string {
	s := strings.ToLower(strings.TrimSpace(heading))
	s = strings.NewReplacer("*", "", "_", "", "`", "").Replace(s)

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}
