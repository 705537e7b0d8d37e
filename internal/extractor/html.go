package extractor

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/linkscout/linkscout/internal/model"
)

// HTML extracts links from HTML documents: href and src attributes,
// srcset entries, and bare URLs or mail addresses in text nodes.
// Comments and the contents of script/style elements are ignored.
//
// Design decision: We use golang.org/x/net/html's tokenizer rather than
// building a DOM because:
//  1. It correctly handles malformed HTML common in the wild
//  2. Tokens expose their raw bytes, which gives us source offsets
//  3. A single forward pass is all extraction needs
type HTML struct{}

// hrefElements are elements whose href attribute is a link.
var hrefElements = map[string]bool{
	"a":    true,
	"link": true,
	"area": true,
	"base": false, // base changes resolution, it is not itself a link
}

// srcElements are elements whose src (and srcset) attribute is a link.
var srcElements = map[string]bool{
	"img":    true,
	"script": true,
	"iframe": true,
	"source": true,
	"audio":  true,
	"video":  true,
	"embed":  true,
}

// Extract implements Extractor.
func (h *HTML) Extract(doc *model.Document) []model.RawLink {
	var cands []candidate

	z := html.NewTokenizer(bytes.NewReader(doc.Content))
	offset := 0

	// Text inside these elements is code, not prose; skip the bare-URL
	// scan there.
	skipTextDepth := 0

	for {
		tt := z.Next()
		raw := z.Raw()
		tokenStart := offset
		offset += len(raw)

		switch tt {
		case html.ErrorToken:
			// EOF or a tokenization error; either way extraction is
			// best-effort and simply stops.
			return finalize(doc.Content, cands)

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			name := tok.Data
			if tt == html.StartTagToken && (name == "script" || name == "style") {
				skipTextDepth++
			}
			cands = h.extractAttrs(tok, raw, tokenStart, cands)

		case html.EndTagToken:
			tok := z.Token()
			if (tok.Data == "script" || tok.Data == "style") && skipTextDepth > 0 {
				skipTextDepth--
			}

		case html.TextToken:
			if skipTextDepth == 0 {
				cands = scanText(raw, tokenStart, cands)
			}

		case html.CommentToken, html.DoctypeToken:
			// Ignored by contract.
		}
	}
}

// extractAttrs pulls link-bearing attributes out of one element token.
// The attribute value's offset is located by searching the token's raw
// bytes; when the search fails (entity-encoded values), the token start
// is used as a best-effort position.
func (h *HTML) extractAttrs(tok html.Token, raw []byte, tokenStart int, cands []candidate) []candidate {
	for _, attr := range tok.Attr {
		val := strings.TrimSpace(attr.Val)
		if val == "" {
			continue
		}

		switch {
		case attr.Key == "href" && hrefElements[tok.Data]:
			cands = append(cands, candidate{
				text:   val,
				offset: attrOffset(raw, tokenStart, attr.Val),
				kind:   model.KindHrefAttr,
			})

		case attr.Key == "src" && srcElements[tok.Data]:
			cands = append(cands, candidate{
				text:   val,
				offset: attrOffset(raw, tokenStart, attr.Val),
				kind:   model.KindSrcAttr,
			})

		case attr.Key == "srcset" && srcElements[tok.Data]:
			// srcset entries are comma separated, each optionally
			// followed by a width or density descriptor.
			for _, entry := range strings.Split(val, ",") {
				entry = strings.TrimSpace(entry)
				if i := strings.IndexAny(entry, " \t"); i >= 0 {
					entry = entry[:i]
				}
				if entry == "" {
					continue
				}
				cands = append(cands, candidate{
					text:   entry,
					offset: attrOffset(raw, tokenStart, entry),
					kind:   model.KindSrcAttr,
				})
			}
		}
	}
	return cands
}

// attrOffset locates an attribute value inside the token's raw bytes.
func attrOffset(raw []byte, tokenStart int, val string) int {
	if i := bytes.Index(raw, []byte(val)); i >= 0 {
		return tokenStart + i
	}
	return tokenStart
}
