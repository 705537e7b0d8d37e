package extractor

import "github.com/linkscout/linkscout/internal/model"

// Plaintext extracts links from arbitrary text by pattern matching.
// It recognizes bare http(s) URLs and mail-address-shaped substrings.
// This is the fallback extractor for unknown file formats.
type Plaintext struct{}

// Extract implements Extractor.
func (p *Plaintext) Extract(doc *model.Document) []model.RawLink {
	cands := scanText(doc.Content, 0, nil)
	return finalize(doc.Content, cands)
}
