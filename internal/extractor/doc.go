// Package extractor turns raw document bytes into an ordered sequence of
// raw link candidates with source positions.
//
// Extraction is a pure function of the document content: deterministic,
// no I/O, and never fatal. Malformed or truncated link syntax degrades
// extraction quality (the fragment is skipped or emitted as best-effort
// literal text), never engine availability.
//
// The package provides one extractor variant per document format
// (Markdown, HTML, plain text), selected by ForFormat. Each variant
// implements the same Extract contract. Duplicate links within one
// document are each emitted separately; deduplication, if any, happens
// downstream.
package extractor
