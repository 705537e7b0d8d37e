// Package main provides the entry point for the linkscout CLI.
//
// Linkscout checks documents for broken links. It extracts links from
// Markdown, HTML and plain text, validates them concurrently, and
// reports every broken, excluded and skipped link with its source
// position.
//
// Usage:
//
//	linkscout check README.md docs/
//	linkscout check --json https://example.com
//
// See --help for all available options.
package main

// main is the entry point for linkscout.
func main() {
	Execute()
}
