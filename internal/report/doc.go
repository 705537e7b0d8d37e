// Package report formats check reports for output.
//
// Three formats are supported: a human-readable text summary for
// terminal display, JSON for tool integration, and Markdown for
// documentation and CI job summaries. All writers implement the same
// Writer interface, and MultiWriter fans one report out to several
// destinations.
package report
