package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/linkscout/linkscout/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose includes successful and skipped links in the output,
	// not just broken ones.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output listing every link, not just the
// broken ones.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeDocuments(&sb, report)
	w.writeSummary(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         LINKSCOUT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Run Date:   %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Documents:  %d\n", len(report.DocumentOrder)))
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", report.Elapsed.Round(time.Millisecond)))

	if report.Cancelled {
		sb.WriteString("Status:     CANCELLED (partial results)\n")
	} else if report.Success() {
		sb.WriteString("Status:     OK\n")
	} else {
		sb.WriteString(fmt.Sprintf("Status:     %d broken link(s)\n", report.Summary.Failed))
	}

	sb.WriteString("\n")
}

// writeDocuments writes the per-document link listings. In the default
// mode only documents with broken links appear; verbose mode lists
// every link with its outcome.
func (w *SimpleWriter) writeDocuments(sb *strings.Builder, report *model.Report) {
	wroteSection := false

	for _, id := range report.DocumentOrder {
		results := report.Results[id]

		lines := make([]string, 0, len(results))
		for i := range results {
			res := &results[i]
			if res.Status != model.StatusFailure && !w.verbose {
				continue
			}
			lines = append(lines, w.formatResult(res))
		}
		if len(lines) == 0 {
			continue
		}

		if !wroteSection {
			sb.WriteString(strings.Repeat("-", 70))
			sb.WriteString("\n")
			if w.verbose {
				sb.WriteString("LINKS\n")
			} else {
				sb.WriteString("BROKEN LINKS\n")
			}
			sb.WriteString(strings.Repeat("-", 70))
			sb.WriteString("\n\n")
			wroteSection = true
		}

		sb.WriteString(id)
		sb.WriteString("\n")
		for _, line := range lines {
			sb.WriteString(line)
		}
		sb.WriteString("\n")
	}
}

// formatResult renders one result as an indented listing line.
func (w *SimpleWriter) formatResult(res *model.CheckResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  [%s] line %d: %s\n", statusIndicator(res), res.Line, res.Link))

	switch res.Status {
	case model.StatusFailure:
		detail := string(res.FailureReason)
		if res.HTTPStatus != 0 {
			detail = fmt.Sprintf("%s (%d)", detail, res.HTTPStatus)
		}
		if res.Detail != "" {
			detail = fmt.Sprintf("%s: %s", detail, res.Detail)
		}
		sb.WriteString(fmt.Sprintf("        %s\n", detail))
	case model.StatusExcluded, model.StatusSkipped:
		sb.WriteString(fmt.Sprintf("        %s\n", res.SkipReason))
	}

	return sb.String()
}

// statusIndicator returns a short visual marker for a result status.
func statusIndicator(res *model.CheckResult) string {
	switch res.Status {
	case model.StatusSuccess:
		return "ok"
	case model.StatusFailure:
		return "FAIL"
	case model.StatusExcluded:
		return "skip"
	case model.StatusSkipped:
		return "skip"
	default:
		return "?"
	}
}

// writeSummary writes the aggregate counts section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.Report) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	s := report.Summary
	sb.WriteString(fmt.Sprintf("  Total:      %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("  Successful: %d\n", s.Successful))
	sb.WriteString(fmt.Sprintf("  Failed:     %d\n", s.Failed))
	sb.WriteString(fmt.Sprintf("  Excluded:   %d\n", s.Excluded))
	sb.WriteString(fmt.Sprintf("  Skipped:    %d\n", s.Skipped))
	sb.WriteString("\n")
}
