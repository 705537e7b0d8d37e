package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/linkscout/linkscout/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and CI job summaries.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeBrokenLinks(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Link Check Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Documents", strconv.Itoa(len(report.DocumentOrder))},
			{"Duration", report.Elapsed.String()},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell based on report state.
func (w *MarkdownWriter) statusText(report *model.Report) string {
	if report.Cancelled {
		return "⚠️ Cancelled (partial results)"
	}
	if !report.Success() {
		return "❌ " + strconv.Itoa(report.Summary.Failed) + " broken link(s)"
	}
	return "✅ OK"
}

// writeSummary writes the aggregate counts section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.Report) {
	md.H2("Summary")
	md.PlainText("")

	s := report.Summary
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"🟢 Successful", strconv.Itoa(s.Successful)},
			{"🔴 Failed", strconv.Itoa(s.Failed)},
			{"⚪ Excluded", strconv.Itoa(s.Excluded)},
			{"🔵 Skipped", strconv.Itoa(s.Skipped)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if s.Successful+s.Failed+s.Excluded+s.Skipped > 0 {
		w.writePieChart(md, &s)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart of the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Link Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if s.Successful > 0 {
		chart.LabelAndIntValue("Successful", uint64(s.Successful))
	}
	if s.Failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(s.Failed))
	}
	if s.Excluded > 0 {
		chart.LabelAndIntValue("Excluded", uint64(s.Excluded))
	}
	if s.Skipped > 0 {
		chart.LabelAndIntValue("Skipped", uint64(s.Skipped))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the outcome counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.Report) {
	switch {
	case report.Cancelled:
		md.Warningf(
			"The run was cancelled before completion. %d link(s) could not be checked.",
			report.Summary.Failed,
		)
	case report.Summary.Failed > 0:
		md.Cautionf(
			"%d broken link(s) found. See the listing below.",
			report.Summary.Failed,
		)
	default:
		md.Tip("All checked links are valid.")
	}
	md.PlainText("")
}

// writeBrokenLinks writes the per-document broken link tables.
func (w *MarkdownWriter) writeBrokenLinks(md *markdown.Markdown, report *model.Report) {
	md.H2("Broken Links")
	md.PlainText("")

	if report.Success() {
		md.PlainText("No broken links found.")
		md.PlainText("")
		return
	}

	for _, id := range report.DocumentOrder {
		var rows [][]string
		for i := range report.Results[id] {
			res := &report.Results[id][i]
			if res.Status != model.StatusFailure {
				continue
			}

			status := "-"
			if res.HTTPStatus != 0 {
				status = strconv.Itoa(res.HTTPStatus)
			}
			detail := res.Detail
			if detail == "" {
				detail = "-"
			}

			rows = append(rows, []string{
				strconv.Itoa(res.Line),
				"`" + truncateString(res.Link, 60) + "`",
				label(res.FailureReason),
				status,
				truncateString(detail, 50),
			})
		}
		if len(rows) == 0 {
			continue
		}

		md.H3(id)
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Line", "Link", "Reason", "HTTP", "Detail"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
