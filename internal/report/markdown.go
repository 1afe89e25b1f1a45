package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/onethinglab/nomixedcontent/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
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

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeAlert(md, report)
	w.writeFindings(md, report)
	w.writeErrors(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("Mixed Content Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Target + "`"},
			{"Scan Date", report.ScannedAt.Format("2006-01-02 15:04:05 MST")},
			{"Pages Crawled", strconv.Itoa(report.PagesCrawled)},
			{"Max Depth", strconv.Itoa(report.MaxDepth)},
			{"Insecure References", strconv.Itoa(report.TotalResources())},
			{"Affected Pages", strconv.Itoa(len(report.Findings))},
		},
	})
	md.PlainText("")
}

// writeAlert writes an alert matching the scan outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ScanReport) {
	switch {
	case report.HasFindings():
		md.Warningf(
			"Mixed content detected: %d insecure reference(s) across %d page(s). Browsers may block or warn about these resources.",
			report.TotalResources(), len(report.Findings),
		)
	default:
		md.Tip("No mixed content detected.")
	}
	md.PlainText("")
}

// writeFindings writes one section per affected page.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Findings")
	md.PlainText("")

	if !report.HasFindings() {
		md.PlainText("No insecure sub-resources were found on any crawled page.")
		md.PlainText("")
		return
	}

	for _, finding := range report.Findings {
		md.H3(finding.PageURL)
		md.PlainText("")

		items := make([]string, 0, len(finding.Resources))
		for _, resource := range finding.Resources {
			items = append(items, "`"+resource+"`")
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

// writeErrors writes the contained per-URL failures, if any.
func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, report *model.ScanReport) {
	if len(report.Errors) == 0 {
		return
	}

	md.H2("Skipped URLs")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Errors))
	for _, e := range report.Errors {
		rows = append(rows, []string{"`" + e.URL + "`", e.Message})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Cause"},
		Rows:   rows,
	})
	md.PlainText("")
}
