package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/onethinglab/nomixedcontent/internal/model"
)

// ConsoleWriter outputs human-readable text reports for terminal display.
//
// Design decision: plain text with ASCII formatting rather than ANSI
// colors, so the output pipes cleanly to files and other tools.
type ConsoleWriter struct {
	baseWriter

	// showErrors includes the contained per-URL failures in the output.
	showErrors bool
}

// ConsoleWriterOption configures a ConsoleWriter.
type ConsoleWriterOption func(*ConsoleWriter)

// WithShowErrors includes contained per-URL failures in the output.
func WithShowErrors(show bool) ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.showErrors = show
	}
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given writer.
func NewConsoleWriter(output io.Writer, opts ...ConsoleWriterOption) *ConsoleWriter {
	w := &ConsoleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *ConsoleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeFindings(&sb, report)
	if w.showErrors {
		w.writeErrors(&sb, report)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the scan summary.
func (w *ConsoleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("MIXED CONTENT SCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Target:        %s\n", report.Target)
	fmt.Fprintf(sb, "Scan Date:     %s\n", report.ScannedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Pages Crawled: %d\n", report.PagesCrawled)
	fmt.Fprintf(sb, "Max Depth:     %d\n", report.MaxDepth)
	fmt.Fprintf(sb, "Findings:      %d insecure reference(s) on %d page(s)\n",
		report.TotalResources(), len(report.Findings))
	sb.WriteString("\n")
}

// writeFindings writes one section per affected page.
func (w *ConsoleWriter) writeFindings(sb *strings.Builder, report *model.ScanReport) {
	if !report.HasFindings() {
		sb.WriteString("No mixed content found.\n")
		return
	}

	for _, finding := range report.Findings {
		fmt.Fprintf(sb, ">> Mixed content for %s:\n", finding.PageURL)
		for _, resource := range finding.Resources {
			sb.WriteString(resource)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
}

// writeErrors writes the contained per-URL failures.
func (w *ConsoleWriter) writeErrors(sb *strings.Builder, report *model.ScanReport) {
	if len(report.Errors) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SKIPPED URLS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, e := range report.Errors {
		fmt.Fprintf(sb, "  %s: %s\n", e.URL, e.Message)
	}
	sb.WriteString("\n")
}
