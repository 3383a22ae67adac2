// internal/report/report.go
//
// Terminal rendering of a build outcome: the findings, the per-diagram
// render mode and the final verdict. This is the human-facing digest; the
// generated site carries the same information for anyone who only looks
// at the output directory.

package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docsmith/internal/diagram"
	"docsmith/internal/pipeline"
	"docsmith/internal/trace"
)

var (
	passStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	fallbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

// Render produces the multi-line terminal report for a completed run.
func Render(result pipeline.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Requirements: %d high-level, %d software\n",
		result.HighLevel.Len(), result.Software.Len())

	for _, f := range result.Report.Findings {
		sb.WriteString(renderFinding(f))
		sb.WriteByte('\n')
	}

	for _, d := range result.Diagrams {
		sb.WriteString(renderDiagram(d))
		sb.WriteByte('\n')
	}

	if result.OutputDir != "" {
		fmt.Fprintf(&sb, "%s\n", detailStyle.Render(
			fmt.Sprintf("%d pages written to %s", result.Pages, result.OutputDir)))
	}

	verdict := passStyle.Render("PASS")
	if !result.Success() {
		verdict = failStyle.Render("FAIL")
	}
	fmt.Fprintf(&sb, "%s  %d error(s), %d warning(s), %d fallback(s)\n",
		verdict, result.Report.ErrorCount(), result.Report.WarningCount(), result.FallbackCount())

	return sb.String()
}

func renderFinding(f trace.Finding) string {
	label := warningStyle.Render("warning")
	if f.Severity == trace.SeverityError {
		label = errorStyle.Render("error")
	}
	return fmt.Sprintf("  %s %s: %s", label, f.Subject, f.Message)
}

func renderDiagram(d diagram.Rendered) string {
	if d.Mode == diagram.ModeFallback {
		return fmt.Sprintf("  %s %s (%s)",
			fallbackStyle.Render("fallback"), d.Kind.Title(), d.Reason)
	}
	return fmt.Sprintf("  %s %s", detailStyle.Render("remote"), d.Kind.Title())
}
