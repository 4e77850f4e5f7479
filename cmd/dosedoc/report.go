package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dosedoc/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderSummary formats a run for the terminal: per-section tallies, failing
// case detail, and the document-level line.
func renderSummary(title string, sum *types.TestSummary) string {
	var b strings.Builder

	if title == "" {
		title = "document"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	for _, sr := range sum.SectionResults {
		status := passStyle.Render("ok")
		if sr.Failed > 0 {
			status = failStyle.Render("FAIL")
		}
		fmt.Fprintf(&b, "  section %-4d %s  %d passed, %d failed\n",
			sr.SectionID, status, sr.Passed, sr.Failed)

		for _, res := range sr.Results {
			if res.Passed {
				continue
			}
			if res.Error != "" {
				fmt.Fprintf(&b, "    %s %s\n", failStyle.Render("error:"), res.Error)
				continue
			}
			if !res.OutputPassed {
				fmt.Fprintf(&b, "    %s %s\n", failStyle.Render("output:"),
					dimStyle.Render(res.Output))
			}
			for _, m := range res.StyleMismatches {
				fmt.Fprintf(&b, "    %s %s: want %q, got %q\n",
					failStyle.Render("style:"), m.Property, m.Expected, m.Actual)
			}
		}
	}

	line := fmt.Sprintf("%d/%d tests passed across %d of %d sections",
		sum.PassedTests, sum.TotalTests, sum.SectionsWithTests, sum.TotalSections)
	if sum.FailedTests > 0 {
		b.WriteString(failStyle.Render(line))
	} else {
		b.WriteString(passStyle.Render(line))
	}
	b.WriteString("\n")
	return b.String()
}

func renderHistoryLine(sum *types.TestSummary) string {
	status := passStyle.Render("ok")
	if sum.FailedTests > 0 {
		status = failStyle.Render("FAIL")
	}
	return fmt.Sprintf("%s  %s  %d/%d passed\n",
		dimStyle.Render(sum.Timestamp.Format("2006-01-02 15:04:05")),
		status, sum.PassedTests, sum.TotalTests)
}
