package cli

import (
	"fmt"
	"io"

	"github.com/emenda-labs/declguard/core/diffspec"
)

// PrintReport writes a plain-text summary of report to w, grouped into
// breaking changes, additions and failed symbols.
func PrintReport(w io.Writer, report diffspec.Report) {
	fmt.Fprintf(w, "Package:          %s\n", report.Package)
	fmt.Fprintf(w, "Baseline version: %s\n", report.BaselineVersion)
	fmt.Fprintf(w, "Current version:  %s\n", report.CurrentVersion)

	var breaking, added []string
	for _, s := range report.Symbols {
		for _, p := range s.Pairs {
			line := fmt.Sprintf("%s %s: %s", s.Kind, s.Name, p)
			if p.IsBreaking() {
				breaking = append(breaking, line)
			} else if p.Reasons == diffspec.ReasonAdded {
				added = append(added, line)
			}
		}
	}

	printSection(w, "Breaking changes", breaking)
	printSection(w, "Added", added)

	var failed []string
	for _, s := range report.Failures() {
		failed = append(failed, fmt.Sprintf("%s %s: %v", s.Kind, s.Name, s.Err))
	}
	printSection(w, "Failed", failed)

	if len(breaking) == 0 && len(added) == 0 && len(failed) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No API changes.")
	}
}

func printSection(w io.Writer, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s (%d):\n", title, len(lines))
	for _, line := range lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
