// Package format renders a ContributionSet for the terminal.
package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/jmanhart/git-memories/internal/domain"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	yearColor   = color.New(color.FgYellow, color.Bold)
	repoColor   = color.New(color.FgGreen)
	dimColor    = color.New(color.Faint)
)

// Render writes the discovered contributions grouped by year, newest first,
// exactly in the order the set carries them.
func Render(w io.Writer, set domain.ContributionSet, month time.Month, day int) {
	headerColor.Fprintf(w, "On this day, %s %d\n", month, day)
	if len(set) == 0 {
		dimColor.Fprintln(w, "No contributions found on this day in any year.")
		return
	}

	for _, year := range set {
		fmt.Fprintln(w)
		yearColor.Fprintf(w, "%d\n", year.Year)
		for _, c := range year.Commits {
			repoColor.Fprintf(w, "  %s", c.Repo)
			fmt.Fprintf(w, "  %s\n", firstLine(c.Message))
			dimColor.Fprintf(w, "    %s  %s\n", c.Date.Format("15:04 MST"), c.URL)
		}
		for _, pr := range year.PullRequests {
			repoColor.Fprintf(w, "  %s", pr.Repo)
			fmt.Fprintf(w, "  PR [%s] %s\n", pr.State, pr.Title)
			dimColor.Fprintf(w, "    %s\n", pr.URL)
		}
	}
}

// RenderSummary writes the aggregate statistics block.
func RenderSummary(w io.Writer, s domain.Summary) {
	fmt.Fprintln(w)
	headerColor.Fprintln(w, "Summary")
	fmt.Fprintf(w, "  Active years:        %d\n", s.ActiveYears)
	fmt.Fprintf(w, "  Total commits:       %d\n", s.TotalCommits)
	fmt.Fprintf(w, "  Total pull requests: %d\n", s.TotalPullRequests)
	if s.ActiveYears > 0 {
		fmt.Fprintf(w, "  Commits per year:    mean %.1f, median %.1f\n", s.MeanCommits, s.MedianCommits)
		fmt.Fprintf(w, "  Busiest year:        %d (%d commits)\n", s.BusiestYear, s.MaxCommits)
	}
}

// firstLine trims a commit message to its subject line.
func firstLine(msg string) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimSpace(msg)
}
