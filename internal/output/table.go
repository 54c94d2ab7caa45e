package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/crumbwatch/crumbwatch/internal/engine"
	"github.com/crumbwatch/crumbwatch/internal/format"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

// TableFormatter formats output as a terminal table.
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8.
func hyperlink(text, url string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// Report renders a scan report: headline counters, the complexity
// spread, intervention effectiveness, and the most reliable
// contributors.
func (f *TableFormatter) Report(analytics *model.Analytics, w io.Writer) error {
	fmt.Fprintf(w, "%s %s\n\n", color.New(color.Bold).Sprint("Scan report for"), analytics.RepositoryID)

	fmt.Fprintf(w, "  Issues analyzed   %d\n", analytics.IssuesAnalyzed)
	fmt.Fprintf(w, "  Claims detected   %d\n", analytics.ClaimsDetected)
	fmt.Fprintf(w, "  Claims resolved   %d\n", analytics.ClaimsResolved)
	fmt.Fprintf(w, "  Nudges sent       %s\n", colorCount(analytics.NudgesSent, color.FgYellow))
	fmt.Fprintf(w, "  Auto-released     %s\n", colorCount(analytics.AutoReleased, color.FgRed))
	if analytics.ClaimsResolved > 0 {
		fmt.Fprintf(w, "  Avg resolution    %.1f days\n", analytics.AverageResolutionDays)
	}
	if len(analytics.Interventions) > 0 {
		fmt.Fprintf(w, "  Success rate      %s\n", format.FormatPercent(analytics.SuccessRate))
	}

	if len(analytics.ComplexityDistribution) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprint("Complexity"))
		for _, c := range []model.Complexity{model.ComplexityLow, model.ComplexityMedium, model.ComplexityHigh} {
			fmt.Fprintf(w, "  %-8s %d\n", c, analytics.ComplexityDistribution[c])
		}
	}

	if len(analytics.InterventionEffect) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprint("Intervention effectiveness"))
		types := make([]string, 0, len(analytics.InterventionEffect))
		for t := range analytics.InterventionEffect {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(w, "  %-14s %s\n", t, format.FormatPercent(analytics.InterventionEffect[model.InterventionType(t)]))
		}
	}

	if len(analytics.TopContributors) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprint("Top contributors"))
		const (
			colUser = 24
			colRel  = 11
			colDone = 9
		)
		fmt.Fprintf(w, "  %-*s %-*s %-*s %s\n", colUser, "User", colRel, "Reliability", colDone, "Completed", "Abandoned")
		fmt.Fprintf(w, "  %s\n", strings.Repeat("-", colUser+colRel+colDone+12))
		for _, c := range analytics.TopContributors {
			user, width := format.TruncateToWidth(c.Username, colUser)
			fmt.Fprintf(w, "  %s %s %-*d %d\n",
				format.PadRight(user, width, colUser),
				format.PadRight(colorReliability(c.ReliabilityScore), len(fmt.Sprintf("%.0f", c.ReliabilityScore)), colRel),
				colDone, c.CompletedIssues,
				c.AbandonedIssues)
		}
	}

	return nil
}

// Outlook renders a candidate ranking. Assigned issues show a single
// forecast block; unassigned issues show the ranked claimants.
func (f *TableFormatter) Outlook(issueRef string, outlook *engine.IssueOutlook, w io.Writer) error {
	fmt.Fprintf(w, "%s %s\n\n", color.New(color.Bold).Sprint("Candidates for"), issueRef)

	if outlook.Assigned != nil {
		a := outlook.Assigned
		fmt.Fprintf(w, "  Assigned to       %s\n", a.Username)
		fmt.Fprintf(w, "  Completion odds   %s\n", colorProbability(a.CompletionProbability))
		fmt.Fprintf(w, "  Estimated days    %d\n", a.EstimatedDays)
		fmt.Fprintf(w, "  Open PRs          %d\n", a.OpenPRs)
		fmt.Fprintf(w, "  Success rate      %.0f%%\n", a.SuccessRate)
		fmt.Fprintf(w, "  Activity          %s\n", a.ActivityLevel)
		return nil
	}

	if len(outlook.Candidates) == 0 {
		fmt.Fprintln(w, "  No claimants found.")
		return nil
	}

	const (
		colUser  = 20
		colScore = 7
		colRel   = 7
		colPRs   = 5
		colAge   = 5
	)
	claimWidth := claimColumnWidth(colUser + colScore + colRel + colPRs + colAge + 18)

	fmt.Fprintf(w, "  %-*s %-*s %-*s %-*s %-*s %-7s %s\n",
		colUser, "User", colScore, "Score", colRel, "Rel", colPRs, "PRs", colAge, "Age", "Status", "Claim")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", colUser+colScore+colRel+colPRs+colAge+claimWidth+14))

	for _, c := range outlook.Candidates {
		user, width := format.TruncateToWidth(c.Username, colUser)
		claim, _ := format.TruncateToWidth(strings.ReplaceAll(c.ClaimText, "\n", " "), claimWidth)
		claimedAt, _ := time.Parse(time.RFC3339, c.ClaimedAt)
		fmt.Fprintf(w, "  %s %-*.0f %-*.0f %-*d %-*s %-7s %s\n",
			format.PadRight(user, width, colUser),
			colScore, c.PredictiveScore,
			colRel, c.ReliabilityScore,
			colPRs, c.SuccessfulPRs,
			colAge, format.FormatAge(time.Since(claimedAt)),
			colorStatus(c.Status),
			claim)
	}

	return nil
}

// claimColumnWidth sizes the free-text claim column to the remaining
// terminal width, with a sane floor when width detection fails.
func claimColumnWidth(fixed int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 120
	}
	remaining := width - fixed
	if remaining < 20 {
		return 20
	}
	return remaining
}

func colorCount(n int, attr color.Attribute) string {
	if n == 0 {
		return "0"
	}
	return color.New(attr).Sprintf("%d", n)
}

func colorReliability(score float64) string {
	switch {
	case score >= 80:
		return color.GreenString("%.0f", score)
	case score >= 40:
		return color.YellowString("%.0f", score)
	default:
		return color.RedString("%.0f", score)
	}
}

func colorProbability(p float64) string {
	switch {
	case p >= 70:
		return color.GreenString("%.0f%%", p)
	case p >= 40:
		return color.YellowString("%.0f%%", p)
	default:
		return color.RedString("%.0f%%", p)
	}
}

func colorStatus(status string) string {
	if status == "stale" {
		return color.YellowString("%-7s", status)
	}
	return fmt.Sprintf("%-7s", status)
}
