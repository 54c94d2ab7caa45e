package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/crumbwatch/crumbwatch/internal/engine"
	"github.com/crumbwatch/crumbwatch/internal/format"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

// MarkdownFormatter formats output as Markdown.
type MarkdownFormatter struct{}

// Report outputs a scan report as Markdown.
func (f *MarkdownFormatter) Report(analytics *model.Analytics, w io.Writer) error {
	fmt.Fprintf(w, "# Claim Report: %s\n", analytics.RepositoryID)
	fmt.Fprintf(w, "\n*Generated: %s*\n\n", time.Now().Format("2006-01-02 15:04"))

	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|--------|-------|")
	fmt.Fprintf(w, "| Issues analyzed | %d |\n", analytics.IssuesAnalyzed)
	fmt.Fprintf(w, "| Claims detected | %d |\n", analytics.ClaimsDetected)
	fmt.Fprintf(w, "| Claims resolved | %d |\n", analytics.ClaimsResolved)
	fmt.Fprintf(w, "| Nudges sent | %d |\n", analytics.NudgesSent)
	fmt.Fprintf(w, "| Auto-released | %d |\n", analytics.AutoReleased)
	if analytics.ClaimsResolved > 0 {
		fmt.Fprintf(w, "| Avg resolution days | %.1f |\n", analytics.AverageResolutionDays)
	}
	if len(analytics.Interventions) > 0 {
		fmt.Fprintf(w, "| Intervention success rate | %s |\n", format.FormatPercent(analytics.SuccessRate))
	}

	if len(analytics.ComplexityDistribution) > 0 {
		fmt.Fprintln(w, "\n## Complexity Distribution")
		fmt.Fprintln(w, "")
		for _, c := range []model.Complexity{model.ComplexityLow, model.ComplexityMedium, model.ComplexityHigh} {
			fmt.Fprintf(w, "- **%s**: %d\n", c, analytics.ComplexityDistribution[c])
		}
	}

	if len(analytics.InterventionEffect) > 0 {
		fmt.Fprintln(w, "\n## Intervention Effectiveness")
		fmt.Fprintln(w, "")
		types := make([]string, 0, len(analytics.InterventionEffect))
		for t := range analytics.InterventionEffect {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(w, "- **%s**: %s\n", t, format.FormatPercent(analytics.InterventionEffect[model.InterventionType(t)]))
		}
	}

	if len(analytics.TopContributors) > 0 {
		fmt.Fprintln(w, "\n## Top Contributors")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "| User | Reliability | Completed | Abandoned |")
		fmt.Fprintln(w, "|------|-------------|-----------|-----------|")
		for _, c := range analytics.TopContributors {
			fmt.Fprintf(w, "| %s | %.0f | %d | %d |\n",
				c.Username, c.ReliabilityScore, c.CompletedIssues, c.AbandonedIssues)
		}
	}

	return nil
}

// Outlook outputs a candidate ranking as Markdown.
func (f *MarkdownFormatter) Outlook(issueRef string, outlook *engine.IssueOutlook, w io.Writer) error {
	fmt.Fprintf(w, "# Candidates: %s\n\n", issueRef)

	if outlook.Assigned != nil {
		a := outlook.Assigned
		fmt.Fprintf(w, "Assigned to **%s**\n\n", a.Username)
		fmt.Fprintln(w, "| Metric | Value |")
		fmt.Fprintln(w, "|--------|-------|")
		fmt.Fprintf(w, "| Completion probability | %.0f%% |\n", a.CompletionProbability)
		fmt.Fprintf(w, "| Estimated days | %d |\n", a.EstimatedDays)
		fmt.Fprintf(w, "| Open PRs | %d |\n", a.OpenPRs)
		fmt.Fprintf(w, "| Success rate | %.0f%% |\n", a.SuccessRate)
		fmt.Fprintf(w, "| Activity | %s |\n", a.ActivityLevel)
		return nil
	}

	if len(outlook.Candidates) == 0 {
		fmt.Fprintln(w, "No claimants found.")
		return nil
	}

	fmt.Fprintln(w, "| User | Score | Reliability | Merged PRs | Days Since Claim | Status | Claim |")
	fmt.Fprintln(w, "|------|-------|-------------|------------|------------------|--------|-------|")
	for _, c := range outlook.Candidates {
		claim := strings.ReplaceAll(c.ClaimText, "\n", " ")
		claim = strings.ReplaceAll(claim, "|", "\\|")
		fmt.Fprintf(w, "| %s | %.0f | %.0f | %d | %d | %s | %s |\n",
			c.Username, c.PredictiveScore, c.ReliabilityScore,
			c.SuccessfulPRs, c.DaysSinceClaim, c.Status, claim)
	}

	return nil
}
