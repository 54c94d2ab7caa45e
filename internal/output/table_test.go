package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/crumbwatch/crumbwatch/internal/engine"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

func init() {
	color.NoColor = true
}

func sampleAnalytics() *model.Analytics {
	return &model.Analytics{
		RepositoryID:          "octo/widgets",
		IssuesAnalyzed:        12,
		ClaimsDetected:        5,
		ClaimsResolved:        2,
		AutoReleased:          1,
		NudgesSent:            3,
		AverageResolutionDays: 4.5,
		SuccessRate:           0.5,
		ComplexityDistribution: map[model.Complexity]int{
			model.ComplexityLow:    6,
			model.ComplexityMedium: 4,
			model.ComplexityHigh:   2,
		},
		InterventionEffect: map[model.InterventionType]float64{
			model.InterventionNudge: 0.5,
		},
		TopContributors: []*model.Contributor{
			{Username: "alice", ReliabilityScore: 85, CompletedIssues: 4},
			{Username: "bob", ReliabilityScore: 30, CompletedIssues: 1, AbandonedIssues: 3},
		},
		Interventions: []*model.Intervention{{ID: "x", Success: true}, {ID: "y"}},
	}
}

func TestTableReport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Report(sampleAnalytics(), &buf); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"octo/widgets",
		"Issues analyzed   12",
		"Claims detected   5",
		"Auto-released     1",
		"Avg resolution    4.5 days",
		"Success rate      50%",
		"Top contributors",
		"alice",
		"bob",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q in:\n%s", want, out)
		}
	}
}

func TestTableReportOmitsEmptySections(t *testing.T) {
	var buf bytes.Buffer
	analytics := &model.Analytics{RepositoryID: "octo/empty"}
	if err := (&TableFormatter{}).Report(analytics, &buf); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Top contributors") {
		t.Errorf("empty report should omit contributor section:\n%s", out)
	}
	if strings.Contains(out, "Avg resolution") {
		t.Errorf("empty report should omit resolution line:\n%s", out)
	}
}

func TestTableOutlook(t *testing.T) {
	outlook := &engine.IssueOutlook{
		Candidates: []*engine.Candidate{
			{
				Username:         "carol",
				ClaimText:        "I'll take this one",
				ClaimedAt:        time.Now().Add(-48 * time.Hour).Format(time.RFC3339),
				DaysSinceClaim:   2,
				PredictiveScore:  72,
				ReliabilityScore: 90,
				SuccessfulPRs:    3,
				Status:           "active",
			},
		},
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Outlook("octo/widgets#7", outlook, &buf); err != nil {
		t.Fatalf("Outlook() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"octo/widgets#7", "carol", "72", "I'll take this one", "active"} {
		if !strings.Contains(out, want) {
			t.Errorf("outlook missing %q in:\n%s", want, out)
		}
	}
}

func TestTableOutlookAssigned(t *testing.T) {
	outlook := &engine.IssueOutlook{
		Assigned: &engine.AssignedOutlook{
			Username:              "dave",
			CompletionProbability: 85,
			EstimatedDays:         4,
			SuccessRate:           90,
			ActivityLevel:         "high",
		},
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Outlook("octo/widgets#9", outlook, &buf); err != nil {
		t.Fatalf("Outlook() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"dave", "85%", "high"} {
		if !strings.Contains(out, want) {
			t.Errorf("assigned outlook missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "No claimants") {
		t.Errorf("assigned outlook should not fall through to candidates:\n%s", out)
	}
}

func TestJSONReportRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Report(sampleAnalytics(), &buf); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var decoded model.Analytics
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RepositoryID != "octo/widgets" || decoded.IssuesAnalyzed != 12 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestMarkdownReport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownFormatter{}).Report(sampleAnalytics(), &buf); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Claim Report: octo/widgets",
		"| Issues analyzed | 12 |",
		"## Top Contributors",
		"| alice | 85 | 4 | 0 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q in:\n%s", want, out)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json format did not produce JSONFormatter")
	}
	if _, ok := NewFormatter(FormatMarkdown).(*MarkdownFormatter); !ok {
		t.Error("markdown format did not produce MarkdownFormatter")
	}
	if _, ok := NewFormatter("bogus").(*TableFormatter); !ok {
		t.Error("unknown format did not fall back to TableFormatter")
	}
}
