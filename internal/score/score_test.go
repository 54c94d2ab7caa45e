package score

import (
	"testing"
	"time"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func claimAgedDays(days int) *model.IssueClaim {
	return &model.IssueClaim{
		ClaimedAt:   now.AddDate(0, 0, -days),
		Contributor: &model.Contributor{ReliabilityScore: 100},
	}
}

func TestRisk(t *testing.T) {
	tests := []struct {
		name     string
		claim    *model.IssueClaim
		analysis *model.IssueAnalysis
		want     float64
	}{
		{
			name:     "fresh low complexity claim",
			claim:    claimAgedDays(0),
			analysis: &model.IssueAnalysis{Complexity: model.ComplexityLow},
			want:     20, // progress gap only
		},
		{
			name:     "week-old medium complexity claim",
			claim:    claimAgedDays(8),
			analysis: &model.IssueAnalysis{Complexity: model.ComplexityMedium},
			want:     75, // 40 age cap + 15 complexity + 20 progress gap
		},
		{
			name: "unreliable serial abandoner on hard issue",
			claim: &model.IssueClaim{
				ClaimedAt: now.AddDate(0, 0, -3),
				Contributor: &model.Contributor{
					ReliabilityScore: 20,
					CompletedIssues:  1,
					AbandonedIssues:  3,
				},
			},
			analysis: &model.IssueAnalysis{Complexity: model.ComplexityHigh},
			// 15 age + 24 reliability + 18.75 abandonment + 30 complexity + 20 progress
			want: 100,
		},
		{
			name: "progress pulls risk down",
			claim: &model.IssueClaim{
				ClaimedAt:     now.AddDate(0, 0, -2),
				ProgressScore: 100,
				Contributor:   &model.Contributor{ReliabilityScore: 100},
			},
			analysis: &model.IssueAnalysis{Complexity: model.ComplexityLow},
			want:     10, // age only
		},
		{
			name:     "extreme age clamps cleanly",
			claim:    claimAgedDays(10000),
			analysis: &model.IssueAnalysis{Complexity: model.ComplexityHigh},
			want:     90, // 40 + 30 + 20, no overflow past the cap
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Risk(tt.claim, tt.analysis, now)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Risk() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompletionProbability(t *testing.T) {
	tests := []struct {
		name     string
		claim    *model.IssueClaim
		analysis *model.IssueAnalysis
		want     float64
	}{
		{
			name: "prolific reliable contributor on appealing easy issue",
			claim: &model.IssueClaim{
				ClaimedAt: now,
				Contributor: &model.Contributor{
					ReliabilityScore:   90,
					TotalContributions: 1000,
				},
			},
			analysis: &model.IssueAnalysis{Complexity: model.ComplexityLow, AppealScore: 100},
			want:     1, // 0.9 + 0.3 + 0.1 clamps
		},
		{
			name: "hard issue with stale nudged claim",
			claim: &model.IssueClaim{
				ClaimedAt:  now.AddDate(0, 0, -10),
				NudgesSent: 3,
				Contributor: &model.Contributor{
					ReliabilityScore:   50,
					TotalContributions: 0,
				},
			},
			analysis: &model.IssueAnalysis{Complexity: model.ComplexityHigh, AppealScore: 0},
			want:     0, // 0.5 - 0.2 - 0.2 - 0.15 floors at zero
		},
		{
			name: "moderate age penalty between three and seven days",
			claim: &model.IssueClaim{
				ClaimedAt:   now.AddDate(0, 0, -5),
				Contributor: &model.Contributor{ReliabilityScore: 60},
			},
			analysis: &model.IssueAnalysis{Complexity: model.ComplexityMedium, AppealScore: 50},
			want:     0.6 - 0.1 + 0.05 - 0.1,
		},
		{
			name: "unknown contributor floors at zero",
			claim: &model.IssueClaim{
				ClaimedAt:  now.AddDate(0, 0, -10000),
				NudgesSent: 10,
				Contributor: &model.Contributor{
					ReliabilityScore:   0,
					TotalContributions: 0,
				},
			},
			analysis: &model.IssueAnalysis{Complexity: model.ComplexityHigh, AppealScore: 0},
			want:     0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompletionProbability(tt.claim, tt.analysis, now)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("CompletionProbability() = %v, want %v", got, tt.want)
			}
		})
	}
}
