package reliability

import (
	"testing"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		abandoned int
		want      float64
	}{
		{"no history is neutral", 0, 0, 50},
		{"perfect record", 10, 0, 80},
		{"all abandoned", 0, 10, 10},
		{"half and half", 5, 5, 45},
		{"mostly completes", 9, 1, 73},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.completed, tt.abandoned)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Score(%d, %d) = %v, want %v", tt.completed, tt.abandoned, got, tt.want)
			}
		})
	}
}

func TestFromPullRequests(t *testing.T) {
	tests := []struct {
		name   string
		merged int
		total  int
		want   float64
	}{
		{"no PRs is neutral", 0, 0, 50},
		{"all merged", 4, 4, 100},
		{"none merged", 0, 3, 0},
		{"three quarters", 3, 4, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromPullRequests(tt.merged, tt.total); got != tt.want {
				t.Errorf("FromPullRequests(%d, %d) = %v, want %v", tt.merged, tt.total, got, tt.want)
			}
		})
	}
}

func TestCandidateScore(t *testing.T) {
	tests := []struct {
		name           string
		contributor    *model.Contributor
		daysSinceClaim float64
		want           float64
	}{
		{
			name: "fast reliable claimant",
			contributor: &model.Contributor{
				ReliabilityScore:      100,
				TotalContributions:    20,
				AverageCompletionDays: 5,
			},
			daysSinceClaim: 0,
			// 50 + 50*0.4 + 20*0.2 - 0 + 10*0.2
			want: 76,
		},
		{
			name: "stale claim erodes the score",
			contributor: &model.Contributor{
				ReliabilityScore:      50,
				TotalContributions:    0,
				AverageCompletionDays: 30,
			},
			daysSinceClaim: 30,
			// 50 - min(60,20)*0.2
			want: 46,
		},
		{
			name: "moderate speed bonus",
			contributor: &model.Contributor{
				ReliabilityScore:      50,
				TotalContributions:    5,
				AverageCompletionDays: 10,
			},
			daysSinceClaim: 0,
			// 50 + 10*0.2 + 5*0.2
			want: 53,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CandidateScore(tt.contributor, tt.daysSinceClaim); got != tt.want {
				t.Errorf("CandidateScore() = %v, want %v", got, tt.want)
			}
		})
	}
}
