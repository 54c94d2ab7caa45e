package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/crumbwatch/crumbwatch/internal/classify"
	"github.com/crumbwatch/crumbwatch/internal/log"
	"github.com/crumbwatch/crumbwatch/internal/model"
	"github.com/crumbwatch/crumbwatch/internal/reliability"
)

// Candidate is one claimant on an unassigned issue, ranked by how likely
// they are to deliver.
type Candidate struct {
	Username              string  `json:"username"`
	AvatarURL             string  `json:"avatarUrl,omitempty"`
	ClaimText             string  `json:"claimText"`
	ClaimedAt             string  `json:"claimedAt"`
	DaysSinceClaim        int     `json:"daysSinceClaim"`
	PredictiveScore       float64 `json:"predictiveScore"`
	ReliabilityScore      float64 `json:"reliabilityScore"`
	PreviousContributions int     `json:"previousContributions"`
	SuccessfulPRs         int     `json:"successfulPRs"`
	AvgCompletionDays     int     `json:"avgCompletionDays"`
	Status                string  `json:"status"`
}

// AssignedOutlook forecasts whether an issue's assignee will deliver.
type AssignedOutlook struct {
	Username              string  `json:"username"`
	AvatarURL             string  `json:"avatarUrl,omitempty"`
	CompletionProbability float64 `json:"completionProbability"`
	EstimatedDays         int     `json:"estimatedDays"`
	OpenPRs               int     `json:"currentPRs"`
	SuccessRate           float64 `json:"successRate"`
	ActivityLevel         string  `json:"activityLevel"`
}

// IssueOutlook is the candidate view for one issue: either an assignee
// forecast, or the ranked claimants of an unassigned issue.
type IssueOutlook struct {
	Assigned   *AssignedOutlook `json:"assignedContributor,omitempty"`
	Candidates []*Candidate     `json:"candidates"`
}

// RankCandidates evaluates who is positioned to deliver an issue. For an
// assigned issue it forecasts the assignee; otherwise it ranks everyone
// who claimed the issue in its comment thread by predictive score.
func (e *Engine) RankCandidates(ctx context.Context, owner, repo string, number int) (*IssueOutlook, error) {
	issue, err := e.gh.GetIssue(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching issue %s/%s#%d: %w", owner, repo, number, err)
	}

	if len(issue.Assignees) > 0 {
		outlook := e.assignedOutlook(ctx, owner, repo, issue.Assignees[0], issue.UpdatedAt)
		return &IssueOutlook{Assigned: outlook, Candidates: []*Candidate{}}, nil
	}

	comments, err := e.gh.ListIssueComments(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching comments for %s/%s#%d: %w", owner, repo, number, err)
	}

	var candidates []*Candidate
	seen := map[string]bool{}
	for _, comment := range comments {
		if !classify.DetectClaim(comment.Body) || seen[comment.Author] {
			continue
		}
		seen[comment.Author] = true
		candidates = append(candidates, e.evaluateCandidate(ctx, owner, repo, comment))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PredictiveScore > candidates[j].PredictiveScore
	})

	if candidates == nil {
		candidates = []*Candidate{}
	}
	return &IssueOutlook{Candidates: candidates}, nil
}

// evaluateCandidate scores one claimant from their pull request history in
// the repository. API failures degrade to neutral scores rather than
// dropping the candidate.
func (e *Engine) evaluateCandidate(ctx context.Context, owner, repo string, comment *model.Comment) *Candidate {
	daysSinceClaim := int(model.DaysSince(comment.CreatedAt, e.now()))

	candidate := &Candidate{
		Username:          comment.Author,
		AvatarURL:         comment.AvatarURL,
		ClaimText:         truncate(comment.Body, 150),
		ClaimedAt:         comment.CreatedAt.Format(time.RFC3339),
		DaysSinceClaim:    daysSinceClaim,
		PredictiveScore:   50,
		ReliabilityScore:  50,
		AvgCompletionDays: 7,
		Status:            "active",
	}
	if daysSinceClaim > 7 {
		candidate.Status = "stale"
	}

	prs, err := e.gh.ListPullRequestsByAuthor(ctx, owner, repo, comment.Author)
	if err != nil {
		log.Warn("failed to fetch candidate PRs", "user", comment.Author, "error", err)
		return candidate
	}

	merged, avgDays := prStats(prs)
	candidate.PreviousContributions = len(prs)
	candidate.SuccessfulPRs = merged
	candidate.AvgCompletionDays = avgDays
	candidate.ReliabilityScore = math.Round(reliability.FromPullRequests(merged, len(prs)))

	contributor := &model.Contributor{
		ReliabilityScore:      candidate.ReliabilityScore,
		TotalContributions:    len(prs),
		AverageCompletionDays: float64(avgDays),
	}
	candidate.PredictiveScore = reliability.CandidateScore(contributor, float64(daysSinceClaim))

	return candidate
}

// assignedOutlook forecasts the assignee's delivery from their PR history
// and recent issue activity.
func (e *Engine) assignedOutlook(ctx context.Context, owner, repo, username string, lastActivity time.Time) *AssignedOutlook {
	outlook := &AssignedOutlook{
		Username:              username,
		CompletionProbability: 50,
		EstimatedDays:         7,
		SuccessRate:           50,
		ActivityLevel:         "none",
	}

	if _, _, avatarURL, err := e.gh.GetUser(ctx, username); err == nil {
		outlook.AvatarURL = avatarURL
	}

	prs, err := e.gh.ListPullRequestsByAuthor(ctx, owner, repo, username)
	if err != nil {
		log.Warn("failed to fetch assignee PRs", "user", username, "error", err)
		return outlook
	}

	var open int
	for _, pr := range prs {
		if pr.State == "open" {
			open++
		}
	}
	merged, avgDays := prStats(prs)

	successRate := 50.0
	if len(prs) > 0 {
		successRate = math.Round(float64(merged) / float64(len(prs)) * 100)
	}

	daysSinceActivity := model.DaysSince(lastActivity, e.now())
	activityLevel := "none"
	switch {
	case daysSinceActivity < 3:
		activityLevel = "high"
	case daysSinceActivity < 7:
		activityLevel = "medium"
	case daysSinceActivity < 14:
		activityLevel = "low"
	}

	probability := 70.0
	probability += (successRate - 50) * 0.3
	switch activityLevel {
	case "high":
		probability += 20
	case "medium":
		probability += 10
	case "low":
		probability -= 10
	default:
		probability -= 30
	}
	if open > 3 {
		probability -= 15
	} else if open > 1 {
		probability -= 5
	}
	if probability < 0 {
		probability = 0
	} else if probability > 100 {
		probability = 100
	}

	outlook.CompletionProbability = math.Round(probability)
	outlook.EstimatedDays = avgDays
	outlook.OpenPRs = open
	outlook.SuccessRate = successRate
	outlook.ActivityLevel = activityLevel
	return outlook
}

func prStats(prs []*model.PullRequest) (merged, avgCompletionDays int) {
	var totalDays, completed int
	for _, pr := range prs {
		if !pr.Merged() {
			continue
		}
		merged++
		totalDays += int(pr.MergedAt.Sub(pr.CreatedAt).Hours() / 24)
		completed++
	}
	if completed == 0 {
		return merged, 7
	}
	return merged, int(math.Round(float64(totalDays) / float64(completed)))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
