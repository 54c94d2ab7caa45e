// Package analyze derives per-issue metrics from GitHub issue content:
// complexity buckets, difficulty and appeal scores, effort estimates and
// claim extraction from comment threads.
package analyze

import (
	"math"
	"strings"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

// complexityKeywords contribute one point each to the complexity score
// when present in the issue title or body.
var complexityKeywords = []string{
	"architecture", "refactor", "performance", "optimization", "security",
	"database", "api", "integration", "testing", "documentation",
}

// difficultyKeywords add ten difficulty points each.
var difficultyKeywords = []string{"api", "database", "security", "performance", "optimization"}

// requirementMarkers signal that the issue states what done looks like.
var requirementMarkers = []string{
	"steps to reproduce", "expected behavior", "actual behavior",
	"requirements", "acceptance criteria", "todo", "checklist",
}

// Analyzer scores issues. The zero value is ready to use.
type Analyzer struct{}

// NewAnalyzer returns an issue analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Complexity buckets an issue as low, medium or high from body length,
// labels, domain keywords and embedded code blocks.
func (a *Analyzer) Complexity(issue *model.Issue) model.Complexity {
	score := 0

	if len(issue.Body) > 500 {
		score += 2
	}
	if len(issue.Body) > 1000 {
		score += 3
	}

	if issue.HasLabel("good first issue") || issue.HasLabel("beginner") {
		score -= 2
	}
	if issue.HasLabel("enhancement") || issue.HasLabel("feature") {
		score += 2
	}
	if issue.HasLabel("bug") {
		score++
	}

	text := strings.ToLower(issue.Title + " " + issue.Body)
	for _, kw := range complexityKeywords {
		if strings.Contains(text, kw) {
			score++
		}
	}

	score += codeBlockCount(issue.Body) / 2

	switch {
	case score <= 2:
		return model.ComplexityLow
	case score <= 5:
		return model.ComplexityMedium
	default:
		return model.ComplexityHigh
	}
}

// DifficultyScore rates how hard the issue looks on a 0-100 scale.
func (a *Analyzer) DifficultyScore(issue *model.Issue, complexity model.Complexity) float64 {
	var score float64
	switch complexity {
	case model.ComplexityLow:
		score = 20
	case model.ComplexityMedium:
		score = 50
	case model.ComplexityHigh:
		score = 80
	}

	text := strings.ToLower(issue.Title + " " + issue.Body)
	for _, kw := range difficultyKeywords {
		if strings.Contains(text, kw) {
			score += 10
		}
	}

	score += math.Min(20, float64(codeBlockCount(issue.Body))*5)

	// Thin issue bodies hide unknowns.
	if len(issue.Body) < 100 {
		score += 15
	}

	return math.Min(100, score)
}

// AppealScore rates how attractive the issue is to contributors on a
// 0-100 scale. Welcoming labels and small-sounding language raise it,
// blocked or contested issues sink it.
func (a *Analyzer) AppealScore(issue *model.Issue, complexity model.Complexity) float64 {
	score := 50.0

	labelBoosts := []struct {
		label string
		delta float64
	}{
		{"good first issue", 30},
		{"beginner", 25},
		{"help wanted", 20},
		{"documentation", 15},
		{"bug", 10},
		{"needs discussion", -20},
		{"blocked", -25},
		{"wontfix", -30},
	}
	for _, lb := range labelBoosts {
		if issue.HasLabel(lb.label) {
			score += lb.delta
		}
	}

	body := strings.ToLower(issue.Body)
	if strings.Contains(body, "todo") || strings.Contains(body, "fixme") {
		score += 10
	}
	if strings.Contains(body, "easy") || strings.Contains(body, "simple") {
		score += 15
	}
	if strings.Contains(body, "quick") || strings.Contains(body, "small") {
		score += 10
	}

	switch complexity {
	case model.ComplexityLow:
		score += 20
	case model.ComplexityMedium:
		score += 5
	case model.ComplexityHigh:
		score -= 10
	}

	return clamp(score, 0, 100)
}

// EstimatedEffort estimates hours of work for the issue.
func (a *Analyzer) EstimatedEffort(issue *model.Issue, complexity model.Complexity) float64 {
	var base float64
	switch complexity {
	case model.ComplexityLow:
		base = 2
	case model.ComplexityMedium:
		base = 8
	case model.ComplexityHigh:
		base = 24
	}

	multiplier := 1.0
	if len(issue.Body) > 1000 {
		multiplier += 0.5
	}
	if strings.Contains(issue.Body, "```") {
		multiplier += 0.3
	}
	body := strings.ToLower(issue.Body)
	if strings.Contains(body, "test") || strings.Contains(body, "testing") {
		multiplier += 0.2
	}

	return math.Round(base * multiplier)
}

// HasClearRequirements reports whether the issue spells out what a fix
// needs to cover.
func (a *Analyzer) HasClearRequirements(issue *model.Issue) bool {
	text := strings.ToLower(issue.Title + " " + issue.Body)
	for _, m := range requirementMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// HasTests reports whether the issue involves test work.
func (a *Analyzer) HasTests(issue *model.Issue) bool {
	if issue.HasLabel("tests") || issue.HasLabel("testing") {
		return true
	}
	body := strings.ToLower(issue.Body)
	return strings.Contains(body, "test") || strings.Contains(body, "spec")
}

// HasDocumentation reports whether the issue is documentation work.
func (a *Analyzer) HasDocumentation(issue *model.Issue) bool {
	return issue.HasLabel("documentation") || issue.HasLabel("docs") || issue.HasLabel("readme")
}

// Analyze produces the full derived view for one issue, including the
// claims extracted from its comment thread.
func (a *Analyzer) Analyze(repositoryID string, issue *model.Issue, comments []*model.Comment, gracePeriodDays int, lookup ContributorLookup) *model.IssueAnalysis {
	complexity := a.Complexity(issue)
	claims := ExtractClaims(repositoryID, issue, comments, gracePeriodDays, lookup)

	var current *model.IssueClaim
	for _, c := range claims {
		if c.Status == model.ClaimActive {
			current = c
			break
		}
	}

	lastActivity := issue.UpdatedAt
	if n := len(comments); n > 0 && comments[n-1].CreatedAt.After(lastActivity) {
		lastActivity = comments[n-1].CreatedAt
	}

	return &model.IssueAnalysis{
		IssueID:         issue.ID,
		IssueNumber:     issue.Number,
		RepositoryID:    repositoryID,
		Title:           issue.Title,
		Body:            issue.Body,
		Labels:          issue.Labels,
		Complexity:      complexity,
		EstimatedHours:  a.EstimatedEffort(issue, complexity),
		HasClearReqs:    a.HasClearRequirements(issue),
		HasTests:        a.HasTests(issue),
		HasDocs:         a.HasDocumentation(issue),
		DifficultyScore: a.DifficultyScore(issue, complexity),
		AppealScore:     a.AppealScore(issue, complexity),
		ClaimCount:      len(claims),
		CurrentClaim:    current,
		ClaimHistory:    claims,
		LastActivityAt:  lastActivity,
		CreatedAt:       issue.CreatedAt,
		UpdatedAt:       issue.UpdatedAt,
	}
}

// codeBlockCount counts fenced code block delimiters in the body.
func codeBlockCount(body string) int {
	return strings.Count(body, "```")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
