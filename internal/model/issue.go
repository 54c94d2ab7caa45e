package model

import (
	"strings"
	"time"
)

// Issue represents the GitHub issue fields the analyzer needs.
type Issue struct {
	ID        int64      `json:"id"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	State     string     `json:"state"`
	Labels    []string   `json:"labels,omitempty"`
	Assignees []string   `json:"assignees,omitempty"`
	Author    string     `json:"author,omitempty"`
	HTMLURL   string     `json:"htmlUrl,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
}

// HasLabel reports whether the issue carries the given label,
// compared case-insensitively.
func (i *Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// Comment represents a single issue comment.
type Comment struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	AuthorID  int64     `json:"authorId"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// PullRequest represents the pull request fields the candidate
// reliability estimator needs.
type PullRequest struct {
	Number    int        `json:"number"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	MergedAt  *time.Time `json:"mergedAt,omitempty"`
}

// Merged reports whether the pull request was merged.
func (p *PullRequest) Merged() bool {
	return p.MergedAt != nil
}

// Complexity buckets an issue by how involved its resolution is expected
// to be.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// IssueAnalysis is the per-issue derived view produced by the analyzer.
// It is recomputed in full on every analysis pass.
type IssueAnalysis struct {
	IssueID         int64      `json:"issueId"`
	IssueNumber     int        `json:"issueNumber"`
	RepositoryID    string     `json:"repositoryId"`
	Title           string     `json:"title"`
	Body            string     `json:"body"`
	Labels          []string   `json:"labels,omitempty"`
	Complexity      Complexity `json:"complexity"`
	EstimatedHours  float64    `json:"estimatedHours"`
	HasClearReqs    bool       `json:"hasClearRequirements"`
	HasTests        bool       `json:"hasTests"`
	HasDocs         bool       `json:"hasDocumentation"`
	DifficultyScore float64    `json:"difficultyScore"` // 0-100
	AppealScore     float64    `json:"appealScore"`     // 0-100

	ClaimCount   int           `json:"claimCount"`
	CurrentClaim *IssueClaim   `json:"currentClaim,omitempty"`
	ClaimHistory []*IssueClaim `json:"claimHistory,omitempty"`

	LastActivityAt time.Time `json:"lastActivityAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
