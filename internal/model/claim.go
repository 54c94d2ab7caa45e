// Package model contains domain types for the crumbwatch application.
// These types are independent of any external GitHub library.
package model

import (
	"fmt"
	"time"
)

// ClaimStatus represents the lifecycle state of an issue claim.
type ClaimStatus string

const (
	ClaimActive       ClaimStatus = "active"
	ClaimStale        ClaimStatus = "stale"
	ClaimCompleted    ClaimStatus = "completed"
	ClaimAbandoned    ClaimStatus = "abandoned"
	ClaimAutoReleased ClaimStatus = "auto-released"
)

// Resolved reports whether the claim has reached a terminal resolved state.
func (s ClaimStatus) Resolved() bool {
	return s == ClaimCompleted || s == ClaimAutoReleased
}

// ClaimType represents how a contributor expressed the claim.
type ClaimType string

const (
	// ClaimTypeComment is a plain "I'll work on this" style comment.
	ClaimTypeComment ClaimType = "comment"

	// ClaimTypeAssignment is an explicit "please assign this to me" request.
	ClaimTypeAssignment ClaimType = "assignment"

	// ClaimTypeSelfAssigned is claiming/dibs/taking language.
	ClaimTypeSelfAssigned ClaimType = "self-assigned"
)

// Contributor holds identity and reliability data for a GitHub user.
// The per-repository contributor map is rebuilt on every analysis pass;
// reliability recomputation is the only mutation path.
type Contributor struct {
	ID                    string    `json:"id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email,omitempty"`
	AvatarURL             string    `json:"avatarUrl,omitempty"`
	ReliabilityScore      float64   `json:"reliabilityScore"` // 0-100
	TotalContributions    int       `json:"totalContributions"`
	CompletedIssues       int       `json:"completedIssues"`
	AbandonedIssues       int       `json:"abandonedIssues"`
	AverageCompletionDays float64   `json:"averageCompletionDays"`
	LastActivityAt        time.Time `json:"lastActivityAt"`
}

// AbandonmentRate returns the fraction of this contributor's historical
// claims that ended abandoned. Zero history yields zero.
func (c *Contributor) AbandonmentRate() float64 {
	total := c.CompletedIssues + c.AbandonedIssues
	if total == 0 {
		return 0
	}
	return float64(c.AbandonedIssues) / float64(total)
}

// IssueClaim represents one contributor's claim on one issue. At most one
// claim per issue is active at any point while scanning a comment thread.
type IssueClaim struct {
	ID                    string       `json:"id"` // repo-issue-comment composite
	IssueNumber           int          `json:"issueNumber"`
	RepositoryID          string       `json:"repositoryId"` // owner/repo
	Contributor           *Contributor `json:"contributor"`
	ClaimedAt             time.Time    `json:"claimedAt"`
	ClaimType             ClaimType    `json:"claimType"`
	ClaimText             string       `json:"claimText"`
	Status                ClaimStatus  `json:"status"`
	LastActivityAt        time.Time    `json:"lastActivityAt"`
	ProgressScore         float64      `json:"progressScore"`         // 0-100
	RiskScore             float64      `json:"riskScore"`             // 0-100, higher = more likely to abandon
	CompletionProbability float64      `json:"completionProbability"` // 0-1
	GracePeriodEndsAt     time.Time    `json:"gracePeriodEndsAt"`
	NudgesSent            int          `json:"nudgesSent"`
	LastNudgeAt           *time.Time   `json:"lastNudgeAt,omitempty"`
	AutoReleasedAt        *time.Time   `json:"autoReleasedAt,omitempty"`
}

// ClaimID builds the composite claim identifier from its coordinates.
func ClaimID(repositoryID string, issueNumber int, commentID int64) string {
	return fmt.Sprintf("%s-%d-%d", repositoryID, issueNumber, commentID)
}

// DaysSince returns the number of days between t and now as a float.
func DaysSince(t, now time.Time) float64 {
	return now.Sub(t).Hours() / 24
}
