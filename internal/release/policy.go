// Package release implements the auto-release policy that frees issues
// from claims that went nowhere.
package release

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/crumbwatch/crumbwatch/internal/log"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

// Labels applied and removed when an issue is released.
var (
	releaseLabelsAdd    = []string{"available", "help wanted"}
	releaseLabelsRemove = []string{"claimed", "assigned"}
)

// IssueAdmin covers the GitHub issue mutations a release needs.
// Satisfied by the GitHub client.
type IssueAdmin interface {
	PostIssueComment(ctx context.Context, owner, repo string, number int, body string) error
	GetIssue(ctx context.Context, owner, repo string, number int) (*model.Issue, error)
	ReplaceAssignees(ctx context.Context, owner, repo string, number int, assignees []string) error
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error
	RemoveLabels(ctx context.Context, owner, repo string, number int, labels []string) error
}

// Policy decides when a claim is auto-released and performs the release.
type Policy struct {
	admin IssueAdmin
}

// NewPolicy returns an auto-release policy.
func NewPolicy(admin IssueAdmin) *Policy {
	return &Policy{admin: admin}
}

// ShouldRelease reports whether the claim qualifies for auto-release.
// Release requires the repository to allow it, the claim's risk score to
// exceed 70, and at least one of: grace period expired, nudge budget
// exhausted, or the claim gone stale.
func (p *Policy) ShouldRelease(claim *model.IssueClaim, cfg *model.RepositoryConfig, now time.Time) bool {
	if !cfg.AutoReleaseEnabled {
		return false
	}

	gracePeriodEnded := now.After(claim.GracePeriodEndsAt)
	maxNudgesReached := claim.NudgesSent >= cfg.MaxNudges
	stale := Stale(claim, now)

	return (gracePeriodEnded || maxNudgesReached || stale) && claim.RiskScore > 70
}

// Stale reports whether the claim shows the inactivity profile of a dead
// claim: ten-plus days silent, or three weeks old with zero progress.
func Stale(claim *model.IssueClaim, now time.Time) bool {
	daysSinceActivity := model.DaysSince(claim.LastActivityAt, now)
	daysSinceClaim := model.DaysSince(claim.ClaimedAt, now)
	return daysSinceActivity > 10 || (daysSinceClaim > 21 && claim.ProgressScore == 0)
}

// Release frees the issue: posts the release comment, drops the claimant
// from the assignees, swaps the claim labels for availability labels and
// marks the claim auto-released. Assignment and label updates are best
// effort; a failure there is logged and does not abort the release.
func (p *Policy) Release(ctx context.Context, claim *model.IssueClaim, owner, repo string, now time.Time) (*model.Intervention, error) {
	message := releaseMessage(claim, now)

	if err := p.admin.PostIssueComment(ctx, owner, repo, claim.IssueNumber, message); err != nil {
		return nil, fmt.Errorf("posting release comment: %w", err)
	}

	p.removeAssignment(ctx, claim, owner, repo)
	p.updateLabels(ctx, claim, owner, repo)

	releasedAt := now
	claim.Status = model.ClaimAutoReleased
	claim.AutoReleasedAt = &releasedAt

	log.Info("claim auto-released",
		"claim", claim.ID,
		"issue", claim.IssueNumber,
		"risk", claim.RiskScore)

	return &model.Intervention{
		ID:             fmt.Sprintf("%s-auto-release-%d", claim.ID, now.UnixMilli()),
		ClaimID:        claim.ID,
		Type:           model.InterventionAutoRelease,
		TriggeredAt:    now,
		Message:        message,
		Success:        true,
		AutoReleasedAt: &releasedAt,
	}, nil
}

func (p *Policy) removeAssignment(ctx context.Context, claim *model.IssueClaim, owner, repo string) {
	if claim.Contributor == nil {
		return
	}
	issue, err := p.admin.GetIssue(ctx, owner, repo, claim.IssueNumber)
	if err != nil {
		log.Warn("failed to fetch issue for unassignment", "issue", claim.IssueNumber, "error", err)
		return
	}

	remaining := make([]string, 0, len(issue.Assignees))
	for _, a := range issue.Assignees {
		if a != claim.Contributor.Username {
			remaining = append(remaining, a)
		}
	}
	if len(remaining) == len(issue.Assignees) {
		return
	}

	if err := p.admin.ReplaceAssignees(ctx, owner, repo, claim.IssueNumber, remaining); err != nil {
		log.Warn("failed to remove assignment", "issue", claim.IssueNumber, "error", err)
	}
}

func (p *Policy) updateLabels(ctx context.Context, claim *model.IssueClaim, owner, repo string) {
	if err := p.admin.AddLabels(ctx, owner, repo, claim.IssueNumber, releaseLabelsAdd); err != nil {
		log.Warn("failed to add release labels", "issue", claim.IssueNumber, "error", err)
	}
	if err := p.admin.RemoveLabels(ctx, owner, repo, claim.IssueNumber, releaseLabelsRemove); err != nil {
		log.Warn("failed to remove claim labels", "issue", claim.IssueNumber, "error", err)
	}
}

// GracePeriod computes the effective grace period in days for a claim:
// the repository base scaled by contributor reliability and by the
// issue's complexity weight.
func GracePeriod(claim *model.IssueClaim, cfg *model.RepositoryConfig, complexity model.Complexity) int {
	grace := float64(cfg.GracePeriodDays)

	if claim.Contributor != nil {
		if claim.Contributor.ReliabilityScore > 80 {
			grace *= 1.5
		} else if claim.Contributor.ReliabilityScore < 40 {
			grace *= 0.7
		}
	}

	if w := cfg.ComplexityWeights.For(complexity); w > 0 {
		grace *= w
	}

	return int(math.Round(grace))
}

func releaseMessage(claim *model.IssueClaim, now time.Time) string {
	days := int(model.DaysSince(claim.ClaimedAt, now))
	username := ""
	if claim.Contributor != nil {
		username = claim.Contributor.Username
	}

	templates := []string{
		fmt.Sprintf(`## 🔄 Issue Auto-Released

This issue has been automatically released for new contributors.

**Previous claim:** @%s (%d days ago)
**Reason:** No progress detected after multiple check-ins

The issue is now available for anyone to work on. Please comment below if you'd like to take it on! 🚀

---
*This action was taken by crumbwatch to maintain active issue management.*`, username, days),

		fmt.Sprintf(`## ⏰ Issue Available Again

This issue is now available for new contributors to work on.

**Previous claim:** @%s claimed this %d days ago
**Status:** No recent activity detected

Feel free to comment if you'd like to work on this issue!

---
*Auto-released by crumbwatch*`, username, days),

		fmt.Sprintf(`## 🆓 Issue Released

This issue has been released and is available for contributors.

**Previous claim:** @%s (%d days ago)
**Action:** Auto-released due to inactivity

If you're interested in working on this issue, please comment below!

---
*Managed by crumbwatch for better issue flow*`, username, days),
	}

	idx := 0
	if claim.NudgesSent >= 2 {
		idx = 1
	}
	if claim.RiskScore > 80 {
		idx = 2
	}
	return templates[idx]
}
