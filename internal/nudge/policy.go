// Package nudge implements the escalating reminder policy for claimed
// issues that show no progress.
package nudge

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/crumbwatch/crumbwatch/internal/log"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

// CommentPoster posts a comment on an issue. Satisfied by the GitHub
// client.
type CommentPoster interface {
	PostIssueComment(ctx context.Context, owner, repo string, number int, body string) error
}

// Policy decides when to nudge a claimant and sends the nudge comment.
type Policy struct {
	templates []*model.NudgeTemplate
	poster    CommentPoster
}

// NewPolicy returns a nudge policy using the stock template ladder.
func NewPolicy(poster CommentPoster) *Policy {
	return &Policy{templates: DefaultTemplates(), poster: poster}
}

// NewPolicyWithTemplates returns a nudge policy with a custom template set.
func NewPolicyWithTemplates(poster CommentPoster, templates []*model.NudgeTemplate) *Policy {
	return &Policy{templates: templates, poster: poster}
}

// ShouldSend reports whether the claim is due for its next nudge.
// A claim never receives more than three nudges, nudges are spaced at
// least three days apart, and each escalation tier has its own timing
// threshold measured from the claim date.
func (p *Policy) ShouldSend(claim *model.IssueClaim, now time.Time) bool {
	if claim.NudgesSent >= 3 {
		return false
	}
	if claim.LastNudgeAt != nil && model.DaysSince(*claim.LastNudgeAt, now) < 3 {
		return false
	}

	tmpl := p.nextTemplate(claim)
	if tmpl == nil {
		return false
	}
	return model.DaysSince(claim.ClaimedAt, now) >= float64(tmpl.TimingDays)
}

// nextTemplate picks the template for the claim's next escalation level.
// Among same-level templates the historically most effective one wins.
func (p *Policy) nextTemplate(claim *model.IssueClaim) *model.NudgeTemplate {
	level := claim.NudgesSent + 1

	var candidates []*model.NudgeTemplate
	for _, t := range p.templates {
		if t.EscalationLevel == level {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].SuccessRate > candidates[j].SuccessRate
	})
	return candidates[0]
}

// Send posts the next nudge for the claim and records the intervention.
// The claim's nudge counters are advanced on success.
func (p *Policy) Send(ctx context.Context, claim *model.IssueClaim, owner, repo string, now time.Time) (*model.Intervention, error) {
	tmpl := p.nextTemplate(claim)
	if tmpl == nil {
		return nil, fmt.Errorf("no nudge template for escalation level %d", claim.NudgesSent+1)
	}

	message := personalize(tmpl.Message, claim, repo)

	if err := p.poster.PostIssueComment(ctx, owner, repo, claim.IssueNumber, message); err != nil {
		return nil, fmt.Errorf("posting nudge comment: %w", err)
	}

	claim.NudgesSent++
	nudgedAt := now
	claim.LastNudgeAt = &nudgedAt

	log.Debug("nudge sent",
		"claim", claim.ID,
		"template", tmpl.ID,
		"level", tmpl.EscalationLevel)

	return &model.Intervention{
		ID:          fmt.Sprintf("%s-nudge-%d", claim.ID, now.UnixMilli()),
		ClaimID:     claim.ID,
		Type:        model.InterventionNudge,
		TriggeredAt: now,
		TemplateID:  tmpl.ID,
		Message:     message,
		Success:     false, // flipped once a positive response arrives
	}, nil
}

// positiveIndicators signal the claimant is still on the issue.
var positiveIndicators = []string{
	"still working", "almost done", "making progress", "will finish",
	"committing", "pull request", "pr ready", "working on it",
	"yes, still", "yes still",
}

// negativeIndicators signal the claimant is walking away.
var negativeIndicators = []string{
	"can't work", "cannot work", "unable to", "no longer", "passing",
	"someone else", "not working", "stopping", "giving up", "abandoning",
}

// AnalyzeResponse reports whether the claimant responded positively to a
// nudge. Only the claimant's own comments posted after the nudge count,
// and the latest one decides.
func (p *Policy) AnalyzeResponse(intervention *model.Intervention, username string, comments []*model.Comment) bool {
	var latest *model.Comment
	for _, c := range comments {
		if c.CreatedAt.After(intervention.TriggeredAt) && c.Author == username {
			latest = c
		}
	}
	if latest == nil {
		return false
	}

	text := strings.ToLower(latest.Body)
	hasPositive := containsAny(text, positiveIndicators)
	hasNegative := containsAny(text, negativeIndicators)
	return hasPositive && !hasNegative
}

// OptimalTimings returns nudge day offsets tuned to the contributor's
// track record: patient with proven contributors, prompt with flaky ones.
func (p *Policy) OptimalTimings(contributor *model.Contributor) []int {
	if contributor != nil {
		if contributor.ReliabilityScore > 80 {
			return []int{7, 14, 21}
		}
		if contributor.ReliabilityScore < 40 {
			return []int{2, 5, 10}
		}
	}
	return []int{3, 7, 14}
}

// CommunityMessage builds a peer-toned check-in for repositories that
// prefer community nudging over the bot template ladder.
func (p *Policy) CommunityMessage(claim *model.IssueClaim, repo string) string {
	msg := communityMessages[rand.Intn(len(communityMessages))]
	return personalize(msg, claim, repo)
}

func personalize(message string, claim *model.IssueClaim, repo string) string {
	username := ""
	if claim.Contributor != nil {
		username = claim.Contributor.Username
	}
	r := strings.NewReplacer(
		"{username}", username,
		"{issueNumber}", strconv.Itoa(claim.IssueNumber),
		"{repoName}", repo,
	)
	return r.Replace(message)
}

func containsAny(text string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
