package engine

import (
	"context"
	"fmt"

	"github.com/crumbwatch/crumbwatch/internal/log"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

// relevantActions are the webhook actions worth reprocessing an issue for.
var relevantActions = map[string]bool{
	"opened":     true,
	"edited":     true,
	"closed":     true,
	"created":    true,
	"assigned":   true,
	"unassigned": true,
}

// HandleWebhook reprocesses the single issue named in a GitHub issue or
// issue_comment event. Irrelevant actions and payloads without an issue
// are ignored without error.
func (e *Engine) HandleWebhook(ctx context.Context, payload *model.WebhookPayload) error {
	log.Debug("received webhook", "action", payload.Action)

	if !relevantActions[payload.Action] {
		return nil
	}
	if payload.Issue == nil || payload.Repository.Name == "" {
		return nil
	}

	owner := payload.Repository.Owner.Login
	repo := payload.Repository.Name
	repositoryID := owner + "/" + repo

	comments, err := e.gh.ListIssueComments(ctx, owner, repo, payload.Issue.Number)
	if err != nil {
		return fmt.Errorf("listing comments for %s#%d: %w", repositoryID, payload.Issue.Number, err)
	}

	cfg := e.configs.Get(repositoryID)
	issue := webhookIssue(payload.Issue)

	state := &runState{contributors: make(map[string]*model.Contributor)}
	analysis := e.analyzer.Analyze(repositoryID, issue, comments, cfg.GracePeriodDays, e.contributorLookup(state))
	state.analyses = append(state.analyses, analysis)
	state.claims = append(state.claims, analysis.ClaimHistory...)
	e.recomputeReliability(state)

	if analysis.CurrentClaim != nil {
		e.processClaim(ctx, analysis.CurrentClaim, analysis, cfg, owner, repo, state)
	}

	return nil
}

// webhookIssue converts the webhook issue block to the domain issue type.
func webhookIssue(wi *model.WebhookIssue) *model.Issue {
	labels := make([]string, 0, len(wi.Labels))
	for _, l := range wi.Labels {
		labels = append(labels, l.Name)
	}
	return &model.Issue{
		ID:        wi.ID,
		Number:    wi.Number,
		Title:     wi.Title,
		Body:      wi.Body,
		Labels:    labels,
		Author:    wi.User.Login,
		CreatedAt: wi.CreatedAt,
		UpdatedAt: wi.UpdatedAt,
		ClosedAt:  wi.ClosedAt,
	}
}
