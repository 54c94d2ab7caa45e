package engine

import (
	"sort"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

// generateAnalytics aggregates one pass's analyses, claims and
// interventions into the repository analytics view.
func (e *Engine) generateAnalytics(repositoryID string, state *runState) *model.Analytics {
	var resolved, autoReleased, nudges, successful int
	var resolutionDaysSum float64
	var resolutionCount int

	for _, claim := range state.claims {
		if !claim.Status.Resolved() {
			continue
		}
		resolved++

		end := claim.LastActivityAt
		if claim.Status == model.ClaimAutoReleased && claim.AutoReleasedAt != nil {
			end = *claim.AutoReleasedAt
		}
		resolutionDaysSum += model.DaysSince(claim.ClaimedAt, end)
		resolutionCount++
	}

	for _, iv := range state.interventions {
		switch iv.Type {
		case model.InterventionAutoRelease:
			autoReleased++
		case model.InterventionNudge:
			nudges++
		}
		if iv.Success {
			successful++
		}
	}

	successRate := 0.0
	if len(state.interventions) > 0 {
		successRate = float64(successful) / float64(len(state.interventions))
	}

	avgResolution := 0.0
	if resolutionCount > 0 {
		avgResolution = resolutionDaysSum / float64(resolutionCount)
	}

	return &model.Analytics{
		RepositoryID:           repositoryID,
		IssuesAnalyzed:         len(state.analyses),
		ClaimsDetected:         len(state.claims),
		ClaimsResolved:         resolved,
		AutoReleased:           autoReleased,
		NudgesSent:             nudges,
		AverageResolutionDays:  avgResolution,
		SuccessRate:            successRate,
		ComplexityDistribution: complexityDistribution(state.analyses),
		InterventionEffect:     interventionEffectiveness(state.interventions),
		TopContributors:        topContributors(state.claims),
		Interventions:          state.interventions,
	}
}

func complexityDistribution(analyses []*model.IssueAnalysis) map[model.Complexity]int {
	dist := map[model.Complexity]int{
		model.ComplexityLow:    0,
		model.ComplexityMedium: 0,
		model.ComplexityHigh:   0,
	}
	for _, a := range analyses {
		dist[a.Complexity]++
	}
	return dist
}

func interventionEffectiveness(interventions []*model.Intervention) map[model.InterventionType]float64 {
	type tally struct{ total, successful int }
	counts := map[model.InterventionType]*tally{}

	for _, iv := range interventions {
		t, ok := counts[iv.Type]
		if !ok {
			t = &tally{}
			counts[iv.Type] = t
		}
		t.total++
		if iv.Success {
			t.successful++
		}
	}

	result := make(map[model.InterventionType]float64, len(counts))
	for typ, t := range counts {
		result[typ] = float64(t.successful) / float64(t.total)
	}
	return result
}

// topContributors ranks contributors by net delivery (completed minus
// abandoned claims), capped at ten.
func topContributors(claims []*model.IssueClaim) []*model.Contributor {
	type stats struct {
		contributor *model.Contributor
		completed   int
		abandoned   int
	}
	byUser := map[string]*stats{}
	var order []string

	for _, claim := range claims {
		if claim.Contributor == nil {
			continue
		}
		username := claim.Contributor.Username
		s, ok := byUser[username]
		if !ok {
			s = &stats{contributor: claim.Contributor}
			byUser[username] = s
			order = append(order, username)
		}
		switch claim.Status {
		case model.ClaimCompleted:
			s.completed++
		case model.ClaimAbandoned:
			s.abandoned++
		}
	}

	ranked := make([]*stats, 0, len(order))
	for _, username := range order {
		ranked = append(ranked, byUser[username])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].completed-ranked[i].abandoned > ranked[j].completed-ranked[j].abandoned
	})

	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	top := make([]*model.Contributor, len(ranked))
	for i, s := range ranked {
		top[i] = s.contributor
	}
	return top
}
