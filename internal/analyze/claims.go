package analyze

import (
	"strconv"
	"time"

	"github.com/crumbwatch/crumbwatch/internal/classify"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

// ContributorLookup resolves the contributor for a comment author. A nil
// lookup builds a fresh neutral-reliability contributor per comment.
type ContributorLookup func(c *model.Comment) *model.Contributor

// ExtractClaims walks a comment thread in order and reconstructs the
// claim timeline. At most one claim is open at a time: a claim comment
// opens one, progress comments advance it, an abandonment comment closes
// it and frees the issue for the next claimant.
//
// The walk is deterministic, so re-running it over the same thread yields
// the same claims.
func ExtractClaims(repositoryID string, issue *model.Issue, comments []*model.Comment, gracePeriodDays int, lookup ContributorLookup) []*model.IssueClaim {
	if lookup == nil {
		lookup = neutralContributor
	}

	var claims []*model.IssueClaim
	var current *model.IssueClaim

	for _, c := range comments {
		isClaim := classify.DetectClaim(c.Body)
		hasProgress := classify.DetectProgress(c.Body)
		isAbandonment := classify.DetectAbandonment(c.Body)

		switch {
		case isClaim && !hasProgress && current == nil:
			claim := &model.IssueClaim{
				ID:                    model.ClaimID(repositoryID, issue.Number, c.ID),
				IssueNumber:           issue.Number,
				RepositoryID:          repositoryID,
				Contributor:           lookup(c),
				ClaimedAt:             c.CreatedAt,
				ClaimType:             classify.ClaimTypeOf(c.Body),
				ClaimText:             c.Body,
				Status:                model.ClaimActive,
				LastActivityAt:        c.CreatedAt,
				ProgressScore:         0,
				CompletionProbability: 0.5,
				GracePeriodEndsAt:     c.CreatedAt.Add(time.Duration(gracePeriodDays) * 24 * time.Hour),
			}
			claims = append(claims, claim)
			current = claim

		case current != nil && hasProgress:
			current.ProgressScore = minf(100, current.ProgressScore+20)
			current.LastActivityAt = c.CreatedAt
			current.Status = model.ClaimActive

		case current != nil && isAbandonment:
			current.Status = model.ClaimAbandoned
			current.LastActivityAt = c.CreatedAt
			current = nil
		}
	}

	return claims
}

func neutralContributor(c *model.Comment) *model.Contributor {
	return &model.Contributor{
		ID:               strconv.FormatInt(c.AuthorID, 10),
		Username:         c.Author,
		AvatarURL:        c.AvatarURL,
		ReliabilityScore: 50,
		LastActivityAt:   c.CreatedAt,
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
