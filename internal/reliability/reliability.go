// Package reliability computes contributor track-record scores from claim
// history and pull request outcomes.
package reliability

import (
	"math"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

// Score computes a 0-100 reliability score from resolved claim history.
// A contributor with no history lands at the neutral 50.
func Score(completed, abandoned int) float64 {
	total := completed + abandoned
	if total == 0 {
		return 50
	}
	completionRate := float64(completed) / float64(total)
	abandonmentRate := float64(abandoned) / float64(total)
	return clamp(50+completionRate*30-abandonmentRate*40, 0, 100)
}

// FromPullRequests scores reliability as the merge rate of a contributor's
// pull requests, defaulting to neutral when they have none.
func FromPullRequests(merged, total int) float64 {
	if total == 0 {
		return 50
	}
	return float64(merged) / float64(total) * 100
}

// CandidateScore predicts how likely a claimant is to deliver, blending
// merge-rate reliability, overall activity volume, claim staleness and
// historical completion speed.
func CandidateScore(c *model.Contributor, daysSinceClaim float64) float64 {
	score := 50.0
	score += (c.ReliabilityScore - 50) * 0.4
	score += math.Min(float64(c.TotalContributions)*2, 20) * 0.2
	score -= math.Min(daysSinceClaim*2, 20) * 0.2

	switch {
	case c.AverageCompletionDays < 7:
		score += 10 * 0.2
	case c.AverageCompletionDays < 14:
		score += 5 * 0.2
	}

	return math.Round(clamp(score, 0, 100))
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
