// Package score computes abandonment risk and completion probability for
// active claims.
package score

import (
	"time"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

// Risk estimates how likely an active claim is to go nowhere, 0-100.
// Age saturates at 40 points so that very old claims do not drown out the
// contributor and progress signals.
func Risk(claim *model.IssueClaim, analysis *model.IssueAnalysis, now time.Time) float64 {
	days := model.DaysSince(claim.ClaimedAt, now)

	risk := minf(40, days*5)

	if claim.Contributor != nil {
		risk += (100 - claim.Contributor.ReliabilityScore) * 0.3
		if claim.Contributor.AbandonedIssues > 0 {
			risk += claim.Contributor.AbandonmentRate() * 25
		}
	}

	switch analysis.Complexity {
	case model.ComplexityMedium:
		risk += 15
	case model.ComplexityHigh:
		risk += 30
	}

	risk += (100 - claim.ProgressScore) * 0.2

	return clamp(risk, 0, 100)
}

// CompletionProbability estimates the chance the claim resolves, 0-1.
// Reliability dominates, with adjustments for activity volume, issue
// complexity and appeal, claim age and nudge fatigue.
func CompletionProbability(claim *model.IssueClaim, analysis *model.IssueAnalysis, now time.Time) float64 {
	var p float64

	if claim.Contributor != nil {
		p = claim.Contributor.ReliabilityScore / 100
		activity := minf(100, float64(claim.Contributor.TotalContributions)/10)
		p += activity / 100 * 0.3
	} else {
		p = 0.5
	}

	switch analysis.Complexity {
	case model.ComplexityMedium:
		p -= 0.1
	case model.ComplexityHigh:
		p -= 0.2
	}

	p += analysis.AppealScore / 100 * 0.1

	days := model.DaysSince(claim.ClaimedAt, now)
	if days > 7 {
		p -= 0.2
	} else if days > 3 {
		p -= 0.1
	}

	if claim.NudgesSent > 2 {
		p -= 0.15
	}

	return clamp(p, 0, 1)
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

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
