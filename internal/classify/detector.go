package classify

import (
	"strings"
	"time"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

// Action is the follow-up the detector suggests for a detected claim.
type Action string

const (
	ActionMonitor     Action = "monitor"
	ActionNudge       Action = "nudge"
	ActionAutoRelease Action = "auto_release"
	ActionEscalate    Action = "escalate"
)

// Result is the detector's verdict on a single comment.
type Result struct {
	IsClaim         bool
	Confidence      float64 // 0-1
	ClaimType       model.ClaimType
	RiskFactors     []string
	SuggestedAction Action
}

// Detector scores claim comments using the contributor's track record
// alongside the comment's language.
type Detector struct{}

// NewDetector returns a claim detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect classifies a comment and, when it is a claim, scores its
// credibility. A nil contributor is treated as an unknown account with a
// neutral reliability history.
func (d *Detector) Detect(text string, contributor *model.Contributor) Result {
	t := normalize(text)

	if matchAny(progressRules, t) || matchAny(abandonmentRules, t) {
		return Result{SuggestedAction: ActionMonitor}
	}
	if !matchAny(claimRules, t) {
		return Result{SuggestedAction: ActionMonitor}
	}

	confidence := 0.5
	var riskFactors []string

	if matchAny(commitmentRules, t) {
		confidence += 0.3
	} else if matchAny(hedgeRules, t) {
		confidence -= 0.2
		riskFactors = append(riskFactors, "Uncertain language detected")
	}

	if contributor != nil {
		if contributor.ReliabilityScore > 80 {
			confidence += 0.2
		} else if contributor.ReliabilityScore < 40 {
			confidence -= 0.3
			riskFactors = append(riskFactors, "Low contributor reliability score")
		}
	}

	if len(t) < 20 {
		confidence -= 0.1
		riskFactors = append(riskFactors, "Very short claim message")
	}
	if containsAny(t, "newbie", "beginner", "first time") {
		confidence -= 0.1
		riskFactors = append(riskFactors, "New contributor")
	}

	confidence = clamp01(confidence)

	action := ActionMonitor
	switch {
	case confidence < 0.3:
		action = ActionAutoRelease
	case confidence < 0.5:
		action = ActionNudge
	case len(riskFactors) > 2:
		action = ActionEscalate
	}

	return Result{
		IsClaim:         true,
		Confidence:      confidence,
		ClaimType:       ClaimTypeOf(text),
		RiskFactors:     riskFactors,
		SuggestedAction: action,
	}
}

// ClaimRiskScore estimates how likely an active claim is to go stale,
// from claim age, contributor history, remaining work and nudge count.
func (d *Detector) ClaimRiskScore(claim *model.IssueClaim, now time.Time) float64 {
	days := model.DaysSince(claim.ClaimedAt, now)

	risk := min40(days * 5)
	if claim.Contributor != nil {
		risk += (100 - claim.Contributor.ReliabilityScore) * 0.3
		risk += claim.Contributor.AbandonmentRate() * 25
	}
	risk += (100 - claim.ProgressScore) * 0.2
	risk += float64(claim.NudgesSent) * 5

	return clamp100(risk)
}

func containsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func min40(v float64) float64 {
	if v > 40 {
		return 40
	}
	return v
}
