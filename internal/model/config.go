package model

import "time"

// ComplexityWeights scale the grace period by issue complexity: more
// complex issues earn the claimant more time before release eligibility.
type ComplexityWeights struct {
	Low    float64 `json:"low" yaml:"low"`
	Medium float64 `json:"medium" yaml:"medium"`
	High   float64 `json:"high" yaml:"high"`
}

// For returns the weight for the given complexity tier.
func (w ComplexityWeights) For(c Complexity) float64 {
	switch c {
	case ComplexityLow:
		return w.Low
	case ComplexityMedium:
		return w.Medium
	case ComplexityHigh:
		return w.High
	default:
		return 1.0
	}
}

// RiskThresholds define the score boundaries used when bucketing claims
// by risk.
type RiskThresholds struct {
	High   float64 `json:"high" yaml:"high"`
	Medium float64 `json:"medium" yaml:"medium"`
	Low    float64 `json:"low" yaml:"low"`
}

// RepositoryConfig holds the per-repository policy knobs. A config is
// created with defaults on first encounter and cached by repository id
// for the process lifetime.
type RepositoryConfig struct {
	RepositoryID       string            `json:"repositoryId"` // owner/repo
	Owner              string            `json:"owner"`
	Name               string            `json:"name"`
	GracePeriodDays    int               `json:"gracePeriodDays"`
	MaxNudges          int               `json:"maxNudges"`
	NudgeIntervals     []int             `json:"nudgeIntervals"` // days between nudges
	AutoReleaseEnabled bool              `json:"autoReleaseEnabled"`
	NotifyMaintainers  bool              `json:"notifyMaintainers"`
	CommunityNudging   bool              `json:"communityNudging"`
	ComplexityWeights  ComplexityWeights `json:"complexityWeights"`
	RiskThresholds     RiskThresholds    `json:"riskThresholds"`
	Active             bool              `json:"active"`
	LastSyncAt         time.Time         `json:"lastSyncAt"`
}

// DefaultRepositoryConfig returns the stock policy for a repository.
func DefaultRepositoryConfig(owner, name string) *RepositoryConfig {
	return &RepositoryConfig{
		RepositoryID:       owner + "/" + name,
		Owner:              owner,
		Name:               name,
		GracePeriodDays:    7,
		MaxNudges:          3,
		NudgeIntervals:     []int{3, 7, 14},
		AutoReleaseEnabled: true,
		NotifyMaintainers:  true,
		CommunityNudging:   true,
		ComplexityWeights:  ComplexityWeights{Low: 1.0, Medium: 1.5, High: 2.0},
		RiskThresholds:     RiskThresholds{High: 70, Medium: 50, Low: 30},
		Active:             true,
	}
}
