package model

// Analytics aggregates the results of one repository analysis pass.
type Analytics struct {
	RepositoryID          string                       `json:"repositoryId"`
	IssuesAnalyzed        int                          `json:"issuesAnalyzed"`
	ClaimsDetected        int                          `json:"claimsDetected"`
	ClaimsResolved        int                          `json:"claimsResolved"`
	AutoReleased          int                          `json:"autoReleased"`
	NudgesSent            int                          `json:"nudgesSent"`
	AverageResolutionDays float64                      `json:"averageResolutionDays"`
	SuccessRate           float64                      `json:"successRate"` // 0-1
	ComplexityDistribution map[Complexity]int          `json:"complexityDistribution"`
	InterventionEffect    map[InterventionType]float64 `json:"interventionEffectiveness"`
	TopContributors       []*Contributor               `json:"topContributors,omitempty"`
	Interventions         []*Intervention              `json:"interventions,omitempty"`
}
