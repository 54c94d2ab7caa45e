package model

import "time"

// InterventionType identifies what kind of action was taken on a claim.
type InterventionType string

const (
	InterventionNudge       InterventionType = "nudge"
	InterventionAutoRelease InterventionType = "auto_release"
	InterventionEscalate    InterventionType = "escalate"
)

// Intervention is the append-only audit record of a nudge or auto-release
// action taken against a claim.
type Intervention struct {
	ID             string           `json:"id"`
	ClaimID        string           `json:"claimId"`
	Type           InterventionType `json:"type"`
	TriggeredAt    time.Time        `json:"triggeredAt"`
	TemplateID     string           `json:"templateId,omitempty"`
	Message        string           `json:"message,omitempty"`
	Success        bool             `json:"success"`
	AutoReleasedAt *time.Time       `json:"autoReleasedAt,omitempty"`
}

// NudgeTemplateType classifies the tone of a nudge template.
type NudgeTemplateType string

const (
	TemplateFriendlyReminder NudgeTemplateType = "friendly_reminder"
	TemplateProgressCheck    NudgeTemplateType = "progress_check"
	TemplateFinalWarning     NudgeTemplateType = "final_warning"
	TemplateCommunityNudge   NudgeTemplateType = "community_nudge"
)

// NudgeTemplate is a static catalog entry for an escalation-tier reminder.
// Message bodies carry {username}, {issueNumber} and {repoName} placeholders.
type NudgeTemplate struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Type            NudgeTemplateType `json:"type"`
	Subject         string            `json:"subject"`
	Message         string            `json:"message"`
	TimingDays      int               `json:"timingDays"`      // days after claim
	EscalationLevel int               `json:"escalationLevel"` // 1-5
	SuccessRate     float64           `json:"successRate"`     // 0-1
}
