package model

import "time"

// WebhookPayload carries the subset of a GitHub issue event that webhook
// reprocessing needs. Signature verification happens upstream.
type WebhookPayload struct {
	Action     string          `json:"action"`
	Issue      *WebhookIssue   `json:"issue,omitempty"`
	Comment    *WebhookComment `json:"comment,omitempty"`
	Repository WebhookRepo     `json:"repository"`
}

// WebhookIssue is the issue block of a webhook payload.
type WebhookIssue struct {
	ID        int64          `json:"id"`
	Number    int            `json:"number"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	User      WebhookUser    `json:"user"`
	Labels    []WebhookLabel `json:"labels,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ClosedAt  *time.Time     `json:"closed_at,omitempty"`
}

// WebhookComment is the comment block of a webhook payload.
type WebhookComment struct {
	ID        int64       `json:"id"`
	Body      string      `json:"body"`
	User      WebhookUser `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

// WebhookUser identifies the acting user.
type WebhookUser struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// WebhookLabel is a label attached to the issue.
type WebhookLabel struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// WebhookRepo identifies the repository the event belongs to.
type WebhookRepo struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	FullName string      `json:"full_name"`
	Owner    WebhookUser `json:"owner"`
}
