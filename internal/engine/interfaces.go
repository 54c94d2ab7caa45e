package engine

import (
	"context"

	"github.com/crumbwatch/crumbwatch/internal/ghclient"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

// RepoSource defines the GitHub operations the engine needs.
// This interface enables mocking the API in unit tests.
type RepoSource interface {
	// Reads
	ListOpenIssues(ctx context.Context, owner, repo string) ([]*model.Issue, error)
	GetIssue(ctx context.Context, owner, repo string, number int) (*model.Issue, error)
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*model.Comment, error)
	ListPullRequestsByAuthor(ctx context.Context, owner, repo, author string) ([]*model.PullRequest, error)
	GetUser(ctx context.Context, username string) (login, email, avatarURL string, err error)

	// Mutations
	PostIssueComment(ctx context.Context, owner, repo string, number int, body string) error
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error
	RemoveLabels(ctx context.Context, owner, repo string, number int, labels []string) error
	ReplaceAssignees(ctx context.Context, owner, repo string, number int, assignees []string) error
}

// Ensure Client implements RepoSource.
var _ RepoSource = (*ghclient.Client)(nil)
