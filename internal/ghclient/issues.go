package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v59/github"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

// ListOpenIssues fetches all open issues for a repository, newest first.
// Pull requests surfaced by the issues endpoint are filtered out.
func (c *Client) ListOpenIssues(ctx context.Context, owner, repo string) ([]*model.Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:     "open",
		Sort:      "created",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var issues []*model.Issue

	for {
		page, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, wrapAPIError(resp, fmt.Sprintf("failed to list issues for %s/%s", owner, repo), err)
		}

		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, convertIssue(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return issues, nil
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*model.Issue, error) {
	issue, resp, err := c.client.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, wrapAPIError(resp, fmt.Sprintf("failed to get issue %s/%s#%d", owner, repo, number), err)
	}
	return convertIssue(issue), nil
}

// ListIssueComments fetches all comments on an issue in creation order.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*model.Comment, error) {
	sort := "created"
	direction := "asc"
	opts := &gh.IssueListCommentsOptions{
		Sort:      &sort,
		Direction: &direction,
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var comments []*model.Comment

	for {
		page, resp, err := c.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, wrapAPIError(resp, fmt.Sprintf("failed to list comments for %s/%s#%d", owner, repo, number), err)
		}

		for _, comment := range page {
			comments = append(comments, &model.Comment{
				ID:        comment.GetID(),
				Author:    comment.GetUser().GetLogin(),
				AuthorID:  comment.GetUser().GetID(),
				AvatarURL: comment.GetUser().GetAvatarURL(),
				Body:      comment.GetBody(),
				CreatedAt: comment.GetCreatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}

// PostIssueComment posts a comment on an issue.
func (c *Client) PostIssueComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &gh.IssueComment{Body: gh.String(body)}
	_, resp, err := c.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		return wrapAPIError(resp, fmt.Sprintf("failed to comment on %s/%s#%d", owner, repo, number), err)
	}
	return nil
}

// AddLabels adds labels to an issue.
func (c *Client) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	_, resp, err := c.client.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels)
	if err != nil {
		return wrapAPIError(resp, fmt.Sprintf("failed to add labels to %s/%s#%d", owner, repo, number), err)
	}
	return nil
}

// RemoveLabels removes labels from an issue. Labels the issue does not
// carry are skipped without error.
func (c *Client) RemoveLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	for _, label := range labels {
		resp, err := c.client.Issues.RemoveLabelForIssue(ctx, owner, repo, number, label)
		if err != nil {
			if resp != nil && resp.StatusCode == 404 {
				continue
			}
			return wrapAPIError(resp, fmt.Sprintf("failed to remove label %q from %s/%s#%d", label, owner, repo, number), err)
		}
	}
	return nil
}

// ReplaceAssignees sets the issue's assignee list to exactly the given
// users.
func (c *Client) ReplaceAssignees(ctx context.Context, owner, repo string, number int, assignees []string) error {
	req := &gh.IssueRequest{Assignees: &assignees}
	_, resp, err := c.client.Issues.Edit(ctx, owner, repo, number, req)
	if err != nil {
		return wrapAPIError(resp, fmt.Sprintf("failed to set assignees on %s/%s#%d", owner, repo, number), err)
	}
	return nil
}

// ListPullRequestsByAuthor fetches the author's pull requests in the
// repository via the search API, used to estimate delivery reliability.
func (c *Client) ListPullRequestsByAuthor(ctx context.Context, owner, repo, author string) ([]*model.PullRequest, error) {
	query := fmt.Sprintf("is:pr repo:%s/%s author:%s", owner, repo, author)

	opts := &gh.SearchOptions{
		Sort:  "created",
		Order: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var prs []*model.PullRequest

	for {
		result, resp, err := c.client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, wrapAPIError(resp, fmt.Sprintf("failed to search PRs by %s in %s/%s", author, owner, repo), err)
		}

		for _, issue := range result.Issues {
			if !issue.IsPullRequest() {
				continue
			}
			pr := &model.PullRequest{
				Number:    issue.GetNumber(),
				State:     issue.GetState(),
				CreatedAt: issue.GetCreatedAt().Time,
			}
			if links := issue.GetPullRequestLinks(); links != nil && links.MergedAt != nil {
				merged := links.MergedAt.Time
				pr.MergedAt = &merged
			}
			prs = append(prs, pr)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return prs, nil
}

// convertIssue maps a go-github issue to the domain issue type.
func convertIssue(issue *gh.Issue) *model.Issue {
	var labels []string
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	var assignees []string
	for _, assignee := range issue.Assignees {
		assignees = append(assignees, assignee.GetLogin())
	}

	m := &model.Issue{
		ID:        issue.GetID(),
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
		Labels:    labels,
		Assignees: assignees,
		Author:    issue.GetUser().GetLogin(),
		HTMLURL:   issue.GetHTMLURL(),
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
	}
	if issue.ClosedAt != nil {
		closed := issue.GetClosedAt().Time
		m.ClosedAt = &closed
	}
	return m
}
