package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/crumbwatch/crumbwatch/internal/configstore"
	"github.com/crumbwatch/crumbwatch/internal/model"
	"github.com/crumbwatch/crumbwatch/internal/notify"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// fakeSource is an in-memory RepoSource seeded with issues and comments.
type fakeSource struct {
	issues   []*model.Issue
	comments map[int][]*model.Comment
	prs      map[string][]*model.PullRequest

	postedComments map[int][]string
	addedLabels    map[int][]string
	removedLabels  map[int][]string
	assignees      map[int][]string

	listErr error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		comments:       map[int][]*model.Comment{},
		prs:            map[string][]*model.PullRequest{},
		postedComments: map[int][]string{},
		addedLabels:    map[int][]string{},
		removedLabels:  map[int][]string{},
		assignees:      map[int][]string{},
	}
}

func (f *fakeSource) ListOpenIssues(_ context.Context, _, _ string) ([]*model.Issue, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.issues, nil
}

func (f *fakeSource) GetIssue(_ context.Context, _, _ string, number int) (*model.Issue, error) {
	for _, issue := range f.issues {
		if issue.Number == number {
			return issue, nil
		}
	}
	return nil, fmt.Errorf("issue %d not found", number)
}

func (f *fakeSource) ListIssueComments(_ context.Context, _, _ string, number int) ([]*model.Comment, error) {
	return f.comments[number], nil
}

func (f *fakeSource) ListPullRequestsByAuthor(_ context.Context, _, _, author string) ([]*model.PullRequest, error) {
	return f.prs[author], nil
}

func (f *fakeSource) GetUser(_ context.Context, username string) (string, string, string, error) {
	return username, "", "", nil
}

func (f *fakeSource) PostIssueComment(_ context.Context, _, _ string, number int, body string) error {
	f.postedComments[number] = append(f.postedComments[number], body)
	return nil
}

func (f *fakeSource) AddLabels(_ context.Context, _, _ string, number int, labels []string) error {
	f.addedLabels[number] = append(f.addedLabels[number], labels...)
	return nil
}

func (f *fakeSource) RemoveLabels(_ context.Context, _, _ string, number int, labels []string) error {
	f.removedLabels[number] = append(f.removedLabels[number], labels...)
	return nil
}

func (f *fakeSource) ReplaceAssignees(_ context.Context, _, _ string, number int, assignees []string) error {
	f.assignees[number] = assignees
	return nil
}

func newTestEngine(src *fakeSource) (*Engine, *notify.LogMailer) {
	mailer := notify.NewLogMailer()
	e := New(src, configstore.NewMemoryStore(), mailer, WithClock(func() time.Time { return testNow }))
	return e, mailer
}

func issueWithClaim(number int, claimedDaysAgo int, claimant string) (*model.Issue, []*model.Comment) {
	issue := &model.Issue{
		ID:        int64(number),
		Number:    number,
		Title:     fmt.Sprintf("Issue %d", number),
		Body:      "A plain issue body with enough words to not look thin at all here.",
		State:     "open",
		CreatedAt: testNow.AddDate(0, 0, -claimedDaysAgo-1),
		UpdatedAt: testNow.AddDate(0, 0, -claimedDaysAgo),
	}
	comments := []*model.Comment{
		{
			ID:        int64(number * 100),
			Author:    claimant,
			AuthorID:  int64(number),
			Body:      "I'll work on this issue",
			CreatedAt: testNow.AddDate(0, 0, -claimedDaysAgo),
		},
	}
	return issue, comments
}

func TestProcessRepositoryDetectsClaims(t *testing.T) {
	src := newFakeSource()
	issue, comments := issueWithClaim(1, 2, "alice")
	src.issues = []*model.Issue{issue}
	src.comments[1] = comments

	e, _ := newTestEngine(src)
	analytics, err := e.ProcessRepository(context.Background(), "octo", "widgets")
	if err != nil {
		t.Fatalf("ProcessRepository() error: %v", err)
	}

	if analytics.IssuesAnalyzed != 1 {
		t.Errorf("IssuesAnalyzed = %d, want 1", analytics.IssuesAnalyzed)
	}
	if analytics.ClaimsDetected != 1 {
		t.Errorf("ClaimsDetected = %d, want 1", analytics.ClaimsDetected)
	}
	// A two-day-old claim from a neutral contributor needs no intervention.
	if analytics.NudgesSent != 0 || analytics.AutoReleased != 0 {
		t.Errorf("unexpected interventions: %+v", analytics)
	}
}

func TestProcessRepositoryNudgesSilentClaim(t *testing.T) {
	src := newFakeSource()
	issue, comments := issueWithClaim(1, 4, "alice")
	src.issues = []*model.Issue{issue}
	src.comments[1] = comments

	e, _ := newTestEngine(src)
	analytics, err := e.ProcessRepository(context.Background(), "octo", "widgets")
	if err != nil {
		t.Fatalf("ProcessRepository() error: %v", err)
	}

	if analytics.NudgesSent != 1 {
		t.Fatalf("NudgesSent = %d, want 1", analytics.NudgesSent)
	}
	if len(src.postedComments[1]) != 1 {
		t.Fatalf("posted comments = %v", src.postedComments[1])
	}
	if !strings.Contains(src.postedComments[1][0], "@alice") {
		t.Errorf("nudge not personalized: %q", src.postedComments[1][0])
	}
}

func TestProcessRepositoryReleasesStaleClaim(t *testing.T) {
	src := newFakeSource()
	issue, comments := issueWithClaim(1, 30, "ghost")
	issue.Assignees = []string{"ghost"}
	src.issues = []*model.Issue{issue}
	src.comments[1] = comments

	e, _ := newTestEngine(src)
	analytics, err := e.ProcessRepository(context.Background(), "octo", "widgets")
	if err != nil {
		t.Fatalf("ProcessRepository() error: %v", err)
	}

	if analytics.AutoReleased != 1 {
		t.Fatalf("AutoReleased = %d, want 1 (analytics: %+v)", analytics.AutoReleased, analytics)
	}
	if got := src.assignees[1]; len(got) != 0 {
		t.Errorf("assignees after release = %v, want empty", got)
	}
	if len(src.addedLabels[1]) == 0 || src.addedLabels[1][0] != "available" {
		t.Errorf("release labels not applied: %v", src.addedLabels[1])
	}
}

func TestProcessRepositoryAbandonmentFreesIssue(t *testing.T) {
	src := newFakeSource()
	issue, comments := issueWithClaim(1, 10, "alice")
	comments = append(comments,
		&model.Comment{
			ID: 101, Author: "alice", AuthorID: 1,
			Body:      "sorry, I can't continue with this",
			CreatedAt: testNow.AddDate(0, 0, -8),
		},
		&model.Comment{
			ID: 102, Author: "bob", AuthorID: 2,
			Body:      "I'll take this issue then",
			CreatedAt: testNow.AddDate(0, 0, -1),
		},
	)
	src.issues = []*model.Issue{issue}
	src.comments[1] = comments

	e, _ := newTestEngine(src)
	analytics, err := e.ProcessRepository(context.Background(), "octo", "widgets")
	if err != nil {
		t.Fatalf("ProcessRepository() error: %v", err)
	}

	if analytics.ClaimsDetected != 2 {
		t.Fatalf("ClaimsDetected = %d, want 2 (abandoned then re-claimed)", analytics.ClaimsDetected)
	}
	// Fresh claim from bob needs no action yet.
	if analytics.NudgesSent != 0 || analytics.AutoReleased != 0 {
		t.Errorf("unexpected interventions: %+v", analytics)
	}
}

func TestProcessRepositorySendsLowProbabilityAlert(t *testing.T) {
	src := newFakeSource()
	issue, comments := issueWithClaim(1, 10, "ghost")
	src.issues = []*model.Issue{issue}
	src.comments[1] = comments

	e, mailer := newTestEngine(src)
	if _, err := e.ProcessRepository(context.Background(), "octo", "widgets"); err != nil {
		t.Fatalf("ProcessRepository() error: %v", err)
	}

	logs := mailer.Logs()
	if len(logs) != 1 {
		t.Fatalf("alerts sent = %d, want 1", len(logs))
	}
	if logs[0].ContributorEmail != "ghost@users.noreply.github.com" {
		t.Errorf("alert email = %q, want noreply fallback", logs[0].ContributorEmail)
	}
	if logs[0].CurrentProbability >= logs[0].Benchmark {
		t.Errorf("alert fired with probability %v >= benchmark %v", logs[0].CurrentProbability, logs[0].Benchmark)
	}
}

func TestProcessRepositoryIsIdempotentOnQuietThreads(t *testing.T) {
	src := newFakeSource()
	issue, comments := issueWithClaim(1, 2, "alice")
	src.issues = []*model.Issue{issue}
	src.comments[1] = comments

	e, _ := newTestEngine(src)
	first, err := e.ProcessRepository(context.Background(), "octo", "widgets")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.ProcessRepository(context.Background(), "octo", "widgets")
	if err != nil {
		t.Fatal(err)
	}

	if first.ClaimsDetected != second.ClaimsDetected || first.IssuesAnalyzed != second.IssuesAnalyzed {
		t.Errorf("reprocessing changed results: %+v vs %+v", first, second)
	}
}

func TestSetProbabilityBenchmark(t *testing.T) {
	e, _ := newTestEngine(newFakeSource())

	if e.ProbabilityBenchmark() != DefaultProbabilityBenchmark {
		t.Errorf("default benchmark = %v", e.ProbabilityBenchmark())
	}
	if err := e.SetProbabilityBenchmark(60); err != nil {
		t.Fatalf("SetProbabilityBenchmark(60) error: %v", err)
	}
	if e.ProbabilityBenchmark() != 60 {
		t.Errorf("benchmark = %v, want 60", e.ProbabilityBenchmark())
	}
	if err := e.SetProbabilityBenchmark(-1); err == nil {
		t.Error("SetProbabilityBenchmark(-1) accepted")
	}
	if err := e.SetProbabilityBenchmark(101); err == nil {
		t.Error("SetProbabilityBenchmark(101) accepted")
	}
}

func TestHandleWebhook(t *testing.T) {
	src := newFakeSource()
	issue, comments := issueWithClaim(7, 4, "alice")
	src.issues = []*model.Issue{issue}
	src.comments[7] = comments

	e, _ := newTestEngine(src)

	payload := &model.WebhookPayload{
		Action: "created",
		Issue: &model.WebhookIssue{
			ID:        7,
			Number:    7,
			Title:     "Issue 7",
			Body:      issue.Body,
			CreatedAt: issue.CreatedAt,
			UpdatedAt: issue.UpdatedAt,
		},
		Repository: model.WebhookRepo{
			ID:    1,
			Name:  "widgets",
			Owner: model.WebhookUser{Login: "octo"},
		},
	}

	if err := e.HandleWebhook(context.Background(), payload); err != nil {
		t.Fatalf("HandleWebhook() error: %v", err)
	}
	// Four-day-old silent claim gets the first nudge.
	if len(src.postedComments[7]) != 1 {
		t.Fatalf("posted comments = %v, want one nudge", src.postedComments[7])
	}
}

func TestHandleWebhookIgnoresIrrelevantActions(t *testing.T) {
	src := newFakeSource()
	e, _ := newTestEngine(src)

	payload := &model.WebhookPayload{
		Action:     "labeled",
		Issue:      &model.WebhookIssue{Number: 7},
		Repository: model.WebhookRepo{Name: "widgets", Owner: model.WebhookUser{Login: "octo"}},
	}
	if err := e.HandleWebhook(context.Background(), payload); err != nil {
		t.Fatalf("HandleWebhook() error: %v", err)
	}
	if len(src.postedComments) != 0 {
		t.Errorf("irrelevant action triggered actions: %v", src.postedComments)
	}
}

func TestRankCandidates(t *testing.T) {
	src := newFakeSource()
	issue := &model.Issue{Number: 7, Title: "Open issue", UpdatedAt: testNow}
	src.issues = []*model.Issue{issue}
	src.comments[7] = []*model.Comment{
		{ID: 1, Author: "ace", Body: "I'll take this issue", CreatedAt: testNow.AddDate(0, 0, -1)},
		{ID: 2, Author: "rookie", Body: "claiming this issue", CreatedAt: testNow.AddDate(0, 0, -1)},
		{ID: 3, Author: "bystander", Body: "any updates here?", CreatedAt: testNow},
	}
	merged := testNow.AddDate(0, 0, -20)
	src.prs["ace"] = []*model.PullRequest{
		{Number: 1, State: "closed", CreatedAt: merged.AddDate(0, 0, -3), MergedAt: &merged},
		{Number: 2, State: "closed", CreatedAt: merged.AddDate(0, 0, -4), MergedAt: &merged},
	}

	e, _ := newTestEngine(src)
	outlook, err := e.RankCandidates(context.Background(), "octo", "widgets", 7)
	if err != nil {
		t.Fatalf("RankCandidates() error: %v", err)
	}
	if outlook.Assigned != nil {
		t.Fatal("unassigned issue produced an assignee outlook")
	}
	if len(outlook.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(outlook.Candidates))
	}
	if outlook.Candidates[0].Username != "ace" {
		t.Errorf("top candidate = %q, want ace (merged PR history)", outlook.Candidates[0].Username)
	}
	if outlook.Candidates[0].ReliabilityScore != 100 {
		t.Errorf("ace reliability = %v, want 100", outlook.Candidates[0].ReliabilityScore)
	}
}

func TestRankCandidatesAssignedIssue(t *testing.T) {
	src := newFakeSource()
	issue := &model.Issue{Number: 7, Assignees: []string{"ace"}, UpdatedAt: testNow.AddDate(0, 0, -1)}
	src.issues = []*model.Issue{issue}
	merged := testNow.AddDate(0, 0, -20)
	src.prs["ace"] = []*model.PullRequest{
		{Number: 1, State: "closed", CreatedAt: merged.AddDate(0, 0, -3), MergedAt: &merged},
	}

	e, _ := newTestEngine(src)
	outlook, err := e.RankCandidates(context.Background(), "octo", "widgets", 7)
	if err != nil {
		t.Fatalf("RankCandidates() error: %v", err)
	}
	if outlook.Assigned == nil {
		t.Fatal("assigned issue produced no assignee outlook")
	}
	if outlook.Assigned.ActivityLevel != "high" {
		t.Errorf("ActivityLevel = %q, want high", outlook.Assigned.ActivityLevel)
	}
	// Base 70 + success (100-50)*0.3 + high activity 20 = 105, clamps to 100.
	if outlook.Assigned.CompletionProbability != 100 {
		t.Errorf("CompletionProbability = %v, want 100", outlook.Assigned.CompletionProbability)
	}
	if len(outlook.Candidates) != 0 {
		t.Errorf("candidates = %v, want empty", outlook.Candidates)
	}
}
