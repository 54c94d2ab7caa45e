package nudge

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/crumbwatch/crumbwatch/internal/model"
)

type recordingPoster struct {
	owner  string
	repo   string
	number int
	body   string
	calls  int
	err    error
}

func (r *recordingPoster) PostIssueComment(_ context.Context, owner, repo string, number int, body string) error {
	r.owner, r.repo, r.number, r.body = owner, repo, number, body
	r.calls++
	return r.err
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testClaim(nudgesSent int, claimedDaysAgo int) *model.IssueClaim {
	return &model.IssueClaim{
		ID:          "octo/widgets-7-1",
		IssueNumber: 7,
		ClaimedAt:   testNow.AddDate(0, 0, -claimedDaysAgo),
		NudgesSent:  nudgesSent,
		Contributor: &model.Contributor{Username: "alice"},
	}
}

func TestShouldSend(t *testing.T) {
	p := NewPolicy(nil)
	recent := testNow.AddDate(0, 0, -1)
	spaced := testNow.AddDate(0, 0, -5)

	tests := []struct {
		name  string
		claim *model.IssueClaim
		want  bool
	}{
		{"fresh claim before first timing", testClaim(0, 2), false},
		{"first nudge due at three days", testClaim(0, 3), true},
		{"second nudge due at ten days", testClaim(1, 10), true},
		{"second tier prefers community timing", testClaim(1, 9), false},
		{"third nudge due at fourteen days", testClaim(2, 14), true},
		{"max nudges reached", testClaim(3, 30), false},
		{"no template past the ladder", testClaim(4, 30), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ShouldSend(tt.claim, testNow); got != tt.want {
				t.Errorf("ShouldSend() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("recent nudge blocks resend", func(t *testing.T) {
		claim := testClaim(1, 30)
		claim.LastNudgeAt = &recent
		if p.ShouldSend(claim, testNow) {
			t.Error("ShouldSend = true within three days of last nudge")
		}
		claim.LastNudgeAt = &spaced
		if !p.ShouldSend(claim, testNow) {
			t.Error("ShouldSend = false with spacing satisfied")
		}
	})
}

func TestNextTemplateEscalation(t *testing.T) {
	p := NewPolicy(nil)

	tests := []struct {
		nudgesSent int
		wantID     string
	}{
		{0, "friendly_reminder_1"},
		{1, "community_nudge_1"}, // beats progress_check_1 on success rate
		{2, "final_warning_1"},
	}
	for _, tt := range tests {
		tmpl := p.nextTemplate(testClaim(tt.nudgesSent, 0))
		if tmpl == nil || tmpl.ID != tt.wantID {
			t.Errorf("nextTemplate(nudgesSent=%d) = %v, want %s", tt.nudgesSent, tmpl, tt.wantID)
		}
	}
	if tmpl := p.nextTemplate(testClaim(3, 0)); tmpl != nil {
		t.Errorf("nextTemplate past ladder = %v, want nil", tmpl)
	}
}

func TestSend(t *testing.T) {
	poster := &recordingPoster{}
	p := NewPolicy(poster)

	claim := testClaim(0, 4)
	iv, err := p.Send(context.Background(), claim, "octo", "widgets", testNow)
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if poster.owner != "octo" || poster.repo != "widgets" || poster.number != 7 {
		t.Errorf("posted to %s/%s#%d, want octo/widgets#7", poster.owner, poster.repo, poster.number)
	}
	if strings.Contains(poster.body, "{username}") || strings.Contains(poster.body, "{issueNumber}") {
		t.Errorf("unexpanded placeholders in body: %q", poster.body)
	}
	if !strings.Contains(poster.body, "@alice") || !strings.Contains(poster.body, "#7") {
		t.Errorf("body missing personalization: %q", poster.body)
	}
	if !strings.Contains(poster.body, "widgets") {
		t.Errorf("body missing repo name: %q", poster.body)
	}

	if claim.NudgesSent != 1 {
		t.Errorf("NudgesSent = %d, want 1", claim.NudgesSent)
	}
	if claim.LastNudgeAt == nil || !claim.LastNudgeAt.Equal(testNow) {
		t.Errorf("LastNudgeAt = %v, want %v", claim.LastNudgeAt, testNow)
	}

	if iv.Type != model.InterventionNudge || iv.TemplateID != "friendly_reminder_1" {
		t.Errorf("intervention = %+v", iv)
	}
	if iv.Success {
		t.Error("intervention marked successful before any response")
	}
}

func TestSendPosterFailure(t *testing.T) {
	poster := &recordingPoster{err: context.DeadlineExceeded}
	p := NewPolicy(poster)

	claim := testClaim(0, 4)
	if _, err := p.Send(context.Background(), claim, "octo", "widgets", testNow); err == nil {
		t.Fatal("Send() succeeded with failing poster")
	}
	if claim.NudgesSent != 0 || claim.LastNudgeAt != nil {
		t.Error("claim counters advanced despite post failure")
	}
}

func TestAnalyzeResponse(t *testing.T) {
	p := NewPolicy(nil)
	iv := &model.Intervention{TriggeredAt: testNow}
	after := testNow.Add(time.Hour)
	before := testNow.Add(-time.Hour)

	tests := []struct {
		name     string
		comments []*model.Comment
		want     bool
	}{
		{
			"positive response",
			[]*model.Comment{{Author: "alice", Body: "Yes, still working on it!", CreatedAt: after}},
			true,
		},
		{
			"negative response",
			[]*model.Comment{{Author: "alice", Body: "no longer have time for this", CreatedAt: after}},
			false,
		},
		{
			"mixed response stays negative",
			[]*model.Comment{{Author: "alice", Body: "still working but someone else can take it", CreatedAt: after}},
			false,
		},
		{
			"other users do not count",
			[]*model.Comment{{Author: "bob", Body: "still working on it", CreatedAt: after}},
			false,
		},
		{
			"comments before the nudge do not count",
			[]*model.Comment{{Author: "alice", Body: "making progress", CreatedAt: before}},
			false,
		},
		{
			"latest response decides",
			[]*model.Comment{
				{Author: "alice", Body: "making progress", CreatedAt: after},
				{Author: "alice", Body: "actually, giving up", CreatedAt: after.Add(time.Hour)},
			},
			false,
		},
		{"no comments", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.AnalyzeResponse(iv, "alice", tt.comments); got != tt.want {
				t.Errorf("AnalyzeResponse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptimalTimings(t *testing.T) {
	p := NewPolicy(nil)

	tests := []struct {
		name        string
		contributor *model.Contributor
		want        []int
	}{
		{"reliable gets patience", &model.Contributor{ReliabilityScore: 90}, []int{7, 14, 21}},
		{"flaky gets urgency", &model.Contributor{ReliabilityScore: 20}, []int{2, 5, 10}},
		{"average gets defaults", &model.Contributor{ReliabilityScore: 60}, []int{3, 7, 14}},
		{"nil gets defaults", nil, []int{3, 7, 14}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.OptimalTimings(tt.contributor)
			if len(got) != len(tt.want) {
				t.Fatalf("OptimalTimings() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("OptimalTimings()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCommunityMessage(t *testing.T) {
	p := NewPolicy(nil)
	claim := testClaim(0, 0)

	msg := p.CommunityMessage(claim, "widgets")
	if strings.Contains(msg, "{username}") || strings.Contains(msg, "{issueNumber}") {
		t.Errorf("unexpanded placeholders: %q", msg)
	}
	if !strings.Contains(msg, "@alice") || !strings.Contains(msg, "#7") {
		t.Errorf("missing personalization: %q", msg)
	}
}
