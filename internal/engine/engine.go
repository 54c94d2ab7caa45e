// Package engine orchestrates repository monitoring: issue analysis,
// claim scoring, nudging, auto-release and analytics.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/crumbwatch/crumbwatch/internal/analyze"
	"github.com/crumbwatch/crumbwatch/internal/audit"
	"github.com/crumbwatch/crumbwatch/internal/configstore"
	"github.com/crumbwatch/crumbwatch/internal/log"
	"github.com/crumbwatch/crumbwatch/internal/model"
	"github.com/crumbwatch/crumbwatch/internal/notify"
	"github.com/crumbwatch/crumbwatch/internal/nudge"
	"github.com/crumbwatch/crumbwatch/internal/release"
	"github.com/crumbwatch/crumbwatch/internal/reliability"
	"github.com/crumbwatch/crumbwatch/internal/score"
)

// DefaultProbabilityBenchmark is the completion probability percentage
// below which contributors are alerted.
const DefaultProbabilityBenchmark = 40

// Engine coordinates one monitoring pass over a repository.
type Engine struct {
	gh       RepoSource
	configs  configstore.Store
	mailer   notify.Mailer
	runs     *audit.Store
	analyzer *analyze.Analyzer
	nudger   *nudge.Policy
	releaser *release.Policy

	benchmark float64
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithAuditStore enables per-run snapshot persistence.
func WithAuditStore(s *audit.Store) Option {
	return func(e *Engine) { e.runs = s }
}

// New creates an engine around a GitHub source and its collaborators.
func New(gh RepoSource, configs configstore.Store, mailer notify.Mailer, opts ...Option) *Engine {
	e := &Engine{
		gh:        gh,
		configs:   configs,
		mailer:    mailer,
		analyzer:  analyze.NewAnalyzer(),
		nudger:    nudge.NewPolicy(gh),
		releaser:  release.NewPolicy(gh),
		benchmark: DefaultProbabilityBenchmark,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProbabilityBenchmark returns the current alert threshold percentage.
func (e *Engine) ProbabilityBenchmark() float64 {
	return e.benchmark
}

// SetProbabilityBenchmark updates the alert threshold. Values outside
// 0-100 are rejected.
func (e *Engine) SetProbabilityBenchmark(v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("benchmark %v out of range 0-100", v)
	}
	e.benchmark = v
	return nil
}

// runState accumulates results while a repository pass is in flight.
type runState struct {
	contributors  map[string]*model.Contributor
	analyses      []*model.IssueAnalysis
	claims        []*model.IssueClaim
	interventions []*model.Intervention
	alertsSent    int
	errors        int
}

// ProcessRepository runs a full monitoring pass over the repository and
// returns its analytics. A failure on one issue is logged and does not
// abort the rest of the pass.
func (e *Engine) ProcessRepository(ctx context.Context, owner, repo string) (*model.Analytics, error) {
	started := e.now()
	repositoryID := owner + "/" + repo
	cfg := e.configs.Get(repositoryID)

	log.Info("processing repository", "repository", repositoryID)

	issues, err := e.gh.ListOpenIssues(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("listing issues for %s: %w", repositoryID, err)
	}
	log.Info("found open issues", "repository", repositoryID, "count", len(issues))

	state := &runState{contributors: make(map[string]*model.Contributor)}

	// First pass: analyze every issue and rebuild the contributor map
	// from the claim timelines.
	for _, issue := range issues {
		comments, err := e.gh.ListIssueComments(ctx, owner, repo, issue.Number)
		if err != nil {
			log.Warn("failed to list comments", "issue", issue.Number, "error", err)
			state.errors++
			continue
		}

		analysis := e.analyzer.Analyze(repositoryID, issue, comments, cfg.GracePeriodDays, e.contributorLookup(state))
		state.analyses = append(state.analyses, analysis)
		state.claims = append(state.claims, analysis.ClaimHistory...)
	}

	e.recomputeReliability(state)

	// Second pass: score and act on the active claims with up-to-date
	// contributor reliability.
	for _, analysis := range state.analyses {
		if analysis.CurrentClaim == nil {
			continue
		}
		ivs := e.processClaim(ctx, analysis.CurrentClaim, analysis, cfg, owner, repo, state)
		state.interventions = append(state.interventions, ivs...)
	}

	analytics := e.generateAnalytics(repositoryID, state)

	cfg.LastSyncAt = e.now()
	e.configs.Set(cfg)

	e.recordRun(repositoryID, state, analytics, started)

	log.Info("repository processing complete",
		"repository", repositoryID,
		"claims", len(state.claims),
		"interventions", len(state.interventions))

	return analytics, nil
}

// contributorLookup shares one Contributor per username across all claims
// in a run.
func (e *Engine) contributorLookup(state *runState) analyze.ContributorLookup {
	return func(c *model.Comment) *model.Contributor {
		if existing, ok := state.contributors[c.Author]; ok {
			if c.CreatedAt.After(existing.LastActivityAt) {
				existing.LastActivityAt = c.CreatedAt
			}
			return existing
		}
		contributor := &model.Contributor{
			ID:               fmt.Sprintf("%d", c.AuthorID),
			Username:         c.Author,
			AvatarURL:        c.AvatarURL,
			ReliabilityScore: 50,
			LastActivityAt:   c.CreatedAt,
		}
		state.contributors[c.Author] = contributor
		return contributor
	}
}

// recomputeReliability refreshes each contributor's counters and score
// from the claim outcomes observed this run.
func (e *Engine) recomputeReliability(state *runState) {
	for _, c := range state.contributors {
		c.CompletedIssues = 0
		c.AbandonedIssues = 0
	}
	for _, claim := range state.claims {
		if claim.Contributor == nil {
			continue
		}
		switch claim.Status {
		case model.ClaimCompleted:
			claim.Contributor.CompletedIssues++
		case model.ClaimAbandoned:
			claim.Contributor.AbandonedIssues++
		}
		claim.Contributor.TotalContributions++
	}
	for _, c := range state.contributors {
		c.ReliabilityScore = reliability.Score(c.CompletedIssues, c.AbandonedIssues)
	}
}

// processClaim rescores one active claim and applies the nudge and
// auto-release policies. Action failures are logged, not fatal.
func (e *Engine) processClaim(ctx context.Context, claim *model.IssueClaim, analysis *model.IssueAnalysis, cfg *model.RepositoryConfig, owner, repo string, state *runState) []*model.Intervention {
	now := e.now()
	var interventions []*model.Intervention

	claim.ProgressScore = e.progressScore(claim, analysis, now)

	graceDays := release.GracePeriod(claim, cfg, analysis.Complexity)
	claim.GracePeriodEndsAt = claim.ClaimedAt.Add(time.Duration(graceDays) * 24 * time.Hour)

	claim.RiskScore = score.Risk(claim, analysis, now)
	claim.CompletionProbability = score.CompletionProbability(claim, analysis, now)

	if claim.Status == model.ClaimActive && release.Stale(claim, now) {
		claim.Status = model.ClaimStale
	}

	if claim.CompletionProbability*100 < e.benchmark {
		e.sendLowProbabilityAlert(ctx, claim, analysis, owner, repo, state)
	}

	if e.nudger.ShouldSend(claim, now) {
		iv, err := e.nudger.Send(ctx, claim, owner, repo, now)
		if err != nil {
			log.Warn("failed to send nudge", "claim", claim.ID, "error", err)
			state.errors++
		} else {
			log.Debug("nudge sent for claim", "claim", claim.ID)
			interventions = append(interventions, iv)
		}
	}

	if e.releaser.ShouldRelease(claim, cfg, now) {
		iv, err := e.releaser.Release(ctx, claim, owner, repo, now)
		if err != nil {
			log.Warn("failed to auto-release", "claim", claim.ID, "error", err)
			state.errors++
		} else {
			interventions = append(interventions, iv)
		}
	}

	return interventions
}

// progressScore rates recent momentum on a claim from activity timing and
// issue complexity.
func (e *Engine) progressScore(claim *model.IssueClaim, analysis *model.IssueAnalysis, now time.Time) float64 {
	daysSinceClaim := model.DaysSince(claim.ClaimedAt, now)
	daysSinceActivity := model.DaysSince(claim.LastActivityAt, now)

	var s float64

	if daysSinceClaim > 7 && daysSinceActivity < 3 {
		s += 30 // still active after the first week
	} else if daysSinceActivity < 1 {
		s += 50 // very recent activity
	}

	if analysis.Complexity == model.ComplexityHigh && daysSinceClaim > 14 {
		s += 20 // complex issues earn time
	}

	if s > 100 {
		s = 100
	}
	return s
}

// sendLowProbabilityAlert emails the claimant that their claim looks
// unlikely to complete. Missing public email falls back to the GitHub
// noreply address.
func (e *Engine) sendLowProbabilityAlert(ctx context.Context, claim *model.IssueClaim, analysis *model.IssueAnalysis, owner, repo string, state *runState) {
	if claim.Contributor == nil {
		return
	}

	email := claim.Contributor.Email
	if email == "" {
		if _, fetched, _, err := e.gh.GetUser(ctx, claim.Contributor.Username); err == nil && fetched != "" {
			email = fetched
			claim.Contributor.Email = fetched
		} else {
			email = claim.Contributor.Username + "@users.noreply.github.com"
		}
	}

	receipt, err := e.mailer.SendLowProbabilityAlert(ctx, notify.Alert{
		ContributorEmail:   email,
		ContributorName:    claim.Contributor.Username,
		IssueTitle:         analysis.Title,
		IssueNumber:        claim.IssueNumber,
		RepositoryName:     repo,
		CurrentProbability: claim.CompletionProbability * 100,
		Benchmark:          e.benchmark,
		IssueURL:           fmt.Sprintf("https://github.com/%s/%s/issues/%d", owner, repo, claim.IssueNumber),
	})
	if err != nil || !receipt.Success {
		log.Warn("failed to send low probability alert", "claim", claim.ID, "error", err)
		state.errors++
		return
	}
	state.alertsSent++
}

// recordRun persists the audit snapshot for this pass, if a store is
// configured.
func (e *Engine) recordRun(repositoryID string, state *runState, analytics *model.Analytics, started time.Time) {
	if e.runs == nil {
		return
	}

	var active, stale int
	for _, claim := range state.claims {
		switch claim.Status {
		case model.ClaimActive:
			active++
		case model.ClaimStale:
			stale++
		}
	}

	snap := audit.Snapshot{
		Timestamp:      e.now(),
		Repository:     repositoryID,
		IssuesAnalyzed: analytics.IssuesAnalyzed,
		ClaimsDetected: analytics.ClaimsDetected,
		ActiveClaims:   active,
		StaleClaims:    stale,
		NudgesSent:     analytics.NudgesSent,
		AutoReleased:   analytics.AutoReleased,
		AlertsSent:     state.alertsSent,
		Errors:         state.errors,
		DurationMS:     e.now().Sub(started).Milliseconds(),
	}
	if err := e.runs.Append(snap); err != nil {
		log.Warn("failed to record run snapshot", "repository", repositoryID, "error", err)
	}
}
