package nudge

import "github.com/crumbwatch/crumbwatch/internal/model"

// DefaultTemplates is the stock escalation ladder. Level 1 is the gentle
// first touch, level 2 has two variants competing on success rate, level 3
// is the 48-hour final warning.
func DefaultTemplates() []*model.NudgeTemplate {
	return []*model.NudgeTemplate{
		{
			ID:      "friendly_reminder_1",
			Name:    "Friendly First Reminder",
			Type:    model.TemplateFriendlyReminder,
			Subject: "Just checking in on your issue progress! 😊",
			Message: `Hi @{username}! 👋

I noticed you mentioned you'd work on #{issueNumber} a few days ago. Just wanted to check in and see how it's going!

If you're still working on it, that's awesome! If you've run into any challenges or need help, feel free to reach out to the maintainers.

If you're no longer able to work on this issue, no worries at all - just let us know so we can free it up for others.

Thanks for contributing to {repoName}! 🚀`,
			TimingDays:      3,
			EscalationLevel: 1,
			SuccessRate:     0.65,
		},
		{
			ID:      "progress_check_1",
			Name:    "Progress Check",
			Type:    model.TemplateProgressCheck,
			Subject: "How is #{issueNumber} coming along?",
			Message: `Hey @{username}! 👋

Hope you're doing well! I'm checking in on #{issueNumber} that you claimed.

Are you still working on this? If so, we'd love to hear about your progress! Even a quick update helps the community know what's happening.

If you've run into any blockers or need help, don't hesitate to ask in the issue comments or reach out to maintainers.

If you're no longer able to work on this, that's totally fine - just give us a heads up so we can make it available for others.

Thanks! 🙏`,
			TimingDays:      7,
			EscalationLevel: 2,
			SuccessRate:     0.55,
		},
		{
			ID:      "community_nudge_1",
			Name:    "Community Nudge",
			Type:    model.TemplateCommunityNudge,
			Subject: "Community check-in on #{issueNumber}",
			Message: `Hello @{username} and the {repoName} community! 👥

We're doing a quick community check-in on #{issueNumber} that was claimed by @{username}.

@{username}, if you're still working on this, we'd love to hear about your progress! Even a small update helps the community stay informed.

Community members: If anyone has experience with this type of issue or can offer guidance, feel free to chime in!

This helps us maintain an active, collaborative environment where everyone can contribute effectively.

Thanks everyone! 🌟`,
			TimingDays:      10,
			EscalationLevel: 2,
			SuccessRate:     0.70,
		},
		{
			ID:      "final_warning_1",
			Name:    "Final Warning",
			Type:    model.TemplateFinalWarning,
			Subject: "Final check: Still working on #{issueNumber}?",
			Message: `Hi @{username},

This is a final check-in regarding #{issueNumber} that you claimed. We haven't seen any updates or progress in a while.

If you're still actively working on this issue, please let us know with a quick update in the comments.

If you're no longer able to work on this issue, please let us know so we can:
- Remove the assignment
- Make it available for other contributors
- Keep our issue tracker clean and up-to-date

If we don't hear back within 48 hours, we'll assume you're no longer working on this and will make it available for others.

Thanks for understanding! 🤝`,
			TimingDays:      14,
			EscalationLevel: 3,
			SuccessRate:     0.45,
		},
	}
}

// communityMessages are the short community-driven check-in variants used
// when a repository prefers peer nudges over the template ladder.
var communityMessages = []string{
	`Hey @{username}! 👋 The community is wondering about the progress on #{issueNumber}. Any updates you can share?`,
	`@{username}, how's it going with #{issueNumber}? We'd love to hear about your progress! 🚀`,
	`Quick check-in: @{username}, are you still working on #{issueNumber}? The community is curious! 😊`,
	`@{username}, hope #{issueNumber} is going well! Feel free to share any progress or challenges you're facing.`,
}
