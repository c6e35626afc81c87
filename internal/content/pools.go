package content

import "strings"

// Category classifies a prompt for the offline fallback.
type Category int

const (
	CategoryOther Category = iota
	CategoryTaskName
	CategoryComment
	CategoryDescription
)

func (c Category) String() string {
	switch c {
	case CategoryTaskName:
		return "task_name"
	case CategoryComment:
		return "comment"
	case CategoryDescription:
		return "description"
	default:
		return "other"
	}
}

// PlaceholderMarkers are substrings that must never reach persisted
// text. Backend output containing one is discarded.
var PlaceholderMarkers = []string{"[ERROR", "[MOCK CONTENT]"}

// Classify infers the content category from prompt keywords.
func Classify(prompt string) Category {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "task name"):
		return CategoryTaskName
	case strings.Contains(p, "comment"):
		return CategoryComment
	case strings.Contains(p, "description"):
		return CategoryDescription
	default:
		return CategoryOther
	}
}

// PoolFor returns the built-in pool for a category, or nil for
// CategoryOther.
func PoolFor(c Category) []string {
	switch c {
	case CategoryTaskName:
		return taskNamePool
	case CategoryComment:
		return commentPool
	case CategoryDescription:
		return descriptionPool
	default:
		return nil
	}
}

func containsPlaceholder(s string) bool {
	for _, m := range PlaceholderMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

var taskNamePool = []string{
	"Fix memory leak in Redis cache", "Update landing page CSS", "Q3 Financial Review",
	"Onboard new marketing intern", "Refactor user authentication API", "Design system consistency check",
	"Client feedback integration", "Weekly sync notes", "Prepare slide deck for board meeting",
	"Database migration to PostgreSQL 15", "Implement Dark Mode", "Fix typo in Terms of Service",
	"Optimize image loading speed", "Conduct user interviews", "Draft blog post for new feature",
	"Renew SSL certificates", "Update dependency versions", "Merge PR #405", "Resolve merge conflicts",
	"Setup CI/CD pipeline", "Configure AWS bucket permissions", "Write unit tests for billing module",
	"Sales team quarterly targets", "Update employee handbook", "Schedule team offsite",
	"Fix broken link on pricing page", "Investigate high latency in search", "Rotate API keys",
	"Localization for Spanish market", "Accessibility audit (WCAG)", "Redesign login flow",
	"Update privacy policy", "GDPR compliance check", "Monitor server logs", "Clean up old Jira tickets",
	"Prepare tax documents", "Review vendor contracts", "Brainstorm Q4 roadmap",
	"Fix text overflow on mobile", "Implement OAuth2 login", "Update SEO meta tags",
	"Create tutorial video", "Send newsletter", "Backup database", "Prune unused docker images",
}

var commentPool = []string{
	"Done.", "Looking into it.", "Can you review this?", "Blocked by the backend team.",
	"Fixed in the latest build.", "Uploading assets now.", "Please see attached screenshot.",
	"Scheduling a meeting to discuss.", "This is ready for QA.", "Found a bug, reopening.",
	"LGTM!", "Nice work.", "Waiting on client feedback.", "Merging now.",
	"Deploying to staging.", "Can we push this to next sprint?", "I need access to the repo.",
	"Updated the docs.", "Verified in production.", "Let's discuss in the standup.",
}

var descriptionPool = []string{
	"Acceptance criteria are in the linked doc. Ping me before changing scope.",
	"Follow-up from last week's retro. Keep the change small and ship behind a flag.",
	"Customer-reported issue. Repro steps are in the support ticket.",
	"Needs sign-off from the team lead before it goes out.",
	"Part of the quarterly plan. Estimate is two to three days.",
	"See attached doc for background and open questions.",
	"Blocked until the vendor confirms the new pricing.",
	"Pair with design on the final copy before publishing.",
	"Low risk, but double-check the rollout plan with ops.",
	"Carry-over from the previous sprint. Most of the groundwork is done.",
	"Gather numbers from the dashboard and summarize the trend.",
	"Draft first, then circulate to stakeholders for comments.",
	"Priority fix requested by leadership.",
	"Coordinate with legal on wording before this ships.",
	"Add notes here as the investigation progresses.",
}
