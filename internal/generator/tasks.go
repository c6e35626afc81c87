package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/workspace-sim/internal/dates"
	"github.com/nhle/workspace-sim/internal/dist"
	"github.com/nhle/workspace-sim/internal/model"
)

const (
	minTasksPerProject = 15
	maxTasksPerProject = 45

	saltRate          = 0.3
	overdueCorrection = 0.8

	minStoriesPerTask = 1
	maxStoriesPerTask = 3
)

var priorityDist = dist.MustWeighted(
	[]string{model.PriorityLow, model.PriorityMedium, model.PriorityHigh},
	[]float64{30, 50, 20},
)

type sectionKind int

const (
	sectionOpen sectionKind = iota
	sectionTerminal
	sectionBacklog
)

var terminalKeywords = []string{"done", "complete", "published"}

// classifySection derives task status rules from a section's name.
func classifySection(name string) sectionKind {
	lower := strings.ToLower(name)
	for _, kw := range terminalKeywords {
		if strings.Contains(lower, kw) {
			return sectionTerminal
		}
	}
	if strings.Contains(lower, "backlog") {
		return sectionBacklog
	}
	return sectionOpen
}

// GenerateTasks creates 15 to 45 tasks for every project that has at
// least one section, along with their comment stories. Assignees and
// comment authors come from the project team's members, or from all
// users when the team cannot be resolved.
func (g *Generator) GenerateTasks(
	ctx context.Context,
	workspaceID string,
	projects []model.Project,
	sections []model.Section,
	users []model.User,
	memberships []model.TeamMembership,
) ([]model.Task, []model.Story) {
	bySection := make(map[string][]model.Section)
	for _, s := range sections {
		bySection[s.ProjectID] = append(bySection[s.ProjectID], s)
	}
	members := teamMembers(users, memberships)

	var tasks []model.Task
	var stories []model.Story

	for _, p := range projects {
		projectSections := bySection[p.ID]
		if len(projectSections) == 0 {
			continue
		}

		pool, dept := users, standardContext
		if p.TeamID != nil && len(members[*p.TeamID]) > 0 {
			pool = members[*p.TeamID]
			dept = poolDepartment(pool)
		}

		n := dist.Between(g.rng, minTasksPerProject, maxTasksPerProject)
		for i := 0; i < n; i++ {
			task := g.newTask(ctx, workspaceID, p, dist.Pick(g.rng, projectSections), pool, dept)
			tasks = append(tasks, task)

			if dist.Chance(g.rng, g.rates.Comment) {
				authors := pool
				if len(authors) == 0 {
					authors = users
				}
				stories = append(stories, g.newStories(ctx, task, authors)...)
			}
		}
	}

	return tasks, stories
}

func (g *Generator) newTask(
	ctx context.Context,
	workspaceID string,
	p model.Project,
	section model.Section,
	pool []model.User,
	dept string,
) model.Task {
	t := model.Task{
		ID:          g.newID(),
		WorkspaceID: workspaceID,
		ProjectID:   p.ID,
		SectionID:   section.ID,
		Name:        g.taskName(ctx, dept, section.Name),
		Priority:    priorityDist.Draw(g.rng),
	}

	lower := p.CreatedAt
	if len(pool) > 0 && !dist.Chance(g.rng, g.rates.UnassignedTask) {
		assignee := dist.Pick(g.rng, pool)
		t.AssigneeID = &assignee.ID
		lower = latest(lower, assignee.JoinedAt)
	}
	t.CreatedAt = g.dates.Within(lower, g.now)

	kind := classifySection(section.Name)
	if kind == sectionTerminal {
		completedAt := g.repairCompletion(t.CreatedAt, g.dates.Within(t.CreatedAt, g.now))
		t.Completed = true
		t.CompletedAt = &completedAt
		t.ModifiedAt = completedAt
	} else {
		t.ModifiedAt = g.dates.RandomInRange(t.CreatedAt, g.now, false)
	}

	if due, ok := g.dueDate(t.CreatedAt, kind); ok {
		t.DueDate = &due
	}

	if !dist.Chance(g.rng, g.rates.NullDescription) {
		desc := dist.Pick(g.rng, g.content.Descriptions(ctx, dept))
		t.Description = &desc
	}

	return t
}

// repairCompletion moves a completion that precedes creation to 1..48
// hours after it. Other completions are returned unchanged.
func (g *Generator) repairCompletion(created, completed time.Time) time.Time {
	if completed.Before(created) {
		return g.dates.Jitter(created, 1, 48)
	}
	return completed
}

// dueDate returns a date-only due date. Backlog tasks have none. Open
// tasks whose date is already past are pulled to the near future most
// of the time.
func (g *Generator) dueDate(created time.Time, kind sectionKind) (time.Time, bool) {
	if kind == sectionBacklog {
		return time.Time{}, false
	}

	due := dates.BusinessDayOffset(created, dist.Between(g.rng, 1, 10))
	if kind == sectionTerminal {
		return dates.DateOf(due), true
	}

	if g.generation.SprintDueDates {
		due = dates.SprintEnd(created)
	}

	today := dates.DateOf(g.now)
	if dates.DateOf(due).Before(today) && dist.Chance(g.rng, overdueCorrection) {
		due = dates.BusinessDayOffset(today, dist.Between(g.rng, 1, 5))
	}
	return dates.DateOf(due), true
}

func (g *Generator) taskName(ctx context.Context, dept, section string) string {
	base := dist.Pick(g.rng, g.content.TaskNames(ctx, dept, section))
	if dist.Chance(g.rng, saltRate) {
		return fmt.Sprintf("%s (#%d)", base, dist.Between(g.rng, 100, 9999))
	}
	return base
}

// newStories emits 1 to 3 comments on t. Authors who had joined by the
// comment time are preferred; otherwise the comment is moved after the
// chosen author's join date.
func (g *Generator) newStories(ctx context.Context, t model.Task, authors []model.User) []model.Story {
	if len(authors) == 0 {
		return nil
	}

	comments := g.content.Comments(ctx)
	n := dist.Between(g.rng, minStoriesPerTask, maxStoriesPerTask)
	out := make([]model.Story, 0, n)
	for i := 0; i < n; i++ {
		at := g.dates.Within(t.CreatedAt, g.now)

		eligible := joinedBy(authors, at)
		var author model.User
		if len(eligible) > 0 {
			author = dist.Pick(g.rng, eligible)
		} else {
			author = dist.Pick(g.rng, authors)
			at = g.dates.Within(latest(t.CreatedAt, author.JoinedAt), g.now)
		}

		out = append(out, model.Story{
			ID:         g.newID(),
			TargetID:   t.ID,
			TargetType: model.StoryTargetTask,
			Type:       model.StoryTypeComment,
			Text:       dist.Pick(g.rng, comments),
			CreatedBy:  author.ID,
			CreatedAt:  at,
		})
	}
	return out
}

func joinedBy(users []model.User, at time.Time) []model.User {
	var out []model.User
	for _, u := range users {
		if !u.JoinedAt.After(at) {
			out = append(out, u)
		}
	}
	return out
}

// poolDepartment returns the most common department among a team's
// members.
func poolDepartment(pool []model.User) string {
	counts := make(map[string]int)
	best, bestCount := standardContext, 0
	for _, u := range pool {
		counts[u.Department]++
		if c := counts[u.Department]; c > bestCount {
			best, bestCount = u.Department, c
		}
	}
	return best
}
