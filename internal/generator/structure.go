package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/workspace-sim/internal/dist"
	"github.com/nhle/workspace-sim/internal/model"
)

// standardContext is the department context for teams whose name does
// not mention a known department.
const standardContext = "Standard"

const (
	minProjectsPerTeam = 2
	maxProjectsPerTeam = 5
	projectWindow      = 180 * 24 * time.Hour
)

var projectTemplates = map[string][]string{
	model.DepartmentEngineering: {"Core Infrastructure Migration", "API V2 Refactor", "Q3 Bug Bash", "Mobile App Performance Tuning"},
	model.DepartmentMarketing:   {"Q4 Brand Campaign", "SEO Optimization", "Social Media Calendar", "Conference Planning"},
	model.DepartmentProduct:     {"User Research Q2", "Feature Roadmap Planning", "Competitor Analysis"},
	model.DepartmentDesign:      {"Design System V2", "Website Redesign", "Mobile UI Kit"},
	model.DepartmentSales:       {"Enterprise Lead Gen", "Sales Enablement Deck", "CRM Cleanup"},
	model.DepartmentOperations:  {"Office Move", "Quarterly Offsite Planning", "Vendor Review"},
}

var sectionTemplates = map[string][]string{
	model.DepartmentEngineering: {"Backlog", "To Do", "In Progress", "Code Review", "QA", "Done"},
	model.DepartmentMarketing:   {"Ideation", "Drafting", "Review", "Approved", "Published"},
	standardContext:             {"To Do", "In Progress", "Blocked", "Done"},
}

var projectColors = []string{"Red", "Green", "Blue", "Yellow", "Orange", "Purple"}

// departmentOf infers a team's department by case-insensitive substring
// match on its name. It is a best-effort heuristic: a name mentioning no
// department, or a custom team, maps to standardContext.
func departmentOf(teamName string) string {
	lower := strings.ToLower(teamName)
	for _, d := range model.Departments {
		if strings.Contains(lower, strings.ToLower(d)) {
			return d
		}
	}
	return standardContext
}

func sectionsFor(dept string) []string {
	if names, ok := sectionTemplates[dept]; ok {
		return names
	}
	return sectionTemplates[standardContext]
}

// GenerateProjects creates 2 to 5 projects per team, each with the
// ordered sections of its department template. Owners come from the
// team's members when scoped ownership is enabled and the team has
// members; otherwise from the whole population.
func (g *Generator) GenerateProjects(
	ctx context.Context,
	workspaceID string,
	teams []model.Team,
	users []model.User,
	memberships []model.TeamMembership,
) ([]model.Project, []model.Section) {
	members := teamMembers(users, memberships)

	var projects []model.Project
	var sections []model.Section

	for _, team := range teams {
		dept := departmentOf(team.Name)

		candidates := users
		if g.generation.ScopedOwners && len(members[team.ID]) > 0 {
			candidates = members[team.ID]
		}

		n := dist.Between(g.rng, minProjectsPerTeam, maxProjectsPerTeam)
		for i := 0; i < n; i++ {
			p := model.Project{
				ID:          g.newID(),
				WorkspaceID: workspaceID,
				TeamID:      &team.ID,
				Name:        g.projectName(ctx, dept, team.Name, i+1),
				Archived:    dist.Chance(g.rng, g.rates.ArchivedProject),
				Color:       dist.Pick(g.rng, projectColors),
			}

			lower := g.now.Add(-projectWindow)
			if len(candidates) > 0 {
				owner := dist.Pick(g.rng, candidates)
				p.OwnerID = &owner.ID
				lower = latest(lower, owner.JoinedAt)
			}
			p.CreatedAt = g.dates.Within(lower, g.now)
			p.ModifiedAt = g.dates.RandomInRange(p.CreatedAt, g.now, false)

			if !dist.Chance(g.rng, g.rates.NullDescription) {
				desc := dist.Pick(g.rng, g.content.Descriptions(ctx, dept))
				p.Description = &desc
			}

			projects = append(projects, p)

			for idx, name := range sectionsFor(dept) {
				sections = append(sections, model.Section{
					ID:         g.newID(),
					ProjectID:  p.ID,
					Name:       name,
					OrderIndex: idx,
					CreatedAt:  p.CreatedAt,
				})
			}
		}
	}

	return projects, sections
}

// projectName prefers the department template pool, then the content
// provider, then a synthetic name. It always returns a non-empty name.
func (g *Generator) projectName(ctx context.Context, dept, teamName string, n int) string {
	if pool, ok := projectTemplates[dept]; ok {
		return fmt.Sprintf("%s - %d", dist.Pick(g.rng, pool), g.now.Year())
	}

	if name, ok := g.content.ProjectName(ctx, dept, teamName, n); ok {
		return strings.ReplaceAll(name, `"`, "")
	}

	return fmt.Sprintf("%s Project %d", teamName, dist.Between(g.rng, 100, 999))
}

// teamMembers resolves memberships to users, keyed by team ID. Member
// order follows the membership list.
func teamMembers(users []model.User, memberships []model.TeamMembership) map[string][]model.User {
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make(map[string][]model.User)
	for _, m := range memberships {
		if u, ok := byID[m.UserID]; ok {
			out[m.TeamID] = append(out[m.TeamID], u)
		}
	}
	return out
}
