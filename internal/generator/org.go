package generator

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/workspace-sim/internal/dist"
	"github.com/nhle/workspace-sim/internal/model"
)

var departmentDist = dist.MustWeighted(model.Departments, []float64{30, 15, 10, 20, 15, 10})

var roleDist = dist.MustWeighted(
	[]string{model.RoleAdmin, model.RoleMember, model.RoleGuest},
	[]float64{5, 90, 5},
)

var squadNames = []string{
	"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta", "Theta", "Iota", "Kappa",
	"Phoenix", "Dragon", "Tiger", "Eagle", "Lion", "Wolf", "Bear", "Shark", "Whale", "Dolphin",
}

const (
	minSquadSize     = 5
	maxSquadSize     = 15
	userLogInterval  = 1000
	avatarBaseURL    = "https://ui-avatars.com/api/?name="
	maxWorkspaceLead = 30
)

// GenerateWorkspace creates the tenant. Its creation time precedes the
// history window so every user joins after it.
func (g *Generator) GenerateWorkspace() model.Workspace {
	lead := time.Duration(dist.Between(g.rng, 1, maxWorkspaceLead)) * 24 * time.Hour
	return model.Workspace{
		ID:        g.newID(),
		Name:      g.faker.Company(),
		Domain:    strings.ToLower(g.faker.DomainName()),
		CreatedAt: g.now.Add(-g.history - lead),
	}
}

// GenerateUsers creates count users in ws. The per-user index is part
// of every email's local part, which keeps emails unique regardless of
// name collisions. count <= 0 yields no users.
func (g *Generator) GenerateUsers(ws model.Workspace, count int) []model.User {
	if count <= 0 {
		return nil
	}

	users := make([]model.User, 0, count)
	windowStart := g.now.Add(-g.history)
	for i := 0; i < count; i++ {
		if i > 0 && i%userLogInterval == 0 {
			g.log.Infow("generating users", "done", i, "total", count)
		}

		name := g.faker.FirstName() + " " + g.faker.LastName()
		users = append(users, model.User{
			ID:          g.newID(),
			WorkspaceID: ws.ID,
			Email:       fmt.Sprintf("%s.%d@%s", usernameOf(g.faker.Username()), i, ws.Domain),
			Name:        name,
			Department:  departmentDist.Draw(g.rng),
			Role:        roleDist.Draw(g.rng),
			AvatarURL:   avatarBaseURL + url.QueryEscape(name),
			JoinedAt:    g.dates.Within(windowStart, g.now),
		})
	}
	return users
}

// usernameOf keeps only characters that are safe in an email local
// part without quoting.
func usernameOf(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

// GenerateTeams creates one team per department holding all of its
// users, then splits each department into squads of 5 to 15. Every
// user belongs to its department team and to exactly one squad.
func (g *Generator) GenerateTeams(ws model.Workspace, users []model.User) ([]model.Team, []model.TeamMembership) {
	byDept := make(map[string][]model.User, len(model.Departments))
	for _, u := range users {
		byDept[u.Department] = append(byDept[u.Department], u)
	}

	var teams []model.Team
	var memberships []model.TeamMembership

	for _, dept := range model.Departments {
		members := byDept[dept]
		team := model.Team{
			ID:          g.newID(),
			WorkspaceID: ws.ID,
			Name:        dept + " Team",
			Description: fmt.Sprintf("The %s department team.", dept),
			CreatedAt:   formedAt(ws, members),
		}
		teams = append(teams, team)
		for _, u := range members {
			memberships = append(memberships, model.TeamMembership{
				TeamID: team.ID,
				UserID: u.ID,
				Role:   model.MembershipMember,
			})
		}
	}

	for _, dept := range model.Departments {
		shuffled := dist.Shuffled(g.rng, byDept[dept])
		squadNum := 1
		for i := 0; i < len(shuffled); squadNum++ {
			size := dist.Between(g.rng, minSquadSize, maxSquadSize)
			end := min(i+size, len(shuffled))
			chunk := shuffled[i:end]
			i = end

			team := model.Team{
				ID:          g.newID(),
				WorkspaceID: ws.ID,
				Name:        squadName(dept, squadNum),
				Description: "Squad within " + dept,
				CreatedAt:   formedAt(ws, chunk),
			}
			teams = append(teams, team)

			lead := earliest(chunk)
			for _, u := range chunk {
				role := model.MembershipMember
				if u.ID == lead.ID {
					role = model.MembershipLead
				}
				memberships = append(memberships, model.TeamMembership{
					TeamID: team.ID,
					UserID: u.ID,
					Role:   role,
				})
			}
		}
	}

	return teams, memberships
}

func squadName(dept string, n int) string {
	if n <= len(squadNames) {
		return dept + " " + squadNames[n-1]
	}
	return fmt.Sprintf("%s Squad %d", dept, n)
}

// formedAt is the earliest member join time, or the workspace creation
// time for an empty team.
func formedAt(ws model.Workspace, members []model.User) time.Time {
	if len(members) == 0 {
		return ws.CreatedAt
	}
	return earliest(members).JoinedAt
}

func earliest(users []model.User) model.User {
	first := users[0]
	for _, u := range users[1:] {
		if u.JoinedAt.Before(first.JoinedAt) {
			first = u
		}
	}
	return first
}
