package generator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workspace-sim/internal/config"
	"github.com/nhle/workspace-sim/internal/content"
	"github.com/nhle/workspace-sim/internal/dates"
	"github.com/nhle/workspace-sim/internal/dist"
	"github.com/nhle/workspace-sim/internal/logger"
	"github.com/nhle/workspace-sim/internal/model"
)

// fixedNow is a Wednesday.
var fixedNow = time.Date(2025, time.June, 18, 15, 0, 0, 0, time.UTC)

func testConfig(users int) *config.Config {
	return &config.Config{
		Population: config.PopulationConfig{Users: users},
		History:    config.HistoryConfig{Days: 730},
		Rates: config.RatesConfig{
			ArchivedProject: 0.15,
			UnassignedTask:  0.15,
			NullDescription: 0.10,
			Comment:         0.40,
		},
		Generation: config.GenerationConfig{ScopedOwners: true},
	}
}

func newTestGenerator(t *testing.T, cfg *config.Config, seed uint64) *Generator {
	t.Helper()
	rng, _ := dist.NewRand(seed)
	provider := content.NewProvider(nil, rng, content.Options{}, logger.Nop())
	return New(cfg, provider, rng, logger.Nop(), WithNow(fixedNow))
}

func TestRunProducesConsistentDataset(t *testing.T) {
	g := newTestGenerator(t, testConfig(50), 1)
	ds := g.Run(context.Background())

	require.Len(t, ds.Users, 50)
	require.GreaterOrEqual(t, len(ds.Teams), len(model.Departments))

	users := map[string]model.User{}
	emails := map[string]bool{}
	for _, u := range ds.Users {
		users[u.ID] = u
		assert.False(t, emails[u.Email], "duplicate email %s", u.Email)
		emails[u.Email] = true
		assert.True(t, strings.HasSuffix(u.Email, "@"+ds.Workspace.Domain))
		assert.True(t, ds.Workspace.CreatedAt.Before(u.JoinedAt))
		assert.False(t, u.JoinedAt.After(fixedNow))
	}

	teams := map[string]model.Team{}
	for _, tm := range ds.Teams {
		teams[tm.ID] = tm
	}

	members := map[string]map[string]bool{}
	deptTeamOf := map[string]bool{}
	for _, m := range ds.Memberships {
		require.Contains(t, teams, m.TeamID)
		require.Contains(t, users, m.UserID)
		if members[m.TeamID] == nil {
			members[m.TeamID] = map[string]bool{}
		}
		members[m.TeamID][m.UserID] = true
		if teams[m.TeamID].Name == users[m.UserID].Department+" Team" {
			deptTeamOf[m.UserID] = true
		}
		assert.False(t, users[m.UserID].JoinedAt.Before(teams[m.TeamID].CreatedAt))
	}
	assert.Len(t, deptTeamOf, len(ds.Users), "every user is in its department team")

	projects := map[string]model.Project{}
	projectsPerTeam := map[string]int{}
	for _, p := range ds.Projects {
		projects[p.ID] = p
		require.NotNil(t, p.TeamID)
		require.Contains(t, teams, *p.TeamID)
		projectsPerTeam[*p.TeamID]++
		require.NotNil(t, p.OwnerID)
		owner := users[*p.OwnerID]
		if len(members[*p.TeamID]) > 0 {
			assert.True(t, members[*p.TeamID][owner.ID], "owner outside team")
		}
		assert.False(t, p.CreatedAt.Before(owner.JoinedAt))
		assert.False(t, p.CreatedAt.Before(fixedNow.Add(-projectWindow)))
		assert.False(t, p.ModifiedAt.Before(p.CreatedAt))
		assert.NotEmpty(t, p.Name)
		assert.Contains(t, projectColors, p.Color)
	}
	for id := range teams {
		assert.GreaterOrEqual(t, projectsPerTeam[id], minProjectsPerTeam)
		assert.LessOrEqual(t, projectsPerTeam[id], maxProjectsPerTeam)
	}

	sections := map[string]model.Section{}
	for _, s := range ds.Sections {
		sections[s.ID] = s
		require.Contains(t, projects, s.ProjectID)
		assert.Equal(t, projects[s.ProjectID].CreatedAt, s.CreatedAt)
	}

	tasks := map[string]model.Task{}
	tasksPerProject := map[string]int{}
	for _, task := range ds.Tasks {
		tasks[task.ID] = task
		p := projects[task.ProjectID]
		require.Contains(t, projects, task.ProjectID)
		require.Contains(t, sections, task.SectionID)
		assert.Equal(t, task.ProjectID, sections[task.SectionID].ProjectID)
		tasksPerProject[task.ProjectID]++

		assert.False(t, task.CreatedAt.Before(p.CreatedAt))
		assert.False(t, task.ModifiedAt.Before(task.CreatedAt))
		if task.AssigneeID != nil {
			if len(members[*p.TeamID]) > 0 {
				assert.True(t, members[*p.TeamID][*task.AssigneeID], "assignee outside team")
			}
			assert.False(t, task.CreatedAt.Before(users[*task.AssigneeID].JoinedAt))
		}

		kind := classifySection(sections[task.SectionID].Name)
		if task.Completed {
			require.Equal(t, sectionTerminal, kind)
			require.NotNil(t, task.CompletedAt)
			assert.False(t, task.CompletedAt.Before(task.CreatedAt))
		} else {
			assert.Nil(t, task.CompletedAt)
		}
		if kind == sectionBacklog {
			assert.Nil(t, task.DueDate)
		} else {
			require.NotNil(t, task.DueDate)
			assert.Equal(t, dates.DateOf(*task.DueDate), *task.DueDate)
			assert.False(t, dates.IsWeekend(*task.DueDate))
		}

		assert.Contains(t, []string{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}, task.Priority)
		assertClean(t, task.Name)
		if task.Description != nil {
			assertClean(t, *task.Description)
		}
	}
	for id := range projects {
		assert.GreaterOrEqual(t, tasksPerProject[id], minTasksPerProject)
		assert.LessOrEqual(t, tasksPerProject[id], maxTasksPerProject)
	}

	for _, s := range ds.Stories {
		task, ok := tasks[s.TargetID]
		require.True(t, ok)
		author, ok := users[s.CreatedBy]
		require.True(t, ok)
		assert.Equal(t, model.StoryTargetTask, s.TargetType)
		assert.Equal(t, model.StoryTypeComment, s.Type)
		assert.False(t, s.CreatedAt.Before(task.CreatedAt))
		assert.False(t, s.CreatedAt.Before(author.JoinedAt))
		assertClean(t, s.Text)
	}
}

func assertClean(t *testing.T, s string) {
	t.Helper()
	for _, m := range content.PlaceholderMarkers {
		assert.NotContains(t, s, m)
	}
}

func TestGenerateUsersZeroCount(t *testing.T) {
	g := newTestGenerator(t, testConfig(1), 2)
	ws := g.GenerateWorkspace()
	assert.Empty(t, g.GenerateUsers(ws, 0))
	assert.Empty(t, g.GenerateUsers(ws, -3))

	teams, memberships := g.GenerateTeams(ws, nil)
	assert.Len(t, teams, len(model.Departments))
	assert.Empty(t, memberships)
	for _, team := range teams {
		assert.Equal(t, ws.CreatedAt, team.CreatedAt)
	}
}

func TestGenerateUsersDepartmentSkew(t *testing.T) {
	g := newTestGenerator(t, testConfig(1), 3)
	users := g.GenerateUsers(g.GenerateWorkspace(), 4000)

	depts := map[string]int{}
	roles := map[string]int{}
	for _, u := range users {
		depts[u.Department]++
		roles[u.Role]++
		assert.False(t, dates.IsWeekend(u.JoinedAt))
	}
	assert.InDelta(t, 0.30, float64(depts[model.DepartmentEngineering])/4000, 0.04)
	assert.InDelta(t, 0.10, float64(depts[model.DepartmentDesign])/4000, 0.03)
	assert.InDelta(t, 0.90, float64(roles[model.RoleMember])/4000, 0.03)
}

func TestGenerateTeamsSquads(t *testing.T) {
	g := newTestGenerator(t, testConfig(1), 4)
	ws := g.GenerateWorkspace()
	users := g.GenerateUsers(ws, 600)
	teams, memberships := g.GenerateTeams(ws, users)

	squadCount := map[string]int{}
	leads := map[string]int{}
	squadOf := map[string]int{}
	isSquad := map[string]bool{}
	for _, team := range teams {
		isSquad[team.ID] = !strings.HasSuffix(team.Name, " Team")
	}
	for _, m := range memberships {
		if !isSquad[m.TeamID] {
			assert.Equal(t, model.MembershipMember, m.Role)
			continue
		}
		squadCount[m.TeamID]++
		squadOf[m.UserID]++
		if m.Role == model.MembershipLead {
			leads[m.TeamID]++
		}
	}

	for id, n := range squadCount {
		assert.LessOrEqual(t, n, maxSquadSize)
		assert.Equal(t, 1, leads[id], "one lead per squad")
	}
	assert.Len(t, squadOf, len(users))
	for _, n := range squadOf {
		assert.Equal(t, 1, n)
	}
}

func TestSquadName(t *testing.T) {
	assert.Equal(t, "Sales Alpha", squadName("Sales", 1))
	assert.Equal(t, "Sales Dolphin", squadName("Sales", 20))
	assert.Equal(t, "Sales Squad 21", squadName("Sales", 21))
}

func TestDepartmentOf(t *testing.T) {
	tests := map[string]string{
		"Engineering Team":  model.DepartmentEngineering,
		"marketing phoenix": model.DepartmentMarketing,
		"Design Squad 22":   model.DepartmentDesign,
		"Platform Guild":    standardContext,
	}
	for name, want := range tests {
		assert.Equal(t, want, departmentOf(name), name)
	}
}

func TestProjectNameFallsBackWithoutTemplate(t *testing.T) {
	g := newTestGenerator(t, testConfig(1), 5)
	name := g.projectName(context.Background(), standardContext, "Platform Guild", 1)
	assert.Regexp(t, `^Platform Guild Project \d{3}$`, name)

	name = g.projectName(context.Background(), model.DepartmentSales, "Sales Team", 2)
	assert.True(t, strings.HasSuffix(name, " - 2025"), name)
}

func TestUnscopedOwners(t *testing.T) {
	cfg := testConfig(120)
	cfg.Generation.ScopedOwners = false
	g := newTestGenerator(t, cfg, 6)
	ds := g.Run(context.Background())

	users := map[string]model.User{}
	for _, u := range ds.Users {
		users[u.ID] = u
	}
	for _, p := range ds.Projects {
		require.NotNil(t, p.OwnerID)
		require.Contains(t, users, *p.OwnerID)
		assert.False(t, p.CreatedAt.Before(users[*p.OwnerID].JoinedAt))
	}
}

func TestClassifySection(t *testing.T) {
	assert.Equal(t, sectionTerminal, classifySection("Done"))
	assert.Equal(t, sectionTerminal, classifySection("Published"))
	assert.Equal(t, sectionTerminal, classifySection("Completed"))
	assert.Equal(t, sectionBacklog, classifySection("Backlog"))
	assert.Equal(t, sectionOpen, classifySection("In Progress"))
}

func TestDueDateRules(t *testing.T) {
	g := newTestGenerator(t, testConfig(1), 7)
	created := time.Date(2025, time.June, 16, 10, 0, 0, 0, time.UTC)

	_, ok := g.dueDate(created, sectionBacklog)
	assert.False(t, ok)

	for i := 0; i < 200; i++ {
		due, ok := g.dueDate(created, sectionOpen)
		require.True(t, ok)
		assert.True(t, due.After(created))
		assert.LessOrEqual(t, due.Sub(dates.DateOf(created)), 14*24*time.Hour)
	}

	cfg := testConfig(1)
	cfg.Generation.SprintDueDates = true
	sprint := newTestGenerator(t, cfg, 8)
	due, ok := sprint.dueDate(created, sectionOpen)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC), due)
}

func TestDueDateOverdueCorrection(t *testing.T) {
	g := newTestGenerator(t, testConfig(1), 9)
	old := fixedNow.AddDate(0, -3, 0)
	today := dates.DateOf(fixedNow)

	corrected := 0
	const n = 2000
	for i := 0; i < n; i++ {
		due, _ := g.dueDate(old, sectionOpen)
		if !due.Before(today) {
			corrected++
			assert.LessOrEqual(t, due.Sub(today), 7*24*time.Hour)
		}
	}
	assert.InDelta(t, overdueCorrection, float64(corrected)/n, 0.04)
}

func TestRunIsReproducibleOffline(t *testing.T) {
	a := newTestGenerator(t, testConfig(30), 42).Run(context.Background())
	b := newTestGenerator(t, testConfig(30), 42).Run(context.Background())

	require.Equal(t, len(a.Tasks), len(b.Tasks))
	require.Equal(t, len(a.Stories), len(b.Stories))
	assert.Equal(t, a.Workspace.ID, b.Workspace.ID)
	for i := range a.Users {
		assert.Equal(t, a.Users[i].ID, b.Users[i].ID)
		assert.Equal(t, a.Users[i].Email, b.Users[i].Email)
		assert.Equal(t, a.Users[i].JoinedAt, b.Users[i].JoinedAt)
	}
	for i := range a.Stories {
		assert.Equal(t, a.Stories[i].ID, b.Stories[i].ID)
		assert.Equal(t, a.Stories[i].TargetID, b.Stories[i].TargetID)
	}
	for i := range a.Tasks {
		assert.Equal(t, a.Tasks[i].ID, b.Tasks[i].ID)
		assert.Equal(t, a.Tasks[i].Name, b.Tasks[i].Name)
		assert.Equal(t, a.Tasks[i].CreatedAt, b.Tasks[i].CreatedAt)
	}
}

func TestRepairCompletion(t *testing.T) {
	g := newTestGenerator(t, testConfig(1), 3)
	created := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

	early := created.Add(-3 * time.Hour)
	repaired := g.repairCompletion(created, early)
	assert.False(t, repaired.Before(created.Add(time.Hour)), repaired)
	assert.False(t, repaired.After(created.Add(48*time.Hour)), repaired)

	later := created.Add(5 * time.Hour)
	assert.Equal(t, later, g.repairCompletion(created, later))
	assert.Equal(t, created, g.repairCompletion(created, created))
}

func TestIDsAreUnique(t *testing.T) {
	ds := newTestGenerator(t, testConfig(40), 11).Run(context.Background())

	seen := make(map[string]bool)
	add := func(id string) {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	add(ds.Workspace.ID)
	for _, u := range ds.Users {
		add(u.ID)
	}
	for _, tm := range ds.Teams {
		add(tm.ID)
	}
	for _, p := range ds.Projects {
		add(p.ID)
	}
	for _, s := range ds.Sections {
		add(s.ID)
	}
	for _, tk := range ds.Tasks {
		add(tk.ID)
	}
	for _, st := range ds.Stories {
		add(st.ID)
	}
}
