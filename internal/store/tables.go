package store

import (
	"time"

	"github.com/nhle/workspace-sim/internal/model"
)

// Table names in dependency order.
const (
	tableWorkspaces  = "workspaces"
	tableUsers       = "users"
	tableTeams       = "teams"
	tableMemberships = "team_memberships"
	tableProjects    = "projects"
	tableSections    = "sections"
	tableTasks       = "tasks"
	tableStories     = "stories"
)

// Tables lists every table in the order Persist writes them.
var Tables = []string{
	tableWorkspaces, tableUsers, tableTeams, tableMemberships,
	tableProjects, tableSections, tableTasks, tableStories,
}

var workspacesTable = table[model.Workspace]{
	name:    tableWorkspaces,
	columns: []string{"id", "name", "domain", "created_at"},
	values: func(w model.Workspace) []any {
		return []any{w.ID, w.Name, w.Domain, w.CreatedAt.UTC()}
	},
}

var usersTable = table[model.User]{
	name:    tableUsers,
	columns: []string{"id", "workspace_id", "email", "name", "department", "role", "avatar_url", "joined_at"},
	values: func(u model.User) []any {
		return []any{u.ID, u.WorkspaceID, u.Email, u.Name, u.Department, u.Role, u.AvatarURL, u.JoinedAt.UTC()}
	},
}

var teamsTable = table[model.Team]{
	name:    tableTeams,
	columns: []string{"id", "workspace_id", "name", "description", "created_at"},
	values: func(t model.Team) []any {
		return []any{t.ID, t.WorkspaceID, t.Name, t.Description, t.CreatedAt.UTC()}
	},
}

var membershipsTable = table[model.TeamMembership]{
	name:    tableMemberships,
	columns: []string{"team_id", "user_id", "role"},
	values: func(m model.TeamMembership) []any {
		return []any{m.TeamID, m.UserID, m.Role}
	},
}

var projectsTable = table[model.Project]{
	name: tableProjects,
	columns: []string{
		"id", "workspace_id", "team_id", "owner_id", "name", "description",
		"archived", "color", "created_at", "modified_at",
	},
	values: func(p model.Project) []any {
		return []any{
			p.ID, p.WorkspaceID, p.TeamID, p.OwnerID, p.Name, p.Description,
			p.Archived, p.Color, p.CreatedAt.UTC(), p.ModifiedAt.UTC(),
		}
	},
}

var sectionsTable = table[model.Section]{
	name:    tableSections,
	columns: []string{"id", "project_id", "name", "order_index", "created_at"},
	values: func(s model.Section) []any {
		return []any{s.ID, s.ProjectID, s.Name, s.OrderIndex, s.CreatedAt.UTC()}
	},
}

var tasksTable = table[model.Task]{
	name: tableTasks,
	columns: []string{
		"id", "workspace_id", "project_id", "section_id", "assignee_id", "name", "description",
		"priority", "completed", "completed_at", "due_date", "created_at", "modified_at",
	},
	values: func(t model.Task) []any {
		return []any{
			t.ID, t.WorkspaceID, t.ProjectID, t.SectionID, t.AssigneeID, t.Name, t.Description,
			t.Priority, t.Completed, utcPtr(t.CompletedAt), utcPtr(t.DueDate), t.CreatedAt.UTC(), t.ModifiedAt.UTC(),
		}
	},
}

var storiesTable = table[model.Story]{
	name:    tableStories,
	columns: []string{"id", "target_id", "target_type", "type", "text", "created_by", "created_at"},
	values: func(s model.Story) []any {
		return []any{s.ID, s.TargetID, s.TargetType, s.Type, s.Text, s.CreatedBy, s.CreatedAt.UTC()}
	},
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
