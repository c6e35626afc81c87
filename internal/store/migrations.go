package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered SQLite schema history.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS workspaces (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	domain     TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL REFERENCES workspaces(id),
	email        TEXT NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	department   TEXT NOT NULL,
	role         TEXT NOT NULL,
	avatar_url   TEXT NOT NULL DEFAULT '',
	joined_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS teams (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL REFERENCES workspaces(id),
	name         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS team_memberships (
	team_id TEXT NOT NULL REFERENCES teams(id),
	user_id TEXT NOT NULL REFERENCES users(id),
	role    TEXT NOT NULL DEFAULT 'Member' CHECK(role IN ('Member', 'Lead')),
	PRIMARY KEY (team_id, user_id)
);

CREATE TABLE IF NOT EXISTS projects (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL REFERENCES workspaces(id),
	team_id      TEXT REFERENCES teams(id),
	owner_id     TEXT REFERENCES users(id),
	name         TEXT NOT NULL,
	description  TEXT,
	archived     INTEGER NOT NULL DEFAULT 0 CHECK(archived IN (0, 1)),
	color        TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL,
	modified_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS sections (
	id          TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL REFERENCES projects(id),
	name        TEXT NOT NULL,
	order_index INTEGER NOT NULL,
	created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL REFERENCES workspaces(id),
	project_id   TEXT NOT NULL REFERENCES projects(id),
	section_id   TEXT NOT NULL REFERENCES sections(id),
	assignee_id  TEXT REFERENCES users(id),
	name         TEXT NOT NULL,
	description  TEXT,
	priority     TEXT NOT NULL CHECK(priority IN ('Low', 'Medium', 'High')),
	completed    INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	completed_at DATETIME,
	due_date     DATE,
	created_at   DATETIME NOT NULL,
	modified_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS stories (
	id          TEXT PRIMARY KEY,
	target_id   TEXT NOT NULL REFERENCES tasks(id),
	target_type TEXT NOT NULL DEFAULT 'task',
	type        TEXT NOT NULL DEFAULT 'comment',
	text        TEXT NOT NULL,
	created_by  TEXT NOT NULL REFERENCES users(id),
	created_at  DATETIME NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_users_workspace ON users(workspace_id);
CREATE INDEX IF NOT EXISTS idx_memberships_user ON team_memberships(user_id);
CREATE INDEX IF NOT EXISTS idx_projects_team ON projects(team_id);
CREATE INDEX IF NOT EXISTS idx_sections_project ON sections(project_id, order_index);
CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
CREATE INDEX IF NOT EXISTS idx_stories_target ON stories(target_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
