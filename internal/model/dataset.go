package model

// Dataset is the complete output of one generation run. Fields are
// declared in dependency order: every entity only references entities
// in fields above it.
type Dataset struct {
	Workspace   Workspace
	Users       []User
	Teams       []Team
	Memberships []TeamMembership
	Projects    []Project
	Sections    []Section
	Tasks       []Task
	Stories     []Story
}
