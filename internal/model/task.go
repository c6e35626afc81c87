package model

import "time"

// Task priority values.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Story target and type values. Only task comments are generated.
const (
	StoryTargetTask  = "task"
	StoryTypeComment = "comment"
)

// Task is a unit of work placed in a project section.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id" db:"id"`

	// WorkspaceID links the task to its workspace.
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`

	// ProjectID and SectionID locate the task on a board. The section
	// always belongs to the project.
	ProjectID string `json:"project_id" db:"project_id"`
	SectionID string `json:"section_id" db:"section_id"`

	// AssigneeID is nil for unassigned tasks. When set, the user is a
	// member of the project's team (or any user if the project has none).
	AssigneeID *string `json:"assignee_id,omitempty" db:"assignee_id"`

	// Name is the human-readable summary.
	Name string `json:"name" db:"name"`

	// Description is nil for tasks without a body.
	Description *string `json:"description,omitempty" db:"description"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority" db:"priority"`

	// Completed tasks always carry CompletedAt >= CreatedAt.
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	// DueDate is a date-only value (midnight UTC).
	DueDate *time.Time `json:"due_date,omitempty" db:"due_date"`

	// CreatedAt never precedes the project's creation.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// ModifiedAt is the last activity on the task.
	ModifiedAt time.Time `json:"modified_at" db:"modified_at"`
}

// Story is a timestamped comment attached to a task.
type Story struct {
	ID         string    `json:"id" db:"id"`
	TargetID   string    `json:"target_id" db:"target_id"`
	TargetType string    `json:"target_type" db:"target_type"`
	Type       string    `json:"type" db:"type"`
	Text       string    `json:"text" db:"text"`
	CreatedBy  string    `json:"created_by" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
