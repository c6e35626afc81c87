package model

import (
	"time"

	"github.com/google/uuid"
)

// Department names. Team names embed these so downstream generators can
// recover the department context from a team.
const (
	DepartmentEngineering = "Engineering"
	DepartmentProduct     = "Product"
	DepartmentDesign      = "Design"
	DepartmentMarketing   = "Marketing"
	DepartmentSales       = "Sales"
	DepartmentOperations  = "Operations"
)

// Departments lists every department in canonical order.
var Departments = []string{
	DepartmentEngineering,
	DepartmentProduct,
	DepartmentDesign,
	DepartmentMarketing,
	DepartmentSales,
	DepartmentOperations,
}

// Workspace roles.
const (
	RoleAdmin  = "Admin"
	RoleMember = "Member"
	RoleGuest  = "Guest"
)

// Team membership roles.
const (
	MembershipMember = "Member"
	MembershipLead   = "Lead"
)

// NewID returns a random identifier from crypto randomness. It is not
// reproducible; generated datasets draw IDs from the run's seeded source.
func NewID() string {
	return uuid.New().String()
}

// Workspace is the top-level tenant that owns every other entity.
type Workspace struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Domain    string    `json:"domain" db:"domain"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// User is a member of the workspace.
type User struct {
	// ID is the unique identifier for this user.
	ID string `json:"id" db:"id"`

	// WorkspaceID links the user to its workspace.
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`

	// Email is unique across the workspace.
	Email string `json:"email" db:"email"`

	// Name is the display name.
	Name string `json:"name" db:"name"`

	// Department is one of Departments.
	Department string `json:"department" db:"department"`

	// Role is the workspace role (Role* constants).
	Role string `json:"role" db:"role"`

	// AvatarURL points at a generated avatar image.
	AvatarURL string `json:"avatar_url" db:"avatar_url"`

	// JoinedAt is when the user joined. Nothing may be attributed to
	// the user before this instant.
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// Team is either a department-wide team or a smaller squad.
type Team struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TeamMembership joins users to teams. A user may belong to several
// teams: its department team plus at most one squad.
type TeamMembership struct {
	TeamID string `json:"team_id" db:"team_id"`
	UserID string `json:"user_id" db:"user_id"`
	Role   string `json:"role" db:"role"`
}
