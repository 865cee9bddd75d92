package domain

import "time"

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Action identifies a permission-checked class of operations.
type Action string

const (
	// ActionRead covers listing and fetching departments, employees and stats.
	ActionRead Action = "read"
	// ActionWrite covers create/update/delete on departments and employees.
	ActionWrite Action = "write"
)

// capabilities is the single authorization policy table. Role checks happen
// here, never as string comparisons in handlers.
var capabilities = map[Role]map[Action]bool{
	RoleUser:  {ActionRead: true},
	RoleAdmin: {ActionRead: true, ActionWrite: true},
}

// Can reports whether the role is permitted to perform the action.
func (r Role) Can(a Action) bool {
	return capabilities[r][a]
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
