package auth

// Role is the coarse access level carried in session tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the two supported levels.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Action is a resource-level operation on a user record.
type Action string

const (
	ActionView      Action = "view"
	ActionEdit      Action = "edit"
	ActionEditRole  Action = "edit_role"
	ActionEditEmail Action = "edit_email"
	ActionDelete    Action = "delete"
)
