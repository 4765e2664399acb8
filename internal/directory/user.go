package directory

import (
	"time"

	"userdesk.org/internal/auth"
)

// User is a directory record. PasswordHash never leaves the process: it is
// excluded from JSON and handler responses marshal this struct directly.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        *string   `json:"phone"`
	Role         auth.Role `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
