package domain

import "time"

// Role is one of the two access levels a session can carry.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Satisfies reports whether r meets the minimum role. Admin satisfies any
// requirement, user satisfies only user.
func (r Role) Satisfies(minimum Role) bool {
	switch r {
	case RoleAdmin:
		return minimum.Valid()
	case RoleUser:
		return minimum == RoleUser
	default:
		return false
	}
}

// User is a registered identity owned by the credential store.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
