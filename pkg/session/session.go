package session

import "github.com/google/uuid"

// RoleAdmin is the role string that grants the operator bypass in
// entitlement checks.
const RoleAdmin = "admin"

// User is the account record carried inside a session.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Role        string    `json:"role,omitempty"`
	IsSuperuser bool      `json:"is_superuser,omitempty"`
}

// IsOperator reports whether the user bypasses plan-based access checks.
func (u User) IsOperator() bool {
	return u.IsSuperuser || u.Role == RoleAdmin
}

// Session pairs the API tokens with the user they authenticate. The three
// fields are only ever persisted together.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Valid reports whether the session carries both tokens.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}
