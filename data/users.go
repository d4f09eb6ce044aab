package data

import "time"

// AnonymousUser represents an unauthenticated request.
var AnonymousUser = &User{}

// User defines an account managed by the hosted identity provider. Only a
// small projection of the provider record is consumed locally.
type User struct {
	ID             string            `json:"id"`
	Email          string            `json:"email"`
	EmailConfirmed bool              `json:"email_confirmed"`
	Metadata       map[string]string `json:"user_metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// IsAnonymous checks if a user instance is the anonymous user.
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// UserBrief is the minimal display projection of a user joined onto comments:
// id, display name and avatar URL.
type UserBrief struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
