package domain

import "time"

// UserRole separates regular participants from exchange administrators.
type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// User represents a registered exchange participant. The API key secret is
// never stored on the user itself; see store.UserStore.
type User struct {
	ID        string
	Name      string
	Role      UserRole
	CreatedAt time.Time
}

// IsAdmin reports whether the user may call administrative endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
