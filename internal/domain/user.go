package domain

// User is the identity carried by an authenticated session.
type User struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Roles     []string `json:"roles,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`
}

// HasRole reports whether the user carries the given role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserRecord is a basic persisted user row exposed by the /users endpoints.
// It is independent from the session identity: the auth flow never consults
// this registry.
type UserRecord struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
