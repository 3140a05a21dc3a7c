package domain

import "time"

// Credentials is the login payload submitted by a client.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up payload submitted by a client.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Session is the authentication status derived from the current token.
// It has no storage of its own; it is recomputed on demand.
type Session struct {
	Authenticated bool
	User          *User
}

// AuthResult bundles a freshly minted token with its identity and expiry.
type AuthResult struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}
