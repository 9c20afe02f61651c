package interfaces

import "context"

// User describes the authenticated identity returned by the remote identity endpoint.
type User struct {
	Login       string `json:"login" yaml:"login"`
	DisplayName string `json:"name" yaml:"name"`
	AvatarURL   string `json:"avatar_url" yaml:"avatar_url"`
}

// IdentityProvider resolves the current user. Implementations return an error
// when the caller is not authenticated or the endpoint cannot be reached.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (*User, error)
}

// SessionTerminator is an optional extension for identity providers able to
// end the server-side session.
type SessionTerminator interface {
	TerminateSession(ctx context.Context) error
}
