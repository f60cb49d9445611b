package identity

import "context"

// User is the provider's view of a signed-in identity.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Listener is invoked on session changes. A nil user means signed out.
type Listener func(u *User)

// Provider is the identity provider port. The service depends only on
// these five capabilities; any provider offering them is substitutable.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	CreateUser(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context, uid string) error
	UpdateDisplayName(ctx context.Context, uid, name string) error
	OnSessionChange(l Listener)
}
