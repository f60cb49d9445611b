package identity

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailInUse          = errors.New("an account with that email already exists")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)
