package domain

import "errors"

var (
	ErrOperationInFlight = errors.New("another auth operation is in progress")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrInvalidRole       = errors.New("role must be customer or worker")
)
