package domain

import "errors"

var ErrMissingRecipient = errors.New("notification recipient is required")
