package domain

import "errors"

var (
	ErrRecordNotFound = errors.New("directory record not found")
	ErrEmailTaken     = errors.New("directory record with that email already exists")
)
