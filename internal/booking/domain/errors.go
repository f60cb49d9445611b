package domain

import "errors"

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInvalidTransition   = errors.New("invalid booking status transition")
	ErrInvalidCategory     = errors.New("unknown service category")
	ErrWorkerLacksCategory = errors.New("worker does not offer that category")
	ErrNotBookingOwner     = errors.New("booking belongs to another user")
	ErrBookingNotCompleted = errors.New("only completed bookings can be reviewed")
	ErrAlreadyReviewed     = errors.New("booking already has a review")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)
