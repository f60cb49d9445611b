package domain

import (
	"time"

	dirdomain "github.com/karigar-kart/karigar-backend/internal/directory/domain"
)

// BookingStatus lifecycle: pending -> confirmed -> completed, with
// cancellation allowed from pending or confirmed.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from one status to
// another.
func CanTransition(from, to BookingStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// Booking is a customer's request for a worker's service.
type Booking struct {
	ID          string                    `json:"id"`
	CustomerID  string                    `json:"customer_id"`
	WorkerID    string                    `json:"worker_id"`
	Category    dirdomain.ServiceCategory `json:"category"`
	Description string                    `json:"description,omitempty"`
	ScheduledAt time.Time                 `json:"scheduled_at"`
	Status      BookingStatus             `json:"status"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// Review rates a completed booking. One review per booking.
type Review struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	CustomerID string    `json:"customer_id"`
	WorkerID   string    `json:"worker_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateBookingRequest carries the fields a customer supplies.
// CustomerName rides along so the worker's notification can say who
// booked them without another directory round-trip.
type CreateBookingRequest struct {
	CustomerID   string
	CustomerName string
	WorkerID     string
	Category     dirdomain.ServiceCategory
	Description  string
	ScheduledAt  time.Time
}

// CreateReviewRequest carries the fields a customer supplies for a
// review of a completed booking.
type CreateReviewRequest struct {
	BookingID  string
	CustomerID string
	Rating     int
	Comment    string
}
