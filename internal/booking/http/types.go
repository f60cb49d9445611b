package http

import (
	"time"

	"github.com/karigar-kart/karigar-backend/internal/booking/service"
	dirdomain "github.com/karigar-kart/karigar-backend/internal/directory/domain"
	dirrepo "github.com/karigar-kart/karigar-backend/internal/directory/repository"
	sessionservice "github.com/karigar-kart/karigar-backend/internal/session/service"
)

type Handler struct {
	bookings  *service.BookingService
	sessions  *sessionservice.SessionService
	directory dirrepo.Directory
}

func New(bookings *service.BookingService, sessions *sessionservice.SessionService, directory dirrepo.Directory) *Handler {
	return &Handler{
		bookings:  bookings,
		sessions:  sessions,
		directory: directory,
	}
}

type createBookingRequest struct {
	WorkerID    string                    `json:"worker_id" binding:"required"`
	Category    dirdomain.ServiceCategory `json:"category" binding:"required"`
	Description string                    `json:"description,omitempty"`
	ScheduledAt time.Time                 `json:"scheduled_at" binding:"required"`
}

type createReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment,omitempty"`
}
