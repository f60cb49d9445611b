package repository

import (
	"context"
	"time"

	"github.com/karigar-kart/karigar-backend/internal/booking/domain"
)

// BookingRepository stores bookings. An empty status filter on the
// list calls means every status.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	Get(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	ListByCustomer(ctx context.Context, customerID string, status domain.BookingStatus) ([]domain.Booking, error)
	ListByWorker(ctx context.Context, workerID string, status domain.BookingStatus) ([]domain.Booking, error)
	// ListStalePending returns pending bookings whose scheduled time is
	// before the cutoff; used by the nightly sweep.
	ListStalePending(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
}

// ReviewRepository stores reviews, at most one per booking.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	GetByBooking(ctx context.Context, bookingID string) (*domain.Review, error)
	ListByWorker(ctx context.Context, workerID string) ([]domain.Review, error)
}
