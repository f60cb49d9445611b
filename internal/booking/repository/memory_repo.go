package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karigar-kart/karigar-backend/internal/booking/domain"
)

// MemoryBookingRepository is the in-memory booking store used when no
// database is configured, and as the test fixture.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings []domain.Booking
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{}
}

func (r *MemoryBookingRepository) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *MemoryBookingRepository) Get(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.bookings {
		if r.bookings[i].ID == id {
			b := r.bookings[i]
			return &b, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

func (r *MemoryBookingRepository) Update(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.bookings {
		if r.bookings[i].ID == b.ID {
			b.UpdatedAt = time.Now()
			b.CreatedAt = r.bookings[i].CreatedAt
			r.bookings[i] = *b
			return nil
		}
	}
	return domain.ErrBookingNotFound
}

func (r *MemoryBookingRepository) ListByCustomer(_ context.Context, customerID string, status domain.BookingStatus) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(b domain.Booking) bool {
		return b.CustomerID == customerID && (status == "" || b.Status == status)
	}), nil
}

func (r *MemoryBookingRepository) ListByWorker(_ context.Context, workerID string, status domain.BookingStatus) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(b domain.Booking) bool {
		return b.WorkerID == workerID && (status == "" || b.Status == status)
	}), nil
}

func (r *MemoryBookingRepository) ListStalePending(_ context.Context, cutoff time.Time) ([]domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(b domain.Booking) bool {
		return b.Status == domain.StatusPending && b.ScheduledAt.Before(cutoff)
	}), nil
}

// filter returns matches newest-first. Callers hold r.mu.
func (r *MemoryBookingRepository) filter(keep func(domain.Booking) bool) []domain.Booking {
	var out []domain.Booking
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// MemoryReviewRepository is the in-memory review store.
type MemoryReviewRepository struct {
	mu      sync.RWMutex
	reviews []domain.Review
}

func NewMemoryReviewRepository() *MemoryReviewRepository {
	return &MemoryReviewRepository{}
}

func (r *MemoryReviewRepository) Create(_ context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.reviews {
		if r.reviews[i].BookingID == rv.BookingID {
			return domain.ErrAlreadyReviewed
		}
	}

	if rv.ID == "" {
		rv.ID = uuid.New().String()
	}
	rv.CreatedAt = time.Now()

	r.reviews = append(r.reviews, *rv)
	return nil
}

func (r *MemoryReviewRepository) GetByBooking(_ context.Context, bookingID string) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.reviews {
		if r.reviews[i].BookingID == bookingID {
			rv := r.reviews[i]
			return &rv, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

func (r *MemoryReviewRepository) ListByWorker(_ context.Context, workerID string) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Review
	for _, rv := range r.reviews {
		if rv.WorkerID == workerID {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
