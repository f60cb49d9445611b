package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/karigar-kart/karigar-backend/internal/booking/domain"
	"github.com/karigar-kart/karigar-backend/internal/booking/repository"
	dirdomain "github.com/karigar-kart/karigar-backend/internal/directory/domain"
	dirrepo "github.com/karigar-kart/karigar-backend/internal/directory/repository"
	notifdomain "github.com/karigar-kart/karigar-backend/internal/notification/domain"
	notifservice "github.com/karigar-kart/karigar-backend/internal/notification/service"
)

// BookingService handles the booking lifecycle and reviews. Every
// status change notifies the other party through the notification
// service; a posted review recomputes the worker's aggregate rating.
type BookingService struct {
	bookings  repository.BookingRepository
	reviews   repository.ReviewRepository
	directory dirrepo.Directory
	notifier  *notifservice.NotificationService
}

func NewBookingService(
	bookings repository.BookingRepository,
	reviews repository.ReviewRepository,
	directory dirrepo.Directory,
	notifier *notifservice.NotificationService,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		reviews:   reviews,
		directory: directory,
		notifier:  notifier,
	}
}

// Create places a pending booking and notifies the worker.
func (s *BookingService) Create(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	if !dirdomain.ValidCategory(req.Category) {
		return nil, domain.ErrInvalidCategory
	}

	worker, err := s.directory.GetWorker(ctx, req.WorkerID)
	if err != nil {
		return nil, err
	}
	if !worker.HasSkill(req.Category) {
		return nil, domain.ErrWorkerLacksCategory
	}

	b := &domain.Booking{
		CustomerID:  req.CustomerID,
		WorkerID:    req.WorkerID,
		Category:    req.Category,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
		Status:      domain.StatusPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.notify(ctx, notifdomain.CreateNotificationRequest{
		RecipientID:     b.WorkerID,
		RecipientRole:   "worker",
		Message:         fmt.Sprintf("New %s booking request for %s", b.Category, b.ScheduledAt.Format("Jan 2, 3:04 PM")),
		CustomerName:    req.CustomerName,
		WorkerName:      worker.Name,
		ServiceCategory: string(b.Category),
	})

	return b, nil
}

// Confirm moves a pending booking to confirmed. Only the booked worker
// may confirm.
func (s *BookingService) Confirm(ctx context.Context, bookingID, workerID string) (*domain.Booking, error) {
	return s.transition(ctx, bookingID, workerID, false, domain.StatusConfirmed,
		"Your booking was confirmed")
}

// Complete moves a confirmed booking to completed and bumps the
// worker's jobs-done count.
func (s *BookingService) Complete(ctx context.Context, bookingID, workerID string) (*domain.Booking, error) {
	b, err := s.transition(ctx, bookingID, workerID, false, domain.StatusCompleted,
		"Your booking was marked completed - you can now leave a review")
	if err != nil {
		return nil, err
	}

	if worker, werr := s.directory.GetWorker(ctx, b.WorkerID); werr == nil {
		worker.JobsDone++
		if uerr := s.directory.UpdateWorker(ctx, worker); uerr != nil {
			log.Printf("booking: bump jobs done for %s: %v", worker.ID, uerr)
		}
	}
	return b, nil
}

// Cancel cancels a pending or confirmed booking. Either party may
// cancel their own booking.
func (s *BookingService) Cancel(ctx context.Context, bookingID, callerID string) (*domain.Booking, error) {
	return s.transition(ctx, bookingID, callerID, true, domain.StatusCancelled,
		"Your booking was cancelled")
}

// ListForCustomer returns a customer's bookings, optionally filtered
// by status (the history page's tabs).
func (s *BookingService) ListForCustomer(ctx context.Context, customerID string, status domain.BookingStatus) ([]domain.Booking, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidTransition
	}
	return s.bookings.ListByCustomer(ctx, customerID, status)
}

// ListForWorker returns a worker's bookings, optionally filtered by
// status.
func (s *BookingService) ListForWorker(ctx context.Context, workerID string, status domain.BookingStatus) ([]domain.Booking, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidTransition
	}
	return s.bookings.ListByWorker(ctx, workerID, status)
}

// Review posts a review for a completed booking owned by the caller,
// recomputes the worker's aggregate rating and notifies the worker.
func (s *BookingService) Review(ctx context.Context, req *domain.CreateReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	b, err := s.bookings.Get(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != req.CustomerID {
		return nil, domain.ErrNotBookingOwner
	}
	if b.Status != domain.StatusCompleted {
		return nil, domain.ErrBookingNotCompleted
	}
	if _, err := s.reviews.GetByBooking(ctx, req.BookingID); err == nil {
		return nil, domain.ErrAlreadyReviewed
	}

	rv := &domain.Review{
		BookingID:  req.BookingID,
		CustomerID: req.CustomerID,
		WorkerID:   b.WorkerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}

	s.recomputeRating(ctx, b.WorkerID)

	s.notify(ctx, notifdomain.CreateNotificationRequest{
		RecipientID:     b.WorkerID,
		RecipientRole:   "worker",
		Message:         fmt.Sprintf("You received a %d-star review", req.Rating),
		ServiceCategory: string(b.Category),
	})

	return rv, nil
}

// ExpireStalePending cancels pending bookings scheduled before the
// cutoff and notifies the customers. Returns how many were cancelled.
func (s *BookingService) ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.bookings.ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		b := stale[i]
		b.Status = domain.StatusCancelled
		if err := s.bookings.Update(ctx, &b); err != nil {
			log.Printf("booking: expire %s: %v", b.ID, err)
			continue
		}
		expired++

		s.notify(ctx, notifdomain.CreateNotificationRequest{
			RecipientID:     b.CustomerID,
			RecipientRole:   "customer",
			Message:         fmt.Sprintf("Your %s booking expired without confirmation and was cancelled", b.Category),
			ServiceCategory: string(b.Category),
		})
	}
	return expired, nil
}

// transition loads, checks ownership, validates the status change,
// persists it and notifies the customer.
func (s *BookingService) transition(ctx context.Context, bookingID, callerID string, allowCustomer bool, to domain.BookingStatus, message string) (*domain.Booking, error) {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	owner := b.WorkerID == callerID
	if allowCustomer {
		owner = owner || b.CustomerID == callerID
	}
	if !owner {
		return nil, domain.ErrNotBookingOwner
	}

	if !domain.CanTransition(b.Status, to) {
		return nil, domain.ErrInvalidTransition
	}

	b.Status = to
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	workerName := ""
	if worker, werr := s.directory.GetWorker(ctx, b.WorkerID); werr == nil {
		workerName = worker.Name
	}

	s.notify(ctx, notifdomain.CreateNotificationRequest{
		RecipientID:     b.CustomerID,
		RecipientRole:   "customer",
		Message:         message,
		WorkerName:      workerName,
		ServiceCategory: string(b.Category),
	})
	return b, nil
}

// notify is best-effort: a failed notification never fails the booking
// operation.
func (s *BookingService) notify(ctx context.Context, req notifdomain.CreateNotificationRequest) {
	if _, err := s.notifier.Add(ctx, &req); err != nil {
		log.Printf("booking: notify %s: %v", req.RecipientID, err)
	}
}

// recomputeRating averages all reviews for the worker into the
// directory record.
func (s *BookingService) recomputeRating(ctx context.Context, workerID string) {
	reviews, err := s.reviews.ListByWorker(ctx, workerID)
	if err != nil || len(reviews) == 0 {
		return
	}

	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
	}
	avg := float64(sum) / float64(len(reviews))

	worker, err := s.directory.GetWorker(ctx, workerID)
	if err != nil {
		return
	}
	worker.Rating = avg
	if err := s.directory.UpdateWorker(ctx, worker); err != nil {
		log.Printf("booking: update rating for %s: %v", workerID, err)
	}
}
