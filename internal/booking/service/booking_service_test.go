package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karigar-kart/karigar-backend/internal/booking/domain"
	bookingrepo "github.com/karigar-kart/karigar-backend/internal/booking/repository"
	dirdomain "github.com/karigar-kart/karigar-backend/internal/directory/domain"
	dirrepo "github.com/karigar-kart/karigar-backend/internal/directory/repository"
	notifrepo "github.com/karigar-kart/karigar-backend/internal/notification/repository"
	notifservice "github.com/karigar-kart/karigar-backend/internal/notification/service"
)

type bookingFixture struct {
	svc           *BookingService
	directory     *dirrepo.MemoryDirectory
	notifications *notifservice.NotificationService
}

func setupBookingService(t *testing.T) *bookingFixture {
	t.Helper()
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	directory := dirrepo.NewMemoryDirectory()
	dirrepo.Seed(ctx, directory)

	notifications := notifservice.NewNotificationService(ctx, notifrepo.NewRedisKV(client))

	svc := NewBookingService(
		bookingrepo.NewMemoryBookingRepository(),
		bookingrepo.NewMemoryReviewRepository(),
		directory,
		notifications,
	)
	return &bookingFixture{svc: svc, directory: directory, notifications: notifications}
}

func plumbingBooking() *domain.CreateBookingRequest {
	return &domain.CreateBookingRequest{
		CustomerID:   "customer-1",
		CustomerName: "Priya Sharma",
		WorkerID:     "worker-1",
		Category:     dirdomain.CategoryPlumbing,
		Description:  "Kitchen tap leaking",
		ScheduledAt:  time.Now().Add(48 * time.Hour),
	}
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("places a pending booking and notifies the worker", func(t *testing.T) {
		fx := setupBookingService(t)

		b, err := fx.svc.Create(ctx, plumbingBooking())
		require.NoError(t, err)
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, domain.StatusPending, b.Status)

		notifs := fx.notifications.ForUser("worker-1")
		require.Len(t, notifs, 1)
		assert.Contains(t, notifs[0].Message, "plumbing")
		assert.Equal(t, "Priya Sharma", notifs[0].CustomerName)
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		fx := setupBookingService(t)
		req := plumbingBooking()
		req.Category = "astrology"

		_, err := fx.svc.Create(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	})

	t.Run("rejects a worker without the skill", func(t *testing.T) {
		fx := setupBookingService(t)
		req := plumbingBooking()
		req.WorkerID = "worker-4" // cleaning only

		_, err := fx.svc.Create(ctx, req)
		assert.ErrorIs(t, err, domain.ErrWorkerLacksCategory)
	})

	t.Run("rejects an unknown worker", func(t *testing.T) {
		fx := setupBookingService(t)
		req := plumbingBooking()
		req.WorkerID = "worker-999"

		_, err := fx.svc.Create(ctx, req)
		assert.ErrorIs(t, err, dirdomain.ErrRecordNotFound)
	})
}

func TestBookingService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("pending to confirmed to completed", func(t *testing.T) {
		fx := setupBookingService(t)
		b, err := fx.svc.Create(ctx, plumbingBooking())
		require.NoError(t, err)

		b, err = fx.svc.Confirm(ctx, b.ID, "worker-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, b.Status)

		before, err := fx.directory.GetWorker(ctx, "worker-1")
		require.NoError(t, err)

		b, err = fx.svc.Complete(ctx, b.ID, "worker-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, b.Status)

		after, err := fx.directory.GetWorker(ctx, "worker-1")
		require.NoError(t, err)
		assert.Equal(t, before.JobsDone+1, after.JobsDone)

		// The customer heard about both transitions.
		assert.Len(t, fx.notifications.ForUser("customer-1"), 2)
	})

	t.Run("only the booked worker may confirm", func(t *testing.T) {
		fx := setupBookingService(t)
		b, err := fx.svc.Create(ctx, plumbingBooking())
		require.NoError(t, err)

		_, err = fx.svc.Confirm(ctx, b.ID, "worker-2")
		assert.ErrorIs(t, err, domain.ErrNotBookingOwner)

		_, err = fx.svc.Confirm(ctx, b.ID, "customer-1")
		assert.ErrorIs(t, err, domain.ErrNotBookingOwner)
	})

	t.Run("cannot complete a pending booking", func(t *testing.T) {
		fx := setupBookingService(t)
		b, err := fx.svc.Create(ctx, plumbingBooking())
		require.NoError(t, err)

		_, err = fx.svc.Complete(ctx, b.ID, "worker-1")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("either party may cancel, completed cannot be cancelled", func(t *testing.T) {
		fx := setupBookingService(t)

		b1, err := fx.svc.Create(ctx, plumbingBooking())
		require.NoError(t, err)
		_, err = fx.svc.Cancel(ctx, b1.ID, "customer-1")
		require.NoError(t, err)

		b2, err := fx.svc.Create(ctx, plumbingBooking())
		require.NoError(t, err)
		_, err = fx.svc.Cancel(ctx, b2.ID, "worker-1")
		require.NoError(t, err)

		b3, err := fx.svc.Create(ctx, plumbingBooking())
		require.NoError(t, err)
		_, err = fx.svc.Confirm(ctx, b3.ID, "worker-1")
		require.NoError(t, err)
		_, err = fx.svc.Complete(ctx, b3.ID, "worker-1")
		require.NoError(t, err)

		_, err = fx.svc.Cancel(ctx, b3.ID, "customer-1")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("unknown booking", func(t *testing.T) {
		fx := setupBookingService(t)
		_, err := fx.svc.Confirm(ctx, "nope", "worker-1")
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})
}

func TestBookingService_List(t *testing.T) {
	ctx := context.Background()
	fx := setupBookingService(t)

	b1, err := fx.svc.Create(ctx, plumbingBooking())
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, plumbingBooking())
	require.NoError(t, err)
	_, err = fx.svc.Confirm(ctx, b1.ID, "worker-1")
	require.NoError(t, err)

	all, err := fx.svc.ListForCustomer(ctx, "customer-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := fx.svc.ListForCustomer(ctx, "customer-1", domain.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	byWorker, err := fx.svc.ListForWorker(ctx, "worker-1", domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Len(t, byWorker, 1)

	_, err = fx.svc.ListForCustomer(ctx, "customer-1", "weird")
	assert.Error(t, err)
}

func TestBookingService_Review(t *testing.T) {
	ctx := context.Background()

	completedBooking := func(t *testing.T, fx *bookingFixture) *domain.Booking {
		t.Helper()
		b, err := fx.svc.Create(ctx, plumbingBooking())
		require.NoError(t, err)
		_, err = fx.svc.Confirm(ctx, b.ID, "worker-1")
		require.NoError(t, err)
		b, err = fx.svc.Complete(ctx, b.ID, "worker-1")
		require.NoError(t, err)
		return b
	}

	t.Run("posts the review and recomputes the rating", func(t *testing.T) {
		fx := setupBookingService(t)
		b := completedBooking(t, fx)

		rv, err := fx.svc.Review(ctx, &domain.CreateReviewRequest{
			BookingID:  b.ID,
			CustomerID: "customer-1",
			Rating:     3,
			Comment:    "Decent work, arrived late",
		})
		require.NoError(t, err)
		assert.Equal(t, "worker-1", rv.WorkerID)

		// The single review replaces the seeded aggregate.
		w, err := fx.directory.GetWorker(ctx, "worker-1")
		require.NoError(t, err)
		assert.InDelta(t, 3.0, w.Rating, 0.001)

		// Second review averages in.
		b2 := completedBooking(t, fx)
		_, err = fx.svc.Review(ctx, &domain.CreateReviewRequest{
			BookingID: b2.ID, CustomerID: "customer-1", Rating: 5,
		})
		require.NoError(t, err)

		w, err = fx.directory.GetWorker(ctx, "worker-1")
		require.NoError(t, err)
		assert.InDelta(t, 4.0, w.Rating, 0.001)

		// And the worker is told.
		var reviewNotes int
		for _, n := range fx.notifications.ForUser("worker-1") {
			if n.Message == "You received a 3-star review" || n.Message == "You received a 5-star review" {
				reviewNotes++
			}
		}
		assert.Equal(t, 2, reviewNotes)
	})

	t.Run("rating bounds", func(t *testing.T) {
		fx := setupBookingService(t)
		b := completedBooking(t, fx)

		for _, rating := range []int{0, 6, -1} {
			_, err := fx.svc.Review(ctx, &domain.CreateReviewRequest{
				BookingID: b.ID, CustomerID: "customer-1", Rating: rating,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidRating)
		}
	})

	t.Run("only the booking's customer may review", func(t *testing.T) {
		fx := setupBookingService(t)
		b := completedBooking(t, fx)

		_, err := fx.svc.Review(ctx, &domain.CreateReviewRequest{
			BookingID: b.ID, CustomerID: "customer-2", Rating: 4,
		})
		assert.ErrorIs(t, err, domain.ErrNotBookingOwner)
	})

	t.Run("only completed bookings can be reviewed", func(t *testing.T) {
		fx := setupBookingService(t)
		b, err := fx.svc.Create(ctx, plumbingBooking())
		require.NoError(t, err)

		_, err = fx.svc.Review(ctx, &domain.CreateReviewRequest{
			BookingID: b.ID, CustomerID: "customer-1", Rating: 4,
		})
		assert.ErrorIs(t, err, domain.ErrBookingNotCompleted)
	})

	t.Run("one review per booking", func(t *testing.T) {
		fx := setupBookingService(t)
		b := completedBooking(t, fx)

		_, err := fx.svc.Review(ctx, &domain.CreateReviewRequest{
			BookingID: b.ID, CustomerID: "customer-1", Rating: 4,
		})
		require.NoError(t, err)

		_, err = fx.svc.Review(ctx, &domain.CreateReviewRequest{
			BookingID: b.ID, CustomerID: "customer-1", Rating: 2,
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
	})
}

func TestBookingService_ExpireStalePending(t *testing.T) {
	ctx := context.Background()
	fx := setupBookingService(t)

	// One booking in the past, one in the future, one past but already
	// confirmed.
	past := plumbingBooking()
	past.ScheduledAt = time.Now().Add(-48 * time.Hour)
	stale, err := fx.svc.Create(ctx, past)
	require.NoError(t, err)

	future, err := fx.svc.Create(ctx, plumbingBooking())
	require.NoError(t, err)

	pastConfirmed := plumbingBooking()
	pastConfirmed.ScheduledAt = time.Now().Add(-48 * time.Hour)
	confirmed, err := fx.svc.Create(ctx, pastConfirmed)
	require.NoError(t, err)
	_, err = fx.svc.Confirm(ctx, confirmed.ID, "worker-1")
	require.NoError(t, err)

	expired, err := fx.svc.ExpireStalePending(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	cancelled, err := fx.svc.ListForCustomer(ctx, "customer-1", domain.StatusCancelled)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, stale.ID, cancelled[0].ID)

	pending, err := fx.svc.ListForCustomer(ctx, "customer-1", domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, future.ID, pending[0].ID)

	// The customer was told the stale one expired.
	var expiredNotes int
	for _, n := range fx.notifications.ForUser("customer-1") {
		if n.Message == "Your plumbing booking expired without confirmation and was cancelled" {
			expiredNotes++
		}
	}
	assert.Equal(t, 1, expiredNotes)
}
