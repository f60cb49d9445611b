package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	bookingservice "github.com/karigar-kart/karigar-backend/internal/booking/service"
)

// staleAfter is how long past its scheduled time a pending booking may
// sit before the nightly sweep cancels it.
const staleAfter = 24 * time.Hour

type Scheduler struct {
	bookings *bookingservice.BookingService
	cron     *cron.Cron
}

func NewScheduler(bookings *bookingservice.BookingService) *Scheduler {
	return &Scheduler{bookings: bookings}
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	// (12:00 AM)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.expireStaleBookings()
	})

	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (expiring stale bookings nightly at 12:00AM)")
	c.Start()
	s.cron = c
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) expireStaleBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-staleAfter)
	expired, err := s.bookings.ExpireStalePending(ctx, cutoff)
	if err != nil {
		log.Printf("Stale booking sweep failed: %v", err)
		return
	}
	log.Printf("Stale booking sweep done: %d cancelled at %s", expired, time.Now().Format(time.RFC1123))
}
