package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karigar-kart/karigar-backend/internal/auth"
	"github.com/karigar-kart/karigar-backend/internal/booking/domain"
	dirdomain "github.com/karigar-kart/karigar-backend/internal/directory/domain"
	sessiondomain "github.com/karigar-kart/karigar-backend/internal/session/domain"
)

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.POST("/:id/confirm", h.Confirm)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/cancel", h.Cancel)
	rg.POST("/:id/review", h.Review)
}

// Create places a booking for the signed-in customer.
func (h *Handler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if caller.role != sessiondomain.RoleCustomer {
		c.JSON(http.StatusForbidden, gin.H{"error": "only customers can place bookings"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "worker_id, category and scheduled_at are required"})
		return
	}

	b, err := h.bookings.Create(c.Request.Context(), &domain.CreateBookingRequest{
		CustomerID:   caller.id,
		CustomerName: caller.name,
		WorkerID:     req.WorkerID,
		Category:     req.Category,
		Description:  req.Description,
		ScheduledAt:  req.ScheduledAt,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// List returns the caller's booking history, optionally filtered with
// ?status= (the history page's tabs).
func (h *Handler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	status := domain.BookingStatus(c.Query("status"))
	if status != "" && !domain.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown booking status"})
		return
	}

	var bookings []domain.Booking
	var err error
	if caller.role == sessiondomain.RoleWorker {
		bookings, err = h.bookings.ListForWorker(c.Request.Context(), caller.id, status)
	} else {
		bookings, err = h.bookings.ListForCustomer(c.Request.Context(), caller.id, status)
	}
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// Confirm lets the booked worker accept a pending booking.
func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, h.bookings.Confirm)
}

// Complete lets the booked worker finish a confirmed booking.
func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, h.bookings.Complete)
}

// Cancel lets either party cancel a pending or confirmed booking.
func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, h.bookings.Cancel)
}

// Review posts a review on the caller's completed booking.
func (h *Handler) Review(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if caller.role != sessiondomain.RoleCustomer {
		c.JSON(http.StatusForbidden, gin.H{"error": "only customers can post reviews"})
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating is required"})
		return
	}

	rv, err := h.bookings.Review(c.Request.Context(), &domain.CreateReviewRequest{
		BookingID:  c.Param("id"),
		CustomerID: caller.id,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": rv})
}

type callerInfo struct {
	id   string
	name string
	role sessiondomain.UserRole
}

// caller resolves the signed-in user's directory record. The join key
// is the email: the one the auth middleware verified when present,
// otherwise the active session's. Role follows worker-directory
// membership, matching how the session detects it.
func (h *Handler) caller(c *gin.Context) (callerInfo, bool) {
	email := auth.UserEmail(c)
	if email == "" {
		sess := h.sessions.Current()
		if sess == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return callerInfo{}, false
		}
		email = sess.Email
	}

	if w, err := h.directory.FindWorkerByEmail(c.Request.Context(), email); err == nil {
		return callerInfo{id: w.ID, name: w.Name, role: sessiondomain.RoleWorker}, true
	}

	cu, err := h.directory.FindCustomerByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return callerInfo{}, false
	}
	return callerInfo{id: cu.ID, name: cu.Name, role: sessiondomain.RoleCustomer}, true
}

func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, bookingID, callerID string) (*domain.Booking, error)) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	b, err := op(c.Request.Context(), c.Param("id"), caller.id)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound), errors.Is(err, dirdomain.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrWorkerLacksCategory),
		errors.Is(err, domain.ErrBookingNotCompleted),
		errors.Is(err, domain.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotBookingOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "booking operation failed"})
	}
}
