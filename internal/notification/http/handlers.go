package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karigar-kart/karigar-backend/internal/auth"
	dirrepo "github.com/karigar-kart/karigar-backend/internal/directory/repository"
	"github.com/karigar-kart/karigar-backend/internal/notification/service"
	sessionservice "github.com/karigar-kart/karigar-backend/internal/session/service"
)

// Handler serves the notification bell: the badge count and the feed,
// plus the read-state mutations.
type Handler struct {
	notifications *service.NotificationService
	sessions      *sessionservice.SessionService
	directory     dirrepo.Directory
}

func New(notifications *service.NotificationService, sessions *sessionservice.SessionService, directory dirrepo.Directory) *Handler {
	return &Handler{
		notifications: notifications,
		sessions:      sessions,
		directory:     directory,
	}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unread-count", h.UnreadCount)
	rg.POST("/:id/read", h.MarkAsRead)
	rg.POST("/read-all", h.MarkAllAsRead)
}

// List returns the caller's notifications, most recent first.
func (h *Handler) List(c *gin.Context) {
	recipientID, ok := h.recipient(c)
	if !ok {
		return
	}

	list := h.notifications.ForUser(recipientID)
	c.JSON(http.StatusOK, gin.H{"notifications": list, "count": len(list)})
}

// UnreadCount returns the badge number.
func (h *Handler) UnreadCount(c *gin.Context) {
	recipientID, ok := h.recipient(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": h.notifications.UnreadCount(recipientID)})
}

// MarkAsRead marks one notification read. Unknown ids are fine: the
// operation is an idempotent no-op.
func (h *Handler) MarkAsRead(c *gin.Context) {
	if _, ok := h.recipient(c); !ok {
		return
	}

	h.notifications.MarkAsRead(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MarkAllAsRead clears the caller's badge.
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	recipientID, ok := h.recipient(c)
	if !ok {
		return
	}

	h.notifications.MarkAllAsRead(c.Request.Context(), recipientID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// recipient resolves the caller's directory record id, which is what
// notifications are addressed to. The email comes from the auth
// middleware when present, otherwise from the active session.
func (h *Handler) recipient(c *gin.Context) (string, bool) {
	email := auth.UserEmail(c)
	if email == "" {
		sess := h.sessions.Current()
		if sess == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return "", false
		}
		email = sess.Email
	}

	if w, err := h.directory.FindWorkerByEmail(c.Request.Context(), email); err == nil {
		return w.ID, true
	}

	cu, err := h.directory.FindCustomerByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return "", false
	}
	return cu.ID, true
}
