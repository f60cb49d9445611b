package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	dirdomain "github.com/karigar-kart/karigar-backend/internal/directory/domain"
	"github.com/karigar-kart/karigar-backend/internal/identity"
	"github.com/karigar-kart/karigar-backend/internal/session/domain"
	"github.com/karigar-kart/karigar-backend/internal/session/otp"
)

// Login signs in and returns the session plus the navigation target.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Signup verifies the OTP code, creates the account and returns the
// new (always incomplete) session.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, password, name, role and otp_code are required"})
		return
	}

	if err := h.otp.Verify(c.Request.Context(), req.Email, req.OTPCode); err != nil {
		if errors.Is(err, otp.ErrCodeMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify code"})
		return
	}

	result, err := h.sessions.Signup(c.Request.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Logout clears the session; always navigates to /login.
func (h *Handler) Logout(c *gin.Context) {
	result, err := h.sessions.Logout(c.Request.Context())
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSession returns the current session, or 401.
func (h *Handler) GetSession(c *gin.Context) {
	sess := h.sessions.Current()
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess, "loading": h.sessions.Loading()})
}

// MarkProfileComplete recomputes completeness from the directory. The
// flag stays false when the directory disagrees with the caller.
func (h *Handler) MarkProfileComplete(c *gin.Context) {
	sess, err := h.sessions.MarkProfileComplete(c.Request.Context())
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// UpdateProfile updates the caller's directory record per role and
// returns the refreshed session.
func (h *Handler) UpdateProfile(c *gin.Context) {
	cur := h.sessions.Current()
	if cur == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var sess *domain.Session
	var err error
	switch cur.Role {
	case domain.RoleWorker:
		sess, err = h.sessions.UpdateWorkerProfile(c.Request.Context(),
			req.Skills, req.Bio, req.HourlyRate, req.Area, req.Phone)
	default:
		sess, err = h.sessions.UpdateCustomerProfile(c.Request.Context(), req.Address, req.Phone)
	}
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// RequestOTP issues a signup verification code. The mock flow returns
// the code in the response; real delivery would go out-of-band.
func (h *Handler) RequestOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	code, err := h.otp.Request(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code})
}

// VerifyOTP checks a code without signing up; used by the two-step UI.
// Note the code is consumed on success, so the client must request a
// fresh one before calling signup again.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req otpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and code are required"})
		return
	}

	if err := h.otp.Verify(c.Request.Context(), req.Email, req.Code); err != nil {
		if errors.Is(err, otp.ErrCodeMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}

// writeAuthError converts service errors into user-visible responses.
func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, identity.ErrEmailInUse), errors.Is(err, dirdomain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "an account with that email already exists"})
	case errors.Is(err, identity.ErrProviderUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOperationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dirdomain.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
