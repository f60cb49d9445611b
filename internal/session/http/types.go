package http

import (
	dirdomain "github.com/karigar-kart/karigar-backend/internal/directory/domain"
	"github.com/karigar-kart/karigar-backend/internal/session/domain"
	"github.com/karigar-kart/karigar-backend/internal/session/otp"
	"github.com/karigar-kart/karigar-backend/internal/session/service"
)

type Handler struct {
	sessions *service.SessionService
	otp      *otp.Store
}

func New(sessions *service.SessionService, otpStore *otp.Store) *Handler {
	return &Handler{
		sessions: sessions,
		otp:      otpStore,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	Email    string          `json:"email" binding:"required"`
	Password string          `json:"password" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"required"`
	OTPCode  string          `json:"otp_code" binding:"required"`
}

type otpRequest struct {
	Email string `json:"email" binding:"required"`
}

type otpVerifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type updateProfileRequest struct {
	// Customer fields
	Address string `json:"address,omitempty"`

	// Worker fields
	Skills     []dirdomain.ServiceCategory `json:"skills,omitempty"`
	Bio        string                      `json:"bio,omitempty"`
	HourlyRate float64                     `json:"hourly_rate,omitempty"`
	Area       string                      `json:"area,omitempty"`

	// Shared
	Phone string `json:"phone,omitempty"`
}
