package http

import (
	"github.com/gin-gonic/gin"

	"github.com/karigar-kart/karigar-backend/internal/api/http/middleware"
)

func (h *Handler) Register(rg *gin.RouterGroup, otpLimiter *middleware.RateLimiter) {
	rg.POST("/login", h.Login)
	rg.POST("/signup", h.Signup)
	rg.POST("/logout", h.Logout)
	rg.GET("/session", h.GetSession)
	rg.POST("/profile/complete", h.MarkProfileComplete)
	rg.PUT("/profile", h.UpdateProfile)
	rg.POST("/otp/request", otpLimiter.Middleware(), h.RequestOTP)
	rg.POST("/otp/verify", h.VerifyOTP)
}
