package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxUserEmail   = "email"
)

// UserFirebaseUID extracts the Firebase UID from the Gin context.
// This is set by FirebaseAuthMiddleware (or DevAuth in development).
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// UserEmail extracts the caller's email from the Gin context.
func UserEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserEmail))
}
