package bootstrap

import (
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpapi "github.com/karigar-kart/karigar-backend/internal/api/http"
	apimiddleware "github.com/karigar-kart/karigar-backend/internal/api/http/middleware"
	authmiddleware "github.com/karigar-kart/karigar-backend/internal/auth/middleware"
	bookinghttp "github.com/karigar-kart/karigar-backend/internal/booking/http"
	bookingservice "github.com/karigar-kart/karigar-backend/internal/booking/service"
	cataloghttp "github.com/karigar-kart/karigar-backend/internal/catalog/http"
	catalogservice "github.com/karigar-kart/karigar-backend/internal/catalog/service"
	dirrepo "github.com/karigar-kart/karigar-backend/internal/directory/repository"
	notifhttp "github.com/karigar-kart/karigar-backend/internal/notification/http"
	notifservice "github.com/karigar-kart/karigar-backend/internal/notification/service"
	sessionhttp "github.com/karigar-kart/karigar-backend/internal/session/http"
	"github.com/karigar-kart/karigar-backend/internal/session/otp"
	sessionservice "github.com/karigar-kart/karigar-backend/internal/session/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string

	DB    *pgxpool.Pool
	Redis *redis.Client

	// AuthClient is nil when Firebase is not configured; the dev
	// header-based auth is used instead.
	AuthClient *fbauth.Client

	Directory     dirrepo.Directory
	Sessions      *sessionservice.SessionService
	Notifications *notifservice.NotificationService
	Bookings      *bookingservice.BookingService
	OTP           *otp.Store
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(apimiddleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	// OTP requests are the cheapest thing to abuse; one code per two
	// seconds per client is plenty for a signup flow.
	otpLimiter := apimiddleware.NewRateLimiter(rate.Limit(0.5), 3)

	sessionHandler := sessionhttp.New(dep.Sessions, dep.OTP)
	sessionHandler.Register(api.Group("/auth"), otpLimiter)

	catalogHandler := cataloghttp.New(catalogservice.NewCatalogService(dep.Directory))
	catalogHandler.Register(api.Group("/workers"))

	authed := api.Group("")
	if dep.AuthClient != nil {
		authed.Use(authmiddleware.FirebaseAuthMiddleware(dep.AuthClient))
	} else {
		authed.Use(authmiddleware.DevAuth())
	}

	bookingHandler := bookinghttp.New(dep.Bookings, dep.Sessions, dep.Directory)
	bookingHandler.Register(authed.Group("/bookings"))

	notifHandler := notifhttp.New(dep.Notifications, dep.Sessions, dep.Directory)
	notifHandler.Register(authed.Group("/notifications"))

	return r
}
