package main

import (
	"context"
	"log"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karigar-kart/karigar-backend/config"
	bookingrepo "github.com/karigar-kart/karigar-backend/internal/booking/repository"
	bookingservice "github.com/karigar-kart/karigar-backend/internal/booking/service"
	"github.com/karigar-kart/karigar-backend/internal/bootstrap"
	cronjob "github.com/karigar-kart/karigar-backend/internal/cron"
	dirrepo "github.com/karigar-kart/karigar-backend/internal/directory/repository"
	"github.com/karigar-kart/karigar-backend/internal/identity"
	notifrepo "github.com/karigar-kart/karigar-backend/internal/notification/repository"
	notifservice "github.com/karigar-kart/karigar-backend/internal/notification/service"
	"github.com/karigar-kart/karigar-backend/internal/session/otp"
	sessionservice "github.com/karigar-kart/karigar-backend/internal/session/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	// Postgres is optional: without a DSN the service runs entirely on
	// the seeded in-memory repositories (demo mode).
	var pool *pgxpool.Pool
	var directory dirrepo.Directory
	var bookings bookingrepo.BookingRepository
	var reviews bookingrepo.ReviewRepository

	if cfg.Database.DSN != "" {
		pool, err = bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()

		directory = dirrepo.NewPostgresDirectory(pool)
		bookings = bookingrepo.NewPostgresBookingRepository(pool)
		reviews = bookingrepo.NewPostgresReviewRepository(pool)
	} else {
		log.Println("DB_DSN not set, running on seeded in-memory repositories")
		mem := dirrepo.NewMemoryDirectory()
		dirrepo.Seed(ctx, mem)
		directory = mem
		bookings = bookingrepo.NewMemoryBookingRepository()
		reviews = bookingrepo.NewMemoryReviewRepository()
	}

	// Firebase is optional in development; without credentials the
	// header-based dev auth and a nil provider guard apply.
	var authClient *fbauth.Client
	var provider identity.Provider
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err = identity.InitializeFirebase(&cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		provider = identity.NewFirebaseProvider(authClient, cfg.Firebase.WebAPIKey)
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set, using in-process identity provider")
		provider = identity.NewLocalProvider()
	}

	sessions := sessionservice.NewSessionService(provider, directory)
	notifications := notifservice.NewNotificationService(ctx, notifrepo.NewRedisKV(rdb))
	bookingSvc := bookingservice.NewBookingService(bookings, reviews, directory, notifications)
	otpStore := otp.NewStore(rdb)

	scheduler := cronjob.NewScheduler(bookingSvc)
	scheduler.Start()
	defer scheduler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:   "karigar-backend",
		Version:       cfg.App.Version,
		DB:            pool,
		Redis:         rdb,
		AuthClient:    authClient,
		Directory:     directory,
		Sessions:      sessions,
		Notifications: notifications,
		Bookings:      bookingSvc,
		OTP:           otpStore,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
