package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karigar-kart/karigar-backend/internal/booking/domain"
)

// PostgresBookingRepository persists bookings in the bookings table.
type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{db: db}
}

const bookingSelect = `
	SELECT id, customer_id, worker_id, category, description, scheduled_at, status,
	       created_at, updated_at
	FROM bookings`

func (r *PostgresBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	const q = `
		INSERT INTO bookings (id, customer_id, worker_id, category, description, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, q,
		b.ID, b.CustomerID, b.WorkerID, b.Category, b.Description, b.ScheduledAt, b.Status,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *PostgresBookingRepository) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, bookingSelect+` WHERE id = $1`, id))
}

func (r *PostgresBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	const q = `
		UPDATE bookings
		SET description = $2, scheduled_at = $3, status = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, q, b.ID, b.Description, b.ScheduledAt, b.Status).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return nil
}

func (r *PostgresBookingRepository) ListByCustomer(ctx context.Context, customerID string, status domain.BookingStatus) ([]domain.Booking, error) {
	return r.list(ctx, `customer_id`, customerID, status)
}

func (r *PostgresBookingRepository) ListByWorker(ctx context.Context, workerID string, status domain.BookingStatus) ([]domain.Booking, error) {
	return r.list(ctx, `worker_id`, workerID, status)
}

func (r *PostgresBookingRepository) list(ctx context.Context, column, id string, status domain.BookingStatus) ([]domain.Booking, error) {
	q := bookingSelect + ` WHERE ` + column + ` = $1`
	args := []any{id}
	if status != "" {
		q += ` AND status = $2`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *PostgresBookingRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	const q = bookingSelect + ` WHERE status = 'pending' AND scheduled_at < $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.CustomerID, &b.WorkerID, &b.Category, &b.Description,
		&b.ScheduledAt, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return &b, nil
}

// PostgresReviewRepository persists reviews; booking_id carries a
// unique constraint so one review per booking is enforced by the DB.
type PostgresReviewRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReviewRepository(db *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (r *PostgresReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.New().String()
	}

	const q = `
		INSERT INTO reviews (id, booking_id, customer_id, worker_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, q,
		rv.ID, rv.BookingID, rv.CustomerID, rv.WorkerID, rv.Rating, rv.Comment,
	).Scan(&rv.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyReviewed
	}
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

func (r *PostgresReviewRepository) GetByBooking(ctx context.Context, bookingID string) (*domain.Review, error) {
	const q = `
		SELECT id, booking_id, customer_id, worker_id, rating, comment, created_at
		FROM reviews
		WHERE booking_id = $1
	`
	var rv domain.Review
	err := r.db.QueryRow(ctx, q, bookingID).Scan(
		&rv.ID, &rv.BookingID, &rv.CustomerID, &rv.WorkerID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &rv, nil
}

func (r *PostgresReviewRepository) ListByWorker(ctx context.Context, workerID string) ([]domain.Review, error) {
	const q = `
		SELECT id, booking_id, customer_id, worker_id, rating, comment, created_at
		FROM reviews
		WHERE worker_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, q, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.BookingID, &rv.CustomerID, &rv.WorkerID,
			&rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
