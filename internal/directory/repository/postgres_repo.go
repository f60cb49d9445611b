package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karigar-kart/karigar-backend/internal/directory/domain"
)

// PostgresDirectory persists directory records in the customers and
// workers tables. Worker skills are stored as JSONB.
type PostgresDirectory struct {
	db *pgxpool.Pool
}

func NewPostgresDirectory(db *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) FindCustomerByEmail(ctx context.Context, email string) (*domain.CustomerRecord, error) {
	const q = `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM customers
		WHERE email = $1
	`
	return d.scanCustomer(d.db.QueryRow(ctx, q, email))
}

func (d *PostgresDirectory) FindWorkerByEmail(ctx context.Context, email string) (*domain.WorkerRecord, error) {
	const q = workerSelect + ` WHERE email = $1`
	return d.scanWorker(d.db.QueryRow(ctx, q, email))
}

func (d *PostgresDirectory) GetWorker(ctx context.Context, id string) (*domain.WorkerRecord, error) {
	const q = workerSelect + ` WHERE id = $1`
	return d.scanWorker(d.db.QueryRow(ctx, q, id))
}

func (d *PostgresDirectory) InsertCustomer(ctx context.Context, c *domain.CustomerRecord) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	const q = `
		INSERT INTO customers (id, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := d.db.QueryRow(ctx, q, c.ID, c.Name, c.Email, c.Phone, c.Address).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (d *PostgresDirectory) InsertWorker(ctx context.Context, w *domain.WorkerRecord) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}

	skillsJSON, err := json.Marshal(w.Skills)
	if err != nil {
		skillsJSON = []byte("[]")
	}

	const q = `
		INSERT INTO workers (id, name, email, phone, skills, bio, hourly_rate, rating, jobs_done, area)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err = d.db.QueryRow(ctx, q,
		w.ID, w.Name, w.Email, w.Phone, skillsJSON,
		w.Bio, w.HourlyRate, w.Rating, w.JobsDone, w.Area,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert worker: %w", err)
	}
	return nil
}

func (d *PostgresDirectory) UpdateCustomer(ctx context.Context, c *domain.CustomerRecord) error {
	const q = `
		UPDATE customers
		SET name = $2, phone = $3, address = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := d.db.QueryRow(ctx, q, c.ID, c.Name, c.Phone, c.Address).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (d *PostgresDirectory) UpdateWorker(ctx context.Context, w *domain.WorkerRecord) error {
	skillsJSON, err := json.Marshal(w.Skills)
	if err != nil {
		skillsJSON = []byte("[]")
	}

	const q = `
		UPDATE workers
		SET name = $2, phone = $3, skills = $4, bio = $5,
		    hourly_rate = $6, rating = $7, jobs_done = $8, area = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err = d.db.QueryRow(ctx, q,
		w.ID, w.Name, w.Phone, skillsJSON,
		w.Bio, w.HourlyRate, w.Rating, w.JobsDone, w.Area,
	).Scan(&w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update worker: %w", err)
	}
	return nil
}

func (d *PostgresDirectory) ListWorkers(ctx context.Context) ([]domain.WorkerRecord, error) {
	const q = workerSelect + ` ORDER BY rating DESC, jobs_done DESC`

	rows, err := d.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	defer rows.Close()

	var workers []domain.WorkerRecord
	for rows.Next() {
		w, err := d.scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

const workerSelect = `
	SELECT id, name, email, phone, skills, bio, hourly_rate, rating, jobs_done, area,
	       created_at, updated_at
	FROM workers`

type rowScanner interface {
	Scan(dest ...any) error
}

func (d *PostgresDirectory) scanCustomer(row rowScanner) (*domain.CustomerRecord, error) {
	var c domain.CustomerRecord
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	return &c, nil
}

func (d *PostgresDirectory) scanWorker(row rowScanner) (*domain.WorkerRecord, error) {
	var w domain.WorkerRecord
	var skillsJSON []byte

	err := row.Scan(&w.ID, &w.Name, &w.Email, &w.Phone, &skillsJSON,
		&w.Bio, &w.HourlyRate, &w.Rating, &w.JobsDone, &w.Area,
		&w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan worker: %w", err)
	}

	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &w.Skills); err != nil {
			w.Skills = nil
		}
	}
	return &w, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
