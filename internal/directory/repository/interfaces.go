package repository

import (
	"context"

	"github.com/karigar-kart/karigar-backend/internal/directory/domain"
)

// Directory is the user directory used for role detection, profile
// completeness checks and worker discovery. At most one record per
// email exists per role table; lookups use the exact email string.
type Directory interface {
	FindCustomerByEmail(ctx context.Context, email string) (*domain.CustomerRecord, error)
	FindWorkerByEmail(ctx context.Context, email string) (*domain.WorkerRecord, error)
	InsertCustomer(ctx context.Context, c *domain.CustomerRecord) error
	InsertWorker(ctx context.Context, w *domain.WorkerRecord) error
	UpdateCustomer(ctx context.Context, c *domain.CustomerRecord) error
	UpdateWorker(ctx context.Context, w *domain.WorkerRecord) error
	GetWorker(ctx context.Context, id string) (*domain.WorkerRecord, error)
	ListWorkers(ctx context.Context) ([]domain.WorkerRecord, error)
}
