package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karigar-kart/karigar-backend/internal/directory/domain"
)

// MemoryDirectory is a mutex-guarded in-memory directory. It backs the
// service when no database is configured and is the fixture of choice
// in tests.
type MemoryDirectory struct {
	mu        sync.RWMutex
	customers []domain.CustomerRecord
	workers   []domain.WorkerRecord
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{}
}

func (d *MemoryDirectory) FindCustomerByEmail(_ context.Context, email string) (*domain.CustomerRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for i := range d.customers {
		if d.customers[i].Email == email {
			c := d.customers[i]
			return &c, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (d *MemoryDirectory) FindWorkerByEmail(_ context.Context, email string) (*domain.WorkerRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for i := range d.workers {
		if d.workers[i].Email == email {
			w := cloneWorker(d.workers[i])
			return &w, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (d *MemoryDirectory) InsertCustomer(ctx context.Context, c *domain.CustomerRecord) error {
	if _, err := d.FindCustomerByEmail(ctx, c.Email); err == nil {
		return domain.ErrEmailTaken
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	d.customers = append(d.customers, *c)
	return nil
}

func (d *MemoryDirectory) InsertWorker(ctx context.Context, w *domain.WorkerRecord) error {
	if _, err := d.FindWorkerByEmail(ctx, w.Email); err == nil {
		return domain.ErrEmailTaken
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	now := time.Now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now

	d.workers = append(d.workers, cloneWorker(*w))
	return nil
}

func (d *MemoryDirectory) UpdateCustomer(_ context.Context, c *domain.CustomerRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.customers {
		if d.customers[i].ID == c.ID {
			c.UpdatedAt = time.Now()
			c.CreatedAt = d.customers[i].CreatedAt
			d.customers[i] = *c
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

func (d *MemoryDirectory) UpdateWorker(_ context.Context, w *domain.WorkerRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.workers {
		if d.workers[i].ID == w.ID {
			w.UpdatedAt = time.Now()
			w.CreatedAt = d.workers[i].CreatedAt
			d.workers[i] = cloneWorker(*w)
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

func (d *MemoryDirectory) GetWorker(_ context.Context, id string) (*domain.WorkerRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for i := range d.workers {
		if d.workers[i].ID == id {
			w := cloneWorker(d.workers[i])
			return &w, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (d *MemoryDirectory) ListWorkers(_ context.Context) ([]domain.WorkerRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]domain.WorkerRecord, 0, len(d.workers))
	for i := range d.workers {
		out = append(out, cloneWorker(d.workers[i]))
	}
	return out, nil
}

// cloneWorker copies the record including its skills slice so callers
// never share backing storage with the directory.
func cloneWorker(w domain.WorkerRecord) domain.WorkerRecord {
	skills := make([]domain.ServiceCategory, len(w.Skills))
	copy(skills, w.Skills)
	w.Skills = skills
	return w
}
