package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karigar-kart/karigar-backend/internal/directory/domain"
)

func TestMemoryDirectory_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDirectory()

	t.Run("insert assigns id and timestamps", func(t *testing.T) {
		w := &domain.WorkerRecord{Name: "Test Worker", Email: "tw@example.com"}
		require.NoError(t, d.InsertWorker(ctx, w))
		assert.NotEmpty(t, w.ID)
		assert.False(t, w.CreatedAt.IsZero())

		found, err := d.FindWorkerByEmail(ctx, "tw@example.com")
		require.NoError(t, err)
		assert.Equal(t, w.ID, found.ID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := d.InsertWorker(ctx, &domain.WorkerRecord{Name: "Other", Email: "tw@example.com"})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)

		c := &domain.CustomerRecord{Name: "C", Email: "c@example.com"}
		require.NoError(t, d.InsertCustomer(ctx, c))
		assert.ErrorIs(t, d.InsertCustomer(ctx, &domain.CustomerRecord{Email: "c@example.com"}), domain.ErrEmailTaken)
	})

	t.Run("misses", func(t *testing.T) {
		_, err := d.FindWorkerByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
		_, err = d.FindCustomerByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
		_, err = d.GetWorker(ctx, "worker-999")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestMemoryDirectory_Update(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDirectory()
	Seed(ctx, d)

	w, err := d.FindWorkerByEmail(ctx, "rajesh.k@example.com")
	require.NoError(t, err)
	require.False(t, w.Complete())

	w.Skills = []domain.ServiceCategory{domain.CategoryPainting}
	w.Bio = "Painter"
	require.NoError(t, d.UpdateWorker(ctx, w))

	again, err := d.FindWorkerByEmail(ctx, "rajesh.k@example.com")
	require.NoError(t, err)
	assert.True(t, again.Complete())

	t.Run("unknown record", func(t *testing.T) {
		err := d.UpdateWorker(ctx, &domain.WorkerRecord{ID: "worker-999"})
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
		err = d.UpdateCustomer(ctx, &domain.CustomerRecord{ID: "customer-999"})
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestMemoryDirectory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDirectory()
	Seed(ctx, d)

	w, err := d.FindWorkerByEmail(ctx, "anita.d@example.com")
	require.NoError(t, err)

	// Mutating the returned record must not leak into the store.
	w.Skills[0] = domain.CategoryPainting
	w.Name = "Someone Else"

	again, err := d.FindWorkerByEmail(ctx, "anita.d@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Anita Deshmukh", again.Name)
	assert.Equal(t, domain.CategoryElectrical, again.Skills[0])
}

func TestMemoryDirectory_ListWorkers(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDirectory()
	Seed(ctx, d)

	workers, err := d.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 5)
}
